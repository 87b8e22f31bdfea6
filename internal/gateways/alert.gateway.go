package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/nimasrn/banking-gateway/pkg/prom"
	"github.com/valyala/fasthttp"
)

var (
	ErrNoAvailableProviders = errors.New("no available alert providers")
	ErrRejected             = errors.New("alert rejected by provider")
)

// AlertRequest is the body POSTed to an alert provider webhook.
type AlertRequest struct {
	EventID    string    `json:"event_id"`
	AccountID  int64     `json:"account_id"`
	Kind       string    `json:"kind"`
	Text       string    `json:"text"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AlertResponse struct {
	EventID   string `json:"event_id"`
	Accepted  bool   `json:"accepted"`
	Reference string `json:"reference,omitempty"`
	Error     string `json:"error,omitempty"`
	Provider  string `json:"-"`
}

type ProviderMetrics struct {
	TotalRequests    atomic.Int64
	SuccessfulReqs   atomic.Int64
	FailedReqs       atomic.Int64
	TotalLatencyMs   atomic.Int64
	ConsecutiveFails atomic.Int32
	LastErrorTime    atomic.Int64
	LastSuccessTime  atomic.Int64
}

func (m *ProviderMetrics) RecordSuccess(latencyMs int64) {
	m.TotalRequests.Add(1)
	m.SuccessfulReqs.Add(1)
	m.TotalLatencyMs.Add(latencyMs)
	m.ConsecutiveFails.Store(0)
	m.LastSuccessTime.Store(time.Now().Unix())
}

func (m *ProviderMetrics) RecordFailure() {
	m.TotalRequests.Add(1)
	m.FailedReqs.Add(1)
	m.ConsecutiveFails.Add(1)
	m.LastErrorTime.Store(time.Now().Unix())
}

func (m *ProviderMetrics) SuccessRate() float64 {
	total := m.TotalRequests.Load()
	if total == 0 {
		return 1.0
	}
	return float64(m.SuccessfulReqs.Load()) / float64(total)
}

func (m *ProviderMetrics) AvgLatencyMs() int64 {
	ok := m.SuccessfulReqs.Load()
	if ok == 0 {
		return 0
	}
	return m.TotalLatencyMs.Load() / ok
}

type ProviderState int

const (
	StateHealthy ProviderState = iota
	StateDegraded
	StateCircuitOpen
)

func (s ProviderState) String() string {
	switch s {
	case StateHealthy:
		return "HEALTHY"
	case StateDegraded:
		return "DEGRADED"
	case StateCircuitOpen:
		return "CIRCUIT_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Provider is one alert webhook endpoint.
type Provider struct {
	name             string
	url              string
	weight           int
	metrics          ProviderMetrics
	state            atomic.Int32
	circuitOpenUntil atomic.Int64
}

func NewProvider(name, url string, weight int) *Provider {
	if weight <= 0 {
		weight = 1
	}
	p := &Provider{name: name, url: url, weight: weight}
	p.setState(StateHealthy)
	return p
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) State() ProviderState {
	return ProviderState(p.state.Load())
}

func (p *Provider) setState(s ProviderState) {
	p.state.Store(int32(s))
	prom.SetGatewayProviderState(p.name, int(s))
}

// IsAvailable reports whether the provider may take a request. An open
// circuit half-opens into Degraded once its cooldown has passed.
func (p *Provider) IsAvailable(now time.Time) bool {
	if p.State() != StateCircuitOpen {
		return true
	}
	if now.UnixNano() >= p.circuitOpenUntil.Load() {
		p.setState(StateDegraded)
		return true
	}
	return false
}

// Score ranks available providers; higher is better.
func (p *Provider) Score() float64 {
	score := float64(p.weight) * p.metrics.SuccessRate()
	if p.State() == StateDegraded {
		score *= 0.5
	}
	return score
}

type Config struct {
	Providers               []ProviderConfig
	Timeout                 time.Duration
	MaxAttempts             int
	MaxConns                int
	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration

	// Dial overrides the client dialer; nil uses the fasthttp default.
	Dial fasthttp.DialFunc
}

type ProviderConfig struct {
	Name   string
	URL    string
	Weight int
}

// Client fans alerts out to the best available provider, failing over to
// the next one and tripping a per-provider circuit breaker.
type Client struct {
	config    Config
	http      *fasthttp.Client
	providers []*Provider
	now       func() time.Time
	mu        sync.RWMutex
}

func NewClient(config Config) (*Client, error) {
	if len(config.Providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = len(config.Providers)
	}
	if config.MaxConns <= 0 {
		config.MaxConns = 64
	}
	if config.CircuitBreakerThreshold <= 0 {
		config.CircuitBreakerThreshold = 5
	}
	if config.CircuitBreakerTimeout <= 0 {
		config.CircuitBreakerTimeout = 30 * time.Second
	}

	c := &Client{
		config: config,
		http: &fasthttp.Client{
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: time.Minute,
			Dial:                config.Dial,
		},
		now: time.Now,
	}
	for _, pc := range config.Providers {
		if pc.URL == "" {
			return nil, fmt.Errorf("provider %q has no url", pc.Name)
		}
		c.providers = append(c.providers, NewProvider(pc.Name, pc.URL, pc.Weight))
		logger.Info("alert provider initialized", "name", pc.Name, "url", pc.URL, "weight", pc.Weight)
	}
	return c, nil
}

func (c *Client) selectProvider(skip map[*Provider]bool) (*Provider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	var best *Provider
	bestScore := -1.0
	for _, p := range c.providers {
		if skip[p] || !p.IsAvailable(now) {
			continue
		}
		if s := p.Score(); s > bestScore {
			best, bestScore = p, s
		}
	}
	if best == nil {
		return nil, ErrNoAvailableProviders
	}
	return best, nil
}

// Deliver sends the alert, trying each available provider at most once.
func (c *Client) Deliver(ctx context.Context, req *AlertRequest) (*AlertResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal alert: %w", err)
	}

	tried := make(map[*Provider]bool)
	lastErr := ErrNoAvailableProviders
	for attempt := 0; attempt < c.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := c.selectProvider(tried)
		if err != nil {
			break
		}
		tried[p] = true

		started := c.now()
		resp, err := c.post(ctx, p, body)
		if err != nil {
			p.metrics.RecordFailure()
			c.checkCircuitBreaker(p)
			prom.IncGatewayRequest(p.name, "error")
			logger.Warn("alert delivery failed", "provider", p.name, "event_id", req.EventID, "attempt", attempt+1, "error", err)
			lastErr = err
			continue
		}

		p.metrics.RecordSuccess(c.now().Sub(started).Milliseconds())
		if p.State() == StateDegraded {
			p.setState(StateHealthy)
		}
		prom.IncGatewayRequest(p.name, "ok")
		resp.Provider = p.name
		if resp.EventID == "" {
			resp.EventID = req.EventID
		}
		return resp, nil
	}
	return nil, fmt.Errorf("alert %s not delivered: %w", req.EventID, lastErr)
}

func (c *Client) post(ctx context.Context, p *Provider, body []byte) (*AlertResponse, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusOK && status != fasthttp.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", status, resp.Body())
	}

	out := &AlertResponse{Accepted: true}
	if len(resp.Body()) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !out.Accepted {
		return nil, fmt.Errorf("%w: %s", ErrRejected, out.Error)
	}
	return out, nil
}

func (c *Client) checkCircuitBreaker(p *Provider) {
	fails := p.metrics.ConsecutiveFails.Load()
	if fails < int32(c.config.CircuitBreakerThreshold) {
		if p.State() == StateHealthy {
			p.setState(StateDegraded)
		}
		return
	}
	p.circuitOpenUntil.Store(c.now().Add(c.config.CircuitBreakerTimeout).UnixNano())
	p.setState(StateCircuitOpen)
	logger.Warn("circuit breaker opened", "provider", p.name, "consecutive_fails", fails, "timeout", c.config.CircuitBreakerTimeout)
}

type ProviderStats struct {
	Name             string
	State            string
	Score            float64
	TotalRequests    int64
	FailedReqs       int64
	SuccessRate      float64
	AvgLatencyMs     int64
	ConsecutiveFails int32
}

// Stats returns per-provider statistics, best score first.
func (c *Client) Stats() []ProviderStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := make([]ProviderStats, 0, len(c.providers))
	for _, p := range c.providers {
		stats = append(stats, ProviderStats{
			Name:             p.name,
			State:            p.State().String(),
			Score:            p.Score(),
			TotalRequests:    p.metrics.TotalRequests.Load(),
			FailedReqs:       p.metrics.FailedReqs.Load(),
			SuccessRate:      p.metrics.SuccessRate(),
			AvgLatencyMs:     p.metrics.AvgLatencyMs(),
			ConsecutiveFails: p.metrics.ConsecutiveFails.Load(),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Score > stats[j].Score
	})
	return stats
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	logger.Info("alert gateway closed")
	return nil
}
