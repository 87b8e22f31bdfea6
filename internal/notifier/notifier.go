package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nimasrn/banking-gateway/internal/events"
	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/nimasrn/banking-gateway/pkg/prom"
	"github.com/nimasrn/banking-gateway/pkg/worker"
)

const (
	SendTimeout    = 5 * time.Second
	ReportInterval = 30 * time.Second

	resultSent      = "sent"
	resultFailed    = "failed"
	resultDuplicate = "duplicate"
)

type EventSource interface {
	Consume(ctx context.Context, handler events.MessageHandler) error
	Len() (int64, error)
}

type Config struct {
	Workers        int
	Buffer         int
	ReportInterval time.Duration
}

// Service turns ledger events into account alerts. Messages are fanned out
// to a worker pool and acknowledged only after the alert went out.
type Service struct {
	source  EventSource
	dedupe  *Deduper
	sink    AlertSink
	metrics *ServiceMetrics
	workers *worker.WorkerManager
	config  Config
}

func NewService(source EventSource, dedupe *Deduper, sink AlertSink, config Config) *Service {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Buffer < 1 {
		config.Buffer = config.Workers * 10
	}
	if config.ReportInterval <= 0 {
		config.ReportInterval = ReportInterval
	}
	s := &Service{
		source:  source,
		dedupe:  dedupe,
		sink:    sink,
		metrics: NewServiceMetrics(),
		workers: worker.NewWorkerManager(config.Buffer, config.Workers, nil),
		config:  config,
	}
	s.workers.SetWorker(s.work)
	return s
}

func (s *Service) Metrics() *ServiceMetrics {
	return s.metrics
}

// Run consumes until ctx is cancelled and the workers have drained.
func (s *Service) Run(ctx context.Context) error {
	logger.Info("starting notifier", "workers", s.config.Workers)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.workers.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		s.reporter(ctx)
	}()

	err := s.source.Consume(ctx, func(ctx context.Context, msg *events.Message) {
		if !s.workers.Enqueue(ctx, msg) {
			// shutting down; the entry stays pending for the next run
			_ = msg.Nack()
		}
	})
	wg.Wait()
	logger.Info("notifier stopped")
	return err
}

func (s *Service) work(ctx context.Context, workerIndex int, job interface{}) {
	msg, ok := job.(*events.Message)
	if !ok {
		logger.Error("unexpected job type", "worker", workerIndex)
		return
	}
	s.handle(ctx, msg)
}

func (s *Service) handle(ctx context.Context, msg *events.Message) {
	ev := msg.Event
	started := time.Now()

	err := s.dedupe.Begin(ctx, ev.ID)
	switch {
	case errors.Is(err, ErrAlreadyNotified):
		s.metrics.RecordDuplicate()
		prom.IncNotifierAlert(ev.Type, resultDuplicate)
		s.ack(msg)
		return
	case err != nil:
		// another consumer has it, or redis is unhappy; let it be redelivered
		logger.Warn("notify skipped", "event_id", ev.ID, "error", err)
		_ = msg.Nack()
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, SendTimeout)
	err = s.sink.Send(sendCtx, NewAlert(ev))
	cancel()
	if err != nil {
		s.dedupe.Release(ctx, ev.ID)
		s.metrics.RecordFailure()
		prom.IncNotifierAlert(ev.Type, resultFailed)
		logger.Warn("alert delivery failed", "event_id", ev.ID, "account_id", ev.AccountID, "error", err)
		_ = msg.Nack()
		return
	}

	if err := s.dedupe.Done(ctx, ev.ID); err != nil {
		logger.Warn("alert sent but not marked", "event_id", ev.ID, "error", err)
	}
	s.metrics.RecordSent(time.Since(started))
	prom.IncNotifierAlert(ev.Type, resultSent)
	s.ack(msg)
}

func (s *Service) ack(msg *events.Message) {
	if err := msg.Ack(); err != nil {
		logger.Warn("failed to ack ledger event", "stream_id", msg.ID, "error", err)
	}
}

func (s *Service) reporter(ctx context.Context) {
	ticker := time.NewTicker(s.config.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.report()
		case <-ctx.Done():
			s.report()
			return
		}
	}
}

func (s *Service) report() {
	st := s.metrics.Stats()
	fields := []any{
		"sent", st.Sent,
		"failed", st.Failed,
		"duplicates", st.Duplicates,
		"rate_per_second", st.RatePerSecond,
		"avg_duration_ms", st.AvgDuration.Milliseconds(),
		"queued", s.workers.GetUnreadCount(),
	}
	if n, err := s.source.Len(); err == nil {
		fields = append(fields, "stream_len", n)
	}
	logger.Info("notifier stats", fields...)
}
