package notifier

import (
	"context"
	"fmt"
	"time"

	gateway "github.com/nimasrn/banking-gateway/internal/gateways"
	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/pkg/logger"
)

// Alert is the account holder notification derived from one ledger event.
type Alert struct {
	EventID    string
	AccountID  int64
	Kind       string
	Text       string
	OccurredAt time.Time
}

func NewAlert(ev *model.LedgerEvent) Alert {
	verb := "credited with"
	if ev.Type == model.TransactionTypeDebit {
		verb = "debited by"
	}
	text := fmt.Sprintf("Account %d %s %s (%s). Available balance %s.",
		ev.AccountID, verb, ev.Amount.StringFixed(2), ev.Remarks, ev.BalanceAfter.StringFixed(2))
	return Alert{
		EventID:    ev.ID,
		AccountID:  ev.AccountID,
		Kind:       ev.Type,
		Text:       text,
		OccurredAt: ev.OccurredAt,
	}
}

type AlertSink interface {
	Send(ctx context.Context, a Alert) error
}

// LogSink delivers alerts to the service log. It stands in for an SMS or
// push provider.
type LogSink struct {
	log logger.Logger
}

func NewLogSink() *LogSink {
	return &LogSink{log: logger.With("component", "alerts")}
}

func (s *LogSink) Send(_ context.Context, a Alert) error {
	s.log.Info(a.Text, "event_id", a.EventID, "account_id", a.AccountID, "kind", a.Kind)
	return nil
}

type AlertDispatcher interface {
	Deliver(ctx context.Context, req *gateway.AlertRequest) (*gateway.AlertResponse, error)
}

// GatewaySink pushes alerts to the configured webhook providers.
type GatewaySink struct {
	gw  AlertDispatcher
	log logger.Logger
}

func NewGatewaySink(gw AlertDispatcher) *GatewaySink {
	return &GatewaySink{gw: gw, log: logger.With("component", "alerts")}
}

func (s *GatewaySink) Send(ctx context.Context, a Alert) error {
	resp, err := s.gw.Deliver(ctx, &gateway.AlertRequest{
		EventID:    a.EventID,
		AccountID:  a.AccountID,
		Kind:       a.Kind,
		Text:       a.Text,
		OccurredAt: a.OccurredAt,
	})
	if err != nil {
		return err
	}
	s.log.Debug("alert delivered", "event_id", a.EventID, "provider", resp.Provider, "reference", resp.Reference)
	return nil
}
