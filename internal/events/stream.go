package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/nimasrn/banking-gateway/pkg/redis"
)

const (
	fieldData    = "data"
	fieldType    = "type"
	fieldEventID = "event_id"
)

type Message struct {
	ID        string
	Event     *model.LedgerEvent
	Reclaimed bool
	acked     bool
	nacked    bool
	stream    *Stream
}

// Ack explicitly acknowledges the message (marks as successfully processed)
func (m *Message) Ack() error {
	if m.acked {
		return fmt.Errorf("message already acknowledged")
	}
	if m.nacked {
		return fmt.Errorf("message already rejected")
	}
	m.acked = true
	return m.stream.ack(m.ID)
}

// Nack leaves the message pending so it is reclaimed after ClaimIdle.
func (m *Message) Nack() error {
	if m.acked {
		return fmt.Errorf("message already acknowledged")
	}
	if m.nacked {
		return fmt.Errorf("message already rejected")
	}
	m.nacked = true
	return nil
}

// MessageHandler receives every delivered message. The handler owns the
// message and must Ack or Nack it, possibly from another goroutine.
type MessageHandler func(ctx context.Context, msg *Message)

type StreamConfig struct {
	Name          string
	ConsumerGroup string
	ConsumerName  string
	BatchSize     int64
	Block         time.Duration
	ClaimIdle     time.Duration
}

// Stream is the ledger event stream on top of a Redis stream. The API
// publishes into it; the notifier consumes from it.
type Stream struct {
	adapter redis.RedisAdapter
	config  StreamConfig
}

func NewStream(adapter redis.RedisAdapter, config StreamConfig) (*Stream, error) {
	if config.Name == "" {
		return nil, fmt.Errorf("stream name is required")
	}
	if config.ConsumerGroup == "" {
		config.ConsumerGroup = "default-group"
	}
	if config.ConsumerName == "" {
		config.ConsumerName = fmt.Sprintf("consumer-%d", time.Now().UnixNano())
	}
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.Block == 0 {
		config.Block = time.Second
	}
	if config.ClaimIdle == 0 {
		config.ClaimIdle = 30 * time.Second
	}
	return &Stream{adapter: adapter, config: config}, nil
}

// PublishLedgerEvents appends the events in order.
func (s *Stream) PublishLedgerEvents(ctx context.Context, evs []*model.LedgerEvent) error {
	for _, ev := range evs {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger event: %w", err)
		}
		values := map[string]interface{}{
			fieldData:    string(data),
			fieldType:    ev.Type,
			fieldEventID: ev.ID,
		}
		if _, err := s.adapter.XAdd(ctx, s.config.Name, values); err != nil {
			return fmt.Errorf("failed to publish ledger event %s: %w", ev.ID, err)
		}
	}
	return nil
}

func (s *Stream) Len() (int64, error) {
	return s.adapter.XLen(s.config.Name)
}

// Consume blocks until ctx is done, handing every new or reclaimed message
// to handler.
func (s *Stream) Consume(ctx context.Context, handler MessageHandler) error {
	if handler == nil {
		return fmt.Errorf("message handler is required")
	}
	if err := s.adapter.XGroupCreateMkStream(s.config.Name, s.config.ConsumerGroup, "0"); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		s.claimStuckMessages(ctx, handler)
		if err := s.readNew(ctx, handler); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("ledger stream read failed", "stream", s.config.Name, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.config.Block):
			}
		}
	}
}

func (s *Stream) readNew(ctx context.Context, handler MessageHandler) error {
	messages, err := s.adapter.XReadGroup(ctx, s.config.ConsumerGroup, s.config.ConsumerName, s.config.Name, s.config.BatchSize, s.config.Block)
	if err != nil {
		return err
	}
	for _, sm := range messages {
		s.dispatch(ctx, sm, false, handler)
	}
	return nil
}

func (s *Stream) claimStuckMessages(ctx context.Context, handler MessageHandler) {
	pending, err := s.adapter.XPendingExt(s.config.Name, s.config.ConsumerGroup, 100)
	if err != nil || len(pending) == 0 {
		return
	}

	var ids []string
	for _, p := range pending {
		if p.Idle >= s.config.ClaimIdle {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	messages, err := s.adapter.XClaim(s.config.Name, s.config.ConsumerGroup, s.config.ConsumerName, s.config.ClaimIdle, ids...)
	if err != nil {
		logger.Warn("ledger stream claim failed", "stream", s.config.Name, "error", err)
		return
	}
	for _, sm := range messages {
		s.dispatch(ctx, sm, true, handler)
	}
}

func (s *Stream) dispatch(ctx context.Context, sm redis.StreamMessage, reclaimed bool, handler MessageHandler) {
	ev, err := decodeEvent(sm)
	if err != nil {
		// undecodable entries would be reclaimed forever
		logger.Error("dropping malformed ledger event", "stream_id", sm.ID, "error", err)
		_ = s.ack(sm.ID)
		return
	}
	handler(ctx, &Message{
		ID:        sm.ID,
		Event:     ev,
		Reclaimed: reclaimed,
		stream:    s,
	})
}

func decodeEvent(sm redis.StreamMessage) (*model.LedgerEvent, error) {
	raw, ok := sm.Values[fieldData].(string)
	if !ok {
		return nil, fmt.Errorf("missing %q field", fieldData)
	}
	var ev model.LedgerEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return nil, err
	}
	if ev.ID == "" {
		return nil, fmt.Errorf("event without id")
	}
	return &ev, nil
}

func (s *Stream) ack(id string) error {
	return s.adapter.XAck(s.config.Name, s.config.ConsumerGroup, id)
}
