package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/nimasrn/banking-gateway/pkg/redis"
)

var (
	ErrAlreadyNotified = errors.New("event already notified")
	ErrInFlight        = errors.New("event is being notified by another consumer")
)

type DedupeConfig struct {
	// LockTTL bounds how long a crashed consumer can hold an event.
	LockTTL time.Duration

	DoneTTL time.Duration

	LockKeyPrefix string
	DoneKeyPrefix string
}

func DefaultDedupeConfig() DedupeConfig {
	return DedupeConfig{
		LockTTL:       30 * time.Second,
		DoneTTL:       24 * time.Hour,
		LockKeyPrefix: "notify:lock:",
		DoneKeyPrefix: "notify:done:",
	}
}

// Deduper makes sure an alert goes out at most once per ledger event even
// when the stream redelivers it.
type Deduper struct {
	redis  redis.RedisAdapter
	config DedupeConfig
}

func NewDeduper(adapter redis.RedisAdapter, config DedupeConfig) *Deduper {
	return &Deduper{
		redis:  adapter,
		config: config,
	}
}

// Begin claims eventID for this consumer. It fails with ErrAlreadyNotified
// once the event was completed and with ErrInFlight while another consumer
// holds it.
func (d *Deduper) Begin(ctx context.Context, eventID string) error {
	exists, err := d.redis.Exist(d.config.DoneKeyPrefix + eventID)
	if err != nil {
		// a duplicate alert is better than a lost one
		logger.Warn("failed to check notified marker", "event_id", eventID, "error", err)
	} else if exists > 0 {
		return ErrAlreadyNotified
	}

	lockValue := []byte(fmt.Sprintf("%d", time.Now().UnixNano()))
	acquired, err := d.redis.SetNX(d.config.LockKeyPrefix+eventID, lockValue, d.config.LockTTL)
	if err != nil {
		return fmt.Errorf("acquire notify lock: %w", err)
	}
	if !acquired {
		return ErrInFlight
	}
	return nil
}

// Done records eventID as notified and drops the lock.
func (d *Deduper) Done(ctx context.Context, eventID string) error {
	if err := d.redis.Set(d.config.DoneKeyPrefix+eventID, []byte("1"), d.config.DoneTTL); err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	d.Release(ctx, eventID)
	return nil
}

// Release drops the lock so a redelivery can try again.
func (d *Deduper) Release(ctx context.Context, eventID string) {
	if err := d.redis.Del(d.config.LockKeyPrefix + eventID); err != nil {
		logger.Warn("failed to release notify lock", "event_id", eventID, "error", err)
	}
}

func (d *Deduper) IsNotified(ctx context.Context, eventID string) (bool, error) {
	exists, err := d.redis.Exist(d.config.DoneKeyPrefix + eventID)
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
