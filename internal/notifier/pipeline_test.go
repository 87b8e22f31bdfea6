package notifier_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/banking-gateway/internal/events"
	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/internal/notifier"
	"github.com/nimasrn/banking-gateway/internal/repository"
	"github.com/nimasrn/banking-gateway/internal/services"
	"github.com/nimasrn/banking-gateway/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectSink struct {
	mu     sync.Mutex
	alerts []notifier.Alert
}

func (s *collectSink) Send(_ context.Context, a notifier.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
	return nil
}

func (s *collectSink) byAccount() map[int64][]notifier.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64][]notifier.Alert)
	for _, a := range s.alerts {
		out[a.AccountID] = append(out[a.AccountID], a)
	}
	return out
}

// Money moved through the ledger ends up as one alert per affected account.
func TestLedgerToAlerts(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	adapter := redis.NewFromClient(t.Name(), "bank:", client)

	stream, err := events.NewStream(adapter, events.StreamConfig{
		Name:          "ledger-events",
		ConsumerGroup: "notifier",
		ConsumerName:  "n1",
		Block:         20 * time.Millisecond,
	})
	require.NoError(t, err)

	db := repository.NewTestDB(t)
	accounts := repository.NewAccountRepository(db)
	ledger := services.NewLedgerService(accounts, repository.NewTransactionRepository(db), stream)

	ctx := context.Background()
	alice, err := accounts.Create(ctx, &model.Account{AccountName: "Alice", AccountType: model.AccountTypeSavings, Balance: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	bob, err := accounts.Create(ctx, &model.Account{AccountName: "Bob", AccountType: model.AccountTypeSavings, Balance: decimal.NewFromInt(500)})
	require.NoError(t, err)

	_, err = ledger.Transfer(ctx, alice.ID, bob.ID, decimal.NewFromInt(300))
	require.NoError(t, err)
	_, err = ledger.Withdraw(ctx, bob.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	n, err := stream.Len()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	sink := &collectSink{}
	svc := notifier.NewService(stream, notifier.NewDeduper(adapter, notifier.DefaultDedupeConfig()), sink, notifier.Config{Workers: 2})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- svc.Run(runCtx) }()

	require.Eventually(t, func() bool {
		return svc.Metrics().Stats().Sent == 3
	}, 3*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	got := sink.byAccount()
	require.Len(t, got[alice.ID], 1)
	assert.Equal(t, "Account 1 debited by 300.00 (Sent to Bob). Available balance 700.00.", got[alice.ID][0].Text)
	require.Len(t, got[bob.ID], 2)
	assert.True(t, mr.Exists("bank:ledger-events"))
}
