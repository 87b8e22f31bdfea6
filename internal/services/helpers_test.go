package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/internal/repository"
	"github.com/nimasrn/banking-gateway/pkg/auth"
	"github.com/nimasrn/banking-gateway/pkg/pg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "services-test-secret-0123456789"

type testEnv struct {
	db           *pg.DB
	accounts     *repository.AccountRepository
	customers    *repository.CustomerRepository
	users        *repository.UserRepository
	transactions *repository.TransactionRepository
	publisher    *capturePublisher
	ledger       *LedgerService
	history      *HistoryService
	tokens       *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := repository.NewTestDB(t)
	env := &testEnv{
		db:           db,
		accounts:     repository.NewAccountRepository(db),
		customers:    repository.NewCustomerRepository(db),
		users:        repository.NewUserRepository(db),
		transactions: repository.NewTransactionRepository(db),
		publisher:    &capturePublisher{},
		tokens:       auth.NewTokenIssuer(testJWTSecret, time.Hour),
	}
	env.ledger = NewLedgerService(env.accounts, env.transactions, env.publisher)
	env.history = NewHistoryService(env.transactions)
	return env
}

func (e *testEnv) account(t *testing.T, name string, balance string) *model.Account {
	t.Helper()
	acc, err := e.accounts.Create(context.Background(), &model.Account{
		AccountName: name,
		AccountType: model.AccountTypeSavings,
		Balance:     decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return acc
}

func (e *testEnv) balance(t *testing.T, id int64) decimal.Decimal {
	t.Helper()
	acc, err := e.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func (e *testEnv) rowCount(t *testing.T, id int64) int64 {
	t.Helper()
	n, err := e.transactions.CountByAccount(context.Background(), id)
	require.NoError(t, err)
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []*model.LedgerEvent
	err    error
}

func (p *capturePublisher) PublishLedgerEvents(_ context.Context, evs []*model.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evs...)
	return nil
}

func (p *capturePublisher) published() []*model.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*model.LedgerEvent(nil), p.events...)
}
