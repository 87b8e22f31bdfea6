package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) ListByAccount(ctx context.Context, accountID int64) ([]*model.TransactionWithParties, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TransactionWithParties), args.Error(1)
}

func idp(v int64) *int64 {
	return &v
}

func row(typ, remarks string, src, dst *int64, srcName, dstName string) *model.TransactionWithParties {
	return &model.TransactionWithParties{
		Transaction: model.Transaction{
			Type:            typ,
			Amount:          dec("10"),
			Date:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Remarks:         remarks,
			SourceAccountID: src,
			TargetAccountID: dst,
		},
		SourceAccountName: srcName,
		TargetAccountName: dstName,
	}
}

func TestHistoryService_Classification(t *testing.T) {
	const acc = int64(1)

	tests := []struct {
		name      string
		row       *model.TransactionWithParties
		wantType  string
		wantParty string
	}{
		{"deposit uses remarks", row("CREDIT", "Self Deposit", nil, idp(acc), "", "Mine"), "CREDIT", "Self Deposit"},
		{"withdraw uses remarks", row("DEBIT", "Self Withdrawal", idp(acc), nil, "Mine", ""), "DEBIT", "Self Withdrawal"},
		{"lowercase withdraw synonym", row("withdraw", "ATM", idp(acc), nil, "Mine", ""), "DEBIT", "ATM"},
		{"deposit synonym", row("Deposit", "Cash", nil, idp(acc), "", "Mine"), "CREDIT", "Cash"},
		{"transfer out names target", row("DEBIT", "Sent to Bob", idp(acc), idp(2), "Mine", "Bob"), "DEBIT", "Bob"},
		{"transfer in names source", row("CREDIT", "Received from Carl", idp(3), idp(acc), "Carl", "Mine"), "CREDIT", "Carl"},
		{"unknown type, account is source", row("MOVE", "", idp(acc), idp(2), "Mine", "Bob"), "DEBIT", "Bob"},
		{"unknown type, account is target", row("MOVE", "", idp(2), idp(acc), "Bob", "Mine"), "CREDIT", "Bob"},
		{"blank remarks fall back to name", row("CREDIT", "  ", nil, idp(acc), "", "Mine"), "CREDIT", "Mine"},
		{"deleted counterparty falls back", row("DEBIT", "Sent", idp(acc), idp(2), "Mine", ""), "DEBIT", "Mine"},
		{"nothing resolves", row("CREDIT", "", nil, nil, "", ""), "CREDIT", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockHistoryRepository)
			repo.On("ListByAccount", mock.Anything, acc).Return([]*model.TransactionWithParties{tt.row}, nil)

			got, err := NewHistoryService(repo).GetHistory(context.Background(), acc)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantType, got[0].Type)
			assert.Equal(t, tt.wantParty, got[0].OtherParty)
			assert.Equal(t, "SUCCESS", got[0].Status)
			assert.True(t, dec("10").Equal(got[0].Amount))
			repo.AssertExpectations(t)
		})
	}
}

func TestHistoryService_EmptyAndErrors(t *testing.T) {
	t.Run("no rows is an empty list", func(t *testing.T) {
		repo := new(MockHistoryRepository)
		repo.On("ListByAccount", mock.Anything, int64(42)).Return([]*model.TransactionWithParties{}, nil)

		got, err := NewHistoryService(repo).GetHistory(context.Background(), 42)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("store error", func(t *testing.T) {
		repo := new(MockHistoryRepository)
		repo.On("ListByAccount", mock.Anything, int64(1)).Return(nil, errors.New("boom"))

		_, err := NewHistoryService(repo).GetHistory(context.Background(), 1)
		require.Error(t, err)
		assert.Equal(t, "Internal server error", Message(err))
	})
}

func TestHistoryService_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.account(t, "Alice", "0")
	b := env.account(t, "Bob", "0")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	env.ledger.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	_, err := env.ledger.Deposit(ctx, a.ID, dec("100"))
	require.NoError(t, err)
	_, err = env.ledger.Transfer(ctx, a.ID, b.ID, dec("30"))
	require.NoError(t, err)
	_, err = env.ledger.Withdraw(ctx, a.ID, dec("20"))
	require.NoError(t, err)
	_, err = env.ledger.Transfer(ctx, b.ID, a.ID, dec("5"))
	require.NoError(t, err)

	got, err := env.history.GetHistory(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got, 4)

	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Date.After(got[i].Date), "entry %d not newer than %d", i-1, i)
	}

	assert.Equal(t, []string{"CREDIT", "DEBIT", "DEBIT", "CREDIT"},
		[]string{got[0].Type, got[1].Type, got[2].Type, got[3].Type})
	assert.Equal(t, []string{"Bob", "Self Withdrawal", "Bob", "Self Deposit"},
		[]string{got[0].OtherParty, got[1].OtherParty, got[2].OtherParty, got[3].OtherParty})

	unknown, err := env.history.GetHistory(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, unknown)
}
