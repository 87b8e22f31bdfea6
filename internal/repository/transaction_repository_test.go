package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_ListByAccount(t *testing.T) {
	db := NewTestDB(t)
	accounts := NewAccountRepository(db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	a, err := accounts.Create(ctx, &model.Account{AccountName: "Alice", AccountType: "SAVINGS"})
	require.NoError(t, err)
	b, err := accounts.Create(ctx, &model.Account{AccountName: "Bob", AccountType: "SAVINGS"})
	require.NoError(t, err)

	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := []*model.Transaction{
		{Type: model.TransactionTypeCredit, Amount: decimal.NewFromInt(50), Date: base, Remarks: model.RemarksSelfDeposit, TargetAccountID: &a.ID, AccountID: a.ID},
		{Type: model.TransactionTypeDebit, Amount: decimal.NewFromInt(20), Date: base.Add(time.Minute), Remarks: "Sent to Bob", SourceAccountID: &a.ID, TargetAccountID: &b.ID, AccountID: a.ID},
		{Type: model.TransactionTypeCredit, Amount: decimal.NewFromInt(20), Date: base.Add(time.Minute), Remarks: "Received from Alice", SourceAccountID: &a.ID, TargetAccountID: &b.ID, AccountID: b.ID},
	}
	for _, r := range rows {
		created, err := repo.Create(ctx, r)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	}

	got, err := repo.ListByAccount(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// newest first
	assert.Equal(t, model.TransactionTypeDebit, got[0].Type)
	assert.Equal(t, "Alice", got[0].SourceAccountName)
	assert.Equal(t, "Bob", got[0].TargetAccountName)
	assert.True(t, decimal.NewFromInt(20).Equal(got[0].Amount))

	assert.Equal(t, model.TransactionTypeCredit, got[1].Type)
	assert.Empty(t, got[1].SourceAccountName)
	assert.Equal(t, "Alice", got[1].TargetAccountName)

	n, err := repo.CountByAccount(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	empty, err := repo.ListByAccount(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTransactionRepository_RejectsNonPositiveAmount(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTransactionRepository(db)

	_, err := repo.Create(context.Background(), &model.Transaction{
		Type:      model.TransactionTypeCredit,
		Amount:    decimal.Zero,
		Date:      time.Now().UTC(),
		AccountID: 1,
	})
	assert.Error(t, err)
}
