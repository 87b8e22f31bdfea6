package repository

import (
	"context"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/pkg/pg"
)

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toTransactionModel(entity), nil
}

// ListByAccount returns the rows tagged to accountID, newest first, with the
// names of both sides joined in.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID int64) ([]*model.TransactionWithParties, error) {
	var rows []*transactionWithNamesRow
	err := r.Read(ctx).WithContext(ctx).
		Table("transactions AS t").
		Select("t.*, sa.account_name AS source_account_name, ta.account_name AS target_account_name").
		Joins("LEFT JOIN accounts sa ON sa.id = t.source_account_id").
		Joins("LEFT JOIN accounts ta ON ta.id = t.target_account_id").
		Where("t.account_id = ?", accountID).
		Order("t.transaction_date DESC, t.id DESC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	out := make([]*model.TransactionWithParties, len(rows))
	for i, row := range rows {
		out[i] = toTransactionWithParties(row)
	}
	return out, nil
}

func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&TransactionEntity{}).
		Where("account_id = ?", accountID).
		Count(&n).
		Error
	return n, err
}
