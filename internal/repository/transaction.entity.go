package repository

import (
	"time"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/shopspring/decimal"
)

type TransactionEntity struct {
	ID              int64           `db:"id"                gorm:"primaryKey;autoIncrement;column:id"`
	TransactionType string          `db:"transaction_type"  gorm:"column:transaction_type;not null"`
	Amount          decimal.Decimal `db:"amount"            gorm:"column:amount;type:decimal(19,4);not null;check:chk_transactions_amount,amount > 0"`
	TransactionDate time.Time       `db:"transaction_date"  gorm:"column:transaction_date;not null;index:idx_transactions_account_date,priority:2"`
	Remarks         string          `db:"remarks"           gorm:"column:remarks"`
	SourceAccountID *int64          `db:"source_account_id" gorm:"column:source_account_id"`
	TargetAccountID *int64          `db:"target_account_id" gorm:"column:target_account_id"`
	AccountID       int64           `db:"account_id"        gorm:"column:account_id;not null;index:idx_transactions_account_date,priority:1"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

// transactionWithNamesRow is the scan target of the history query.
type transactionWithNamesRow struct {
	TransactionEntity
	SourceAccountName *string `gorm:"column:source_account_name"`
	TargetAccountName *string `gorm:"column:target_account_name"`
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ID:              m.ID,
		TransactionType: m.Type,
		Amount:          m.Amount,
		TransactionDate: m.Date,
		Remarks:         m.Remarks,
		SourceAccountID: m.SourceAccountID,
		TargetAccountID: m.TargetAccountID,
		AccountID:       m.AccountID,
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:              e.ID,
		Type:            e.TransactionType,
		Amount:          e.Amount,
		Date:            e.TransactionDate,
		Remarks:         e.Remarks,
		SourceAccountID: e.SourceAccountID,
		TargetAccountID: e.TargetAccountID,
		AccountID:       e.AccountID,
	}
}

func toTransactionWithParties(r *transactionWithNamesRow) *model.TransactionWithParties {
	out := &model.TransactionWithParties{Transaction: *toTransactionModel(&r.TransactionEntity)}
	if r.SourceAccountName != nil {
		out.SourceAccountName = *r.SourceAccountName
	}
	if r.TargetAccountName != nil {
		out.TargetAccountName = *r.TargetAccountName
	}
	return out
}
