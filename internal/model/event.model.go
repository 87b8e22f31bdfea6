package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEvent describes one committed ledger row, from the point of view of
// the account the row is tagged to.
type LedgerEvent struct {
	ID                    string          `json:"id"`
	Type                  string          `json:"type"`
	TransactionID         int64           `json:"transactionId"`
	AccountID             int64           `json:"accountId"`
	CounterpartyAccountID *int64          `json:"counterpartyAccountId,omitempty"`
	Amount                decimal.Decimal `json:"amount"`
	BalanceAfter          decimal.Decimal `json:"balanceAfter"`
	Remarks               string          `json:"remarks"`
	OccurredAt            time.Time       `json:"occurredAt"`
}
