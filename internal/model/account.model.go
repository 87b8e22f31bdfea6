package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const AccountTypeSavings = "SAVINGS"

type Account struct {
	ID          int64           `json:"accountId"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Remarks     string          `json:"remarks"`
	Balance     decimal.Decimal `json:"balance"`
	CustomerID  *int64          `json:"customerId"`
}

type AccountCreateRequest struct {
	AccountName string `json:"accountName" validate:"required"`
	AccountType string `json:"accountType" validate:"required"`
	Remarks     string `json:"remarks"`
	CustomerID  *int64 `json:"customerId"  validate:"required"`
}

type DepositRequest struct {
	AccountID *int64          `json:"accountId" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	SourceAccountID int64           `json:"sourceAccountId" validate:"required"`
	TargetAccountID int64           `json:"targetAccountId" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
}

// LedgerReceipt is what a committed money operation hands back: the account
// as it stands after the operation plus the rows appended for it.
type LedgerReceipt struct {
	Account      *Account
	Transactions []*Transaction
	At           time.Time
}
