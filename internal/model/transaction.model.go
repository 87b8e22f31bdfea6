package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeCredit = "CREDIT"
	TransactionTypeDebit  = "DEBIT"

	// accepted as synonyms when reading stored rows
	TransactionTypeDeposit  = "DEPOSIT"
	TransactionTypeWithdraw = "WITHDRAW"
)

const TransactionStatusSuccess = "SUCCESS"

const (
	RemarksSelfDeposit    = "Self Deposit"
	RemarksSelfWithdrawal = "Self Withdrawal"
)

type Transaction struct {
	ID              int64           `json:"id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	Remarks         string          `json:"remarks"`
	SourceAccountID *int64          `json:"sourceAccountId"`
	TargetAccountID *int64          `json:"targetAccountId"`
	AccountID       int64           `json:"accountId"`
}

// TransactionWithParties is a ledger row with both account names resolved.
// A name is empty when its side is unset or the account is gone.
type TransactionWithParties struct {
	Transaction
	SourceAccountName string
	TargetAccountName string
}

type HistoryEntry struct {
	Date       time.Time       `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type"`
	OtherParty string          `json:"otherParty"`
	Status     string          `json:"status"`
}
