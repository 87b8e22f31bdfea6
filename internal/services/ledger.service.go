package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/internal/repository"
	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/nimasrn/banking-gateway/pkg/prom"
	"github.com/shopspring/decimal"
)

const (
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
	opTransfer = "transfer"
)

type LedgerAccountRepository interface {
	GetForUpdate(ctx context.Context, id int64) (*model.Account, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
}

type LedgerPublisher interface {
	PublishLedgerEvents(ctx context.Context, evs []*model.LedgerEvent) error
}

// LedgerService moves money. Each operation is one database transaction:
// the touched accounts are locked, balances are recomputed and written, and
// the ledger rows are appended before commit.
type LedgerService struct {
	accountRepo     LedgerAccountRepository
	transactionRepo TransactionRepository
	publisher       LedgerPublisher
	now             func() time.Time
}

// NewLedgerService builds the service; publisher may be nil.
func NewLedgerService(accountRepo LedgerAccountRepository, transactionRepo TransactionRepository, publisher LedgerPublisher) *LedgerService {
	return &LedgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *LedgerService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (receipt *model.LedgerReceipt, err error) {
	defer observe(opDeposit, time.Now(), &err)

	if err := validateAmount(amount, "Deposit amount must be positive"); err != nil {
		return nil, err
	}

	now := s.now()
	var evs []*model.LedgerEvent
	err = s.accountRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		acc, err := s.lock(ctx, accountID, "Account not found")
		if err != nil {
			return err
		}

		acc.Balance = acc.Balance.Add(amount)
		if err := checkBalanceLimit(acc.Balance); err != nil {
			return err
		}
		if err := s.accountRepo.UpdateBalance(ctx, acc.ID, acc.Balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		txn, err := s.transactionRepo.Create(ctx, &model.Transaction{
			Type:            model.TransactionTypeCredit,
			Amount:          amount,
			Date:            now,
			Remarks:         model.RemarksSelfDeposit,
			TargetAccountID: &acc.ID,
			AccountID:       acc.ID,
		})
		if err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}

		receipt = &model.LedgerReceipt{Account: acc, Transactions: []*model.Transaction{txn}, At: now}
		evs = append(evs, ledgerEvent(txn, acc.Balance, nil))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evs)
	return receipt, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (receipt *model.LedgerReceipt, err error) {
	defer observe(opWithdraw, time.Now(), &err)

	if err := validateAmount(amount, "Withdrawal amount must be positive"); err != nil {
		return nil, err
	}

	now := s.now()
	var evs []*model.LedgerEvent
	err = s.accountRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		acc, err := s.lock(ctx, accountID, "Account not found")
		if err != nil {
			return err
		}

		if acc.Balance.LessThan(amount) {
			return newError(ErrInsufficientFunds, "Insufficient balance")
		}

		acc.Balance = acc.Balance.Sub(amount)
		if err := s.accountRepo.UpdateBalance(ctx, acc.ID, acc.Balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		txn, err := s.transactionRepo.Create(ctx, &model.Transaction{
			Type:            model.TransactionTypeDebit,
			Amount:          amount,
			Date:            now,
			Remarks:         model.RemarksSelfWithdrawal,
			SourceAccountID: &acc.ID,
			AccountID:       acc.ID,
		})
		if err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}

		receipt = &model.LedgerReceipt{Account: acc, Transactions: []*model.Transaction{txn}, At: now}
		evs = append(evs, ledgerEvent(txn, acc.Balance, nil))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evs)
	return receipt, nil
}

// Transfer moves amount from sourceID to targetID. The receipt carries the
// source account and the DEBIT row followed by the CREDIT row.
func (s *LedgerService) Transfer(ctx context.Context, sourceID, targetID int64, amount decimal.Decimal) (receipt *model.LedgerReceipt, err error) {
	defer observe(opTransfer, time.Now(), &err)

	if sourceID == targetID {
		return nil, newError(ErrInvalidOperation, "Source and Target accounts cannot be same")
	}
	if err := validateAmount(amount, "Transfer amount must be positive"); err != nil {
		return nil, err
	}

	now := s.now()
	var evs []*model.LedgerEvent
	err = s.accountRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		// lower id first so two opposite transfers cannot deadlock
		var src, dst *model.Account
		var err error
		if sourceID < targetID {
			if src, err = s.lock(ctx, sourceID, "Source account not found"); err != nil {
				return err
			}
			if dst, err = s.lock(ctx, targetID, "Target account not found"); err != nil {
				return err
			}
		} else {
			if dst, err = s.lock(ctx, targetID, "Target account not found"); err != nil {
				return err
			}
			if src, err = s.lock(ctx, sourceID, "Source account not found"); err != nil {
				return err
			}
		}

		if src.Balance.LessThan(amount) {
			return newError(ErrInsufficientFunds, "Insufficient balance in source account")
		}

		src.Balance = src.Balance.Sub(amount)
		dst.Balance = dst.Balance.Add(amount)
		if err := checkBalanceLimit(dst.Balance); err != nil {
			return err
		}
		if err := s.accountRepo.UpdateBalance(ctx, src.ID, src.Balance); err != nil {
			return fmt.Errorf("update source balance: %w", err)
		}
		if err := s.accountRepo.UpdateBalance(ctx, dst.ID, dst.Balance); err != nil {
			return fmt.Errorf("update target balance: %w", err)
		}

		debit, err := s.transactionRepo.Create(ctx, &model.Transaction{
			Type:            model.TransactionTypeDebit,
			Amount:          amount,
			Date:            now,
			Remarks:         "Sent to " + dst.AccountName,
			SourceAccountID: &src.ID,
			TargetAccountID: &dst.ID,
			AccountID:       src.ID,
		})
		if err != nil {
			return fmt.Errorf("append debit: %w", err)
		}
		credit, err := s.transactionRepo.Create(ctx, &model.Transaction{
			Type:            model.TransactionTypeCredit,
			Amount:          amount,
			Date:            now,
			Remarks:         "Received from " + src.AccountName,
			SourceAccountID: &src.ID,
			TargetAccountID: &dst.ID,
			AccountID:       dst.ID,
		})
		if err != nil {
			return fmt.Errorf("append credit: %w", err)
		}

		receipt = &model.LedgerReceipt{Account: src, Transactions: []*model.Transaction{debit, credit}, At: now}
		evs = append(evs,
			ledgerEvent(debit, src.Balance, &dst.ID),
			ledgerEvent(credit, dst.Balance, &src.ID),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evs)
	return receipt, nil
}

func (s *LedgerService) lock(ctx context.Context, id int64, notFoundMsg string) (*model.Account, error) {
	acc, err := s.accountRepo.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, newError(ErrNotFound, notFoundMsg)
		}
		return nil, fmt.Errorf("lock account %d: %w", id, err)
	}
	return acc, nil
}

// publish runs after commit. A lost event never undoes a committed operation.
func (s *LedgerService) publish(ctx context.Context, evs []*model.LedgerEvent) {
	if s.publisher == nil || len(evs) == 0 {
		return
	}
	if err := s.publisher.PublishLedgerEvents(ctx, evs); err != nil {
		logger.Warn("failed to publish ledger events", "count", len(evs), "error", err)
	}
}

func validateAmount(amount decimal.Decimal, msg string) error {
	if !amount.IsPositive() {
		return newError(ErrInvalidAmount, msg)
	}
	// digit count from coefficient and exponent; comparing would rescale
	// attacker-sized exponents
	if amount.NumDigits()+int(amount.Exponent()) > model.MoneyIntegerDigits || amount.GreaterThan(model.MaxBalance) {
		return newError(ErrInvalidAmount, "Amount exceeds the maximum allowed")
	}
	if !amount.Equal(amount.Truncate(model.MoneyScale)) {
		return newError(ErrInvalidAmount, fmt.Sprintf("Amount supports at most %d decimal places", model.MoneyScale))
	}
	return nil
}

func ledgerEvent(txn *model.Transaction, balanceAfter decimal.Decimal, counterparty *int64) *model.LedgerEvent {
	return &model.LedgerEvent{
		ID:                    uuid.NewString(),
		Type:                  txn.Type,
		TransactionID:         txn.ID,
		AccountID:             txn.AccountID,
		CounterpartyAccountID: counterparty,
		Amount:                txn.Amount,
		BalanceAfter:          balanceAfter,
		Remarks:               txn.Remarks,
		OccurredAt:            txn.Date,
	}
}

func observe(op string, started time.Time, err *error) {
	prom.ObserveLedgerOperation(op, started, *err)
}

func checkBalanceLimit(balance decimal.Decimal) error {
	if balance.GreaterThan(model.MaxBalance) {
		return newError(ErrInvalidAmount, "Balance would exceed the maximum allowed")
	}
	return nil
}
