package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/nimasrn/banking-gateway/internal/model"
)

const unknownParty = "Unknown"

type HistoryRepository interface {
	ListByAccount(ctx context.Context, accountID int64) ([]*model.TransactionWithParties, error)
}

type HistoryService struct {
	transactionRepo HistoryRepository
}

func NewHistoryService(transactionRepo HistoryRepository) *HistoryService {
	return &HistoryService{
		transactionRepo: transactionRepo,
	}
}

// GetHistory lists the ledger of accountID, newest first. An account with no
// rows, including one that does not exist, has an empty history.
func (s *HistoryService) GetHistory(ctx context.Context, accountID int64) ([]*model.HistoryEntry, error) {
	rows, err := s.transactionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]*model.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, &model.HistoryEntry{
			Date:       row.Date,
			Amount:     row.Amount,
			Type:       direction(row, accountID),
			OtherParty: otherParty(row, accountID),
			Status:     model.TransactionStatusSuccess,
		})
	}
	return out, nil
}

func direction(t *model.TransactionWithParties, accountID int64) string {
	switch strings.ToUpper(strings.TrimSpace(t.Type)) {
	case model.TransactionTypeDebit, model.TransactionTypeWithdraw:
		return model.TransactionTypeDebit
	case model.TransactionTypeCredit, model.TransactionTypeDeposit:
		return model.TransactionTypeCredit
	}
	if t.SourceAccountID != nil && *t.SourceAccountID == accountID {
		return model.TransactionTypeDebit
	}
	return model.TransactionTypeCredit
}

func otherParty(t *model.TransactionWithParties, accountID int64) string {
	hasSource := t.SourceAccountID != nil
	hasTarget := t.TargetAccountID != nil

	if hasSource != hasTarget && strings.TrimSpace(t.Remarks) != "" {
		return t.Remarks
	}

	// prefer the side the queried account is not on
	first, second := t.TargetAccountName, t.SourceAccountName
	if hasTarget && *t.TargetAccountID == accountID {
		first, second = t.SourceAccountName, t.TargetAccountName
	}
	if first != "" {
		return first
	}
	if second != "" {
		return second
	}
	return unknownParty
}
