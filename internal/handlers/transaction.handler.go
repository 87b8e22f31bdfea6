package handlers

import (
	"context"

	"github.com/nimasrn/banking-gateway/internal/model"
	xhttp "github.com/nimasrn/banking-gateway/pkg/http"
)

type HistoryService interface {
	GetHistory(ctx context.Context, accountID int64) ([]*model.HistoryEntry, error)
}

type TransactionHandler struct {
	ledger  LedgerService
	history HistoryService
}

func NewTransactionHandler(ledger LedgerService, history HistoryService) *TransactionHandler {
	return &TransactionHandler{
		ledger:  ledger,
		history: history,
	}
}

func RegisterTransactionRoutes(r *xhttp.Router, h *TransactionHandler, auth xhttp.MiddlewareFunc) {
	r.POST("/transactions/transfer", auth(h.Transfer))
	r.GET("/transactions/history/{accountId}", auth(h.History))
}

func (h *TransactionHandler) Transfer(ctx *xhttp.RequestCtx) {
	var req model.TransferRequest
	if !bind(ctx, &req) {
		return
	}
	if _, err := h.ledger.Transfer(ctx, req.SourceAccountID, req.TargetAccountID, req.Amount); err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteText(ctx, xhttp.StatusOK, "Transfer successful")
}

func (h *TransactionHandler) History(ctx *xhttp.RequestCtx) {
	id, ok := pathInt64(ctx, "accountId")
	if !ok {
		return
	}
	entries, err := h.history.GetHistory(ctx, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, entries)
}
