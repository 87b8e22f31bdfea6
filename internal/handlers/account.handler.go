package handlers

import (
	"context"
	"time"

	"github.com/nimasrn/banking-gateway/internal/model"
	xhttp "github.com/nimasrn/banking-gateway/pkg/http"
	"github.com/shopspring/decimal"
)

type AccountService interface {
	Create(ctx context.Context, req model.AccountCreateRequest) (*model.Account, error)
	Get(ctx context.Context, id int64) (*model.Account, error)
	List(ctx context.Context) ([]*model.Account, error)
	MyAccount(ctx context.Context, p model.Principal) (*model.Account, error)
}

type LedgerService interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*model.LedgerReceipt, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*model.LedgerReceipt, error)
	Transfer(ctx context.Context, sourceID, targetID int64, amount decimal.Decimal) (*model.LedgerReceipt, error)
}

type AccountHandler struct {
	accounts AccountService
	ledger   LedgerService
}

func NewAccountHandler(accounts AccountService, ledger LedgerService) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		ledger:   ledger,
	}
}

func RegisterAccountRoutes(r *xhttp.Router, h *AccountHandler, auth xhttp.MiddlewareFunc) {
	r.POST("/account", auth(h.CreateAccount))
	r.GET("/account", auth(h.ListAccounts))
	r.GET("/account/my-account", auth(h.MyAccount))
	r.POST("/account/deposit", auth(h.DepositFunds))
	r.GET("/account/{id}", auth(h.GetAccount))
	r.PUT("/account/{id}/deposit", auth(h.Deposit))
	r.PUT("/account/{id}/withdraw", auth(h.Withdraw))
}

type accountCreatedResponse struct {
	AccountID   int64  `json:"accountId"`
	AccountName string `json:"accountName"`
	AccountType string `json:"accountType"`
	Remarks     string `json:"remarks"`
}

type depositResponse struct {
	AccountID     int64           `json:"accountId"`
	BalanceAmount decimal.Decimal `json:"balanceAmount"`
	BalanceDate   time.Time       `json:"balanceDate"`
}

func (h *AccountHandler) CreateAccount(ctx *xhttp.RequestCtx) {
	var req model.AccountCreateRequest
	if !bind(ctx, &req) {
		return
	}
	acc, err := h.accounts.Create(ctx, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusCreated, accountCreatedResponse{
		AccountID:   acc.ID,
		AccountName: acc.AccountName,
		AccountType: acc.AccountType,
		Remarks:     acc.Remarks,
	})
}

func (h *AccountHandler) GetAccount(ctx *xhttp.RequestCtx) {
	id, ok := pathInt64(ctx, "id")
	if !ok {
		return
	}
	acc, err := h.accounts.Get(ctx, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, acc)
}

func (h *AccountHandler) ListAccounts(ctx *xhttp.RequestCtx) {
	accounts, err := h.accounts.List(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, accounts)
}

func (h *AccountHandler) MyAccount(ctx *xhttp.RequestCtx) {
	acc, err := h.accounts.MyAccount(ctx, principal(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, acc)
}

// Deposit handles PUT /account/{id}/deposit?amount= and answers with the
// updated account.
func (h *AccountHandler) Deposit(ctx *xhttp.RequestCtx) {
	h.applyQueryAmount(ctx, h.ledger.Deposit)
}

func (h *AccountHandler) Withdraw(ctx *xhttp.RequestCtx) {
	h.applyQueryAmount(ctx, h.ledger.Withdraw)
}

func (h *AccountHandler) applyQueryAmount(ctx *xhttp.RequestCtx, op func(context.Context, int64, decimal.Decimal) (*model.LedgerReceipt, error)) {
	id, ok := pathInt64(ctx, "id")
	if !ok {
		return
	}
	amount, err := decimal.NewFromString(query(ctx, "amount"))
	if err != nil {
		xhttp.WriteMessage(ctx, xhttp.StatusBadRequest, "amount must be a number")
		return
	}
	receipt, err := op(ctx, id, amount)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, receipt.Account)
}

// DepositFunds handles the JSON body variant of a deposit.
func (h *AccountHandler) DepositFunds(ctx *xhttp.RequestCtx) {
	var req model.DepositRequest
	if !bind(ctx, &req) {
		return
	}
	receipt, err := h.ledger.Deposit(ctx, *req.AccountID, req.Amount)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, depositResponse{
		AccountID:     receipt.Account.ID,
		BalanceAmount: receipt.Account.Balance,
		BalanceDate:   receipt.At,
	})
}
