package handlers

import (
	"context"
	"strconv"

	"github.com/nimasrn/banking-gateway/internal/model"
	xhttp "github.com/nimasrn/banking-gateway/pkg/http"
)

type UserService interface {
	SearchByUpi(ctx context.Context, upiID string) (*model.UserSearchResult, error)
	Directory(ctx context.Context) ([]*model.UserSearchResult, error)
	SubmitKyc(ctx context.Context, p model.Principal, req *model.KycSubmitRequest) error
	ListUsers(ctx context.Context, p model.Principal) ([]*model.User, error)
	UpdateKycStatus(ctx context.Context, p model.Principal, userID int64, status bool) error
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

func RegisterUserRoutes(r *xhttp.Router, h *UserHandler, auth xhttp.MiddlewareFunc) {
	r.GET("/users", auth(h.ListUsers))
	r.GET("/users/search", auth(h.Search))
	r.GET("/users/all", auth(h.Directory))
	r.POST("/users/kyc/submit", auth(h.SubmitKyc))
	r.PUT("/users/{id}/kyc-status", auth(h.UpdateKycStatus))
}

func (h *UserHandler) Search(ctx *xhttp.RequestCtx) {
	upiID := query(ctx, "upiId")
	if upiID == "" {
		xhttp.WriteMessage(ctx, xhttp.StatusBadRequest, "upiId is required")
		return
	}
	res, err := h.svc.SearchByUpi(ctx, upiID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, res)
}

func (h *UserHandler) Directory(ctx *xhttp.RequestCtx) {
	res, err := h.svc.Directory(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, res)
}

// SubmitKyc accepts an empty body; the details are optional.
func (h *UserHandler) SubmitKyc(ctx *xhttp.RequestCtx) {
	var req *model.KycSubmitRequest
	if len(ctx.PostBody()) > 0 {
		req = new(model.KycSubmitRequest)
		if !bind(ctx, req) {
			return
		}
	}
	if err := h.svc.SubmitKyc(ctx, principal(ctx), req); err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteText(ctx, xhttp.StatusOK, "KYC submitted successfully")
}

func (h *UserHandler) ListUsers(ctx *xhttp.RequestCtx) {
	users, err := h.svc.ListUsers(ctx, principal(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, users)
}

func (h *UserHandler) UpdateKycStatus(ctx *xhttp.RequestCtx) {
	id, ok := pathInt64(ctx, "id")
	if !ok {
		return
	}
	status, err := strconv.ParseBool(query(ctx, "status"))
	if err != nil {
		xhttp.WriteMessage(ctx, xhttp.StatusBadRequest, "status must be true or false")
		return
	}
	if err := h.svc.UpdateKycStatus(ctx, principal(ctx), id, status); err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteText(ctx, xhttp.StatusOK, "KYC status updated")
}
