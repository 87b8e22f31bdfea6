package handlers

import (
	xhttp "github.com/nimasrn/banking-gateway/pkg/http"
	"github.com/nimasrn/banking-gateway/pkg/logger"
)

type HealthService interface {
	Get() error
}

type HealthHandler struct {
	svc HealthService
}

func RegisterHealthRoutes(r *xhttp.Router, h *HealthHandler) {
	r.GET("/health", h.GetHealth)
}

func NewHealthHandler(svc HealthService) *HealthHandler {
	return &HealthHandler{
		svc: svc,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.svc.Get(); err != nil {
		logger.Warn("health check failed", "error", err)
		xhttp.WriteMessage(ctx, xhttp.StatusServiceUnavailable, "unavailable")
		return
	}
	xhttp.WriteText(ctx, xhttp.StatusOK, "success")
}
