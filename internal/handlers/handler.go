package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nimasrn/banking-gateway/internal/services"
	xhttp "github.com/nimasrn/banking-gateway/pkg/http"
	"github.com/nimasrn/banking-gateway/pkg/logger"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their wire names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// bind decodes the request body into dst and runs its validate tags. A
// failure has already been answered with 400 when bind returns false.
func bind(ctx *xhttp.RequestCtx, dst any) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		xhttp.WriteMessage(ctx, xhttp.StatusBadRequest, "Malformed request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		xhttp.WriteMessage(ctx, xhttp.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request"
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "datetime":
		return fe.Field() + " must be formatted as YYYY-MM-DD"
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return xhttp.StatusNotFound
	case errors.Is(err, services.ErrInvalidOperation),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInsufficientFunds):
		return xhttp.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return xhttp.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return xhttp.StatusForbidden
	default:
		return xhttp.StatusInternalServerError
	}
}

// writeError answers with the status and message that belong to err.
// Unexpected errors are logged here and nowhere else.
func writeError(ctx *xhttp.RequestCtx, err error) {
	status := statusFor(err)
	if status == xhttp.StatusInternalServerError {
		logger.Error("request failed",
			"error", err,
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"request_id", xhttp.RequestID(ctx),
		)
	}
	xhttp.WriteMessage(ctx, status, services.Message(err))
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, bool) {
	raw, _ := ctx.UserValue(name).(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		xhttp.WriteMessage(ctx, xhttp.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}
