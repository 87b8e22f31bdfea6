package handlers

import (
	"bytes"
	"context"

	"github.com/nimasrn/banking-gateway/internal/model"
	xhttp "github.com/nimasrn/banking-gateway/pkg/http"
)

const userValuePrincipal = "principal"

var bearerPrefix = []byte("Bearer ")

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's principal on the request for the wrapped handler.
func RequireAuth(a Authenticator) xhttp.MiddlewareFunc {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			header := ctx.Request.Header.Peek("Authorization")
			if !bytes.HasPrefix(header, bearerPrefix) {
				xhttp.WriteMessage(ctx, xhttp.StatusUnauthorized, "Authentication required")
				return
			}
			token := string(bytes.TrimSpace(header[len(bearerPrefix):]))

			p, err := a.Authenticate(ctx, token)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.SetUserValue(userValuePrincipal, p)
			next(ctx)
		}
	}
}

func principal(ctx *xhttp.RequestCtx) model.Principal {
	p, _ := ctx.UserValue(userValuePrincipal).(model.Principal)
	return p
}
