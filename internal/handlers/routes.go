package handlers

import (
	xhttp "github.com/nimasrn/banking-gateway/pkg/http"
)

type Handlers struct {
	Auth        *AuthHandler
	Account     *AccountHandler
	Transaction *TransactionHandler
	User        *UserHandler
	Health      *HealthHandler
}

// RegisterRoutes mounts every endpoint on r. Everything outside /auth and
// /health requires a bearer token checked by authn.
func RegisterRoutes(r *xhttp.Router, h Handlers, authn Authenticator) {
	auth := RequireAuth(authn)

	RegisterHealthRoutes(r, h.Health)
	RegisterAuthRoutes(r, h.Auth)
	RegisterAccountRoutes(r, h.Account, auth)
	RegisterTransactionRoutes(r, h.Transaction, auth)
	RegisterUserRoutes(r, h.User, auth)
}
