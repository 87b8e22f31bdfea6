package handlers

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/internal/repository"
	"github.com/nimasrn/banking-gateway/internal/services"
	"github.com/nimasrn/banking-gateway/pkg/auth"
	xhttp "github.com/nimasrn/banking-gateway/pkg/http"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t       *testing.T
	handler xhttp.RequestHandler
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	db := repository.NewTestDB(t)
	accounts := repository.NewAccountRepository(db)
	customers := repository.NewCustomerRepository(db)
	users := repository.NewUserRepository(db)
	transactions := repository.NewTransactionRepository(db)

	authSvc := services.NewAuthService(users, customers, accounts, auth.NewTokenIssuer("handlers-test-secret-0123456789", time.Hour))
	ledger := services.NewLedgerService(accounts, transactions, nil)

	engine := xhttp.CreateServer()
	engine.Use(xhttp.RecoverMiddleware)
	engine.Use(xhttp.RequestIDMiddleware)
	RegisterRoutes(engine.Router, Handlers{
		Auth:        NewAuthHandler(authSvc),
		Account:     NewAccountHandler(services.NewAccountService(accounts, customers, users), ledger),
		Transaction: NewTransactionHandler(ledger, services.NewHistoryService(transactions)),
		User:        NewUserHandler(services.NewUserService(users, customers, accounts)),
		Health:      NewHealthHandler(services.NewHealthService(map[string]services.Pinger{"postgres": db})),
	}, authSvc)

	return &apiClient{t: t, handler: engine.Handler()}
}

func (c *apiClient) do(method, path, token, body string) *xhttp.RequestCtx {
	c.t.Helper()
	var b []byte
	if body != "" {
		b = []byte(body)
	}
	ctx := setupTestContext(method, path, b)
	if token != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
	}
	c.handler(ctx)
	return ctx
}

// signUp registers and logs in, returning the token and the default account id.
func (c *apiClient) signUp(name, role string) (string, int64) {
	c.t.Helper()
	email := name + "@example.com"
	ctx := c.do("POST", "/auth/register", "", fmt.Sprintf(`{"userName":%q,"email":%q,"password":"pw-123456","role":%q}`, name, email, role))
	require.Equal(c.t, 200, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	ctx = c.do("POST", "/auth/login", "", fmt.Sprintf(`{"email":%q,"password":"pw-123456"}`, email))
	require.Equal(c.t, 200, ctx.Response.StatusCode())
	var login model.LoginResponse
	require.NoError(c.t, json.Unmarshal(ctx.Response.Body(), &login))

	ctx = c.do("GET", "/account/my-account", login.Token, "")
	require.Equal(c.t, 200, ctx.Response.StatusCode())
	var acc model.Account
	require.NoError(c.t, json.Unmarshal(ctx.Response.Body(), &acc))
	return login.Token, acc.ID
}

func (c *apiClient) balance(token string, id int64) decimal.Decimal {
	c.t.Helper()
	ctx := c.do("GET", fmt.Sprintf("/account/%d", id), token, "")
	require.Equal(c.t, 200, ctx.Response.StatusCode())
	var acc model.Account
	require.NoError(c.t, json.Unmarshal(ctx.Response.Body(), &acc))
	return acc.Balance
}

func (c *apiClient) history(token string, id int64) []model.HistoryEntry {
	c.t.Helper()
	ctx := c.do("GET", fmt.Sprintf("/transactions/history/%d", id), token, "")
	require.Equal(c.t, 200, ctx.Response.StatusCode())
	var entries []model.HistoryEntry
	require.NoError(c.t, json.Unmarshal(ctx.Response.Body(), &entries))
	return entries
}

func TestAPI_TransferFlow(t *testing.T) {
	api := newAPI(t)
	alice, aliceAcc := api.signUp("alice", "")
	bob, bobAcc := api.signUp("bob", "")

	assert.True(t, decimal.NewFromInt(1000).Equal(api.balance(alice, aliceAcc)))

	ctx := api.do("POST", "/transactions/transfer", alice,
		fmt.Sprintf(`{"sourceAccountId":%d,"targetAccountId":%d,"amount":300}`, aliceAcc, bobAcc))
	require.Equal(t, 200, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	assert.Equal(t, "Transfer successful", string(ctx.Response.Body()))

	assert.True(t, decimal.NewFromInt(700).Equal(api.balance(alice, aliceAcc)))
	assert.True(t, decimal.NewFromInt(1300).Equal(api.balance(bob, bobAcc)))

	aliceHistory := api.history(alice, aliceAcc)
	require.Len(t, aliceHistory, 1)
	assert.Equal(t, "DEBIT", aliceHistory[0].Type)
	assert.Equal(t, "bob's Account", aliceHistory[0].OtherParty)
	assert.True(t, decimal.NewFromInt(300).Equal(aliceHistory[0].Amount))

	bobHistory := api.history(bob, bobAcc)
	require.Len(t, bobHistory, 1)
	assert.Equal(t, "CREDIT", bobHistory[0].Type)
	assert.Equal(t, "alice's Account", bobHistory[0].OtherParty)

	ctx = api.do("POST", "/transactions/transfer", alice,
		fmt.Sprintf(`{"sourceAccountId":%d,"targetAccountId":%d,"amount":5000}`, aliceAcc, bobAcc))
	assert.Equal(t, 400, ctx.Response.StatusCode())
	assert.Equal(t, "Insufficient balance in source account", messageOf(t, ctx))

	ctx = api.do("POST", "/transactions/transfer", alice,
		fmt.Sprintf(`{"sourceAccountId":%d,"targetAccountId":%d,"amount":1}`, aliceAcc, aliceAcc))
	assert.Equal(t, 400, ctx.Response.StatusCode())
	assert.Equal(t, "Source and Target accounts cannot be same", messageOf(t, ctx))
}

func TestAPI_DepositWithdraw(t *testing.T) {
	api := newAPI(t)
	token, acc := api.signUp("carol", "")

	ctx := api.do("PUT", fmt.Sprintf("/account/%d/withdraw?amount=1000", acc), token, "")
	require.Equal(t, 200, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	assert.True(t, decimal.Zero.Equal(api.balance(token, acc)))

	ctx = api.do("PUT", fmt.Sprintf("/account/%d/withdraw?amount=1", acc), token, "")
	assert.Equal(t, 400, ctx.Response.StatusCode())
	assert.Equal(t, "Insufficient balance", messageOf(t, ctx))

	ctx = api.do("PUT", fmt.Sprintf("/account/%d/deposit?amount=-5", acc), token, "")
	assert.Equal(t, 400, ctx.Response.StatusCode())
	assert.Equal(t, "Deposit amount must be positive", messageOf(t, ctx))

	ctx = api.do("POST", "/account/deposit", token, fmt.Sprintf(`{"accountId":%d,"amount":"42.50"}`, acc))
	require.Equal(t, 200, ctx.Response.StatusCode())
	var body map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, 42.5, body["balanceAmount"])

	for _, huge := range []string{"1e16", "1e400"} {
		ctx = api.do("PUT", fmt.Sprintf("/account/%d/deposit?amount=%s", acc, huge), token, "")
		assert.Equal(t, 400, ctx.Response.StatusCode(), huge)
		assert.Equal(t, "Amount exceeds the maximum allowed", messageOf(t, ctx))
	}
	ctx = api.do("POST", "/transactions/transfer", token, fmt.Sprintf(`{"sourceAccountId":%d,"targetAccountId":9999,"amount":1e50000000}`, acc))
	assert.Equal(t, 400, ctx.Response.StatusCode())

	ctx = api.do("PUT", "/account/9999/deposit?amount=1", token, "")
	assert.Equal(t, 404, ctx.Response.StatusCode())
	assert.Equal(t, "Account not found", messageOf(t, ctx))

	entries := api.history(token, acc)
	require.Len(t, entries, 2)
	assert.Equal(t, "CREDIT", entries[0].Type)
	assert.Equal(t, "Self Deposit", entries[0].OtherParty)
	assert.Equal(t, "DEBIT", entries[1].Type)
	assert.Equal(t, "Self Withdrawal", entries[1].OtherParty)
}

func TestAPI_AccessControl(t *testing.T) {
	api := newAPI(t)
	customer, _ := api.signUp("dave", "")
	admin, _ := api.signUp("erin", "ADMIN")

	ctx := api.do("GET", "/account", "", "")
	assert.Equal(t, 401, ctx.Response.StatusCode())

	ctx = api.do("GET", "/account", "garbage", "")
	assert.Equal(t, 401, ctx.Response.StatusCode())
	assert.Equal(t, "Invalid or expired token", messageOf(t, ctx))

	ctx = api.do("GET", "/users", customer, "")
	assert.Equal(t, 403, ctx.Response.StatusCode())

	ctx = api.do("GET", "/users", admin, "")
	require.Equal(t, 200, ctx.Response.StatusCode())
	assert.NotContains(t, string(ctx.Response.Body()), "$2a$")

	ctx = api.do("GET", "/users/all", customer, "")
	require.Equal(t, 200, ctx.Response.StatusCode())
	var directory []model.UserSearchResult
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &directory))
	require.Len(t, directory, 1)
	assert.Equal(t, "dave@hcl", directory[0].UpiID)

	ctx = api.do("POST", "/users/kyc/submit", customer, "")
	assert.Equal(t, 200, ctx.Response.StatusCode())
}

func TestAPI_PublicRoutes(t *testing.T) {
	api := newAPI(t)

	ctx := api.do("GET", "/health", "", "")
	assert.Equal(t, 200, ctx.Response.StatusCode())
	assert.Equal(t, "success", string(ctx.Response.Body()))

	ctx = api.do("GET", "/nowhere", "", "")
	assert.Equal(t, 404, ctx.Response.StatusCode())

	api.signUp("frank", "")
	ctx = api.do("POST", "/auth/register", "", `{"userName":"frank2","email":"frank@example.com","password":"x"}`)
	assert.Equal(t, 400, ctx.Response.StatusCode())
	assert.Equal(t, "Email already exists", messageOf(t, ctx))

	ctx = api.do("POST", "/auth/login", "", `{"email":"frank@example.com","password":"wrong"}`)
	assert.Equal(t, 401, ctx.Response.StatusCode())
	assert.Equal(t, "Invalid email or password", messageOf(t, ctx))

	ctx = api.do("POST", "/auth/register", "", `{"userName":"x","email":"not-an-email","password":"x"}`)
	assert.Equal(t, 400, ctx.Response.StatusCode())
	assert.Equal(t, "email must be a valid email", messageOf(t, ctx))
}
