package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nimasrn/banking-gateway/internal/model"
	xhttp "github.com/nimasrn/banking-gateway/pkg/http"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Create(ctx context.Context, req model.AccountCreateRequest) (*model.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountService) Get(ctx context.Context, id int64) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountService) List(ctx context.Context) ([]*model.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Account), args.Error(1)
}

func (m *MockAccountService) MyAccount(ctx context.Context, p model.Principal) (*model.Account, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*model.LedgerReceipt, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerReceipt), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*model.LedgerReceipt, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerReceipt), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, sourceID, targetID int64, amount decimal.Decimal) (*model.LedgerReceipt, error) {
	args := m.Called(ctx, sourceID, targetID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerReceipt), args.Error(1)
}

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) GetHistory(ctx context.Context, accountID int64) ([]*model.HistoryEntry, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.HistoryEntry), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) SearchByUpi(ctx context.Context, upiID string) (*model.UserSearchResult, error) {
	args := m.Called(ctx, upiID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSearchResult), args.Error(1)
}

func (m *MockUserService) Directory(ctx context.Context) ([]*model.UserSearchResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserSearchResult), args.Error(1)
}

func (m *MockUserService) SubmitKyc(ctx context.Context, p model.Principal, req *model.KycSubmitRequest) error {
	return m.Called(ctx, p, req).Error(0)
}

func (m *MockUserService) ListUsers(ctx context.Context, p model.Principal) ([]*model.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserService) UpdateKycStatus(ctx context.Context, p model.Principal, userID int64, status bool) error {
	return m.Called(ctx, p, userID, status).Error(0)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Principal), args.Error(1)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func decEq(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func messageOf(t *testing.T, ctx *xhttp.RequestCtx) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	return body["message"]
}
