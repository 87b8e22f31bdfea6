package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/internal/repository"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Create(ctx context.Context, a *model.Account) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	List(ctx context.Context) ([]*model.Account, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*model.Account, error)
}

type CustomerLookup interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type AccountService struct {
	accountRepo  AccountRepository
	customerRepo CustomerLookup
	userRepo     UserLookup
}

func NewAccountService(accountRepo AccountRepository, customerRepo CustomerLookup, userRepo UserLookup) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
	}
}

// Create opens an empty account for an existing customer.
func (s *AccountService) Create(ctx context.Context, req model.AccountCreateRequest) (*model.Account, error) {
	if req.CustomerID == nil {
		return nil, newError(ErrInvalidOperation, "customerId is required")
	}
	if _, err := s.customerRepo.GetByID(ctx, *req.CustomerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, newError(ErrNotFound, "Customer not found")
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	acc, err := s.accountRepo.Create(ctx, &model.Account{
		AccountName: req.AccountName,
		AccountType: req.AccountType,
		Remarks:     req.Remarks,
		Balance:     decimal.Zero,
		CustomerID:  req.CustomerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return acc, nil
}

func (s *AccountService) Get(ctx context.Context, id int64) (*model.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, newError(ErrNotFound, "Account not found")
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}

func (s *AccountService) List(ctx context.Context) ([]*model.Account, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// MyAccount returns the first account of the caller's customer profile.
func (s *AccountService) MyAccount(ctx context.Context, p model.Principal) (*model.Account, error) {
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.CustomerID == nil {
		return nil, newError(ErrNotFound, "Customer profile not found")
	}

	accounts, err := s.accountRepo.ListByCustomer(ctx, *user.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("list customer accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, newError(ErrNotFound, "No accounts found for this user")
	}
	return accounts[0], nil
}
