package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/internal/repository"
	"github.com/nimasrn/banking-gateway/pkg/auth"
	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/shopspring/decimal"
)

const upiSuffix = "@hcl"

var welcomeBalance = decimal.NewFromInt(1000)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUserName(ctx context.Context, userName string) (*model.User, error)
	GetByUpiID(ctx context.Context, upiID string) (*model.User, error)
	List(ctx context.Context, role model.Role) ([]*model.User, error)
	SetKycCompleted(ctx context.Context, id int64, completed bool) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
	SaveKyc(ctx context.Context, k *model.CustomerKyc) error
}

type AccountCreator interface {
	Create(ctx context.Context, a *model.Account) (*model.Account, error)
}

type TokenIssuer interface {
	Issue(userID int64, email, role string) (string, error)
	Parse(token string) (*auth.Claims, error)
}

type AuthService struct {
	userRepo     UserRepository
	customerRepo CustomerRepository
	accountRepo  AccountCreator
	tokens       TokenIssuer
}

func NewAuthService(userRepo UserRepository, customerRepo CustomerRepository, accountRepo AccountCreator, tokens TokenIssuer) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		accountRepo:  accountRepo,
		tokens:       tokens,
	}
}

// Register creates the customer profile, the login and a funded default
// savings account in one transaction.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error) {
	role := model.ParseRole(req.Role)
	upiID := UpiIDFor(req.UserName)

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *model.User
	err = s.userRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureUnique(ctx, req.Email, req.UserName, upiID); err != nil {
			return err
		}

		customer, err := s.customerRepo.Create(ctx, &model.Customer{CustomerName: req.UserName})
		if err != nil {
			return fmt.Errorf("create customer: %w", err)
		}

		created, err = s.userRepo.Create(ctx, &model.User{
			UserName:     req.UserName,
			Email:        req.Email,
			Role:         role,
			UpiID:        upiID,
			KycCompleted: role == model.RoleAdmin,
			PasswordHash: hash,
			CustomerID:   &customer.ID,
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		_, err = s.accountRepo.Create(ctx, &model.Account{
			AccountName: req.UserName + "'s Account",
			AccountType: model.AccountTypeSavings,
			Balance:     welcomeBalance,
			CustomerID:  &customer.ID,
		})
		if err != nil {
			return fmt.Errorf("create default account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("user registered", "user_id", created.ID, "role", created.Role)
	return &model.RegisterResponse{
		Message:  "User registered successfully",
		Username: created.UserName,
	}, nil
}

func (s *AuthService) ensureUnique(ctx context.Context, email, userName, upiID string) error {
	checks := []struct {
		lookup func(context.Context, string) (*model.User, error)
		value  string
		msg    string
	}{
		{s.userRepo.GetByEmail, email, "Email already exists"},
		{s.userRepo.GetByUserName, userName, "Username already exists"},
		{s.userRepo.GetByUpiID, upiID, "UPI ID already exists"},
	}
	for _, c := range checks {
		_, err := c.lookup(ctx, c.value)
		if err == nil {
			return newError(ErrInvalidOperation, c.msg)
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("check uniqueness: %w", err)
		}
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("get user: %w", err)
		}
		auth.BurnPasswordCheck(req.Password)
		return nil, newError(ErrUnauthorized, "Invalid email or password")
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, newError(ErrUnauthorized, "Invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &model.LoginResponse{
		Token:        token,
		Role:         string(user.Role),
		Username:     user.UserName,
		Email:        user.Email,
		KycCompleted: user.KycCompleted,
		Message:      "Login successful",
	}, nil
}

// Authenticate turns a bearer token into the calling principal.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return model.Principal{}, newError(ErrUnauthorized, "Invalid or expired token")
	}
	id, err := claims.UserID()
	if err != nil || id <= 0 {
		return model.Principal{}, newError(ErrUnauthorized, "Invalid or expired token")
	}
	return model.Principal{
		UserID: id,
		Email:  claims.Email,
		Role:   model.Role(claims.Role),
	}, nil
}

// UpiIDFor derives the UPI handle from a user name: whitespace removed,
// lower-cased, bank suffix appended.
func UpiIDFor(userName string) string {
	var b strings.Builder
	for _, r := range userName {
		if !unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String() + upiSuffix
}
