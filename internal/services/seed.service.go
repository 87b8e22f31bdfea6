package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/internal/repository"
	"github.com/nimasrn/banking-gateway/pkg/auth"
	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	seedAdminUserName = "admin"
	seedAdminEmail    = "admin@hcl.com"
	seedAdminPassword = "admin123"
	seedUserPassword  = "password123"
)

type seedUser struct {
	name     string
	userName string
	email    string
	upiID    string
	opening  decimal.Decimal
}

var seedUsers = []seedUser{
	{"Rahul", "rahul", "rahul@hcl.com", "rahul@hcl", decimal.NewFromInt(12000)},
	{"Anjali", "anjali", "anjali@hcl.com", "anjali@hcl", decimal.NewFromInt(9500)},
	{"Vikram", "vikram", "vikram@hcl.com", "vikram@hcl", decimal.NewFromInt(18250)},
	{"Sneha", "sneha", "sneha@hcl.com", "sneha@hcl", decimal.NewFromInt(7400)},
	{"Amit", "amit", "amit@hcl.com", "amit@hcl", decimal.NewFromInt(15600)},
	{"Priya", "priya", "priya@hcl.com", "priya@hcl", decimal.NewFromInt(13300)},
}

type SeedUserRepository interface {
	UserRepository
	Save(ctx context.Context, u *model.User) error
}

type SeedAccountRepository interface {
	Create(ctx context.Context, a *model.Account) (*model.Account, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*model.Account, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

// SeedService loads the demo admin and customers. Running it again only
// repairs what is missing.
type SeedService struct {
	userRepo     SeedUserRepository
	customerRepo CustomerRepository
	accountRepo  SeedAccountRepository
}

func NewSeedService(userRepo SeedUserRepository, customerRepo CustomerRepository, accountRepo SeedAccountRepository) *SeedService {
	return &SeedService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		accountRepo:  accountRepo,
	}
}

func (s *SeedService) Seed(ctx context.Context) error {
	return s.userRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.seedAdmin(ctx); err != nil {
			return err
		}
		for _, su := range seedUsers {
			if err := s.seedCustomer(ctx, su); err != nil {
				return fmt.Errorf("seed %s: %w", su.userName, err)
			}
		}
		logger.Info("demo data seeded", "customers", len(seedUsers))
		return nil
	})
}

func (s *SeedService) seedAdmin(ctx context.Context) error {
	_, err := s.userRepo.GetByUserName(ctx, seedAdminUserName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(seedAdminPassword)
	if err != nil {
		return err
	}
	_, err = s.userRepo.Create(ctx, &model.User{
		UserName:     seedAdminUserName,
		Email:        seedAdminEmail,
		Role:         model.RoleAdmin,
		UpiID:        "admin" + upiSuffix,
		KycCompleted: true,
		PasswordHash: hash,
	})
	return err
}

func (s *SeedService) seedCustomer(ctx context.Context, su seedUser) error {
	user, err := s.findSeedUser(ctx, su)
	if err != nil {
		return err
	}

	if user == nil {
		customer, err := s.customerRepo.Create(ctx, &model.Customer{CustomerName: su.name})
		if err != nil {
			return err
		}
		hash, err := auth.HashPassword(seedUserPassword)
		if err != nil {
			return err
		}
		user, err = s.userRepo.Create(ctx, &model.User{
			UserName:     su.userName,
			Email:        su.email,
			Role:         model.RoleCustomer,
			UpiID:        su.upiID,
			KycCompleted: true,
			PasswordHash: hash,
			CustomerID:   &customer.ID,
		})
		if err != nil {
			return err
		}
	} else {
		if user.CustomerID == nil {
			customer, err := s.customerRepo.Create(ctx, &model.Customer{CustomerName: su.name})
			if err != nil {
				return err
			}
			user.CustomerID = &customer.ID
		}
		user.Role = model.RoleCustomer
		user.KycCompleted = true
		if user.UpiID == "" {
			user.UpiID = su.upiID
		}
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
	}

	accounts, err := s.accountRepo.ListByCustomer(ctx, *user.CustomerID)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		_, err = s.accountRepo.Create(ctx, &model.Account{
			AccountName: su.name + "'s Savings",
			AccountType: model.AccountTypeSavings,
			Balance:     su.opening,
			CustomerID:  user.CustomerID,
		})
		return err
	}
	if !accounts[0].Balance.IsPositive() {
		return s.accountRepo.UpdateBalance(ctx, accounts[0].ID, su.opening)
	}
	return nil
}

func (s *SeedService) findSeedUser(ctx context.Context, su seedUser) (*model.User, error) {
	user, err := s.userRepo.GetByUserName(ctx, su.userName)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	user, err = s.userRepo.GetByEmail(ctx, su.email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	return nil, nil
}
