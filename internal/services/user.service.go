package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/internal/repository"
)

const BankName = "HCL Bank"

type FirstAccountLookup interface {
	FirstIDsByCustomers(ctx context.Context, customerIDs []int64) (map[int64]int64, error)
}

type UserService struct {
	userRepo     UserRepository
	customerRepo CustomerRepository
	accountRepo  FirstAccountLookup
}

func NewUserService(userRepo UserRepository, customerRepo CustomerRepository, accountRepo FirstAccountLookup) *UserService {
	return &UserService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		accountRepo:  accountRepo,
	}
}

func (s *UserService) SearchByUpi(ctx context.Context, upiID string) (*model.UserSearchResult, error) {
	user, err := s.userRepo.GetByUpiID(ctx, upiID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, newError(ErrNotFound, "User not found with UPI ID: "+upiID)
		}
		return nil, fmt.Errorf("get user by upi: %w", err)
	}
	results, err := s.toSearchResults(ctx, []*model.User{user})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// Directory lists every customer user as a payee.
func (s *UserService) Directory(ctx context.Context) ([]*model.UserSearchResult, error) {
	users, err := s.userRepo.List(ctx, model.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return s.toSearchResults(ctx, users)
}

func (s *UserService) toSearchResults(ctx context.Context, users []*model.User) ([]*model.UserSearchResult, error) {
	var customerIDs []int64
	for _, u := range users {
		if u.CustomerID != nil {
			customerIDs = append(customerIDs, *u.CustomerID)
		}
	}

	names, err := s.customerRepo.NamesByIDs(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("load customer names: %w", err)
	}
	firstAccounts, err := s.accountRepo.FirstIDsByCustomers(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("load first accounts: %w", err)
	}

	out := make([]*model.UserSearchResult, 0, len(users))
	for _, u := range users {
		r := &model.UserSearchResult{
			Name:     u.UserName,
			UpiID:    u.UpiID,
			BankName: BankName,
		}
		if u.CustomerID != nil {
			if name, ok := names[*u.CustomerID]; ok {
				r.Name = name
			}
			if id, ok := firstAccounts[*u.CustomerID]; ok {
				r.AccountID = &id
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// SubmitKyc marks the caller as verified and stores the optional details
// on the caller's customer profile.
func (s *UserService) SubmitKyc(ctx context.Context, p model.Principal, req *model.KycSubmitRequest) error {
	var dob *time.Time
	if req != nil && req.Dob != "" {
		t, err := time.Parse(time.DateOnly, req.Dob)
		if err != nil {
			return newError(ErrInvalidOperation, "dob must be formatted as YYYY-MM-DD")
		}
		dob = &t
	}

	return s.userRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return newError(ErrNotFound, "User not found")
			}
			return fmt.Errorf("get user: %w", err)
		}

		if err := s.userRepo.SetKycCompleted(ctx, user.ID, true); err != nil {
			return fmt.Errorf("set kyc: %w", err)
		}

		if req == nil || user.CustomerID == nil {
			return nil
		}
		err = s.customerRepo.SaveKyc(ctx, &model.CustomerKyc{
			CustomerID: *user.CustomerID,
			Address1:   req.Address1,
			Address2:   req.Address2,
			MailID:     req.MailID,
			Dob:        dob,
			Notes:      req.Notes,
		})
		if err != nil {
			return fmt.Errorf("save kyc: %w", err)
		}
		return nil
	})
}

func (s *UserService) ListUsers(ctx context.Context, p model.Principal) ([]*model.User, error) {
	if !p.IsAdmin() {
		return nil, newError(ErrForbidden, "Access denied")
	}
	users, err := s.userRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) UpdateKycStatus(ctx context.Context, p model.Principal, userID int64, status bool) error {
	if !p.IsAdmin() {
		return newError(ErrForbidden, "Access denied")
	}
	if err := s.userRepo.SetKycCompleted(ctx, userID, status); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return newError(ErrNotFound, "User not found")
		}
		return fmt.Errorf("set kyc: %w", err)
	}
	return nil
}
