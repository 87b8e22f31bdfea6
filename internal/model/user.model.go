package model

import "strings"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole maps a requested role to a known one; anything but "admin"
// (in any case) is a customer.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleCustomer
}

type User struct {
	ID           int64  `json:"id"`
	UserName     string `json:"userName"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	UpiID        string `json:"upiId"`
	KycCompleted bool   `json:"kycCompleted"`
	PasswordHash string `json:"-"`
	CustomerID   *int64 `json:"customerId"`
}

// Principal is the authenticated caller, taken from a verified token.
type Principal struct {
	UserID int64
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type RegisterRequest struct {
	UserName string `json:"userName" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	Role         string `json:"role"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	KycCompleted bool   `json:"kycCompleted"`
	Message      string `json:"message"`
}

// UserSearchResult is one entry of the UPI directory.
type UserSearchResult struct {
	Name      string `json:"name"`
	UpiID     string `json:"upiId"`
	BankName  string `json:"bankName"`
	AccountID *int64 `json:"accountId"`
}
