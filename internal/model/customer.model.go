package model

import "time"

type Customer struct {
	ID           int64  `json:"customerId"`
	CustomerName string `json:"customerName"`
	CustomerType string `json:"customerType"`
	Notes        string `json:"notes"`
}

type CustomerKyc struct {
	CustomerID int64      `json:"customerId"`
	Address1   string     `json:"address1"`
	Address2   string     `json:"address2"`
	MailID     string     `json:"mailId"`
	Dob        *time.Time `json:"dob"`
	Notes      string     `json:"notes"`
}

// KycSubmitRequest is optional on submission; a nil request only flips the
// user's KYC flag.
type KycSubmitRequest struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	MailID   string `json:"mailId" validate:"omitempty,email"`
	Dob      string `json:"dob"    validate:"omitempty,datetime=2006-01-02"`
	Notes    string `json:"notes"`
}
