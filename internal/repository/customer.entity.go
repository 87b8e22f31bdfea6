package repository

import (
	"time"

	"github.com/nimasrn/banking-gateway/internal/model"
)

type CustomerEntity struct {
	ID           int64  `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	CustomerName string `db:"customer_name" gorm:"column:customer_name;not null"`
	CustomerType string `db:"customer_type" gorm:"column:customer_type"`
	Notes        string `db:"notes"         gorm:"column:notes"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

type CustomerKycEntity struct {
	CustomerID int64      `db:"customer_id" gorm:"primaryKey;autoIncrement:false;column:customer_id"`
	Address1   string     `db:"address_1"   gorm:"column:address_1"`
	Address2   string     `db:"address_2"   gorm:"column:address_2"`
	MailID     string     `db:"mail_id"     gorm:"column:mail_id"`
	Dob        *time.Time `db:"dob"         gorm:"column:dob;type:date"`
	Notes      string     `db:"notes"       gorm:"column:notes"`
}

func (CustomerKycEntity) TableName() string {
	return "customer_kyc"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:           m.ID,
		CustomerName: m.CustomerName,
		CustomerType: m.CustomerType,
		Notes:        m.Notes,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:           e.ID,
		CustomerName: e.CustomerName,
		CustomerType: e.CustomerType,
		Notes:        e.Notes,
	}
}

func toCustomerKycEntity(m *model.CustomerKyc) *CustomerKycEntity {
	if m == nil {
		return nil
	}
	return &CustomerKycEntity{
		CustomerID: m.CustomerID,
		Address1:   m.Address1,
		Address2:   m.Address2,
		MailID:     m.MailID,
		Dob:        m.Dob,
		Notes:      m.Notes,
	}
}

func toCustomerKycModel(e *CustomerKycEntity) *model.CustomerKyc {
	if e == nil {
		return nil
	}
	return &model.CustomerKyc{
		CustomerID: e.CustomerID,
		Address1:   e.Address1,
		Address2:   e.Address2,
		MailID:     e.MailID,
		Dob:        e.Dob,
		Notes:      e.Notes,
	}
}
