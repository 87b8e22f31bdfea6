package repository

import (
	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/shopspring/decimal"
)

type AccountEntity struct {
	ID          int64           `db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	AccountName string          `db:"account_name" gorm:"column:account_name;not null"`
	AccountType string          `db:"account_type" gorm:"column:account_type;not null"`
	Remarks     string          `db:"remarks"      gorm:"column:remarks"`
	Balance     decimal.Decimal `db:"balance"      gorm:"column:balance;type:decimal(19,4);not null;default:0;check:chk_accounts_balance,balance >= 0"`
	CustomerID  *int64          `db:"customer_id"  gorm:"column:customer_id;index"`
}

func (AccountEntity) TableName() string {
	return "accounts"
}

func toAccountEntity(m *model.Account) *AccountEntity {
	if m == nil {
		return nil
	}
	return &AccountEntity{
		ID:          m.ID,
		AccountName: m.AccountName,
		AccountType: m.AccountType,
		Remarks:     m.Remarks,
		Balance:     m.Balance,
		CustomerID:  m.CustomerID,
	}
}

func toAccountModel(e *AccountEntity) *model.Account {
	if e == nil {
		return nil
	}
	return &model.Account{
		ID:          e.ID,
		AccountName: e.AccountName,
		AccountType: e.AccountType,
		Remarks:     e.Remarks,
		Balance:     e.Balance,
		CustomerID:  e.CustomerID,
	}
}

func toAccountModels(entities []*AccountEntity) []*model.Account {
	models := make([]*model.Account, len(entities))
	for i, e := range entities {
		models[i] = toAccountModel(e)
	}
	return models
}
