package repository

import (
	"github.com/nimasrn/banking-gateway/internal/model"
)

type UserEntity struct {
	ID           int64  `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	UserName     string `db:"user_name"     gorm:"column:user_name;not null;uniqueIndex"`
	Email        string `db:"email"         gorm:"column:email;not null;uniqueIndex"`
	Role         string `db:"role"          gorm:"column:role;not null"`
	UpiID        string `db:"upi_id"        gorm:"column:upi_id;uniqueIndex"`
	KycCompleted bool   `db:"kyc_completed" gorm:"column:kyc_completed;not null;default:false"`
	PasswordHash string `db:"password_hash" gorm:"column:password_hash;not null"`
	CustomerID   *int64 `db:"customer_id"   gorm:"column:customer_id;index"`
}

func (UserEntity) TableName() string {
	return "users"
}

func toUserEntity(m *model.User) *UserEntity {
	if m == nil {
		return nil
	}
	return &UserEntity{
		ID:           m.ID,
		UserName:     m.UserName,
		Email:        m.Email,
		Role:         string(m.Role),
		UpiID:        m.UpiID,
		KycCompleted: m.KycCompleted,
		PasswordHash: m.PasswordHash,
		CustomerID:   m.CustomerID,
	}
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		ID:           e.ID,
		UserName:     e.UserName,
		Email:        e.Email,
		Role:         model.Role(e.Role),
		UpiID:        e.UpiID,
		KycCompleted: e.KycCompleted,
		PasswordHash: e.PasswordHash,
		CustomerID:   e.CustomerID,
	}
}

func toUserModels(entities []*UserEntity) []*model.User {
	models := make([]*model.User, len(entities))
	for i, e := range entities {
		models[i] = toUserModel(e)
	}
	return models
}
