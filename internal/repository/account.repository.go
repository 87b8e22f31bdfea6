package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/pkg/pg"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAccountNotFound = errors.New("account not found")

type AccountRepository struct {
	*pg.DB
}

func NewAccountRepository(db *pg.DB) *AccountRepository {
	return &AccountRepository{
		db,
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *model.Account) (*model.Account, error) {
	entity := toAccountEntity(a)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toAccountModel(entity), nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	var entity AccountEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return toAccountModel(&entity), nil
}

// GetForUpdate reads the account with SELECT ... FOR UPDATE. It must run
// inside a transaction; the lock is held until that transaction ends.
func (r *AccountRepository) GetForUpdate(ctx context.Context, id int64) (*model.Account, error) {
	var entity AccountEntity
	err := r.Write(ctx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return toAccountModel(&entity), nil
}

// UpdateBalance writes an already computed balance. Callers hold the row lock.
func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&AccountEntity{}).
		Where("id = ?", id).
		Update("balance", balance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*model.Account, error) {
	var entities []*AccountEntity
	err := r.Read(ctx).WithContext(ctx).
		Order("id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toAccountModels(entities), nil
}

func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*model.Account, error) {
	var entities []*AccountEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toAccountModels(entities), nil
}

// FirstIDsByCustomers maps each customer to its lowest account id. Customers
// without accounts are absent from the map.
func (r *AccountRepository) FirstIDsByCustomers(ctx context.Context, customerIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(customerIDs))
	if len(customerIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		CustomerID int64
		AccountID  int64
	}
	err := r.Read(ctx).WithContext(ctx).
		Model(&AccountEntity{}).
		Select("customer_id, MIN(id) AS account_id").
		Where("customer_id IN ?", customerIDs).
		Group("customer_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CustomerID] = row.AccountID
	}
	return out, nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.Read(ctx).WithContext(ctx).Model(&AccountEntity{}).Count(&n).Error
	return n, err
}
