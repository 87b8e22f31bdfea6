package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/nimasrn/banking-gateway/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrKycNotFound      = errors.New("kyc record not found")
)

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(c)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

// SaveKyc inserts the customer's KYC record or overwrites the existing one.
func (r *CustomerRepository) SaveKyc(ctx context.Context, k *model.CustomerKyc) error {
	entity := toCustomerKycEntity(k)
	return r.Write(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"address_1", "address_2", "mail_id", "dob", "notes"}),
		}).
		Create(entity).
		Error
}

func (r *CustomerRepository) GetKyc(ctx context.Context, customerID int64) (*model.CustomerKyc, error) {
	var entity CustomerKycEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKycNotFound
		}
		return nil, err
	}
	return toCustomerKycModel(&entity), nil
}

// NamesByIDs maps customer ids to names; unknown ids are absent.
func (r *CustomerRepository) NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var entities []*CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id IN ?", ids).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		out[e.ID] = e.CustomerName
	}
	return out, nil
}
