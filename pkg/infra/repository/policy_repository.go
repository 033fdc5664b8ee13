package repository

import (
	"context"
	"errors"

	"github.com/NeuralTrust/CorsGate/pkg/domain"
	"github.com/NeuralTrust/CorsGate/pkg/domain/policy"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const policyEntity = "cors policy"

type policyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) policy.Repository {
	return &policyRepository{
		db: db,
	}
}

func (r *policyRepository) Create(ctx context.Context, p *policy.CorsPolicy) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrPolicyAlreadyExists
	}
	return err
}

func (r *policyRepository) Get(ctx context.Context, id uuid.UUID) (*policy.CorsPolicy, error) {
	var p policy.CorsPolicy
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError(policyEntity, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *policyRepository) GetByPattern(ctx context.Context, pattern string) (*policy.CorsPolicy, error) {
	var p policy.CorsPolicy
	err := r.db.WithContext(ctx).Where("path_pattern = ?", pattern).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundByKeyError(policyEntity, pattern)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *policyRepository) List(ctx context.Context, offset, limit int) ([]policy.CorsPolicy, error) {
	var policies []policy.CorsPolicy
	query := r.db.WithContext(ctx).Order("updated_at DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *policyRepository) ListEnabled(ctx context.Context) ([]policy.CorsPolicy, error) {
	var policies []policy.CorsPolicy
	err := r.db.WithContext(ctx).Where("enabled = ?", true).Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *policyRepository) Update(ctx context.Context, p *policy.CorsPolicy) error {
	result := r.db.WithContext(ctx).Save(p)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return domain.ErrPolicyAlreadyExists
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError(policyEntity, p.ID)
	}
	return nil
}

func (r *policyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&policy.CorsPolicy{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError(policyEntity, id)
	}
	return nil
}
