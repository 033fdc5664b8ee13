package policy

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=policy_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Create(ctx context.Context, policy *CorsPolicy) error
	Get(ctx context.Context, id uuid.UUID) (*CorsPolicy, error)
	GetByPattern(ctx context.Context, pattern string) (*CorsPolicy, error)
	List(ctx context.Context, offset, limit int) ([]CorsPolicy, error)
	ListEnabled(ctx context.Context) ([]CorsPolicy, error)
	Update(ctx context.Context, policy *CorsPolicy) error
	Delete(ctx context.Context, id uuid.UUID) error
}
