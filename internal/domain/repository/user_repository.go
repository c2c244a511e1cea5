package repository

import (
	"context"

	"scamwatch/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error

	// ListActive returns all active users, used as the candidate pool
	// for proximity matching.
	ListActive(ctx context.Context) ([]*entity.User, error)

	// FindActiveByPhone and FindActiveByEmail are indexed identifier
	// lookups backing the pattern matcher.
	FindActiveByPhone(ctx context.Context, phone string) ([]*entity.User, error)
	FindActiveByEmail(ctx context.Context, email string) ([]*entity.User, error)
}
