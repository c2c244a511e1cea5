package repository

import (
	"context"

	"scamwatch/internal/domain/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	Update(ctx context.Context, report *entity.Report) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Report, int64, error)

	// UpdateVerification applies mutate to the report's verification
	// sub-structure under a serialization boundary: the implementation
	// must guarantee the mutation sees a consistent snapshot and that
	// concurrent calls for the same report do not interleave.
	UpdateVerification(ctx context.Context, reportID string, mutate func(report *entity.Report) error) (*entity.Report, error)
}
