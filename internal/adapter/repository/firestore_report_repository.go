package repository

import (
	"context"
	goerrors "errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

const reportsCollection = "reports"

type firestoreReportRepository struct {
	client *firestore.Client
}

func NewFirestoreReportRepository(client *firestore.Client) repository.ReportRepository {
	return &firestoreReportRepository{client: client}
}

func (r *firestoreReportRepository) Create(ctx context.Context, report *entity.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	now := time.Now()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now

	_, err := r.client.Collection(reportsCollection).Doc(report.ID).Set(ctx, report)
	if err != nil {
		return errors.Internal("Failed to create report", err)
	}
	return nil
}

func (r *firestoreReportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	doc, err := r.client.Collection(reportsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Report", err)
		}
		return nil, errors.Internal("Failed to get report", err)
	}

	var report entity.Report
	if err := doc.DataTo(&report); err != nil {
		return nil, errors.Internal("Failed to parse report data", err)
	}
	return &report, nil
}

func (r *firestoreReportRepository) Update(ctx context.Context, report *entity.Report) error {
	report.UpdatedAt = time.Now()

	_, err := r.client.Collection(reportsCollection).Doc(report.ID).Set(ctx, report)
	if err != nil {
		return errors.Internal("Failed to update report", err)
	}
	return nil
}

func (r *firestoreReportRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(reportsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete report", err)
	}
	return nil
}

func (r *firestoreReportRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Report, int64, error) {
	query := r.client.Collection(reportsCollection).Query
	for field, value := range filter {
		query = query.Where(field, "==", value)
	}

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count reports", err)
	}
	total := int64(len(countDocs))

	iter := query.OrderBy("createdAt", firestore.Desc).Offset(offset).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var reports []*entity.Report
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list reports", err)
		}

		var report entity.Report
		if err := doc.DataTo(&report); err != nil {
			return nil, 0, errors.Internal("Failed to parse report data", err)
		}
		reports = append(reports, &report)
	}

	return reports, total, nil
}

// UpdateVerification applies mutate inside a Firestore transaction so
// concurrent votes on the same report serialize against the document
// version instead of racing read-then-write.
func (r *firestoreReportRepository) UpdateVerification(ctx context.Context, reportID string, mutate func(report *entity.Report) error) (*entity.Report, error) {
	ref := r.client.Collection(reportsCollection).Doc(reportID)

	var updated *entity.Report
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Report", err)
			}
			return err
		}

		var report entity.Report
		if err := doc.DataTo(&report); err != nil {
			return err
		}

		if err := mutate(&report); err != nil {
			return err
		}

		report.Version++
		report.UpdatedAt = time.Now()
		updated = &report
		return tx.Set(ref, &report)
	})
	if err != nil {
		var appErr *errors.AppError
		if goerrors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to apply verification update", err)
	}

	return updated, nil
}
