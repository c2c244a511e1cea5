package repository

import (
	"context"

	"scamwatch/internal/domain/entity"
)

type AlertRepository interface {
	// Create persists a new alert. It fails with a conflict when an
	// alert with the same (recipient, report, alertType) already
	// exists.
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	GetByMatchKey(ctx context.Context, recipientID, reportID, alertType string) (*entity.Alert, error)
	Update(ctx context.Context, alert *entity.Alert) error

	// ListByRecipient pages over the recipient's active, unexpired
	// alerts, newest first. Total counts only alerts matching the same
	// filter so pages always fill.
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*entity.Alert, int64, error)
	MarkAllRead(ctx context.Context, recipientID string) error

	// ListUndelivered returns active, unsettled alerts that still have
	// at least one un-sent channel, for the periodic redelivery sweep.
	ListUndelivered(ctx context.Context, limit int) ([]*entity.Alert, error)
}
