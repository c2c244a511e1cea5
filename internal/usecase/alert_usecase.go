package usecase

import (
	"context"
	"time"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

// ClientAlert is the alert shape exposed to recipients: the full record
// minus match-criteria internals, keeping only the distance that is
// relevant to the recipient's own case.
type ClientAlert struct {
	ID             string     `json:"id"`
	SourceReportID string     `json:"source_report_id"`
	AlertType      string     `json:"alert_type"`
	Severity       string     `json:"severity"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	DistanceKm     float64    `json:"distance_km,omitempty"`
	IsRead         bool       `json:"is_read"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
}

// AlertUseCase covers the recipient-facing alert operations. After
// creation an alert belongs to its recipient; only read/unread and
// monotonic channel-state mutations are allowed.
type AlertUseCase struct {
	alertRepo repository.AlertRepository
}

func NewAlertUseCase(alertRepo repository.AlertRepository) *AlertUseCase {
	return &AlertUseCase{alertRepo: alertRepo}
}

// ListAlerts returns the recipient's active, unexpired alerts.
func (uc *AlertUseCase) ListAlerts(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*ClientAlert, int64, error) {
	alerts, total, err := uc.alertRepo.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	clientAlerts := make([]*ClientAlert, 0, len(alerts))
	for _, alert := range alerts {
		clientAlerts = append(clientAlerts, toClientAlert(alert))
	}

	return clientAlerts, total, nil
}

// MarkRead flags one of the recipient's alerts as read. Expired alerts
// are inert.
func (uc *AlertUseCase) MarkRead(ctx context.Context, recipientID, alertID string) error {
	alert, err := uc.ownedAlert(ctx, recipientID, alertID)
	if err != nil {
		return err
	}
	if alert.IsRead {
		return nil
	}

	alert.IsRead = true
	return uc.alertRepo.Update(ctx, alert)
}

func (uc *AlertUseCase) MarkAllRead(ctx context.Context, recipientID string) error {
	return uc.alertRepo.MarkAllRead(ctx, recipientID)
}

// RecordEngagement advances a channel's delivery state to opened or
// clicked. Transitions are monotonic: a channel never moves backwards
// and engagement requires the channel to have been sent.
func (uc *AlertUseCase) RecordEngagement(ctx context.Context, recipientID, alertID, channel, event string) error {
	alert, err := uc.ownedAlert(ctx, recipientID, alertID)
	if err != nil {
		return err
	}

	state := alert.Delivery.Channel(channel)
	if state == nil {
		return errors.BadRequest("Unknown channel", nil)
	}
	if !state.Sent {
		return errors.BadRequest("Channel was never sent for this alert", nil)
	}

	now := time.Now()
	switch event {
	case "opened":
		if !state.Opened {
			state.Opened = true
			state.OpenedAt = &now
		}
	case "clicked":
		if !state.Clicked {
			state.Clicked = true
			state.ClickedAt = &now
		}
	default:
		return errors.BadRequest("Unknown engagement event", nil)
	}

	return uc.alertRepo.Update(ctx, alert)
}

func (uc *AlertUseCase) ownedAlert(ctx context.Context, recipientID, alertID string) (*entity.Alert, error) {
	alert, err := uc.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.RecipientID != recipientID {
		return nil, errors.Forbidden("Alert belongs to another user", nil)
	}
	if alert.Expired(time.Now()) {
		return nil, errors.BadRequest("Alert has expired", nil)
	}
	return alert, nil
}

func toClientAlert(alert *entity.Alert) *ClientAlert {
	return &ClientAlert{
		ID:             alert.ID,
		SourceReportID: alert.SourceReportID,
		AlertType:      alert.AlertType,
		Severity:       alert.Severity,
		Title:          alert.Title,
		Message:        alert.Message,
		DistanceKm:     alert.MatchCriteria.DistanceKm,
		IsRead:         alert.IsRead,
		CreatedAt:      alert.CreatedAt,
		ExpiresAt:      alert.ExpiresAt,
	}
}
