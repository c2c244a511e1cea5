package websocket

import (
	"encoding/json"
	"time"

	"scamwatch/internal/domain/entity"
	"scamwatch/pkg/logger"
)

// Feed implements the live update feed over the websocket manager.
// Every emit is fire-and-forget; a lost delivery is never an error.
type Feed struct {
	manager *Manager
}

func NewFeed(manager *Manager) *Feed {
	return &Feed{manager: manager}
}

func (f *Feed) ReportCreated(report *entity.Report) {
	f.broadcast(map[string]interface{}{
		"type":       "new_fraud_report",
		"report_id":  report.ID,
		"category":   report.Category,
		"title":      report.Title,
		"location":   report.Location,
		"priority":   report.Priority,
		"created_at": report.CreatedAt.Format(time.RFC3339),
	})
}

func (f *Feed) ReportVerified(reportID string, trustScore, verificationCount int) {
	f.broadcast(map[string]interface{}{
		"type":               "report_verified",
		"report_id":          reportID,
		"trust_score":        trustScore,
		"verification_count": verificationCount,
	})
}

func (f *Feed) AlertCreated(recipientID string, alert *entity.Alert) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": "new_alert",
		"alert": map[string]interface{}{
			"id":         alert.ID,
			"title":      alert.Title,
			"message":    alert.Message,
			"severity":   alert.Severity,
			"alert_type": alert.AlertType,
			"created_at": alert.CreatedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		logger.Warn("Failed to encode alert event: %v", err)
		return
	}
	f.manager.SendToUser(recipientID, payload)
}

func (f *Feed) broadcast(event map[string]interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Warn("Failed to encode live feed event: %v", err)
		return
	}
	f.manager.Broadcast(payload)
}
