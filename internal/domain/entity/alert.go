package entity

import (
	"fmt"
	"time"
)

// Alert types.
const (
	AlertTypeProximity    = "proximity"
	AlertTypePhoneMatch   = "phone_match"
	AlertTypeEmailMatch   = "email_match"
	AlertTypePatternMatch = "pattern_match"
	AlertTypeHighRisk     = "high_risk"
)

// Alert severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Delivery channels.
const (
	ChannelPush  = "push"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// AlertRetention is how long an alert stays active after creation,
// independent of read state.
const AlertRetention = 7 * 24 * time.Hour

// ChannelDelivery tracks the delivery state of one channel. The state
// only moves forward: unset -> sent -> opened/clicked.
type ChannelDelivery struct {
	Sent      bool       `json:"sent" firestore:"sent"`
	SentAt    *time.Time `json:"sent_at,omitempty" firestore:"sentAt,omitempty"`
	Opened    bool       `json:"opened" firestore:"opened"`
	OpenedAt  *time.Time `json:"opened_at,omitempty" firestore:"openedAt,omitempty"`
	Clicked   bool       `json:"clicked" firestore:"clicked"`
	ClickedAt *time.Time `json:"clicked_at,omitempty" firestore:"clickedAt,omitempty"`
}

type DeliveryState struct {
	Push  ChannelDelivery `json:"push" firestore:"push"`
	Email ChannelDelivery `json:"email" firestore:"email"`
	SMS   ChannelDelivery `json:"sms" firestore:"sms"`
}

// Channel returns the delivery record for the named channel.
func (d *DeliveryState) Channel(channel string) *ChannelDelivery {
	switch channel {
	case ChannelPush:
		return &d.Push
	case ChannelEmail:
		return &d.Email
	case ChannelSMS:
		return &d.SMS
	}
	return nil
}

// MatchCriteria explains why an alert was created.
type MatchCriteria struct {
	DistanceKm   float64 `json:"distance_km,omitempty" firestore:"distanceKm,omitempty"`
	MatchedField string  `json:"matched_field,omitempty" firestore:"matchedField,omitempty"`
	RiskScore    int     `json:"risk_score,omitempty" firestore:"riskScore,omitempty"`
}

// Alert is a notification owed to one recipient for one report. No two
// alerts share the same (recipient, report, alertType) triple.
type Alert struct {
	ID             string        `json:"id" firestore:"id"`
	RecipientID    string        `json:"recipient_id" firestore:"recipientId"`
	SourceReportID string        `json:"source_report_id" firestore:"sourceReportId"`
	AlertType      string        `json:"alert_type" firestore:"alertType"`
	Severity       string        `json:"severity" firestore:"severity"`
	Title          string        `json:"title" firestore:"title"`
	Message        string        `json:"message" firestore:"message"`
	MatchCriteria  MatchCriteria `json:"match_criteria" firestore:"matchCriteria"`
	Delivery       DeliveryState `json:"delivery" firestore:"delivery"`

	// DeliverySettled means no channel remains worth retrying: every
	// channel the recipient has enabled was sent. The redelivery sweep
	// skips settled alerts.
	DeliverySettled bool `json:"-" firestore:"deliverySettled"`

	IsRead    bool      `json:"is_read" firestore:"isRead"`
	IsActive  bool      `json:"is_active" firestore:"isActive"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	ExpiresAt time.Time `json:"expires_at" firestore:"expiresAt"`
}

// DedupKey is the storage key enforcing the uniqueness invariant on
// (recipient, report, alertType).
func (a *Alert) DedupKey() string {
	return AlertDedupKey(a.RecipientID, a.SourceReportID, a.AlertType)
}

func AlertDedupKey(recipientID, reportID, alertType string) string {
	return fmt.Sprintf("%s_%s_%s", recipientID, reportID, alertType)
}

// Expired reports whether the alert has passed its retention window.
func (a *Alert) Expired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}
