package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	apperrors "scamwatch/pkg/errors"
)

// Classifier risk-score thresholds for high_risk alert severity.
const (
	riskCritical = 80
	riskHigh     = 60
	riskMedium   = 30
)

// AlertFactory turns recipient matches into alert records, enforcing
// the one-alert-per-(recipient, report, alertType) invariant.
type AlertFactory struct {
	alertRepo repository.AlertRepository
}

func NewAlertFactory(alertRepo repository.AlertRepository) *AlertFactory {
	return &AlertFactory{alertRepo: alertRepo}
}

// BuildAlert creates and persists an alert for the recipient, or
// returns the existing record when the (recipient, report, alertType)
// triple was already alerted. The second return value reports whether a
// new alert was created.
func (f *AlertFactory) BuildAlert(ctx context.Context, recipient *entity.User, report *entity.Report, alertType string, criteria entity.MatchCriteria) (*entity.Alert, bool, error) {
	if existing, err := f.alertRepo.GetByMatchKey(ctx, recipient.ID, report.ID, alertType); err == nil && existing != nil {
		return existing, false, nil
	}

	now := time.Now()
	alert := &entity.Alert{
		ID:             uuid.New().String(),
		RecipientID:    recipient.ID,
		SourceReportID: report.ID,
		AlertType:      alertType,
		Severity:       severityFor(alertType, report),
		Title:          titleFor(alertType, report, criteria),
		Message:        messageFor(alertType, report, criteria),
		MatchCriteria:  criteria,
		IsActive:       true,
		CreatedAt:      now,
		ExpiresAt:      now.Add(entity.AlertRetention),
	}

	if err := f.alertRepo.Create(ctx, alert); err != nil {
		// A concurrent builder may have won the create; surface its
		// record instead of a duplicate.
		if apperrors.Is(err, "CONFLICT") {
			existing, getErr := f.alertRepo.GetByMatchKey(ctx, recipient.ID, report.ID, alertType)
			if getErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}

	return alert, true, nil
}

func severityFor(alertType string, report *entity.Report) string {
	switch alertType {
	case entity.AlertTypePhoneMatch, entity.AlertTypeEmailMatch, entity.AlertTypePatternMatch:
		// Identifier matches implicate someone's identity in an active
		// scam report; always critical.
		return entity.SeverityCritical
	case entity.AlertTypeHighRisk:
		return severityForRisk(report.Classification.RiskScore)
	case entity.AlertTypeProximity:
		return severityForPriority(report.Priority)
	}
	return entity.SeverityLow
}

func severityForRisk(riskScore int) string {
	switch {
	case riskScore >= riskCritical:
		return entity.SeverityCritical
	case riskScore >= riskHigh:
		return entity.SeverityHigh
	case riskScore >= riskMedium:
		return entity.SeverityMedium
	default:
		return entity.SeverityLow
	}
}

func severityForPriority(priority string) string {
	switch priority {
	case entity.PriorityCritical:
		return entity.SeverityCritical
	case entity.PriorityHigh:
		return entity.SeverityHigh
	case entity.PriorityMedium:
		return entity.SeverityMedium
	default:
		return entity.SeverityLow
	}
}

func titleFor(alertType string, report *entity.Report, criteria entity.MatchCriteria) string {
	switch alertType {
	case entity.AlertTypeProximity:
		return fmt.Sprintf("Scam reported %.1f km from you", criteria.DistanceKm)
	case entity.AlertTypePhoneMatch:
		return "Your phone number appears in a scam report"
	case entity.AlertTypeEmailMatch:
		return "Your email address appears in a scam report"
	case entity.AlertTypePatternMatch:
		return "Your identifier appears in a scam report"
	case entity.AlertTypeHighRisk:
		return fmt.Sprintf("High-risk scam activity: %s", report.Category)
	}
	return "Scam alert"
}

func messageFor(alertType string, report *entity.Report, criteria entity.MatchCriteria) string {
	summary := report.Title
	if summary == "" {
		summary = report.Category
	}

	switch alertType {
	case entity.AlertTypeProximity:
		location := report.Address
		if location == "" {
			location = fmt.Sprintf("%.4f, %.4f", report.Location.Lat, report.Location.Lng)
		}
		return fmt.Sprintf("A %s report (%q) was filed %.1f km from your location near %s.",
			report.Category, summary, criteria.DistanceKm, location)
	case entity.AlertTypePhoneMatch:
		return fmt.Sprintf("The phone number registered to your account was submitted as evidence in a %s report (%q). If this was not you, your identity may be in use by a scammer.",
			report.Category, summary)
	case entity.AlertTypeEmailMatch:
		return fmt.Sprintf("The email address registered to your account was submitted as evidence in a %s report (%q). If this was not you, your identity may be in use by a scammer.",
			report.Category, summary)
	case entity.AlertTypePatternMatch:
		return fmt.Sprintf("An identifier registered to your account was submitted as evidence in a %s report (%q).",
			report.Category, summary)
	case entity.AlertTypeHighRisk:
		return fmt.Sprintf("A report in your area (%q) was classified as high risk (score %d). Stay cautious of related contact attempts.",
			summary, report.Classification.RiskScore)
	}
	return summary
}
