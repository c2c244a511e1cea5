package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/logger"
)

// Classifier defaults used when enrichment fails.
const (
	defaultRiskScore = 30
	defaultSentiment = "neutral"
	defaultCategory  = "other"
)

type ReportUseCase struct {
	reportRepo repository.ReportRepository
	classifier Classifier
	geocoder   Geocoder
	reputation *ReputationUseCase
	dispatcher *AlertDispatcher
	feed       LiveFeed

	// dispatchAsync is disabled in tests so dispatch outcomes can be
	// observed synchronously.
	dispatchAsync bool
}

func NewReportUseCase(
	reportRepo repository.ReportRepository,
	classifier Classifier,
	geocoder Geocoder,
	reputation *ReputationUseCase,
	dispatcher *AlertDispatcher,
	feed LiveFeed,
) *ReportUseCase {
	return &ReportUseCase{
		reportRepo:    reportRepo,
		classifier:    classifier,
		geocoder:      geocoder,
		reputation:    reputation,
		dispatcher:    dispatcher,
		feed:          feed,
		dispatchAsync: true,
	}
}

type CreateReportInput struct {
	Category    string
	Title       string
	Description string
	Lat         float64
	Lng         float64
	Phone       string
	Email       string
	Website     string
	Priority    string
}

// CreateReport submits a new report: enrich it through the classifier
// and geocoder (with safe defaults when either fails), persist it with
// the unverified baseline trust score, then kick off the alert dispatch
// pass. Dispatch is best-effort and never fails report creation.
func (uc *ReportUseCase) CreateReport(ctx context.Context, reporterID string, input CreateReportInput) (*entity.Report, error) {
	if input.Title == "" && input.Description == "" {
		return nil, errors.BadRequest("Report must have a title or description", nil)
	}
	if input.Priority == "" {
		input.Priority = entity.PriorityMedium
	}
	if !entity.ValidPriority(input.Priority) {
		return nil, errors.BadRequest("Invalid priority tier", nil)
	}

	classification := uc.classify(ctx, input.Title+" "+input.Description)
	category := input.Category
	if category == "" {
		category = classification.Category
	}

	address, city := uc.geocode(ctx, input.Lat, input.Lng)

	now := time.Now()
	report := &entity.Report{
		ID:          uuid.New().String(),
		ReporterID:  reporterID,
		Category:    category,
		Title:       input.Title,
		Description: input.Description,
		Location:    entity.GeoPoint{Lat: input.Lat, Lng: input.Lng},
		Address:     address,
		City:        city,
		Evidence: entity.Evidence{
			Phone:   input.Phone,
			Email:   input.Email,
			Website: input.Website,
		},
		Priority: input.Priority,
		Status:   entity.ReportStatusActive,
		Classification: entity.Classification{
			Category:  classification.Category,
			RiskScore: classification.RiskScore,
			Keywords:  classification.Keywords,
			Sentiment: classification.Sentiment,
		},
		Verification: entity.Verification{
			TrustScore: unverifiedBaseline,
			Status:     entity.VerificationPending,
			Entries:    []entity.VerificationEntry{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	if err := uc.reputation.RecordReport(ctx, reporterID); err != nil {
		logger.Warn("Failed to record report for reporter %s: %v", reporterID, err)
	}

	uc.feed.ReportCreated(report)

	if uc.dispatchAsync {
		go uc.runDispatch(report)
	} else {
		uc.runDispatch(report)
	}

	return report, nil
}

func (uc *ReportUseCase) runDispatch(report *entity.Report) {
	// The dispatch pass outlives the submit request.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := uc.dispatcher.Dispatch(ctx, report)
	if err != nil {
		logger.Error("Dispatch pass aborted for report %s: %v", report.ID, err)
		return
	}
	logger.Info("Dispatch pass for report %s: %d alerts, %d sends", report.ID, result.AlertsCreated, len(result.Outcomes))
}

func (uc *ReportUseCase) classify(ctx context.Context, text string) *ClassifierResult {
	result, err := uc.classifier.Classify(ctx, text)
	if err != nil || result == nil {
		logger.Warn("Classifier unavailable, using defaults: %v", err)
		return &ClassifierResult{
			Category:  defaultCategory,
			RiskScore: defaultRiskScore,
			Keywords:  []string{},
			Sentiment: defaultSentiment,
		}
	}
	return result
}

func (uc *ReportUseCase) geocode(ctx context.Context, lat, lng float64) (address, city string) {
	result := uc.geocoder.ReverseGeocode(ctx, lat, lng)
	if result == nil {
		return fmt.Sprintf("%.4f, %.4f", lat, lng), ""
	}
	return result.Address, result.City
}

func (uc *ReportUseCase) GetReport(ctx context.Context, id string) (*entity.Report, error) {
	return uc.reportRepo.GetByID(ctx, id)
}

func (uc *ReportUseCase) ListReports(ctx context.Context, category, status string, limit, offset int) ([]*entity.Report, int64, error) {
	filter := make(map[string]interface{})
	if category != "" {
		filter["category"] = category
	}
	if status != "" {
		filter["status"] = status
	}
	return uc.reportRepo.List(ctx, filter, limit, offset)
}

// Legal lifecycle transitions for a report's status.
var statusTransitions = map[string][]string{
	entity.ReportStatusActive:        {entity.ReportStatusInvestigating, entity.ReportStatusResolved, entity.ReportStatusFalseAlarm},
	entity.ReportStatusInvestigating: {entity.ReportStatusResolved, entity.ReportStatusFalseAlarm},
}

// UpdateStatus moves a report through its lifecycle. Resolved and
// false_alarm are terminal.
func (uc *ReportUseCase) UpdateStatus(ctx context.Context, reportID, status string) (*entity.Report, error) {
	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range statusTransitions[report.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, errors.BadRequest(fmt.Sprintf("Cannot move report from %s to %s", report.Status, status), nil)
	}

	report.Status = status
	report.UpdatedAt = time.Now()
	if err := uc.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}
