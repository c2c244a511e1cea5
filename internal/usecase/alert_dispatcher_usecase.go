package usecase

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/logger"
)

// DispatchState tracks a dispatch pass through its phases.
type DispatchState string

const (
	StateEnriching          DispatchState = "enriching"
	StateMatchingRecipients DispatchState = "matching_recipients"
	StateBuildingAlerts     DispatchState = "building_alerts"
	StateDispatching        DispatchState = "dispatching"
	StateDone               DispatchState = "done"
)

const defaultMaxConcurrentRecipients = 16

// DispatchResult summarizes one dispatch pass for one report.
// Individual channel failures appear in Outcomes; they never block the
// pass from reaching Done.
type DispatchResult struct {
	ReportID      string
	State         DispatchState
	AlertsCreated int
	Outcomes      []SendOutcome
}

type recipientWork struct {
	recipient *entity.User
	alert     *entity.Alert
	created   bool
}

// AlertDispatcher orchestrates matching, alert building and concurrent
// channel fan-out for a single new report.
type AlertDispatcher struct {
	userRepo  repository.UserRepository
	proximity *ProximityMatcher
	patterns  *PatternMatcher
	factory   *AlertFactory
	router    *ChannelRouter
	feed      LiveFeed

	maxConcurrent int
}

func NewAlertDispatcher(
	userRepo repository.UserRepository,
	proximity *ProximityMatcher,
	patterns *PatternMatcher,
	factory *AlertFactory,
	router *ChannelRouter,
	feed LiveFeed,
) *AlertDispatcher {
	return &AlertDispatcher{
		userRepo:      userRepo,
		proximity:     proximity,
		patterns:      patterns,
		factory:       factory,
		router:        router,
		feed:          feed,
		maxConcurrent: defaultMaxConcurrentRecipients,
	}
}

// Dispatch runs one full pass for a report: find candidates, build
// their alerts, then attempt every eligible channel once. A candidate
// lookup failure aborts the pass; report creation itself is unaffected
// because alert delivery is best-effort.
func (d *AlertDispatcher) Dispatch(ctx context.Context, report *entity.Report) (*DispatchResult, error) {
	result := &DispatchResult{ReportID: report.ID, State: StateMatchingRecipients}

	proximityCandidates, err := d.proximity.FindCandidates(ctx, report)
	if err != nil {
		logger.Error("Recipient scan failed for report %s: %v", report.ID, err)
		return result, err
	}

	identifierMatches, err := d.patterns.FindIdentifierMatches(ctx, report)
	if err != nil {
		logger.Error("Identifier scan failed for report %s: %v", report.ID, err)
		return result, err
	}

	result.State = StateBuildingAlerts
	var work []recipientWork

	for _, candidate := range proximityCandidates {
		criteria := entity.MatchCriteria{DistanceKm: candidate.DistanceKm}
		alert, created, err := d.factory.BuildAlert(ctx, candidate.User, report, entity.AlertTypeProximity, criteria)
		if err != nil {
			logger.Error("Failed to build proximity alert for %s: %v", candidate.User.ID, err)
			continue
		}
		work = append(work, recipientWork{recipient: candidate.User, alert: alert, created: created})

		// High-risk reports additionally raise a separate high_risk
		// alert for everyone in range.
		if report.Classification.RiskScore >= riskHigh {
			criteria := entity.MatchCriteria{
				DistanceKm: candidate.DistanceKm,
				RiskScore:  report.Classification.RiskScore,
			}
			alert, created, err := d.factory.BuildAlert(ctx, candidate.User, report, entity.AlertTypeHighRisk, criteria)
			if err != nil {
				logger.Error("Failed to build high-risk alert for %s: %v", candidate.User.ID, err)
				continue
			}
			work = append(work, recipientWork{recipient: candidate.User, alert: alert, created: created})
		}
	}

	for _, match := range identifierMatches {
		criteria := entity.MatchCriteria{MatchedField: match.Field}
		alert, created, err := d.factory.BuildAlert(ctx, match.User, report, match.AlertType, criteria)
		if err != nil {
			logger.Error("Failed to build %s alert for %s: %v", match.AlertType, match.User.ID, err)
			continue
		}
		work = append(work, recipientWork{recipient: match.User, alert: alert, created: created})
	}

	result.State = StateDispatching

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.maxConcurrent)

	for _, unit := range work {
		unit := unit
		if unit.created {
			result.AlertsCreated++
			d.feed.AlertCreated(unit.recipient.ID, unit.alert)
		}

		g.Go(func() error {
			outcomes := d.dispatchAlert(gctx, unit.alert, unit.recipient)
			mu.Lock()
			result.Outcomes = append(result.Outcomes, outcomes...)
			mu.Unlock()
			// Send failures are per-unit outcomes, never pass errors.
			return nil
		})
	}
	g.Wait()

	result.State = StateDone
	return result, nil
}

// dispatchAlert attempts every currently eligible channel for one
// alert, concurrently. The recipient's own alert record is the only
// shared state between channel sends.
func (d *AlertDispatcher) dispatchAlert(ctx context.Context, alert *entity.Alert, recipient *entity.User) []SendOutcome {
	channels := d.router.EligibleChannels(alert, recipient.Channels)

	outcomes := make([]SendOutcome, len(channels))
	var wg sync.WaitGroup
	for i, channel := range channels {
		wg.Add(1)
		go func(i int, channel string) {
			defer wg.Done()
			outcomes[i] = d.router.Deliver(ctx, alert, recipient, channel)
		}(i, channel)
	}
	wg.Wait()

	if err := d.router.Settle(ctx, alert, recipient.Channels); err != nil {
		logger.Warn("Failed to settle alert %s: %v", alert.ID, err)
	}

	return outcomes
}

// RedeliverPending retries alerts that still have un-sent eligible
// channels. It backs the periodic sweep started from main.
func (d *AlertDispatcher) RedeliverPending(ctx context.Context, limit int) ([]SendOutcome, error) {
	alerts, err := d.router.alertRepo.ListUndelivered(ctx, limit)
	if err != nil {
		return nil, err
	}

	var outcomes []SendOutcome
	for _, alert := range alerts {
		recipient, err := d.userRepo.GetByID(ctx, alert.RecipientID)
		if err != nil {
			logger.Warn("Skipping redelivery for alert %s, recipient lookup failed: %v", alert.ID, err)
			continue
		}
		outcomes = append(outcomes, d.dispatchAlert(ctx, alert, recipient)...)
	}

	return outcomes, nil
}
