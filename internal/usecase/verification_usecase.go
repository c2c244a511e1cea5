package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/logger"
)

// Trust score given to a report nobody has voted on yet. Submission
// itself carries some signal, so an unverified report is not zero-trust.
const unverifiedBaseline = 30

// Status thresholds on the computed trust score.
const (
	verifiedThreshold = 80
	disputedThreshold = 20
)

// VerificationUseCase applies crowd votes to reports and keeps each
// report's trust score consistent with its current verification entries.
type VerificationUseCase struct {
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository
	reputation *ReputationUseCase
	feed       LiveFeed

	// Per-report locks serialize ApplyVote so that concurrent votes
	// from the same voter can never store two entries.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewVerificationUseCase(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	reputation *ReputationUseCase,
	feed LiveFeed,
) *VerificationUseCase {
	return &VerificationUseCase{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		reputation: reputation,
		feed:       feed,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (uc *VerificationUseCase) lockFor(reportID string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	lock, ok := uc.locks[reportID]
	if !ok {
		lock = &sync.Mutex{}
		uc.locks[reportID] = lock
	}
	return lock
}

// ApplyVote records a voter's vote on a report and recomputes the trust
// score. A voter who already voted has their entry overwritten in
// place; the report's verification count only grows on first votes.
func (uc *VerificationUseCase) ApplyVote(ctx context.Context, reportID, voterID, vote, comment string) (*entity.Report, error) {
	if !entity.ValidVote(vote) {
		return nil, errors.BadRequest("Vote must be confirm, deny or uncertain", nil)
	}

	lock := uc.lockFor(reportID)
	lock.Lock()
	defer lock.Unlock()

	firstVote := false
	updated, err := uc.reportRepo.UpdateVerification(ctx, reportID, func(report *entity.Report) error {
		if report.ReporterID == voterID {
			return errors.Forbidden("Cannot vote on your own report", nil)
		}

		entry := entity.VerificationEntry{
			VoterID: voterID,
			Vote:    vote,
			Comment: comment,
			VotedAt: time.Now(),
		}

		if i := report.EntryFor(voterID); i >= 0 {
			report.Verification.Entries[i] = entry
		} else {
			report.Verification.Entries = append(report.Verification.Entries, entry)
			report.Verification.VerificationCount++
			firstVote = true
		}

		report.Verification.TrustScore = uc.computeTrustScore(ctx, report)
		report.Verification.Status = statusForScore(report.Verification.TrustScore, report.Verification.VerificationCount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reputation and live updates are best-effort side effects of the
	// vote; only the first vote grows the voter's verification count.
	if firstVote {
		if err := uc.reputation.RecordVerification(ctx, voterID); err != nil {
			logger.Warn("Failed to record verification for voter %s: %v", voterID, err)
		}
	}
	uc.feed.ReportVerified(updated.ID, updated.Verification.TrustScore, updated.Verification.VerificationCount)

	return updated, nil
}

// ComputeTrustScore recomputes a report's trust score from its current
// entries without mutating it. The result is always in [0, 100].
func (uc *VerificationUseCase) ComputeTrustScore(ctx context.Context, report *entity.Report) int {
	return uc.computeTrustScore(ctx, report)
}

func (uc *VerificationUseCase) computeTrustScore(ctx context.Context, report *entity.Report) int {
	entries := report.Verification.Entries
	if len(entries) == 0 {
		return unverifiedBaseline
	}

	var weightedConfirm, totalWeight float64
	confirmCount := 0

	for _, entry := range entries {
		if entry.Vote == entity.VoteConfirm {
			confirmCount++
		}

		// Voters without a resolvable record contribute zero weight.
		voter, err := uc.userRepo.GetByID(ctx, entry.VoterID)
		if err != nil || voter == nil {
			continue
		}

		weight := float64(voter.TrustScore) / 100
		totalWeight += weight
		if entry.Vote == entity.VoteConfirm {
			weightedConfirm += weight
		}
	}

	if totalWeight > 0 {
		return clampScore(int(math.Round(100 * weightedConfirm / totalWeight)))
	}

	// No resolvable voter weights: fall back to the unweighted ratio so
	// the computation stays total.
	return clampScore(int(math.Round(100 * float64(confirmCount) / float64(len(entries)))))
}

func statusForScore(score, verificationCount int) string {
	if verificationCount == 0 {
		return entity.VerificationPending
	}
	switch {
	case score >= verifiedThreshold:
		return entity.VerificationVerified
	case score <= disputedThreshold:
		return entity.VerificationDisputed
	default:
		return entity.VerificationPending
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
