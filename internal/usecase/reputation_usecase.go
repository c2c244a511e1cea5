package usecase

import (
	"context"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
)

// ReputationUseCase maintains each user's trust score and reputation
// tier from their report and verification counters.
type ReputationUseCase struct {
	userRepo repository.UserRepository
}

func NewReputationUseCase(userRepo repository.UserRepository) *ReputationUseCase {
	return &ReputationUseCase{userRepo: userRepo}
}

// RecordReport bumps the user's report counter and recomputes their
// reputation.
func (uc *ReputationUseCase) RecordReport(ctx context.Context, userID string) error {
	return uc.bump(ctx, userID, func(user *entity.User) {
		user.ReportCount++
	})
}

// RecordVerification bumps the user's verification counter and
// recomputes their reputation.
func (uc *ReputationUseCase) RecordVerification(ctx context.Context, userID string) error {
	return uc.bump(ctx, userID, func(user *entity.User) {
		user.VerificationCount++
	})
}

func (uc *ReputationUseCase) bump(ctx context.Context, userID string, apply func(*entity.User)) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	apply(user)
	user.TrustScore = TrustScoreFor(user.ReportCount, user.VerificationCount)
	user.ReputationTier = TierForScore(user.TrustScore)

	return uc.userRepo.Update(ctx, user)
}

// TrustScoreFor derives a user's trust score from their counters. The
// formula is a pure, saturating function so the score is reproducible
// from stored state and a single user can never exceed 100.
func TrustScoreFor(reportCount, verificationCount int) int {
	reportBonus := reportCount * 2
	if reportBonus > 30 {
		reportBonus = 30
	}
	verificationBonus := verificationCount * 3
	if verificationBonus > 40 {
		verificationBonus = 40
	}

	score := 50 + reportBonus + verificationBonus
	if score > 100 {
		score = 100
	}
	return score
}

// TierForScore buckets a trust score into a reputation tier.
func TierForScore(score int) string {
	switch {
	case score >= 90:
		return entity.TierExpert
	case score >= 75:
		return entity.TierVerified
	case score >= 60:
		return entity.TierTrusted
	default:
		return entity.TierNew
	}
}
