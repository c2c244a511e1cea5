package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamwatch/internal/domain/entity"
)

func newVerificationFixture(users ...*entity.User) (*VerificationUseCase, *memReportRepo, *memUserRepo, *fakeFeed) {
	reportRepo := newMemReportRepo()
	userRepo := newMemUserRepo(users...)
	feed := &fakeFeed{}
	uc := NewVerificationUseCase(reportRepo, userRepo, NewReputationUseCase(userRepo), feed)
	return uc, reportRepo, userRepo, feed
}

func TestApplyVoteWeightedScore(t *testing.T) {
	voterA := activeUser("voter-a", 80)
	voterB := activeUser("voter-b", 40)
	uc, reportRepo, _, _ := newVerificationFixture(voterA, voterB)

	report := activeReport("report-1", "reporter")
	require.NoError(t, reportRepo.Create(context.Background(), report))

	_, err := uc.ApplyVote(context.Background(), "report-1", "voter-a", entity.VoteConfirm, "saw it too")
	require.NoError(t, err)

	updated, err := uc.ApplyVote(context.Background(), "report-1", "voter-b", entity.VoteDeny, "")
	require.NoError(t, err)

	// 100 * 0.8 / (0.8 + 0.4) rounds to 67.
	assert.Equal(t, 67, updated.Verification.TrustScore)
	assert.Equal(t, entity.VerificationPending, updated.Verification.Status)
	assert.Equal(t, 2, updated.Verification.VerificationCount)
}

func TestApplyVoteStatusThresholds(t *testing.T) {
	voter := activeUser("voter", 80)
	uc, reportRepo, _, _ := newVerificationFixture(voter)

	report := activeReport("report-1", "reporter")
	require.NoError(t, reportRepo.Create(context.Background(), report))

	updated, err := uc.ApplyVote(context.Background(), "report-1", "voter", entity.VoteConfirm, "")
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Verification.TrustScore)
	assert.Equal(t, entity.VerificationVerified, updated.Verification.Status)

	updated, err = uc.ApplyVote(context.Background(), "report-1", "voter", entity.VoteDeny, "")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Verification.TrustScore)
	assert.Equal(t, entity.VerificationDisputed, updated.Verification.Status)
}

func TestApplyVoteOverwritesEntry(t *testing.T) {
	voter := activeUser("voter", 50)
	uc, reportRepo, userRepo, _ := newVerificationFixture(voter)

	report := activeReport("report-1", "reporter")
	require.NoError(t, reportRepo.Create(context.Background(), report))

	_, err := uc.ApplyVote(context.Background(), "report-1", "voter", entity.VoteConfirm, "")
	require.NoError(t, err)
	updated, err := uc.ApplyVote(context.Background(), "report-1", "voter", entity.VoteUncertain, "changed my mind")
	require.NoError(t, err)

	require.Len(t, updated.Verification.Entries, 1)
	assert.Equal(t, entity.VoteUncertain, updated.Verification.Entries[0].Vote)
	assert.Equal(t, 1, updated.Verification.VerificationCount)

	// Only the first vote counts toward the voter's reputation.
	stored, err := userRepo.GetByID(context.Background(), "voter")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.VerificationCount)
}

func TestApplyVoteRejectsSelfVote(t *testing.T) {
	reporter := activeUser("reporter", 50)
	uc, reportRepo, _, _ := newVerificationFixture(reporter)

	report := activeReport("report-1", "reporter")
	require.NoError(t, reportRepo.Create(context.Background(), report))

	_, err := uc.ApplyVote(context.Background(), "report-1", "reporter", entity.VoteConfirm, "")
	require.Error(t, err)

	stored, err := reportRepo.GetByID(context.Background(), "report-1")
	require.NoError(t, err)
	assert.Empty(t, stored.Verification.Entries)
}

func TestApplyVoteRejectsUnknownVote(t *testing.T) {
	uc, reportRepo, _, _ := newVerificationFixture(activeUser("voter", 50))

	report := activeReport("report-1", "reporter")
	require.NoError(t, reportRepo.Create(context.Background(), report))

	_, err := uc.ApplyVote(context.Background(), "report-1", "voter", "maybe", "")
	require.Error(t, err)
}

func TestApplyVoteConcurrentSameVoter(t *testing.T) {
	voter := activeUser("voter", 50)
	uc, reportRepo, userRepo, _ := newVerificationFixture(voter)

	report := activeReport("report-1", "reporter")
	require.NoError(t, reportRepo.Create(context.Background(), report))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.ApplyVote(context.Background(), "report-1", "voter", entity.VoteConfirm, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := reportRepo.GetByID(context.Background(), "report-1")
	require.NoError(t, err)
	assert.Len(t, stored.Verification.Entries, 1)
	assert.Equal(t, 1, stored.Verification.VerificationCount)

	voterStored, err := userRepo.GetByID(context.Background(), "voter")
	require.NoError(t, err)
	assert.Equal(t, 1, voterStored.VerificationCount)
}

func TestComputeTrustScoreBaseline(t *testing.T) {
	uc, _, _, _ := newVerificationFixture()

	report := activeReport("report-1", "reporter")
	assert.Equal(t, 30, uc.ComputeTrustScore(context.Background(), report))
}

func TestComputeTrustScoreUnweightedFallback(t *testing.T) {
	// None of the voters resolve to a user record, so the score falls
	// back to the plain confirm ratio.
	uc, _, _, _ := newVerificationFixture()

	report := activeReport("report-1", "reporter")
	report.Verification.Entries = []entity.VerificationEntry{
		{VoterID: "ghost-1", Vote: entity.VoteConfirm},
		{VoterID: "ghost-2", Vote: entity.VoteConfirm},
		{VoterID: "ghost-3", Vote: entity.VoteDeny},
	}

	assert.Equal(t, 67, uc.ComputeTrustScore(context.Background(), report))
}

func TestComputeTrustScoreUncertainDilutes(t *testing.T) {
	confirm := activeUser("confirm", 60)
	uncertain := activeUser("uncertain", 60)
	uc, _, _, _ := newVerificationFixture(confirm, uncertain)

	report := activeReport("report-1", "reporter")
	report.Verification.Entries = []entity.VerificationEntry{
		{VoterID: "confirm", Vote: entity.VoteConfirm},
		{VoterID: "uncertain", Vote: entity.VoteUncertain},
	}

	// Uncertain votes add weight to the denominator only.
	assert.Equal(t, 50, uc.ComputeTrustScore(context.Background(), report))
}

func TestComputeTrustScoreIsIdempotentAndBounded(t *testing.T) {
	voters := []*entity.User{
		activeUser("a", 100),
		activeUser("b", 0),
		activeUser("c", 33),
	}
	uc, _, _, _ := newVerificationFixture(voters...)

	report := activeReport("report-1", "reporter")
	report.Verification.Entries = []entity.VerificationEntry{
		{VoterID: "a", Vote: entity.VoteConfirm},
		{VoterID: "b", Vote: entity.VoteDeny},
		{VoterID: "c", Vote: entity.VoteUncertain},
	}

	first := uc.ComputeTrustScore(context.Background(), report)
	second := uc.ComputeTrustScore(context.Background(), report)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, 0)
	assert.LessOrEqual(t, first, 100)
}
