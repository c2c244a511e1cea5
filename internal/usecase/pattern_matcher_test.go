package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamwatch/internal/domain/entity"
)

func TestFindIdentifierMatchesPhone(t *testing.T) {
	victim := activeUser("victim", 50)
	victim.Phone = "+15551234567"

	report := activeReport("report-1", "reporter")
	report.Evidence.Phone = "+15551234567"

	matcher := NewPatternMatcher(newMemUserRepo(victim, activeUser("bystander", 50)))
	matches, err := matcher.FindIdentifierMatches(context.Background(), report)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "victim", matches[0].User.ID)
	assert.Equal(t, entity.AlertTypePhoneMatch, matches[0].AlertType)
	assert.Equal(t, "phone", matches[0].Field)
}

func TestFindIdentifierMatchesPhoneAndEmail(t *testing.T) {
	victim := activeUser("victim", 50)
	victim.Phone = "+15551234567"
	// activeUser registers "victim@example.com" as the email.

	report := activeReport("report-1", "reporter")
	report.Evidence.Phone = "+15551234567"
	report.Evidence.Email = "victim@example.com"

	matcher := NewPatternMatcher(newMemUserRepo(victim))
	matches, err := matcher.FindIdentifierMatches(context.Background(), report)
	require.NoError(t, err)

	// One match per identifier, even for the same user.
	require.Len(t, matches, 2)
	types := []string{matches[0].AlertType, matches[1].AlertType}
	assert.ElementsMatch(t, []string{entity.AlertTypePhoneMatch, entity.AlertTypeEmailMatch}, types)
}

func TestFindIdentifierMatchesIgnoresSuspendedUsers(t *testing.T) {
	victim := activeUser("victim", 50)
	victim.Phone = "+15551234567"
	victim.Status = entity.UserStatusSuspended

	report := activeReport("report-1", "reporter")
	report.Evidence.Phone = "+15551234567"

	matcher := NewPatternMatcher(newMemUserRepo(victim))
	matches, err := matcher.FindIdentifierMatches(context.Background(), report)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindIdentifierMatchesNoEvidence(t *testing.T) {
	matcher := NewPatternMatcher(newMemUserRepo(activeUser("user", 50)))

	matches, err := matcher.FindIdentifierMatches(context.Background(), activeReport("report-1", "reporter"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
