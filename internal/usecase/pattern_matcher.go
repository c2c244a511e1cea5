package usecase

import (
	"context"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
)

// IdentifierMatch is one user whose registered phone or email appears
// as evidence in a report.
type IdentifierMatch struct {
	User      *entity.User
	AlertType string
	Field     string
}

// PatternMatcher finds users whose personal identifiers show up in a
// report's evidence. Lookups are index-backed (equality queries on
// phone/email) rather than full scans; the match semantics are exact
// equality either way.
type PatternMatcher struct {
	userRepo repository.UserRepository
}

func NewPatternMatcher(userRepo repository.UserRepository) *PatternMatcher {
	return &PatternMatcher{userRepo: userRepo}
}

// FindIdentifierMatches returns up to two matches per user: one for a
// phone hit and one for an email hit, each independently checked.
func (m *PatternMatcher) FindIdentifierMatches(ctx context.Context, report *entity.Report) ([]IdentifierMatch, error) {
	var matches []IdentifierMatch

	if phone := report.Evidence.Phone; phone != "" {
		users, err := m.userRepo.FindActiveByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			matches = append(matches, IdentifierMatch{
				User:      user,
				AlertType: entity.AlertTypePhoneMatch,
				Field:     "phone",
			})
		}
	}

	if email := report.Evidence.Email; email != "" {
		users, err := m.userRepo.FindActiveByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			matches = append(matches, IdentifierMatch{
				User:      user,
				AlertType: entity.AlertTypeEmailMatch,
				Field:     "email",
			})
		}
	}

	return matches, nil
}
