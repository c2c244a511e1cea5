package usecase

import (
	"context"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/geo"
)

// ProximityCandidate is one user qualifying for a proximity alert,
// with the distance that qualified them.
type ProximityCandidate struct {
	User       *entity.User
	DistanceKm float64
}

// ProximityMatcher finds the users close enough to a new report to be
// alerted about it.
type ProximityMatcher struct {
	userRepo repository.UserRepository
}

func NewProximityMatcher(userRepo repository.UserRepository) *ProximityMatcher {
	return &ProximityMatcher{userRepo: userRepo}
}

// FindCandidates returns every active user within their own configured
// alert radius of the report's location. The reporter is never a
// candidate, and users subscribed to specific categories only qualify
// when the report's category is among them. No ordering is guaranteed.
func (m *ProximityMatcher) FindCandidates(ctx context.Context, report *entity.Report) ([]ProximityCandidate, error) {
	users, err := m.userRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []ProximityCandidate
	for _, user := range users {
		if user.ID == report.ReporterID {
			continue
		}
		if user.Location == nil || !user.Channels.Push {
			continue
		}
		if user.AlertRadiusKm <= 0 {
			continue
		}
		if !user.SubscribedTo(report.Category) {
			continue
		}

		distance := geo.HaversineKm(
			report.Location.Lat, report.Location.Lng,
			user.Location.Lat, user.Location.Lng,
		)
		// Boundary is inclusive: a user exactly at their radius is in.
		if distance <= user.AlertRadiusKm {
			candidates = append(candidates, ProximityCandidate{User: user, DistanceKm: distance})
		}
	}

	return candidates, nil
}
