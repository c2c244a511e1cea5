package usecase

import (
	"context"

	"scamwatch/internal/domain/entity"
)

// ClassifierResult is the coarse classification a Classifier returns
// for report text.
type ClassifierResult struct {
	Category  string
	RiskScore int
	Keywords  []string
	Sentiment string
}

// Classifier enriches report text with a category, risk score and
// keyword set. Implementations are external collaborators; callers fall
// back to defaults when one errors.
type Classifier interface {
	Classify(ctx context.Context, text string) (*ClassifierResult, error)
}

// GeocodeResult is a resolved street address for a coordinate pair.
type GeocodeResult struct {
	Address string
	City    string
	State   string
	Country string
}

// Geocoder resolves coordinates to an address. Implementations never
// fail: when the upstream service is unavailable they return the
// deterministic "lat, lng" fallback.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) *GeocodeResult
}

// ChannelSender delivers one rendered message over one channel. It
// returns false for expected failures (invalid destination, provider
// outage) and is responsible for bounding its own send timeout.
type ChannelSender interface {
	Send(ctx context.Context, destination, title, body string, metadata map[string]string) bool
}

// LiveFeed pushes fire-and-forget events to connected clients. Losing a
// live update is never a dispatch failure.
type LiveFeed interface {
	ReportCreated(report *entity.Report)
	ReportVerified(reportID string, trustScore, verificationCount int)
	AlertCreated(recipientID string, alert *entity.Alert)
}

// AuthClient is the identity provider handle used by user registration.
type AuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}
