package entity

import (
	"time"
)

// Reputation tiers derived from a user's trust score.
const (
	TierNew      = "new"
	TierTrusted  = "trusted"
	TierVerified = "verified"
	TierExpert   = "expert"
)

const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// ChannelPreferences records which delivery channels a user has opted
// into.
type ChannelPreferences struct {
	Push  bool `json:"push" firestore:"push"`
	Email bool `json:"email" firestore:"email"`
	SMS   bool `json:"sms" firestore:"sms"`
}

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Phone    string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Status   string `json:"status" firestore:"status"`

	// Location is nil until the user shares one; proximity matching
	// skips users without a known location.
	Location             *GeoPoint          `json:"location,omitempty" firestore:"location,omitempty"`
	AlertRadiusKm        float64            `json:"alert_radius_km" firestore:"alertRadiusKm"`
	SubscribedCategories []string           `json:"subscribed_categories,omitempty" firestore:"subscribedCategories,omitempty"`
	Channels             ChannelPreferences `json:"channels" firestore:"channels"`
	DeviceToken          string             `json:"-" firestore:"deviceToken,omitempty"`

	TrustScore        int    `json:"trust_score" firestore:"trustScore"`
	ReportCount       int    `json:"report_count" firestore:"reportCount"`
	VerificationCount int    `json:"verification_count" firestore:"verificationCount"`
	ReputationTier    string `json:"reputation_tier" firestore:"reputationTier"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// SubscribedTo reports whether the user wants alerts for the given
// category. An empty subscription list means "all categories".
func (u *User) SubscribedTo(category string) bool {
	if len(u.SubscribedCategories) == 0 {
		return true
	}
	for _, c := range u.SubscribedCategories {
		if c == category {
			return true
		}
	}
	return false
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
