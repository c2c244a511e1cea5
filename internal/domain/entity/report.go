package entity

import (
	"time"
)

// Vote values accepted on a report verification.
const (
	VoteConfirm   = "confirm"
	VoteDeny      = "deny"
	VoteUncertain = "uncertain"
)

// Report lifecycle statuses.
const (
	ReportStatusActive        = "active"
	ReportStatusInvestigating = "investigating"
	ReportStatusResolved      = "resolved"
	ReportStatusFalseAlarm    = "false_alarm"
)

// Verification statuses derived from the trust score.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationDisputed = "disputed"
)

// Priority tiers for a report.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

type GeoPoint struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lng float64 `json:"lng" firestore:"lng"`
}

// Evidence holds the optional identifiers attached to a report.
type Evidence struct {
	Phone   string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Email   string `json:"email,omitempty" firestore:"email,omitempty"`
	Website string `json:"website,omitempty" firestore:"website,omitempty"`
}

// VerificationEntry is a single voter's vote on a report. At most one
// entry exists per (report, voter); a later vote replaces it in place.
type VerificationEntry struct {
	VoterID string    `json:"voter_id" firestore:"voterId"`
	Vote    string    `json:"vote" firestore:"vote"`
	Comment string    `json:"comment,omitempty" firestore:"comment,omitempty"`
	VotedAt time.Time `json:"voted_at" firestore:"votedAt"`
}

// Verification is the crowd-verification sub-structure of a report.
// Its trust score is always recomputable from the current entries and
// the voters' current trust scores.
type Verification struct {
	TrustScore        int                 `json:"trust_score" firestore:"trustScore"`
	VerificationCount int                 `json:"verification_count" firestore:"verificationCount"`
	Status            string              `json:"status" firestore:"status"`
	Entries           []VerificationEntry `json:"entries" firestore:"entries"`
}

// Classification is the classifier output stored on the report.
type Classification struct {
	Category  string   `json:"category" firestore:"category"`
	RiskScore int      `json:"risk_score" firestore:"riskScore"`
	Keywords  []string `json:"keywords,omitempty" firestore:"keywords,omitempty"`
	Sentiment string   `json:"sentiment,omitempty" firestore:"sentiment,omitempty"`
}

type Report struct {
	ID          string   `json:"id" firestore:"id"`
	ReporterID  string   `json:"reporter_id" firestore:"reporterId"`
	Category    string   `json:"category" firestore:"category"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Location    GeoPoint `json:"location" firestore:"location"`
	Address     string   `json:"address,omitempty" firestore:"address,omitempty"`
	City        string   `json:"city,omitempty" firestore:"city,omitempty"`
	Evidence    Evidence `json:"evidence" firestore:"evidence"`
	Priority    string   `json:"priority" firestore:"priority"`
	Status      string   `json:"status" firestore:"status"`

	Classification Classification `json:"classification" firestore:"classification"`
	Verification   Verification   `json:"verification" firestore:"verification"`

	// Version is bumped on every verification mutation and backs the
	// optimistic concurrency check in the repository layer.
	Version int64 `json:"-" firestore:"version"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// EntryFor returns the verification entry index for the given voter,
// or -1 when the voter has not voted yet.
func (r *Report) EntryFor(voterID string) int {
	for i, e := range r.Verification.Entries {
		if e.VoterID == voterID {
			return i
		}
	}
	return -1
}

func ValidVote(vote string) bool {
	switch vote {
	case VoteConfirm, VoteDeny, VoteUncertain:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}
