package classifier

import (
	"context"
	"strings"

	"scamwatch/internal/usecase"
)

// KeywordClassifier is the bundled Classifier implementation: a
// keyword-table classifier producing a coarse fraud category, a risk
// score and the matched keywords.
type KeywordClassifier struct{}

func New() *KeywordClassifier {
	return &KeywordClassifier{}
}

var categoryKeywords = map[string][]string{
	"phishing": {
		"phishing", "verify your account", "suspended account", "click this link",
		"confirm your password", "login attempt", "security alert",
	},
	"investment_fraud": {
		"investment", "guaranteed return", "double your money", "trading platform",
		"ponzi", "pyramid", "high yield",
	},
	"crypto_scam": {
		"bitcoin", "crypto", "wallet address", "airdrop", "token sale", "nft",
	},
	"romance_scam": {
		"dating", "lonely", "overseas", "soldier", "widow", "love", "relationship",
	},
	"online_shopping": {
		"fake store", "never arrived", "counterfeit", "refund", "marketplace",
		"seller disappeared",
	},
	"identity_theft": {
		"identity", "ssn", "social security", "stolen card", "opened account",
		"impersonat",
	},
	"phone_scam": {
		"robocall", "irs", "tax office", "warranty", "tech support", "gift card",
		"wire transfer",
	},
}

var highRiskKeywords = []string{
	"wire transfer", "gift card", "bitcoin", "guaranteed return", "ssn",
	"social security", "password", "bank account", "urgent", "immediately",
}

var negativeKeywords = []string{
	"lost", "stole", "threat", "scam", "fraud", "fake", "victim", "danger",
}

var positiveKeywords = []string{
	"recovered", "refunded", "resolved", "returned",
}

// Classify never fails; unknown text lands in the "other" category with
// a modest risk score.
func (c *KeywordClassifier) Classify(_ context.Context, text string) (*usecase.ClassifierResult, error) {
	lowered := strings.ToLower(text)

	category := "other"
	var matched []string
	best := 0
	for cat, keywords := range categoryKeywords {
		hits := matchingKeywords(lowered, keywords)
		if len(hits) > best {
			best = len(hits)
			category = cat
			matched = hits
		}
	}

	risk := 20 + 10*len(matched)
	riskHits := matchingKeywords(lowered, highRiskKeywords)
	risk += 15 * len(riskHits)
	if risk > 100 {
		risk = 100
	}
	matched = append(matched, riskHits...)

	return &usecase.ClassifierResult{
		Category:  category,
		RiskScore: risk,
		Keywords:  dedupe(matched),
		Sentiment: sentimentOf(lowered),
	}, nil
}

func sentimentOf(text string) string {
	if len(matchingKeywords(text, negativeKeywords)) > 0 {
		return "negative"
	}
	if len(matchingKeywords(text, positiveKeywords)) > 0 {
		return "positive"
	}
	return "neutral"
}

func matchingKeywords(text string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

func dedupe(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	var out []string
	for _, kw := range keywords {
		if !seen[kw] {
			seen[kw] = true
			out = append(out, kw)
		}
	}
	return out
}
