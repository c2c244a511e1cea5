package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"scamwatch/pkg/logger"
)

// HTTPSMSSender posts SMS messages to a gateway webhook. The gateway is
// an external collaborator; any non-2xx response is an expected failure.
type HTTPSMSSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPSMSSender(endpoint, apiKey string) *HTTPSMSSender {
	return &HTTPSMSSender{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: sendTimeout},
	}
}

type smsPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (s *HTTPSMSSender) Send(ctx context.Context, destination, title, body string, _ map[string]string) bool {
	if destination == "" || s.endpoint == "" {
		return false
	}

	payload, err := json.Marshal(smsPayload{To: destination, Body: title + ": " + body})
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn("SMS gateway unreachable: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("SMS gateway returned status %d", resp.StatusCode)
		return false
	}
	return true
}
