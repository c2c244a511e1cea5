package usecase

import (
	"context"
	"sync"
	"time"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/logger"
)

// SendOutcome is the result of one (alert, channel) delivery attempt.
type SendOutcome struct {
	AlertID     string
	RecipientID string
	Channel     string
	Sent        bool
	Skipped     bool
	Err         error
}

// ChannelRouter decides which channels an alert may go out on and
// records per-channel delivery state. A failed send leaves the channel
// un-sent so a later pass can retry it.
type ChannelRouter struct {
	alertRepo repository.AlertRepository
	senders   map[string]ChannelSender

	// Per-alert locks serialize the state write and whole-record
	// persist: concurrent channel sends for one alert must never store
	// a snapshot missing a sibling channel's transition.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewChannelRouter(alertRepo repository.AlertRepository, senders map[string]ChannelSender) *ChannelRouter {
	return &ChannelRouter{
		alertRepo: alertRepo,
		senders:   senders,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (r *ChannelRouter) lockFor(alertID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[alertID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[alertID] = lock
	}
	return lock
}

// EligibleChannels returns the channels an alert may currently be sent
// on: enabled in the recipient's preferences, not yet sent, and for SMS
// only when severity is above low.
func (r *ChannelRouter) EligibleChannels(alert *entity.Alert, prefs entity.ChannelPreferences) []string {
	var eligible []string

	for _, channel := range []string{entity.ChannelPush, entity.ChannelEmail, entity.ChannelSMS} {
		if !channelEnabled(channel, prefs) {
			continue
		}
		if state := alert.Delivery.Channel(channel); state == nil || state.Sent {
			continue
		}
		// SMS is reserved for urgent alerts.
		if channel == entity.ChannelSMS && alert.Severity == entity.SeverityLow {
			continue
		}
		eligible = append(eligible, channel)
	}

	return eligible
}

// Deliver attempts one channel send for an alert and persists the state
// transition on success. Failures do not change state.
func (r *ChannelRouter) Deliver(ctx context.Context, alert *entity.Alert, recipient *entity.User, channel string) SendOutcome {
	outcome := SendOutcome{AlertID: alert.ID, RecipientID: recipient.ID, Channel: channel}

	sender, ok := r.senders[channel]
	if !ok {
		outcome.Skipped = true
		return outcome
	}

	destination := destinationFor(channel, recipient)
	if destination == "" {
		outcome.Skipped = true
		return outcome
	}

	metadata := map[string]string{
		"alert_id":   alert.ID,
		"alert_type": alert.AlertType,
		"severity":   alert.Severity,
		"report_id":  alert.SourceReportID,
	}

	if !sender.Send(ctx, destination, alert.Title, alert.Message, metadata) {
		logger.Warn("Channel %s send failed for alert %s", channel, alert.ID)
		return outcome
	}

	lock := r.lockFor(alert.ID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	state := alert.Delivery.Channel(channel)
	state.Sent = true
	state.SentAt = &now

	if err := r.alertRepo.Update(ctx, alert); err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Sent = true
	return outcome
}

// Settle flags an alert the redelivery sweep no longer needs to visit:
// every channel the recipient has enabled was sent.
func (r *ChannelRouter) Settle(ctx context.Context, alert *entity.Alert, prefs entity.ChannelPreferences) error {
	lock := r.lockFor(alert.ID)
	lock.Lock()
	defer lock.Unlock()

	if alert.DeliverySettled || len(r.EligibleChannels(alert, prefs)) > 0 {
		return nil
	}

	alert.DeliverySettled = true
	return r.alertRepo.Update(ctx, alert)
}

func channelEnabled(channel string, prefs entity.ChannelPreferences) bool {
	switch channel {
	case entity.ChannelPush:
		return prefs.Push
	case entity.ChannelEmail:
		return prefs.Email
	case entity.ChannelSMS:
		return prefs.SMS
	}
	return false
}

func destinationFor(channel string, recipient *entity.User) string {
	switch channel {
	case entity.ChannelPush:
		return recipient.DeviceToken
	case entity.ChannelEmail:
		return recipient.Email
	case entity.ChannelSMS:
		return recipient.Phone
	}
	return ""
}
