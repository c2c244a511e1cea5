package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamwatch/internal/domain/entity"
)

func testAlert(severity string) *entity.Alert {
	return &entity.Alert{
		ID:          "alert-1",
		RecipientID: "recipient",
		AlertType:   entity.AlertTypeProximity,
		Severity:    severity,
		IsActive:    true,
	}
}

func TestEligibleChannelsRespectsPreferences(t *testing.T) {
	router := NewChannelRouter(newMemAlertRepo(), nil)

	alert := testAlert(entity.SeverityHigh)
	prefs := entity.ChannelPreferences{Push: true, Email: false, SMS: true}

	assert.Equal(t, []string{entity.ChannelPush, entity.ChannelSMS}, router.EligibleChannels(alert, prefs))
}

func TestEligibleChannelsSkipsSMSForLowSeverity(t *testing.T) {
	router := NewChannelRouter(newMemAlertRepo(), nil)

	prefs := entity.ChannelPreferences{Push: true, Email: true, SMS: true}

	low := testAlert(entity.SeverityLow)
	assert.Equal(t, []string{entity.ChannelPush, entity.ChannelEmail}, router.EligibleChannels(low, prefs))

	medium := testAlert(entity.SeverityMedium)
	assert.Contains(t, router.EligibleChannels(medium, prefs), entity.ChannelSMS)
}

func TestEligibleChannelsSkipsAlreadySent(t *testing.T) {
	router := NewChannelRouter(newMemAlertRepo(), nil)

	alert := testAlert(entity.SeverityHigh)
	alert.Delivery.Push.Sent = true
	prefs := entity.ChannelPreferences{Push: true, Email: true}

	assert.Equal(t, []string{entity.ChannelEmail}, router.EligibleChannels(alert, prefs))
}

func TestDeliverMarksChannelSent(t *testing.T) {
	alertRepo := newMemAlertRepo()
	sender := &fakeSender{ok: true}
	router := NewChannelRouter(alertRepo, map[string]ChannelSender{entity.ChannelPush: sender})

	alert := testAlert(entity.SeverityHigh)
	require.NoError(t, alertRepo.Create(context.Background(), alert))

	recipient := activeUser("recipient", 50)
	recipient.DeviceToken = "device-token"

	outcome := router.Deliver(context.Background(), alert, recipient, entity.ChannelPush)

	assert.True(t, outcome.Sent)
	assert.True(t, alert.Delivery.Push.Sent)
	require.NotNil(t, alert.Delivery.Push.SentAt)
	assert.Equal(t, 1, sender.count())
}

func TestDeliverFailureLeavesChannelUnsent(t *testing.T) {
	alertRepo := newMemAlertRepo()
	sender := &fakeSender{ok: false}
	router := NewChannelRouter(alertRepo, map[string]ChannelSender{entity.ChannelPush: sender})

	alert := testAlert(entity.SeverityHigh)
	require.NoError(t, alertRepo.Create(context.Background(), alert))

	recipient := activeUser("recipient", 50)
	recipient.DeviceToken = "device-token"

	outcome := router.Deliver(context.Background(), alert, recipient, entity.ChannelPush)

	assert.False(t, outcome.Sent)
	assert.False(t, outcome.Skipped)
	assert.False(t, alert.Delivery.Push.Sent)
	assert.Nil(t, alert.Delivery.Push.SentAt)

	// The channel stays eligible for a later retry.
	prefs := entity.ChannelPreferences{Push: true}
	assert.Equal(t, []string{entity.ChannelPush}, router.EligibleChannels(alert, prefs))
}

// snapshotAlertRepo persists a copy of the alert on Update, the way a
// document store serializes the whole record on every write.
type snapshotAlertRepo struct {
	*memAlertRepo
}

func (r *snapshotAlertRepo) Update(ctx context.Context, alert *entity.Alert) error {
	stored := *alert
	return r.memAlertRepo.Update(ctx, &stored)
}

func TestDeliverConcurrentChannelsPersistEverySend(t *testing.T) {
	alertRepo := &snapshotAlertRepo{newMemAlertRepo()}
	router := NewChannelRouter(alertRepo, map[string]ChannelSender{
		entity.ChannelPush:  &fakeSender{ok: true},
		entity.ChannelEmail: &fakeSender{ok: true},
		entity.ChannelSMS:   &fakeSender{ok: true},
	})

	alert := testAlert(entity.SeverityCritical)
	alert.SourceReportID = "report-1"
	require.NoError(t, alertRepo.Create(context.Background(), alert))

	recipient := activeUser("recipient", 50)
	recipient.DeviceToken = "device-token"
	recipient.Phone = "+15550001111"

	var wg sync.WaitGroup
	for _, channel := range []string{entity.ChannelPush, entity.ChannelEmail, entity.ChannelSMS} {
		wg.Add(1)
		go func(channel string) {
			defer wg.Done()
			outcome := router.Deliver(context.Background(), alert, recipient, channel)
			assert.True(t, outcome.Sent, channel)
		}(channel)
	}
	wg.Wait()

	// Whatever write landed last must carry every channel's transition.
	stored, err := alertRepo.GetByID(context.Background(), alert.ID)
	require.NoError(t, err)
	assert.True(t, stored.Delivery.Push.Sent)
	assert.True(t, stored.Delivery.Email.Sent)
	assert.True(t, stored.Delivery.SMS.Sent)
}

func TestSettleFlagsFullyDeliveredAlert(t *testing.T) {
	alertRepo := newMemAlertRepo()
	router := NewChannelRouter(alertRepo, nil)

	alert := testAlert(entity.SeverityHigh)
	alert.SourceReportID = "report-1"
	alert.Delivery.Push.Sent = true
	require.NoError(t, alertRepo.Create(context.Background(), alert))

	prefs := entity.ChannelPreferences{Push: true}
	require.NoError(t, router.Settle(context.Background(), alert, prefs))
	assert.True(t, alert.DeliverySettled)

	undelivered, err := alertRepo.ListUndelivered(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, undelivered)
}

func TestSettleLeavesRetryableAlertAlone(t *testing.T) {
	alertRepo := newMemAlertRepo()
	router := NewChannelRouter(alertRepo, nil)

	alert := testAlert(entity.SeverityHigh)
	alert.SourceReportID = "report-1"
	require.NoError(t, alertRepo.Create(context.Background(), alert))

	prefs := entity.ChannelPreferences{Push: true}
	require.NoError(t, router.Settle(context.Background(), alert, prefs))
	assert.False(t, alert.DeliverySettled)

	undelivered, err := alertRepo.ListUndelivered(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, undelivered, 1)
}

func TestDeliverSkipsMissingDestination(t *testing.T) {
	sender := &fakeSender{ok: true}
	router := NewChannelRouter(newMemAlertRepo(), map[string]ChannelSender{entity.ChannelSMS: sender})

	alert := testAlert(entity.SeverityCritical)
	recipient := activeUser("recipient", 50) // no phone on file

	outcome := router.Deliver(context.Background(), alert, recipient, entity.ChannelSMS)

	assert.True(t, outcome.Skipped)
	assert.False(t, outcome.Sent)
	assert.Equal(t, 0, sender.count())
}
