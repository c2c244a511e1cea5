package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"scamwatch/internal/domain/entity"
	"scamwatch/pkg/errors"
)

// In-memory repositories backing the usecase tests. They are mutex
// protected so dispatch fan-out tests can hit them concurrently.

type memReportRepo struct {
	mu      sync.Mutex
	reports map[string]*entity.Report
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{reports: make(map[string]*entity.Report)}
}

func (r *memReportRepo) Create(ctx context.Context, report *entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = report
	return nil
}

func (r *memReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, errors.NotFound("Report", nil)
	}
	return report, nil
}

func (r *memReportRepo) Update(ctx context.Context, report *entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[report.ID]; !ok {
		return errors.NotFound("Report", nil)
	}
	r.reports[report.ID] = report
	return nil
}

func (r *memReportRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reports, id)
	return nil
}

func (r *memReportRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Report, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Report
	for _, report := range r.reports {
		if category, ok := filter["category"]; ok && report.Category != category {
			continue
		}
		if status, ok := filter["status"]; ok && report.Status != status {
			continue
		}
		out = append(out, report)
	}
	return out, int64(len(out)), nil
}

func (r *memReportRepo) UpdateVerification(ctx context.Context, reportID string, mutate func(report *entity.Report) error) (*entity.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[reportID]
	if !ok {
		return nil, errors.NotFound("Report", nil)
	}

	// Mutate a copy so a failed mutation leaves the stored report
	// untouched, matching the transactional implementation.
	clone := *report
	clone.Verification.Entries = append([]entity.VerificationEntry(nil), report.Verification.Entries...)
	if err := mutate(&clone); err != nil {
		return nil, err
	}

	clone.Version++
	clone.UpdatedAt = time.Now()
	r.reports[reportID] = &clone
	return &clone, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return errors.Conflict("User already exists")
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) ListActive(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, user := range r.users {
		if user.IsActive() {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *memUserRepo) FindActiveByPhone(ctx context.Context, phone string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, user := range r.users {
		if user.IsActive() && user.Phone == phone {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *memUserRepo) FindActiveByEmail(ctx context.Context, email string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, user := range r.users {
		if user.IsActive() && user.Email == email {
			out = append(out, user)
		}
	}
	return out, nil
}

type memAlertRepo struct {
	mu     sync.Mutex
	alerts map[string]*entity.Alert
}

func newMemAlertRepo() *memAlertRepo {
	return &memAlertRepo{alerts: make(map[string]*entity.Alert)}
}

func (r *memAlertRepo) Create(ctx context.Context, alert *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := alert.DedupKey()
	if _, ok := r.alerts[key]; ok {
		return errors.Conflict("Alert already exists for this recipient, report and type")
	}
	r.alerts[key] = alert
	return nil
}

func (r *memAlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.ID == id {
			return alert, nil
		}
	}
	return nil, errors.NotFound("Alert", nil)
}

func (r *memAlertRepo) GetByMatchKey(ctx context.Context, recipientID, reportID, alertType string) (*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[entity.AlertDedupKey(recipientID, reportID, alertType)]
	if !ok {
		return nil, errors.NotFound("Alert", nil)
	}
	return alert, nil
}

func (r *memAlertRepo) Update(ctx context.Context, alert *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[alert.DedupKey()] = alert
	return nil
}

func (r *memAlertRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*entity.Alert, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var out []*entity.Alert
	for _, alert := range r.alerts {
		if alert.RecipientID != recipientID {
			continue
		}
		if !alert.IsActive || alert.Expired(now) {
			continue
		}
		if unreadOnly && alert.IsRead {
			continue
		}
		out = append(out, alert)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memAlertRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.RecipientID == recipientID {
			alert.IsRead = true
		}
	}
	return nil
}

func (r *memAlertRepo) ListUndelivered(ctx context.Context, limit int) ([]*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var out []*entity.Alert
	for _, alert := range r.alerts {
		if !alert.IsActive || alert.DeliverySettled || alert.Expired(now) {
			continue
		}
		if alert.Delivery.Push.Sent && alert.Delivery.Email.Sent && alert.Delivery.SMS.Sent {
			continue
		}
		out = append(out, alert)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memAlertRepo) byRecipient(recipientID string) []*entity.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Alert
	for _, alert := range r.alerts {
		if alert.RecipientID == recipientID {
			out = append(out, alert)
		}
	}
	return out
}

// Collaborator fakes.

type fakeClassifier struct {
	result *ClassifierResult
	err    error
}

func (c *fakeClassifier) Classify(ctx context.Context, text string) (*ClassifierResult, error) {
	return c.result, c.err
}

type fakeGeocoder struct {
	result *GeocodeResult
}

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) *GeocodeResult {
	return g.result
}

type sentMessage struct {
	Destination string
	Title       string
}

type fakeSender struct {
	mu   sync.Mutex
	ok   bool
	sent []sentMessage
}

func (s *fakeSender) Send(ctx context.Context, destination, title, body string, metadata map[string]string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{Destination: destination, Title: title})
	return s.ok
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeFeed struct {
	mu             sync.Mutex
	reportsCreated int
	verifications  int
	alertEvents    int
}

func (f *fakeFeed) ReportCreated(report *entity.Report) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reportsCreated++
}

func (f *fakeFeed) ReportVerified(reportID string, trustScore, verificationCount int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifications++
}

func (f *fakeFeed) AlertCreated(recipientID string, alert *entity.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alertEvents++
}

func (f *fakeFeed) alertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alertEvents
}

type fakeAuthClient struct {
	uid        string
	createErr  error
	deletedUID string
}

func (a *fakeAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	return a.uid, a.createErr
}

func (a *fakeAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	return a.uid, nil
}

func (a *fakeAuthClient) DeleteUser(ctx context.Context, uid string) error {
	a.deletedUID = uid
	return nil
}

// Test entity builders.

func activeUser(id string, trust int) *entity.User {
	return &entity.User{
		ID:         id,
		Email:      id + "@example.com",
		Username:   id,
		Status:     entity.UserStatusActive,
		TrustScore: trust,
		Channels:   entity.ChannelPreferences{Push: true},
	}
}

func nearbyUser(id string, lat, lng, radiusKm float64) *entity.User {
	user := activeUser(id, 50)
	user.Location = &entity.GeoPoint{Lat: lat, Lng: lng}
	user.AlertRadiusKm = radiusKm
	user.DeviceToken = "device-" + id
	return user
}

func activeReport(id, reporterID string) *entity.Report {
	now := time.Now()
	return &entity.Report{
		ID:         id,
		ReporterID: reporterID,
		Category:   "phishing",
		Title:      "Fake bank SMS",
		Location:   entity.GeoPoint{Lat: 37.7749, Lng: -122.4194},
		Priority:   entity.PriorityMedium,
		Status:     entity.ReportStatusActive,
		Verification: entity.Verification{
			TrustScore: 30,
			Status:     entity.VerificationPending,
			Entries:    []entity.VerificationEntry{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
