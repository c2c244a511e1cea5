package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

const alertsCollection = "alerts"

// Alerts are stored under their dedup key so the uniqueness of
// (recipient, report, alertType) is enforced by the document id itself.
type firestoreAlertRepository struct {
	client *firestore.Client
}

func NewFirestoreAlertRepository(client *firestore.Client) repository.AlertRepository {
	return &firestoreAlertRepository{client: client}
}

func (r *firestoreAlertRepository) Create(ctx context.Context, alert *entity.Alert) error {
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}

	_, err := r.client.Collection(alertsCollection).Doc(alert.DedupKey()).Create(ctx, alert)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Alert already exists for this recipient, report and type")
		}
		return errors.Internal("Failed to create alert", err)
	}
	return nil
}

func (r *firestoreAlertRepository) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	query := r.client.Collection(alertsCollection).Where("id", "==", id).Limit(1)
	iter := query.Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Alert", nil)
		}
		return nil, errors.Internal("Failed to get alert", err)
	}

	return parseAlert(doc)
}

func (r *firestoreAlertRepository) GetByMatchKey(ctx context.Context, recipientID, reportID, alertType string) (*entity.Alert, error) {
	key := entity.AlertDedupKey(recipientID, reportID, alertType)
	doc, err := r.client.Collection(alertsCollection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Alert", err)
		}
		return nil, errors.Internal("Failed to get alert", err)
	}

	return parseAlert(doc)
}

func (r *firestoreAlertRepository) Update(ctx context.Context, alert *entity.Alert) error {
	_, err := r.client.Collection(alertsCollection).Doc(alert.DedupKey()).Set(ctx, alert)
	if err != nil {
		return errors.Internal("Failed to update alert", err)
	}
	return nil
}

func (r *firestoreAlertRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*entity.Alert, int64, error) {
	query := r.client.Collection(alertsCollection).
		Where("recipientId", "==", recipientID).
		Where("isActive", "==", true).
		Where("expiresAt", ">", time.Now())
	if unreadOnly {
		query = query.Where("isRead", "==", false)
	}

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count alerts", err)
	}
	total := int64(len(countDocs))

	// Firestore requires the first ordering to be on the inequality
	// field; expiry is creation plus a fixed retention, so expiresAt
	// descending is newest-first.
	iter := query.OrderBy("expiresAt", firestore.Desc).Offset(offset).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var alerts []*entity.Alert
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list alerts", err)
		}

		alert, err := parseAlert(doc)
		if err != nil {
			return nil, 0, err
		}
		alerts = append(alerts, alert)
	}

	return alerts, total, nil
}

func (r *firestoreAlertRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	query := r.client.Collection(alertsCollection).
		Where("recipientId", "==", recipientID).
		Where("isRead", "==", false)

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to scan unread alerts", err)
		}

		if _, err := doc.Ref.Update(ctx, []firestore.Update{{Path: "isRead", Value: true}}); err != nil {
			return errors.Internal("Failed to mark alert read", err)
		}
	}
	return nil
}

func (r *firestoreAlertRepository) ListUndelivered(ctx context.Context, limit int) ([]*entity.Alert, error) {
	// Firestore cannot express "any channel un-sent" as a single
	// query; scan active unexpired alerts and filter.
	query := r.client.Collection(alertsCollection).
		Where("isActive", "==", true).
		Where("deliverySettled", "==", false).
		Where("expiresAt", ">", time.Now())

	iter := query.Documents(ctx)
	defer iter.Stop()

	var alerts []*entity.Alert
	for len(alerts) < limit {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to scan undelivered alerts", err)
		}

		alert, err := parseAlert(doc)
		if err != nil {
			return nil, err
		}
		if !alert.Delivery.Push.Sent || !alert.Delivery.Email.Sent || !alert.Delivery.SMS.Sent {
			alerts = append(alerts, alert)
		}
	}
	return alerts, nil
}

func parseAlert(doc *firestore.DocumentSnapshot) (*entity.Alert, error) {
	var alert entity.Alert
	if err := doc.DataTo(&alert); err != nil {
		return nil, errors.Internal("Failed to parse alert data", err)
	}
	return &alert, nil
}
