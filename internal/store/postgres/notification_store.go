package postgres

import (
	"context"
	"errors"
	"fmt"

	"budgetflow/internal/models"
	"budgetflow/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// NotificationStore implements store.NotificationStore using PostgreSQL.
type NotificationStore struct {
	q querier
}

// Create creates a new notification in the database.
func (s *NotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (
			org, department, payment_id, message, created_at, is_read
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.q.Exec(ctx, query,
		notification.Payment.Department.Org,
		notification.Payment.Department.Name,
		int64(notification.Payment.PaymentID),
		notification.Message,
		notification.Timestamp,
		notification.IsRead,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrNotificationAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrPaymentNotFound
		}
		return fmt.Errorf("failed to create notification: %w", err)
	}

	log.Debug().
		Str("org", notification.Payment.Department.Org.String()).
		Str("department", notification.Payment.Department.Name).
		Uint64("payment_id", notification.Payment.PaymentID).
		Msg("Created notification")

	return nil
}

// Get retrieves a notification by its payment key.
func (s *NotificationStore) Get(ctx context.Context, key models.PaymentKey) (*models.Notification, error) {
	query := `
		SELECT org, department, payment_id, message, created_at, is_read
		FROM notifications
		WHERE org = $1 AND department = $2 AND payment_id = $3
	`

	notification, err := scanNotification(s.q.QueryRow(ctx, query,
		key.Department.Org, key.Department.Name, int64(key.PaymentID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return notification, nil
}

// Update updates an existing notification.
func (s *NotificationStore) Update(ctx context.Context, notification *models.Notification) error {
	query := `
		UPDATE notifications SET
			message = $4,
			is_read = $5
		WHERE org = $1 AND department = $2 AND payment_id = $3
	`

	result, err := s.q.Exec(ctx, query,
		notification.Payment.Department.Org,
		notification.Payment.Department.Name,
		int64(notification.Payment.PaymentID),
		notification.Message,
		notification.IsRead,
	)

	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrNotificationNotFound
	}

	return nil
}

// ListByOrganization returns all notifications for payments under an
// organization, newest first.
func (s *NotificationStore) ListByOrganization(ctx context.Context, org uuid.UUID) ([]*models.Notification, error) {
	query := `
		SELECT org, department, payment_id, message, created_at, is_read
		FROM notifications
		WHERE org = $1
		ORDER BY created_at DESC, payment_id DESC
	`

	rows, err := s.q.Query(ctx, query, org)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

// scanNotification reads a notification from a row in column order.
func scanNotification(row pgx.Row) (*models.Notification, error) {
	var (
		notification models.Notification
		paymentID    int64
	)
	err := row.Scan(
		&notification.Payment.Department.Org,
		&notification.Payment.Department.Name,
		&paymentID,
		&notification.Message,
		&notification.Timestamp,
		&notification.IsRead,
	)
	if err != nil {
		return nil, err
	}

	notification.Payment.PaymentID = uint64(paymentID)

	return &notification, nil
}
