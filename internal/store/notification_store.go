package store

import (
	"context"
	"errors"

	"budgetflow/internal/models"

	"github.com/google/uuid"
)

// Sentinel errors for notification store operations
var (
	ErrNotificationNotFound      = errors.New("notification not found")
	ErrNotificationAlreadyExists = errors.New("notification already exists")
)

// NotificationStore defines the interface for notification storage
// operations. Notifications are keyed by the payment that produced them,
// so at most one notification exists per payment.
type NotificationStore interface {
	// Create creates a new notification in the store.
	// Returns ErrNotificationAlreadyExists if the payment already has one.
	Create(ctx context.Context, notification *models.Notification) error

	// Get retrieves a notification by its payment key.
	// Returns ErrNotificationNotFound if the notification doesn't exist.
	Get(ctx context.Context, key models.PaymentKey) (*models.Notification, error)

	// Update updates an existing notification.
	// Returns ErrNotificationNotFound if the notification doesn't exist.
	Update(ctx context.Context, notification *models.Notification) error

	// ListByOrganization returns all notifications for payments under an
	// organization, newest first.
	ListByOrganization(ctx context.Context, org uuid.UUID) ([]*models.Notification, error)
}
