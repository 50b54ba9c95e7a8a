package memory

import (
	"context"
	"sort"

	"budgetflow/internal/models"
	"budgetflow/internal/store"

	"github.com/google/uuid"
)

// NotificationStore implements store.NotificationStore using in-memory
// storage.
type NotificationStore struct {
	s *Store
}

// Create creates a new notification in memory.
func (ns *NotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	// Check if notification already exists
	if _, exists := ns.s.data.notifications[notification.Payment]; exists {
		return store.ErrNotificationAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *notification
	ns.s.data.notifications[notification.Payment] = &clone

	return nil
}

// Get retrieves a notification by its payment key.
func (ns *NotificationStore) Get(ctx context.Context, key models.PaymentKey) (*models.Notification, error) {
	ns.s.mu.RLock()
	defer ns.s.mu.RUnlock()

	notification, exists := ns.s.data.notifications[key]
	if !exists {
		return nil, store.ErrNotificationNotFound
	}

	// Clone to avoid external modifications
	clone := *notification
	return &clone, nil
}

// Update updates an existing notification.
func (ns *NotificationStore) Update(ctx context.Context, notification *models.Notification) error {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	if _, exists := ns.s.data.notifications[notification.Payment]; !exists {
		return store.ErrNotificationNotFound
	}

	// Clone and store
	clone := *notification
	ns.s.data.notifications[notification.Payment] = &clone

	return nil
}

// ListByOrganization returns all notifications for payments under an
// organization, newest first.
func (ns *NotificationStore) ListByOrganization(ctx context.Context, org uuid.UUID) ([]*models.Notification, error) {
	ns.s.mu.RLock()
	defer ns.s.mu.RUnlock()

	var result []*models.Notification
	for _, notification := range ns.s.data.notifications {
		if notification.Payment.Department.Org != org {
			continue
		}

		// Clone to avoid external modifications
		clone := *notification
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].Payment.PaymentID > result[j].Payment.PaymentID
		}
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	return result, nil
}
