package memory

import (
	"context"
	"maps"
	"sync"

	"budgetflow/internal/models"
	"budgetflow/internal/store"

	"github.com/google/uuid"
)

// data holds every keyed record set. Entity values are cloned on read and
// write, so sharing pointers between snapshots is safe.
type data struct {
	organizations map[uuid.UUID]*models.Organization
	departments   map[models.DepartmentKey]*models.Department
	payments      map[models.PaymentKey]*models.Payment
	notifications map[models.PaymentKey]*models.Notification
}

func newData() *data {
	return &data{
		organizations: make(map[uuid.UUID]*models.Organization),
		departments:   make(map[models.DepartmentKey]*models.Department),
		payments:      make(map[models.PaymentKey]*models.Payment),
		notifications: make(map[models.PaymentKey]*models.Notification),
	}
}

func (d *data) clone() *data {
	return &data{
		organizations: maps.Clone(d.organizations),
		departments:   maps.Clone(d.departments),
		payments:      maps.Clone(d.payments),
		notifications: maps.Clone(d.notifications),
	}
}

// Store implements store.Store using in-memory storage.
// This implementation is for testing and local development - data is lost
// on restart.
type Store struct {
	mu   sync.RWMutex
	data *data
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{data: newData()}
}

// Organizations returns the organization store view.
func (s *Store) Organizations() store.OrganizationStore {
	return &OrganizationStore{s: s}
}

// Departments returns the department store view.
func (s *Store) Departments() store.DepartmentStore {
	return &DepartmentStore{s: s}
}

// Payments returns the payment store view.
func (s *Store) Payments() store.PaymentStore {
	return &PaymentStore{s: s}
}

// Notifications returns the notification store view.
func (s *Store) Notifications() store.NotificationStore {
	return &NotificationStore{s: s}
}

// ExecTx runs fn against a staged copy of the store and swaps the copy in
// only when fn succeeds. The store-wide lock is held for the duration, so
// transactions are fully serialized - a single-writer discipline that is
// stricter than, and therefore satisfies, per-department serialization.
func (s *Store) ExecTx(ctx context.Context, fn func(store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &Store{data: s.data.clone()}
	if err := fn(staged); err != nil {
		return err
	}

	s.data = staged.data

	return nil
}
