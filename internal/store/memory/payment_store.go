package memory

import (
	"context"
	"sort"
	"time"

	"budgetflow/internal/models"
	"budgetflow/internal/store"
)

// PaymentStore implements store.PaymentStore using in-memory storage.
type PaymentStore struct {
	s *Store
}

// Create creates a new payment in memory.
func (ps *PaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	// Check if payment already exists
	if _, exists := ps.s.data.payments[payment.Key()]; exists {
		return store.ErrPaymentAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *payment
	ps.s.data.payments[payment.Key()] = &clone

	return nil
}

// Get retrieves a payment by key.
func (ps *PaymentStore) Get(ctx context.Context, key models.PaymentKey) (*models.Payment, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	payment, exists := ps.s.data.payments[key]
	if !exists {
		return nil, store.ErrPaymentNotFound
	}

	// Clone to avoid external modifications
	clone := *payment
	return &clone, nil
}

// GetForUpdate retrieves a payment by key. The in-memory store fully
// serializes transactions, so no additional locking is needed here.
func (ps *PaymentStore) GetForUpdate(ctx context.Context, key models.PaymentKey) (*models.Payment, error) {
	return ps.Get(ctx, key)
}

// Update updates an existing payment.
func (ps *PaymentStore) Update(ctx context.Context, payment *models.Payment) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	if _, exists := ps.s.data.payments[payment.Key()]; !exists {
		return store.ErrPaymentNotFound
	}

	// Update timestamp
	payment.UpdatedAt = time.Now()

	// Clone and store
	clone := *payment
	ps.s.data.payments[payment.Key()] = &clone

	return nil
}

// ListByDepartment returns all payments scheduled against a department.
func (ps *PaymentStore) ListByDepartment(ctx context.Context, key models.DepartmentKey) ([]*models.Payment, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	var result []*models.Payment
	for _, payment := range ps.s.data.payments {
		if payment.Department != key {
			continue
		}

		// Clone to avoid external modifications
		clone := *payment
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PaymentID < result[j].PaymentID
	})

	return result, nil
}
