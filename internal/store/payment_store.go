package store

import (
	"context"
	"errors"

	"budgetflow/internal/models"
)

// Sentinel errors for payment store operations
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentAlreadyExists = errors.New("payment already exists")
)

// PaymentStore defines the interface for payment storage operations.
// Payments are keyed by (department, payment id), with the id chosen by
// the caller at scheduling time.
type PaymentStore interface {
	// Create creates a new payment in the store.
	// Returns ErrPaymentAlreadyExists if the (department, payment id) key
	// is already taken.
	Create(ctx context.Context, payment *models.Payment) error

	// Get retrieves a payment by key.
	// Returns ErrPaymentNotFound if the payment doesn't exist.
	Get(ctx context.Context, key models.PaymentKey) (*models.Payment, error)

	// GetForUpdate retrieves a payment by key and, when called inside a
	// transaction, locks the row against concurrent writers.
	GetForUpdate(ctx context.Context, key models.PaymentKey) (*models.Payment, error)

	// Update updates an existing payment.
	// Returns ErrPaymentNotFound if the payment doesn't exist.
	Update(ctx context.Context, payment *models.Payment) error

	// ListByDepartment returns all payments scheduled against a
	// department, ordered by payment id.
	ListByDepartment(ctx context.Context, key models.DepartmentKey) ([]*models.Payment, error)
}
