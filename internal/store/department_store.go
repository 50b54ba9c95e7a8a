package store

import (
	"context"
	"errors"

	"budgetflow/internal/models"

	"github.com/google/uuid"
)

// Sentinel errors for department store operations
var (
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrDepartmentAlreadyExists = errors.New("department already exists")
)

// DepartmentStore defines the interface for department storage operations.
// Departments are keyed by (organization, name).
type DepartmentStore interface {
	// Create creates a new department in the store.
	// Returns ErrDepartmentAlreadyExists if the (organization, name) key
	// is already taken.
	Create(ctx context.Context, dept *models.Department) error

	// Get retrieves a department by key.
	// Returns ErrDepartmentNotFound if the department doesn't exist.
	Get(ctx context.Context, key models.DepartmentKey) (*models.Department, error)

	// GetForUpdate retrieves a department by key and, when called inside a
	// transaction, locks the row so that concurrent writers touching the
	// same department serialize behind this transaction.
	GetForUpdate(ctx context.Context, key models.DepartmentKey) (*models.Department, error)

	// Update updates an existing department.
	// Returns ErrDepartmentNotFound if the department doesn't exist.
	Update(ctx context.Context, dept *models.Department) error

	// ListByOrganization returns all departments belonging to an
	// organization, ordered by creation time.
	ListByOrganization(ctx context.Context, org uuid.UUID) ([]*models.Department, error)
}
