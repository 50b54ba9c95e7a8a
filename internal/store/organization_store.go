package store

import (
	"context"
	"errors"

	"budgetflow/internal/models"

	"github.com/google/uuid"
)

// Sentinel errors for organization store operations
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
)

// OrganizationStore defines the interface for organization storage
// operations. Organizations are keyed by their authority identity, so at
// most one organization exists per authority.
type OrganizationStore interface {
	// Create creates a new organization in the store.
	// Returns ErrOrganizationAlreadyExists if one already exists for the
	// same authority.
	Create(ctx context.Context, org *models.Organization) error

	// Get retrieves an organization by its authority identity.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Get(ctx context.Context, authority uuid.UUID) (*models.Organization, error)

	// Update updates an existing organization.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Update(ctx context.Context, org *models.Organization) error
}
