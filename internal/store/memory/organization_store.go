package memory

import (
	"context"
	"time"

	"budgetflow/internal/models"
	"budgetflow/internal/store"

	"github.com/google/uuid"
)

// OrganizationStore implements store.OrganizationStore using in-memory
// storage.
type OrganizationStore struct {
	s *Store
}

// Create creates a new organization in memory.
func (os *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()

	// Check if organization already exists
	if _, exists := os.s.data.organizations[org.Authority]; exists {
		return store.ErrOrganizationAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *org
	os.s.data.organizations[org.Authority] = &clone

	return nil
}

// Get retrieves an organization by its authority identity.
func (os *OrganizationStore) Get(ctx context.Context, authority uuid.UUID) (*models.Organization, error) {
	os.s.mu.RLock()
	defer os.s.mu.RUnlock()

	org, exists := os.s.data.organizations[authority]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	// Clone to avoid external modifications
	clone := *org
	return &clone, nil
}

// Update updates an existing organization.
func (os *OrganizationStore) Update(ctx context.Context, org *models.Organization) error {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()

	if _, exists := os.s.data.organizations[org.Authority]; !exists {
		return store.ErrOrganizationNotFound
	}

	// Update timestamp
	org.UpdatedAt = time.Now()

	// Clone and store
	clone := *org
	os.s.data.organizations[org.Authority] = &clone

	return nil
}
