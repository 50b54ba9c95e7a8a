package memory

import (
	"context"
	"sort"
	"time"

	"budgetflow/internal/models"
	"budgetflow/internal/store"

	"github.com/google/uuid"
)

// DepartmentStore implements store.DepartmentStore using in-memory
// storage.
type DepartmentStore struct {
	s *Store
}

// Create creates a new department in memory.
func (ds *DepartmentStore) Create(ctx context.Context, dept *models.Department) error {
	ds.s.mu.Lock()
	defer ds.s.mu.Unlock()

	// Check if department already exists
	if _, exists := ds.s.data.departments[dept.Key()]; exists {
		return store.ErrDepartmentAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *dept
	ds.s.data.departments[dept.Key()] = &clone

	return nil
}

// Get retrieves a department by key.
func (ds *DepartmentStore) Get(ctx context.Context, key models.DepartmentKey) (*models.Department, error) {
	ds.s.mu.RLock()
	defer ds.s.mu.RUnlock()

	dept, exists := ds.s.data.departments[key]
	if !exists {
		return nil, store.ErrDepartmentNotFound
	}

	// Clone to avoid external modifications
	clone := *dept
	return &clone, nil
}

// GetForUpdate retrieves a department by key. The in-memory store fully
// serializes transactions, so no additional locking is needed here.
func (ds *DepartmentStore) GetForUpdate(ctx context.Context, key models.DepartmentKey) (*models.Department, error) {
	return ds.Get(ctx, key)
}

// Update updates an existing department.
func (ds *DepartmentStore) Update(ctx context.Context, dept *models.Department) error {
	ds.s.mu.Lock()
	defer ds.s.mu.Unlock()

	if _, exists := ds.s.data.departments[dept.Key()]; !exists {
		return store.ErrDepartmentNotFound
	}

	// Update timestamp
	dept.UpdatedAt = time.Now()

	// Clone and store
	clone := *dept
	ds.s.data.departments[dept.Key()] = &clone

	return nil
}

// ListByOrganization returns all departments belonging to an organization.
func (ds *DepartmentStore) ListByOrganization(ctx context.Context, org uuid.UUID) ([]*models.Department, error) {
	ds.s.mu.RLock()
	defer ds.s.mu.RUnlock()

	var result []*models.Department
	for _, dept := range ds.s.data.departments {
		if dept.Org != org {
			continue
		}

		// Clone to avoid external modifications
		clone := *dept
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Name < result[j].Name
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
