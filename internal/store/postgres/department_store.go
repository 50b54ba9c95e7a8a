package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetflow/internal/models"
	"budgetflow/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// DepartmentStore implements store.DepartmentStore using PostgreSQL.
type DepartmentStore struct {
	q    querier
	inTx bool
}

// Create creates a new department in the database.
func (s *DepartmentStore) Create(ctx context.Context, dept *models.Department) error {
	query := `
		INSERT INTO departments (
			org, name, budget_allocation, budget_used, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.q.Exec(ctx, query,
		dept.Org,
		dept.Name,
		int64(dept.BudgetAllocation),
		int64(dept.BudgetUsed),
		dept.CreatedAt,
		dept.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDepartmentAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to create department: %w", err)
	}

	log.Debug().
		Str("org", dept.Org.String()).
		Str("name", dept.Name).
		Msg("Created department")

	return nil
}

// Get retrieves a department by key.
func (s *DepartmentStore) Get(ctx context.Context, key models.DepartmentKey) (*models.Department, error) {
	return s.get(ctx, key, false)
}

// GetForUpdate retrieves a department by key and locks the row for the
// remainder of the enclosing transaction. Outside a transaction it
// behaves like Get.
func (s *DepartmentStore) GetForUpdate(ctx context.Context, key models.DepartmentKey) (*models.Department, error) {
	return s.get(ctx, key, s.inTx)
}

func (s *DepartmentStore) get(ctx context.Context, key models.DepartmentKey, forUpdate bool) (*models.Department, error) {
	query := `
		SELECT org, name, budget_allocation, budget_used, created_at, updated_at
		FROM departments
		WHERE org = $1 AND name = $2
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		dept       models.Department
		allocation int64
		used       int64
	)
	err := s.q.QueryRow(ctx, query, key.Org, key.Name).Scan(
		&dept.Org,
		&dept.Name,
		&allocation,
		&used,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	dept.BudgetAllocation = uint64(allocation)
	dept.BudgetUsed = uint64(used)

	return &dept, nil
}

// Update updates an existing department.
func (s *DepartmentStore) Update(ctx context.Context, dept *models.Department) error {
	dept.UpdatedAt = time.Now()

	query := `
		UPDATE departments SET
			budget_allocation = $3,
			budget_used = $4,
			updated_at = $5
		WHERE org = $1 AND name = $2
	`

	result, err := s.q.Exec(ctx, query,
		dept.Org,
		dept.Name,
		int64(dept.BudgetAllocation),
		int64(dept.BudgetUsed),
		dept.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrDepartmentNotFound
	}

	return nil
}

// ListByOrganization returns all departments belonging to an organization.
func (s *DepartmentStore) ListByOrganization(ctx context.Context, org uuid.UUID) ([]*models.Department, error) {
	query := `
		SELECT org, name, budget_allocation, budget_used, created_at, updated_at
		FROM departments
		WHERE org = $1
		ORDER BY created_at, name
	`

	rows, err := s.q.Query(ctx, query, org)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var depts []*models.Department
	for rows.Next() {
		var (
			dept       models.Department
			allocation int64
			used       int64
		)
		err := rows.Scan(
			&dept.Org,
			&dept.Name,
			&allocation,
			&used,
			&dept.CreatedAt,
			&dept.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		dept.BudgetAllocation = uint64(allocation)
		dept.BudgetUsed = uint64(used)
		depts = append(depts, &dept)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating departments: %w", err)
	}

	return depts, nil
}
