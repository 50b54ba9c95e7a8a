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

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
type OrganizationStore struct {
	q querier
}

// Create creates a new organization in the database.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (
			authority, total_budget, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4
		)
	`

	_, err := s.q.Exec(ctx, query,
		org.Authority,
		int64(org.TotalBudget),
		org.CreatedAt,
		org.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrOrganizationAlreadyExists
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}

	log.Debug().
		Str("authority", org.Authority.String()).
		Msg("Created organization")

	return nil
}

// Get retrieves an organization by its authority identity.
func (s *OrganizationStore) Get(ctx context.Context, authority uuid.UUID) (*models.Organization, error) {
	query := `
		SELECT authority, total_budget, created_at, updated_at
		FROM organizations
		WHERE authority = $1
	`

	var (
		org         models.Organization
		totalBudget int64
	)
	err := s.q.QueryRow(ctx, query, authority).Scan(
		&org.Authority,
		&totalBudget,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	org.TotalBudget = uint64(totalBudget)

	return &org, nil
}

// Update updates an existing organization.
func (s *OrganizationStore) Update(ctx context.Context, org *models.Organization) error {
	org.UpdatedAt = time.Now()

	query := `
		UPDATE organizations SET
			total_budget = $2,
			updated_at = $3
		WHERE authority = $1
	`

	result, err := s.q.Exec(ctx, query,
		org.Authority,
		int64(org.TotalBudget),
		org.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Debug().
		Str("authority", org.Authority.String()).
		Uint64("total_budget", org.TotalBudget).
		Msg("Updated organization")

	return nil
}
