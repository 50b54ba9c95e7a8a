package memory

import (
	"context"
	"testing"

	"budgetflow/internal/models"
	"budgetflow/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestOrganizationStore_Create(t *testing.T) {
	t.Run("create new organization", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		org := &models.Organization{
			Authority:   uuid.New(),
			TotalBudget: 1000,
		}

		err := st.Organizations().Create(ctx, org)
		require.NoError(t, err)
	})

	t.Run("create duplicate organization returns error", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		org := &models.Organization{Authority: uuid.New()}

		require.NoError(t, st.Organizations().Create(ctx, org))

		err := st.Organizations().Create(ctx, org)
		require.ErrorIs(t, err, store.ErrOrganizationAlreadyExists)
	})
}

func TestOrganizationStore_Get(t *testing.T) {
	t.Run("get existing organization", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		org := &models.Organization{
			Authority:   uuid.New(),
			TotalBudget: 1000,
		}
		require.NoError(t, st.Organizations().Create(ctx, org))

		retrieved, err := st.Organizations().Get(ctx, org.Authority)
		require.NoError(t, err)
		require.Equal(t, org.Authority, retrieved.Authority)
		require.Equal(t, uint64(1000), retrieved.TotalBudget)
	})

	t.Run("get nonexistent organization returns error", func(t *testing.T) {
		st := NewStore()

		_, err := st.Organizations().Get(context.Background(), uuid.New())
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		org := &models.Organization{Authority: uuid.New(), TotalBudget: 1000}
		require.NoError(t, st.Organizations().Create(ctx, org))

		retrieved, err := st.Organizations().Get(ctx, org.Authority)
		require.NoError(t, err)

		retrieved.TotalBudget = 9999

		again, err := st.Organizations().Get(ctx, org.Authority)
		require.NoError(t, err)
		require.Equal(t, uint64(1000), again.TotalBudget)
	})
}

func TestOrganizationStore_Update(t *testing.T) {
	t.Run("update existing organization", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		org := &models.Organization{Authority: uuid.New(), TotalBudget: 1000}
		require.NoError(t, st.Organizations().Create(ctx, org))

		org.TotalBudget = 2000
		require.NoError(t, st.Organizations().Update(ctx, org))

		retrieved, err := st.Organizations().Get(ctx, org.Authority)
		require.NoError(t, err)
		require.Equal(t, uint64(2000), retrieved.TotalBudget)
	})

	t.Run("update nonexistent organization returns error", func(t *testing.T) {
		st := NewStore()

		err := st.Organizations().Update(context.Background(), &models.Organization{Authority: uuid.New()})
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})
}
