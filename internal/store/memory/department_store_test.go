package memory

import (
	"context"
	"testing"
	"time"

	"budgetflow/internal/models"
	"budgetflow/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDepartmentStore_Create(t *testing.T) {
	t.Run("create new department", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		dept := &models.Department{
			Org:              uuid.New(),
			Name:             "Engineering",
			BudgetAllocation: 600,
		}

		err := st.Departments().Create(ctx, dept)
		require.NoError(t, err)
	})

	t.Run("create duplicate department returns error", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		dept := &models.Department{Org: uuid.New(), Name: "Engineering"}
		require.NoError(t, st.Departments().Create(ctx, dept))

		err := st.Departments().Create(ctx, dept)
		require.ErrorIs(t, err, store.ErrDepartmentAlreadyExists)
	})

	t.Run("same name under different organizations is allowed", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		require.NoError(t, st.Departments().Create(ctx, &models.Department{Org: uuid.New(), Name: "Engineering"}))
		require.NoError(t, st.Departments().Create(ctx, &models.Department{Org: uuid.New(), Name: "Engineering"}))
	})
}

func TestDepartmentStore_Get(t *testing.T) {
	t.Run("get existing department", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		dept := &models.Department{
			Org:              uuid.New(),
			Name:             "Engineering",
			BudgetAllocation: 600,
			BudgetUsed:       100,
		}
		require.NoError(t, st.Departments().Create(ctx, dept))

		retrieved, err := st.Departments().Get(ctx, dept.Key())
		require.NoError(t, err)
		require.Equal(t, uint64(600), retrieved.BudgetAllocation)
		require.Equal(t, uint64(100), retrieved.BudgetUsed)
	})

	t.Run("get nonexistent department returns error", func(t *testing.T) {
		st := NewStore()

		_, err := st.Departments().Get(context.Background(), models.DepartmentKey{Org: uuid.New(), Name: "Engineering"})
		require.ErrorIs(t, err, store.ErrDepartmentNotFound)
	})
}

func TestDepartmentStore_Update(t *testing.T) {
	t.Run("update existing department", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		dept := &models.Department{Org: uuid.New(), Name: "Engineering", BudgetAllocation: 600}
		require.NoError(t, st.Departments().Create(ctx, dept))

		dept.BudgetUsed = 500
		require.NoError(t, st.Departments().Update(ctx, dept))

		retrieved, err := st.Departments().Get(ctx, dept.Key())
		require.NoError(t, err)
		require.Equal(t, uint64(500), retrieved.BudgetUsed)
	})

	t.Run("update nonexistent department returns error", func(t *testing.T) {
		st := NewStore()

		err := st.Departments().Update(context.Background(), &models.Department{Org: uuid.New(), Name: "Engineering"})
		require.ErrorIs(t, err, store.ErrDepartmentNotFound)
	})
}

func TestDepartmentStore_ListByOrganization(t *testing.T) {
	t.Run("returns only this organization's departments in creation order", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org := uuid.New()

		base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, st.Departments().Create(ctx, &models.Department{Org: org, Name: "Sales", CreatedAt: base.Add(time.Hour)}))
		require.NoError(t, st.Departments().Create(ctx, &models.Department{Org: org, Name: "Engineering", CreatedAt: base}))
		require.NoError(t, st.Departments().Create(ctx, &models.Department{Org: uuid.New(), Name: "Other"}))

		depts, err := st.Departments().ListByOrganization(ctx, org)
		require.NoError(t, err)
		require.Len(t, depts, 2)
		require.Equal(t, "Engineering", depts[0].Name)
		require.Equal(t, "Sales", depts[1].Name)
	})

	t.Run("empty organization returns empty list", func(t *testing.T) {
		st := NewStore()

		depts, err := st.Departments().ListByOrganization(context.Background(), uuid.New())
		require.NoError(t, err)
		require.Empty(t, depts)
	})
}
