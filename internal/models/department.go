package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxDepartmentNameLen is the maximum length of a department name in bytes.
const MaxDepartmentNameLen = 46

// DepartmentKey identifies a department within an organization.
// Department names are unique per organization.
type DepartmentKey struct {
	Org  uuid.UUID // the owning organization's authority identity
	Name string
}

// Department owns a slice of the organization's budget. The allocation is
// fixed at creation; BudgetUsed only ever grows, and only when a payment
// belonging to the department is executed.
type Department struct {
	Org              uuid.UUID
	Name             string
	BudgetAllocation uint64 // ceiling, immutable after creation
	BudgetUsed       uint64 // monotonically non-decreasing, starts at 0
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Key returns the composite key for this department.
func (d *Department) Key() DepartmentKey {
	return DepartmentKey{Org: d.Org, Name: d.Name}
}

// Remaining returns the unconsumed portion of the allocation.
func (d *Department) Remaining() uint64 {
	if d.BudgetUsed >= d.BudgetAllocation {
		return 0
	}
	return d.BudgetAllocation - d.BudgetUsed
}
