package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the root of the budget tree. There is at most one
// organization per authority identity, and the authority is the only
// identity permitted to mutate the organization and everything beneath it.
type Organization struct {
	Authority   uuid.UUID // identity of the controlling principal, immutable
	TotalBudget uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
