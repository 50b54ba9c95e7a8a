package store

import "context"

// Store aggregates the per-entity stores behind a single keyed-store
// abstraction. Every entity is addressed by a deterministic composite key
// derived from its parents: organizations by authority identity,
// departments by (organization, name), payments by (department, payment
// id) and notifications by payment key.
type Store interface {
	Organizations() OrganizationStore
	Departments() DepartmentStore
	Payments() PaymentStore
	Notifications() NotificationStore

	// ExecTx runs fn against a transactional view of the store. Mutations
	// made through the stores of the view become visible together when fn
	// returns nil, or not at all when it returns an error. Implementations
	// must serialize transactions that touch the same department so that
	// budget checks always observe committed state.
	ExecTx(ctx context.Context, fn func(Store) error) error
}
