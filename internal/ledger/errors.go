package ledger

import "errors"

// Sentinel errors for ledger validation failures. All are local,
// synchronous and non-retryable: the first failing check aborts the whole
// operation with no partial effect. Keyed-store conditions (not found,
// already exists) are surfaced verbatim from the store package.
var (
	// ErrUnauthorized is returned when the caller identity does not match
	// the organization's authority.
	ErrUnauthorized = errors.New("caller is not the organization authority")

	// ErrInsufficientBudget is returned when a department allocation would
	// exceed the organization's total budget at creation time.
	ErrInsufficientBudget = errors.New("insufficient budget for this operation")

	// ErrDepartmentBudgetExceeded is returned when a scheduled payment
	// would push cumulative department usage past its allocation.
	ErrDepartmentBudgetExceeded = errors.New("department budget would be exceeded")

	// ErrInvalidPaymentStatus is returned when an operation expected a
	// scheduled payment but found another status.
	ErrInvalidPaymentStatus = errors.New("payment is not in a valid status for this operation")

	// ErrPaymentNotDue is returned when execution is attempted before the
	// payment's execution date.
	ErrPaymentNotDue = errors.New("payment execution date has not been reached")

	// ErrInvalidAmount is returned when an amount is zero or an addition
	// would exceed the representable range.
	ErrInvalidAmount = errors.New("amount is out of range")

	// ErrNameRequired is returned when a department name is empty.
	ErrNameRequired = errors.New("department name is required")

	// ErrNameTooLong is returned when a department name exceeds the
	// maximum stored length.
	ErrNameTooLong = errors.New("department name is too long")

	// ErrMemoTooLong is returned when a payment memo exceeds the maximum
	// stored length.
	ErrMemoTooLong = errors.New("payment memo is too long")
)
