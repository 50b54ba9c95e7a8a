package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxPaymentMemoLen is the maximum length of a payment memo in bytes.
const MaxPaymentMemoLen = 96

// PaymentStatus represents the lifecycle state of a payment.
// Transitions are one-way and single-step: a payment starts Scheduled and
// moves to Executed at most once. There is no transition out of Executed
// or Failed.
type PaymentStatus string

const (
	PaymentStatusScheduled PaymentStatus = "scheduled"
	PaymentStatusExecuted  PaymentStatus = "executed"

	// PaymentStatusFailed is a reserved terminal state. No operation
	// currently produces it; it exists as an extension point.
	PaymentStatusFailed PaymentStatus = "failed"
)

// PaymentKey identifies a payment within a department. Payment IDs are
// caller-chosen and unique per department.
type PaymentKey struct {
	Department DepartmentKey
	PaymentID  uint64
}

// Payment is a single scheduled transfer to a recipient. It becomes
// eligible for execution at or after ExecutionDate, and executing it is
// the only point at which the owning department's budget is debited.
type Payment struct {
	Department    DepartmentKey
	PaymentID     uint64
	Amount        uint64
	Recipient     uuid.UUID
	Memo          string
	ExecutionDate time.Time
	Status        PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Key returns the composite key for this payment.
func (p *Payment) Key() PaymentKey {
	return PaymentKey{Department: p.Department, PaymentID: p.PaymentID}
}
