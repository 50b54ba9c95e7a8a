package models

import "time"

// Notification is an append-only record created as a side effect of a
// successful payment execution. At most one notification exists per
// payment, and it is never deleted.
type Notification struct {
	Payment   PaymentKey // the triggering payment
	Message   string
	Timestamp time.Time
	IsRead    bool
}
