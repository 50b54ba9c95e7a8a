package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"budgetflow/internal/models"
	"budgetflow/internal/store"
	"budgetflow/internal/telemetry"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service implements the budget-control state machine over a keyed store.
// Every mutating operation loads the entities it needs, validates the
// caller and the budget invariants against their current values, and
// commits its mutations as a unit.
type Service struct {
	store store.Store
	now   func() time.Time
}

// NewService creates a new ledger service backed by the given store.
func NewService(st store.Store) *Service {
	return &Service{
		store: st,
		now:   time.Now,
	}
}

// Initialize creates a new organization owned by the caller with a total
// budget of zero. Returns store.ErrOrganizationAlreadyExists if the
// caller already has one.
func (s *Service) Initialize(ctx context.Context, caller uuid.UUID) (*models.Organization, error) {
	now := s.now()
	org := &models.Organization{
		Authority:   caller,
		TotalBudget: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Organizations().Create(ctx, org); err != nil {
		return nil, telemetry.RecordOperation("initialize", err)
	}

	log.Info().
		Str("authority", caller.String()).
		Msg("Organization budget system initialized")

	return org, telemetry.RecordOperation("initialize", nil)
}

// SetBudget overwrites the organization's total budget unconditionally.
// The caller must be the organization's authority. No floor or ceiling is
// applied against existing department allocations.
func (s *Service) SetBudget(ctx context.Context, caller, orgID uuid.UUID, amount uint64) (*models.Organization, error) {
	org, err := s.store.Organizations().Get(ctx, orgID)
	if err != nil {
		return nil, telemetry.RecordOperation("set_budget", err)
	}

	if org.Authority != caller {
		return nil, telemetry.RecordOperation("set_budget", ErrUnauthorized)
	}

	org.TotalBudget = amount
	if err := s.store.Organizations().Update(ctx, org); err != nil {
		return nil, telemetry.RecordOperation("set_budget", err)
	}

	log.Info().
		Str("authority", orgID.String()).
		Uint64("total_budget", amount).
		Msg("Total budget set")

	return org, telemetry.RecordOperation("set_budget", nil)
}

// CreateDepartment creates a department with the given allocation and
// zero usage. The allocation must not exceed the organization's total
// budget at the time of the call; the check is a point-in-time snapshot
// only and does not reserve any of the total budget, so sibling
// departments may collectively overcommit it.
func (s *Service) CreateDepartment(ctx context.Context, caller, orgID uuid.UUID, name string, allocation uint64) (*models.Department, error) {
	if name == "" {
		return nil, telemetry.RecordOperation("create_department", ErrNameRequired)
	}
	if len(name) > models.MaxDepartmentNameLen {
		return nil, telemetry.RecordOperation("create_department", ErrNameTooLong)
	}

	org, err := s.store.Organizations().Get(ctx, orgID)
	if err != nil {
		return nil, telemetry.RecordOperation("create_department", err)
	}

	if org.Authority != caller {
		return nil, telemetry.RecordOperation("create_department", ErrUnauthorized)
	}

	if allocation > org.TotalBudget {
		return nil, telemetry.RecordOperation("create_department", ErrInsufficientBudget)
	}

	now := s.now()
	dept := &models.Department{
		Org:              orgID,
		Name:             name,
		BudgetAllocation: allocation,
		BudgetUsed:       0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.Departments().Create(ctx, dept); err != nil {
		return nil, telemetry.RecordOperation("create_department", err)
	}

	log.Info().
		Str("authority", orgID.String()).
		Str("department", name).
		Uint64("budget_allocation", allocation).
		Msg("Department created")

	return dept, telemetry.RecordOperation("create_department", nil)
}

// SchedulePaymentParams holds the caller-supplied fields of a new payment.
type SchedulePaymentParams struct {
	PaymentID     uint64
	Amount        uint64
	Recipient     uuid.UUID
	Memo          string
	ExecutionDate time.Time
}

// SchedulePayment creates a payment in the scheduled state. The payment
// must fit within the department's remaining allocation as of this call;
// the budget itself is only debited later, at execution. The check runs
// inside a transaction that locks the department, so concurrent schedules
// against the same department serialize.
func (s *Service) SchedulePayment(ctx context.Context, caller, orgID uuid.UUID, department string, params SchedulePaymentParams) (*models.Payment, error) {
	if params.Amount == 0 {
		return nil, telemetry.RecordOperation("schedule_payment", ErrInvalidAmount)
	}
	if len(params.Memo) > models.MaxPaymentMemoLen {
		return nil, telemetry.RecordOperation("schedule_payment", ErrMemoTooLong)
	}

	deptKey := models.DepartmentKey{Org: orgID, Name: department}

	var payment *models.Payment
	err := s.store.ExecTx(ctx, func(tx store.Store) error {
		org, err := tx.Organizations().Get(ctx, orgID)
		if err != nil {
			return err
		}

		if org.Authority != caller {
			return ErrUnauthorized
		}

		dept, err := tx.Departments().GetForUpdate(ctx, deptKey)
		if err != nil {
			return err
		}

		if params.Amount > math.MaxUint64-dept.BudgetUsed {
			return ErrInvalidAmount
		}
		if dept.BudgetUsed+params.Amount > dept.BudgetAllocation {
			return ErrDepartmentBudgetExceeded
		}

		now := s.now()
		payment = &models.Payment{
			Department:    deptKey,
			PaymentID:     params.PaymentID,
			Amount:        params.Amount,
			Recipient:     params.Recipient,
			Memo:          params.Memo,
			ExecutionDate: params.ExecutionDate,
			Status:        models.PaymentStatusScheduled,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		return tx.Payments().Create(ctx, payment)
	})
	if err != nil {
		return nil, telemetry.RecordOperation("schedule_payment", err)
	}

	log.Info().
		Str("department", department).
		Uint64("payment_id", params.PaymentID).
		Uint64("amount", params.Amount).
		Str("recipient", params.Recipient.String()).
		Msg("Payment scheduled")

	return payment, telemetry.RecordOperation("schedule_payment", nil)
}

// ExecutePayment transitions a scheduled, due payment to executed, debits
// the department by the payment amount and records a notification. The
// three mutations commit as a single unit; if any check fails no partial
// mutation is visible.
func (s *Service) ExecutePayment(ctx context.Context, caller, orgID uuid.UUID, department string, paymentID uint64) (*models.Payment, *models.Notification, error) {
	deptKey := models.DepartmentKey{Org: orgID, Name: department}
	paymentKey := models.PaymentKey{Department: deptKey, PaymentID: paymentID}

	var (
		payment      *models.Payment
		notification *models.Notification
	)
	err := s.store.ExecTx(ctx, func(tx store.Store) error {
		org, err := tx.Organizations().Get(ctx, orgID)
		if err != nil {
			return err
		}

		if org.Authority != caller {
			return ErrUnauthorized
		}

		dept, err := tx.Departments().GetForUpdate(ctx, deptKey)
		if err != nil {
			return err
		}

		payment, err = tx.Payments().GetForUpdate(ctx, paymentKey)
		if err != nil {
			return err
		}

		if payment.Status != models.PaymentStatusScheduled {
			return ErrInvalidPaymentStatus
		}

		now := s.now()
		if now.Before(payment.ExecutionDate) {
			return ErrPaymentNotDue
		}

		if payment.Amount > math.MaxUint64-dept.BudgetUsed {
			return ErrInvalidAmount
		}

		// Actual movement of funds to the recipient happens outside this
		// system; executing a payment records the debit and the status
		// transition only.
		payment.Status = models.PaymentStatusExecuted
		if err := tx.Payments().Update(ctx, payment); err != nil {
			return err
		}

		dept.BudgetUsed += payment.Amount
		if err := tx.Departments().Update(ctx, dept); err != nil {
			return err
		}

		notification = &models.Notification{
			Payment:   paymentKey,
			Message:   fmt.Sprintf("Payment of %d to %s was executed successfully", payment.Amount, payment.Recipient),
			Timestamp: now,
			IsRead:    false,
		}

		return tx.Notifications().Create(ctx, notification)
	})
	if err != nil {
		return nil, nil, telemetry.RecordOperation("execute_payment", err)
	}

	telemetry.PaymentsExecutedAmount.Add(float64(payment.Amount))

	log.Info().
		Str("department", department).
		Uint64("payment_id", paymentID).
		Uint64("amount", payment.Amount).
		Str("recipient", payment.Recipient.String()).
		Msg("Payment executed")

	return payment, notification, telemetry.RecordOperation("execute_payment", nil)
}

// MarkNotificationRead marks a notification as read. It only requires a
// verified caller; the caller is deliberately not cross-checked against
// the organization's authority. Marking an already-read notification is a
// no-op, not an error.
func (s *Service) MarkNotificationRead(ctx context.Context, caller uuid.UUID, key models.PaymentKey) (*models.Notification, error) {
	if caller == uuid.Nil {
		return nil, telemetry.RecordOperation("mark_notification_read", ErrUnauthorized)
	}

	notification, err := s.store.Notifications().Get(ctx, key)
	if err != nil {
		return nil, telemetry.RecordOperation("mark_notification_read", err)
	}

	notification.IsRead = true
	if err := s.store.Notifications().Update(ctx, notification); err != nil {
		return nil, telemetry.RecordOperation("mark_notification_read", err)
	}

	return notification, telemetry.RecordOperation("mark_notification_read", nil)
}

// GetOrganization retrieves an organization by its authority identity.
func (s *Service) GetOrganization(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	return s.store.Organizations().Get(ctx, orgID)
}

// GetDepartment retrieves a department by key.
func (s *Service) GetDepartment(ctx context.Context, key models.DepartmentKey) (*models.Department, error) {
	return s.store.Departments().Get(ctx, key)
}

// ListDepartments returns all departments under an organization.
func (s *Service) ListDepartments(ctx context.Context, orgID uuid.UUID) ([]*models.Department, error) {
	return s.store.Departments().ListByOrganization(ctx, orgID)
}

// GetPayment retrieves a payment by key.
func (s *Service) GetPayment(ctx context.Context, key models.PaymentKey) (*models.Payment, error) {
	return s.store.Payments().Get(ctx, key)
}

// ListPayments returns all payments scheduled against a department.
func (s *Service) ListPayments(ctx context.Context, key models.DepartmentKey) ([]*models.Payment, error) {
	return s.store.Payments().ListByDepartment(ctx, key)
}

// GetNotification retrieves a notification by its payment key.
func (s *Service) GetNotification(ctx context.Context, key models.PaymentKey) (*models.Notification, error) {
	return s.store.Notifications().Get(ctx, key)
}

// ListNotifications returns all notifications under an organization,
// newest first.
func (s *Service) ListNotifications(ctx context.Context, orgID uuid.UUID) ([]*models.Notification, error) {
	return s.store.Notifications().ListByOrganization(ctx, orgID)
}
