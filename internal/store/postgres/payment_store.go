package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetflow/internal/models"
	"budgetflow/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PaymentStore implements store.PaymentStore using PostgreSQL.
type PaymentStore struct {
	q    querier
	inTx bool
}

// Create creates a new payment in the database.
func (s *PaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (
			org, department, payment_id, amount, recipient, memo,
			execution_date, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := s.q.Exec(ctx, query,
		payment.Department.Org,
		payment.Department.Name,
		int64(payment.PaymentID),
		int64(payment.Amount),
		payment.Recipient,
		payment.Memo,
		payment.ExecutionDate,
		string(payment.Status),
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrPaymentAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	log.Debug().
		Str("org", payment.Department.Org.String()).
		Str("department", payment.Department.Name).
		Uint64("payment_id", payment.PaymentID).
		Msg("Created payment")

	return nil
}

// Get retrieves a payment by key.
func (s *PaymentStore) Get(ctx context.Context, key models.PaymentKey) (*models.Payment, error) {
	return s.get(ctx, key, false)
}

// GetForUpdate retrieves a payment by key and locks the row for the
// remainder of the enclosing transaction. Outside a transaction it
// behaves like Get.
func (s *PaymentStore) GetForUpdate(ctx context.Context, key models.PaymentKey) (*models.Payment, error) {
	return s.get(ctx, key, s.inTx)
}

func (s *PaymentStore) get(ctx context.Context, key models.PaymentKey, forUpdate bool) (*models.Payment, error) {
	query := `
		SELECT org, department, payment_id, amount, recipient, memo,
			execution_date, status, created_at, updated_at
		FROM payments
		WHERE org = $1 AND department = $2 AND payment_id = $3
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	payment, err := scanPayment(s.q.QueryRow(ctx, query, key.Department.Org, key.Department.Name, int64(key.PaymentID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

// Update updates an existing payment.
func (s *PaymentStore) Update(ctx context.Context, payment *models.Payment) error {
	payment.UpdatedAt = time.Now()

	query := `
		UPDATE payments SET
			amount = $4,
			recipient = $5,
			memo = $6,
			execution_date = $7,
			status = $8,
			updated_at = $9
		WHERE org = $1 AND department = $2 AND payment_id = $3
	`

	result, err := s.q.Exec(ctx, query,
		payment.Department.Org,
		payment.Department.Name,
		int64(payment.PaymentID),
		int64(payment.Amount),
		payment.Recipient,
		payment.Memo,
		payment.ExecutionDate,
		string(payment.Status),
		payment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrPaymentNotFound
	}

	return nil
}

// ListByDepartment returns all payments scheduled against a department.
func (s *PaymentStore) ListByDepartment(ctx context.Context, key models.DepartmentKey) ([]*models.Payment, error) {
	query := `
		SELECT org, department, payment_id, amount, recipient, memo,
			execution_date, status, created_at, updated_at
		FROM payments
		WHERE org = $1 AND department = $2
		ORDER BY payment_id
	`

	rows, err := s.q.Query(ctx, query, key.Org, key.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}

// scanPayment reads a payment from a row in column order.
func scanPayment(row pgx.Row) (*models.Payment, error) {
	var (
		payment   models.Payment
		paymentID int64
		amount    int64
		status    string
	)
	err := row.Scan(
		&payment.Department.Org,
		&payment.Department.Name,
		&paymentID,
		&amount,
		&payment.Recipient,
		&payment.Memo,
		&payment.ExecutionDate,
		&status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.PaymentID = uint64(paymentID)
	payment.Amount = uint64(amount)
	payment.Status = models.PaymentStatus(status)

	return &payment, nil
}
