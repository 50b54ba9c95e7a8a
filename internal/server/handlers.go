package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"budgetflow/internal/auth"
	"budgetflow/internal/ledger"
	"budgetflow/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type organizationResponse struct {
	Authority   string `json:"authority"`
	TotalBudget uint64 `json:"total_budget"`
}

type departmentResponse struct {
	Org              string `json:"org"`
	Name             string `json:"name"`
	BudgetAllocation uint64 `json:"budget_allocation"`
	BudgetUsed       uint64 `json:"budget_used"`
}

type paymentResponse struct {
	Department    string `json:"department"`
	PaymentID     uint64 `json:"payment_id"`
	Amount        uint64 `json:"amount"`
	Recipient     string `json:"recipient"`
	Memo          string `json:"memo"`
	ExecutionDate int64  `json:"execution_date"`
	Status        string `json:"status"`
}

type notificationResponse struct {
	Department string `json:"department"`
	PaymentID  uint64 `json:"payment_id"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
	IsRead     bool   `json:"is_read"`
}

func organizationJSON(org *models.Organization) organizationResponse {
	return organizationResponse{
		Authority:   org.Authority.String(),
		TotalBudget: org.TotalBudget,
	}
}

func departmentJSON(dept *models.Department) departmentResponse {
	return departmentResponse{
		Org:              dept.Org.String(),
		Name:             dept.Name,
		BudgetAllocation: dept.BudgetAllocation,
		BudgetUsed:       dept.BudgetUsed,
	}
}

func paymentJSON(payment *models.Payment) paymentResponse {
	return paymentResponse{
		Department:    payment.Department.Name,
		PaymentID:     payment.PaymentID,
		Amount:        payment.Amount,
		Recipient:     payment.Recipient.String(),
		Memo:          payment.Memo,
		ExecutionDate: payment.ExecutionDate.Unix(),
		Status:        string(payment.Status),
	}
}

func notificationJSON(notification *models.Notification) notificationResponse {
	return notificationResponse{
		Department: notification.Payment.Department.Name,
		PaymentID:  notification.Payment.PaymentID,
		Message:    notification.Message,
		Timestamp:  notification.Timestamp.Unix(),
		IsRead:     notification.IsRead,
	}
}

// caller returns the verified caller identity placed in the context by
// the auth middleware.
func caller(r *http.Request) (uuid.UUID, bool) {
	c := auth.CallerFromContext(r.Context())
	if c == nil {
		return uuid.Nil, false
	}
	return c.ID, true
}

func orgParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "org"))
}

func paymentKeyParams(r *http.Request) (models.PaymentKey, error) {
	org, err := orgParam(r)
	if err != nil {
		return models.PaymentKey{}, err
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return models.PaymentKey{}, err
	}

	return models.PaymentKey{
		Department: models.DepartmentKey{Org: org, Name: chi.URLParam(r, "name")},
		PaymentID:  id,
	}, nil
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	callerID, ok := caller(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	org, err := s.ledger.Initialize(r.Context(), callerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, organizationJSON(org))
}

func (s *Server) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgParam(r)
	if err != nil {
		writeBadRequest(w, "invalid organization id")
		return
	}

	org, err := s.ledger.GetOrganization(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, organizationJSON(org))
}

type setBudgetRequest struct {
	Amount uint64 `json:"amount"`
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	callerID, ok := caller(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orgID, err := orgParam(r)
	if err != nil {
		writeBadRequest(w, "invalid organization id")
		return
	}

	var req setBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	org, err := s.ledger.SetBudget(r.Context(), callerID, orgID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, organizationJSON(org))
}

type createDepartmentRequest struct {
	Name             string `json:"name"`
	BudgetAllocation uint64 `json:"budget_allocation"`
}

func (s *Server) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	callerID, ok := caller(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orgID, err := orgParam(r)
	if err != nil {
		writeBadRequest(w, "invalid organization id")
		return
	}

	var req createDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	dept, err := s.ledger.CreateDepartment(r.Context(), callerID, orgID, req.Name, req.BudgetAllocation)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, departmentJSON(dept))
}

func (s *Server) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgParam(r)
	if err != nil {
		writeBadRequest(w, "invalid organization id")
		return
	}

	dept, err := s.ledger.GetDepartment(r.Context(), models.DepartmentKey{Org: orgID, Name: chi.URLParam(r, "name")})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, departmentJSON(dept))
}

func (s *Server) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgParam(r)
	if err != nil {
		writeBadRequest(w, "invalid organization id")
		return
	}

	depts, err := s.ledger.ListDepartments(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]departmentResponse, 0, len(depts))
	for _, dept := range depts {
		out = append(out, departmentJSON(dept))
	}

	writeJSON(w, http.StatusOK, out)
}

type schedulePaymentRequest struct {
	PaymentID     uint64 `json:"payment_id"`
	Amount        uint64 `json:"amount"`
	Recipient     string `json:"recipient"`
	Memo          string `json:"memo"`
	ExecutionDate int64  `json:"execution_date"` // epoch seconds
}

func (s *Server) handleSchedulePayment(w http.ResponseWriter, r *http.Request) {
	callerID, ok := caller(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orgID, err := orgParam(r)
	if err != nil {
		writeBadRequest(w, "invalid organization id")
		return
	}

	var req schedulePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	recipient, err := uuid.Parse(req.Recipient)
	if err != nil {
		writeBadRequest(w, "invalid recipient")
		return
	}

	payment, err := s.ledger.SchedulePayment(r.Context(), callerID, orgID, chi.URLParam(r, "name"), ledger.SchedulePaymentParams{
		PaymentID:     req.PaymentID,
		Amount:        req.Amount,
		Recipient:     recipient,
		Memo:          req.Memo,
		ExecutionDate: time.Unix(req.ExecutionDate, 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, paymentJSON(payment))
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	key, err := paymentKeyParams(r)
	if err != nil {
		writeBadRequest(w, "invalid payment key")
		return
	}

	payment, err := s.ledger.GetPayment(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paymentJSON(payment))
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgParam(r)
	if err != nil {
		writeBadRequest(w, "invalid organization id")
		return
	}

	payments, err := s.ledger.ListPayments(r.Context(), models.DepartmentKey{Org: orgID, Name: chi.URLParam(r, "name")})
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, payment := range payments {
		out = append(out, paymentJSON(payment))
	}

	writeJSON(w, http.StatusOK, out)
}

type executePaymentResponse struct {
	Payment      paymentResponse      `json:"payment"`
	Notification notificationResponse `json:"notification"`
}

func (s *Server) handleExecutePayment(w http.ResponseWriter, r *http.Request) {
	callerID, ok := caller(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	key, err := paymentKeyParams(r)
	if err != nil {
		writeBadRequest(w, "invalid payment key")
		return
	}

	payment, notification, err := s.ledger.ExecutePayment(r.Context(), callerID, key.Department.Org, key.Department.Name, key.PaymentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, executePaymentResponse{
		Payment:      paymentJSON(payment),
		Notification: notificationJSON(notification),
	})
}

func (s *Server) handleGetNotification(w http.ResponseWriter, r *http.Request) {
	key, err := paymentKeyParams(r)
	if err != nil {
		writeBadRequest(w, "invalid payment key")
		return
	}

	notification, err := s.ledger.GetNotification(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notificationJSON(notification))
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	callerID, ok := caller(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	key, err := paymentKeyParams(r)
	if err != nil {
		writeBadRequest(w, "invalid payment key")
		return
	}

	notification, err := s.ledger.MarkNotificationRead(r.Context(), callerID, key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notificationJSON(notification))
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgParam(r)
	if err != nil {
		writeBadRequest(w, "invalid organization id")
		return
	}

	notifications, err := s.ledger.ListNotifications(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]notificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, notificationJSON(notification))
	}

	writeJSON(w, http.StatusOK, out)
}
