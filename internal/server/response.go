package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"budgetflow/internal/ledger"
	"budgetflow/internal/store"

	"github.com/rs/zerolog/log"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps ledger and store errors onto HTTP statuses. Validation
// failures are 400, authority failures 403, keyed-store conditions 404 or
// 409, and budget or lifecycle violations 422.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal"

	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		status, code = http.StatusForbidden, "unauthorized"
	case errors.Is(err, ledger.ErrInsufficientBudget):
		status, code = http.StatusUnprocessableEntity, "insufficient_budget"
	case errors.Is(err, ledger.ErrDepartmentBudgetExceeded):
		status, code = http.StatusUnprocessableEntity, "department_budget_exceeded"
	case errors.Is(err, ledger.ErrInvalidPaymentStatus):
		status, code = http.StatusUnprocessableEntity, "invalid_payment_status"
	case errors.Is(err, ledger.ErrPaymentNotDue):
		status, code = http.StatusUnprocessableEntity, "payment_not_due"
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNameRequired),
		errors.Is(err, ledger.ErrNameTooLong),
		errors.Is(err, ledger.ErrMemoTooLong):
		status, code = http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, store.ErrOrganizationNotFound),
		errors.Is(err, store.ErrDepartmentNotFound),
		errors.Is(err, store.ErrPaymentNotFound),
		errors.Is(err, store.ErrNotificationNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, store.ErrOrganizationAlreadyExists),
		errors.Is(err, store.ErrDepartmentAlreadyExists),
		errors.Is(err, store.ErrPaymentAlreadyExists),
		errors.Is(err, store.ErrNotificationAlreadyExists):
		status, code = http.StatusConflict, "already_exists"
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}

	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: err.Error()}})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{Code: "invalid_argument", Message: message}})
}
