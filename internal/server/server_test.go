package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budgetflow/internal/auth"
	"budgetflow/internal/ledger"
	"budgetflow/internal/store/memory"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler  http.Handler
	verifier *auth.Verifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	verifier, err := auth.NewVerifier([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	svc := ledger.NewService(memory.NewStore())
	handler := New(svc, verifier).Routes(zerolog.Nop(), []string{"*"})

	return &testServer{handler: handler, verifier: verifier}
}

func (ts *testServer) token(t *testing.T, identity uuid.UUID) string {
	t.Helper()

	token, err := ts.verifier.Issue(identity, time.Hour)
	require.NoError(t, err)

	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))

	return out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/v1/organizations", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrganizationRoutes(t *testing.T) {
	t.Run("initialize creates organization for the token identity", func(t *testing.T) {
		ts := newTestServer(t)
		authority := uuid.New()
		token := ts.token(t, authority)

		rec := ts.do(t, http.MethodPost, "/v1/organizations", token, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		org := decode[organizationResponse](t, rec)
		require.Equal(t, authority.String(), org.Authority)
		require.Equal(t, uint64(0), org.TotalBudget)
	})

	t.Run("duplicate initialize conflicts", func(t *testing.T) {
		ts := newTestServer(t)
		token := ts.token(t, uuid.New())

		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/v1/organizations", token, nil).Code)
		require.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, "/v1/organizations", token, nil).Code)
	})

	t.Run("set budget", func(t *testing.T) {
		ts := newTestServer(t)
		authority := uuid.New()
		token := ts.token(t, authority)

		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/v1/organizations", token, nil).Code)

		rec := ts.do(t, http.MethodPut, "/v1/organizations/"+authority.String()+"/budget", token, map[string]any{"amount": 1000})
		require.Equal(t, http.StatusOK, rec.Code)

		org := decode[organizationResponse](t, rec)
		require.Equal(t, uint64(1000), org.TotalBudget)
	})

	t.Run("set budget with a different identity is forbidden", func(t *testing.T) {
		ts := newTestServer(t)
		authority := uuid.New()

		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/v1/organizations", ts.token(t, authority), nil).Code)

		rec := ts.do(t, http.MethodPut, "/v1/organizations/"+authority.String()+"/budget", ts.token(t, uuid.New()), map[string]any{"amount": 1000})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("get missing organization is not found", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodGet, "/v1/organizations/"+uuid.NewString()+"/", ts.token(t, uuid.New()), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed organization id is a bad request", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodGet, "/v1/organizations/not-a-uuid/", ts.token(t, uuid.New()), nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDepartmentRoutes(t *testing.T) {
	setup := func(t *testing.T) (*testServer, uuid.UUID, string) {
		ts := newTestServer(t)
		authority := uuid.New()
		token := ts.token(t, authority)

		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/v1/organizations", token, nil).Code)
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/v1/organizations/"+authority.String()+"/budget", token, map[string]any{"amount": 1000}).Code)

		return ts, authority, token
	}

	t.Run("create and get department", func(t *testing.T) {
		ts, authority, token := setup(t)

		rec := ts.do(t, http.MethodPost, "/v1/organizations/"+authority.String()+"/departments", token,
			map[string]any{"name": "Engineering", "budget_allocation": 600})
		require.Equal(t, http.StatusCreated, rec.Code)

		dept := decode[departmentResponse](t, rec)
		require.Equal(t, "Engineering", dept.Name)
		require.Equal(t, uint64(600), dept.BudgetAllocation)
		require.Equal(t, uint64(0), dept.BudgetUsed)

		rec = ts.do(t, http.MethodGet, "/v1/organizations/"+authority.String()+"/departments/Engineering/", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("allocation above total budget is unprocessable", func(t *testing.T) {
		ts, authority, token := setup(t)

		rec := ts.do(t, http.MethodPost, "/v1/organizations/"+authority.String()+"/departments", token,
			map[string]any{"name": "Engineering", "budget_allocation": 1001})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("empty name is a bad request", func(t *testing.T) {
		ts, authority, token := setup(t)

		rec := ts.do(t, http.MethodPost, "/v1/organizations/"+authority.String()+"/departments", token,
			map[string]any{"name": "", "budget_allocation": 100})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list departments", func(t *testing.T) {
		ts, authority, token := setup(t)

		for _, name := range []string{"Engineering", "Sales"} {
			rec := ts.do(t, http.MethodPost, "/v1/organizations/"+authority.String()+"/departments", token,
				map[string]any{"name": name, "budget_allocation": 100})
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := ts.do(t, http.MethodGet, "/v1/organizations/"+authority.String()+"/departments", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		depts := decode[[]departmentResponse](t, rec)
		require.Len(t, depts, 2)
	})
}

func TestPaymentRoutes(t *testing.T) {
	setup := func(t *testing.T) (*testServer, uuid.UUID, string, string) {
		ts := newTestServer(t)
		authority := uuid.New()
		token := ts.token(t, authority)

		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/v1/organizations", token, nil).Code)
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/v1/organizations/"+authority.String()+"/budget", token, map[string]any{"amount": 1000}).Code)
		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/v1/organizations/"+authority.String()+"/departments", token,
			map[string]any{"name": "Engineering", "budget_allocation": 600}).Code)

		return ts, authority, token, "/v1/organizations/" + authority.String() + "/departments/Engineering"
	}

	schedule := func(ts *testServer, t *testing.T, base, token string, id, amount uint64, due time.Time) *httptest.ResponseRecorder {
		return ts.do(t, http.MethodPost, base+"/payments", token, map[string]any{
			"payment_id":     id,
			"amount":         amount,
			"recipient":      uuid.NewString(),
			"memo":           "invoice",
			"execution_date": due.Unix(),
		})
	}

	t.Run("schedule and execute a due payment", func(t *testing.T) {
		ts, _, token, base := setup(t)

		rec := schedule(ts, t, base, token, 1, 500, time.Now().Add(-time.Minute))
		require.Equal(t, http.StatusCreated, rec.Code)

		payment := decode[paymentResponse](t, rec)
		require.Equal(t, "scheduled", payment.Status)

		rec = ts.do(t, http.MethodPost, base+"/payments/1/execute", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		result := decode[executePaymentResponse](t, rec)
		require.Equal(t, "executed", result.Payment.Status)
		require.False(t, result.Notification.IsRead)
		require.Equal(t,
			fmt.Sprintf("Payment of 500 to %s was executed successfully", result.Payment.Recipient),
			result.Notification.Message)

		rec = ts.do(t, http.MethodGet, base+"/", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, uint64(500), decode[departmentResponse](t, rec).BudgetUsed)
	})

	t.Run("execute before the execution date is unprocessable", func(t *testing.T) {
		ts, _, token, base := setup(t)

		require.Equal(t, http.StatusCreated, schedule(ts, t, base, token, 1, 500, time.Now().Add(time.Hour)).Code)

		rec := ts.do(t, http.MethodPost, base+"/payments/1/execute", token, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("executing twice is unprocessable", func(t *testing.T) {
		ts, _, token, base := setup(t)

		require.Equal(t, http.StatusCreated, schedule(ts, t, base, token, 1, 500, time.Now().Add(-time.Minute)).Code)
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/payments/1/execute", token, nil).Code)

		rec := ts.do(t, http.MethodPost, base+"/payments/1/execute", token, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("payment above remaining allocation is unprocessable", func(t *testing.T) {
		ts, _, token, base := setup(t)

		require.Equal(t, http.StatusCreated, schedule(ts, t, base, token, 1, 500, time.Now().Add(-time.Minute)).Code)
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/payments/1/execute", token, nil).Code)

		rec := schedule(ts, t, base, token, 2, 200, time.Now())
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("duplicate payment id conflicts", func(t *testing.T) {
		ts, _, token, base := setup(t)

		require.Equal(t, http.StatusCreated, schedule(ts, t, base, token, 1, 100, time.Now()).Code)
		require.Equal(t, http.StatusConflict, schedule(ts, t, base, token, 1, 100, time.Now()).Code)
	})

	t.Run("zero amount is a bad request", func(t *testing.T) {
		ts, _, token, base := setup(t)

		rec := schedule(ts, t, base, token, 1, 0, time.Now())
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list payments", func(t *testing.T) {
		ts, _, token, base := setup(t)

		require.Equal(t, http.StatusCreated, schedule(ts, t, base, token, 1, 100, time.Now()).Code)
		require.Equal(t, http.StatusCreated, schedule(ts, t, base, token, 2, 100, time.Now()).Code)

		rec := ts.do(t, http.MethodGet, base+"/payments", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		payments := decode[[]paymentResponse](t, rec)
		require.Len(t, payments, 2)
		require.Equal(t, uint64(1), payments[0].PaymentID)
	})
}

func TestNotificationRoutes(t *testing.T) {
	setup := func(t *testing.T) (*testServer, uuid.UUID, string, string) {
		ts := newTestServer(t)
		authority := uuid.New()
		token := ts.token(t, authority)
		base := "/v1/organizations/" + authority.String() + "/departments/Engineering"

		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/v1/organizations", token, nil).Code)
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/v1/organizations/"+authority.String()+"/budget", token, map[string]any{"amount": 1000}).Code)
		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/v1/organizations/"+authority.String()+"/departments", token,
			map[string]any{"name": "Engineering", "budget_allocation": 600}).Code)
		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, base+"/payments", token, map[string]any{
			"payment_id":     1,
			"amount":         100,
			"recipient":      uuid.NewString(),
			"execution_date": time.Now().Add(-time.Minute).Unix(),
		}).Code)
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/payments/1/execute", token, nil).Code)

		return ts, authority, token, base
	}

	t.Run("mark notification read", func(t *testing.T) {
		ts, _, token, base := setup(t)

		rec := ts.do(t, http.MethodPost, base+"/payments/1/notification/read", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, decode[notificationResponse](t, rec).IsRead)

		// Marking again stays a success.
		rec = ts.do(t, http.MethodPost, base+"/payments/1/notification/read", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any authenticated identity may mark a notification read", func(t *testing.T) {
		ts, _, _, base := setup(t)

		rec := ts.do(t, http.MethodPost, base+"/payments/1/notification/read", ts.token(t, uuid.New()), nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("list notifications", func(t *testing.T) {
		ts, authority, token, _ := setup(t)

		rec := ts.do(t, http.MethodGet, "/v1/organizations/"+authority.String()+"/notifications", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decode[[]notificationResponse](t, rec), 1)
	})

	t.Run("missing notification is not found", func(t *testing.T) {
		ts, _, token, base := setup(t)

		rec := ts.do(t, http.MethodGet, base+"/payments/42/notification", token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
