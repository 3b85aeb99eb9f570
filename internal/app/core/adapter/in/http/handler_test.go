package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-remittance/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
	"github.com/JoeShih716/go-remittance/pkg/metrics"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := memory.NewStore(nil)
	require.NoError(t, err)
	return newRouterWithRepo(store)
}

func newRouterWithRepo(repo usecase.Repository) http.Handler {
	clock := usecase.FixedClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	services := usecase.NewServices(repo, domain.NewPercentFeePolicy(domain.DefaultFeePercent), clock)
	return NewHandler(services, metrics.NewCollector(), zap.NewNop()).Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v))
	return v
}

func TestHandler_AccountLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/accounts", `{"accountNo":"A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[createAccountResponse](t, rec)
	assert.Equal(t, "A", created.AccountNo)
	assert.NotZero(t, created.AccountID)

	rec = do(t, h, http.MethodPost, "/accounts/A/deposit", `{"amount":5000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5000), decodeBody[balanceResponse](t, rec).Balance)

	rec = do(t, h, http.MethodPost, "/accounts/A/withdraw", `{"amount":2000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3000), decodeBody[balanceResponse](t, rec).Balance)

	rec = do(t, h, http.MethodGet, "/accounts/A/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	account := decodeBody[accountResponse](t, rec)
	assert.Equal(t, int64(3000), account.Balance)
	assert.Equal(t, "ACTIVE", account.Status)

	rec = do(t, h, http.MethodDelete, "/accounts/A", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPost, "/accounts/A/deposit", `{"amount":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ACCOUNT_INACTIVE", decodeBody[errorResponse](t, rec).Code)
}

func TestHandler_Remit(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodPost, "/accounts", `{"accountNo":"A"}`)
	do(t, h, http.MethodPost, "/accounts", `{"accountNo":"B"}`)
	do(t, h, http.MethodPost, "/accounts/A/deposit", `{"amount":200000}`)

	rec := do(t, h, http.MethodPost, "/remittances", `{"fromAccountNo":"A","toAccountNo":"B","amount":100000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[remitResponse](t, rec)
	assert.Equal(t, int64(1000), result.Fee)
	assert.Equal(t, int64(99000), result.FromBalance)
	assert.Equal(t, int64(100000), result.ToBalance)

	rec = do(t, h, http.MethodGet, "/accounts/A/transactions?size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeBody[[]ledgerEntryResponse](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, "FEE", entries[0].Type)
	assert.Equal(t, "TRANSFER_OUT", entries[1].Type)
	assert.Equal(t, entries[0].RefID, entries[1].RefID)
	require.NotNil(t, entries[1].CounterpartyAccountID)
}

func TestHandler_Errors(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodPost, "/accounts", `{"accountNo":"A"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"not found", http.MethodGet, "/accounts/missing/balance", "", http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
		{"duplicate", http.MethodPost, "/accounts", `{"accountNo":"A"}`, http.StatusBadRequest, "DUPLICATE_ACCOUNT_NO"},
		{"empty account no", http.MethodPost, "/accounts", `{"accountNo":" "}`, http.StatusBadRequest, codeValidationError},
		{"invalid json", http.MethodPost, "/accounts/A/deposit", `{"amount":`, http.StatusBadRequest, codeInvalidJSON},
		{"invalid amount", http.MethodPost, "/accounts/A/deposit", `{"amount":0}`, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"insufficient", http.MethodPost, "/accounts/A/withdraw", `{"amount":10}`, http.StatusBadRequest, "INSUFFICIENT_BALANCE"},
		{"same account", http.MethodPost, "/remittances", `{"fromAccountNo":"A","toAccountNo":"A","amount":10}`, http.StatusBadRequest, "SAME_ACCOUNT_TRANSFER_NOT_ALLOWED"},
		{"missing counterparty", http.MethodPost, "/remittances", `{"fromAccountNo":"A","amount":10}`, http.StatusBadRequest, codeValidationError},
		{"bad size", http.MethodGet, "/accounts/A/transactions?size=x", "", http.StatusBadRequest, codeValidationError},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, codeRouteNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeBody[errorResponse](t, rec).Code)
		})
	}
}

type failingRepo struct{}

func (failingRepo) Transact(context.Context, func(tx usecase.Tx) error) error {
	return errors.New("database is down")
}

func TestHandler_InternalError(t *testing.T) {
	h := newRouterWithRepo(failingRepo{})

	rec := do(t, h, http.MethodGet, "/accounts/A/balance", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, codeInternalError, body.Code)
	assert.NotContains(t, body.Message, "database")
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodGet, "/accounts/missing/balance", "")

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `operation="GET /accounts/{accountNo}/balance",result="ACCOUNT_NOT_FOUND"`)
}
