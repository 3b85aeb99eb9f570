package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
	"github.com/JoeShih716/go-remittance/pkg/metrics"
)

const (
	codeValidationError = "VALIDATION_ERROR"
	codeInvalidJSON     = "INVALID_JSON"
	codeInternalError   = "INTERNAL_ERROR"
	codeRouteNotFound   = "NOT_FOUND"
)

// Handler REST API
type Handler struct {
	services usecase.Services
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewHandler(services usecase.Services, collector *metrics.Collector, log *zap.Logger) *Handler {
	return &Handler{
		services: services,
		metrics:  collector,
		log:      log,
	}
}

// Router 建立路由，collector 不為 nil 時掛上 /metrics
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, codeRouteNotFound, "route not found")
	})

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.NewRoute().Subrouter()
	api.Use(h.observe)
	api.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	api.HandleFunc("/accounts/{accountNo}", h.DeleteAccount).Methods(http.MethodDelete)
	api.HandleFunc("/accounts/{accountNo}/balance", h.GetBalance).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{accountNo}/deposit", h.Deposit).Methods(http.MethodPost)
	api.HandleFunc("/accounts/{accountNo}/withdraw", h.Withdraw).Methods(http.MethodPost)
	api.HandleFunc("/accounts/{accountNo}/transactions", h.ListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/remittances", h.Remit).Methods(http.MethodPost)
	return r
}

// CreateAccount POST /accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !decode(w, r, &req) {
		return
	}
	req.AccountNo = strings.TrimSpace(req.AccountNo)
	if req.AccountNo == "" {
		respondError(w, http.StatusBadRequest, codeValidationError, "accountNo is required")
		return
	}

	result, err := h.services.Accounts.Create(r.Context(), req.AccountNo)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createAccountResponse{AccountID: result.AccountID, AccountNo: result.AccountNo})
}

// DeleteAccount DELETE /accounts/{accountNo}
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Accounts.Delete(r.Context(), mux.Vars(r)["accountNo"]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBalance GET /accounts/{accountNo}/balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	result, err := h.services.Accounts.Get(r.Context(), mux.Vars(r)["accountNo"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(result))
}

// Deposit POST /accounts/{accountNo}/deposit
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.services.Money.Deposit(r.Context(), mux.Vars(r)["accountNo"], req.Amount)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBalanceResponse(result))
}

// Withdraw POST /accounts/{accountNo}/withdraw
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.services.Money.Withdraw(r.Context(), mux.Vars(r)["accountNo"], req.Amount)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBalanceResponse(result))
}

// Remit POST /remittances
func (h *Handler) Remit(w http.ResponseWriter, r *http.Request) {
	var req remitRequest
	if !decode(w, r, &req) {
		return
	}
	if req.FromAccountNo == "" || req.ToAccountNo == "" {
		respondError(w, http.StatusBadRequest, codeValidationError, "fromAccountNo and toAccountNo are required")
		return
	}

	result, err := h.services.Remittance.Remit(r.Context(), req.FromAccountNo, req.ToAccountNo, req.Amount)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toRemitResponse(result))
}

// ListTransactions GET /accounts/{accountNo}/transactions?size=
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	size := 0
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		parsed, err := strconv.Atoi(sizeStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, codeValidationError, "size must be an integer")
			return
		}
		size = parsed
	}

	entries, err := h.services.Transaction.Latest(r.Context(), mux.Vars(r)["accountNo"], size)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toLedgerEntryResponses(entries))
}

// HealthCheck GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// observe 記錄每個 API 的結果與耗時，operation 為路由樣板
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		operation := r.Method + " " + r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				operation = r.Method + " " + tpl
			}
		}
		result := metrics.ResultOK
		if rec.code != "" {
			result = rec.code
		}
		h.metrics.Observe(operation, result, time.Since(start))
	})
}

// respondServiceError 領域錯誤 -> 4xx，其餘 -> 500 並記錄
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		if domainErr.Code == domain.CodeAccountNotFound {
			status = http.StatusNotFound
		}
		respondError(w, status, string(domainErr.Code), domainErr.Message)
		return
	}

	h.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, codeInternalError, "internal server error")
}

// decode 解析 JSON body，失敗時直接回應 INVALID_JSON
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidJSON, "invalid request payload")
		return false
	}
	return true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.code = code
	}
	respondJSON(w, status, errorResponse{Code: code, Message: message})
}

// statusRecorder 記下回應的錯誤碼給 metrics 使用
type statusRecorder struct {
	http.ResponseWriter
	status int
	code   string
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
