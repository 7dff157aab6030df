package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
	"github.com/chiaweilo/go-bank-ledger/pkg/auth"
)

// APIServer REST 入站 adapter
type APIServer struct {
	addr          string
	authMgr       *auth.Manager
	posting       *usecase.PostingUseCase
	reporting     *usecase.ReportingUseCase
	accounts      *usecase.AccountUseCase
	customers     *usecase.CustomerUseCase
	beneficiaries *usecase.BeneficiaryUseCase

	server *http.Server
}

func NewAPIServer(
	addr string,
	authMgr *auth.Manager,
	posting *usecase.PostingUseCase,
	reporting *usecase.ReportingUseCase,
	accounts *usecase.AccountUseCase,
	customers *usecase.CustomerUseCase,
	beneficiaries *usecase.BeneficiaryUseCase,
) *APIServer {
	return &APIServer{
		addr:          addr,
		authMgr:       authMgr,
		posting:       posting,
		reporting:     reporting,
		accounts:      accounts,
		customers:     customers,
		beneficiaries: beneficiaries,
	}
}

// Router 組出完整路由表
func (s *APIServer) Router() *mux.Router {
	r := mux.NewRouter()

	// 公開路由
	r.HandleFunc("/customers/signup", makeHTTPHandleFunc(s.handleSignup)).Methods(http.MethodPost)
	r.HandleFunc("/customers/login", makeHTTPHandleFunc(s.handleLogin)).Methods(http.MethodPost)

	// 其餘路由都需要 JWT
	api := r.PathPrefix("/").Subrouter()
	api.Use(s.authenticate)

	api.HandleFunc("/customers", makeHTTPHandleFunc(s.handleListCustomers)).Methods(http.MethodGet)
	api.HandleFunc("/customers/count", makeHTTPHandleFunc(s.handleCustomerCount)).Methods(http.MethodGet)
	api.HandleFunc("/customers/analytics", makeHTTPHandleFunc(s.handleCustomerAnalytics)).Methods(http.MethodGet)
	api.HandleFunc("/customers/{customerId}", makeHTTPHandleFunc(s.handleGetCustomer)).Methods(http.MethodGet)
	api.HandleFunc("/customers/{customerId}", makeHTTPHandleFunc(s.handleUpdateCustomer)).Methods(http.MethodPut)
	api.HandleFunc("/customers/{customerId}", makeHTTPHandleFunc(s.handleDeleteCustomer)).Methods(http.MethodDelete)
	api.HandleFunc("/customers/{customerId}/balance", makeHTTPHandleFunc(s.handleCustomerBalance)).Methods(http.MethodGet)
	api.HandleFunc("/customers/{customerId}/accounts", makeHTTPHandleFunc(s.handleCreateAccount)).Methods(http.MethodPost)
	api.HandleFunc("/customers/{customerId}/accounts", makeHTTPHandleFunc(s.handleListAccounts)).Methods(http.MethodGet)
	api.HandleFunc("/customers/{customerId}/beneficiaries", makeHTTPHandleFunc(s.handleCreateBeneficiary)).Methods(http.MethodPost)
	api.HandleFunc("/customers/{customerId}/beneficiaries", makeHTTPHandleFunc(s.handleListBeneficiaries)).Methods(http.MethodGet)

	api.HandleFunc("/accounts/count", makeHTTPHandleFunc(s.handleAccountCount)).Methods(http.MethodGet)
	api.HandleFunc("/accounts/analytics", makeHTTPHandleFunc(s.handleAccountAnalytics)).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{accountId}", makeHTTPHandleFunc(s.handleGetAccount)).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{accountId}", makeHTTPHandleFunc(s.handleUpdateAccount)).Methods(http.MethodPut)
	api.HandleFunc("/accounts/{accountId}", makeHTTPHandleFunc(s.handleDeleteAccount)).Methods(http.MethodDelete)
	api.HandleFunc("/accounts/{accountId}/transactions", makeHTTPHandleFunc(s.handleCreateTransaction)).Methods(http.MethodPost)
	api.HandleFunc("/accounts/{accountId}/transactions", makeHTTPHandleFunc(s.handleListTransactions)).Methods(http.MethodGet)

	api.HandleFunc("/transactions/count", makeHTTPHandleFunc(s.handleTransactionCount)).Methods(http.MethodGet)
	api.HandleFunc("/transactions/analytics", makeHTTPHandleFunc(s.handleTransactionAnalytics)).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{transactionId}", makeHTTPHandleFunc(s.handleGetTransaction)).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{transactionId}", makeHTTPHandleFunc(s.handleUpdateTransaction)).Methods(http.MethodPut)
	api.HandleFunc("/transactions/{transactionId}", makeHTTPHandleFunc(s.handleDeleteTransaction)).Methods(http.MethodDelete)

	api.HandleFunc("/beneficiaries/count", makeHTTPHandleFunc(s.handleBeneficiaryCount)).Methods(http.MethodGet)
	api.HandleFunc("/beneficiaries/{beneficiaryId}", makeHTTPHandleFunc(s.handleGetBeneficiary)).Methods(http.MethodGet)
	api.HandleFunc("/beneficiaries/{beneficiaryId}", makeHTTPHandleFunc(s.handleUpdateBeneficiary)).Methods(http.MethodPut)
	api.HandleFunc("/beneficiaries/{beneficiaryId}", makeHTTPHandleFunc(s.handleDeleteBeneficiary)).Methods(http.MethodDelete)

	return r
}

// Run 啟動 HTTP server，直到 Shutdown 或錯誤
func (s *APIServer) Run() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown 優雅關閉
func (s *APIServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type apiFunc func(http.ResponseWriter, *http.Request) error

type apiError struct {
	Error string `json:"error"`
}

type apiResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, msg any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(msg)
}

// makeHTTPHandleFunc 把 apiFunc 轉成 http.HandlerFunc
// 錯誤統一在這裡轉成 HTTP 狀態碼
func makeHTTPHandleFunc(f apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			writeJSON(w, statusForError(err), apiError{Error: err.Error()})
		}
	}
}

// statusForError 網域錯誤對應 HTTP 狀態碼
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrBeneficiaryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAmountMustBePositive),
		errors.Is(err, domain.ErrInvalidTransactionType),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrNegativeBalance),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errBadRequest 包裝各種解析失敗
var errBadRequest = errors.New("bad request")

func badRequestf(msg string) error {
	return errors.Join(errBadRequest, errors.New(msg))
}

// pageParams 從 query string 取分頁參數，預設 page=1 pageSize=10
func pageParams(r *http.Request) usecase.Page {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}
	return usecase.Page{Page: page, PageSize: pageSize}
}

// dateRangeParams 解析 startDate / endDate，接受 RFC3339 或 2006-01-02
func dateRangeParams(r *http.Request) (*usecase.DateRange, error) {
	parse := func(raw string) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return &t, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, badRequestf("invalid date: " + raw)
		}
		return &t, nil
	}

	start, err := parse(r.URL.Query().Get("startDate"))
	if err != nil {
		return nil, err
	}
	end, err := parse(r.URL.Query().Get("endDate"))
	if err != nil {
		return nil, err
	}
	if start == nil && end == nil {
		return nil, nil
	}
	return &usecase.DateRange{Start: start, End: end}, nil
}
