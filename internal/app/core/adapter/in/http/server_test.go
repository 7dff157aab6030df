package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/chiaweilo/go-bank-ledger/internal/app/core/adapter/in/http"
	"github.com/chiaweilo/go-bank-ledger/internal/app/core/adapter/out/memory"
	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
	"github.com/chiaweilo/go-bank-ledger/pkg/auth"
)

type testServer struct {
	srv *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := memory.NewMemoryStore(nil)
	require.NoError(t, err)

	authMgr := auth.NewManager("test-secret", time.Hour)
	server := api.NewAPIServer(
		":0",
		authMgr,
		usecase.NewPostingUseCase(store),
		usecase.NewReportingUseCase(store),
		usecase.NewAccountUseCase(store),
		usecase.NewCustomerUseCase(store),
		usecase.NewBeneficiaryUseCase(store),
	)
	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)
	return &testServer{srv: srv}
}

// do 送出請求，body 以 JSON 編碼，token 非空時附上 Bearer
func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope map[string]json.RawMessage
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	}
	return resp, envelope
}

func unmarshalData[T any](t *testing.T, envelope map[string]json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(envelope["data"], &out))
	return out
}

type customerData struct {
	ID       string `json:"customer_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginData struct {
	Token    string       `json:"token"`
	Customer customerData `json:"customer"`
}

type accountData struct {
	ID      string `json:"account_id"`
	Type    string `json:"type"`
	Balance string `json:"balance"`
}

type transactionData struct {
	ID     int64  `json:"transaction_id"`
	Type   string `json:"type"`
	Amount string `json:"amount"`
}

// signupAndLogin 建立客戶並取得 token
func signupAndLogin(t *testing.T, s *testServer) (string, string) {
	t.Helper()
	resp, envelope := s.do(t, http.MethodPost, "/customers/signup", "", map[string]string{
		"name":     "Amy",
		"email":    "amy@example.com",
		"username": "amy",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	customer := unmarshalData[customerData](t, envelope)

	resp, envelope = s.do(t, http.MethodPost, "/customers/login", "", map[string]string{
		"username": "amy",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := unmarshalData[loginData](t, envelope)
	require.NotEmpty(t, login.Token)
	return login.Token, customer.ID
}

func createAccount(t *testing.T, s *testServer, token, customerID string) string {
	t.Helper()
	resp, envelope := s.do(t, http.MethodPost, "/customers/"+customerID+"/accounts", token, map[string]any{
		"type":    "checking",
		"balance": "0",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return unmarshalData[accountData](t, envelope).ID
}

func TestSignupLoginFlow(t *testing.T) {
	s := newTestServer(t)

	token, customerID := signupAndLogin(t, s)

	resp, envelope := s.do(t, http.MethodGet, "/customers/"+customerID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	customer := unmarshalData[customerData](t, envelope)
	assert.Equal(t, "amy", customer.Username)
	// 密碼雜湊不得出現在回應裡
	assert.NotContains(t, string(envelope["data"]), "password")

	// 重複的 username
	resp, _ = s.do(t, http.MethodPost, "/customers/signup", "", map[string]string{
		"name": "Amy2", "email": "amy2@example.com", "username": "amy", "password": "x12345",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// 錯誤密碼
	resp, _ = s.do(t, http.MethodPost, "/customers/login", "", map[string]string{
		"username": "amy", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/customers", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// 不同密鑰簽的 token
	other := auth.NewManager("other-secret", time.Hour)
	token, err := other.GenerateToken(uuid.New())
	require.NoError(t, err)
	resp, _ = s.do(t, http.MethodGet, "/customers", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTransactionEndpoints(t *testing.T) {
	s := newTestServer(t)
	token, customerID := signupAndLogin(t, s)
	accountID := createAccount(t, s, token, customerID)

	// 入帳
	resp, envelope := s.do(t, http.MethodPost, "/accounts/"+accountID+"/transactions", token, map[string]any{
		"type": "deposit", "amount": "100.5",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	deposit := unmarshalData[transactionData](t, envelope)
	assert.Equal(t, "deposit", deposit.Type)

	// 餘額不足 -> 422
	resp, _ = s.do(t, http.MethodPost, "/accounts/"+accountID+"/transactions", token, map[string]any{
		"type": "withdraw", "amount": "200",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// 非法類型 -> 400
	resp, _ = s.do(t, http.MethodPost, "/accounts/"+accountID+"/transactions", token, map[string]any{
		"type": "transfer", "amount": "10",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// 更新金額 連動餘額
	resp, envelope = s.do(t, http.MethodPut, fmt.Sprintf("/transactions/%d", deposit.ID), token, map[string]any{
		"amount": "80",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := unmarshalData[transactionData](t, envelope)
	assert.Equal(t, "80", updated.Amount)

	resp, envelope = s.do(t, http.MethodGet, "/accounts/"+accountID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	account := unmarshalData[accountData](t, envelope)
	assert.Equal(t, "80", account.Balance)

	// 刪除後交易消失 餘額歸零
	resp, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/transactions/%d", deposit.ID), token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, fmt.Sprintf("/transactions/%d", deposit.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, envelope = s.do(t, http.MethodGet, "/accounts/"+accountID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	account = unmarshalData[accountData](t, envelope)
	assert.Equal(t, "0", account.Balance)
}

func TestTransactionNotFoundAndBadID(t *testing.T) {
	s := newTestServer(t)
	token, _ := signupAndLogin(t, s)

	resp, _ := s.do(t, http.MethodGet, "/transactions/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPut, "/transactions/abc", token, map[string]any{"amount": "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/transactions/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCountAndAnalyticsEndpoints(t *testing.T) {
	s := newTestServer(t)
	token, customerID := signupAndLogin(t, s)
	accountID := createAccount(t, s, token, customerID)

	for _, amount := range []string{"10", "20"} {
		resp, _ := s.do(t, http.MethodPost, "/accounts/"+accountID+"/transactions", token, map[string]any{
			"type": "deposit", "amount": amount,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, envelope := s.do(t, http.MethodGet, "/transactions/count", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	count := unmarshalData[map[string]int64](t, envelope)
	assert.Equal(t, int64(2), count["count"])

	resp, envelope = s.do(t, http.MethodGet, "/transactions/analytics", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	analytics := unmarshalData[map[string]json.RawMessage](t, envelope)
	assert.Contains(t, analytics, "transactionVolumeByDay")
	assert.Contains(t, analytics, "transactionsByType")
	assert.Contains(t, analytics, "averageTransactionAmount")

	resp, envelope = s.do(t, http.MethodGet, "/accounts/count", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	count = unmarshalData[map[string]int64](t, envelope)
	assert.Equal(t, int64(1), count["count"])

	resp, envelope = s.do(t, http.MethodGet, "/customers/count", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	count = unmarshalData[map[string]int64](t, envelope)
	assert.Equal(t, int64(1), count["count"])

	resp, envelope = s.do(t, http.MethodGet, "/customers/analytics", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	customerAnalytics := unmarshalData[map[string]json.RawMessage](t, envelope)
	assert.Contains(t, customerAnalytics, "totalCount")
	assert.Contains(t, customerAnalytics, "newCustomersThisMonth")
	assert.Contains(t, customerAnalytics, "customersByMonth")
	var total int64
	require.NoError(t, json.Unmarshal(customerAnalytics["totalCount"], &total))
	assert.Equal(t, int64(1), total)

	// 非法日期 -> 400
	resp, _ = s.do(t, http.MethodGet, "/transactions/count?startDate=garbage", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, envelope = s.do(t, http.MethodGet, "/customers/"+customerID+"/balance", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	balance := unmarshalData[map[string]string](t, envelope)
	assert.Equal(t, "30", balance["balance"])
}

func TestBeneficiaryEndpoints(t *testing.T) {
	s := newTestServer(t)
	token, customerID := signupAndLogin(t, s)

	resp, envelope := s.do(t, http.MethodPost, "/customers/"+customerID+"/beneficiaries", token, map[string]string{
		"name": "Bob", "account_number": "123-456", "bank_details": "First Bank",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := unmarshalData[map[string]json.RawMessage](t, envelope)
	var beneficiaryID string
	require.NoError(t, json.Unmarshal(created["beneficiary_id"], &beneficiaryID))

	resp, _ = s.do(t, http.MethodPost, "/customers/"+customerID+"/beneficiaries", token, map[string]string{
		"name": "", "account_number": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/beneficiaries/"+beneficiaryID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/beneficiaries/"+beneficiaryID, token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/beneficiaries/"+beneficiaryID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAccountValidation(t *testing.T) {
	s := newTestServer(t)
	token, customerID := signupAndLogin(t, s)

	// 非法帳戶類型
	resp, _ := s.do(t, http.MethodPost, "/customers/"+customerID+"/accounts", token, map[string]any{
		"type": "bitcoin", "balance": "0",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// 負的初始餘額
	resp, _ = s.do(t, http.MethodPost, "/customers/"+customerID+"/accounts", token, map[string]any{
		"type": "savings", "balance": "-5",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// 不存在的客戶
	resp, _ = s.do(t, http.MethodPost, "/customers/00000000-0000-0000-0000-000000000001/accounts", token, map[string]any{
		"type": "savings", "balance": "0",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
