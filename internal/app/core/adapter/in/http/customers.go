package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
)

type signupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	HomeAddress string `json:"home_address"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string           `json:"token"`
	Customer customerResponse `json:"customer"`
}

type updateCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	HomeAddress string `json:"home_address"`
	Password    string `json:"password"`
}

// POST /customers/signup
func (s *APIServer) handleSignup(w http.ResponseWriter, r *http.Request) error {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequestf("invalid request body")
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return badRequestf("username, password and email are required")
	}

	customer, err := s.customers.Signup(r.Context(), usecase.SignupInput{
		Name:        req.Name,
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		HomeAddress: req.HomeAddress,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, apiResponse{
		Message: "Customer created",
		Data:    toCustomerResponse(customer),
	})
}

// POST /customers/login
func (s *APIServer) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequestf("invalid request body")
	}

	customer, err := s.customers.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	token, err := s.authMgr.GenerateToken(customer.ID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Login successful",
		Data: loginResponse{
			Token:    token,
			Customer: toCustomerResponse(customer),
		},
	})
}

// GET /customers
func (s *APIServer) handleListCustomers(w http.ResponseWriter, r *http.Request) error {
	customers, err := s.customers.ListCustomers(r.Context(), pageParams(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Customers retrieved",
		Data:    toCustomerResponses(customers),
	})
}

// GET /customers/{customerId}
func (s *APIServer) handleGetCustomer(w http.ResponseWriter, r *http.Request) error {
	customerID, err := customerIDVar(r)
	if err != nil {
		return err
	}
	customer, err := s.customers.GetCustomer(r.Context(), customerID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Customer retrieved",
		Data:    toCustomerResponse(customer),
	})
}

// PUT /customers/{customerId}
func (s *APIServer) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) error {
	customerID, err := customerIDVar(r)
	if err != nil {
		return err
	}
	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequestf("invalid request body")
	}

	customer, err := s.customers.UpdateCustomer(r.Context(), customerID, usecase.UpdateCustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		HomeAddress: req.HomeAddress,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Customer updated",
		Data:    toCustomerResponse(customer),
	})
}

// DELETE /customers/{customerId}
func (s *APIServer) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) error {
	customerID, err := customerIDVar(r)
	if err != nil {
		return err
	}
	if err := s.customers.DeleteCustomer(r.Context(), customerID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /customers/count
func (s *APIServer) handleCustomerCount(w http.ResponseWriter, r *http.Request) error {
	rng, err := dateRangeParams(r)
	if err != nil {
		return err
	}
	count, err := s.reporting.CountCustomers(r.Context(), rng)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Customers count retrieved",
		Data:    map[string]int64{"count": count},
	})
}

// GET /customers/analytics
func (s *APIServer) handleCustomerAnalytics(w http.ResponseWriter, r *http.Request) error {
	analytics, err := s.reporting.CustomerAnalytics(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Customer analytics retrieved",
		Data:    analytics,
	})
}

// GET /customers/{customerId}/balance
func (s *APIServer) handleCustomerBalance(w http.ResponseWriter, r *http.Request) error {
	customerID, err := customerIDVar(r)
	if err != nil {
		return err
	}
	// 先確認客戶存在，空戶和不存在的客戶才分得開
	if _, err := s.customers.GetCustomer(r.Context(), customerID); err != nil {
		return err
	}
	total, err := s.posting.SumCustomerBalances(r.Context(), customerID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Customer balance retrieved",
		Data:    map[string]decimal.Decimal{"balance": total},
	})
}
