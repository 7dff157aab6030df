package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
)

type createAccountRequest struct {
	Type    string          `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

type updateAccountRequest struct {
	Type    *string          `json:"type"`
	Balance *decimal.Decimal `json:"balance"`
}

func customerIDVar(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["customerId"])
	if err != nil {
		return uuid.Nil, badRequestf("invalid customer id")
	}
	return id, nil
}

// POST /customers/{customerId}/accounts
func (s *APIServer) handleCreateAccount(w http.ResponseWriter, r *http.Request) error {
	customerID, err := customerIDVar(r)
	if err != nil {
		return err
	}
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequestf("invalid request body")
	}

	account, err := s.accounts.CreateAccount(r.Context(), customerID, domain.AccountType(req.Type), req.Balance)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, apiResponse{
		Message: "Account created",
		Data:    toAccountResponse(account),
	})
}

// GET /customers/{customerId}/accounts
func (s *APIServer) handleListAccounts(w http.ResponseWriter, r *http.Request) error {
	customerID, err := customerIDVar(r)
	if err != nil {
		return err
	}
	accounts, err := s.accounts.ListAccounts(r.Context(), customerID, pageParams(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Accounts retrieved",
		Data:    toAccountResponses(accounts),
	})
}

// GET /accounts/{accountId}
func (s *APIServer) handleGetAccount(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDVar(r)
	if err != nil {
		return err
	}
	account, err := s.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Account retrieved",
		Data:    toAccountResponse(account),
	})
}

// PUT /accounts/{accountId}
func (s *APIServer) handleUpdateAccount(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDVar(r)
	if err != nil {
		return err
	}
	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequestf("invalid request body")
	}

	var typ *domain.AccountType
	if req.Type != nil {
		parsed, err := domain.ParseAccountType(*req.Type)
		if err != nil {
			return err
		}
		typ = &parsed
	}

	account, err := s.accounts.UpdateAccount(r.Context(), accountID, typ, req.Balance)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Account updated",
		Data:    toAccountResponse(account),
	})
}

// DELETE /accounts/{accountId}
func (s *APIServer) handleDeleteAccount(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDVar(r)
	if err != nil {
		return err
	}
	if err := s.accounts.DeleteAccount(r.Context(), accountID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /accounts/count
func (s *APIServer) handleAccountCount(w http.ResponseWriter, r *http.Request) error {
	rng, err := dateRangeParams(r)
	if err != nil {
		return err
	}
	count, err := s.reporting.CountAccounts(r.Context(), rng)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Accounts count retrieved",
		Data:    map[string]int64{"count": count},
	})
}

// GET /accounts/analytics
func (s *APIServer) handleAccountAnalytics(w http.ResponseWriter, r *http.Request) error {
	analytics, err := s.reporting.AccountAnalytics(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Account analytics retrieved",
		Data:    analytics,
	})
}
