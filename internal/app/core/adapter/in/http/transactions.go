package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
)

type createTransactionRequest struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

type updateTransactionRequest struct {
	Type   *string          `json:"type"`
	Amount *decimal.Decimal `json:"amount"`
}

func transactionIDVar(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["transactionId"], 10, 64)
	if err != nil {
		return 0, badRequestf("invalid transaction id")
	}
	return id, nil
}

func accountIDVar(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["accountId"])
	if err != nil {
		return uuid.Nil, badRequestf("invalid account id")
	}
	return id, nil
}

// POST /accounts/{accountId}/transactions
func (s *APIServer) handleCreateTransaction(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDVar(r)
	if err != nil {
		return err
	}
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequestf("invalid request body")
	}
	typ, err := domain.ParseTransactionType(req.Type)
	if err != nil {
		return err
	}

	tran, err := s.posting.CreateTransaction(r.Context(), accountID, typ, req.Amount)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, apiResponse{
		Message: "Transaction created",
		Data:    toTransactionResponse(tran),
	})
}

// PUT /transactions/{transactionId}
func (s *APIServer) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) error {
	id, err := transactionIDVar(r)
	if err != nil {
		return err
	}
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequestf("invalid request body")
	}

	var typ *domain.TransactionType
	if req.Type != nil {
		parsed, err := domain.ParseTransactionType(*req.Type)
		if err != nil {
			return err
		}
		typ = &parsed
	}

	tran, err := s.posting.UpdateTransaction(r.Context(), id, typ, req.Amount)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Transaction updated",
		Data:    toTransactionResponse(tran),
	})
}

// DELETE /transactions/{transactionId}
func (s *APIServer) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) error {
	id, err := transactionIDVar(r)
	if err != nil {
		return err
	}
	if err := s.posting.DeleteTransaction(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /transactions/{transactionId}
func (s *APIServer) handleGetTransaction(w http.ResponseWriter, r *http.Request) error {
	id, err := transactionIDVar(r)
	if err != nil {
		return err
	}
	tran, err := s.accounts.GetTransaction(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Transaction retrieved",
		Data:    toTransactionResponse(tran),
	})
}

// GET /accounts/{accountId}/transactions
func (s *APIServer) handleListTransactions(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDVar(r)
	if err != nil {
		return err
	}
	transactions, err := s.accounts.ListTransactions(r.Context(), accountID, pageParams(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Transactions retrieved",
		Data:    toTransactionResponses(transactions),
	})
}

// GET /transactions/count
func (s *APIServer) handleTransactionCount(w http.ResponseWriter, r *http.Request) error {
	rng, err := dateRangeParams(r)
	if err != nil {
		return err
	}
	count, err := s.reporting.CountTransactions(r.Context(), rng)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Transactions count retrieved",
		Data:    map[string]int64{"count": count},
	})
}

// GET /transactions/analytics
func (s *APIServer) handleTransactionAnalytics(w http.ResponseWriter, r *http.Request) error {
	analytics, err := s.reporting.TransactionAnalytics(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Transaction analytics retrieved",
		Data:    analytics,
	})
}
