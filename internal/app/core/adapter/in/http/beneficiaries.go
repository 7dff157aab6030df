package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type beneficiaryRequest struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankDetails   string `json:"bank_details"`
}

func beneficiaryIDVar(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["beneficiaryId"])
	if err != nil {
		return uuid.Nil, badRequestf("invalid beneficiary id")
	}
	return id, nil
}

// POST /customers/{customerId}/beneficiaries
func (s *APIServer) handleCreateBeneficiary(w http.ResponseWriter, r *http.Request) error {
	customerID, err := customerIDVar(r)
	if err != nil {
		return err
	}
	var req beneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequestf("invalid request body")
	}
	if req.Name == "" || req.AccountNumber == "" {
		return badRequestf("name and account_number are required")
	}

	beneficiary, err := s.beneficiaries.CreateBeneficiary(r.Context(), customerID, req.Name, req.AccountNumber, req.BankDetails)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, apiResponse{
		Message: "Beneficiary created",
		Data:    toBeneficiaryResponse(beneficiary),
	})
}

// GET /customers/{customerId}/beneficiaries
func (s *APIServer) handleListBeneficiaries(w http.ResponseWriter, r *http.Request) error {
	customerID, err := customerIDVar(r)
	if err != nil {
		return err
	}
	beneficiaries, err := s.beneficiaries.ListBeneficiaries(r.Context(), customerID, pageParams(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Beneficiaries retrieved",
		Data:    toBeneficiaryResponses(beneficiaries),
	})
}

// GET /beneficiaries/{beneficiaryId}
func (s *APIServer) handleGetBeneficiary(w http.ResponseWriter, r *http.Request) error {
	id, err := beneficiaryIDVar(r)
	if err != nil {
		return err
	}
	beneficiary, err := s.beneficiaries.GetBeneficiary(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Beneficiary retrieved",
		Data:    toBeneficiaryResponse(beneficiary),
	})
}

// PUT /beneficiaries/{beneficiaryId}
func (s *APIServer) handleUpdateBeneficiary(w http.ResponseWriter, r *http.Request) error {
	id, err := beneficiaryIDVar(r)
	if err != nil {
		return err
	}
	var req beneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequestf("invalid request body")
	}

	beneficiary, err := s.beneficiaries.UpdateBeneficiary(r.Context(), id, req.Name, req.AccountNumber, req.BankDetails)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Beneficiary updated",
		Data:    toBeneficiaryResponse(beneficiary),
	})
}

// DELETE /beneficiaries/{beneficiaryId}
func (s *APIServer) handleDeleteBeneficiary(w http.ResponseWriter, r *http.Request) error {
	id, err := beneficiaryIDVar(r)
	if err != nil {
		return err
	}
	if err := s.beneficiaries.DeleteBeneficiary(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /beneficiaries/count
func (s *APIServer) handleBeneficiaryCount(w http.ResponseWriter, r *http.Request) error {
	rng, err := dateRangeParams(r)
	if err != nil {
		return err
	}
	count, err := s.reporting.CountBeneficiaries(r.Context(), rng)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, apiResponse{
		Message: "Beneficiaries count retrieved",
		Data:    map[string]int64{"count": count},
	})
}
