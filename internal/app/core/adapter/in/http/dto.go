package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
)

// 回應 DTO：客戶不回傳密碼雜湊，其餘照實輸出

type customerResponse struct {
	ID          string    `json:"customer_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	HomeAddress string    `json:"home_address"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCustomerResponse(c *domain.Customer) customerResponse {
	return customerResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Email:       c.Email,
		Username:    c.Username,
		HomeAddress: c.HomeAddress,
		CreatedAt:   c.CreatedAt,
	}
}

func toCustomerResponses(customers []*domain.Customer) []customerResponse {
	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out
}

type accountResponse struct {
	ID         string          `json:"account_id"`
	CustomerID string          `json:"customer_id"`
	Type       string          `json:"type"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:         a.ID.String(),
		CustomerID: a.CustomerID.String(),
		Type:       string(a.Type),
		Balance:    a.Balance,
		CreatedAt:  a.CreatedAt,
	}
}

func toAccountResponses(accounts []*domain.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}

type transactionResponse struct {
	ID        int64           `json:"transaction_id"`
	AccountID string          `json:"account_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:        t.ID,
		AccountID: t.AccountID.String(),
		Type:      string(t.Type),
		Amount:    t.Amount,
		CreatedAt: t.CreatedAt,
	}
}

func toTransactionResponses(transactions []*domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

type beneficiaryResponse struct {
	ID            string    `json:"beneficiary_id"`
	CustomerID    string    `json:"customer_id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number"`
	BankDetails   string    `json:"bank_details"`
	CreatedAt     time.Time `json:"created_at"`
}

func toBeneficiaryResponse(b *domain.Beneficiary) beneficiaryResponse {
	return beneficiaryResponse{
		ID:            b.ID.String(),
		CustomerID:    b.CustomerID.String(),
		Name:          b.Name,
		AccountNumber: b.AccountNumber,
		BankDetails:   b.BankDetails,
		CreatedAt:     b.CreatedAt,
	}
}

func toBeneficiaryResponses(beneficiaries []*domain.Beneficiary) []beneficiaryResponse {
	out := make([]beneficiaryResponse, 0, len(beneficiaries))
	for _, b := range beneficiaries {
		out = append(out, toBeneficiaryResponse(b))
	}
	return out
}
