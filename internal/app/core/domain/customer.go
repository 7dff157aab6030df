package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer 客戶，擁有帳戶與受款人
type Customer struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Username     string
	PasswordHash string
	HomeAddress  string
	CreatedAt    time.Time
}

// Beneficiary 受款人，單純的通訊錄項目，和帳務沒有一致性耦合
type Beneficiary struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	Name          string
	AccountNumber string
	BankDetails   string
	CreatedAt     time.Time
}
