package mysql

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
)

// sqlCustomer 對應資料庫的 customers 表
type sqlCustomer struct {
	ID          uuid.UUID `gorm:"column:customer_id;type:char(36);primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Email       string    `gorm:"size:255;uniqueIndex;not null"`
	Username    string    `gorm:"size:50;uniqueIndex;not null"`
	Password    string    `gorm:"size:255;not null"`
	HomeAddress string    `gorm:"size:255"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (*sqlCustomer) TableName() string {
	return "customers"
}

// sqlAccount 對應資料庫的 accounts 表
// Balance 使用 decimal(20,4)，由入帳引擎在列鎖之下維護
type sqlAccount struct {
	ID         uuid.UUID       `gorm:"column:account_id;type:char(36);primaryKey"`
	CustomerID uuid.UUID       `gorm:"column:customer_id;type:char(36);index;not null"`
	Type       string          `gorm:"size:20;not null"`
	Balance    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

// sqlTransaction 對應資料庫的 transactions 表
type sqlTransaction struct {
	ID        int64           `gorm:"column:transaction_id;primaryKey;autoIncrement"`
	AccountID uuid.UUID       `gorm:"column:account_id;type:char(36);index;not null"`
	Type      string          `gorm:"size:20;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index"`
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

// sqlBeneficiary 對應資料庫的 beneficiaries 表
type sqlBeneficiary struct {
	ID            uuid.UUID `gorm:"column:beneficiary_id;type:char(36);primaryKey"`
	CustomerID    uuid.UUID `gorm:"column:customer_id;type:char(36);index;not null"`
	Name          string    `gorm:"size:100;not null"`
	AccountNumber string    `gorm:"size:50;not null"`
	BankDetails   string    `gorm:"size:255"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (*sqlBeneficiary) TableName() string {
	return "beneficiaries"
}

func (c *sqlCustomer) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Username:     c.Username,
		PasswordHash: c.Password,
		HomeAddress:  c.HomeAddress,
		CreatedAt:    c.CreatedAt,
	}
}

func (a *sqlAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Type:       domain.AccountType(a.Type),
		Balance:    a.Balance,
		CreatedAt:  a.CreatedAt,
	}
}

func (t *sqlTransaction) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:        t.ID,
		AccountID: t.AccountID,
		Type:      domain.TransactionType(t.Type),
		Amount:    t.Amount,
		CreatedAt: t.CreatedAt,
	}
}

func (b *sqlBeneficiary) toDomain() *domain.Beneficiary {
	return &domain.Beneficiary{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		Name:          b.Name,
		AccountNumber: b.AccountNumber,
		BankDetails:   b.BankDetails,
		CreatedAt:     b.CreatedAt,
	}
}
