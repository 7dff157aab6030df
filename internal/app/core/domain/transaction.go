package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType 交易類型
type TransactionType string

const (
	// 存款
	TransactionTypeDeposit TransactionType = "deposit"
	// 提款
	TransactionTypeWithdraw TransactionType = "withdraw"
)

// ParseTransactionType 將字串轉為交易類型，未知的值一律拒絕
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeDeposit:
		return TransactionTypeDeposit, nil
	case TransactionTypeWithdraw:
		return TransactionTypeWithdraw, nil
	default:
		return "", ErrInvalidTransactionType
	}
}

// Transaction 一筆已入帳的交易
// 交易存在即代表它對帳戶餘額的效果已被套用過恰好一次
type Transaction struct {
	// ID: 流水號 (自動遞增)
	ID int64
	// AccountID: 所屬帳戶
	AccountID uuid.UUID
	// Type: deposit / withdraw
	Type TransactionType
	// Amount: 金額，恆為正數；方向由 Type 決定
	Amount decimal.Decimal
	// CreatedAt: 入帳時間
	CreatedAt time.Time
}

// SignedDelta 依交易類型回傳帶正負號的餘額差額 (存款為正 提款為負)
func SignedDelta(typ TransactionType, amount decimal.Decimal) decimal.Decimal {
	if typ == TransactionTypeWithdraw {
		return amount.Neg()
	}
	return amount
}

// SignedDelta 回傳這筆交易對帳戶餘額的效果
func (t *Transaction) SignedDelta() decimal.Decimal {
	return SignedDelta(t.Type, t.Amount)
}

// ValidatePosting 入帳前的業務規則檢查，不碰儲存層
func ValidatePosting(typ TransactionType, amount decimal.Decimal) error {
	if typ != TransactionTypeDeposit && typ != TransactionTypeWithdraw {
		return ErrInvalidTransactionType
	}
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	return nil
}
