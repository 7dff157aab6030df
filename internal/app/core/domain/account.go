package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType 帳戶類型
type AccountType string

const (
	AccountTypeSavings  AccountType = "savings"
	AccountTypeChecking AccountType = "checking"
)

// ParseAccountType 將字串轉為帳戶類型
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountTypeSavings:
		return AccountTypeSavings, nil
	case AccountTypeChecking:
		return AccountTypeChecking, nil
	default:
		return "", ErrInvalidAccountType
	}
}

// Account 帳戶
// Balance 只能透過交易入帳引擎變動，任何時刻都等於
// 帳戶建立以來所有已提交交易效果的總和，且不為負
type Account struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Type       AccountType
	Balance    decimal.Decimal
	CreatedAt  time.Time
}

// ApplyDelta 將帶號差額套用到餘額；結果為負時拒絕且不改變餘額
func (a *Account) ApplyDelta(delta decimal.Decimal) error {
	next := a.Balance.Add(delta)
	if next.IsNegative() {
		return ErrInsufficientFunds
	}
	a.Balance = next
	return nil
}
