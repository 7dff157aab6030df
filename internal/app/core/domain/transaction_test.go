package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TransactionType
		wantErr error
	}{
		{name: "deposit", input: "deposit", want: TransactionTypeDeposit},
		{name: "withdraw", input: "withdraw", want: TransactionTypeWithdraw},
		{name: "empty", input: "", wantErr: ErrInvalidTransactionType},
		{name: "unknown", input: "transfer", wantErr: ErrInvalidTransactionType},
		{name: "case sensitive", input: "Deposit", wantErr: ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTransactionType(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePosting(t *testing.T) {
	tests := []struct {
		name    string
		typ     TransactionType
		amount  string
		wantErr error
	}{
		{name: "valid deposit", typ: TransactionTypeDeposit, amount: "100"},
		{name: "valid withdraw", typ: TransactionTypeWithdraw, amount: "0.0001"},
		{name: "zero amount", typ: TransactionTypeDeposit, amount: "0", wantErr: ErrAmountMustBePositive},
		{name: "negative amount", typ: TransactionTypeWithdraw, amount: "-5", wantErr: ErrAmountMustBePositive},
		{name: "bad type", typ: TransactionType("transfer"), amount: "100", wantErr: ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePosting(tt.typ, decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSignedDelta(t *testing.T) {
	amount := decimal.RequireFromString("42.50")
	assert.True(t, SignedDelta(TransactionTypeDeposit, amount).Equal(amount))
	assert.True(t, SignedDelta(TransactionTypeWithdraw, amount).Equal(amount.Neg()))
}

func TestAccountApplyDelta(t *testing.T) {
	account := &Account{Balance: decimal.RequireFromString("100")}

	require.NoError(t, account.ApplyDelta(decimal.RequireFromString("-30")))
	assert.Equal(t, "70", account.Balance.String())

	// 超出餘額 拒絕且餘額不變
	err := account.ApplyDelta(decimal.RequireFromString("-70.0001"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "70", account.Balance.String())

	// 剛好扣到零 允許
	require.NoError(t, account.ApplyDelta(decimal.RequireFromString("-70")))
	assert.True(t, account.Balance.IsZero())
}
