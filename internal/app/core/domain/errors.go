package domain

import "errors"

var (
	// ErrAmountMustBePositive 金額必須為正數
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrInvalidTransactionType 交易類型只能是 deposit 或 withdraw
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidAccountType 帳戶類型只能是 savings 或 checking
	ErrInvalidAccountType = errors.New("invalid account type")

	// ErrNegativeBalance 餘額不可為負
	ErrNegativeBalance = errors.New("balance cannot be negative")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound 找不到交易
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrCustomerNotFound 找不到客戶
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrBeneficiaryNotFound 找不到受款人
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")

	// ErrUsernameTaken 使用者名稱已被註冊
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials 帳號或密碼錯誤
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrWALWriteFailed 寫入 WAL 失敗
	ErrWALWriteFailed = errors.New("wal write failed")
)
