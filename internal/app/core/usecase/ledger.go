package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
)

// LedgerTx 是單一原子工作單元內可用的操作集合
// 所有操作共用同一個 commit/abort 決定，任何錯誤都會使整個工作單元回滾
type LedgerTx interface {
	// ApplyDelta 在帳戶列的寫入鎖之下讀出餘額、加上帶號差額後寫回
	// 結果為負時回傳 ErrInsufficientFunds；鎖持有到工作單元結束
	ApplyDelta(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
	// GetTransactionForUpdate 以鎖定讀取載入交易列
	// 同一筆交易的並發 update/delete 會在這裡序列化
	GetTransactionForUpdate(ctx context.Context, id int64) (*domain.Transaction, error)
	InsertTransaction(ctx context.Context, tran *domain.Transaction) error
	UpdateTransaction(ctx context.Context, tran *domain.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
}

// Ledger 是帳務儲存埠，擁有餘額一致性不變量
type Ledger interface {
	// WithinTx 開啟一個原子工作單元執行 fn
	// fn 回傳錯誤則整個單元放棄，不留下任何部分效果
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error
	// AccountExists 入帳前的帳戶存在性檢查
	AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error)
	// GetAccountBalance 取得帳戶餘額
	GetAccountBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
	// SumBalances 加總客戶所有帳戶的餘額，只供報表使用，容忍輕微落後
	SumBalances(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
}

// Page 分頁參數
// PageSize <= 0 表示不分頁，回傳全部；兩個儲存後端遵守同一契約
type Page struct {
	Page     int
	PageSize int
}

// Offset 回傳 SQL OFFSET 值
func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// DateRange 起訖皆可省略的時間區間
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// TypeCount 分組計數
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// DayVolume 單日交易量
type DayVolume struct {
	Day    time.Time       `json:"day"`
	Count  int64           `json:"count"`
	Volume decimal.Decimal `json:"volume"`
}

// MonthCount 單月帳戶成長
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// Reporting 是唯讀報表埠，永遠不參與寫入路徑的工作單元
type Reporting interface {
	CountTransactions(ctx context.Context, rng *DateRange) (int64, error)
	TransactionTypeDistribution(ctx context.Context) ([]TypeCount, error)
	AverageTransactionAmount(ctx context.Context) (decimal.Decimal, error)
	// TransactionVolumeByDay 回溯 days 天內每日的筆數與總額，由新到舊
	TransactionVolumeByDay(ctx context.Context, days int) ([]DayVolume, error)
	AccountTypeDistribution(ctx context.Context) ([]TypeCount, error)
	AccountGrowthByMonth(ctx context.Context) ([]MonthCount, error)
	CustomersByMonth(ctx context.Context) ([]MonthCount, error)
	CountAccounts(ctx context.Context, rng *DateRange) (int64, error)
	CountCustomers(ctx context.Context, rng *DateRange) (int64, error)
	CountBeneficiaries(ctx context.Context, rng *DateRange) (int64, error)
}

// Store 是 CRUD 儲存埠 (客戶/帳戶/受款人/交易讀取)
type Store interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetCustomerByUsername(ctx context.Context, username string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, page Page) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context, customerID uuid.UUID, page Page) ([]*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	CreateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error
	GetBeneficiary(ctx context.Context, id uuid.UUID) (*domain.Beneficiary, error)
	ListBeneficiaries(ctx context.Context, customerID uuid.UUID, page Page) ([]*domain.Beneficiary, error)
	UpdateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error
	DeleteBeneficiary(ctx context.Context, id uuid.UUID) error

	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID, page Page) ([]*domain.Transaction, error)
}
