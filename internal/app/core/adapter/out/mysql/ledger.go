package mysql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
	"github.com/chiaweilo/go-bank-ledger/pkg/mysql"
)

// MySQLLedger 以 MySQL 的事務與列鎖實作帳務儲存埠
type MySQLLedger struct {
	client *mysql.Client
}

func NewMySQLLedger(client *mysql.Client) *MySQLLedger {
	return &MySQLLedger{
		client: client,
	}
}

// WithinTx 開啟一個資料庫事務執行 fn
// fn 回傳錯誤時整個事務回滾，帳戶列與交易列不會留下部分效果
func (l *MySQLLedger) WithinTx(ctx context.Context, fn func(tx usecase.LedgerTx) error) error {
	return l.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerTx{tx: tx})
	})
}

// AccountExists 檢查帳戶是否存在 (入帳前驗證，不加鎖)
func (l *MySQLLedger) AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var count int64
	err := l.client.DB().WithContext(ctx).
		Model(&sqlAccount{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetAccountBalance 取得帳戶餘額
func (l *MySQLLedger) GetAccountBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	var account sqlAccount
	err := l.client.DB().WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// SumBalances 加總客戶所有帳戶的餘額
// 一般讀取一致性即可，允許相對並發寫入稍微落後
func (l *MySQLLedger) SumBalances(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := l.client.DB().WithContext(ctx).
		Model(&sqlAccount{}).
		Select("COALESCE(SUM(balance), 0) AS total").
		Where("customer_id = ?", customerID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// ledgerTx 把單一 gorm 事務包裝成 usecase.LedgerTx
type ledgerTx struct {
	tx *gorm.DB
}

// ApplyDelta 悲觀鎖：SELECT ... FOR UPDATE 鎖住帳戶列直到事務結束
// 先讀出鎖定的餘額再計算寫回，並發的入帳對同一帳戶在此序列化
func (t *ledgerTx) ApplyDelta(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var row sqlAccount
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", accountID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}

	// 非負不變量由 domain 判定
	account := row.toDomain()
	if err := account.ApplyDelta(delta); err != nil {
		return decimal.Zero, err
	}

	err = t.tx.WithContext(ctx).
		Model(&sqlAccount{}).
		Where("account_id = ?", accountID).
		Update("balance", account.Balance).Error
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// GetTransactionForUpdate 以鎖定讀取載入交易列
func (t *ledgerTx) GetTransactionForUpdate(ctx context.Context, id int64) (*domain.Transaction, error) {
	var row sqlTransaction
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("transaction_id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, tran *domain.Transaction) error {
	row := sqlTransaction{
		AccountID: tran.AccountID,
		Type:      string(tran.Type),
		Amount:    tran.Amount,
	}
	if err := t.tx.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	tran.ID = row.ID
	tran.CreatedAt = row.CreatedAt
	return nil
}

func (t *ledgerTx) UpdateTransaction(ctx context.Context, tran *domain.Transaction) error {
	return t.tx.WithContext(ctx).
		Model(&sqlTransaction{}).
		Where("transaction_id = ?", tran.ID).
		Updates(map[string]any{
			"type":   string(tran.Type),
			"amount": tran.Amount,
		}).Error
}

func (t *ledgerTx) DeleteTransaction(ctx context.Context, id int64) error {
	res := t.tx.WithContext(ctx).
		Where("transaction_id = ?", id).
		Delete(&sqlTransaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

var _ usecase.Ledger = (*MySQLLedger)(nil)
var _ usecase.LedgerTx = (*ledgerTx)(nil)
