package memory_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/adapter/out/memory"
	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
	"github.com/chiaweilo/go-bank-ledger/pkg/wal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedAccount(t *testing.T, store *memory.MemoryStore, balance string) uuid.UUID {
	t.Helper()
	account := &domain.Account{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Type:       domain.AccountTypeSavings,
		Balance:    dec(balance),
	}
	require.NoError(t, store.CreateAccount(context.Background(), account))
	return account.ID
}

func post(t *testing.T, store *memory.MemoryStore, accountID uuid.UUID, typ domain.TransactionType, amount string) *domain.Transaction {
	t.Helper()
	tran := &domain.Transaction{AccountID: accountID, Type: typ, Amount: dec(amount)}
	err := store.WithinTx(context.Background(), func(tx usecase.LedgerTx) error {
		if _, err := tx.ApplyDelta(context.Background(), accountID, domain.SignedDelta(typ, dec(amount))); err != nil {
			return err
		}
		return tx.InsertTransaction(context.Background(), tran)
	})
	require.NoError(t, err)
	return tran
}

func TestUnitOfWorkDiscardOnError(t *testing.T) {
	store, err := memory.NewMemoryStore(nil)
	require.NoError(t, err)
	accountID := seedAccount(t, store, "100")
	ctx := context.Background()

	boom := errors.New("fn failed")
	err = store.WithinTx(ctx, func(tx usecase.LedgerTx) error {
		_, err := tx.ApplyDelta(ctx, accountID, dec("-40"))
		require.NoError(t, err)
		tran := &domain.Transaction{AccountID: accountID, Type: domain.TransactionTypeWithdraw, Amount: dec("40")}
		require.NoError(t, tx.InsertTransaction(ctx, tran))
		return boom
	})
	require.ErrorIs(t, err, boom)

	// 暫存區丟棄 狀態完全不變
	balance, err := store.GetAccountBalance(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, "100", balance.String())
	transactions, err := store.ListTransactions(ctx, accountID, usecase.Page{})
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestStagedBalanceVisibleWithinUnit(t *testing.T) {
	store, err := memory.NewMemoryStore(nil)
	require.NoError(t, err)
	accountID := seedAccount(t, store, "100")
	ctx := context.Background()

	// 同一單元內第二次 ApplyDelta 要看到第一次的暫存結果
	err = store.WithinTx(ctx, func(tx usecase.LedgerTx) error {
		next, err := tx.ApplyDelta(ctx, accountID, dec("-60"))
		require.NoError(t, err)
		require.Equal(t, "40", next.String())

		_, err = tx.ApplyDelta(ctx, accountID, dec("-50"))
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	balance, err := store.GetAccountBalance(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, "100", balance.String())
}

func TestJournalRecovery(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wal.log")

	journal, err := wal.Open(path)
	require.NoError(t, err)
	store, err := memory.NewMemoryStore(journal)
	require.NoError(t, err)

	customer := &domain.Customer{ID: uuid.New(), Name: "Amy", Email: "amy@example.com", Username: "amy"}
	require.NoError(t, store.CreateCustomer(ctx, customer))
	account := &domain.Account{ID: uuid.New(), CustomerID: customer.ID, Type: domain.AccountTypeChecking, Balance: decimal.Zero}
	require.NoError(t, store.CreateAccount(ctx, account))
	beneficiary := &domain.Beneficiary{ID: uuid.New(), CustomerID: customer.ID, Name: "Bob", AccountNumber: "123-456"}
	require.NoError(t, store.CreateBeneficiary(ctx, beneficiary))

	deposit := post(t, store, account.ID, domain.TransactionTypeDeposit, "120.5")
	withdrawal := post(t, store, account.ID, domain.TransactionTypeWithdraw, "20.5")
	require.NoError(t, journal.Close())

	// 重開日誌 重放後狀態必須一致
	journal, err = wal.Open(path)
	require.NoError(t, err)
	defer journal.Close()
	restored, err := memory.NewMemoryStore(journal)
	require.NoError(t, err)

	gotCustomer, err := restored.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "amy", gotCustomer.Username)

	_, err = restored.GetBeneficiary(ctx, beneficiary.ID)
	require.NoError(t, err)

	balance, err := restored.GetAccountBalance(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", balance.String())

	gotDeposit, err := restored.GetTransaction(ctx, deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeDeposit, gotDeposit.Type)
	assert.True(t, gotDeposit.Amount.Equal(dec("120.5")))

	// 流水號接續 不能和重放回來的交易撞號
	next := post(t, restored, account.ID, domain.TransactionTypeDeposit, "1")
	assert.Greater(t, next.ID, withdrawal.ID)
}

func TestJournalRecoveryAfterDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wal.log")

	journal, err := wal.Open(path)
	require.NoError(t, err)
	store, err := memory.NewMemoryStore(journal)
	require.NoError(t, err)

	accountID := seedAccount(t, store, "0")
	deposit := post(t, store, accountID, domain.TransactionTypeDeposit, "50")

	err = store.WithinTx(ctx, func(tx usecase.LedgerTx) error {
		if _, err := tx.ApplyDelta(ctx, accountID, dec("-50")); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, deposit.ID)
	})
	require.NoError(t, err)
	require.NoError(t, journal.Close())

	journal, err = wal.Open(path)
	require.NoError(t, err)
	defer journal.Close()
	restored, err := memory.NewMemoryStore(journal)
	require.NoError(t, err)

	_, err = restored.GetTransaction(ctx, deposit.ID)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
	balance, err := restored.GetAccountBalance(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

// 日誌寫入失敗時整個單元必須消失，不能只套用一半
func TestJournalFailureLeavesNoPartialState(t *testing.T) {
	ctx := context.Background()
	journal, err := wal.Open(filepath.Join(t.TempDir(), "wal.log"))
	require.NoError(t, err)
	store, err := memory.NewMemoryStore(journal)
	require.NoError(t, err)
	accountID := seedAccount(t, store, "0")

	// 關掉日誌檔，之後每次寫入都會失敗
	require.NoError(t, journal.Close())

	err = store.WithinTx(ctx, func(tx usecase.LedgerTx) error {
		if _, err := tx.ApplyDelta(ctx, accountID, dec("40")); err != nil {
			return err
		}
		tran := &domain.Transaction{AccountID: accountID, Type: domain.TransactionTypeDeposit, Amount: dec("40")}
		return tx.InsertTransaction(ctx, tran)
	})
	require.ErrorIs(t, err, domain.ErrWALWriteFailed)

	// 餘額沒動 交易列不存在
	balance, err := store.GetAccountBalance(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
	transactions, err := store.ListTransactions(ctx, accountID, usecase.Page{})
	require.NoError(t, err)
	assert.Empty(t, transactions)

	// CRUD 路徑一樣先落日誌再動 Map
	customer := &domain.Customer{ID: uuid.New(), Name: "Amy", Username: "amy"}
	err = store.CreateCustomer(ctx, customer)
	require.ErrorIs(t, err, domain.ErrWALWriteFailed)
	_, err = store.GetCustomer(ctx, customer.ID)
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestListAccountsFilterAndPagination(t *testing.T) {
	store, err := memory.NewMemoryStore(nil)
	require.NoError(t, err)
	ctx := context.Background()

	customerID := uuid.New()
	for _, balance := range []string{"30", "10", "20"} {
		account := &domain.Account{ID: uuid.New(), CustomerID: customerID, Type: domain.AccountTypeSavings, Balance: dec(balance)}
		require.NoError(t, store.CreateAccount(ctx, account))
	}
	other := &domain.Account{ID: uuid.New(), CustomerID: uuid.New(), Type: domain.AccountTypeSavings, Balance: dec("5")}
	require.NoError(t, store.CreateAccount(ctx, other))

	// 指定客戶 餘額由小到大
	accounts, err := store.ListAccounts(ctx, customerID, usecase.Page{})
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "10", accounts[0].Balance.String())
	assert.Equal(t, "30", accounts[2].Balance.String())

	// uuid.Nil 表示全部
	all, err := store.ListAccounts(ctx, uuid.Nil, usecase.Page{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	page2, err := store.ListAccounts(ctx, customerID, usecase.Page{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "30", page2[0].Balance.String())

	empty, err := store.ListAccounts(ctx, customerID, usecase.Page{Page: 5, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReportingAggregates(t *testing.T) {
	store, err := memory.NewMemoryStore(nil)
	require.NoError(t, err)
	ctx := context.Background()

	customerID := uuid.New()
	require.NoError(t, store.CreateCustomer(ctx, &domain.Customer{ID: customerID, Name: "Amy", Username: "amy"}))
	savings := &domain.Account{ID: uuid.New(), CustomerID: customerID, Type: domain.AccountTypeSavings, Balance: decimal.Zero}
	checking := &domain.Account{ID: uuid.New(), CustomerID: customerID, Type: domain.AccountTypeChecking, Balance: decimal.Zero}
	require.NoError(t, store.CreateAccount(ctx, savings))
	require.NoError(t, store.CreateAccount(ctx, checking))

	post(t, store, savings.ID, domain.TransactionTypeDeposit, "100")
	post(t, store, savings.ID, domain.TransactionTypeDeposit, "50")
	post(t, store, savings.ID, domain.TransactionTypeWithdraw, "30")

	count, err := store.CountTransactions(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	distribution, err := store.TransactionTypeDistribution(ctx)
	require.NoError(t, err)
	require.Len(t, distribution, 2)
	assert.Equal(t, usecase.TypeCount{Type: "deposit", Count: 2}, distribution[0])
	assert.Equal(t, usecase.TypeCount{Type: "withdraw", Count: 1}, distribution[1])

	average, err := store.AverageTransactionAmount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "60", average.String())

	volumes, err := store.TransactionVolumeByDay(ctx, 30)
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, int64(3), volumes[0].Count)
	assert.Equal(t, "180", volumes[0].Volume.String())

	accountTypes, err := store.AccountTypeDistribution(ctx)
	require.NoError(t, err)
	require.Len(t, accountTypes, 2)
	assert.Equal(t, usecase.TypeCount{Type: "checking", Count: 1}, accountTypes[0])
	assert.Equal(t, usecase.TypeCount{Type: "savings", Count: 1}, accountTypes[1])

	growth, err := store.AccountGrowthByMonth(ctx)
	require.NoError(t, err)
	require.Len(t, growth, 1)
	assert.Equal(t, time.Now().Format("2006-01"), growth[0].Month)
	assert.Equal(t, int64(2), growth[0].Count)

	byMonth, err := store.CustomersByMonth(ctx)
	require.NoError(t, err)
	require.Len(t, byMonth, 1)
	assert.Equal(t, time.Now().Format("2006-01"), byMonth[0].Month)
	assert.Equal(t, int64(1), byMonth[0].Count)
}

func TestCountWithDateRange(t *testing.T) {
	store, err := memory.NewMemoryStore(nil)
	require.NoError(t, err)
	ctx := context.Background()

	accountID := seedAccount(t, store, "0")
	post(t, store, accountID, domain.TransactionTypeDeposit, "1")

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	count, err := store.CountTransactions(ctx, &usecase.DateRange{Start: &past, End: &future})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.CountTransactions(ctx, &usecase.DateRange{End: &past})
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = store.CountAccounts(ctx, &usecase.DateRange{Start: &past})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
