package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
	"github.com/chiaweilo/go-bank-ledger/pkg/wal"
)

// MemoryStore 是一個使用 Mutex 實現的記憶體儲存後端
// 同時作為測試替身：工作單元採 copy-on-write，fn 失敗時暫存的
// 變更直接丟棄，保證不留下部分效果
//
// 結構:
//
//	customers/accounts/transactions/beneficiaries: 資料 Map
//	mu: 保護所有 Map
//	journal: WAL，變動先落日誌才套用，重啟時重放 (可為 nil)
type MemoryStore struct {
	mu            sync.RWMutex
	customers     map[uuid.UUID]*domain.Customer
	accounts      map[uuid.UUID]*domain.Account
	transactions  map[int64]*domain.Transaction
	beneficiaries map[uuid.UUID]*domain.Beneficiary
	nextTranID    int64

	journal *wal.WAL

	// 測試用故障注入，各觸發一次後清除
	failInsert error
	failCommit error
}

// journalRecord WAL 裡的一筆已提交變動
type journalRecord struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

const (
	kindCustomerPut    = "customer.put"
	kindCustomerDel    = "customer.del"
	kindAccountPut     = "account.put"
	kindAccountDel     = "account.del"
	kindTransactionPut = "transaction.put"
	kindTransactionDel = "transaction.del"
	kindBeneficiaryPut = "beneficiary.put"
	kindBeneficiaryDel = "beneficiary.del"
)

// NewMemoryStore 建立記憶體儲存後端
// journal 不為 nil 時先重放日誌恢復狀態
func NewMemoryStore(journal *wal.WAL) (*MemoryStore, error) {
	store := &MemoryStore{
		customers:     make(map[uuid.UUID]*domain.Customer),
		accounts:      make(map[uuid.UUID]*domain.Account),
		transactions:  make(map[int64]*domain.Transaction),
		beneficiaries: make(map[uuid.UUID]*domain.Beneficiary),
		nextTranID:    1,
		journal:       journal,
	}
	if journal != nil {
		if err := store.recover(); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// recover 重放 WAL 重建狀態
// 只有 NewMemoryStore 呼叫，無需 Lock (單執行緒)
func (m *MemoryStore) recover() error {
	return m.journal.Replay(func(raw json.RawMessage) error {
		var rec journalRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		return m.applyRecord(&rec)
	})
}

func (m *MemoryStore) applyRecord(rec *journalRecord) error {
	switch rec.Kind {
	case kindCustomerPut:
		var c domain.Customer
		if err := json.Unmarshal(rec.Data, &c); err != nil {
			return err
		}
		m.customers[c.ID] = &c
	case kindCustomerDel:
		var id uuid.UUID
		if err := json.Unmarshal(rec.Data, &id); err != nil {
			return err
		}
		delete(m.customers, id)
	case kindAccountPut:
		var a domain.Account
		if err := json.Unmarshal(rec.Data, &a); err != nil {
			return err
		}
		m.accounts[a.ID] = &a
	case kindAccountDel:
		var id uuid.UUID
		if err := json.Unmarshal(rec.Data, &id); err != nil {
			return err
		}
		delete(m.accounts, id)
	case kindTransactionPut:
		var t domain.Transaction
		if err := json.Unmarshal(rec.Data, &t); err != nil {
			return err
		}
		m.transactions[t.ID] = &t
		if t.ID >= m.nextTranID {
			m.nextTranID = t.ID + 1
		}
	case kindTransactionDel:
		var id int64
		if err := json.Unmarshal(rec.Data, &id); err != nil {
			return err
		}
		delete(m.transactions, id)
	case kindBeneficiaryPut:
		var b domain.Beneficiary
		if err := json.Unmarshal(rec.Data, &b); err != nil {
			return err
		}
		m.beneficiaries[b.ID] = &b
	case kindBeneficiaryDel:
		var id uuid.UUID
		if err := json.Unmarshal(rec.Data, &id); err != nil {
			return err
		}
		delete(m.beneficiaries, id)
	default:
		return fmt.Errorf("unknown journal record kind %q", rec.Kind)
	}
	return nil
}

// appendJournal 寫一筆記錄到 WAL (持鎖時呼叫)
func (m *MemoryStore) appendJournal(kind string, v any) error {
	if m.journal == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := m.journal.Append(journalRecord{Kind: kind, Data: data}); err != nil {
		return domain.ErrWALWriteFailed
	}
	return nil
}

// FailNextInsert 讓下一次 InsertTransaction 失敗 (測試原子性用)
func (m *MemoryStore) FailNextInsert(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failInsert = err
}

// FailNextCommit 讓下一個工作單元在提交前失敗 (測試原子性用)
func (m *MemoryStore) FailNextCommit(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failCommit = err
}

// memTx 單一工作單元的暫存區
// 所有寫入先落在這裡，提交時才套用回 MemoryStore
type memTx struct {
	store    *MemoryStore
	balances map[uuid.UUID]decimal.Decimal
	upserts  map[int64]*domain.Transaction
	deletes  map[int64]bool
	order    []int64 // upsert 套用順序
	created  int64   // 本單元內新建的交易數，用來配流水號
}

// WithinTx 在全域鎖之下執行 fn
// fn 失敗或提交前故障時，暫存區直接丟棄，狀態完全不變
func (m *MemoryStore) WithinTx(ctx context.Context, fn func(tx usecase.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		store:    m,
		balances: make(map[uuid.UUID]decimal.Decimal),
		upserts:  make(map[int64]*domain.Transaction),
		deletes:  make(map[int64]bool),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.failCommit != nil {
		err := m.failCommit
		m.failCommit = nil
		return err
	}
	return m.commit(tx)
}

// commit 先把暫存區全數寫入 WAL，日誌落地後才套用到 Map
// 任何一筆日誌寫入失敗就放棄整個單元，Map 不被碰到
func (m *MemoryStore) commit(tx *memTx) error {
	accounts := make(map[uuid.UUID]*domain.Account, len(tx.balances))
	for accountID, balance := range tx.balances {
		copied := *m.accounts[accountID]
		copied.Balance = balance
		accounts[accountID] = &copied
		if err := m.appendJournal(kindAccountPut, &copied); err != nil {
			return err
		}
	}
	for _, id := range tx.order {
		if err := m.appendJournal(kindTransactionPut, tx.upserts[id]); err != nil {
			return err
		}
	}
	for id := range tx.deletes {
		if err := m.appendJournal(kindTransactionDel, id); err != nil {
			return err
		}
	}

	for accountID, account := range accounts {
		m.accounts[accountID] = account
	}
	for _, id := range tx.order {
		m.transactions[id] = tx.upserts[id]
		if id >= m.nextTranID {
			m.nextTranID = id + 1
		}
	}
	for id := range tx.deletes {
		delete(m.transactions, id)
	}
	return nil
}

func (t *memTx) ApplyDelta(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	account, ok := t.store.accounts[accountID]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	scratch := *account
	if balance, staged := t.balances[accountID]; staged {
		scratch.Balance = balance
	}
	if err := scratch.ApplyDelta(delta); err != nil {
		return decimal.Zero, err
	}
	t.balances[accountID] = scratch.Balance
	return scratch.Balance, nil
}

func (t *memTx) GetTransactionForUpdate(ctx context.Context, id int64) (*domain.Transaction, error) {
	if t.deletes[id] {
		return nil, domain.ErrTransactionNotFound
	}
	if tran, ok := t.upserts[id]; ok {
		copied := *tran
		return &copied, nil
	}
	tran, ok := t.store.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	copied := *tran
	return &copied, nil
}

func (t *memTx) InsertTransaction(ctx context.Context, tran *domain.Transaction) error {
	if t.store.failInsert != nil {
		err := t.store.failInsert
		t.store.failInsert = nil
		return err
	}
	id := t.store.nextTranID + t.created
	t.created++
	tran.ID = id
	tran.CreatedAt = time.Now()
	copied := *tran
	t.upserts[id] = &copied
	t.order = append(t.order, id)
	return nil
}

func (t *memTx) UpdateTransaction(ctx context.Context, tran *domain.Transaction) error {
	if t.deletes[tran.ID] {
		return domain.ErrTransactionNotFound
	}
	if _, ok := t.upserts[tran.ID]; !ok {
		if _, ok := t.store.transactions[tran.ID]; !ok {
			return domain.ErrTransactionNotFound
		}
		t.order = append(t.order, tran.ID)
	}
	copied := *tran
	t.upserts[tran.ID] = &copied
	return nil
}

func (t *memTx) DeleteTransaction(ctx context.Context, id int64) error {
	_, inUpserts := t.upserts[id]
	_, inStore := t.store.transactions[id]
	if !inUpserts && !inStore {
		return domain.ErrTransactionNotFound
	}
	delete(t.upserts, id)
	t.deletes[id] = true
	return nil
}

// AccountExists 檢查帳戶是否存在
func (m *MemoryStore) AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.accounts[accountID]
	return ok, nil
}

// GetAccountBalance 取得帳戶餘額
func (m *MemoryStore) GetAccountBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[accountID]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	return account.Balance, nil
}

// SumBalances 加總客戶所有帳戶的餘額
func (m *MemoryStore) SumBalances(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, account := range m.accounts {
		if account.CustomerID == customerID {
			total = total.Add(account.Balance)
		}
	}
	return total, nil
}

var _ usecase.Ledger = (*MemoryStore)(nil)
var _ usecase.LedgerTx = (*memTx)(nil)
