package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
)

// paginate 對已排序的切片做分頁
func paginate[T any](items []T, page usecase.Page) []T {
	if page.PageSize <= 0 {
		return items
	}
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// 所有寫入一律先落日誌再動 Map，日誌失敗時狀態不變

func (m *MemoryStore) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer.CreatedAt = time.Now()
	copied := *customer
	if err := m.appendJournal(kindCustomerPut, &copied); err != nil {
		return err
	}
	m.customers[customer.ID] = &copied
	return nil
}

func (m *MemoryStore) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	copied := *customer
	return &copied, nil
}

func (m *MemoryStore) GetCustomerByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, customer := range m.customers {
		if customer.Username == username {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MemoryStore) ListCustomers(ctx context.Context, page usecase.Page) ([]*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customers := make([]*domain.Customer, 0, len(m.customers))
	for _, customer := range m.customers {
		copied := *customer
		customers = append(customers, &copied)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].Name < customers[j].Name
	})
	return paginate(customers, page), nil
}

func (m *MemoryStore) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	copied := *customer
	if err := m.appendJournal(kindCustomerPut, &copied); err != nil {
		return err
	}
	m.customers[customer.ID] = &copied
	return nil
}

func (m *MemoryStore) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	if err := m.appendJournal(kindCustomerDel, id); err != nil {
		return err
	}
	delete(m.customers, id)
	return nil
}

func (m *MemoryStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.CreatedAt = time.Now()
	copied := *account
	if err := m.appendJournal(kindAccountPut, &copied); err != nil {
		return err
	}
	m.accounts[account.ID] = &copied
	return nil
}

func (m *MemoryStore) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *MemoryStore) ListAccounts(ctx context.Context, customerID uuid.UUID, page usecase.Page) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		if customerID != uuid.Nil && account.CustomerID != customerID {
			continue
		}
		copied := *account
		accounts = append(accounts, &copied)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Balance.LessThan(accounts[j].Balance)
	})
	return paginate(accounts, page), nil
}

func (m *MemoryStore) UpdateAccount(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	copied := *account
	if err := m.appendJournal(kindAccountPut, &copied); err != nil {
		return err
	}
	m.accounts[account.ID] = &copied
	return nil
}

func (m *MemoryStore) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	if err := m.appendJournal(kindAccountDel, id); err != nil {
		return err
	}
	delete(m.accounts, id)
	return nil
}

func (m *MemoryStore) CreateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	beneficiary.CreatedAt = time.Now()
	copied := *beneficiary
	if err := m.appendJournal(kindBeneficiaryPut, &copied); err != nil {
		return err
	}
	m.beneficiaries[beneficiary.ID] = &copied
	return nil
}

func (m *MemoryStore) GetBeneficiary(ctx context.Context, id uuid.UUID) (*domain.Beneficiary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	beneficiary, ok := m.beneficiaries[id]
	if !ok {
		return nil, domain.ErrBeneficiaryNotFound
	}
	copied := *beneficiary
	return &copied, nil
}

func (m *MemoryStore) ListBeneficiaries(ctx context.Context, customerID uuid.UUID, page usecase.Page) ([]*domain.Beneficiary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	beneficiaries := make([]*domain.Beneficiary, 0, len(m.beneficiaries))
	for _, beneficiary := range m.beneficiaries {
		if beneficiary.CustomerID != customerID {
			continue
		}
		copied := *beneficiary
		beneficiaries = append(beneficiaries, &copied)
	}
	sort.Slice(beneficiaries, func(i, j int) bool {
		return beneficiaries[i].Name < beneficiaries[j].Name
	})
	return paginate(beneficiaries, page), nil
}

func (m *MemoryStore) UpdateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.beneficiaries[beneficiary.ID]; !ok {
		return domain.ErrBeneficiaryNotFound
	}
	copied := *beneficiary
	if err := m.appendJournal(kindBeneficiaryPut, &copied); err != nil {
		return err
	}
	m.beneficiaries[beneficiary.ID] = &copied
	return nil
}

func (m *MemoryStore) DeleteBeneficiary(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.beneficiaries[id]; !ok {
		return domain.ErrBeneficiaryNotFound
	}
	if err := m.appendJournal(kindBeneficiaryDel, id); err != nil {
		return err
	}
	delete(m.beneficiaries, id)
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tran, ok := m.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	copied := *tran
	return &copied, nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, accountID uuid.UUID, page usecase.Page) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	transactions := make([]*domain.Transaction, 0, len(m.transactions))
	for _, tran := range m.transactions {
		if tran.AccountID != accountID {
			continue
		}
		copied := *tran
		transactions = append(transactions, &copied)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].ID < transactions[j].ID
	})
	return paginate(transactions, page), nil
}

var _ usecase.Store = (*MemoryStore)(nil)
