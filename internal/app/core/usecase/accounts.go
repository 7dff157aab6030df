package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
)

// AccountUseCase 帳戶 CRUD
// 餘額只在開戶時由這裡設定初始值，之後一律透過入帳引擎變動；
// 直接以 update 改餘額僅限後台修正，仍然不可為負
type AccountUseCase struct {
	store Store
}

func NewAccountUseCase(store Store) *AccountUseCase {
	return &AccountUseCase{
		store: store,
	}
}

// CreateAccount 在指定客戶名下開戶
func (a *AccountUseCase) CreateAccount(ctx context.Context, customerID uuid.UUID, typ domain.AccountType, balance decimal.Decimal) (*domain.Account, error) {
	if _, err := domain.ParseAccountType(string(typ)); err != nil {
		return nil, err
	}
	if balance.IsNegative() {
		return nil, domain.ErrNegativeBalance
	}
	if _, err := a.store.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:         uuid.New(),
		CustomerID: customerID,
		Type:       typ,
		Balance:    balance,
	}
	if err := a.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (a *AccountUseCase) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return a.store.GetAccount(ctx, id)
}

func (a *AccountUseCase) ListAccounts(ctx context.Context, customerID uuid.UUID, page Page) ([]*domain.Account, error) {
	return a.store.ListAccounts(ctx, customerID, page)
}

// UpdateAccount 更新帳戶屬性，nil 的欄位保持不變
func (a *AccountUseCase) UpdateAccount(ctx context.Context, id uuid.UUID, typ *domain.AccountType, balance *decimal.Decimal) (*domain.Account, error) {
	if typ != nil {
		if _, err := domain.ParseAccountType(string(*typ)); err != nil {
			return nil, err
		}
	}
	if balance != nil && balance.IsNegative() {
		return nil, domain.ErrNegativeBalance
	}

	account, err := a.store.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if typ != nil {
		account.Type = *typ
	}
	if balance != nil {
		account.Balance = *balance
	}
	if err := a.store.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (a *AccountUseCase) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return a.store.DeleteAccount(ctx, id)
}

func (a *AccountUseCase) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	return a.store.GetTransaction(ctx, id)
}

func (a *AccountUseCase) ListTransactions(ctx context.Context, accountID uuid.UUID, page Page) ([]*domain.Transaction, error) {
	return a.store.ListTransactions(ctx, accountID, page)
}
