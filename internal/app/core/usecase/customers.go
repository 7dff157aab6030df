package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
	"github.com/chiaweilo/go-bank-ledger/pkg/auth"
)

// CustomerUseCase 客戶註冊/登入與 CRUD
type CustomerUseCase struct {
	store Store
}

func NewCustomerUseCase(store Store) *CustomerUseCase {
	return &CustomerUseCase{
		store: store,
	}
}

// SignupInput 註冊資料，密碼在這裡雜湊後才落地
type SignupInput struct {
	Name        string
	Email       string
	Username    string
	Password    string
	HomeAddress string
}

// Signup 建立客戶，使用者名稱必須唯一
func (c *CustomerUseCase) Signup(ctx context.Context, in SignupInput) (*domain.Customer, error) {
	if _, err := c.store.GetCustomerByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	customer := &domain.Customer{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		HomeAddress:  in.HomeAddress,
	}
	if err := c.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Login 驗證帳密；找不到帳號和密碼錯誤回傳同一種錯誤，避免帳號枚舉
func (c *CustomerUseCase) Login(ctx context.Context, username, password string) (*domain.Customer, error) {
	customer, err := c.store.GetCustomerByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !auth.CheckPassword(customer.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return customer, nil
}

func (c *CustomerUseCase) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return c.store.GetCustomer(ctx, id)
}

func (c *CustomerUseCase) ListCustomers(ctx context.Context, page Page) ([]*domain.Customer, error) {
	return c.store.ListCustomers(ctx, page)
}

// UpdateCustomerInput 更新資料，空字串代表不變
type UpdateCustomerInput struct {
	Name        string
	Email       string
	HomeAddress string
	Password    string
}

func (c *CustomerUseCase) UpdateCustomer(ctx context.Context, id uuid.UUID, in UpdateCustomerInput) (*domain.Customer, error) {
	customer, err := c.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		customer.Name = in.Name
	}
	if in.Email != "" {
		customer.Email = in.Email
	}
	if in.HomeAddress != "" {
		customer.HomeAddress = in.HomeAddress
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		customer.PasswordHash = hash
	}
	if err := c.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (c *CustomerUseCase) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return c.store.DeleteCustomer(ctx, id)
}

// BeneficiaryUseCase 受款人 CRUD，平面資料，沒有帳務耦合
type BeneficiaryUseCase struct {
	store Store
}

func NewBeneficiaryUseCase(store Store) *BeneficiaryUseCase {
	return &BeneficiaryUseCase{
		store: store,
	}
}

func (b *BeneficiaryUseCase) CreateBeneficiary(ctx context.Context, customerID uuid.UUID, name, accountNumber, bankDetails string) (*domain.Beneficiary, error) {
	if _, err := b.store.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	beneficiary := &domain.Beneficiary{
		ID:            uuid.New(),
		CustomerID:    customerID,
		Name:          name,
		AccountNumber: accountNumber,
		BankDetails:   bankDetails,
	}
	if err := b.store.CreateBeneficiary(ctx, beneficiary); err != nil {
		return nil, err
	}
	return beneficiary, nil
}

func (b *BeneficiaryUseCase) GetBeneficiary(ctx context.Context, id uuid.UUID) (*domain.Beneficiary, error) {
	return b.store.GetBeneficiary(ctx, id)
}

func (b *BeneficiaryUseCase) ListBeneficiaries(ctx context.Context, customerID uuid.UUID, page Page) ([]*domain.Beneficiary, error) {
	return b.store.ListBeneficiaries(ctx, customerID, page)
}

func (b *BeneficiaryUseCase) UpdateBeneficiary(ctx context.Context, id uuid.UUID, name, accountNumber, bankDetails string) (*domain.Beneficiary, error) {
	beneficiary, err := b.store.GetBeneficiary(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		beneficiary.Name = name
	}
	if accountNumber != "" {
		beneficiary.AccountNumber = accountNumber
	}
	if bankDetails != "" {
		beneficiary.BankDetails = bankDetails
	}
	if err := b.store.UpdateBeneficiary(ctx, beneficiary); err != nil {
		return nil, err
	}
	return beneficiary, nil
}

func (b *BeneficiaryUseCase) DeleteBeneficiary(ctx context.Context, id uuid.UUID) error {
	return b.store.DeleteBeneficiary(ctx, id)
}
