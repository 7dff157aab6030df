package mysql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
	"github.com/chiaweilo/go-bank-ledger/pkg/mysql"
)

// MySQLStore 客戶/帳戶/受款人的 CRUD 與交易讀取
// 純粹的單列操作，不需要入帳引擎那種原子工作單元
type MySQLStore struct {
	client *mysql.Client
}

// paged 套用分頁；PageSize <= 0 表示不分頁
func paged(q *gorm.DB, page usecase.Page) *gorm.DB {
	if page.PageSize <= 0 {
		return q
	}
	return q.Offset(page.Offset()).Limit(page.PageSize)
}

func NewMySQLStore(client *mysql.Client) *MySQLStore {
	return &MySQLStore{
		client: client,
	}
}

// AutoMigrate 建立資料表
func (s *MySQLStore) AutoMigrate() error {
	return s.client.DB().AutoMigrate(
		&sqlCustomer{},
		&sqlAccount{},
		&sqlTransaction{},
		&sqlBeneficiary{},
	)
}

func (s *MySQLStore) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	row := sqlCustomer{
		ID:          customer.ID,
		Name:        customer.Name,
		Email:       customer.Email,
		Username:    customer.Username,
		Password:    customer.PasswordHash,
		HomeAddress: customer.HomeAddress,
	}
	if err := s.client.DB().WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	customer.CreatedAt = row.CreatedAt
	return nil
}

func (s *MySQLStore) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var row sqlCustomer
	err := s.client.DB().WithContext(ctx).
		Where("customer_id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *MySQLStore) GetCustomerByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	var row sqlCustomer
	err := s.client.DB().WithContext(ctx).
		Where("username = ?", username).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *MySQLStore) ListCustomers(ctx context.Context, page usecase.Page) ([]*domain.Customer, error) {
	var rows []sqlCustomer
	q := s.client.DB().WithContext(ctx).
		Model(&sqlCustomer{}).
		Order("name ASC")
	err := paged(q, page).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	customers := make([]*domain.Customer, 0, len(rows))
	for i := range rows {
		customers = append(customers, rows[i].toDomain())
	}
	return customers, nil
}

func (s *MySQLStore) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	res := s.client.DB().WithContext(ctx).
		Model(&sqlCustomer{}).
		Where("customer_id = ?", customer.ID).
		Updates(map[string]any{
			"name":         customer.Name,
			"email":        customer.Email,
			"password":     customer.PasswordHash,
			"home_address": customer.HomeAddress,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (s *MySQLStore) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	res := s.client.DB().WithContext(ctx).
		Where("customer_id = ?", id).
		Delete(&sqlCustomer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (s *MySQLStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	row := sqlAccount{
		ID:         account.ID,
		CustomerID: account.CustomerID,
		Type:       string(account.Type),
		Balance:    account.Balance,
	}
	if err := s.client.DB().WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	account.CreatedAt = row.CreatedAt
	return nil
}

func (s *MySQLStore) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var row sqlAccount
	err := s.client.DB().WithContext(ctx).
		Where("account_id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *MySQLStore) ListAccounts(ctx context.Context, customerID uuid.UUID, page usecase.Page) ([]*domain.Account, error) {
	q := s.client.DB().WithContext(ctx).Model(&sqlAccount{})
	if customerID != uuid.Nil {
		q = q.Where("customer_id = ?", customerID)
	}
	var rows []sqlAccount
	err := paged(q.Order("balance ASC"), page).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rows[i].toDomain())
	}
	return accounts, nil
}

// UpdateAccount 後台直接修改帳戶屬性 (type/balance)
// 不經過入帳引擎，僅供管理用途
func (s *MySQLStore) UpdateAccount(ctx context.Context, account *domain.Account) error {
	res := s.client.DB().WithContext(ctx).
		Model(&sqlAccount{}).
		Where("account_id = ?", account.ID).
		Updates(map[string]any{
			"type":    string(account.Type),
			"balance": account.Balance,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (s *MySQLStore) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	res := s.client.DB().WithContext(ctx).
		Where("account_id = ?", id).
		Delete(&sqlAccount{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (s *MySQLStore) CreateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error {
	row := sqlBeneficiary{
		ID:            beneficiary.ID,
		CustomerID:    beneficiary.CustomerID,
		Name:          beneficiary.Name,
		AccountNumber: beneficiary.AccountNumber,
		BankDetails:   beneficiary.BankDetails,
	}
	if err := s.client.DB().WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	beneficiary.CreatedAt = row.CreatedAt
	return nil
}

func (s *MySQLStore) GetBeneficiary(ctx context.Context, id uuid.UUID) (*domain.Beneficiary, error) {
	var row sqlBeneficiary
	err := s.client.DB().WithContext(ctx).
		Where("beneficiary_id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBeneficiaryNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *MySQLStore) ListBeneficiaries(ctx context.Context, customerID uuid.UUID, page usecase.Page) ([]*domain.Beneficiary, error) {
	var rows []sqlBeneficiary
	q := s.client.DB().WithContext(ctx).
		Model(&sqlBeneficiary{}).
		Where("customer_id = ?", customerID).
		Order("name ASC")
	err := paged(q, page).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	beneficiaries := make([]*domain.Beneficiary, 0, len(rows))
	for i := range rows {
		beneficiaries = append(beneficiaries, rows[i].toDomain())
	}
	return beneficiaries, nil
}

func (s *MySQLStore) UpdateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error {
	res := s.client.DB().WithContext(ctx).
		Model(&sqlBeneficiary{}).
		Where("beneficiary_id = ?", beneficiary.ID).
		Updates(map[string]any{
			"name":           beneficiary.Name,
			"account_number": beneficiary.AccountNumber,
			"bank_details":   beneficiary.BankDetails,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrBeneficiaryNotFound
	}
	return nil
}

func (s *MySQLStore) DeleteBeneficiary(ctx context.Context, id uuid.UUID) error {
	res := s.client.DB().WithContext(ctx).
		Where("beneficiary_id = ?", id).
		Delete(&sqlBeneficiary{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrBeneficiaryNotFound
	}
	return nil
}

func (s *MySQLStore) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	var row sqlTransaction
	err := s.client.DB().WithContext(ctx).
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

func (s *MySQLStore) ListTransactions(ctx context.Context, accountID uuid.UUID, page usecase.Page) ([]*domain.Transaction, error) {
	var rows []sqlTransaction
	q := s.client.DB().WithContext(ctx).
		Model(&sqlTransaction{}).
		Where("account_id = ?", accountID).
		Order("transaction_id ASC")
	err := paged(q, page).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	transactions := make([]*domain.Transaction, 0, len(rows))
	for i := range rows {
		transactions = append(transactions, rows[i].toDomain())
	}
	return transactions, nil
}

var _ usecase.Store = (*MySQLStore)(nil)
