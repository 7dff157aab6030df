package mysql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
	"github.com/chiaweilo/go-bank-ledger/pkg/mysql"
)

// MySQLReporting 唯讀彙總查詢
// 一般讀取即可，絕不鎖列、絕不進入寫入路徑的事務
type MySQLReporting struct {
	client *mysql.Client
}

func NewMySQLReporting(client *mysql.Client) *MySQLReporting {
	return &MySQLReporting{
		client: client,
	}
}

func applyDateRange(q *gorm.DB, rng *usecase.DateRange) *gorm.DB {
	if rng == nil {
		return q
	}
	if rng.Start != nil {
		q = q.Where("created_at >= ?", *rng.Start)
	}
	if rng.End != nil {
		q = q.Where("created_at <= ?", *rng.End)
	}
	return q
}

func (r *MySQLReporting) CountTransactions(ctx context.Context, rng *usecase.DateRange) (int64, error) {
	var count int64
	q := r.client.DB().WithContext(ctx).Model(&sqlTransaction{})
	err := applyDateRange(q, rng).Count(&count).Error
	return count, err
}

func (r *MySQLReporting) TransactionTypeDistribution(ctx context.Context) ([]usecase.TypeCount, error) {
	var rows []usecase.TypeCount
	err := r.client.DB().WithContext(ctx).
		Model(&sqlTransaction{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	return rows, err
}

func (r *MySQLReporting) AverageTransactionAmount(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Avg decimal.Decimal
	}
	err := r.client.DB().WithContext(ctx).
		Model(&sqlTransaction{}).
		Select("COALESCE(AVG(amount), 0) AS avg").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Avg, nil
}

// TransactionVolumeByDay 回溯 days 天內每日的筆數與總額
func (r *MySQLReporting) TransactionVolumeByDay(ctx context.Context, days int) ([]usecase.DayVolume, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var rows []usecase.DayVolume
	err := r.client.DB().WithContext(ctx).Raw(`
		SELECT
			DATE(created_at) AS day,
			COUNT(*) AS count,
			COALESCE(SUM(amount), 0) AS volume
		FROM transactions
		WHERE created_at >= ?
		GROUP BY DATE(created_at)
		ORDER BY day DESC`, cutoff).
		Scan(&rows).Error
	return rows, err
}

func (r *MySQLReporting) AccountTypeDistribution(ctx context.Context) ([]usecase.TypeCount, error) {
	var rows []usecase.TypeCount
	err := r.client.DB().WithContext(ctx).
		Model(&sqlAccount{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	return rows, err
}

func (r *MySQLReporting) AccountGrowthByMonth(ctx context.Context) ([]usecase.MonthCount, error) {
	var rows []usecase.MonthCount
	err := r.client.DB().WithContext(ctx).Raw(`
		SELECT
			DATE_FORMAT(created_at, '%Y-%m') AS month,
			COUNT(*) AS count
		FROM accounts
		GROUP BY DATE_FORMAT(created_at, '%Y-%m')
		ORDER BY month DESC`).
		Scan(&rows).Error
	return rows, err
}

func (r *MySQLReporting) CustomersByMonth(ctx context.Context) ([]usecase.MonthCount, error) {
	var rows []usecase.MonthCount
	err := r.client.DB().WithContext(ctx).Raw(`
		SELECT
			DATE_FORMAT(created_at, '%Y-%m') AS month,
			COUNT(*) AS count
		FROM customers
		GROUP BY DATE_FORMAT(created_at, '%Y-%m')
		ORDER BY month DESC`).
		Scan(&rows).Error
	return rows, err
}

func (r *MySQLReporting) CountAccounts(ctx context.Context, rng *usecase.DateRange) (int64, error) {
	var count int64
	q := r.client.DB().WithContext(ctx).Model(&sqlAccount{})
	err := applyDateRange(q, rng).Count(&count).Error
	return count, err
}

func (r *MySQLReporting) CountCustomers(ctx context.Context, rng *usecase.DateRange) (int64, error) {
	var count int64
	q := r.client.DB().WithContext(ctx).Model(&sqlCustomer{})
	err := applyDateRange(q, rng).Count(&count).Error
	return count, err
}

func (r *MySQLReporting) CountBeneficiaries(ctx context.Context, rng *usecase.DateRange) (int64, error) {
	var count int64
	q := r.client.DB().WithContext(ctx).Model(&sqlBeneficiary{})
	err := applyDateRange(q, rng).Count(&count).Error
	return count, err
}

var _ usecase.Reporting = (*MySQLReporting)(nil)
