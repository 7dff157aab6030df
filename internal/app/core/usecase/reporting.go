package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 每日交易量報表的回溯視窗天數
const volumeWindowDays = 30

// ReportingUseCase 唯讀彙總查詢，不參與寫入路徑
type ReportingUseCase struct {
	reporting Reporting
}

func NewReportingUseCase(reporting Reporting) *ReportingUseCase {
	return &ReportingUseCase{
		reporting: reporting,
	}
}

// TransactionAnalytics 儀表板用的交易彙總
type TransactionAnalytics struct {
	VolumeByDay   []DayVolume     `json:"transactionVolumeByDay"`
	ByType        []TypeCount     `json:"transactionsByType"`
	AverageAmount decimal.Decimal `json:"averageTransactionAmount"`
}

// TransactionAnalytics 一次取回三種交易彙總
func (r *ReportingUseCase) TransactionAnalytics(ctx context.Context) (*TransactionAnalytics, error) {
	volume, err := r.reporting.TransactionVolumeByDay(ctx, volumeWindowDays)
	if err != nil {
		return nil, err
	}
	byType, err := r.reporting.TransactionTypeDistribution(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := r.reporting.AverageTransactionAmount(ctx)
	if err != nil {
		return nil, err
	}
	return &TransactionAnalytics{
		VolumeByDay:   volume,
		ByType:        byType,
		AverageAmount: avg,
	}, nil
}

// AccountAnalytics 儀表板用的帳戶彙總
type AccountAnalytics struct {
	ByType        []TypeCount  `json:"accountsByType"`
	GrowthByMonth []MonthCount `json:"accountGrowthByMonth"`
}

func (r *ReportingUseCase) AccountAnalytics(ctx context.Context) (*AccountAnalytics, error) {
	byType, err := r.reporting.AccountTypeDistribution(ctx)
	if err != nil {
		return nil, err
	}
	growth, err := r.reporting.AccountGrowthByMonth(ctx)
	if err != nil {
		return nil, err
	}
	return &AccountAnalytics{
		ByType:        byType,
		GrowthByMonth: growth,
	}, nil
}

// CustomerAnalytics 儀表板用的客戶彙總
type CustomerAnalytics struct {
	TotalCount   int64        `json:"totalCount"`
	NewThisMonth int64        `json:"newCustomersThisMonth"`
	ByMonth      []MonthCount `json:"customersByMonth"`
}

func (r *ReportingUseCase) CustomerAnalytics(ctx context.Context) (*CustomerAnalytics, error) {
	total, err := r.reporting.CountCustomers(ctx, nil)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	recent, err := r.reporting.CountCustomers(ctx, &DateRange{Start: &monthStart})
	if err != nil {
		return nil, err
	}
	byMonth, err := r.reporting.CustomersByMonth(ctx)
	if err != nil {
		return nil, err
	}
	return &CustomerAnalytics{
		TotalCount:   total,
		NewThisMonth: recent,
		ByMonth:      byMonth,
	}, nil
}

func (r *ReportingUseCase) CountTransactions(ctx context.Context, rng *DateRange) (int64, error) {
	return r.reporting.CountTransactions(ctx, rng)
}

func (r *ReportingUseCase) CountAccounts(ctx context.Context, rng *DateRange) (int64, error) {
	return r.reporting.CountAccounts(ctx, rng)
}

func (r *ReportingUseCase) CountCustomers(ctx context.Context, rng *DateRange) (int64, error) {
	return r.reporting.CountCustomers(ctx, rng)
}

func (r *ReportingUseCase) CountBeneficiaries(ctx context.Context, rng *DateRange) (int64, error) {
	return r.reporting.CountBeneficiaries(ctx, rng)
}
