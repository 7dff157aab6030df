package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
)

// 報表實作：直接掃 Map 彙總，資料量以測試與小型部署為前提

func inRange(t time.Time, rng *usecase.DateRange) bool {
	if rng == nil {
		return true
	}
	if rng.Start != nil && t.Before(*rng.Start) {
		return false
	}
	if rng.End != nil && t.After(*rng.End) {
		return false
	}
	return true
}

func (m *MemoryStore) CountTransactions(ctx context.Context, rng *usecase.DateRange) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, tran := range m.transactions {
		if inRange(tran.CreatedAt, rng) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) TransactionTypeDistribution(ctx context.Context) ([]usecase.TypeCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int64)
	for _, tran := range m.transactions {
		counts[string(tran.Type)]++
	}
	return toTypeCounts(counts), nil
}

func (m *MemoryStore) AverageTransactionAmount(ctx context.Context) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.transactions) == 0 {
		return decimal.Zero, nil
	}
	total := decimal.Zero
	for _, tran := range m.transactions {
		total = total.Add(tran.Amount)
	}
	return total.Div(decimal.NewFromInt(int64(len(m.transactions)))), nil
}

func (m *MemoryStore) TransactionVolumeByDay(ctx context.Context, days int) ([]usecase.DayVolume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cutoff := time.Now().AddDate(0, 0, -days)
	byDay := make(map[string]*usecase.DayVolume)
	for _, tran := range m.transactions {
		if tran.CreatedAt.Before(cutoff) {
			continue
		}
		day := tran.CreatedAt.Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		entry, ok := byDay[key]
		if !ok {
			entry = &usecase.DayVolume{Day: day, Volume: decimal.Zero}
			byDay[key] = entry
		}
		entry.Count++
		entry.Volume = entry.Volume.Add(tran.Amount)
	}
	volumes := make([]usecase.DayVolume, 0, len(byDay))
	for _, entry := range byDay {
		volumes = append(volumes, *entry)
	}
	sort.Slice(volumes, func(i, j int) bool {
		return volumes[i].Day.After(volumes[j].Day)
	})
	return volumes, nil
}

func (m *MemoryStore) AccountTypeDistribution(ctx context.Context) ([]usecase.TypeCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int64)
	for _, account := range m.accounts {
		counts[string(account.Type)]++
	}
	return toTypeCounts(counts), nil
}

func (m *MemoryStore) AccountGrowthByMonth(ctx context.Context) ([]usecase.MonthCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int64)
	for _, account := range m.accounts {
		counts[account.CreatedAt.Format("2006-01")]++
	}
	months := make([]usecase.MonthCount, 0, len(counts))
	for month, count := range counts {
		months = append(months, usecase.MonthCount{Month: month, Count: count})
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month > months[j].Month
	})
	return months, nil
}

func (m *MemoryStore) CustomersByMonth(ctx context.Context) ([]usecase.MonthCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int64)
	for _, customer := range m.customers {
		counts[customer.CreatedAt.Format("2006-01")]++
	}
	months := make([]usecase.MonthCount, 0, len(counts))
	for month, count := range counts {
		months = append(months, usecase.MonthCount{Month: month, Count: count})
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month > months[j].Month
	})
	return months, nil
}

func (m *MemoryStore) CountAccounts(ctx context.Context, rng *usecase.DateRange) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, account := range m.accounts {
		if inRange(account.CreatedAt, rng) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CountCustomers(ctx context.Context, rng *usecase.DateRange) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, customer := range m.customers {
		if inRange(customer.CreatedAt, rng) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CountBeneficiaries(ctx context.Context, rng *usecase.DateRange) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, beneficiary := range m.beneficiaries {
		if inRange(beneficiary.CreatedAt, rng) {
			count++
		}
	}
	return count, nil
}

func toTypeCounts(counts map[string]int64) []usecase.TypeCount {
	result := make([]usecase.TypeCount, 0, len(counts))
	for typ, count := range counts {
		result = append(result, usecase.TypeCount{Type: typ, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Type < result[j].Type
	})
	return result
}

var _ usecase.Reporting = (*MemoryStore)(nil)
