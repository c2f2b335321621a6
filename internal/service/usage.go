package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/feastcraft/backend/internal/models"
	"github.com/pageza/feastcraft/backend/internal/types"
)

// MaxUsageDays bounds the range of a usage report
const MaxUsageDays = 90

const dayLayout = "2006-01-02"

// UsageService persists and aggregates the usage ledger
type UsageService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUsageService creates a new UsageService instance
func NewUsageService(db *gorm.DB) *UsageService {
	return &UsageService{db: db, now: time.Now}
}

// Record implements UsageRecorder
func (s *UsageService) Record(ctx context.Context, record *models.UsageRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// Daily totals the last days calendar days (UTC), today included, oldest first.
// Days without calls are reported with zero totals.
func (s *UsageService) Daily(ctx context.Context, days int) (*types.UsageReport, error) {
	if days < 1 || days > MaxUsageDays {
		return nil, fmt.Errorf("days must be between 1 and %d", MaxUsageDays)
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	var records []models.UsageRecord
	err := s.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load usage: %w", err)
	}

	report := &types.UsageReport{Days: days, Usage: make([]types.DailyUsage, days)}
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := since.AddDate(0, 0, i).Format(dayLayout)
		report.Usage[i].Date = date
		index[date] = i
	}

	for _, r := range records {
		i, ok := index[r.CreatedAt.UTC().Format(dayLayout)]
		if !ok {
			continue
		}
		day := &report.Usage[i]
		day.Calls++
		if !r.Succeeded() {
			day.Failures++
		}
		day.PromptTokens += int64(r.PromptTokens)
		day.CompletionTokens += int64(r.CompletionTokens)
	}
	return report, nil
}

// Prune removes records older than olderThanDays and returns how many were deleted
func (s *UsageService) Prune(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays < 1 {
		return 0, fmt.Errorf("retention must be at least one day")
	}
	threshold := s.now().UTC().AddDate(0, 0, -olderThanDays)
	res := s.db.WithContext(ctx).Where("created_at < ?", threshold).Delete(&models.UsageRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune usage: %w", res.Error)
	}
	return res.RowsAffected, nil
}
