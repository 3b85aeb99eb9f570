package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
)

type ledgerStore struct {
	db *gorm.DB
}

// Save 建立帳本紀錄，ID 由 auto increment 分配
func (s *ledgerStore) Save(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	row := toSQLLedgerEntry(entry)
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}

	saved := *entry
	saved.ID = row.ID
	return &saved, nil
}

// FindLatestByAccountID 不上鎖，使用 (account_id, occurred_at) 索引
func (s *ledgerStore) FindLatestByAccountID(ctx context.Context, accountID int64, size int) ([]*domain.LedgerEntry, error) {
	var rows []sqlLedgerEntry
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("occurred_at DESC, id DESC").
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for i := range rows {
		entry, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode ledger entry %d: %w", rows[i].ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

var _ usecase.LedgerStore = (*ledgerStore)(nil)
