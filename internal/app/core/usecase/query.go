package usecase

import (
	"context"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
)

const (
	// DefaultQuerySize 未指定筆數時回傳的筆數
	DefaultQuerySize = 20
	// MaxQuerySize 單次查詢上限
	MaxQuerySize = 100
)

// TransactionQueryService 交易紀錄查詢 (唯讀，不上鎖)
type TransactionQueryService struct {
	repo Repository
}

func NewTransactionQueryService(repo Repository) *TransactionQueryService {
	return &TransactionQueryService{
		repo: repo,
	}
}

// Latest 回傳帳戶最新的 size 筆帳本紀錄 (OccurredAt 降冪，相同時 ID 降冪)
func (s *TransactionQueryService) Latest(ctx context.Context, accountNo string, size int) ([]*domain.LedgerEntry, error) {
	size = clampSize(size)

	var entries []*domain.LedgerEntry
	err := s.repo.Transact(ctx, func(tx Tx) error {
		account, err := tx.Accounts().FindByAccountNo(ctx, accountNo)
		if err != nil {
			return err
		}
		entries, err = tx.Ledger().FindLatestByAccountID(ctx, account.ID, size)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func clampSize(size int) int {
	if size <= 0 {
		return DefaultQuerySize
	}
	if size > MaxQuerySize {
		return MaxQuerySize
	}
	return size
}
