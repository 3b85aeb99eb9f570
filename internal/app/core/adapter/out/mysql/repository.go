package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
	"github.com/JoeShih716/go-remittance/pkg/mysql"
)

// Repository 以 MySQL Transaction 實作 unit of work
//
// 帳戶鎖使用 SELECT ... FOR UPDATE，持有到 Transaction commit 或 rollback。
type Repository struct {
	client *mysql.Client
}

func NewRepository(client *mysql.Client) *Repository {
	return &Repository{
		client: client,
	}
}

// Migrate 建立或更新資料表
func (r *Repository) Migrate(ctx context.Context) error {
	return r.client.DB().WithContext(ctx).AutoMigrate(
		&sqlAccount{},
		&sqlDailyLimit{},
		&sqlLedgerEntry{},
	)
}

// Transact implements usecase.Repository.
func (r *Repository) Transact(ctx context.Context, fn func(tx usecase.Tx) error) error {
	return r.client.DB().WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&tx{db: db})
	})
}

type tx struct {
	db *gorm.DB
}

func (t *tx) Accounts() usecase.AccountStore       { return &accountStore{db: t.db} }
func (t *tx) DailyLimits() usecase.DailyLimitStore { return &dailyLimitStore{db: t.db} }
func (t *tx) Ledger() usecase.LedgerStore          { return &ledgerStore{db: t.db} }

// notFound 將 gorm.ErrRecordNotFound 轉為領域錯誤
func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

var (
	_ usecase.Repository = (*Repository)(nil)
	_ usecase.Tx         = (*tx)(nil)
)
