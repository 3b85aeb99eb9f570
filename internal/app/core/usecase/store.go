package usecase

import (
	"context"
	"time"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
)

// AccountStore 帳戶儲存
type AccountStore interface {
	// FindByID 不上鎖讀取，找不到回傳 domain.ErrAccountNotFound
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	// FindByAccountNo 不上鎖讀取，找不到回傳 domain.ErrAccountNotFound
	FindByAccountNo(ctx context.Context, accountNo string) (*domain.Account, error)
	// FindByIDForUpdate 取得帳戶的排他鎖 (悲觀鎖) 後讀取，可能阻塞
	// 鎖持有到 unit of work 結束 (commit 或 rollback)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Account, error)
	// Save 新帳戶 (ID == 0) 會分配 ID，帳號重複回傳 domain.ErrDuplicateAccountNo
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

// DailyLimitStore 每日累計額儲存
// 呼叫端必須已持有該帳戶的鎖
type DailyLimitStore interface {
	// GetOrCreate 取得當日累計額，沒有則建立一筆全 0 的
	GetOrCreate(ctx context.Context, accountID int64, date time.Time) (*domain.DailyLimit, error)
	Save(ctx context.Context, limit *domain.DailyLimit) (*domain.DailyLimit, error)
}

// LedgerStore 帳本，只能新增
type LedgerStore interface {
	// Save 分配 ID 後寫入
	Save(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error)
	// FindLatestByAccountID 依 OccurredAt 降冪、ID 降冪回傳最多 size 筆
	FindLatestByAccountID(ctx context.Context, accountID int64, size int) ([]*domain.LedgerEntry, error)
}

// Tx 一個 unit of work 內可用的儲存
type Tx interface {
	Accounts() AccountStore
	DailyLimits() DailyLimitStore
	Ledger() LedgerStore
}

// Repository 開啟 unit of work
type Repository interface {
	// Transact 在同一個 unit of work 內執行 fn
	// fn 回傳 error 時所有寫入都會 rollback，並原樣回傳該 error
	Transact(ctx context.Context, fn func(tx Tx) error) error
}

// Clock 時間來源，測試時可注入固定時間
type Clock interface {
	Now() time.Time
}

// ClockFunc 讓一般函式可以當作 Clock 使用
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock 回傳指定時區的系統時間，loc 為 nil 時使用 UTC
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return ClockFunc(func() time.Time {
		return time.Now().In(loc)
	})
}

// FixedClock 永遠回傳同一個時間
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time {
		return t
	})
}
