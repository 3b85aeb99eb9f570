package domain

import "time"

const (
	// WithdrawDailyLimit 每日提款累計上限
	WithdrawDailyLimit int64 = 1_000_000
	// TransferDailyLimit 每日轉帳累計上限 (以本金計，不含手續費)
	TransferDailyLimit int64 = 3_000_000
)

// DailyLimit 帳戶單日提款/轉帳累計額
//
// 以 (AccountID, Date) 唯一識別，當天第一次提款或轉帳時建立，永不刪除。
// 累計額只增不減，超過上限的增量整筆拒絕，狀態不變。
type DailyLimit struct {
	ID          int64
	AccountID   int64
	Date        time.Time
	WithdrawSum int64
	TransferSum int64
}

// NewDailyLimit 建立當日累計額，Date 會被正規化為日曆日期
func NewDailyLimit(accountID int64, date time.Time) *DailyLimit {
	return &DailyLimit{
		AccountID: accountID,
		Date:      DateOf(date),
	}
}

// AddWithdraw 累計提款金額，等於上限仍允許
func (l *DailyLimit) AddWithdraw(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > WithdrawDailyLimit-l.WithdrawSum {
		return ErrWithdrawDailyLimitExceeded
	}
	l.WithdrawSum += amount
	return nil
}

// AddTransfer 累計轉帳金額，等於上限仍允許
func (l *DailyLimit) AddTransfer(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > TransferDailyLimit-l.TransferSum {
		return ErrTransferDailyLimitExceeded
	}
	l.TransferSum += amount
	return nil
}

// DateOf 取 t 在其所屬時區的日曆日期，以 UTC 午夜表示方便作為 key 比較
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
