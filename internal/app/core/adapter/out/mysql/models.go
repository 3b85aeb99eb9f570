package mysql

import (
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	AccountNo string `gorm:"column:account_no;type:varchar(64);uniqueIndex;not null"`
	Status    string `gorm:"type:varchar(16);not null"`
	Balance   int64  `gorm:"not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli"` // 自動寫入時間
	UpdatedAt int64  `gorm:"autoUpdateTime:milli"` // 自動更新時間
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

// sqlDailyLimit 對應資料庫的 daily_limits 表，(account_id, limit_date) 唯一
type sqlDailyLimit struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	AccountID   int64     `gorm:"uniqueIndex:uk_account_date;not null"`
	LimitDate   time.Time `gorm:"column:limit_date;type:date;uniqueIndex:uk_account_date;not null"`
	WithdrawSum int64     `gorm:"not null"`
	TransferSum int64     `gorm:"not null"`
}

func (*sqlDailyLimit) TableName() string {
	return "daily_limits"
}

// sqlLedgerEntry 對應資料庫的 ledger_entries 表，只會 INSERT
type sqlLedgerEntry struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement"`
	AccountID             int64     `gorm:"index:idx_account_latest,priority:1;not null"`
	CounterpartyAccountID *int64    `gorm:"column:counterparty_account_id"`
	Type                  string    `gorm:"type:varchar(16);not null"`
	Amount                int64     `gorm:"not null"`
	FeeAmount             int64     `gorm:"not null"`
	BalanceAfter          int64     `gorm:"not null"`
	OccurredAt            time.Time `gorm:"type:datetime(6);index:idx_account_latest,priority:2;not null"`
	RefID                 []byte    `gorm:"column:ref_id;type:binary(16);index;not null"` // 對應 domain.LedgerEntry.RefID
}

func (*sqlLedgerEntry) TableName() string {
	return "ledger_entries"
}

func toSQLAccount(a *domain.Account) *sqlAccount {
	return &sqlAccount{
		ID:        a.ID,
		AccountNo: a.AccountNo,
		Status:    string(a.Status),
		Balance:   a.Balance,
	}
}

func (r *sqlAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:        r.ID,
		AccountNo: r.AccountNo,
		Status:    domain.AccountStatus(r.Status),
		Balance:   r.Balance,
	}
}

func toSQLDailyLimit(l *domain.DailyLimit) *sqlDailyLimit {
	return &sqlDailyLimit{
		ID:          l.ID,
		AccountID:   l.AccountID,
		LimitDate:   domain.DateOf(l.Date),
		WithdrawSum: l.WithdrawSum,
		TransferSum: l.TransferSum,
	}
}

func (r *sqlDailyLimit) toDomain() *domain.DailyLimit {
	return &domain.DailyLimit{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Date:        domain.DateOf(r.LimitDate),
		WithdrawSum: r.WithdrawSum,
		TransferSum: r.TransferSum,
	}
}

func toSQLLedgerEntry(e *domain.LedgerEntry) *sqlLedgerEntry {
	return &sqlLedgerEntry{
		ID:                    e.ID,
		AccountID:             e.AccountID,
		CounterpartyAccountID: e.CounterpartyAccountID,
		Type:                  string(e.Type),
		Amount:                e.Amount,
		FeeAmount:             e.FeeAmount,
		BalanceAfter:          e.BalanceAfter,
		OccurredAt:            e.OccurredAt.UTC(),
		RefID:                 e.RefID[:],
	}
}

func (r *sqlLedgerEntry) toDomain() (*domain.LedgerEntry, error) {
	refID, err := uuid.FromBytes(r.RefID)
	if err != nil {
		return nil, err
	}
	return &domain.LedgerEntry{
		ID:                    r.ID,
		AccountID:             r.AccountID,
		CounterpartyAccountID: r.CounterpartyAccountID,
		Type:                  domain.TransactionType(r.Type),
		Amount:                r.Amount,
		FeeAmount:             r.FeeAmount,
		BalanceAfter:          r.BalanceAfter,
		OccurredAt:            r.OccurredAt,
		RefID:                 refID,
	}, nil
}
