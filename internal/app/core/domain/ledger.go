package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType 交易類型
type TransactionType string

const (
	// 存款
	TransactionTypeDeposit TransactionType = "DEPOSIT"
	// 提款
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	// 轉出 (付款方)
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
	// 轉入 (收款方)
	TransactionTypeTransferIn TransactionType = "TRANSFER_IN"
	// 手續費 (付款方)，已包含在轉出那一次扣款裡
	TransactionTypeFee TransactionType = "FEE"
)

// LedgerEntry 帳本紀錄，建立後不可修改或刪除
//
// 每一筆餘額異動都在同一個 unit of work 內寫入一筆 (轉帳寫三筆)。
// BalanceAfter 是該事件套用後帳戶已持久化的餘額。
type LedgerEntry struct {
	// ID: 儲存時分配，單調遞增
	ID int64
	// AccountID: 紀錄歸屬的帳戶
	AccountID int64
	// CounterpartyAccountID: 只有 TRANSFER_OUT / TRANSFER_IN / FEE 才有
	CounterpartyAccountID *int64
	Type                  TransactionType
	// Amount: 移動的本金，FEE 為 0
	Amount int64
	// FeeAmount: 只有 FEE 不為 0
	FeeAmount    int64
	BalanceAfter int64
	OccurredAt   time.Time
	// RefID: 同一個 unit of work 寫出的紀錄共用
	RefID uuid.UUID
}

// NewDepositEntry 存款紀錄
func NewDepositEntry(refID uuid.UUID, accountID, amount, balanceAfter int64, at time.Time) *LedgerEntry {
	return &LedgerEntry{
		AccountID:    accountID,
		Type:         TransactionTypeDeposit,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		OccurredAt:   at,
		RefID:        refID,
	}
}

// NewWithdrawEntry 提款紀錄
func NewWithdrawEntry(refID uuid.UUID, accountID, amount, balanceAfter int64, at time.Time) *LedgerEntry {
	return &LedgerEntry{
		AccountID:    accountID,
		Type:         TransactionTypeWithdraw,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		OccurredAt:   at,
		RefID:        refID,
	}
}

// NewTransferEntries 轉帳的三筆紀錄: TRANSFER_OUT, FEE, TRANSFER_IN，共用同一個時間戳
//
// 手續費已經併入付款方那一次扣款 (amount + fee)，所以 FEE 的 BalanceAfter 與 TRANSFER_OUT 相同。
func NewTransferEntries(refID uuid.UUID, from, to *Account, amount, fee int64, at time.Time) []*LedgerEntry {
	fromID, toID := from.ID, to.ID
	return []*LedgerEntry{
		{
			AccountID:             from.ID,
			CounterpartyAccountID: &toID,
			Type:                  TransactionTypeTransferOut,
			Amount:                amount,
			BalanceAfter:          from.Balance,
			OccurredAt:            at,
			RefID:                 refID,
		},
		{
			AccountID:             from.ID,
			CounterpartyAccountID: &toID,
			Type:                  TransactionTypeFee,
			FeeAmount:             fee,
			BalanceAfter:          from.Balance,
			OccurredAt:            at,
			RefID:                 refID,
		},
		{
			AccountID:             to.ID,
			CounterpartyAccountID: &fromID,
			Type:                  TransactionTypeTransferIn,
			Amount:                amount,
			BalanceAfter:          to.Balance,
			OccurredAt:            at,
			RefID:                 refID,
		},
	}
}

// SortLatestFirst 最新的排前面: OccurredAt 降冪，相同時以 ID 降冪
func SortLatestFirst(a, b *LedgerEntry) int {
	if c := b.OccurredAt.Compare(a.OccurredAt); c != 0 {
		return c
	}
	switch {
	case a.ID > b.ID:
		return -1
	case a.ID < b.ID:
		return 1
	}
	return 0
}
