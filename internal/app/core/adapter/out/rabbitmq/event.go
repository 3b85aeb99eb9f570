package rabbitmq

import (
	"strings"
	"time"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
)

// LedgerEvent 已 commit 的帳本紀錄，發佈到 exchange 的訊息內容
// 同一帳戶的 EntryID 依 commit 順序遞增，可用來還原順序
type LedgerEvent struct {
	EntryID               int64     `json:"entryId"`
	RefID                 string    `json:"refId"`
	AccountID             int64     `json:"accountId"`
	CounterpartyAccountID *int64    `json:"counterpartyAccountId,omitempty"`
	Type                  string    `json:"type"`
	Amount                int64     `json:"amount"`
	FeeAmount             int64     `json:"feeAmount"`
	BalanceAfter          int64     `json:"balanceAfter"`
	OccurredAt            time.Time `json:"occurredAt"`
}

func newLedgerEvent(e *domain.LedgerEntry) LedgerEvent {
	return LedgerEvent{
		EntryID:               e.ID,
		RefID:                 e.RefID.String(),
		AccountID:             e.AccountID,
		CounterpartyAccountID: e.CounterpartyAccountID,
		Type:                  string(e.Type),
		Amount:                e.Amount,
		FeeAmount:             e.FeeAmount,
		BalanceAfter:          e.BalanceAfter,
		OccurredAt:            e.OccurredAt,
	}
}

// routingKey ledger.<type>，例如 ledger.transfer_out
func routingKey(t domain.TransactionType) string {
	return "ledger." + strings.ToLower(string(t))
}
