package rabbitmq

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
)

// EventPublisher 發佈已 commit 的帳本紀錄
type EventPublisher interface {
	Publish(ctx context.Context, entries []*domain.LedgerEntry) error
}

// PublishingRepository 在 unit of work commit 成功後發佈該次寫入的帳本紀錄
//
// rollback 的紀錄不會發佈。發佈失敗只記錄 log，不影響已 commit 的交易。
//
// 發佈發生在 inner.Transact 回傳之後，此時帳戶鎖已釋放，
// 同一帳戶前後兩個 unit of work 的事件到達順序可能與 commit 順序相反。
// 同一帳戶的 EntryID 依 commit 順序遞增，消費端需依 (AccountID, EntryID) 排序。
type PublishingRepository struct {
	inner     usecase.Repository
	publisher EventPublisher
	log       *zap.Logger
}

func NewPublishingRepository(inner usecase.Repository, publisher EventPublisher, log *zap.Logger) *PublishingRepository {
	return &PublishingRepository{
		inner:     inner,
		publisher: publisher,
		log:       log,
	}
}

// Transact implements usecase.Repository.
func (r *PublishingRepository) Transact(ctx context.Context, fn func(tx usecase.Tx) error) error {
	captured := &capturedEntries{}
	err := r.inner.Transact(ctx, func(tx usecase.Tx) error {
		return fn(&capturingTx{Tx: tx, captured: captured})
	})
	if err != nil {
		return err
	}

	entries := captured.list()
	if len(entries) == 0 {
		return nil
	}
	if err := r.publisher.Publish(context.WithoutCancel(ctx), entries); err != nil {
		r.log.Error("failed to publish ledger entries",
			zap.String("ref_id", entries[0].RefID.String()),
			zap.Int("entries", len(entries)),
			zap.Error(err),
		)
	}
	return nil
}

type capturedEntries struct {
	mu      sync.Mutex
	entries []*domain.LedgerEntry
}

func (c *capturedEntries) add(e *domain.LedgerEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

func (c *capturedEntries) list() []*domain.LedgerEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries
}

type capturingTx struct {
	usecase.Tx
	captured *capturedEntries
}

func (t *capturingTx) Ledger() usecase.LedgerStore {
	return &capturingLedger{LedgerStore: t.Tx.Ledger(), captured: t.captured}
}

type capturingLedger struct {
	usecase.LedgerStore
	captured *capturedEntries
}

func (l *capturingLedger) Save(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	saved, err := l.LedgerStore.Save(ctx, entry)
	if err != nil {
		return nil, err
	}
	l.captured.add(saved)
	return saved, nil
}

var _ usecase.Repository = (*PublishingRepository)(nil)
