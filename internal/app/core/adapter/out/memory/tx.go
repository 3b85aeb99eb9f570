package memory

import (
	"context"
	"time"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
)

// tx 一個 unit of work
//
// 寫入先暫存在 tx，讀取時優先回傳暫存值 (read your own writes)。
// held 記錄此 tx 持有的帳戶鎖，同一個帳戶重複上鎖不會阻塞。
type tx struct {
	store *Store
	held  map[int64]chan struct{}

	accounts     map[int64]*domain.Account
	accountOrder []int64
	limits       map[limitKey]*domain.DailyLimit
	limitOrder   []limitKey
	entries      []*domain.LedgerEntry
}

func newTx(store *Store) *tx {
	return &tx{
		store:    store,
		held:     make(map[int64]chan struct{}),
		accounts: make(map[int64]*domain.Account),
		limits:   make(map[limitKey]*domain.DailyLimit),
	}
}

func (t *tx) Accounts() usecase.AccountStore       { return accountStore{t} }
func (t *tx) DailyLimits() usecase.DailyLimitStore { return limitStore{t} }
func (t *tx) Ledger() usecase.LedgerStore          { return ledgerStore{t} }

// lock 取得帳戶排他鎖，等待期間可被 ctx 取消
func (t *tx) lock(ctx context.Context, accountID int64) error {
	if _, ok := t.held[accountID]; ok {
		return nil
	}
	l := t.store.rowLock(accountID)
	select {
	case l <- struct{}{}:
		t.held[accountID] = l
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release 釋放所有持有的鎖
func (t *tx) release() {
	for id, l := range t.held {
		<-l
		delete(t.held, id)
	}
}

// record 組出要 commit 的寫入，沒有寫入時回傳 nil
func (t *tx) record() *commitRecord {
	if len(t.accountOrder) == 0 && len(t.limitOrder) == 0 && len(t.entries) == 0 {
		return nil
	}
	record := &commitRecord{Entries: t.entries}
	for _, id := range t.accountOrder {
		record.Accounts = append(record.Accounts, t.accounts[id])
	}
	for _, key := range t.limitOrder {
		record.Limits = append(record.Limits, t.limits[key])
	}
	return record
}

type accountStore struct{ t *tx }

func (s accountStore) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	if acc, ok := s.t.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	if acc, ok := s.t.store.committedAccount(id); ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (s accountStore) FindByAccountNo(ctx context.Context, accountNo string) (*domain.Account, error) {
	for _, acc := range s.t.accounts {
		if acc.AccountNo == accountNo {
			copied := *acc
			return &copied, nil
		}
	}
	if acc, ok := s.t.store.committedAccountByNo(accountNo); ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

// FindByIDForUpdate 帳戶不存在時不上鎖 (帳戶只做軟刪除，不會消失)
func (s accountStore) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Account, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.t.lock(ctx, id); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

func (s accountStore) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	copied := *account
	if copied.ID == 0 {
		if _, ok := s.t.store.committedAccountByNo(copied.AccountNo); ok {
			return nil, domain.ErrDuplicateAccountNo
		}
		copied.ID = s.t.store.sequences.nextAccount()
	}
	if _, ok := s.t.accounts[copied.ID]; !ok {
		s.t.accountOrder = append(s.t.accountOrder, copied.ID)
	}
	s.t.accounts[copied.ID] = &copied

	saved := copied
	return &saved, nil
}

type limitStore struct{ t *tx }

func (s limitStore) GetOrCreate(ctx context.Context, accountID int64, date time.Time) (*domain.DailyLimit, error) {
	key := keyOf(accountID, date)
	if limit, ok := s.t.limits[key]; ok {
		copied := *limit
		return &copied, nil
	}
	if limit, ok := s.t.store.committedLimit(key); ok {
		return limit, nil
	}
	return domain.NewDailyLimit(accountID, date), nil
}

func (s limitStore) Save(ctx context.Context, limit *domain.DailyLimit) (*domain.DailyLimit, error) {
	copied := *limit
	if copied.ID == 0 {
		copied.ID = s.t.store.sequences.nextLimit()
	}
	key := keyOf(copied.AccountID, copied.Date)
	if _, ok := s.t.limits[key]; !ok {
		s.t.limitOrder = append(s.t.limitOrder, key)
	}
	s.t.limits[key] = &copied

	saved := copied
	return &saved, nil
}

type ledgerStore struct{ t *tx }

func (s ledgerStore) Save(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	copied := *entry
	copied.ID = s.t.store.sequences.nextEntry()
	s.t.entries = append(s.t.entries, &copied)

	saved := copied
	return &saved, nil
}

// FindLatestByAccountID 只讀已 commit 的紀錄
func (s ledgerStore) FindLatestByAccountID(ctx context.Context, accountID int64, size int) ([]*domain.LedgerEntry, error) {
	return s.t.store.latest(accountID, size), nil
}

var (
	_ usecase.Tx              = (*tx)(nil)
	_ usecase.AccountStore    = accountStore{}
	_ usecase.DailyLimitStore = limitStore{}
	_ usecase.LedgerStore     = ledgerStore{}
)
