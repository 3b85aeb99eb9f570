package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
	"github.com/JoeShih716/go-remittance/pkg/wal"
)

// Store 是一個記憶體內的儲存實作
//
// 結構:
//
//	accounts / limits / ledger: 已 commit 的狀態，由 mu 保護
//	rowLocks: 每個帳戶一把排他鎖 (容量 1 的 channel)，持有到 unit of work 結束
//	wal: Write-Ahead Log，每次 commit 先寫入 WAL 再套用到記憶體
type Store struct {
	mu        sync.RWMutex
	accounts  map[int64]*domain.Account
	byNo      map[string]int64
	limits    map[limitKey]*domain.DailyLimit
	ledger    map[int64][]*domain.LedgerEntry
	rowLocks  map[int64]chan struct{}
	lockMu    sync.Mutex
	sequences sequences
	// Write-Ahead Logging，nil 表示不落地
	wal *wal.WAL
}

type limitKey struct {
	AccountID int64
	Date      string
}

func keyOf(accountID int64, date time.Time) limitKey {
	return limitKey{AccountID: accountID, Date: domain.DateOf(date).Format(time.DateOnly)}
}

// commitRecord 一個 unit of work 的所有寫入，也是 WAL 的一筆資料
type commitRecord struct {
	Accounts []*domain.Account     `json:"accounts,omitempty"`
	Limits   []*domain.DailyLimit  `json:"limits,omitempty"`
	Entries  []*domain.LedgerEntry `json:"entries,omitempty"`
}

// NewStore 建立一個新的 Store 實例，並從 WAL 恢復狀態
//
// 參數:
//
//	wal: Write-Ahead Log 實例，可為 nil
//
// 回傳:
//
//	*Store: Store 實例
//	error: 初始化錯誤 (如 WAL 恢復失敗)
func NewStore(wal *wal.WAL) (*Store, error) {
	store := &Store{
		accounts: make(map[int64]*domain.Account),
		byNo:     make(map[string]int64),
		limits:   make(map[limitKey]*domain.DailyLimit),
		ledger:   make(map[int64][]*domain.LedgerEntry),
		rowLocks: make(map[int64]chan struct{}),
		wal:      wal,
	}
	if err := store.recoverFromWAL(); err != nil {
		return nil, err
	}
	return store, nil
}

// recoverFromWAL 從 WAL 檔案依序重放已 commit 的寫入
// 只有 NewStore 呼叫，無需 Lock (單執行緒)
func (s *Store) recoverFromWAL() error {
	if s.wal == nil {
		return nil
	}
	return s.wal.ReadAll(func(jsonRaw []byte) error {
		var record commitRecord
		if err := json.Unmarshal(jsonRaw, &record); err != nil {
			return fmt.Errorf("decode wal record: %w", err)
		}
		s.apply(&record)
		return nil
	})
}

// Transact implements usecase.Repository.
//
// fn 內的寫入先暫存在 tx，fn 成功後才一次 commit；
// fn 回傳 error 或 commit 失敗時暫存直接丟棄。
// 不論結果如何，tx 取得的帳戶鎖都在 Transact 回傳前釋放。
func (s *Store) Transact(ctx context.Context, fn func(tx usecase.Tx) error) error {
	t := newTx(s)
	defer t.release()

	if err := fn(t); err != nil {
		return err
	}
	return s.commit(t)
}

// commit 檢查帳號唯一 -> 寫入 WAL (Critical Path) -> 套用到記憶體
func (s *Store) commit(t *tx) error {
	record := t.record()
	if record == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range record.Accounts {
		if id, ok := s.byNo[acc.AccountNo]; ok && id != acc.ID {
			return domain.ErrDuplicateAccountNo
		}
	}

	if s.wal != nil {
		if err := s.wal.Write(record); err != nil {
			return fmt.Errorf("write wal: %w", err)
		}
	}

	s.apply(record)
	return nil
}

// apply 將一筆 commit 套用到記憶體，呼叫端負責鎖
func (s *Store) apply(record *commitRecord) {
	for _, acc := range record.Accounts {
		s.accounts[acc.ID] = acc
		s.byNo[acc.AccountNo] = acc.ID
		s.sequences.observeAccount(acc.ID)
	}
	for _, limit := range record.Limits {
		s.limits[keyOf(limit.AccountID, limit.Date)] = limit
		s.sequences.observeLimit(limit.ID)
	}
	for _, entry := range record.Entries {
		s.ledger[entry.AccountID] = append(s.ledger[entry.AccountID], entry)
		s.sequences.observeEntry(entry.ID)
	}
}

// rowLock 取得 (或建立) 帳戶的排他鎖
func (s *Store) rowLock(accountID int64) chan struct{} {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.rowLocks[accountID]
	if !ok {
		l = make(chan struct{}, 1)
		s.rowLocks[accountID] = l
	}
	return l
}

func (s *Store) committedAccount(id int64) (*domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, false
	}
	copied := *acc
	return &copied, true
}

func (s *Store) committedAccountByNo(accountNo string) (*domain.Account, bool) {
	s.mu.RLock()
	id, ok := s.byNo[accountNo]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return s.committedAccount(id)
}

func (s *Store) committedLimit(key limitKey) (*domain.DailyLimit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit, ok := s.limits[key]
	if !ok {
		return nil, false
	}
	copied := *limit
	return &copied, true
}

// latest 已 commit 的帳本紀錄，最新的在前
func (s *Store) latest(accountID int64, size int) []*domain.LedgerEntry {
	s.mu.RLock()
	entries := slices.Clone(s.ledger[accountID])
	s.mu.RUnlock()

	slices.SortFunc(entries, domain.SortLatestFirst)
	if len(entries) > size {
		entries = entries[:size]
	}

	result := make([]*domain.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		copied := *e
		result = append(result, &copied)
	}
	return result
}

var _ usecase.Repository = (*Store)(nil)
