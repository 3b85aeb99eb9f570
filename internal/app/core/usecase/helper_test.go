package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-remittance/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type services struct {
	repo       *lockRecorder
	accounts   *usecase.AccountService
	money      *usecase.MoneyService
	remittance *usecase.RemittanceService
	query      *usecase.TransactionQueryService
	clock      *manualClock
}

func newServices(t *testing.T) *services {
	t.Helper()
	store, err := memory.NewStore(nil)
	require.NoError(t, err)

	repo := &lockRecorder{inner: store}
	clock := &manualClock{now: testNow}
	return &services{
		repo:       repo,
		accounts:   usecase.NewAccountService(repo),
		money:      usecase.NewMoneyService(repo, clock),
		remittance: usecase.NewRemittanceService(repo, domain.NewPercentFeePolicy(domain.DefaultFeePercent), clock),
		query:      usecase.NewTransactionQueryService(repo),
		clock:      clock,
	}
}

// open 開戶並存入 balance
func (s *services) open(t *testing.T, accountNo string, balance int64) *usecase.CreateAccountResult {
	t.Helper()
	ctx := context.Background()
	created, err := s.accounts.Create(ctx, accountNo)
	require.NoError(t, err)
	if balance > 0 {
		_, err = s.money.Deposit(ctx, accountNo, balance)
		require.NoError(t, err)
	}
	return created
}

func (s *services) balance(t *testing.T, accountNo string) int64 {
	t.Helper()
	got, err := s.accounts.Get(context.Background(), accountNo)
	require.NoError(t, err)
	return got.Balance
}

func (s *services) entries(t *testing.T, accountNo string) []*domain.LedgerEntry {
	t.Helper()
	entries, err := s.query.Latest(context.Background(), accountNo, usecase.MaxQuerySize)
	require.NoError(t, err)
	return entries
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// lockRecorder 記錄每個 unit of work 上鎖的帳戶順序
type lockRecorder struct {
	inner usecase.Repository

	mu    sync.Mutex
	locks [][]int64
}

func (r *lockRecorder) Transact(ctx context.Context, fn func(tx usecase.Tx) error) error {
	var order []int64
	defer func() {
		r.mu.Lock()
		r.locks = append(r.locks, order)
		r.mu.Unlock()
	}()
	return r.inner.Transact(ctx, func(tx usecase.Tx) error {
		return fn(recordingTx{Tx: tx, order: &order})
	})
}

func (r *lockRecorder) lastLocks() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.locks) == 0 {
		return nil
	}
	return r.locks[len(r.locks)-1]
}

type recordingTx struct {
	usecase.Tx
	order *[]int64
}

func (t recordingTx) Accounts() usecase.AccountStore {
	return recordingAccounts{AccountStore: t.Tx.Accounts(), order: t.order}
}

type recordingAccounts struct {
	usecase.AccountStore
	order *[]int64
}

func (a recordingAccounts) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Account, error) {
	*a.order = append(*a.order, id)
	return a.AccountStore.FindByIDForUpdate(ctx, id)
}
