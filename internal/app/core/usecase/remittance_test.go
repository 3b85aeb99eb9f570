package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
)

func TestRemittanceService_Remit(t *testing.T) {
	s := newServices(t)
	a := s.open(t, "A", 200_000)
	b := s.open(t, "B", 0)

	result, err := s.remittance.Remit(context.Background(), "A", "B", 100_000)
	require.NoError(t, err)

	assert.Equal(t, int64(1_000), result.Fee)
	assert.Equal(t, int64(99_000), result.FromBalance)
	assert.Equal(t, int64(100_000), result.ToBalance)
	assert.Equal(t, a.AccountID, result.FromAccountID)
	assert.Equal(t, b.AccountID, result.ToAccountID)
	assert.Equal(t, int64(99_000), s.balance(t, "A"))
	assert.Equal(t, int64(100_000), s.balance(t, "B"))

	fromEntries := s.entries(t, "A")
	require.Len(t, fromEntries, 3)
	toEntries := s.entries(t, "B")
	require.Len(t, toEntries, 1)

	// 同一時間戳時 ID 大的在前: FEE, TRANSFER_OUT, DEPOSIT
	fee, out := fromEntries[0], fromEntries[1]
	in := toEntries[0]
	assert.Equal(t, domain.TransactionTypeFee, fee.Type)
	assert.Equal(t, int64(1_000), fee.FeeAmount)
	assert.Zero(t, fee.Amount)
	assert.Equal(t, domain.TransactionTypeTransferOut, out.Type)
	assert.Equal(t, int64(100_000), out.Amount)
	assert.Equal(t, int64(99_000), out.BalanceAfter)
	assert.Equal(t, int64(99_000), fee.BalanceAfter)
	assert.Equal(t, domain.TransactionTypeTransferIn, in.Type)
	assert.Equal(t, int64(100_000), in.BalanceAfter)

	require.NotNil(t, out.CounterpartyAccountID)
	assert.Equal(t, b.AccountID, *out.CounterpartyAccountID)
	require.NotNil(t, in.CounterpartyAccountID)
	assert.Equal(t, a.AccountID, *in.CounterpartyAccountID)

	assert.Equal(t, out.RefID, fee.RefID)
	assert.Equal(t, out.RefID, in.RefID)
	assert.True(t, out.OccurredAt.Equal(in.OccurredAt))
}

func TestRemittanceService_SameAccount(t *testing.T) {
	s := newServices(t)

	_, err := s.remittance.Remit(context.Background(), "A", "A", 100)

	assert.ErrorIs(t, err, domain.ErrSameAccountTransfer)
}

func TestRemittanceService_InsufficientIncludesFee(t *testing.T) {
	s := newServices(t)
	s.open(t, "A", 100_000)
	s.open(t, "B", 0)

	_, err := s.remittance.Remit(context.Background(), "A", "B", 100_000)

	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, int64(100_000), s.balance(t, "A"))
	assert.Zero(t, s.balance(t, "B"))
	assert.Len(t, s.entries(t, "A"), 1)
	assert.Empty(t, s.entries(t, "B"))
}

func TestRemittanceService_InactiveCounterparty(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	s.open(t, "A", 4_000_000)
	s.open(t, "B", 0)
	s.open(t, "C", 0)
	require.NoError(t, s.accounts.Delete(ctx, "B"))
	before := len(s.entries(t, "A"))

	_, err := s.remittance.Remit(ctx, "A", "B", 1_000)

	require.ErrorIs(t, err, domain.ErrAccountInactive)
	assert.Equal(t, int64(4_000_000), s.balance(t, "A"))
	assert.Len(t, s.entries(t, "A"), before)
	assert.Empty(t, s.entries(t, "B"))

	// 失敗的轉帳不可佔用額度，整天額度仍可一次用完
	_, err = s.remittance.Remit(ctx, "A", "C", domain.TransferDailyLimit)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferDailyLimit, s.balance(t, "C"))
}

func TestRemittanceService_NotFound(t *testing.T) {
	s := newServices(t)
	s.open(t, "A", 10_000)

	_, err := s.remittance.Remit(context.Background(), "A", "missing", 1_000)

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestRemittanceService_TransferLimitCountsPrincipal(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	s.open(t, "A", 4_000_000)
	s.open(t, "B", 0)

	// 3,000,000 本金 + 30,000 手續費，額度只累計本金
	_, err := s.remittance.Remit(ctx, "A", "B", 3_000_000)
	require.NoError(t, err)
	assert.Equal(t, int64(970_000), s.balance(t, "A"))

	_, err = s.remittance.Remit(ctx, "A", "B", 1)
	require.ErrorIs(t, err, domain.ErrTransferDailyLimitExceeded)
	assert.Equal(t, int64(970_000), s.balance(t, "A"))
}

func TestRemittanceService_LocksInAscendingIDOrder(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := s.open(t, "A", 10_000)
	b := s.open(t, "B", 10_000)
	require.Less(t, a.AccountID, b.AccountID)

	_, err := s.remittance.Remit(ctx, "B", "A", 1_000)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.AccountID, b.AccountID}, s.repo.lastLocks())

	_, err = s.remittance.Remit(ctx, "A", "B", 1_000)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.AccountID, b.AccountID}, s.repo.lastLocks())
}

func TestRemittanceService_ConcurrentOppositeDirections(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	const initial = int64(1_000_000)
	s.open(t, "A", initial)
	s.open(t, "B", initial)

	const rounds = 50
	var wg sync.WaitGroup
	fees := make(chan int64, rounds*2)
	for r := 0; r < rounds; r++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			result, err := s.remittance.Remit(ctx, "A", "B", 1_000)
			if assert.NoError(t, err) {
				fees <- result.Fee
			}
		}()
		go func() {
			defer wg.Done()
			result, err := s.remittance.Remit(ctx, "B", "A", 1_000)
			if assert.NoError(t, err) {
				fees <- result.Fee
			}
		}()
	}
	wg.Wait()
	close(fees)

	var totalFee int64
	for fee := range fees {
		totalFee += fee
	}
	assert.Equal(t, int64(rounds*2*10), totalFee)
	assert.Equal(t, 2*initial-totalFee, s.balance(t, "A")+s.balance(t, "B"))
}

func TestRemittanceService_RemitFromFunded(t *testing.T) {
	s := newServices(t)
	s.open(t, "A", 1_000_000)
	s.open(t, "B", 0)

	result, err := s.remittance.Remit(context.Background(), "A", "B", 100_000)
	require.NoError(t, err)

	assert.Equal(t, int64(1_000), result.Fee)
	assert.Equal(t, int64(899_000), result.FromBalance)
	assert.Equal(t, int64(100_000), result.ToBalance)

	fromEntries := s.entries(t, "A")
	require.Len(t, fromEntries, 3)
	assert.Equal(t, int64(899_000), fromEntries[0].BalanceAfter)
	assert.Equal(t, int64(899_000), fromEntries[1].BalanceAfter)
}

func TestRemittanceService_TransferDailyLimit(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	s.open(t, "A", 5_000_000)
	s.open(t, "B", 0)

	_, err := s.remittance.Remit(ctx, "A", "B", 2_000_000)
	require.NoError(t, err)

	_, err = s.remittance.Remit(ctx, "A", "B", 1_500_000)
	require.ErrorIs(t, err, domain.ErrTransferDailyLimitExceeded)
	assert.Equal(t, int64(2_000_000), s.balance(t, "B"))

	_, err = s.remittance.Remit(ctx, "A", "B", 1_000_000)
	require.NoError(t, err, "exactly reaching the limit is allowed")
	assert.Equal(t, int64(3_000_000), s.balance(t, "B"))
	assert.Equal(t, int64(5_000_000-3_000_000-30_000), s.balance(t, "A"))
}
