package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
)

func TestTransactionQueryService_Latest(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	s.open(t, "A", 0)

	for i := 0; i < 3; i++ {
		s.clock.Set(testNow.Add(time.Duration(i) * time.Minute))
		_, err := s.money.Deposit(ctx, "A", int64(i+1))
		require.NoError(t, err)
	}

	entries, err := s.query.Latest(ctx, "A", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(3), entries[0].Amount)
	assert.Equal(t, int64(2), entries[1].Amount)
}

func TestTransactionQueryService_SizeBounds(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	s.open(t, "A", 0)

	for j := 0; j < usecase.MaxQuerySize+5; j++ {
		_, err := s.money.Deposit(ctx, "A", 1)
		require.NoError(t, err)
	}

	entries, err := s.query.Latest(ctx, "A", 0)
	require.NoError(t, err)
	assert.Len(t, entries, usecase.DefaultQuerySize)

	entries, err = s.query.Latest(ctx, "A", 1_000)
	require.NoError(t, err)
	assert.Len(t, entries, usecase.MaxQuerySize)
	assert.Equal(t, domain.TransactionTypeDeposit, entries[0].Type)
	assert.Equal(t, int64(usecase.MaxQuerySize+5), entries[0].BalanceAfter)
}

func TestTransactionQueryService_NotFound(t *testing.T) {
	s := newServices(t)

	_, err := s.query.Latest(context.Background(), "missing", 10)

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
