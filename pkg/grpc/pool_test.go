package grpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ReusesConnection(t *testing.T) {
	pool := NewPool()
	defer pool.Close()

	first, err := pool.GetConnection("localhost:50051")
	require.NoError(t, err)
	second, err := pool.GetConnection("localhost:50051")
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := pool.GetConnection("localhost:50052")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestPool_ReplacesClosedConnection(t *testing.T) {
	pool := NewPool()
	defer pool.Close()

	first, err := pool.GetConnection("localhost:50051")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := pool.GetConnection("localhost:50051")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
