package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JoeShih716/go-remittance/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
	"github.com/JoeShih716/go-remittance/pkg/metrics"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, repo usecase.Repository) (*Client, *grpc.ClientConn) {
	t.Helper()
	clock := usecase.FixedClock(testNow)
	services := usecase.NewServices(repo, domain.NewPercentFeePolicy(domain.DefaultFeePercent), clock)

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryInterceptor(metrics.NewCollector(), zap.NewNop())))
	RegisterRemittanceServer(server, NewGrpcServer(services))
	go func() {
		_ = server.Serve(lis)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn), conn
}

func newMemoryClient(t *testing.T) *Client {
	t.Helper()
	store, err := memory.NewStore(nil)
	require.NoError(t, err)
	client, _ := newTestClient(t, store)
	return client
}

func TestGrpc_RemitFlow(t *testing.T) {
	client := newMemoryClient(t)
	ctx := context.Background()

	a, err := client.CreateAccount(ctx, &CreateAccountRequest{AccountNo: "A"})
	require.NoError(t, err)
	b, err := client.CreateAccount(ctx, &CreateAccountRequest{AccountNo: "B"})
	require.NoError(t, err)

	deposited, err := client.Deposit(ctx, &AmountRequest{AccountNo: "A", Amount: 200_000})
	require.NoError(t, err)
	assert.Equal(t, int64(200_000), deposited.Balance)

	remitted, err := client.Remit(ctx, &RemitRequest{FromAccountNo: "A", ToAccountNo: "B", Amount: 100_000})
	require.NoError(t, err)
	assert.Equal(t, a.AccountID, remitted.FromAccountID)
	assert.Equal(t, b.AccountID, remitted.ToAccountID)
	assert.Equal(t, int64(1_000), remitted.Fee)
	assert.Equal(t, int64(99_000), remitted.FromBalance)

	withdrawn, err := client.Withdraw(ctx, &AmountRequest{AccountNo: "B", Amount: 50_000})
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), withdrawn.Balance)

	listed, err := client.ListTransactions(ctx, &ListTransactionsRequest{AccountNo: "A"})
	require.NoError(t, err)
	require.Len(t, listed.Entries, 3)
	assert.Equal(t, "FEE", listed.Entries[0].Type)
	assert.Equal(t, "TRANSFER_OUT", listed.Entries[1].Type)
	assert.Equal(t, "DEPOSIT", listed.Entries[2].Type)
	assert.True(t, testNow.Equal(listed.Entries[1].OccurredAt))
	require.NotNil(t, listed.Entries[1].CounterpartyAccountID)
	assert.Equal(t, b.AccountID, *listed.Entries[1].CounterpartyAccountID)
	assert.Nil(t, listed.Entries[2].CounterpartyAccountID)
	assert.Equal(t, listed.Entries[0].RefID, listed.Entries[1].RefID)

	_, err = client.DeleteAccount(ctx, &AccountRequest{AccountNo: "B"})
	require.NoError(t, err)
	account, err := client.GetAccount(ctx, &AccountRequest{AccountNo: "B"})
	require.NoError(t, err)
	assert.Equal(t, "DELETED", account.Status)
}

func TestGrpc_DomainErrorsRoundTrip(t *testing.T) {
	client := newMemoryClient(t)
	ctx := context.Background()
	_, err := client.CreateAccount(ctx, &CreateAccountRequest{AccountNo: "A"})
	require.NoError(t, err)

	_, err = client.GetAccount(ctx, &AccountRequest{AccountNo: "missing"})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = client.Withdraw(ctx, &AmountRequest{AccountNo: "A", Amount: 10})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = client.Deposit(ctx, &AmountRequest{AccountNo: "A", Amount: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = client.Remit(ctx, &RemitRequest{FromAccountNo: "A", ToAccountNo: "A", Amount: 1})
	assert.ErrorIs(t, err, domain.ErrSameAccountTransfer)

	_, err = client.CreateAccount(ctx, &CreateAccountRequest{AccountNo: "A"})
	assert.ErrorIs(t, err, domain.ErrDuplicateAccountNo)
}

func TestGrpc_StatusCodes(t *testing.T) {
	store, err := memory.NewStore(nil)
	require.NoError(t, err)
	_, conn := newTestClient(t, store)
	ctx := context.Background()

	invoke := func(method string, req wireMessage) error {
		return conn.Invoke(ctx, fullMethod(method), toMessage(req), newMessage(&AccountResponse{}))
	}

	err = invoke(methodGetAccount, &AccountRequest{AccountNo: "missing"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	err = invoke(methodCreateAccount, &CreateAccountRequest{AccountNo: ""})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	require.NoError(t, invoke(methodCreateAccount, &CreateAccountRequest{AccountNo: "A"}))
	err = invoke(methodDeposit, &AmountRequest{AccountNo: "A", Amount: 0})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	err = invoke(methodWithdraw, &AmountRequest{AccountNo: "A", Amount: 1})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

type failingRepo struct{}

func (failingRepo) Transact(context.Context, func(tx usecase.Tx) error) error {
	return assert.AnError
}

func TestGrpc_InternalErrorHidesDetails(t *testing.T) {
	client, _ := newTestClient(t, failingRepo{})

	_, err := client.GetAccount(context.Background(), &AccountRequest{AccountNo: "A"})

	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.NotContains(t, status.Convert(err).Message(), assert.AnError.Error())
}
