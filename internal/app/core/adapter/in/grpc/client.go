package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
)

// Client RemittanceService 的客戶端
//
// 服務端回傳領域錯誤時，Client 會還原成對應的 domain.Error，
// 呼叫端可以直接用 errors.Is(err, domain.ErrInsufficientBalance) 判斷。
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient 建立客戶端，conn 通常來自 pkg/grpc.Pool
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{
		conn: conn,
	}
}

func (c *Client) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*CreateAccountResponse, error) {
	resp := new(CreateAccountResponse)
	if err := c.invoke(ctx, methodCreateAccount, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) DeleteAccount(ctx context.Context, req *AccountRequest) (*DeleteAccountResponse, error) {
	resp := new(DeleteAccountResponse)
	if err := c.invoke(ctx, methodDeleteAccount, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetAccount(ctx context.Context, req *AccountRequest) (*AccountResponse, error) {
	resp := new(AccountResponse)
	if err := c.invoke(ctx, methodGetAccount, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Deposit(ctx context.Context, req *AmountRequest) (*BalanceResponse, error) {
	resp := new(BalanceResponse)
	if err := c.invoke(ctx, methodDeposit, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Withdraw(ctx context.Context, req *AmountRequest) (*BalanceResponse, error) {
	resp := new(BalanceResponse)
	if err := c.invoke(ctx, methodWithdraw, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Remit(ctx context.Context, req *RemitRequest) (*RemitResponse, error) {
	resp := new(RemitResponse)
	if err := c.invoke(ctx, methodRemit, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	resp := new(ListTransactionsResponse)
	if err := c.invoke(ctx, methodListTransactions, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// invoke 請求與回應都以 protobuf 訊息傳輸，成功後填回 resp
func (c *Client) invoke(ctx context.Context, method string, req, resp wireMessage) error {
	out := newMessage(resp)
	var trailer metadata.MD
	err := c.conn.Invoke(ctx, fullMethod(method), toMessage(req), out, grpc.Trailer(&trailer))
	if err == nil {
		fromMessage(out, resp)
		return nil
	}
	if values := trailer.Get(errorCodeKey); len(values) > 0 {
		if domainErr, ok := domain.ErrorOf(domain.ErrorCode(values[0])); ok {
			return domainErr
		}
	}
	return err
}

var _ RemittanceServer = (*Client)(nil)
