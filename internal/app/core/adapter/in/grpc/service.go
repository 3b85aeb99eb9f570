package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName 完整服務名稱
const ServiceName = protoPackage + ".RemittanceService"

const (
	methodCreateAccount    = "CreateAccount"
	methodDeleteAccount    = "DeleteAccount"
	methodGetAccount       = "GetAccount"
	methodDeposit          = "Deposit"
	methodWithdraw         = "Withdraw"
	methodRemit            = "Remit"
	methodListTransactions = "ListTransactions"
)

// RemittanceServer 服務端介面
type RemittanceServer interface {
	CreateAccount(context.Context, *CreateAccountRequest) (*CreateAccountResponse, error)
	DeleteAccount(context.Context, *AccountRequest) (*DeleteAccountResponse, error)
	GetAccount(context.Context, *AccountRequest) (*AccountResponse, error)
	Deposit(context.Context, *AmountRequest) (*BalanceResponse, error)
	Withdraw(context.Context, *AmountRequest) (*BalanceResponse, error)
	Remit(context.Context, *RemitRequest) (*RemitResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
}

// ServiceDesc 對應 File 中的 RemittanceService，訊息走 grpc 預設的 proto codec
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RemittanceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodCreateAccount, Handler: unaryHandler(methodCreateAccount, RemittanceServer.CreateAccount)},
		{MethodName: methodDeleteAccount, Handler: unaryHandler(methodDeleteAccount, RemittanceServer.DeleteAccount)},
		{MethodName: methodGetAccount, Handler: unaryHandler(methodGetAccount, RemittanceServer.GetAccount)},
		{MethodName: methodDeposit, Handler: unaryHandler(methodDeposit, RemittanceServer.Deposit)},
		{MethodName: methodWithdraw, Handler: unaryHandler(methodWithdraw, RemittanceServer.Withdraw)},
		{MethodName: methodRemit, Handler: unaryHandler(methodRemit, RemittanceServer.Remit)},
		{MethodName: methodListTransactions, Handler: unaryHandler(methodListTransactions, RemittanceServer.ListTransactions)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "remittance/v1/remittance.proto",
}

// RegisterRemittanceServer 註冊服務
func RegisterRemittanceServer(s grpc.ServiceRegistrar, srv RemittanceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryHandler 將請求解碼成 protobuf 訊息並轉成 Req 後呼叫 call，有攔截器時經過攔截器
//
// 攔截器看到的 req 是 *Req，回傳給 grpc 的是轉換後的 protobuf 訊息。
func unaryHandler[Req, Resp any, PReq wirePtr[Req], PResp wirePtr[Resp]](method string, call func(RemittanceServer, context.Context, PReq) (PResp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		msg := newMessage(in)
		if err := dec(msg); err != nil {
			return nil, err
		}
		fromMessage(msg, in)

		invoke := func(ctx context.Context, req PReq) (any, error) {
			resp, err := call(srv.(RemittanceServer), ctx, req)
			if err != nil {
				return nil, err
			}
			return toMessage(resp), nil
		}
		if interceptor == nil {
			return invoke(ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return invoke(ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}
