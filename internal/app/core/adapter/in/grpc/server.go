package grpc

import (
	"context"
	"strings"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
)

type GrpcServer struct {
	services usecase.Services
}

func NewGrpcServer(services usecase.Services) *GrpcServer {
	return &GrpcServer{
		services: services,
	}
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*CreateAccountResponse, error) {
	accountNo := strings.TrimSpace(req.AccountNo)
	if accountNo == "" {
		return nil, errValidation("accountNo is required")
	}

	result, err := s.services.Accounts.Create(ctx, accountNo)
	if err != nil {
		return nil, err
	}
	return &CreateAccountResponse{AccountID: result.AccountID, AccountNo: result.AccountNo}, nil
}

func (s *GrpcServer) DeleteAccount(ctx context.Context, req *AccountRequest) (*DeleteAccountResponse, error) {
	if err := s.services.Accounts.Delete(ctx, req.AccountNo); err != nil {
		return nil, err
	}
	return &DeleteAccountResponse{}, nil
}

func (s *GrpcServer) GetAccount(ctx context.Context, req *AccountRequest) (*AccountResponse, error) {
	result, err := s.services.Accounts.Get(ctx, req.AccountNo)
	if err != nil {
		return nil, err
	}
	return &AccountResponse{
		AccountID: result.AccountID,
		AccountNo: result.AccountNo,
		Status:    string(result.Status),
		Balance:   result.Balance,
	}, nil
}

func (s *GrpcServer) Deposit(ctx context.Context, req *AmountRequest) (*BalanceResponse, error) {
	result, err := s.services.Money.Deposit(ctx, req.AccountNo, req.Amount)
	if err != nil {
		return nil, err
	}
	return toBalanceResponse(result), nil
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *AmountRequest) (*BalanceResponse, error) {
	result, err := s.services.Money.Withdraw(ctx, req.AccountNo, req.Amount)
	if err != nil {
		return nil, err
	}
	return toBalanceResponse(result), nil
}

func (s *GrpcServer) Remit(ctx context.Context, req *RemitRequest) (*RemitResponse, error) {
	if req.FromAccountNo == "" || req.ToAccountNo == "" {
		return nil, errValidation("fromAccountNo and toAccountNo are required")
	}

	result, err := s.services.Remittance.Remit(ctx, req.FromAccountNo, req.ToAccountNo, req.Amount)
	if err != nil {
		return nil, err
	}
	return &RemitResponse{
		FromAccountID: result.FromAccountID,
		FromAccountNo: result.FromAccountNo,
		ToAccountID:   result.ToAccountID,
		ToAccountNo:   result.ToAccountNo,
		Amount:        result.Amount,
		Fee:           result.Fee,
		FromBalance:   result.FromBalance,
		ToBalance:     result.ToBalance,
	}, nil
}

func (s *GrpcServer) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	entries, err := s.services.Transaction.Latest(ctx, req.AccountNo, int(req.Size))
	if err != nil {
		return nil, err
	}

	resp := &ListTransactionsResponse{Entries: make([]LedgerEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toLedgerEntry(e))
	}
	return resp, nil
}

func toBalanceResponse(r *usecase.BalanceResult) *BalanceResponse {
	return &BalanceResponse{
		AccountID: r.AccountID,
		AccountNo: r.AccountNo,
		Balance:   r.Balance,
	}
}

func toLedgerEntry(e *domain.LedgerEntry) LedgerEntry {
	return LedgerEntry{
		ID:                    e.ID,
		AccountID:             e.AccountID,
		CounterpartyAccountID: e.CounterpartyAccountID,
		Type:                  string(e.Type),
		Amount:                e.Amount,
		FeeAmount:             e.FeeAmount,
		BalanceAfter:          e.BalanceAfter,
		OccurredAt:            e.OccurredAt,
		RefID:                 e.RefID.String(),
	}
}

var _ RemittanceServer = (*GrpcServer)(nil)
