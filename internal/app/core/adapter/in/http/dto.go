package http

import (
	"time"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
)

type createAccountRequest struct {
	AccountNo string `json:"accountNo"`
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type remitRequest struct {
	FromAccountNo string `json:"fromAccountNo"`
	ToAccountNo   string `json:"toAccountNo"`
	Amount        int64  `json:"amount"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createAccountResponse struct {
	AccountID int64  `json:"accountId"`
	AccountNo string `json:"accountNo"`
}

type accountResponse struct {
	AccountID int64  `json:"accountId"`
	AccountNo string `json:"accountNo"`
	Status    string `json:"status"`
	Balance   int64  `json:"balance"`
}

type balanceResponse struct {
	AccountID int64  `json:"accountId"`
	AccountNo string `json:"accountNo"`
	Balance   int64  `json:"balance"`
}

type remitResponse struct {
	FromAccountID int64  `json:"fromAccountId"`
	FromAccountNo string `json:"fromAccountNo"`
	ToAccountID   int64  `json:"toAccountId"`
	ToAccountNo   string `json:"toAccountNo"`
	Amount        int64  `json:"amount"`
	Fee           int64  `json:"fee"`
	FromBalance   int64  `json:"fromBalance"`
	ToBalance     int64  `json:"toBalance"`
}

type ledgerEntryResponse struct {
	ID                    int64     `json:"id"`
	AccountID             int64     `json:"accountId"`
	CounterpartyAccountID *int64    `json:"counterpartyAccountId,omitempty"`
	Type                  string    `json:"type"`
	Amount                int64     `json:"amount"`
	FeeAmount             int64     `json:"feeAmount"`
	BalanceAfter          int64     `json:"balanceAfter"`
	OccurredAt            time.Time `json:"occurredAt"`
	RefID                 string    `json:"refId"`
}

func toAccountResponse(r *usecase.AccountResult) accountResponse {
	return accountResponse{
		AccountID: r.AccountID,
		AccountNo: r.AccountNo,
		Status:    string(r.Status),
		Balance:   r.Balance,
	}
}

func toBalanceResponse(r *usecase.BalanceResult) balanceResponse {
	return balanceResponse{
		AccountID: r.AccountID,
		AccountNo: r.AccountNo,
		Balance:   r.Balance,
	}
}

func toRemitResponse(r *usecase.RemitResult) remitResponse {
	return remitResponse{
		FromAccountID: r.FromAccountID,
		FromAccountNo: r.FromAccountNo,
		ToAccountID:   r.ToAccountID,
		ToAccountNo:   r.ToAccountNo,
		Amount:        r.Amount,
		Fee:           r.Fee,
		FromBalance:   r.FromBalance,
		ToBalance:     r.ToBalance,
	}
}

func toLedgerEntryResponses(entries []*domain.LedgerEntry) []ledgerEntryResponse {
	response := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, ledgerEntryResponse{
			ID:                    e.ID,
			AccountID:             e.AccountID,
			CounterpartyAccountID: e.CounterpartyAccountID,
			Type:                  string(e.Type),
			Amount:                e.Amount,
			FeeAmount:             e.FeeAmount,
			BalanceAfter:          e.BalanceAfter,
			OccurredAt:            e.OccurredAt,
			RefID:                 e.RefID.String(),
		})
	}
	return response
}
