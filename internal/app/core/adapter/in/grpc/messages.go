package grpc

import (
	"time"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// 以下結構與 File 中的同名訊息一一對應，欄位以 proto 欄位名稱轉換

type CreateAccountRequest struct {
	AccountNo string
}

func (*CreateAccountRequest) messageName() protoreflect.Name { return "CreateAccountRequest" }

func (r *CreateAccountRequest) marshalProto(f fields) {
	f.setString("account_no", r.AccountNo)
}

func (r *CreateAccountRequest) unmarshalProto(f fields) {
	r.AccountNo = f.getString("account_no")
}

type CreateAccountResponse struct {
	AccountID int64
	AccountNo string
}

func (*CreateAccountResponse) messageName() protoreflect.Name { return "CreateAccountResponse" }

func (r *CreateAccountResponse) marshalProto(f fields) {
	f.setInt64("account_id", r.AccountID)
	f.setString("account_no", r.AccountNo)
}

func (r *CreateAccountResponse) unmarshalProto(f fields) {
	r.AccountID = f.getInt64("account_id")
	r.AccountNo = f.getString("account_no")
}

type AccountRequest struct {
	AccountNo string
}

func (*AccountRequest) messageName() protoreflect.Name { return "AccountRequest" }

func (r *AccountRequest) marshalProto(f fields) {
	f.setString("account_no", r.AccountNo)
}

func (r *AccountRequest) unmarshalProto(f fields) {
	r.AccountNo = f.getString("account_no")
}

type DeleteAccountResponse struct{}

func (*DeleteAccountResponse) messageName() protoreflect.Name { return "DeleteAccountResponse" }
func (*DeleteAccountResponse) marshalProto(fields)            {}
func (*DeleteAccountResponse) unmarshalProto(fields)          {}

type AccountResponse struct {
	AccountID int64
	AccountNo string
	Status    string
	Balance   int64
}

func (*AccountResponse) messageName() protoreflect.Name { return "AccountResponse" }

func (r *AccountResponse) marshalProto(f fields) {
	f.setInt64("account_id", r.AccountID)
	f.setString("account_no", r.AccountNo)
	f.setString("status", r.Status)
	f.setInt64("balance", r.Balance)
}

func (r *AccountResponse) unmarshalProto(f fields) {
	r.AccountID = f.getInt64("account_id")
	r.AccountNo = f.getString("account_no")
	r.Status = f.getString("status")
	r.Balance = f.getInt64("balance")
}

// AmountRequest 存款與提款共用
type AmountRequest struct {
	AccountNo string
	Amount    int64
}

func (*AmountRequest) messageName() protoreflect.Name { return "AmountRequest" }

func (r *AmountRequest) marshalProto(f fields) {
	f.setString("account_no", r.AccountNo)
	f.setInt64("amount", r.Amount)
}

func (r *AmountRequest) unmarshalProto(f fields) {
	r.AccountNo = f.getString("account_no")
	r.Amount = f.getInt64("amount")
}

type BalanceResponse struct {
	AccountID int64
	AccountNo string
	Balance   int64
}

func (*BalanceResponse) messageName() protoreflect.Name { return "BalanceResponse" }

func (r *BalanceResponse) marshalProto(f fields) {
	f.setInt64("account_id", r.AccountID)
	f.setString("account_no", r.AccountNo)
	f.setInt64("balance", r.Balance)
}

func (r *BalanceResponse) unmarshalProto(f fields) {
	r.AccountID = f.getInt64("account_id")
	r.AccountNo = f.getString("account_no")
	r.Balance = f.getInt64("balance")
}

type RemitRequest struct {
	FromAccountNo string
	ToAccountNo   string
	Amount        int64
}

func (*RemitRequest) messageName() protoreflect.Name { return "RemitRequest" }

func (r *RemitRequest) marshalProto(f fields) {
	f.setString("from_account_no", r.FromAccountNo)
	f.setString("to_account_no", r.ToAccountNo)
	f.setInt64("amount", r.Amount)
}

func (r *RemitRequest) unmarshalProto(f fields) {
	r.FromAccountNo = f.getString("from_account_no")
	r.ToAccountNo = f.getString("to_account_no")
	r.Amount = f.getInt64("amount")
}

type RemitResponse struct {
	FromAccountID int64
	FromAccountNo string
	ToAccountID   int64
	ToAccountNo   string
	Amount        int64
	Fee           int64
	FromBalance   int64
	ToBalance     int64
}

func (*RemitResponse) messageName() protoreflect.Name { return "RemitResponse" }

func (r *RemitResponse) marshalProto(f fields) {
	f.setInt64("from_account_id", r.FromAccountID)
	f.setString("from_account_no", r.FromAccountNo)
	f.setInt64("to_account_id", r.ToAccountID)
	f.setString("to_account_no", r.ToAccountNo)
	f.setInt64("amount", r.Amount)
	f.setInt64("fee", r.Fee)
	f.setInt64("from_balance", r.FromBalance)
	f.setInt64("to_balance", r.ToBalance)
}

func (r *RemitResponse) unmarshalProto(f fields) {
	r.FromAccountID = f.getInt64("from_account_id")
	r.FromAccountNo = f.getString("from_account_no")
	r.ToAccountID = f.getInt64("to_account_id")
	r.ToAccountNo = f.getString("to_account_no")
	r.Amount = f.getInt64("amount")
	r.Fee = f.getInt64("fee")
	r.FromBalance = f.getInt64("from_balance")
	r.ToBalance = f.getInt64("to_balance")
}

type ListTransactionsRequest struct {
	AccountNo string
	// Size <= 0 使用預設筆數
	Size int32
}

func (*ListTransactionsRequest) messageName() protoreflect.Name { return "ListTransactionsRequest" }

func (r *ListTransactionsRequest) marshalProto(f fields) {
	f.setString("account_no", r.AccountNo)
	f.setInt32("size", r.Size)
}

func (r *ListTransactionsRequest) unmarshalProto(f fields) {
	r.AccountNo = f.getString("account_no")
	r.Size = f.getInt32("size")
}

// LedgerEntry OccurredAt 以 google.protobuf.Timestamp 傳輸，
// CounterpartyAccountID 以 google.protobuf.Int64Value 傳輸 (存提款為 nil)
type LedgerEntry struct {
	ID                    int64
	AccountID             int64
	CounterpartyAccountID *int64
	Type                  string
	Amount                int64
	FeeAmount             int64
	BalanceAfter          int64
	OccurredAt            time.Time
	RefID                 string
}

func (*LedgerEntry) messageName() protoreflect.Name { return "LedgerEntry" }

func (e *LedgerEntry) marshalProto(f fields) {
	f.setInt64("id", e.ID)
	f.setInt64("account_id", e.AccountID)
	f.setOptionalInt64("counterparty_account_id", e.CounterpartyAccountID)
	f.setString("type", e.Type)
	f.setInt64("amount", e.Amount)
	f.setInt64("fee_amount", e.FeeAmount)
	f.setInt64("balance_after", e.BalanceAfter)
	f.setTime("occurred_at", e.OccurredAt)
	f.setString("ref_id", e.RefID)
}

func (e *LedgerEntry) unmarshalProto(f fields) {
	e.ID = f.getInt64("id")
	e.AccountID = f.getInt64("account_id")
	e.CounterpartyAccountID = f.getOptionalInt64("counterparty_account_id")
	e.Type = f.getString("type")
	e.Amount = f.getInt64("amount")
	e.FeeAmount = f.getInt64("fee_amount")
	e.BalanceAfter = f.getInt64("balance_after")
	e.OccurredAt = f.getTime("occurred_at")
	e.RefID = f.getString("ref_id")
}

type ListTransactionsResponse struct {
	Entries []LedgerEntry
}

func (*ListTransactionsResponse) messageName() protoreflect.Name { return "ListTransactionsResponse" }

func (r *ListTransactionsResponse) marshalProto(f fields) {
	appendMessages(f, "entries", r.Entries)
}

func (r *ListTransactionsResponse) unmarshalProto(f fields) {
	r.Entries = getMessages[LedgerEntry](f, "entries")
}
