package domain

import "errors"

// ErrorCode 領域錯誤代碼，邊界層依此分類 (not found / rejected)
type ErrorCode string

const (
	CodeAccountNotFound               ErrorCode = "ACCOUNT_NOT_FOUND"
	CodeAccountInactive               ErrorCode = "ACCOUNT_INACTIVE"
	CodeDuplicateAccountNo            ErrorCode = "DUPLICATE_ACCOUNT_NO"
	CodeInvalidAmount                 ErrorCode = "INVALID_AMOUNT"
	CodeInsufficientBalance           ErrorCode = "INSUFFICIENT_BALANCE"
	CodeWithdrawDailyLimitExceeded    ErrorCode = "WITHDRAW_DAILY_LIMIT_EXCEEDED"
	CodeTransferDailyLimitExceeded    ErrorCode = "TRANSFER_DAILY_LIMIT_EXCEEDED"
	CodeSameAccountTransferNotAllowed ErrorCode = "SAME_ACCOUNT_TRANSFER_NOT_ALLOWED"
)

// Error 領域規則違反，帶有代碼與訊息
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = &Error{Code: CodeAccountNotFound, Message: "account not found"}

	// ErrAccountInactive 帳戶已刪除，不可再異動餘額
	ErrAccountInactive = &Error{Code: CodeAccountInactive, Message: "account is not active"}

	// ErrDuplicateAccountNo 帳號已存在
	ErrDuplicateAccountNo = &Error{Code: CodeDuplicateAccountNo, Message: "account number already exists"}

	// ErrInvalidAmount 金額必須為正數
	ErrInvalidAmount = &Error{Code: CodeInvalidAmount, Message: "amount must be positive"}

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = &Error{Code: CodeInsufficientBalance, Message: "insufficient balance"}

	// ErrWithdrawDailyLimitExceeded 超過每日提款上限
	ErrWithdrawDailyLimitExceeded = &Error{Code: CodeWithdrawDailyLimitExceeded, Message: "withdraw daily limit exceeded"}

	// ErrTransferDailyLimitExceeded 超過每日轉帳上限
	ErrTransferDailyLimitExceeded = &Error{Code: CodeTransferDailyLimitExceeded, Message: "transfer daily limit exceeded"}

	// ErrSameAccountTransfer 不可轉帳給自己
	ErrSameAccountTransfer = &Error{Code: CodeSameAccountTransferNotAllowed, Message: "same account transfer is not allowed"}
)

// CodeOf 取出錯誤鏈中的領域錯誤代碼，非領域錯誤回傳 false
func CodeOf(err error) (ErrorCode, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code, true
	}
	return "", false
}

var errorsByCode = map[ErrorCode]*Error{
	CodeAccountNotFound:               ErrAccountNotFound,
	CodeAccountInactive:               ErrAccountInactive,
	CodeDuplicateAccountNo:            ErrDuplicateAccountNo,
	CodeInvalidAmount:                 ErrInvalidAmount,
	CodeInsufficientBalance:           ErrInsufficientBalance,
	CodeWithdrawDailyLimitExceeded:    ErrWithdrawDailyLimitExceeded,
	CodeTransferDailyLimitExceeded:    ErrTransferDailyLimitExceeded,
	CodeSameAccountTransferNotAllowed: ErrSameAccountTransfer,
}

// ErrorOf 依代碼取回對應的領域錯誤，供跨程序 (如 gRPC client) 還原錯誤使用
func ErrorOf(code ErrorCode) (*Error, bool) {
	err, ok := errorsByCode[code]
	return err, ok
}
