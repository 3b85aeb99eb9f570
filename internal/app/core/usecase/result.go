package usecase

import "github.com/JoeShih716/go-remittance/internal/app/core/domain"

// CreateAccountResult 開戶結果
type CreateAccountResult struct {
	AccountID int64
	AccountNo string
}

// AccountResult 帳戶查詢結果
type AccountResult struct {
	AccountID int64
	AccountNo string
	Status    domain.AccountStatus
	Balance   int64
}

// BalanceResult 存提款後的餘額
type BalanceResult struct {
	AccountID int64
	AccountNo string
	Balance   int64
}

// RemitResult 轉帳結果，餘額皆為交易後的值
type RemitResult struct {
	FromAccountID int64
	FromAccountNo string
	ToAccountID   int64
	ToAccountNo   string
	Amount        int64
	Fee           int64
	FromBalance   int64
	ToBalance     int64
}
