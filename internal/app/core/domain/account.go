package domain

import "math"

// AccountStatus 帳戶狀態
type AccountStatus string

const (
	// AccountStatusActive 正常，可存提款與轉帳
	AccountStatusActive AccountStatus = "ACTIVE"
	// AccountStatusDeleted 已刪除 (軟刪除)，單向終止狀態，餘額不可再異動
	AccountStatusDeleted AccountStatus = "DELETED"
)

// Account 帳戶
//
// Balance 以最小貨幣單位的整數表示，永不為負。
// 只有 ACTIVE 帳戶可以異動餘額。
type Account struct {
	ID        int64
	AccountNo string
	Status    AccountStatus
	Balance   int64
}

// NewAccount 建立新帳戶，餘額 0、狀態 ACTIVE，ID 由儲存層分配
func NewAccount(accountNo string) *Account {
	return &Account{
		AccountNo: accountNo,
		Status:    AccountStatusActive,
	}
}

// IsActive 是否為可異動狀態
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// Deposit 存款，入帳後超出 int64 範圍視為無效金額
func (a *Account) Deposit(amount int64) error {
	if err := a.validate(amount); err != nil {
		return err
	}
	if amount > math.MaxInt64-a.Balance {
		return ErrInvalidAmount
	}

	a.Balance = a.Balance + amount
	return nil
}

// Withdraw 提款
func (a *Account) Withdraw(amount int64) error {
	if err := a.validate(amount); err != nil {
		return err
	}

	if a.Balance < amount {
		return ErrInsufficientBalance
	}

	a.Balance = a.Balance - amount
	return nil
}

// Delete 刪除帳戶 (軟刪除)，之後所有存提款都會失敗
func (a *Account) Delete() {
	a.Status = AccountStatusDeleted
}

// validate 先檢查狀態再檢查金額
func (a *Account) validate(amount int64) error {
	if !a.IsActive() {
		return ErrAccountInactive
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
