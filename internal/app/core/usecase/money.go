package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
)

// MoneyService 存款與提款
//
// 每次呼叫都是一個 unit of work: 鎖帳戶 -> 套用領域規則 -> 寫回帳戶與帳本，
// 任何一步失敗都整筆 rollback。
type MoneyService struct {
	repo  Repository
	clock Clock
}

func NewMoneyService(repo Repository, clock Clock) *MoneyService {
	return &MoneyService{
		repo:  repo,
		clock: clock,
	}
}

// Deposit 存款，回傳存款後餘額
func (s *MoneyService) Deposit(ctx context.Context, accountNo string, amount int64) (*BalanceResult, error) {
	var result *BalanceResult
	err := s.repo.Transact(ctx, func(tx Tx) error {
		account, err := lockByAccountNo(ctx, tx.Accounts(), accountNo)
		if err != nil {
			return err
		}

		if err := account.Deposit(amount); err != nil {
			return err
		}

		saved, err := tx.Accounts().Save(ctx, account)
		if err != nil {
			return err
		}

		entry := domain.NewDepositEntry(uuid.New(), saved.ID, amount, saved.Balance, s.clock.Now())
		if _, err := tx.Ledger().Save(ctx, entry); err != nil {
			return err
		}

		result = &BalanceResult{AccountID: saved.ID, AccountNo: saved.AccountNo, Balance: saved.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Withdraw 提款，回傳提款後餘額
// 先累計每日提款額度，超過上限時不會有任何寫入
func (s *MoneyService) Withdraw(ctx context.Context, accountNo string, amount int64) (*BalanceResult, error) {
	var result *BalanceResult
	err := s.repo.Transact(ctx, func(tx Tx) error {
		account, err := lockByAccountNo(ctx, tx.Accounts(), accountNo)
		if err != nil {
			return err
		}

		now := s.clock.Now()

		limit, err := tx.DailyLimits().GetOrCreate(ctx, account.ID, now)
		if err != nil {
			return err
		}
		if err := limit.AddWithdraw(amount); err != nil {
			return err
		}
		if _, err := tx.DailyLimits().Save(ctx, limit); err != nil {
			return err
		}

		if err := account.Withdraw(amount); err != nil {
			return err
		}

		saved, err := tx.Accounts().Save(ctx, account)
		if err != nil {
			return err
		}

		entry := domain.NewWithdrawEntry(uuid.New(), saved.ID, amount, saved.Balance, now)
		if _, err := tx.Ledger().Save(ctx, entry); err != nil {
			return err
		}

		result = &BalanceResult{AccountID: saved.ID, AccountNo: saved.AccountNo, Balance: saved.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
