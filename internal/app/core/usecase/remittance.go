package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
)

// RemittanceService 帳戶間轉帳
type RemittanceService struct {
	repo      Repository
	feePolicy domain.FeePolicy
	clock     Clock
}

func NewRemittanceService(repo Repository, feePolicy domain.FeePolicy, clock Clock) *RemittanceService {
	return &RemittanceService{
		repo:      repo,
		feePolicy: feePolicy,
		clock:     clock,
	}
}

// Remit 轉帳
//
// 流程 (同一個 unit of work):
//  1. 禁止轉給自己 (查詢前就檢查)
//  2. 帳號 -> ID (不上鎖)
//  3. 依 ID 由小到大取得兩個帳戶的鎖，避免死鎖
//  4. 計算手續費，付款方總扣款 = amount + fee
//  5. 付款方每日轉帳額度以本金 amount 累計 (不含手續費)
//  6. 付款方扣款、收款方入帳
//  7. 寫入 TRANSFER_OUT / FEE / TRANSFER_IN 三筆帳本，共用同一個時間戳
func (s *RemittanceService) Remit(ctx context.Context, fromAccountNo, toAccountNo string, amount int64) (*RemitResult, error) {
	if fromAccountNo == toAccountNo {
		return nil, domain.ErrSameAccountTransfer
	}

	var result *RemitResult
	err := s.repo.Transact(ctx, func(tx Tx) error {
		accounts := tx.Accounts()

		fromRef, err := accounts.FindByAccountNo(ctx, fromAccountNo)
		if err != nil {
			return err
		}
		toRef, err := accounts.FindByAccountNo(ctx, toAccountNo)
		if err != nil {
			return err
		}

		from, to, err := lockPair(ctx, accounts, fromRef.ID, toRef.ID)
		if err != nil {
			return err
		}

		fee := s.feePolicy.CalculateFee(amount)
		totalDebit := amount + fee
		now := s.clock.Now()

		limit, err := tx.DailyLimits().GetOrCreate(ctx, from.ID, now)
		if err != nil {
			return err
		}
		if err := limit.AddTransfer(amount); err != nil {
			return err
		}
		if _, err := tx.DailyLimits().Save(ctx, limit); err != nil {
			return err
		}

		if err := from.Withdraw(totalDebit); err != nil {
			return err
		}
		if err := to.Deposit(amount); err != nil {
			return err
		}

		savedFrom, err := accounts.Save(ctx, from)
		if err != nil {
			return err
		}
		savedTo, err := accounts.Save(ctx, to)
		if err != nil {
			return err
		}

		for _, entry := range domain.NewTransferEntries(uuid.New(), savedFrom, savedTo, amount, fee, now) {
			if _, err := tx.Ledger().Save(ctx, entry); err != nil {
				return err
			}
		}

		result = &RemitResult{
			FromAccountID: savedFrom.ID,
			FromAccountNo: savedFrom.AccountNo,
			ToAccountID:   savedTo.ID,
			ToAccountNo:   savedTo.AccountNo,
			Amount:        amount,
			Fee:           fee,
			FromBalance:   savedFrom.Balance,
			ToBalance:     savedTo.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockPair 依 domain.LockOrder 鎖定兩個帳戶，回傳順序與參數 (aID, bID) 對應
func lockPair(ctx context.Context, accounts AccountStore, aID, bID int64) (a, b *domain.Account, err error) {
	firstID, secondID := domain.LockOrder(aID, bID)

	first, err := accounts.FindByIDForUpdate(ctx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := accounts.FindByIDForUpdate(ctx, secondID)
	if err != nil {
		return nil, nil, err
	}

	if aID == firstID {
		return first, second, nil
	}
	return second, first, nil
}
