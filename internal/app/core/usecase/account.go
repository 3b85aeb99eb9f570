package usecase

import (
	"context"
	"errors"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
)

// AccountService 開戶、刪除帳戶、查詢餘額
type AccountService struct {
	repo Repository
}

func NewAccountService(repo Repository) *AccountService {
	return &AccountService{
		repo: repo,
	}
}

// Create 開戶，帳號重複回傳 domain.ErrDuplicateAccountNo
func (s *AccountService) Create(ctx context.Context, accountNo string) (*CreateAccountResult, error) {
	var result *CreateAccountResult
	err := s.repo.Transact(ctx, func(tx Tx) error {
		_, err := tx.Accounts().FindByAccountNo(ctx, accountNo)
		if err == nil {
			return domain.ErrDuplicateAccountNo
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}

		saved, err := tx.Accounts().Save(ctx, domain.NewAccount(accountNo))
		if err != nil {
			return err
		}
		result = &CreateAccountResult{AccountID: saved.ID, AccountNo: saved.AccountNo}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete 刪除帳戶 (軟刪除)，需先取得帳戶鎖
func (s *AccountService) Delete(ctx context.Context, accountNo string) error {
	return s.repo.Transact(ctx, func(tx Tx) error {
		account, err := lockByAccountNo(ctx, tx.Accounts(), accountNo)
		if err != nil {
			return err
		}
		account.Delete()
		_, err = tx.Accounts().Save(ctx, account)
		return err
	})
}

// Get 查詢帳戶目前狀態與餘額，不上鎖
func (s *AccountService) Get(ctx context.Context, accountNo string) (*AccountResult, error) {
	var result *AccountResult
	err := s.repo.Transact(ctx, func(tx Tx) error {
		account, err := tx.Accounts().FindByAccountNo(ctx, accountNo)
		if err != nil {
			return err
		}
		result = &AccountResult{
			AccountID: account.ID,
			AccountNo: account.AccountNo,
			Status:    account.Status,
			Balance:   account.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockByAccountNo 以帳號找出 ID，再以 ID 取得排他鎖
func lockByAccountNo(ctx context.Context, accounts AccountStore, accountNo string) (*domain.Account, error) {
	found, err := accounts.FindByAccountNo(ctx, accountNo)
	if err != nil {
		return nil, err
	}
	return accounts.FindByIDForUpdate(ctx, found.ID)
}
