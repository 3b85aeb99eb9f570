package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
)

type accountStore struct {
	db *gorm.DB
}

func (s *accountStore) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	var row sqlAccount
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return row.toDomain(), nil
}

func (s *accountStore) FindByAccountNo(ctx context.Context, accountNo string) (*domain.Account, error) {
	var row sqlAccount
	if err := s.db.WithContext(ctx).Where("account_no = ?", accountNo).Take(&row).Error; err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return row.toDomain(), nil
}

// FindByIDForUpdate SELECT ... FOR UPDATE 悲觀鎖
func (s *accountStore) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Account, error) {
	var row sqlAccount
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return row.toDomain(), nil
}

func (s *accountStore) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := toSQLAccount(account)
	db := s.db.WithContext(ctx)

	if row.ID == 0 {
		if err := db.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, domain.ErrDuplicateAccountNo
			}
			return nil, err
		}
		return row.toDomain(), nil
	}

	err := db.Model(&sqlAccount{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"status":  row.Status,
			"balance": row.Balance,
		}).Error
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

var _ usecase.AccountStore = (*accountStore)(nil)
