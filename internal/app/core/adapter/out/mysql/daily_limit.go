package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
)

type dailyLimitStore struct {
	db *gorm.DB
}

// GetOrCreate 鎖定當日累計額，不存在時先 INSERT IGNORE 再鎖定
// 同一帳戶的呼叫端已持有帳戶鎖，衝突只會發生在異常情況
func (s *dailyLimitStore) GetOrCreate(ctx context.Context, accountID int64, date time.Time) (*domain.DailyLimit, error) {
	day := domain.DateOf(date)
	db := s.db.WithContext(ctx)

	row, err := s.lockRow(db, accountID, day)
	if err == nil {
		return row.toDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := toSQLDailyLimit(domain.NewDailyLimit(accountID, day))
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(created).Error; err != nil {
		return nil, err
	}

	row, err = s.lockRow(db, accountID, day)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *dailyLimitStore) lockRow(db *gorm.DB, accountID int64, day time.Time) (*sqlDailyLimit, error) {
	var row sqlDailyLimit
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ? AND limit_date = ?", accountID, day).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *dailyLimitStore) Save(ctx context.Context, limit *domain.DailyLimit) (*domain.DailyLimit, error) {
	row := toSQLDailyLimit(limit)
	db := s.db.WithContext(ctx)

	if row.ID == 0 {
		if err := db.Create(row).Error; err != nil {
			return nil, err
		}
		return row.toDomain(), nil
	}

	err := db.Model(&sqlDailyLimit{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"withdraw_sum": row.WithdrawSum,
			"transfer_sum": row.TransferSum,
		}).Error
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

var _ usecase.DailyLimitStore = (*dailyLimitStore)(nil)
