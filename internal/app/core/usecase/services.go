package usecase

import "github.com/JoeShih716/go-remittance/internal/app/core/domain"

// Services 所有用例，供 adapter/in 注入
type Services struct {
	Accounts    *AccountService
	Money       *MoneyService
	Remittance  *RemittanceService
	Transaction *TransactionQueryService
}

// NewServices 以同一個 Repository 建立所有用例
func NewServices(repo Repository, feePolicy domain.FeePolicy, clock Clock) Services {
	return Services{
		Accounts:    NewAccountService(repo),
		Money:       NewMoneyService(repo, clock),
		Remittance:  NewRemittanceService(repo, feePolicy, clock),
		Transaction: NewTransactionQueryService(repo),
	}
}
