package domain

// FeePolicy 手續費策略
type FeePolicy interface {
	// CalculateFee 依轉帳金額 (本金) 計算手續費
	CalculateFee(amount int64) int64
}

// FeePolicyFunc 讓一般函式可以當作 FeePolicy 使用
type FeePolicyFunc func(amount int64) int64

// CalculateFee implements FeePolicy.
func (f FeePolicyFunc) CalculateFee(amount int64) int64 {
	return f(amount)
}

// DefaultFeePercent 預設手續費率 1%
const DefaultFeePercent = 1

// PercentFeePolicy 百分比手續費，無條件捨去: fee = floor(amount * Percent / 100)
type PercentFeePolicy struct {
	Percent int64
}

// NewPercentFeePolicy 建立百分比手續費策略
func NewPercentFeePolicy(percent int64) PercentFeePolicy {
	return PercentFeePolicy{Percent: percent}
}

// CalculateFee implements FeePolicy.
// 拆成商與餘數分開乘，避免 amount * Percent 溢位
func (p PercentFeePolicy) CalculateFee(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return (amount/100)*p.Percent + (amount%100)*p.Percent/100
}

var _ FeePolicy = PercentFeePolicy{}
