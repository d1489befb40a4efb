package commission_fee

import "github.com/shopspring/decimal"

var (
	ibPerShare = decimal.RequireFromString("0.005")
	ibMinimum  = decimal.NewFromInt(1)
)

// InteractiveBrokerCommissionFee charges 0.005 per share with a 1.00 minimum.
type InteractiveBrokerCommissionFee struct{}

func NewInteractiveBrokerCommissionFee() CommissionFee {
	return &InteractiveBrokerCommissionFee{}
}

func (c *InteractiveBrokerCommissionFee) Calculate(quantity decimal.Decimal, _ decimal.Decimal) decimal.Decimal {
	quantity = quantity.Abs()
	if quantity.IsZero() {
		return decimal.Zero
	}

	return decimal.Max(ibPerShare.Mul(quantity), ibMinimum)
}
