package commission_fee

import "github.com/shopspring/decimal"

// CommissionFee prices a single fill.
type CommissionFee interface {
	// Calculate returns the fee in account currency for a fill of quantity units at price.
	Calculate(quantity decimal.Decimal, price decimal.Decimal) decimal.Decimal
}

type Broker string

const (
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerZero             Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerInteractiveBroker,
	BrokerZero,
}

// GetCommissionFeeHandler returns the fee model of broker. Unknown brokers cost nothing.
func GetCommissionFeeHandler(broker Broker) CommissionFee {
	switch broker {
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}
