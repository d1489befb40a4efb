package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

type PurchaseType string

const (
	PurchaseTypeBuy  PurchaseType = "BUY"
	PurchaseTypeSell PurchaseType = "SELL"
)

// OrderInstruction is a limit instruction emitted by a strategy.
// NotionalAmount is a cash amount for both sides; the unit count is derived
// from the price when the instruction is executed.
type OrderInstruction struct {
	InstrumentID   int          `yaml:"id" json:"id" validate:"gte=0"`
	Symbol         string       `yaml:"symbol" json:"symbol"`
	Side           PurchaseType `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	LimitPrice     float64      `yaml:"price" json:"price" validate:"gt=0"`
	NotionalAmount float64      `yaml:"amount" json:"amount" validate:"gt=0"`
}

// PendingOrders is the batch a strategy returns for one price view.
type PendingOrders struct {
	Buy  []OrderInstruction `yaml:"programBuy" json:"programBuy"`
	Sell []OrderInstruction `yaml:"programSell" json:"programSell"`
}

// IsEmpty reports whether the batch carries no instruction at all.
func (p PendingOrders) IsEmpty() bool {
	return len(p.Buy) == 0 && len(p.Sell) == 0
}

// Len returns the number of instructions in the batch.
func (p PendingOrders) Len() int {
	return len(p.Buy) + len(p.Sell)
}

// Validate validates the OrderInstruction struct.
func (o *OrderInstruction) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order instruction", err)
	}

	return nil
}
