package broker

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// PaperOrder is an order accepted by the paper gateway.
type PaperOrder struct {
	ID       string
	Symbol   string
	Side     types.PurchaseType
	Quantity float64
	Price    float64
}

// PaperGateway is an in-memory Gateway. Orders stay open until cancelled;
// balances only change through SetBalance.
type PaperGateway struct {
	cash      float64
	positions map[string]float64
	open      []PaperOrder
	placed    []PaperOrder
	mu        sync.Mutex
	logger    *logger.Logger
}

// NewPaperGateway creates a paper account holding cash and positions.
func NewPaperGateway(cash float64, positions map[string]float64, log *logger.Logger) *PaperGateway {
	held := make(map[string]float64, len(positions))
	for symbol, quantity := range positions {
		held[symbol] = quantity
	}

	return &PaperGateway{
		cash:      cash,
		positions: held,
		open:      nil,
		placed:    nil,
		mu:        sync.Mutex{},
		logger:    log.Named("paper_gateway"),
	}
}

// PlaceBuyLimit implements Gateway.
func (p *PaperGateway) PlaceBuyLimit(_ context.Context, symbol string, quantity float64, price float64) error {
	return p.place(symbol, types.PurchaseTypeBuy, quantity, price)
}

// PlaceSellLimit implements Gateway.
func (p *PaperGateway) PlaceSellLimit(_ context.Context, symbol string, quantity float64, price float64) error {
	return p.place(symbol, types.PurchaseTypeSell, quantity, price)
}

// CashBalance implements Gateway.
func (p *PaperGateway) CashBalance(_ context.Context) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cash, nil
}

// CurrentPositions implements Gateway.
func (p *PaperGateway) CurrentPositions(_ context.Context, symbols []string) (map[string]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		out[symbol] = p.positions[symbol]
	}

	return out, nil
}

// CancelAllPendingOrders implements Gateway.
func (p *PaperGateway) CancelAllPendingOrders(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.open) > 0 {
		p.logger.Info("Cancelled open paper orders", zap.Int("count", len(p.open)))
	}

	p.open = nil

	return nil
}

// OpenOrders returns the orders not yet cancelled.
func (p *PaperGateway) OpenOrders() []PaperOrder {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]PaperOrder(nil), p.open...)
}

// PlacedOrders returns every order accepted so far, cancelled ones included.
func (p *PaperGateway) PlacedOrders() []PaperOrder {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]PaperOrder(nil), p.placed...)
}

//nolint:funcorder // helper method used by PlaceBuyLimit and PlaceSellLimit
func (p *PaperGateway) place(symbol string, side types.PurchaseType, quantity float64, price float64) error {
	if symbol == "" {
		return errors.New(errors.ErrCodeInvalidOrder, "order symbol is empty")
	}

	if quantity <= 0 || price <= 0 {
		return errors.Newf(errors.ErrCodeInvalidOrder, "invalid %s order for %s: quantity %v at %v", side, symbol, quantity, price)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	order := PaperOrder{
		ID:       uuid.New().String(),
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Price:    price,
	}

	p.open = append(p.open, order)
	p.placed = append(p.placed, order)

	p.logger.Info("Paper order accepted",
		zap.String("id", order.ID),
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Float64("quantity", quantity),
		zap.Float64("price", price),
	)

	return nil
}
