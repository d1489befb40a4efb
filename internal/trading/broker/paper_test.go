package broker

import (
	"context"
	"testing"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperGateway(t *testing.T) {
	ctx := context.Background()
	positions := map[string]float64{"AAPL": 4}
	gateway := NewPaperGateway(2500, positions, logger.NewNopLogger())

	// the gateway keeps its own copy
	positions["AAPL"] = 100

	cash, err := gateway.CashBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, cash)

	held, err := gateway.CurrentPositions(ctx, []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"AAPL": 4, "MSFT": 0}, held)

	require.NoError(t, gateway.PlaceBuyLimit(ctx, "MSFT", 3, 401.5))
	require.NoError(t, gateway.PlaceSellLimit(ctx, "AAPL", 1.5, 190.25))

	open := gateway.OpenOrders()
	require.Len(t, open, 2)
	assert.Equal(t, types.PurchaseTypeBuy, open[0].Side)
	assert.Equal(t, "MSFT", open[0].Symbol)
	assert.Equal(t, types.PurchaseTypeSell, open[1].Side)
	assert.Equal(t, 1.5, open[1].Quantity)
	assert.NotEqual(t, open[0].ID, open[1].ID)

	require.NoError(t, gateway.CancelAllPendingOrders(ctx))
	assert.Empty(t, gateway.OpenOrders())
	assert.Len(t, gateway.PlacedOrders(), 2)
}

func TestPaperGatewayRejectsInvalidOrders(t *testing.T) {
	gateway := NewPaperGateway(100, nil, logger.NewNopLogger())

	err := gateway.PlaceBuyLimit(context.Background(), "", 1, 1)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidOrder))

	err = gateway.PlaceSellLimit(context.Background(), "AAPL", 0, 1)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidOrder))

	assert.Empty(t, gateway.PlacedOrders())
}

func TestGatewayRegistry(t *testing.T) {
	assert.Equal(t, []string{"binance", "paper"}, SupportedKinds())

	info, err := GetInfo("paper")
	require.NoError(t, err)
	assert.True(t, info.IsPaper)

	_, err = GetInfo("ib")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
