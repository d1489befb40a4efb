package market_test

import (
	"testing"

	"github.com/rxtech-lab/argo-sweep/internal/market"
	"github.com/rxtech-lab/argo-sweep/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyCursorOverGeneratedUniverse(t *testing.T) {
	config := mocks.DefaultConfig()
	config.Days = 60
	symbols := []string{"AAA", "BBB", "CCC", "DDD"}

	bars := mocks.NewBarGenerator(3).GenerateUniverse(symbols, config)

	cursor, err := market.NewDailyCursor(symbols, bars, nil)
	require.NoError(t, err)
	assert.Equal(t, 60, cursor.Len())

	days := 1
	for {
		open := cursor.OpenView()
		dayRange := cursor.RangeView()

		require.Len(t, open.Open, len(symbols))
		assert.True(t, open.Date.Equal(dayRange.Date))

		for id := range symbols {
			assert.LessOrEqual(t, dayRange.Low[id], open.Price(id))
			assert.GreaterOrEqual(t, dayRange.High[id], open.Price(id))
			assert.LessOrEqual(t, dayRange.Low[id], dayRange.Close[id])
		}

		if !cursor.AdvanceDay() {
			break
		}

		days++
	}

	assert.Equal(t, 60, days)
}
