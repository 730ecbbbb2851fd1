package margin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiquidationPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entry    float64
		leverage float64
		side     Side
		expected float64
	}{
		{
			name:     "long_10x",
			entry:    100,
			leverage: 10,
			side:     Long,
			expected: 95, // 100 * (1 - 0.1 + 0.05)
		},
		{
			name:     "short_10x",
			entry:    100,
			leverage: 10,
			side:     Short,
			expected: 105, // 100 * (1 + 0.1 - 0.05)
		},
		{
			name:     "long_1x",
			entry:    100,
			leverage: 1,
			side:     Long,
			expected: 5, // nearly the whole move is tolerated at 1x
		},
		{
			name:     "short_20x",
			entry:    67500,
			leverage: 20,
			side:     Short,
			expected: 67500 * (1 + 0.05 - 0.05),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := LiquidationPrice(tt.entry, tt.leverage, tt.side, MaintenanceMargin)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestUnrealizedPnl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entry    float64
		current  float64
		size     float64
		leverage float64
		side     Side
		expected float64
	}{
		{
			name:     "long_profit",
			entry:    100,
			current:  110,
			size:     1000,
			leverage: 5,
			side:     Long,
			expected: 500, // ((110-100)/100) * 1000 * 5
		},
		{
			name:     "long_loss",
			entry:    100,
			current:  90,
			size:     1000,
			leverage: 5,
			side:     Long,
			expected: -500,
		},
		{
			name:     "short_profit",
			entry:    100,
			current:  90,
			size:     1000,
			leverage: 5,
			side:     Short,
			expected: 500,
		},
		{
			name:     "short_loss",
			entry:    100,
			current:  110,
			size:     1000,
			leverage: 5,
			side:     Short,
			expected: -500,
		},
		{
			name:     "flat",
			entry:    3200,
			current:  3200,
			size:     250,
			leverage: 20,
			side:     Long,
			expected: 0,
		},
		{
			name:     "loss_exceeding_collateral",
			entry:    100,
			current:  80,
			size:     1000,
			leverage: 10,
			side:     Long,
			expected: -2000, // leverage-multiplied loss is unbounded below
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := UnrealizedPnl(tt.entry, tt.current, tt.size, tt.leverage, tt.side)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestPnlPercent(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 50.0, PnlPercent(500, 1000), 1e-9)
	assert.InDelta(t, -200.0, PnlPercent(-2000, 1000), 1e-9)
	assert.InDelta(t, 0.0, PnlPercent(0, 1000), 1e-9)
}

func TestPositionValue(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 5000.0, PositionValue(1000, 5), 1e-9)
	assert.InDelta(t, 250.0, PositionValue(250, 1), 1e-9)
}

func TestSideValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Long.Valid())
	assert.True(t, Short.Valid())
	assert.False(t, Side("").Valid())
	assert.False(t, Side("LONG").Valid())
}
