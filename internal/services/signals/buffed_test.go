package signals

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jb68/moneybot/internal/domain"
)

func TestMedian(t *testing.T) {
	m, err := Median(map[domain.Coin]float64{"A": 3, "B": 1, "C": 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, m)

	m, err = Median(map[domain.Coin]float64{"A": 1, "B": 2, "C": 3, "D": 10})
	require.NoError(t, err)
	assert.Equal(t, 2.5, m)

	_, err = Median(nil)
	assert.True(t, errors.Is(err, ErrNotEnoughData))
}

func TestSumOf(t *testing.T) {
	assert.Equal(t, 6.0, SumOf(map[domain.Coin]float64{"A": 1, "B": 2, "C": 3}))
	assert.Equal(t, 0.0, SumOf(nil))
	assert.Equal(t, 0.0, SumOf(map[domain.Coin]float64{}))
}

func TestIsBuffed(t *testing.T) {
	values := map[domain.Coin]float64{"A": 1, "B": 1, "C": 10}

	tests := []struct {
		coin       domain.Coin
		multiplier float64
		want       bool
	}{
		{coin: "C", multiplier: DefaultBuffedMultiplier, want: true},
		{coin: "A", multiplier: DefaultBuffedMultiplier, want: false},
		{coin: "C", multiplier: 10, want: false},
		{coin: "A", multiplier: 0.5, want: true},
	}

	for _, tt := range tests {
		got, err := IsBuffed(tt.coin, values, tt.multiplier)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "coin %s multiplier %g", tt.coin, tt.multiplier)
	}

	_, err := IsBuffed("Z", values, DefaultBuffedMultiplier)
	assert.True(t, errors.Is(err, ErrUnknownCoin))
}

func TestIsBuffedByPower(t *testing.T) {
	t.Run("median above one raises to power", func(t *testing.T) {
		// 4^1.2 ~ 5.278
		values := map[domain.Coin]float64{"A": 4, "B": 4, "C": 6, "D": 5, "E": 4}
		c, err := IsBuffedByPower("C", values, DefaultBuffedPower)
		require.NoError(t, err)
		assert.True(t, c)

		d, err := IsBuffedByPower("D", values, DefaultBuffedPower)
		require.NoError(t, err)
		assert.False(t, d)
	})

	t.Run("median below one uses reciprocal power", func(t *testing.T) {
		// 0.25^(1/1.2) ~ 0.315, while 0.25^1.2 ~ 0.189 would flag both
		values := map[domain.Coin]float64{"A": 0.25, "B": 0.25, "C": 0.3, "D": 0.32, "E": 0.25}
		c, err := IsBuffedByPower("C", values, DefaultBuffedPower)
		require.NoError(t, err)
		assert.False(t, c)

		d, err := IsBuffedByPower("D", values, DefaultBuffedPower)
		require.NoError(t, err)
		assert.True(t, d)
	})

	assert.InDelta(t, 5.2780, PowerThreshold(4, 1.2), 1e-3)
	assert.InDelta(t, 0.3150, PowerThreshold(0.25, 1.2), 1e-3)
	assert.Equal(t, 1.0, PowerThreshold(1, 1.2))
}
