package signals

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jb68/moneybot/internal/domain"
)

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestEMA_Recurrence(t *testing.T) {
	got := EMA([]float64{1, 2, 3}, 1)
	require.Len(t, got, 3)
	assert.InDeltaSlice(t, []float64{1, 1.5, 2.25}, got, 1e-12)

	got = EMA([]float64{1, 2, 3}, 3)
	assert.InDeltaSlice(t, []float64{1, 1.25, 1.6875}, got, 1e-12)

	// com 0 tracks the series exactly
	assert.InDeltaSlice(t, []float64{4, 7, 1}, EMA([]float64{4, 7, 1}, 0), 1e-12)

	assert.Nil(t, EMA(nil, 9))
}

func TestEMAs(t *testing.T) {
	long, short, err := EMAs([]float64{1, 2, 3}, Windows{Short: 1, Long: 3, Signal: 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.25, 1.6875}, long, 1e-12)
	assert.InDeltaSlice(t, []float64{1, 1.5, 2.25}, short, 1e-12)
}

func TestPercentagePriceOscillator_Flat(t *testing.T) {
	ppo, err := PercentagePriceOscillator(repeat(0.05, 50), DefaultWindows())
	require.NoError(t, err)
	require.Len(t, ppo, 50)
	for _, v := range ppo {
		assert.InDelta(t, 0, v, 1e-12)
	}

	hist, err := PPOHistogram(repeat(0.05, 50), DefaultWindows())
	require.NoError(t, err)
	for _, v := range hist {
		assert.InDelta(t, 0, v, 1e-12)
	}
}

func TestPercentagePriceOscillator_Values(t *testing.T) {
	ppo, err := PercentagePriceOscillator([]float64{1, 2, 3}, Windows{Short: 1, Long: 3, Signal: 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.2, 2.25/1.6875 - 1}, ppo, 1e-12)
}

func TestLatestPPOHist_Direction(t *testing.T) {
	w := Windows{Short: 2, Long: 10, Signal: 3}

	surge := append(repeat(1, 50), 2, 2, 2)
	up, err := LatestPPOHist(surge, w)
	require.NoError(t, err)
	assert.Greater(t, up, 0.0)

	crash := append(repeat(1, 50), 0.5, 0.5, 0.5)
	down, err := LatestPPOHist(crash, w)
	require.NoError(t, err)
	assert.Less(t, down, 0.0)
}

func TestSignals_InvalidInput(t *testing.T) {
	_, err := LatestPPOHist(nil, DefaultWindows())
	assert.True(t, errors.Is(err, ErrNotEnoughData))

	_, err = PPOHistogram([]float64{1, 0, 2}, DefaultWindows())
	assert.True(t, errors.Is(err, domain.ErrInvalidPrice))

	_, _, err = EMAs([]float64{1}, Windows{Short: -1, Long: 1, Signal: 1})
	assert.Error(t, err)
}
