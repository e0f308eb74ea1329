package signals

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/pkg/errors"

	"github.com/jb68/moneybot/internal/domain"
)

// Windows EMA centre-of-mass parameters. Larger values react slower.
type Windows struct {
	Short  float64 `yaml:"short"`
	Long   float64 `yaml:"long"`
	Signal float64 `yaml:"signal"`
}

// DefaultWindows returns the 96/2400/9 windows.
func DefaultWindows() Windows {
	return Windows{Short: 96, Long: 2400, Signal: 9}
}

// Validate checks every window is non-negative.
func (w Windows) Validate() error {
	if w.Short < 0 || w.Long < 0 || w.Signal < 0 {
		return errors.Errorf("ema windows must not be negative, got short=%g long=%g signal=%g", w.Short, w.Long, w.Signal)
	}
	return nil
}

// EMA returns the exponentially weighted moving average of series with
// centre of mass com: ema[0] = series[0], ema[t] = a*series[t] + (1-a)*ema[t-1],
// a = 1/(1+com).
func EMA(series []float64, com float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	// period 1 seeds with the first value; multiplier is smoothing/(period+1)
	ema := trend.NewEmaWithPeriod[float64](1)
	ema.Smoothing = 2 / (1 + com)

	return helper.ChanToSlice(ema.Compute(helper.SliceToChan(series)))
}

// EMAs returns the long and short window averages of prices.
func EMAs(prices []float64, w Windows) (long, short []float64, err error) {
	if err = validateSeries(prices, w); err != nil {
		return nil, nil, err
	}
	return EMA(prices, w.Long), EMA(prices, w.Short), nil
}

// PercentagePriceOscillator returns (short - long) / long for every point.
func PercentagePriceOscillator(prices []float64, w Windows) ([]float64, error) {
	long, short, err := EMAs(prices, w)
	if err != nil {
		return nil, err
	}

	ppo := make([]float64, len(prices))
	for i := range ppo {
		ppo[i] = (short[i] - long[i]) / long[i]
	}
	return ppo, nil
}

// PPOHistogram returns the oscillator minus its signal-window average.
func PPOHistogram(prices []float64, w Windows) ([]float64, error) {
	ppo, err := PercentagePriceOscillator(prices, w)
	if err != nil {
		return nil, err
	}

	signal := EMA(ppo, w.Signal)
	hist := make([]float64, len(ppo))
	for i := range hist {
		hist[i] = ppo[i] - signal[i]
	}
	return hist, nil
}

// LatestPPOHist returns the most recent histogram value.
// Negative readings mean momentum is turning down.
func LatestPPOHist(prices []float64, w Windows) (float64, error) {
	hist, err := PPOHistogram(prices, w)
	if err != nil {
		return 0, err
	}
	return hist[len(hist)-1], nil
}

func validateSeries(prices []float64, w Windows) error {
	if len(prices) == 0 {
		return errors.Wrap(ErrNotEnoughData, "empty price series")
	}
	if err := w.Validate(); err != nil {
		return err
	}
	for i, p := range prices {
		if p <= 0 {
			return errors.Wrapf(domain.ErrInvalidPrice, "price %g at index %d", p, i)
		}
	}
	return nil
}
