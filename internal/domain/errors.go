package domain

import "github.com/pkg/errors"

var (
	// ErrMissingMarket a required market is absent from the snapshot.
	ErrMissingMarket = errors.New("market missing from snapshot")
	// ErrUnknownPriceKey the configured price field does not exist on chart data.
	ErrUnknownPriceKey = errors.New("unknown price key")
	// ErrInvalidPrice a market price is zero or negative.
	ErrInvalidPrice = errors.New("invalid market price")
	// ErrDegenerateAllocation an allocation would divide by an empty market set.
	ErrDegenerateAllocation = errors.New("degenerate allocation")
)
