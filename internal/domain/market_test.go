package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarket(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Market
		wantErr bool
	}{
		{name: "valid", input: "BTC_ETH", want: Market{Fiat: "BTC", Coin: "ETH"}},
		{name: "no separator", input: "BTCETH", wantErr: true},
		{name: "too many parts", input: "BTC_ETH_X", wantErr: true},
		{name: "empty coin", input: "BTC_", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMarket(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestMarket_Symbol(t *testing.T) {
	assert.Equal(t, "ETHBTC", NewMarket("BTC", "ETH").Symbol())
}
