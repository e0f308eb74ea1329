package marketdata

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/jb68/moneybot/internal/domain"
)

// FileSource reads a snapshot saved as a JSON object of "FIAT_COIN" keys to chart data.
type FileSource struct {
	path string
}

// NewFileSource returns a FileSource reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Snapshot reads the file and keeps the markets quoted in fiat.
func (s *FileSource) Snapshot(_ context.Context, fiat domain.Coin) (domain.MarketSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot file %s", s.path)
	}

	var raw domain.MarketSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "decode snapshot file %s", s.path)
	}

	snapshot := make(domain.MarketSnapshot, len(raw))
	for _, market := range raw.AvailableMarkets(fiat) {
		snapshot[market.String()] = raw[market.String()]
	}
	return snapshot, nil
}
