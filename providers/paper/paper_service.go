package paper

import (
	"fmt"
	str2duration "github.com/xhit/go-str2duration/v2"
	"gitlab.com/optionscope/OptionScope/interfaces"
	"gitlab.com/optionscope/OptionScope/models"
	"hash/fnv"
	"math/rand"
	"time"
)

// PaperService synthesizes a deterministic random-walk series per pair, so
// demos and tests run without exchange credentials. The same pair always
// produces the same walk.
type PaperService struct{}

func NewPaperService() *PaperService {
	return &PaperService{}
}

var _ interfaces.MarketProvider = (*PaperService)(nil)

func (paperService *PaperService) GetPriceSeries(pair string, interval string, limit int) (*models.PriceSeries, error) {
	if limit == 0 {
		limit = 1000
	}

	intervalDuration, err := str2duration.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("paper: unparseable interval %q: %w", interval, err)
	}

	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(pair))
	rng := rand.New(rand.NewSource(int64(hasher.Sum64())))

	series := models.NewPriceSeries()
	price := 100.0
	start := time.Now().Add(-intervalDuration * time.Duration(limit))
	for i := 0; i < limit; i++ {
		price *= 1 + rng.NormFloat64()*0.01
		volume := 1_000_000 * (0.5 + rng.Float64())
		series.AddSample(start.Add(intervalDuration*time.Duration(i)), price, volume)
	}

	return series, nil
}
