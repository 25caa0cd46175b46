package paper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPriceSeriesIsDeterministicPerPair(t *testing.T) {
	paperService := NewPaperService()

	first, err := paperService.GetPriceSeries("BTCEUR", "15m", 100)
	assert.Nil(t, err)
	second, err := paperService.GetPriceSeries("BTCEUR", "15m", 100)
	assert.Nil(t, err)

	assert.Equal(t, first.Prices, second.Prices)
	assert.Equal(t, first.Volumes, second.Volumes)

	other, err := paperService.GetPriceSeries("ETHEUR", "15m", 100)
	assert.Nil(t, err)
	assert.NotEqual(t, first.Prices, other.Prices)
}

func TestGetPriceSeriesDefaultsAndErrors(t *testing.T) {
	paperService := NewPaperService()

	series, err := paperService.GetPriceSeries("BTCEUR", "1h", 0)
	assert.Nil(t, err)
	assert.Equal(t, 1000, series.Len())

	for _, price := range series.Prices {
		assert.Greater(t, price, 0.0)
	}

	_, err = paperService.GetPriceSeries("BTCEUR", "soon", 10)
	assert.Error(t, err)
}
