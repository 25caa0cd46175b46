package interfaces

import (
	"gitlab.com/optionscope/OptionScope/models"
)

// MarketProvider supplies price/volume history from an exchange or a
// canned source.
type MarketProvider interface {
	GetPriceSeries(pair string, interval string, limit int) (*models.PriceSeries, error)
}
