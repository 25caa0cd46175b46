package models

type Regime string

const (
	RegimeBullish  Regime = "bullish"
	RegimeBearish  Regime = "bearish"
	RegimeNeutral  Regime = "neutral"
	RegimeVolatile Regime = "volatile"
)

// Regimes lists every regime in classification order. The order matters:
// the classifier resolves score ties towards the earliest entry, and the
// predictor uses the position as its class index.
var Regimes = []Regime{RegimeBullish, RegimeBearish, RegimeNeutral, RegimeVolatile}

func (r Regime) Index() int {
	for i, regime := range Regimes {
		if regime == r {
			return i
		}
	}
	return RegimeNeutral.Index()
}

func RegimeFromIndex(index int) Regime {
	if index < 0 || index >= len(Regimes) {
		return RegimeNeutral
	}
	return Regimes[index]
}

// RegimeIndicators carries the normalized readings the verdict was scored
// on. The rule-based analyzer does not clamp them, so values can leave the
// nominal [0,1] range when a reading sits outside its expected bounds.
type RegimeIndicators struct {
	Trend      float64 `json:"trend"`
	Momentum   float64 `json:"momentum"`
	Volatility float64 `json:"volatility"`
	Volume     float64 `json:"volume"`
}

// RegimeVerdict is the outcome of one regime classification. Confidence is
// the winning score's share of the four regime scores for the rule-based
// analyzer (a relative measure, not a calibrated probability) and the
// normalized network output for the trained predictor.
type RegimeVerdict struct {
	Regime     Regime           `json:"regime"`
	Confidence float64          `json:"confidence"`
	Indicators RegimeIndicators `json:"indicators"`
}
