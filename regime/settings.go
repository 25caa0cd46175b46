package regime

import (
	"github.com/creasty/defaults"
)

// AnalyzerSettings carries the lookbacks for the rule-based analyzer. The
// defaults match the readings the strategy catalog and the normalization
// bounds were tuned against, so override with care.
type AnalyzerSettings struct {
	LookbackPeriod   int     `default:"20"`
	RSIPeriod        int     `default:"14"`
	MACDFastPeriod   int     `default:"12"`
	MACDSlowPeriod   int     `default:"26"`
	MACDSignalPeriod int     `default:"9"`
	BBPeriod         int     `default:"20"`
	BBStdDev         float64 `default:"2"`
}

func NewAnalyzerSettings() AnalyzerSettings {
	settings := AnalyzerSettings{}
	_ = defaults.Set(&settings)
	return settings
}

// PredictorSettings configures the sequence predictor. The network updates
// weights online per pattern, so the training budget is expressed in full
// epochs over the feature windows.
type PredictorSettings struct {
	SequenceLength int     `default:"20"`
	FeatureCount   int     `default:"8"`
	HiddenUnits    int     `default:"64"`
	Epochs         int     `default:"50"`
	NumFolds       int     `default:"5"`
	LearningRate   float64 `default:"0.1"`
	Momentum       float64 `default:"0.4"`
}

func NewPredictorSettings() PredictorSettings {
	settings := PredictorSettings{}
	_ = defaults.Set(&settings)
	return settings
}
