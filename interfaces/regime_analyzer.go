package interfaces

import (
	"gitlab.com/optionscope/OptionScope/models"
)

// RegimeAnalyzer is the shared capability of the rule-based analyzer and
// the trained sequence predictor: turn a price series into a regime
// verdict. Callers pick the implementation, typically falling back to the
// rule-based one when no trained model is available.
type RegimeAnalyzer interface {
	Analyze(series *models.PriceSeries) (*models.RegimeVerdict, error)
}
