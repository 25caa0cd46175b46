package regime

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/goml/gobrain"
	"gitlab.com/optionscope/OptionScope/helpers"
	"gitlab.com/optionscope/OptionScope/indicators"
	"gitlab.com/optionscope/OptionScope/interfaces"
	"gitlab.com/optionscope/OptionScope/models"
)

// RegimePredictor is the trainable alternative to MarketRegimeAnalyzer.
// It owns an Elman-style recurrent network over per-window feature vectors
// and must be trained (or loaded) before Predict answers anything; the
// untrained network holds random weights and is never consulted silently.
type RegimePredictor struct {
	settings  PredictorSettings
	lookbacks AnalyzerSettings
	network   *gobrain.FeedForward
	trained   bool
}

// CrossValidationResult reports one held-out fold.
type CrossValidationResult struct {
	Fold               int     `json:"fold"`
	TrainAccuracy      float64 `json:"trainAccuracy"`
	ValidationAccuracy float64 `json:"validationAccuracy"`
	TrainLoss          float64 `json:"trainLoss"`
	ValidationLoss     float64 `json:"validationLoss"`
}

func NewRegimePredictor() *RegimePredictor {
	return NewRegimePredictorWithSettings(NewPredictorSettings())
}

func NewRegimePredictorWithSettings(settings PredictorSettings) *RegimePredictor {
	predictor := &RegimePredictor{settings: settings, lookbacks: NewAnalyzerSettings()}
	predictor.network = predictor.newNetwork()
	return predictor
}

var _ interfaces.RegimeAnalyzer = (*RegimePredictor)(nil)

func (rp *RegimePredictor) newNetwork() *gobrain.FeedForward {
	network := &gobrain.FeedForward{}
	network.Init(rp.settings.FeatureCount, rp.settings.HiddenUnits, len(models.Regimes))
	// Context units feed the previous hidden state back in, which is what
	// carries the sequence memory across window steps.
	network.SetContexts(1, nil)
	return network
}

// Ready reports whether the predictor has been trained or loaded.
func (rp *RegimePredictor) Ready() bool {
	return rp.trained
}

// PrepareFeatures slides a SequenceLength window over the series and emits
// one feature vector per window position: volatility, momentum, volume
// trend, RSI (scaled to [0,1]), MACD, Bollinger position, trend strength
// and last return. Indicator sentinels (NaN on short windows, e.g. MACD
// inside a 20-bar window) are substituted with their neutral defaults so
// the network always sees finite input.
func (rp *RegimePredictor) PrepareFeatures(series *models.PriceSeries) [][]float64 {
	var features [][]float64
	if series == nil {
		return features
	}

	sequenceLength := rp.settings.SequenceLength
	for i := sequenceLength; i < series.Len(); i++ {
		prices := series.Prices[i-sequenceLength : i]
		volumes := series.Volumes[i-sequenceLength : i]

		bbPeriod := rp.lookbacks.BBPeriod
		if bbPeriod > len(prices) {
			bbPeriod = len(prices)
		}
		rsi := indicators.RSI(prices, rp.lookbacks.RSIPeriod)
		macd := indicators.MACD(prices, rp.lookbacks.MACDFastPeriod, rp.lookbacks.MACDSlowPeriod, rp.lookbacks.MACDSignalPeriod)
		bollinger := indicators.BollingerPosition(prices, bbPeriod, rp.lookbacks.BBStdDev)

		features = append(features, []float64{
			sanitize(indicators.Volatility(prices), 0),
			sanitize(indicators.Momentum(prices, len(prices)), 0),
			sanitize(indicators.VolumeTrend(volumes, len(volumes)), 1),
			sanitize(rsi, 50) / 100,
			sanitize(macd, 0),
			sanitize(bollinger, 0),
			sanitize(indicators.TrendStrength(prices), 0),
			sanitize(indicators.LastReturn(prices), 0),
		})
	}

	return features
}

// Train fits the network on the series' feature windows against the given
// per-window regime labels. One label is expected per window position,
// i.e. len(regimes) == series.Len() - SequenceLength. Training checks ctx
// between epochs so a caller can bound the run.
func (rp *RegimePredictor) Train(ctx context.Context, series *models.PriceSeries, regimes []models.Regime) error {
	patterns, err := rp.buildPatterns(series, regimes)
	if err != nil {
		return err
	}

	for epoch := 1; epoch <= rp.settings.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("regime: training cancelled at epoch %d: %w", epoch, err)
		}
		rp.network.Train(patterns, 1, rp.settings.LearningRate, rp.settings.Momentum, false)
		loss, accuracy := rp.evaluate(rp.network, patterns)
		helpers.Logger.Debugln(fmt.Sprintf("Epoch %d/%d: loss = %.4f, accuracy = %.4f", epoch, rp.settings.Epochs, loss, accuracy))
	}

	rp.trained = true
	return nil
}

// CrossValidate runs k-fold validation with contiguous, unshuffled folds:
// fold composition is order-dependent, which keeps runs comparable on the
// same series. Each fold trains a fresh network so no state leaks between
// folds.
func (rp *RegimePredictor) CrossValidate(ctx context.Context, series *models.PriceSeries, regimes []models.Regime) ([]CrossValidationResult, error) {
	patterns, err := rp.buildPatterns(series, regimes)
	if err != nil {
		return nil, err
	}

	numFolds := rp.settings.NumFolds
	foldSize := len(patterns) / numFolds
	if foldSize == 0 {
		return nil, fmt.Errorf("regime: %d feature windows cannot fill %d folds", len(patterns), numFolds)
	}

	var results []CrossValidationResult
	for fold := 0; fold < numFolds; fold++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("regime: cross-validation cancelled at fold %d: %w", fold+1, err)
		}
		helpers.Logger.Debugln(fmt.Sprintf("Training fold %d/%d", fold+1, numFolds))

		startIdx := fold * foldSize
		endIdx := startIdx + foldSize
		validation := patterns[startIdx:endIdx]
		training := make([][][]float64, 0, len(patterns)-foldSize)
		training = append(training, patterns[:startIdx]...)
		training = append(training, patterns[endIdx:]...)

		foldNetwork := rp.newNetwork()
		for epoch := 1; epoch <= rp.settings.Epochs; epoch++ {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("regime: cross-validation cancelled at fold %d epoch %d: %w", fold+1, epoch, err)
			}
			foldNetwork.Train(training, 1, rp.settings.LearningRate, rp.settings.Momentum, false)
		}

		trainLoss, trainAccuracy := rp.evaluate(foldNetwork, training)
		validationLoss, validationAccuracy := rp.evaluate(foldNetwork, validation)
		results = append(results, CrossValidationResult{
			Fold:               fold + 1,
			TrainAccuracy:      trainAccuracy,
			ValidationAccuracy: validationAccuracy,
			TrainLoss:          trainLoss,
			ValidationLoss:     validationLoss,
		})
	}

	avgTrainAccuracy := 0.0
	avgValidationAccuracy := 0.0
	avgTrainLoss := 0.0
	avgValidationLoss := 0.0
	for _, result := range results {
		avgTrainAccuracy += result.TrainAccuracy
		avgValidationAccuracy += result.ValidationAccuracy
		avgTrainLoss += result.TrainLoss
		avgValidationLoss += result.ValidationLoss
	}
	folds := float64(len(results))
	helpers.Logger.Infoln(fmt.Sprintf("Cross-validation: avg train accuracy %.2f%%, avg validation accuracy %.2f%%, avg train loss %.4f, avg validation loss %.4f",
		avgTrainAccuracy/folds*100, avgValidationAccuracy/folds*100, avgTrainLoss/folds, avgValidationLoss/folds))

	return results, nil
}

// Predict classifies the most recent window only. Confidence is the
// winning share of the normalized network outputs. Predicting before
// Train or Load is a hard error.
func (rp *RegimePredictor) Predict(series *models.PriceSeries) (*models.RegimeVerdict, error) {
	if !rp.trained {
		return nil, fmt.Errorf("regime: predictor not trained")
	}

	features := rp.PrepareFeatures(series)
	if len(features) == 0 {
		return nil, fmt.Errorf("regime: series needs more than %d samples for one feature window", rp.settings.SequenceLength)
	}

	lastWindow := features[len(features)-1]
	probabilities := normalizeOutputs(rp.infer(lastWindow))
	best := helpers.ArgMax(probabilities)

	return &models.RegimeVerdict{
		Regime:     models.RegimeFromIndex(best),
		Confidence: probabilities[best],
		Indicators: models.RegimeIndicators{
			Trend:      lastWindow[6],
			Momentum:   lastWindow[1],
			Volatility: lastWindow[0],
			Volume:     lastWindow[2],
		},
	}, nil
}

// infer is a side-effect-free forward pass. Update writes the hidden
// activations back into the Elman context units, so the pre-call contexts
// are restored afterwards: inference must not change what a later call or
// a Save observes. Context mutation stays confined to training.
func (rp *RegimePredictor) infer(features []float64) []float64 {
	saved := make([][]float64, len(rp.network.Contexts))
	for i, contextUnits := range rp.network.Contexts {
		saved[i] = append([]float64(nil), contextUnits...)
	}
	outputs := rp.network.Update(features)
	rp.network.Contexts = saved
	return outputs
}

// Analyze makes the predictor interchangeable with the rule-based
// analyzer.
func (rp *RegimePredictor) Analyze(series *models.PriceSeries) (*models.RegimeVerdict, error) {
	return rp.Predict(series)
}

// Save writes the trained network weights to path. The JSON encoding
// round-trips float64 exactly, so a loaded network answers bit-identical
// predictions.
func (rp *RegimePredictor) Save(path string) error {
	if !rp.trained {
		return fmt.Errorf("regime: refusing to save an untrained network")
	}
	encoded, err := json.Marshal(rp.network)
	if err != nil {
		return fmt.Errorf("regime: encoding network: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("regime: writing %s: %w", path, err)
	}
	return nil
}

// Load restores network weights written by Save and marks the predictor
// ready.
func (rp *RegimePredictor) Load(path string) error {
	encoded, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("regime: reading %s: %w", path, err)
	}
	network := &gobrain.FeedForward{}
	if err := json.Unmarshal(encoded, network); err != nil {
		return fmt.Errorf("regime: decoding network: %w", err)
	}
	rp.network = network
	rp.trained = true
	return nil
}

func (rp *RegimePredictor) buildPatterns(series *models.PriceSeries, regimes []models.Regime) ([][][]float64, error) {
	features := rp.PrepareFeatures(series)
	if len(features) == 0 {
		return nil, fmt.Errorf("regime: series needs more than %d samples for one feature window", rp.settings.SequenceLength)
	}
	if len(regimes) != len(features) {
		return nil, fmt.Errorf("regime: got %d labels for %d feature windows", len(regimes), len(features))
	}

	patterns := make([][][]float64, 0, len(features))
	for i, feature := range features {
		patterns = append(patterns, [][]float64{feature, oneHot(regimes[i])})
	}
	return patterns, nil
}

// evaluate computes categorical cross-entropy and accuracy of a network
// over labelled patterns.
func (rp *RegimePredictor) evaluate(network *gobrain.FeedForward, patterns [][][]float64) (float64, float64) {
	if len(patterns) == 0 {
		return 0, 0
	}

	const epsilon = 1e-12
	totalLoss := 0.0
	correct := 0
	for _, pattern := range patterns {
		probabilities := normalizeOutputs(network.Update(pattern[0]))
		label := helpers.ArgMax(pattern[1])
		totalLoss += -math.Log(math.Max(probabilities[label], epsilon))
		if helpers.ArgMax(probabilities) == label {
			correct++
		}
	}

	return totalLoss / float64(len(patterns)), float64(correct) / float64(len(patterns))
}

// normalizeOutputs turns the raw sigmoid outputs into a distribution so
// the winning share reads as a probability.
func normalizeOutputs(outputs []float64) []float64 {
	probabilities := make([]float64, len(outputs))
	total := helpers.Sum(outputs)
	if total == 0 {
		for i := range probabilities {
			probabilities[i] = 1 / float64(len(outputs))
		}
		return probabilities
	}
	for i, output := range outputs {
		probabilities[i] = output / total
	}
	return probabilities
}

func oneHot(regime models.Regime) []float64 {
	encoded := make([]float64, len(models.Regimes))
	encoded[regime.Index()] = 1
	return encoded
}
