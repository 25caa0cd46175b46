package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	str2duration "github.com/xhit/go-str2duration/v2"
	"gitlab.com/optionscope/OptionScope/api"
	"gitlab.com/optionscope/OptionScope/database"
	"gitlab.com/optionscope/OptionScope/helpers"
	"gitlab.com/optionscope/OptionScope/interfaces"
	"gitlab.com/optionscope/OptionScope/models"
	"gitlab.com/optionscope/OptionScope/providers/binance"
	"gitlab.com/optionscope/OptionScope/providers/paper"
	"gitlab.com/optionscope/OptionScope/regime"
	"gitlab.com/optionscope/OptionScope/risk"
	"gitlab.com/optionscope/OptionScope/services"
)

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

func main() {
	app := &cli.App{
		Name:  "optionscope",
		Usage: "market-regime analysis and risk-adjusted option strategy recommendations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pair", Value: "BTCEUR", Usage: "instrument pair"},
			&cli.StringFlag{Name: "interval", Value: "15m", Usage: "candle interval"},
			&cli.IntFlag{Name: "limit", Value: 240, Usage: "candles to fetch"},
			&cli.BoolFlag{Name: "paper", Usage: "use the synthetic paper provider"},
			&cli.StringFlag{Name: "model", Value: "regime-model.json", Usage: "predictor weights file"},
		},
		Commands: []*cli.Command{
			{Name: "analyze", Usage: "classify the current market regime", Action: runAnalyze},
			{
				Name:  "train",
				Usage: "train the regime predictor on recent history",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "budget", Usage: "wall-clock training budget, e.g. 30m"},
				},
				Action: runTrain,
			},
			{
				Name:  "crossvalidate",
				Usage: "k-fold cross-validation of the regime predictor",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "budget", Usage: "wall-clock budget, e.g. 30m"},
				},
				Action: runCrossValidate,
			},
			{Name: "recommend", Usage: "recommend option strategies for the risk profile", Action: runRecommend},
			{
				Name:  "record",
				Usage: "append a closed trade to the journal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "strategy", Required: true, Usage: "strategy name"},
					&cli.Float64Flag{Name: "profit-loss", Required: true, Usage: "realized profit or loss"},
					&cli.Float64Flag{Name: "drawdown", Usage: "max drawdown while the trade was open"},
					&cli.StringFlag{Name: "date", Usage: "close date, RFC 3339 (defaults to now)"},
				},
				Action: runRecord,
			},
			{Name: "gate", Usage: "answer the trade/no-trade gate", Action: runGate},
			{Name: "monitor", Usage: "watch the market and notify on regime changes", Action: runMonitor},
			{Name: "serve", Usage: "serve the dashboard HTTP API", Flags: []cli.Flag{
				&cli.StringFlag{Name: "address", Value: ":8080", Usage: "listen address"},
			}, Action: runServe},
		},
	}

	if err := app.Run(os.Args); err != nil {
		helpers.Logger.Fatalln(err)
	}
}

func provider(c *cli.Context) interfaces.MarketProvider {
	if c.Bool("paper") {
		return paper.NewPaperService()
	}
	return binance.NewBinanceService()
}

func fetchSeries(c *cli.Context) (*models.PriceSeries, error) {
	return provider(c).GetPriceSeries(c.String("pair"), c.String("interval"), c.Int("limit"))
}

// loadedPredictor answers the predictor restored from the model flag, or
// nil when no weights file exists yet.
func loadedPredictor(c *cli.Context) *regime.RegimePredictor {
	predictor := regime.NewRegimePredictor()
	if err := predictor.Load(c.String("model")); err != nil {
		return nil
	}
	return predictor
}

func budgetContext(c *cli.Context) (context.Context, context.CancelFunc, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	budget := c.String("budget")
	if budget == "" {
		return ctx, cancel, nil
	}
	duration, err := str2duration.ParseDuration(budget)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("unparseable budget %q: %w", budget, err)
	}
	ctx, timeoutCancel := context.WithTimeout(ctx, duration)
	return ctx, func() { timeoutCancel(); cancel() }, nil
}

func printJSON(value interface{}) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// labelWindows derives per-window training labels by running the
// rule-based analyzer over each feature window, so the predictor learns to
// imitate (and eventually generalize over) the scored classification.
func labelWindows(analyzer *regime.MarketRegimeAnalyzer, series *models.PriceSeries, sequenceLength int) []models.Regime {
	var labels []models.Regime
	for i := sequenceLength; i < series.Len(); i++ {
		window := &models.PriceSeries{
			Timestamps: series.Timestamps[i-sequenceLength : i],
			Prices:     series.Prices[i-sequenceLength : i],
			Volumes:    series.Volumes[i-sequenceLength : i],
		}
		verdict, err := analyzer.Analyze(window)
		if err != nil {
			labels = append(labels, models.RegimeNeutral)
			continue
		}
		labels = append(labels, verdict.Regime)
	}
	return labels
}

func runAnalyze(c *cli.Context) error {
	series, err := fetchSeries(c)
	if err != nil {
		return err
	}

	source := "rule-based"
	var analyzer interfaces.RegimeAnalyzer = regime.NewMarketRegimeAnalyzer()
	if predictor := loadedPredictor(c); predictor != nil {
		analyzer = predictor
		source = "predictor"
	}

	verdict, err := analyzer.Analyze(series)
	if err != nil {
		return err
	}
	helpers.Logger.Infoln(fmt.Sprintf("🔍 %s regime: %s (confidence %.2f, %s)",
		c.String("pair"), verdict.Regime, verdict.Confidence, source))
	return printJSON(verdict)
}

func runTrain(c *cli.Context) error {
	series, err := fetchSeries(c)
	if err != nil {
		return err
	}

	ctx, cancel, err := budgetContext(c)
	if err != nil {
		return err
	}
	defer cancel()

	settings := regime.NewPredictorSettings()
	predictor := regime.NewRegimePredictorWithSettings(settings)
	labels := labelWindows(regime.NewMarketRegimeAnalyzer(), series, settings.SequenceLength)

	helpers.Logger.Infoln(fmt.Sprintf("🧠 Training regime predictor on %d windows of %s", len(labels), c.String("pair")))
	if err := predictor.Train(ctx, series, labels); err != nil {
		return err
	}
	if err := predictor.Save(c.String("model")); err != nil {
		return err
	}
	helpers.Logger.Infoln(fmt.Sprintf("🧠 Predictor trained and saved to %s", c.String("model")))
	return nil
}

func runCrossValidate(c *cli.Context) error {
	series, err := fetchSeries(c)
	if err != nil {
		return err
	}

	ctx, cancel, err := budgetContext(c)
	if err != nil {
		return err
	}
	defer cancel()

	settings := regime.NewPredictorSettings()
	predictor := regime.NewRegimePredictorWithSettings(settings)
	labels := labelWindows(regime.NewMarketRegimeAnalyzer(), series, settings.SequenceLength)

	results, err := predictor.CrossValidate(ctx, series, labels)
	if err != nil {
		return err
	}
	return printJSON(results)
}

func profileFromEnv() models.RiskProfile {
	maxDrawdown, _ := strconv.ParseFloat(os.Getenv("maxDrawdown"), 64)
	if maxDrawdown == 0 {
		maxDrawdown = 0.2
	}
	targetReturn, _ := strconv.ParseFloat(os.Getenv("targetReturn"), 64)
	horizon, _ := strconv.Atoi(os.Getenv("investmentHorizon"))
	if horizon == 0 {
		horizon = 90
	}
	balance, _ := strconv.ParseFloat(os.Getenv("accountBalance"), 64)
	if balance == 0 {
		balance = 10000
	}
	maxLossPerTrade, _ := strconv.ParseFloat(os.Getenv("maxLossPerTrade"), 64)
	if maxLossPerTrade == 0 {
		maxLossPerTrade = 0.02
	}
	tolerance := models.RiskTolerance(os.Getenv("riskTolerance"))
	if tolerance == "" {
		tolerance = models.ToleranceModerate
	}

	return models.RiskProfile{
		RiskTolerance:       tolerance,
		MaxDrawdown:         maxDrawdown,
		TargetReturn:        targetReturn,
		InvestmentHorizon:   horizon,
		AccountBalance:      balance,
		MaxLossPerTrade:     maxLossPerTrade,
		PreferredMarketBias: models.MarketBias(os.Getenv("preferredMarketBias")),
	}
}

func journal() ([]models.TradeRecord, *database.DBService) {
	databaseIsEnabled, _ := strconv.ParseBool(os.Getenv("enableDatabaseRecording"))
	if !databaseIsEnabled {
		return nil, nil
	}
	databaseService, err := database.NewDBService(os.Getenv("databaseHost"), os.Getenv("databasePort"),
		os.Getenv("databaseName"), os.Getenv("databaseUser"), os.Getenv("databasePassword"))
	if err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("database unavailable: %s", err.Error()))
		return nil, nil
	}
	records, err := databaseService.TradeRecords()
	if err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("reading journal: %s", err.Error()))
		return nil, databaseService
	}
	return records, databaseService
}

func runRecommend(c *cli.Context) error {
	history, _ := journal()
	manager, err := risk.NewRiskManager(profileFromEnv(), history)
	if err != nil {
		return err
	}

	series, err := fetchSeries(c)
	if err != nil {
		return err
	}
	return printJSON(manager.RecommendedStrategies(series))
}

func runGate(c *cli.Context) error {
	history, _ := journal()
	manager, err := risk.NewRiskManager(profileFromEnv(), history)
	if err != nil {
		return err
	}

	series, err := fetchSeries(c)
	if err != nil {
		return err
	}
	return printJSON(map[string]bool{"shouldTrade": manager.ShouldTrade(series)})
}

func runRecord(c *cli.Context) error {
	_, databaseService := journal()
	if databaseService == nil {
		return fmt.Errorf("recording needs enableDatabaseRecording=true and a reachable database")
	}

	date := time.Now()
	if c.String("date") != "" {
		parsed, err := time.Parse(time.RFC3339, c.String("date"))
		if err != nil {
			return fmt.Errorf("unparseable date %q: %w", c.String("date"), err)
		}
		date = parsed
	}

	id, err := databaseService.AddTradeRecord(models.TradeRecord{
		Date:       date,
		Strategy:   c.String("strategy"),
		ProfitLoss: c.Float64("profit-loss"),
		Drawdown:   c.Float64("drawdown"),
	})
	if err != nil {
		return err
	}
	helpers.Logger.Infoln(fmt.Sprintf("📒 Trade #%d recorded: %s %.2f", id, c.String("strategy"), c.Float64("profit-loss")))
	return nil
}

func runMonitor(c *cli.Context) error {
	_, databaseService := journal()

	var analyzer interfaces.RegimeAnalyzer = regime.NewMarketRegimeAnalyzer()
	fallback := regime.NewMarketRegimeAnalyzer()
	if predictor := loadedPredictor(c); predictor != nil {
		analyzer = predictor
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	monitor := services.NewRegimeMonitorService(provider(c), analyzer, fallback, databaseService)
	if err := monitor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServe(c *cli.Context) error {
	_, databaseService := journal()

	var analyzer interfaces.RegimeAnalyzer = regime.NewMarketRegimeAnalyzer()
	fallback := regime.NewMarketRegimeAnalyzer()
	if predictor := loadedPredictor(c); predictor != nil {
		analyzer = predictor
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server := api.NewServer(provider(c), analyzer, fallback, databaseService)
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	helpers.Logger.Infoln(fmt.Sprintf("🖥 API listening on %s", c.String("address")))
	if err := server.Start(c.String("address")); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
