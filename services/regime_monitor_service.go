package services

import (
	"context"
	"fmt"
	"github.com/joho/godotenv"
	str2duration "github.com/xhit/go-str2duration/v2"
	"gitlab.com/optionscope/OptionScope/database"
	"gitlab.com/optionscope/OptionScope/helpers"
	"gitlab.com/optionscope/OptionScope/interfaces"
	"gitlab.com/optionscope/OptionScope/models"
	"os"
	"strconv"
	"time"
)

// RegimeMonitorService periodically re-classifies the configured pair and
// raises a notification when the regime flips. The primary analyzer is
// typically the trained predictor; when it refuses (not trained,
// insufficient data) the rule-based fallback answers instead, so the
// monitor keeps reporting either way.
type RegimeMonitorService struct {
	provider        interfaces.MarketProvider
	analyzer        interfaces.RegimeAnalyzer
	fallback        interfaces.RegimeAnalyzer
	databaseService *database.DBService

	pair          string
	interval      string
	analysisLimit int

	lastRegime models.Regime
}

func NewRegimeMonitorService(provider interfaces.MarketProvider, analyzer interfaces.RegimeAnalyzer,
	fallback interfaces.RegimeAnalyzer, databaseService *database.DBService) *RegimeMonitorService {
	return &RegimeMonitorService{
		provider:        provider,
		analyzer:        analyzer,
		fallback:        fallback,
		databaseService: databaseService,
	}
}

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

// Start blocks until ctx is done, analyzing once per analysisPeriod.
func (rms *RegimeMonitorService) Start(ctx context.Context) error {
	rms.pair = os.Getenv("pair")
	if rms.pair == "" {
		rms.pair = "BTCEUR"
	}
	rms.interval = os.Getenv("interval")
	if rms.interval == "" {
		rms.interval = "15m"
	}
	rms.analysisLimit, _ = strconv.Atoi(os.Getenv("analysisLimit"))
	if rms.analysisLimit == 0 {
		rms.analysisLimit = 240
	}

	analysisPeriod := os.Getenv("analysisPeriod")
	if analysisPeriod == "" {
		analysisPeriod = rms.interval
	}
	pollEvery, err := str2duration.ParseDuration(analysisPeriod)
	if err != nil {
		return fmt.Errorf("monitor: unparseable analysisPeriod %q: %w", analysisPeriod, err)
	}

	helpers.Logger.Infoln(fmt.Sprintf("🔍 Regime monitor started on %s (%s, every %s)", rms.pair, rms.interval, pollEvery))

	ticker := time.NewTicker(pollEvery)
	defer ticker.Stop()
	for {
		rms.analyzeOnce()
		select {
		case <-ctx.Done():
			helpers.Logger.Infoln("Regime monitor stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (rms *RegimeMonitorService) analyzeOnce() {
	series, err := rms.provider.GetPriceSeries(rms.pair, rms.interval, rms.analysisLimit)
	if err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("monitor: fetching %s series: %s", rms.pair, err.Error()))
		return
	}

	source := "predictor"
	verdict, err := rms.analyzer.Analyze(series)
	if err != nil && rms.fallback != nil {
		source = "rule-based"
		verdict, err = rms.fallback.Analyze(series)
	}
	if err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("monitor: analyzing %s: %s", rms.pair, err.Error()))
		return
	}

	if rms.databaseService != nil {
		if _, err := rms.databaseService.AddRegimeAnalysis(rms.pair, rms.interval, source, *verdict); err != nil {
			helpers.Logger.Errorln(fmt.Sprintf("monitor: recording analysis: %s", err.Error()))
		}
	}

	if rms.lastRegime != "" && rms.lastRegime != verdict.Regime {
		helpers.Logger.Infoln(fmt.Sprintf("📊 %s regime changed %s → %s at %.2f (confidence %.2f, %s)",
			rms.pair, rms.lastRegime, verdict.Regime, series.LastPrice(), verdict.Confidence, source))
	} else {
		helpers.Logger.Debugln(fmt.Sprintf("%s regime %s at %.2f (confidence %.2f, %s)",
			rms.pair, verdict.Regime, series.LastPrice(), verdict.Confidence, source))
	}
	rms.lastRegime = verdict.Regime
}
