package binance

import (
	"context"
	"fmt"
	"github.com/adshao/go-binance/v2"
	"github.com/joho/godotenv"
	str2duration "github.com/xhit/go-str2duration/v2"
	"gitlab.com/optionscope/OptionScope/interfaces"
	"gitlab.com/optionscope/OptionScope/models"
	"os"
	"strconv"
	"time"
)

// BinanceService pulls kline history and exposes it as the PriceSeries the
// analyzers consume.
type BinanceService struct {
	binanceClient *binance.Client
	apiKey        string
	apiSecret     string
}

func NewBinanceService() *BinanceService {
	binanceService := BinanceService{}
	binanceService.apiKey = os.Getenv("binanceAPIKey")
	binanceService.apiSecret = os.Getenv("binanceAPISecret")
	binanceService.binanceClient = binance.NewClient(binanceService.apiKey, binanceService.apiSecret)
	return &binanceService
}

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

var _ interfaces.MarketProvider = (*BinanceService)(nil)

func (binanceService *BinanceService) GetPriceSeries(pair string, interval string, limit int) (*models.PriceSeries, error) {
	if limit == 0 {
		limit = 1000
	}

	intervalDuration, err := str2duration.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("binance: unparseable interval %q: %w", interval, err)
	}

	// The klines endpoint answers at most 1000 candles per call.
	provisionalLimit := limit % 1000
	if provisionalLimit == 0 {
		provisionalLimit = 1000
	}
	var resultKlines []*binance.Kline
	for ; limit != 0; limit -= provisionalLimit {
		startTime := time.Now().Add(-intervalDuration * time.Duration(limit)).Unix()
		klines, err := binanceService.binanceClient.NewKlinesService().Symbol(pair).
			Interval(interval).Limit(provisionalLimit).StartTime(startTime * 1000).Do(context.Background())
		if err != nil {
			return nil, err
		}
		resultKlines = append(resultKlines, klines...)
		provisionalLimit = 1000
	}

	series := models.NewPriceSeries()
	for _, k := range resultKlines {
		closePrice, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("binance: unparseable close price %q: %w", k.Close, err)
		}
		volume, err := strconv.ParseFloat(k.Volume, 64)
		if err != nil {
			return nil, fmt.Errorf("binance: unparseable volume %q: %w", k.Volume, err)
		}
		series.AddSample(time.Unix(k.OpenTime/1000, 0), closePrice, volume)
	}

	return series, nil
}
