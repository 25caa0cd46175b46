package database

import (
	"github.com/joho/godotenv"
	database "gitlab.com/optionscope/OptionScope/database/models"
	"gitlab.com/optionscope/OptionScope/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"os"
)

// DBService persists the trade journal and regime-analysis snapshots. The
// risk manager itself never writes: it consumes the journal as an
// immutable snapshot fetched through TradeRecords.
type DBService struct {
	DB *gorm.DB
}

func NewDBService(dbHost string, dbPort string, dbName string, dbUser string, dbPass string) (*DBService, error) {
	dsn := dbUser + ":" + dbPass + "@tcp(" + dbHost + ":" + dbPort + ")/" + dbName + "?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	dbs := &DBService{
		DB: db,
	}

	err = dbs.DB.AutoMigrate(&database.TradeRecord{}, &database.RegimeAnalysis{})
	if err != nil {
		return nil, err
	}

	return dbs, nil
}

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

func (dbs *DBService) AddTradeRecord(record models.TradeRecord) (uint, error) {
	dbRecord := database.TradeRecord{
		Date:       record.Date,
		Strategy:   record.Strategy,
		ProfitLoss: record.ProfitLoss,
		Drawdown:   record.Drawdown,
	}
	result := dbs.DB.Create(&dbRecord)
	if result.Error != nil {
		return 0, result.Error
	}
	return dbRecord.ID, nil
}

// TradeRecords returns the journal in insertion order, ready to hand to a
// RiskManager.
func (dbs *DBService) TradeRecords() ([]models.TradeRecord, error) {
	var dbRecords []database.TradeRecord
	result := dbs.DB.Order("date asc").Find(&dbRecords)
	if result.Error != nil {
		return nil, result.Error
	}

	records := make([]models.TradeRecord, 0, len(dbRecords))
	for _, dbRecord := range dbRecords {
		records = append(records, models.TradeRecord{
			Date:       dbRecord.Date,
			Strategy:   dbRecord.Strategy,
			ProfitLoss: dbRecord.ProfitLoss,
			Drawdown:   dbRecord.Drawdown,
		})
	}
	return records, nil
}

func (dbs *DBService) AddRegimeAnalysis(pair string, interval string, source string, verdict models.RegimeVerdict) (uint, error) {
	dbAnalysis := database.RegimeAnalysis{
		Pair:       pair,
		Interval:   interval,
		Source:     source,
		Regime:     string(verdict.Regime),
		Confidence: verdict.Confidence,
		Trend:      verdict.Indicators.Trend,
		Momentum:   verdict.Indicators.Momentum,
		Volatility: verdict.Indicators.Volatility,
		Volume:     verdict.Indicators.Volume,
	}
	result := dbs.DB.Create(&dbAnalysis)
	if result.Error != nil {
		return 0, result.Error
	}
	return dbAnalysis.ID, nil
}

// LastRegimeAnalysis answers the most recent stored verdict for a pair, or
// nil when none has been recorded yet.
func (dbs *DBService) LastRegimeAnalysis(pair string) (*models.RegimeVerdict, error) {
	var dbAnalysis database.RegimeAnalysis
	result := dbs.DB.Where("pair = ?", pair).Order("created_at desc").Limit(1).Find(&dbAnalysis)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return &models.RegimeVerdict{
		Regime:     models.Regime(dbAnalysis.Regime),
		Confidence: dbAnalysis.Confidence,
		Indicators: models.RegimeIndicators{
			Trend:      dbAnalysis.Trend,
			Momentum:   dbAnalysis.Momentum,
			Volatility: dbAnalysis.Volatility,
			Volume:     dbAnalysis.Volume,
		},
	}, nil
}
