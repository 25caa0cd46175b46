package risk

import (
	"gitlab.com/optionscope/OptionScope/models"
)

// Catalog is the static option-strategy table recommendations are drawn
// from. Entries are data only: RecommendedPositionSize is left zero here
// and computed per recommendation pass against the caller's risk profile.
// Extend the table, not the filtering code, to add strategies.
var Catalog = []models.Strategy{
	{
		Name:                "Bull Call Spread",
		Description:         "Buy lower strike call, sell higher strike call",
		RiskLevel:           models.RiskLevelMedium,
		ExpectedReturn:      0.25,
		MaxDrawdown:         0.15,
		SharpeRatio:         1.8,
		ProbabilityOfProfit: 0.65,
		MarketBias:          models.BiasBullish,
		Setup: models.StrategySetup{
			Entry:    []string{"Buy ATM call", "Sell OTM call (30-40% higher)", "30-45 days to expiration"},
			Exit:     []string{"50% profit target", "Close at 50% max loss", "Roll if tested"},
			StopLoss: "50% of max loss",
		},
	},
	{
		Name:                "Covered Call",
		Description:         "Own stock and sell OTM call",
		RiskLevel:           models.RiskLevelLow,
		ExpectedReturn:      0.15,
		MaxDrawdown:         0.10,
		SharpeRatio:         1.4,
		ProbabilityOfProfit: 0.75,
		MarketBias:          models.BiasBullish,
		Setup: models.StrategySetup{
			Entry:    []string{"Own 100 shares", "Sell OTM call (30 delta)", "30-45 days to expiration"},
			Exit:     []string{"50% profit target", "Roll if tested", "Close at 21 days"},
			StopLoss: "Stock stop loss",
		},
	},
	{
		Name:                "Bull Put Spread",
		Description:         "Sell OTM put spread in bullish market",
		RiskLevel:           models.RiskLevelMedium,
		ExpectedReturn:      0.20,
		MaxDrawdown:         0.15,
		SharpeRatio:         1.8,
		ProbabilityOfProfit: 0.70,
		MarketBias:          models.BiasBullish,
		Setup: models.StrategySetup{
			Entry:    []string{"Sell OTM put (30 delta)", "Buy lower strike put", "30-45 days to expiration"},
			Exit:     []string{"50% profit target", "Close at 50% max loss", "Roll if tested"},
			StopLoss: "50% of max loss",
		},
	},
	{
		Name:                "Bear Call Spread",
		Description:         "Sell OTM call spread in bearish market",
		RiskLevel:           models.RiskLevelMedium,
		ExpectedReturn:      0.20,
		MaxDrawdown:         0.15,
		SharpeRatio:         1.7,
		ProbabilityOfProfit: 0.70,
		MarketBias:          models.BiasBearish,
		Setup: models.StrategySetup{
			Entry:    []string{"Sell OTM call (30 delta)", "Buy higher strike call", "30-45 days to expiration"},
			Exit:     []string{"50% profit target", "Close at 50% max loss", "Roll if tested"},
			StopLoss: "50% of max loss",
		},
	},
	{
		Name:                "Protective Put",
		Description:         "Own stock and buy ATM put",
		RiskLevel:           models.RiskLevelLow,
		ExpectedReturn:      0.12,
		MaxDrawdown:         0.08,
		SharpeRatio:         1.3,
		ProbabilityOfProfit: 0.60,
		MarketBias:          models.BiasBearish,
		Setup: models.StrategySetup{
			Entry:    []string{"Own 100 shares", "Buy ATM put", "30-45 days to expiration"},
			Exit:     []string{"Close put at 50% loss", "Roll if tested", "Close at 21 days"},
			StopLoss: "50% of put premium",
		},
	},
	{
		Name:                "Iron Condor",
		Description:         "Sell OTM put and call spreads to collect premium",
		RiskLevel:           models.RiskLevelLow,
		ExpectedReturn:      0.15,
		MaxDrawdown:         0.10,
		SharpeRatio:         1.5,
		ProbabilityOfProfit: 0.80,
		MarketBias:          models.BiasNeutral,
		Setup: models.StrategySetup{
			Entry:    []string{"Sell OTM put spread (30 delta)", "Sell OTM call spread (30 delta)", "Equal width spreads"},
			Exit:     []string{"50% profit target", "21 days to expiration", "Close at 50% max loss"},
			StopLoss: "50% of max loss",
		},
	},
	{
		Name:                "Calendar Spread",
		Description:         "Sell near-term option, buy far-term option",
		RiskLevel:           models.RiskLevelLow,
		ExpectedReturn:      0.12,
		MaxDrawdown:         0.08,
		SharpeRatio:         1.3,
		ProbabilityOfProfit: 0.75,
		MarketBias:          models.BiasNeutral,
		Setup: models.StrategySetup{
			Entry:    []string{"Sell near-term ATM option", "Buy far-term ATM option", "Equal strikes"},
			Exit:     []string{"50% profit target", "Close at 50% max loss", "Roll if tested"},
			StopLoss: "50% of max loss",
		},
	},
	{
		Name:                "Butterfly Spread",
		Description:         "Combination of bull and bear spreads",
		RiskLevel:           models.RiskLevelMedium,
		ExpectedReturn:      0.30,
		MaxDrawdown:         0.20,
		SharpeRatio:         1.9,
		ProbabilityOfProfit: 0.65,
		MarketBias:          models.BiasNeutral,
		Setup: models.StrategySetup{
			Entry:    []string{"Buy lower strike call", "Sell 2 ATM calls", "Buy higher strike call"},
			Exit:     []string{"50% profit target", "Close at 50% max loss", "Close at 21 days"},
			StopLoss: "50% of max loss",
		},
	},
	{
		Name:                "Straddle",
		Description:         "Buy ATM call and put",
		RiskLevel:           models.RiskLevelHigh,
		ExpectedReturn:      0.40,
		MaxDrawdown:         0.25,
		SharpeRatio:         2.0,
		ProbabilityOfProfit: 0.55,
		MarketBias:          models.BiasNeutral,
		Setup: models.StrategySetup{
			Entry:    []string{"Buy ATM call", "Buy ATM put", "30-45 days to expiration"},
			Exit:     []string{"50% profit target", "Close at 50% max loss", "Close at 21 days"},
			StopLoss: "50% of max loss",
		},
	},
}
