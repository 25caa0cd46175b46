package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gitlab.com/optionscope/OptionScope/database"
	"gitlab.com/optionscope/OptionScope/interfaces"
	"gitlab.com/optionscope/OptionScope/models"
	"gitlab.com/optionscope/OptionScope/risk"
)

// Server is the read-only HTTP surface the dashboard and strategy screens
// consume. It performs no writes: profiles and trade history either arrive
// in the request or are read from the journal.
type Server struct {
	echo            *echo.Echo
	provider        interfaces.MarketProvider
	analyzer        interfaces.RegimeAnalyzer
	fallback        interfaces.RegimeAnalyzer
	databaseService *database.DBService
}

type requestValidator struct {
	validate *validator.Validate
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

func NewServer(provider interfaces.MarketProvider, analyzer interfaces.RegimeAnalyzer,
	fallback interfaces.RegimeAnalyzer, databaseService *database.DBService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}
	e.Use(middleware.Recover())

	server := &Server{
		echo:            e,
		provider:        provider,
		analyzer:        analyzer,
		fallback:        fallback,
		databaseService: databaseService,
	}
	server.registerRoutes()
	return server
}

func (s *Server) registerRoutes() {
	g := s.echo.Group("/api")
	g.GET("/regime", s.handleRegime)
	g.GET("/regime/last", s.handleLastRegime)
	g.POST("/metrics", s.handleMetrics)
	g.POST("/strategies", s.handleStrategies)
	g.POST("/gate", s.handleGate)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type riskRequest struct {
	Profile  models.RiskProfile   `json:"profile" validate:"required"`
	History  []models.TradeRecord `json:"history"`
	Pair     string               `json:"pair"`
	Interval string               `json:"interval"`
	Limit    int                  `json:"limit"`
}

type regimeResponse struct {
	Source  string                `json:"source"`
	Verdict *models.RegimeVerdict `json:"verdict"`
}

func (s *Server) handleRegime(c echo.Context) error {
	pair := c.QueryParam("pair")
	if pair == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "pair is required"})
	}
	interval := c.QueryParam("interval")
	if interval == "" {
		interval = "15m"
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit == 0 {
		limit = 240
	}

	series, err := s.provider.GetPriceSeries(pair, interval, limit)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	source := "predictor"
	verdict, err := s.analyzer.Analyze(series)
	if err != nil && s.fallback != nil {
		source = "rule-based"
		verdict, err = s.fallback.Analyze(series)
	}
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, regimeResponse{Source: source, Verdict: verdict})
}

// handleLastRegime serves the monitor's most recent stored verdict, which
// dashboards poll instead of forcing a fresh classification.
func (s *Server) handleLastRegime(c echo.Context) error {
	pair := c.QueryParam("pair")
	if pair == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "pair is required"})
	}
	if s.databaseService == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "regime recording is not enabled"})
	}

	verdict, err := s.databaseService.LastRegimeAnalysis(pair)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if verdict == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no recorded analysis for " + pair})
	}
	return c.JSON(http.StatusOK, verdict)
}

func (s *Server) handleMetrics(c echo.Context) error {
	manager, series, ok := s.buildManager(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, manager.CalculateRiskMetrics(series))
}

func (s *Server) handleStrategies(c echo.Context) error {
	manager, series, ok := s.buildManager(c)
	if !ok {
		return nil
	}
	strategies := manager.RecommendedStrategies(series)
	if strategies == nil {
		strategies = []models.Strategy{}
	}
	return c.JSON(http.StatusOK, strategies)
}

func (s *Server) handleGate(c echo.Context) error {
	manager, series, ok := s.buildManager(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, map[string]bool{"shouldTrade": manager.ShouldTrade(series)})
}

// buildManager assembles the RiskManager and optional price series shared
// by the risk endpoints, writing the error response itself when the
// request cannot be served. History falls back to the stored journal when
// the request carries none.
func (s *Server) buildManager(c echo.Context) (*risk.RiskManager, *models.PriceSeries, bool) {
	request := &riskRequest{}
	if err := c.Bind(request); err != nil {
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, nil, false
	}
	if err := c.Validate(request); err != nil {
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, nil, false
	}

	history := request.History
	if history == nil && s.databaseService != nil {
		records, err := s.databaseService.TradeRecords()
		if err != nil {
			_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return nil, nil, false
		}
		history = records
	}

	manager, err := risk.NewRiskManager(request.Profile, history)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, nil, false
	}

	var series *models.PriceSeries
	if request.Pair != "" {
		interval := request.Interval
		if interval == "" {
			interval = "15m"
		}
		limit := request.Limit
		if limit == 0 {
			limit = 240
		}
		series, err = s.provider.GetPriceSeries(request.Pair, interval, limit)
		if err != nil {
			_ = c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
			return nil, nil, false
		}
	}

	return manager, series, true
}
