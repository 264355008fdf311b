package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"BorsaLens/internal/collector"
	"BorsaLens/internal/model"
	"BorsaLens/internal/preference"
)

// Server exposes price data, indicators and the indicator preference over HTTP.
type Server struct {
	Router      *gin.Engine
	Collector   *collector.Collector
	Preferences preference.Store
	DefaultKind model.IndicatorKind
	Stocks      []model.Stock
	// Suffix is appended to bare symbols.
	Suffix string

	httpServer *http.Server
}

// NewServer builds the gin engine with middleware and routes.
func NewServer(col *collector.Collector, prefs preference.Store, stocks []model.Stock) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger())
	r.Use(RateLimitMiddleware(newIPLimiters(rate.Limit(20), 40)))

	s := &Server{
		Router:      r,
		Collector:   col,
		Preferences: prefs,
		Stocks:      stocks,
		Suffix:      ".IS",
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.Router.Group("/api")
	{
		api.GET("/stock", s.getStock)
		api.GET("/stocks", s.listStocks)
		api.GET("/quote/:symbol", s.getQuote)
		api.GET("/indicators/:symbol", s.getIndicators)
		api.GET("/analysis/:symbol", s.getAnalysis)

		api.GET("/preference", s.getPreference)
		api.PUT("/preference", s.putPreference)
		api.DELETE("/preference", s.deletePreference)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Infof("http server listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
