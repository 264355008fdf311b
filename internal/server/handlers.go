package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"BorsaLens/internal/calculator"
	"BorsaLens/internal/collector"
	"BorsaLens/internal/model"
	"BorsaLens/internal/preference"
)

type stockResponse struct {
	Symbol string      `json:"symbol"`
	Range  string      `json:"range"`
	Bars   []model.Bar `json:"bars"`
}

type indicatorResponse struct {
	Symbol     string  `json:"symbol"`
	Range      string  `json:"range"`
	Timestamps []int64 `json:"timestamps"`
	*calculator.Result
}

type preferenceBody struct {
	Kind model.IndicatorKind `json:"kind"`
}

func abortWithError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// collectorFor applies the optional range query parameter; param names the query key.
func (s *Server) collectorFor(c *gin.Context, param string) (*collector.Collector, bool) {
	raw := c.Query(param)
	if raw == "" {
		return s.Collector, true
	}
	rng, err := collector.ParseRange(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return s.Collector.WithRange(rng), true
}

func (s *Server) symbol(raw string) string {
	return collector.FormatSymbol(raw, s.Suffix)
}

// getStock returns raw daily bars for ?symbol= or a comma separated ?symbols= list.
func (s *Server) getStock(c *gin.Context) {
	col, ok := s.collectorFor(c, "period")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if raw := c.Query("symbols"); raw != "" {
		var symbols []string
		for _, part := range strings.Split(raw, ",") {
			if sym := s.symbol(part); sym != "" {
				symbols = append(symbols, sym)
			}
		}
		series, err := col.CollectMany(ctx, symbols)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]stockResponse, 0, len(symbols))
		for _, sym := range symbols {
			out = append(out, stockResponse{Symbol: sym, Range: string(col.Range), Bars: series[sym].Bars()})
		}
		c.JSON(http.StatusOK, out)
		return
	}

	sym := s.symbol(c.Query("symbol"))
	if sym == "" {
		abortWithError(c, http.StatusBadRequest, "symbol or symbols parameter is required")
		return
	}
	series, err := col.Collect(ctx, sym)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, stockResponse{Symbol: sym, Range: string(col.Range), Bars: series.Bars()})
}

func (s *Server) listStocks(c *gin.Context) {
	c.JSON(http.StatusOK, s.Stocks)
}

func (s *Server) getQuote(c *gin.Context) {
	q, err := s.Collector.Quote(c.Request.Context(), s.symbol(c.Param("symbol")))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, q)
}

// getIndicators computes one indicator kind, index-aligned to the returned timestamps.
// Without ?kind= the stored preference is used.
func (s *Server) getIndicators(c *gin.Context) {
	ctx := c.Request.Context()

	var kind model.IndicatorKind
	if raw, ok := c.GetQuery("kind"); ok {
		k, err := model.ParseIndicatorKind(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		kind = k
	} else {
		kind = preference.LoadOr(ctx, s.Preferences, s.DefaultKind)
	}

	req := calculator.Request{Kind: kind, MACD: s.Collector.Params.MACD}
	if raw := c.Query("period"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "period must be an integer")
			return
		}
		req.Period = p
	}

	col, ok := s.collectorFor(c, "range")
	if !ok {
		return
	}
	sym := s.symbol(c.Param("symbol"))
	series, err := col.Collect(ctx, sym)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	res, err := calculator.Compute(series, req)
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidParameter) || errors.Is(err, calculator.ErrInsufficientData) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.WithError(err).WithField("symbol", sym).Error("indicator computation failed")
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, indicatorResponse{
		Symbol:     sym,
		Range:      string(col.Range),
		Timestamps: series.Timestamps(),
		Result:     res,
	})
}

func (s *Server) getAnalysis(c *gin.Context) {
	col, ok := s.collectorFor(c, "range")
	if !ok {
		return
	}
	a, err := col.Analyze(c.Request.Context(), s.symbol(c.Param("symbol")))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, calculator.ErrInsufficientData) {
			code = http.StatusBadRequest
		}
		abortWithError(c, code, err.Error())
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) getPreference(c *gin.Context) {
	kind, err := s.Preferences.Load(c.Request.Context())
	if err != nil && !errors.Is(err, preference.ErrNotSet) {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err != nil {
		kind = s.DefaultKind
	}
	c.JSON(http.StatusOK, preferenceBody{Kind: kind})
}

func (s *Server) putPreference(c *gin.Context) {
	var body preferenceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Preferences.Save(c.Request.Context(), body.Kind); err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) deletePreference(c *gin.Context) {
	if err := s.Preferences.Clear(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
