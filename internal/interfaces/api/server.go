package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leetcode-srs-bot/internal/application/usecases"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/log"
)

const shutdownTimeout = 5 * time.Second

// PreviewRequest asks what a rating would do to an interval
type PreviewRequest struct {
	Rating       string `json:"rating" binding:"required"`
	IntervalDays *int   `json:"interval_days" binding:"required"`
}

// PreviewResponse is the schedule a rating would produce
type PreviewResponse struct {
	IntervalDays int       `json:"interval_days"`
	ReviewAt     time.Time `json:"review_at"`
	Status       string    `json:"status"`
}

// ErrorResponse carries a client-facing error message
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Server exposes health, metrics and the schedule preview over HTTP
type Server struct {
	engine    *gin.Engine
	review    *usecases.ReviewUseCase
	startTime time.Time
}

// NewServer creates the HTTP server. gatherer defaults to the global registry.
func NewServer(review *usecases.ReviewUseCase, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:    engine,
		review:    review,
		startTime: time.Now(),
	}

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/schedule/preview", s.handlePreview)
	}

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	log.Info("http server stopped")
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handlePreview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	rating, err := schedule.ParseRating(req.Rating)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	preview, err := s.review.Preview(rating, *req.IntervalDays)
	switch {
	case errors.Is(err, schedule.ErrNegativeInterval), errors.Is(err, schedule.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		log.Error("preview failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, PreviewResponse{
		IntervalDays: preview.IntervalDays,
		ReviewAt:     preview.ReviewAt,
		Status:       string(preview.Status),
	})
}
