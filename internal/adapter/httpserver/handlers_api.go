package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pscheid92/vnsentiment/internal/domain"
	apperrors "github.com/pscheid92/vnsentiment/internal/platform/errors"
)

type classifyRequest struct {
	Text string `json:"text"`
}

type clearHistoryResponse struct {
	Status  string `json:"status"`
	Deleted int64  `json:"deleted"`
}

func (s *Server) registerAPIRoutes() {
	api := s.echo.Group("/api", middleware.BodyLimit(maxRequestBody))

	api.POST("/classify", s.handleClassify, newRateLimiter(s.config.ClassifyRateLimit, s.config.ClassifyRateBurst))
	api.GET("/model-info", s.handleModelInfo)
	api.GET("/history", s.handleHistory)
	api.DELETE("/history", s.handleClearHistory)
	api.GET("/stats", s.handleStats)
}

func (s *Server) handleClassify(c echo.Context) error {
	var req classifyRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	result, err := s.app.Classify(c.Request().Context(), req.Text)
	if errors.Is(err, domain.ErrInvalidInput) {
		return apperrors.ValidationError("text must be longer than 3 characters").WithField("length", len([]rune(req.Text)))
	}
	if err != nil {
		return apperrors.InternalError("failed to classify text", err)
	}

	if err := c.JSON(http.StatusOK, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleModelInfo(c echo.Context) error {
	if err := c.JSON(http.StatusOK, s.app.ModelInfo()); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleHistory(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return apperrors.ValidationError("limit must be a positive integer").WithField("limit", raw)
		}
		limit = n
	}

	records, err := s.app.History(c.Request().Context(), limit)
	if err != nil {
		return apperrors.InternalError("failed to load history", err)
	}

	if err := c.JSON(http.StatusOK, records); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleClearHistory(c echo.Context) error {
	deleted, err := s.app.ClearHistory(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to clear history", err)
	}

	if err := c.JSON(http.StatusOK, clearHistoryResponse{Status: "ok", Deleted: deleted}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.app.Stats(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load statistics", err)
	}

	if err := c.JSON(http.StatusOK, stats); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
