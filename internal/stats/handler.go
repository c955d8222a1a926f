package stats

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eleven-am/vokchat/internal/shared"
	"github.com/labstack/echo/v4"
)

const defaultQueryHours = 24

type Response struct {
	Enabled bool             `json:"enabled"`
	Hours   int              `json:"hours"`
	Totals  map[string]int64 `json:"totals"`
	Buckets []*Metrics       `json:"buckets"`
}

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetStats)
}

func (h *Handler) GetStats(c echo.Context) error {
	hours := defaultQueryHours
	if raw := c.QueryParam("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxQueryHours {
			return shared.BadRequest("invalid_hours", "hours must be between 1 and 168")
		}
		hours = n
	}

	buckets, err := h.store.GetMetrics(c.Request().Context(), hours)
	if err != nil {
		h.logger.Error("failed to read stats", "error", err)
		return shared.InternalError("stats_failed", "failed to read stats")
	}

	return c.JSON(http.StatusOK, Response{
		Enabled: h.store.Enabled(),
		Hours:   hours,
		Totals:  Totals(buckets),
		Buckets: buckets,
	})
}
