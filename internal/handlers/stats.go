package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xamad/smartfridge/internal/config"
	"github.com/xamad/smartfridge/internal/database"
)

// StatsHandler serves inventory dashboard counters
type StatsHandler struct {
	db  *database.DB
	cfg *config.Config
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(db *database.DB, cfg *config.Config) *StatsHandler {
	return &StatsHandler{db: db, cfg: cfg}
}

// GetStats returns inventory, expiring and shopping list counts
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.db.GetStats(c.Context(), h.cfg.ExpiryAlertDays)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to fetch stats")
	}
	return Success(c, stats)
}
