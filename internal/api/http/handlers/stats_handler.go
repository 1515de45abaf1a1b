package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/onsite-team/taskflow/internal/service"
)

// StatsHandler serves dashboard counters.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard GET /stats/dashboard.
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	counts, err := h.stats.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}
