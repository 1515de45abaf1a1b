package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/onsite-team/taskflow/internal/api/dto"
	"github.com/onsite-team/taskflow/internal/repository"
	"github.com/onsite-team/taskflow/internal/service"
	apperrors "github.com/onsite-team/taskflow/pkg/util"
)

// TeamHandler serves team member listings and per-member aggregates.
type TeamHandler struct {
	users repository.UserRepository
	stats *service.StatsService
}

// NewTeamHandler constructs handler.
func NewTeamHandler(users repository.UserRepository, stats *service.StatsService) *TeamHandler {
	return &TeamHandler{users: users, stats: stats}
}

// ListMembers GET /team.
func (h *TeamHandler) ListMembers(c *fiber.Ctx) error {
	members, err := h.users.List(c.UserContext())
	if err != nil {
		return apperrors.NewStoreError(err)
	}

	items := make([]dto.TeamMemberResponse, 0, len(members))
	for i := range members {
		memberStats, err := h.stats.Member(c.UserContext(), members[i].ID)
		if err != nil {
			return err
		}
		items = append(items, dto.TeamMemberResponse{
			UserResponse: dto.UserFromDomain(&members[i]),
			Stats:        memberStats,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// MemberStats GET /team/:id/stats.
func (h *TeamHandler) MemberStats(c *fiber.Ctx) error {
	memberStats, err := h.stats.Member(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberStats})
}
