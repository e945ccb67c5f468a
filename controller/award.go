package controller

import (
	"legendario-service/utils"

	"github.com/gofiber/fiber/v2"
)

// AwardSummary serves the external progression display: running point
// total plus the ledger behind it.
func AwardSummary(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}

	total, err := services.Awards.Total(c.Context(), self)
	if err != nil {
		return fail(c, err)
	}
	events, err := services.Awards.History(c.Context(), self)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.Map{
		"points": total,
		"events": events,
	})
}

func BadgeList(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}

	badges, err := services.Awards.Badges(c.Context(), self)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, badges)
}

// TierLimits exposes the caller's quota set for the external features
// that own the confraternity and marketplace quotas.
func TierLimits(c *fiber.Ctx) error {
	self, okID := utils.CurrentUserID(c)
	if !okID {
		return unauthenticated(c)
	}

	tier, err := services.Tiers.Tier(c.Context(), self)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{
		"tier":   tier,
		"limits": services.Tiers.Limits(tier),
	})
}
