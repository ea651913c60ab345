package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fergarri/golf-tournament-app/internal/scoring"
)

// GetPlayoff handles GET /api/v1/seasons/:id/playoff. Returns the persisted
// season ranking without recomputing.
func GetPlayoff(engine *scoring.PlayoffEngine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seasonID, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		board, err := engine.Results(c.Context(), seasonID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(board)
	}
}

// CalculatePlayoff handles POST /api/v1/seasons/:id/playoff/calculate
// (admin). Cascades a recompute through every stage of the season before
// ranking.
func CalculatePlayoff(engine *scoring.PlayoffEngine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seasonID, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		board, err := engine.Calculate(c.Context(), seasonID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(board)
	}
}
