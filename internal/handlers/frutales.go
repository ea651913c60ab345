package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fergarri/golf-tournament-app/internal/scoring"
	"github.com/fergarri/golf-tournament-app/internal/websocket"
)

// CalculateFrutales handles POST /api/v1/tournaments/:id/frutales/calculate
// (admin). Recomputes the tournament's points table from delivered scorecards
// and returns the fresh table.
func CalculateFrutales(engine *scoring.FrutalesEngine, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tournamentID, ok := parseID(c, "id")
		if !ok {
			return nil
		}

		entries, err := engine.Calculate(c.Context(), tournamentID)
		if err != nil {
			return fail(c, err)
		}

		hub.NotifyTournament(tournamentID, "frutales_recomputed")
		return c.JSON(entries)
	}
}

// GetFrutales handles GET /api/v1/tournaments/:id/frutales. Returns the last
// computed points table without recomputing.
func GetFrutales(engine *scoring.FrutalesEngine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tournamentID, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		entries, err := engine.GetScores(c.Context(), tournamentID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(entries)
	}
}
