package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fergarri/golf-tournament-app/internal/scoring"
	"github.com/fergarri/golf-tournament-app/internal/websocket"
)

// GetLeaderboard handles GET /api/v1/tournaments/:id/leaderboard.
// The board is computed on read: delivered cards ranked by net score,
// pending players listed after them by name.
func GetLeaderboard(engine *scoring.LeaderboardEngine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tournamentID, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		entries, err := engine.Compute(c.Context(), tournamentID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(entries)
	}
}

// PaymentUpdateRequest is the body of PUT /api/v1/tournaments/:id/payments.
// The two slices pair up by index.
type PaymentUpdateRequest struct {
	InscriptionIDs []uuid.UUID `json:"inscription_ids"`
	Paid           []bool      `json:"paid"`
}

// UpdatePayments handles PUT /api/v1/tournaments/:id/payments (admin).
// Applies the paid flags in one batch and notifies leaderboard watchers.
func UpdatePayments(engine *scoring.LeaderboardEngine, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tournamentID, ok := parseID(c, "id")
		if !ok {
			return nil
		}

		var req PaymentUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if err := engine.UpdatePayments(c.Context(), tournamentID, req.InscriptionIDs, req.Paid); err != nil {
			return fail(c, err)
		}

		hub.NotifyTournament(tournamentID, "payments_updated")

		entries, err := engine.Compute(c.Context(), tournamentID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(entries)
	}
}
