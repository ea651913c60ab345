package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fergarri/golf-tournament-app/internal/models"
	"github.com/fergarri/golf-tournament-app/internal/scorecards"
	"github.com/fergarri/golf-tournament-app/internal/websocket"
)

// ScorecardResponse is the API shape of a scorecard. A dedicated struct keeps
// the GORM associations out of the JSON and pins the field names the app
// relies on.
type ScorecardResponse struct {
	ID             string              `json:"id"`
	TournamentID   string              `json:"tournament_id"`
	PlayerID       string              `json:"player_id"`
	PlayerName     string              `json:"player_name"`
	MarkerID       *string             `json:"marker_id"`
	MarkerName     *string             `json:"marker_name"`
	HandicapCourse *float64            `json:"handicap_course"`
	Status         string              `json:"status"`
	DeliveredAt    *string             `json:"delivered_at"`
	Holes          []HoleScoreResponse `json:"holes"`
}

// HoleScoreResponse is one hole row on the card, in course order.
type HoleScoreResponse struct {
	HoleNumber    int  `json:"hole_number"`
	Par           int  `json:"par"`
	StrokeIndex   int  `json:"stroke_index"`
	PlayerStrokes *int `json:"player_strokes"`
	MarkerStrokes *int `json:"marker_strokes"`
}

func toScorecardResponse(card *models.Scorecard) ScorecardResponse {
	resp := ScorecardResponse{
		ID:             card.ID.String(),
		TournamentID:   card.TournamentID.String(),
		PlayerID:       card.PlayerID.String(),
		PlayerName:     card.Player.FullName(),
		HandicapCourse: card.HandicapCourse,
		Status:         string(card.Status),
		Holes:          make([]HoleScoreResponse, 0, len(card.HoleScores)),
	}
	if card.MarkerID != nil {
		id := card.MarkerID.String()
		resp.MarkerID = &id
		if card.Marker != nil {
			name := card.Marker.FullName()
			resp.MarkerName = &name
		}
	}
	if card.DeliveredAt != nil {
		s := card.DeliveredAt.UTC().Format(time.RFC3339)
		resp.DeliveredAt = &s
	}
	for _, hs := range card.HoleScores {
		resp.Holes = append(resp.Holes, HoleScoreResponse{
			HoleNumber:    hs.Hole.Number,
			Par:           hs.Hole.Par,
			StrokeIndex:   hs.Hole.StrokeIndex,
			PlayerStrokes: hs.PlayerStrokes,
			MarkerStrokes: hs.MarkerStrokes,
		})
	}
	return resp
}

// GetOrCreateScorecard handles
// GET /api/v1/tournaments/:tid/players/:pid/scorecard. The first access
// creates the card with its empty hole rows.
func GetOrCreateScorecard(svc *scorecards.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tournamentID, ok := parseID(c, "tid")
		if !ok {
			return nil
		}
		playerID, ok := parseID(c, "pid")
		if !ok {
			return nil
		}
		card, err := svc.GetOrCreate(c.Context(), tournamentID, playerID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(toScorecardResponse(card))
	}
}

// UpdateScore handles PUT /api/v1/scorecards/:id/scores, one hole's strokes.
func UpdateScore(svc *scorecards.Service, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		var req scorecards.HoleUpdate
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		card, err := svc.UpdateScore(c.Context(), cardID, req)
		if err != nil {
			return fail(c, err)
		}
		hub.NotifyTournament(card.TournamentID, "scores_updated")
		return c.JSON(toScorecardResponse(card))
	}
}

// BulkScoreRequest is the body of PUT /api/v1/scorecards/:id.
type BulkScoreRequest struct {
	Holes []scorecards.HoleUpdate `json:"holes"`
}

// UpdateScores handles PUT /api/v1/scorecards/:id, several holes at once,
// applied atomically.
func UpdateScores(svc *scorecards.Service, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		var req BulkScoreRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if len(req.Holes) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "holes is required"})
		}
		card, err := svc.UpdateScores(c.Context(), cardID, req.Holes)
		if err != nil {
			return fail(c, err)
		}
		hub.NotifyTournament(card.TournamentID, "scores_updated")
		return c.JSON(toScorecardResponse(card))
	}
}

// AssignMarkerRequest is the body of POST /api/v1/scorecards/:id/marker.
type AssignMarkerRequest struct {
	MarkerID uuid.UUID `json:"marker_id"`
}

// AssignMarker handles POST /api/v1/scorecards/:id/marker.
func AssignMarker(svc *scorecards.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		var req AssignMarkerRequest
		if err := c.BodyParser(&req); err != nil || req.MarkerID == uuid.Nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "marker_id is required"})
		}
		card, err := svc.AssignMarker(c.Context(), cardID, req.MarkerID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(toScorecardResponse(card))
	}
}

// DeliverScorecard handles POST /api/v1/scorecards/:id/deliver.
func DeliverScorecard(svc *scorecards.Service, hub *websocket.Hub) fiber.Handler {
	return transition(svc.Deliver, hub, "scorecard_delivered")
}

// CancelScorecard handles POST /api/v1/scorecards/:id/cancel (admin).
func CancelScorecard(svc *scorecards.Service, hub *websocket.Hub) fiber.Handler {
	return transition(svc.Cancel, hub, "scorecard_cancelled")
}

// DisqualifyScorecard handles POST /api/v1/scorecards/:id/disqualify (admin).
func DisqualifyScorecard(svc *scorecards.Service, hub *websocket.Hub) fiber.Handler {
	return transition(svc.Disqualify, hub, "scorecard_disqualified")
}

// ReinstateScorecard handles POST /api/v1/scorecards/:id/reinstate (admin).
func ReinstateScorecard(svc *scorecards.Service, hub *websocket.Hub) fiber.Handler {
	return transition(svc.Reinstate, hub, "scorecard_reinstated")
}

// transition wraps the status-change endpoints, which only differ in the
// service call and the broadcast event name.
func transition(fn func(ctx context.Context, id uuid.UUID) (*models.Scorecard, error), hub *websocket.Hub, event string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		card, err := fn(c.Context(), cardID)
		if err != nil {
			return fail(c, err)
		}
		hub.NotifyTournament(card.TournamentID, event)
		return c.JSON(toScorecardResponse(card))
	}
}

// FinalizeTournament handles POST /api/v1/tournaments/:id/finalize (admin).
// Delivers complete open cards, cancels incomplete ones, and flips the
// tournament to FINALIZED.
func FinalizeTournament(svc *scorecards.Service, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tournamentID, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		if err := svc.FinalizeTournament(c.Context(), tournamentID); err != nil {
			return fail(c, err)
		}
		hub.NotifyTournament(tournamentID, "tournament_finalized")
		return c.JSON(fiber.Map{"status": "finalized"})
	}
}
