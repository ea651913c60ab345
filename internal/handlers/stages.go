package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fergarri/golf-tournament-app/internal/models"
	"github.com/fergarri/golf-tournament-app/internal/scoring"
	"github.com/fergarri/golf-tournament-app/internal/stages"
)

// StageResponse is the API shape of a stage with its tournament list.
type StageResponse struct {
	ID          string                    `json:"id"`
	SeasonID    string                    `json:"season_id"`
	Name        string                    `json:"name"`
	Tournaments []StageTournamentResponse `json:"tournaments"`
}

type StageTournamentResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	StartDate    string `json:"start_date"`
	Status       string `json:"status"`
	DoublePoints bool   `json:"double_points"`
}

func toStageResponse(stage *models.Stage) StageResponse {
	resp := StageResponse{
		ID:          stage.ID.String(),
		SeasonID:    stage.SeasonID.String(),
		Name:        stage.Name,
		Tournaments: make([]StageTournamentResponse, 0, len(stage.Tournaments)),
	}
	for _, t := range stage.Tournaments {
		resp.Tournaments = append(resp.Tournaments, StageTournamentResponse{
			ID:           t.ID.String(),
			Name:         t.Name,
			Code:         t.Code,
			StartDate:    t.StartDate.UTC().Format(time.RFC3339),
			Status:       string(t.Status),
			DoublePoints: t.DoublePoints,
		})
	}
	return resp
}

// ListStages handles GET /api/v1/seasons/:id/stages.
// ?available=true additionally returns the season's unassigned Frutales
// tournaments, for the stage create form.
func ListStages(svc *stages.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seasonID, ok := parseID(c, "id")
		if !ok {
			return nil
		}

		list, err := svc.ListBySeason(c.Context(), seasonID)
		if err != nil {
			return fail(c, err)
		}
		resp := make([]StageResponse, 0, len(list))
		for i := range list {
			resp = append(resp, toStageResponse(&list[i]))
		}

		if c.Query("available") != "true" {
			return c.JSON(resp)
		}

		available, err := svc.AvailableTournaments(c.Context(), seasonID, nil)
		if err != nil {
			return fail(c, err)
		}
		availableResp := make([]StageTournamentResponse, 0, len(available))
		for _, t := range available {
			availableResp = append(availableResp, StageTournamentResponse{
				ID:           t.ID.String(),
				Name:         t.Name,
				Code:         t.Code,
				StartDate:    t.StartDate.UTC().Format(time.RFC3339),
				Status:       string(t.Status),
				DoublePoints: t.DoublePoints,
			})
		}
		return c.JSON(fiber.Map{
			"stages":                resp,
			"available_tournaments": availableResp,
		})
	}
}

// StageRequest is the body of POST and PUT on season stages.
type StageRequest struct {
	Name          string      `json:"name"`
	TournamentIDs []uuid.UUID `json:"tournament_ids"`
}

// CreateStage handles POST /api/v1/seasons/:id/stages (admin).
func CreateStage(svc *stages.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seasonID, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		var req StageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		stage, err := svc.Create(c.Context(), seasonID, req.Name, req.TournamentIDs)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toStageResponse(stage))
	}
}

// UpdateStage handles PUT /api/v1/seasons/:id/stages/:stageId (admin).
func UpdateStage(svc *stages.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stageID, ok := parseID(c, "stageId")
		if !ok {
			return nil
		}
		var req StageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		stage, err := svc.Update(c.Context(), stageID, req.Name, req.TournamentIDs)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(toStageResponse(stage))
	}
}

// GetStageBoard handles GET /api/v1/seasons/:id/stages/:stageId/board.
// Returns the persisted standings with the live per-tournament breakdown; no
// recompute happens on read.
func GetStageBoard(engine *scoring.StageEngine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stageID, ok := parseID(c, "stageId")
		if !ok {
			return nil
		}
		board, err := engine.Board(c.Context(), stageID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(board)
	}
}

// CalculateStage handles POST /api/v1/seasons/:id/stages/:stageId/calculate
// (admin). Recomputes every member tournament's points table and the stage
// standings in one transaction.
func CalculateStage(engine *scoring.StageEngine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stageID, ok := parseID(c, "stageId")
		if !ok {
			return nil
		}
		board, err := engine.Calculate(c.Context(), stageID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(board)
	}
}
