package scoring

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fergarri/golf-tournament-app/internal/models"
)

// PlayoffBoard is the season-level standings view: one column per stage and
// one row per player who appeared in any stage's result.
type PlayoffBoard struct {
	SeasonID uuid.UUID            `json:"season_id"`
	Stages   []PlayoffStageColumn `json:"stages"`
	Rows     []PlayoffRow         `json:"rows"`
}

// PlayoffStageColumn describes one stage column; Code is the short display
// label ("E1", "E2", ...) in chronological order.
type PlayoffStageColumn struct {
	StageID   uuid.UUID `json:"stage_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayoffRow is one player's season standing.
type PlayoffRow struct {
	PlayerID      uuid.UUID         `json:"player_id"`
	PlayerName    string            `json:"player_name"`
	PointsByStage map[uuid.UUID]int `json:"points_by_stage"`
	TotalPoints   int               `json:"total_points"`
	Position      int               `json:"position"`
	Qualified     bool              `json:"qualified"`
}

// playoffCandidate accumulates a player's season totals before ranking.
type playoffCandidate struct {
	player           models.Player
	totalPoints      int
	positionsByStage map[uuid.UUID]*int
}

// PlayoffEngine produces the season qualification ranking across all stages.
// The top eight players are flagged qualified.
type PlayoffEngine struct {
	store Store
	log   *logrus.Logger
	locks *scopeLock
	stage *StageEngine
}

func NewPlayoffEngine(store Store, log *logrus.Logger, stage *StageEngine) *PlayoffEngine {
	return &PlayoffEngine{store: store, log: log, locks: newScopeLock(), stage: stage}
}

// Calculate recomputes the playoff ranking for a season. Every stage is
// recalculated first so the playoff is never derived from stale stage totals;
// all replacements commit as one unit. A season without stages yields an
// empty ranking, wiping any prior rows.
func (e *PlayoffEngine) Calculate(ctx context.Context, seasonID uuid.UUID) (*PlayoffBoard, error) {
	err := e.locks.do(seasonID, func() error {
		return e.store.Transact(ctx, func(tx Store) error {
			return e.run(ctx, tx, seasonID)
		})
	})
	if err != nil {
		return nil, err
	}
	return e.Results(ctx, seasonID)
}

func (e *PlayoffEngine) run(ctx context.Context, tx Store, seasonID uuid.UUID) error {
	if _, err := tx.GetSeason(ctx, seasonID); err != nil {
		return err
	}

	stages, err := tx.ListStages(ctx, seasonID)
	if err != nil {
		return err
	}

	if len(stages) == 0 {
		return tx.ReplacePlayoffResults(ctx, seasonID, nil)
	}

	for _, stage := range stages {
		if err := e.stage.recompute(ctx, tx, stage.ID); err != nil {
			return err
		}
	}

	candidates := make(map[uuid.UUID]*playoffCandidate)
	for _, stage := range stages {
		scores, err := tx.ListStageScores(ctx, stage.ID)
		if err != nil {
			return err
		}
		for i := range scores {
			score := &scores[i]
			cand, ok := candidates[score.PlayerID]
			if !ok {
				cand = &playoffCandidate{
					player:           score.Player,
					positionsByStage: make(map[uuid.UUID]*int),
				}
				candidates[score.PlayerID] = cand
			}
			cand.totalPoints += score.TotalPoints
			cand.positionsByStage[stage.ID] = score.Position
		}
	}

	// Tie-break: walk the stages most-recent first and compare stage
	// positions; the first stage where they differ decides. A player absent
	// from a stage counts as worst-possible there.
	reversed := make([]uuid.UUID, 0, len(stages))
	for i := len(stages) - 1; i >= 0; i-- {
		reversed = append(reversed, stages[i].ID)
	}

	ranking := Chain(
		ByInt(func(c *playoffCandidate) *int { v := c.totalPoints; return &v }, true),
		ByFloat(func(c *playoffCandidate) *float64 { return c.player.HandicapIndex }, false),
		byStagePositions(reversed),
		ByString(func(c *playoffCandidate) string { return strings.ToLower(c.player.FullName()) }),
	)

	ordered := make([]*playoffCandidate, 0, len(candidates))
	for _, cand := range candidates {
		ordered = append(ordered, cand)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ranking(ordered[i], ordered[j]) < 0 })

	rows := make([]models.PlayoffResult, 0, len(ordered))
	for i, cand := range ordered {
		position := i + 1
		rows = append(rows, models.PlayoffResult{
			SeasonID:    seasonID,
			PlayerID:    cand.player.ID,
			TotalPoints: cand.totalPoints,
			Position:    position,
			Qualified:   position <= qualifyingPositions,
		})
	}

	if err := tx.ReplacePlayoffResults(ctx, seasonID, rows); err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{
		"season_id": seasonID,
		"stages":    len(stages),
		"players":   len(rows),
	}).Info("playoff results calculated")
	return nil
}

// byStagePositions compares two candidates stage by stage in the given
// order. A missing position sorts after any present one.
func byStagePositions(stageIDs []uuid.UUID) Comparator[*playoffCandidate] {
	return func(a, b *playoffCandidate) int {
		for _, stageID := range stageIDs {
			cmp := ByInt(func(c *playoffCandidate) *int { return c.positionsByStage[stageID] }, false)
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// Results returns the persisted playoff standings with a per-stage point
// breakdown, ordered by position.
func (e *PlayoffEngine) Results(ctx context.Context, seasonID uuid.UUID) (*PlayoffBoard, error) {
	if _, err := e.store.GetSeason(ctx, seasonID); err != nil {
		return nil, err
	}

	stages, err := e.store.ListStages(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	board := &PlayoffBoard{SeasonID: seasonID, Rows: []PlayoffRow{}}
	for i, stage := range stages {
		board.Stages = append(board.Stages, PlayoffStageColumn{
			StageID:   stage.ID,
			Code:      "E" + strconv.Itoa(i+1),
			Name:      stage.Name,
			CreatedAt: stage.CreatedAt,
		})
	}

	results, err := e.store.ListPlayoffResults(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return board, nil
	}

	pointsByStage := make(map[uuid.UUID]map[uuid.UUID]int, len(stages))
	for _, stage := range stages {
		scores, err := e.store.ListStageScores(ctx, stage.ID)
		if err != nil {
			return nil, err
		}
		byPlayer := make(map[uuid.UUID]int, len(scores))
		for i := range scores {
			byPlayer[scores[i].PlayerID] = scores[i].TotalPoints
		}
		pointsByStage[stage.ID] = byPlayer
	}

	for i := range results {
		result := &results[i]
		breakdown := make(map[uuid.UUID]int, len(stages))
		for _, stage := range stages {
			breakdown[stage.ID] = pointsByStage[stage.ID][result.PlayerID]
		}
		board.Rows = append(board.Rows, PlayoffRow{
			PlayerID:      result.PlayerID,
			PlayerName:    result.Player.FullName(),
			PointsByStage: breakdown,
			TotalPoints:   result.TotalPoints,
			Position:      result.Position,
			Qualified:     result.Qualified,
		})
	}
	return board, nil
}
