package scoring

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/models"
)

// StageBoard is the per-stage standings view: one column per tournament date
// and one row per player who was ever inscribed in any of them.
type StageBoard struct {
	StageID     uuid.UUID               `json:"stage_id"`
	SeasonID    uuid.UUID               `json:"season_id"`
	StageName   string                  `json:"stage_name"`
	Tournaments []StageTournamentColumn `json:"tournaments"`
	Rows        []StageBoardRow         `json:"rows"`
}

// StageTournamentColumn describes one date column of the board.
type StageTournamentColumn struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"start_date"`
	DoublePoints bool      `json:"double_points"`
}

// StageBoardRow is one player's stage standing. PointsByTournament breaks the
// total down per date; a date the player did not play contributes zero.
type StageBoardRow struct {
	PlayerID           uuid.UUID         `json:"player_id"`
	PlayerName         string            `json:"player_name"`
	HandicapIndex      *float64          `json:"handicap_index"`
	TotalPoints        int               `json:"total_points"`
	Position           *int              `json:"position"`
	PointsByTournament map[uuid.UUID]int `json:"points_by_tournament"`
}

// StageEngine aggregates Frutales points across the tournaments of one stage.
// Recomputing a stage first forces a fresh Frutales run for every constituent
// tournament, inside the same transaction, so the stage ranking is never
// derived from stale per-tournament points.
type StageEngine struct {
	store       Store
	log         *logrus.Logger
	locks       *scopeLock
	frutales    *FrutalesEngine
	leaderboard *LeaderboardEngine
}

func NewStageEngine(store Store, log *logrus.Logger, frutales *FrutalesEngine, leaderboard *LeaderboardEngine) *StageEngine {
	return &StageEngine{
		store:       store,
		log:         log,
		locks:       newScopeLock(),
		frutales:    frutales,
		leaderboard: leaderboard,
	}
}

// Board returns the stage standings without recomputing anything: persisted
// totals and positions, plus a live per-tournament point breakdown.
func (e *StageEngine) Board(ctx context.Context, stageID uuid.UUID) (*StageBoard, error) {
	stage, err := e.store.GetStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	tournaments := sortedByStartDate(stage.Tournaments)

	players, err := e.collectPlayers(ctx, e.store, tournaments)
	if err != nil {
		return nil, err
	}
	pointsByTournament, err := e.collectPoints(ctx, e.store, tournaments)
	if err != nil {
		return nil, err
	}

	persisted, err := e.store.ListStageScores(ctx, stageID)
	if err != nil {
		return nil, err
	}
	persistedByPlayer := make(map[uuid.UUID]*models.StageScore, len(persisted))
	for i := range persisted {
		persistedByPlayer[persisted[i].PlayerID] = &persisted[i]
	}

	rows := make([]StageBoardRow, 0, len(players))
	for _, player := range players {
		breakdown := make(map[uuid.UUID]int, len(tournaments))
		for _, t := range tournaments {
			breakdown[t.ID] = pointsByTournament[t.ID][player.ID]
		}

		row := StageBoardRow{
			PlayerID:           player.ID,
			PlayerName:         player.FullName(),
			HandicapIndex:      player.HandicapIndex,
			PointsByTournament: breakdown,
		}
		if score, ok := persistedByPlayer[player.ID]; ok {
			row.TotalPoints = score.TotalPoints
			row.Position = score.Position
		}
		rows = append(rows, row)
	}

	rowOrder := Chain(
		ByInt(func(r StageBoardRow) *int { return r.Position }, false),
		ByString(func(r StageBoardRow) string { return r.PlayerName }),
	)
	sort.SliceStable(rows, func(i, j int) bool { return rowOrder(rows[i], rows[j]) < 0 })

	board := &StageBoard{
		StageID:   stage.ID,
		SeasonID:  stage.SeasonID,
		StageName: stage.Name,
		Rows:      rows,
	}
	for _, t := range tournaments {
		board.Tournaments = append(board.Tournaments, StageTournamentColumn{
			TournamentID: t.ID,
			Name:         t.Name,
			StartDate:    t.StartDate,
			DoublePoints: t.DoublePoints,
		})
	}
	return board, nil
}

// Calculate recomputes the stage: fresh Frutales points for every date, then
// a full replace of the stage's StageScore rows, all in one transaction.
func (e *StageEngine) Calculate(ctx context.Context, stageID uuid.UUID) (*StageBoard, error) {
	err := e.locks.do(stageID, func() error {
		return e.store.Transact(ctx, func(tx Store) error {
			return e.run(ctx, tx, stageID)
		})
	})
	if err != nil {
		return nil, err
	}
	return e.Board(ctx, stageID)
}

// recompute recalculates a stage inside an enclosing transaction; used by the
// playoff engine.
func (e *StageEngine) recompute(ctx context.Context, tx Store, stageID uuid.UUID) error {
	return e.locks.do(stageID, func() error {
		return e.run(ctx, tx, stageID)
	})
}

func (e *StageEngine) run(ctx context.Context, tx Store, stageID uuid.UUID) error {
	stage, err := tx.GetStage(ctx, stageID)
	if err != nil {
		return err
	}
	tournaments := sortedByStartDate(stage.Tournaments)
	if len(tournaments) == 0 {
		return apperrors.InvalidState("stage %s has no tournaments to calculate", stageID)
	}

	for _, t := range tournaments {
		if err := e.frutales.recompute(ctx, tx, t.ID); err != nil {
			return err
		}
	}

	players, err := e.collectPlayers(ctx, tx, tournaments)
	if err != nil {
		return err
	}
	pointsByTournament, err := e.collectPoints(ctx, tx, tournaments)
	if err != nil {
		return err
	}

	// The chronologically last date's net scores break ties between players
	// level on points and handicap.
	last := tournaments[len(tournaments)-1]
	lastNets, err := e.lastTournamentNets(ctx, tx, last.ID)
	if err != nil {
		return err
	}

	rows := make([]models.StageScore, 0, len(players))
	for _, player := range players {
		total := 0
		for _, t := range tournaments {
			total += pointsByTournament[t.ID][player.ID]
		}

		row := models.StageScore{
			StageID:               stageID,
			PlayerID:              player.ID,
			Player:                *player,
			TotalPoints:           total,
			TieBreakHandicapIndex: player.HandicapIndex,
		}
		if net, ok := lastNets[player.ID]; ok {
			row.LastTournamentNet = &net
		}
		rows = append(rows, row)
	}

	ranking := Chain(
		ByInt(func(s models.StageScore) *int { v := s.TotalPoints; return &v }, true),
		ByFloat(func(s models.StageScore) *float64 { return s.TieBreakHandicapIndex }, false),
		ByFloat(func(s models.StageScore) *float64 { return s.LastTournamentNet }, false),
		ByString(func(s models.StageScore) string { return s.Player.FullName() }),
	)
	sort.SliceStable(rows, func(i, j int) bool { return ranking(rows[i], rows[j]) < 0 })

	for i := range rows {
		pos := i + 1
		rows[i].Position = &pos
	}

	if err := tx.ReplaceStageScores(ctx, stageID, rows); err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{
		"stage_id":    stageID,
		"tournaments": len(tournaments),
		"players":     len(rows),
	}).Info("stage scores calculated")
	return nil
}

// collectPlayers returns the union of players ever inscribed in any of the
// given tournaments, first-seen order.
func (e *StageEngine) collectPlayers(ctx context.Context, st Store, tournaments []models.Tournament) ([]*models.Player, error) {
	var players []*models.Player
	seen := make(map[uuid.UUID]bool)
	for _, t := range tournaments {
		inscriptions, err := st.ListInscriptions(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		for i := range inscriptions {
			p := inscriptions[i].Player
			if !seen[p.ID] {
				seen[p.ID] = true
				players = append(players, &p)
			}
		}
	}
	return players, nil
}

// collectPoints maps tournament -> player -> Frutales total points.
func (e *StageEngine) collectPoints(ctx context.Context, st Store, tournaments []models.Tournament) (map[uuid.UUID]map[uuid.UUID]int, error) {
	points := make(map[uuid.UUID]map[uuid.UUID]int, len(tournaments))
	for _, t := range tournaments {
		scores, err := st.ListFrutalesScores(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		byPlayer := make(map[uuid.UUID]int, len(scores))
		for i := range scores {
			byPlayer[scores[i].PlayerID] = scores[i].TotalPoints
		}
		points[t.ID] = byPlayer
	}
	return points, nil
}

// lastTournamentNets extracts each delivered player's net score at the
// stage's last date from the leaderboard computation.
func (e *StageEngine) lastTournamentNets(ctx context.Context, tx Store, tournamentID uuid.UUID) (map[uuid.UUID]float64, error) {
	entries, err := e.leaderboard.compute(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	nets := make(map[uuid.UUID]float64)
	for _, entry := range entries {
		if entry.Net != nil {
			nets[entry.PlayerID] = *entry.Net
		}
	}
	return nets, nil
}

func sortedByStartDate(tournaments []models.Tournament) []models.Tournament {
	sorted := make([]models.Tournament, len(tournaments))
	copy(sorted, tournaments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	return sorted
}
