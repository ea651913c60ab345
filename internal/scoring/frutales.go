package scoring

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/models"
)

// positionPoints maps the delivered-only rank to position points. Rank 7 and
// beyond each receive defaultPositionPoints.
var positionPoints = map[int]int{
	1: 12,
	2: 10,
	3: 8,
	4: 6,
	5: 4,
	6: 2,
}

const (
	defaultPositionPoints = 1
	birdiePointValue      = 1
	eaglePointValue       = 5
	acePointValue         = 10
	participationValue    = 1
	qualifyingPositions   = 8
)

// FrutalesScoreEntry is one row of the Frutales points table as served to
// clients. Gross and Net are present only for delivered cards.
type FrutalesScoreEntry struct {
	ScorecardID         uuid.UUID              `json:"scorecard_id"`
	PlayerID            uuid.UUID              `json:"player_id"`
	PlayerName          string                 `json:"player_name"`
	Matricula           string                 `json:"matricula"`
	Position            *int                   `json:"position"`
	HandicapIndex       *float64               `json:"handicap_index"`
	HandicapCourse      *float64               `json:"handicap_course"`
	Gross               *int                   `json:"score_gross"`
	Net                 *float64               `json:"score_net"`
	Status              models.ScorecardStatus `json:"status"`
	BirdieCount         int                    `json:"birdie_count"`
	EagleCount          int                    `json:"eagle_count"`
	AceCount            int                    `json:"ace_count"`
	PositionPoints      int                    `json:"position_points"`
	BirdiePoints        int                    `json:"birdie_points"`
	EaglePoints         int                    `json:"eagle_points"`
	AcePoints           int                    `json:"ace_points"`
	ParticipationPoints int                    `json:"participation_points"`
	TotalPoints         int                    `json:"total_points"`
}

// playerRoundData carries the per-card inputs the tie-break chains compare.
type playerRoundData struct {
	card          *models.Scorecard
	net           *float64
	handicapIndex *float64
	achievements  Achievements
	strokesByHole map[int]int
	maxHole       int
}

// scoredRow pairs a computed FrutalesScore with the round data its final
// position tie-breaks still need.
type scoredRow struct {
	score models.FrutalesScore
	data  *playerRoundData
}

// FrutalesEngine converts the delivered/cancelled/disqualified scorecards of
// one Frutales-format tournament into a points table with final positions.
// Every run is a full replace of the tournament's FrutalesScore rows.
type FrutalesEngine struct {
	store Store
	log   *logrus.Logger
	locks *scopeLock
}

func NewFrutalesEngine(store Store, log *logrus.Logger) *FrutalesEngine {
	return &FrutalesEngine{store: store, log: log, locks: newScopeLock()}
}

// Calculate recomputes the points table for a tournament and returns the
// freshly persisted rows in read order. Calling it on a non-Frutales
// tournament is an InvalidState error.
func (e *FrutalesEngine) Calculate(ctx context.Context, tournamentID uuid.UUID) ([]FrutalesScoreEntry, error) {
	err := e.locks.do(tournamentID, func() error {
		return e.store.Transact(ctx, func(tx Store) error {
			return e.run(ctx, tx, tournamentID)
		})
	})
	if err != nil {
		return nil, err
	}
	return e.GetScores(ctx, tournamentID)
}

// recompute recalculates a tournament inside an enclosing transaction. Used
// by the stage engine so all of a stage's per-tournament replacements commit
// together with the stage's own rows.
func (e *FrutalesEngine) recompute(ctx context.Context, tx Store, tournamentID uuid.UUID) error {
	return e.locks.do(tournamentID, func() error {
		return e.run(ctx, tx, tournamentID)
	})
}

func (e *FrutalesEngine) run(ctx context.Context, tx Store, tournamentID uuid.UUID) error {
	tournament, err := tx.GetTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	if tournament.Type != models.TournamentTypeFrutales {
		return apperrors.InvalidState("frutales scoring only applies to FRUTALES tournaments, got %s", tournament.Type)
	}

	multiplier := 1
	if tournament.DoublePoints {
		multiplier = 2
	}

	cards, err := tx.ListScorecardsByStatus(ctx, tournamentID,
		models.ScorecardStatusDelivered,
		models.ScorecardStatusCancelled,
		models.ScorecardStatusDisqualified,
	)
	if err != nil {
		return err
	}

	var delivered, cancelled []*playerRoundData
	var disqualified []*models.Scorecard
	for i := range cards {
		card := &cards[i]
		switch card.Status {
		case models.ScorecardStatusDelivered:
			delivered = append(delivered, buildRoundData(card))
		case models.ScorecardStatusCancelled:
			cancelled = append(cancelled, buildRoundData(card))
		case models.ScorecardStatusDisqualified:
			disqualified = append(disqualified, card)
		}
	}

	// Delivered-only ranking decides position points: net ascending, then
	// handicap index, then countback. This rank is distinct from the final
	// position, which also weighs bonus points.
	deliveredRank := Chain(
		ByFloat(func(d *playerRoundData) *float64 { return d.net }, false),
		ByFloat(func(d *playerRoundData) *float64 { return d.handicapIndex }, false),
		countback,
	)
	sort.SliceStable(delivered, func(i, j int) bool {
		return deliveredRank(delivered[i], delivered[j]) < 0
	})

	rows := make([]scoredRow, 0, len(delivered)+len(cancelled))

	for i, data := range delivered {
		rank := i + 1
		posPoints, ok := positionPoints[rank]
		if !ok {
			posPoints = defaultPositionPoints
		}
		rows = append(rows, newScoredRow(tournament, data, posPoints*multiplier, multiplier))
	}

	// Cancelled cards get no position points but keep their bonus and
	// participation points.
	for _, data := range cancelled {
		rows = append(rows, newScoredRow(tournament, data, 0, multiplier))
	}

	// Final position across delivered + cancelled: total points descending,
	// delivered beats cancelled, then handicap index, then countback.
	finalRank := Chain(
		ByInt(func(r scoredRow) *int { v := r.score.TotalPoints; return &v }, true),
		ByBool(func(r scoredRow) bool { return r.data.card.Status == models.ScorecardStatusDelivered }),
		ByFloat(func(r scoredRow) *float64 { return r.data.handicapIndex }, false),
		func(a, b scoredRow) int { return countback(a.data, b.data) },
	)
	sort.SliceStable(rows, func(i, j int) bool {
		return finalRank(rows[i], rows[j]) < 0
	})

	persisted := make([]models.FrutalesScore, 0, len(rows)+len(disqualified))
	for i := range rows {
		pos := i + 1
		rows[i].score.Position = &pos
		persisted = append(persisted, rows[i].score)
	}

	// Disqualified cards are persisted with zero points and no position,
	// whatever partial score data they hold.
	for _, card := range disqualified {
		persisted = append(persisted, models.FrutalesScore{
			TournamentID: tournamentID,
			ScorecardID:  card.ID,
			PlayerID:     card.PlayerID,
		})
	}

	if err := tx.ReplaceFrutalesScores(ctx, tournamentID, persisted); err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{
		"tournament_id": tournamentID,
		"delivered":     len(delivered),
		"cancelled":     len(cancelled),
		"disqualified":  len(disqualified),
		"multiplier":    multiplier,
	}).Info("frutales scores calculated")
	return nil
}

// GetScores returns the persisted points table in display order: positioned
// entries first (position ascending), then entries without a position that
// are not disqualified (total points descending), then disqualified entries.
func (e *FrutalesEngine) GetScores(ctx context.Context, tournamentID uuid.UUID) ([]FrutalesScoreEntry, error) {
	if _, err := e.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	scores, err := e.store.ListFrutalesScores(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	var positioned, unpositioned, dq []models.FrutalesScore
	for _, s := range scores {
		switch {
		case s.Scorecard.Status == models.ScorecardStatusDisqualified:
			dq = append(dq, s)
		case s.Position != nil:
			positioned = append(positioned, s)
		default:
			unpositioned = append(unpositioned, s)
		}
	}

	sort.SliceStable(positioned, func(i, j int) bool {
		return *positioned[i].Position < *positioned[j].Position
	})
	sort.SliceStable(unpositioned, func(i, j int) bool {
		return unpositioned[i].TotalPoints > unpositioned[j].TotalPoints
	})

	entries := make([]FrutalesScoreEntry, 0, len(scores))
	for _, group := range [][]models.FrutalesScore{positioned, unpositioned, dq} {
		for i := range group {
			entries = append(entries, toFrutalesEntry(&group[i]))
		}
	}
	return entries, nil
}

func newScoredRow(tournament *models.Tournament, data *playerRoundData, posPoints, multiplier int) scoredRow {
	a := data.achievements
	birdiePoints := a.Birdies * birdiePointValue * multiplier
	eaglePoints := a.Eagles * eaglePointValue * multiplier
	acePoints := a.Aces * acePointValue * multiplier
	participation := participationValue * multiplier

	return scoredRow{
		data: data,
		score: models.FrutalesScore{
			TournamentID:        tournament.ID,
			ScorecardID:         data.card.ID,
			PlayerID:            data.card.PlayerID,
			PositionPoints:      posPoints,
			BirdieCount:         a.Birdies,
			BirdiePoints:        birdiePoints,
			EagleCount:          a.Eagles,
			EaglePoints:         eaglePoints,
			AceCount:            a.Aces,
			AcePoints:           acePoints,
			ParticipationPoints: participation,
			TotalPoints:         posPoints + birdiePoints + eaglePoints + acePoints + participation,
		},
	}
}

// buildRoundData precomputes everything the comparators look at. The net
// score is absent while the card is incomplete; cancelled cards are never
// required to be complete.
func buildRoundData(card *models.Scorecard) *playerRoundData {
	data := &playerRoundData{
		card:          card,
		handicapIndex: card.Player.HandicapIndex,
		achievements:  TallyAchievements(card.HoleScores),
		strokesByHole: make(map[int]int),
	}

	gross, complete := GrossScore(card.HoleScores)
	if complete {
		handicap := 0.0
		if card.HandicapCourse != nil {
			handicap = *card.HandicapCourse
		}
		net := float64(gross) - handicap
		data.net = &net
	}

	for _, hs := range card.HoleScores {
		if hs.Hole.Number > data.maxHole {
			data.maxHole = hs.Hole.Number
		}
		if hs.PlayerStrokes != nil {
			data.strokesByHole[hs.Hole.Number] = *hs.PlayerStrokes
		}
	}
	return data
}

func toFrutalesEntry(s *models.FrutalesScore) FrutalesScoreEntry {
	entry := FrutalesScoreEntry{
		ScorecardID:         s.ScorecardID,
		PlayerID:            s.PlayerID,
		PlayerName:          s.Player.FullName(),
		Matricula:           s.Player.Matricula,
		Position:            s.Position,
		HandicapIndex:       s.Player.HandicapIndex,
		HandicapCourse:      s.Scorecard.HandicapCourse,
		Status:              s.Scorecard.Status,
		BirdieCount:         s.BirdieCount,
		EagleCount:          s.EagleCount,
		AceCount:            s.AceCount,
		PositionPoints:      s.PositionPoints,
		BirdiePoints:        s.BirdiePoints,
		EaglePoints:         s.EaglePoints,
		AcePoints:           s.AcePoints,
		ParticipationPoints: s.ParticipationPoints,
		TotalPoints:         s.TotalPoints,
	}

	if s.Scorecard.Status == models.ScorecardStatusDelivered {
		agg := AggregateScore(&s.Scorecard, s.Scorecard.HoleScores)
		entry.Gross = &agg.Gross
		entry.Net = &agg.Net
	}
	return entry
}
