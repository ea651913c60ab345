package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/models"
	"github.com/google/uuid"
)

func newPlayoffEngine(store *fakeStore) *PlayoffEngine {
	log := testLogger()
	stage := NewStageEngine(store, log, NewFrutalesEngine(store, log), NewLeaderboardEngine(store, log))
	return NewPlayoffEngine(store, log, stage)
}

// seedDate creates a Frutales tournament where the given players finish in
// the given order (earlier in the slice scores better).
func seedDate(store *fakeStore, name string, startDate time.Time, players ...*models.Player) *models.Tournament {
	tournament := store.addTournament(name, models.TournamentTypeFrutales, false)
	tournament.StartDate = startDate
	for i, p := range players {
		store.addInscription(tournament, p)
		store.addCard(tournament, p, models.ScorecardStatusDelivered, nil, strokesAll(9, 4+i), nil)
	}
	return tournament
}

func TestPlayoffCalculate_AccumulatesStages(t *testing.T) {
	store := newFakeStore()
	engine := newPlayoffEngine(store)

	season := store.addSeason("Temporada", 2026)

	alba := store.addPlayer("Ana", "Alba", fptr(10))
	bravo := store.addPlayer("Ben", "Bravo", fptr(12))

	// Alba wins both stages: 13+13=26 vs Bravo's 11+11=22.
	date1 := seedDate(store, "Fecha 1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), alba, bravo)
	date2 := seedDate(store, "Fecha 2", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), alba, bravo)
	stage1 := store.addStage(season, "Etapa 1", date1)
	stage2 := store.addStage(season, "Etapa 2", date2)

	board, err := engine.Calculate(context.Background(), season.ID)
	require.NoError(t, err)
	require.Len(t, board.Rows, 2)
	require.Len(t, board.Stages, 2)

	assert.Equal(t, "E1", board.Stages[0].Code)
	assert.Equal(t, stage1.ID, board.Stages[0].StageID)
	assert.Equal(t, "E2", board.Stages[1].Code)

	assert.Equal(t, "Alba Ana", board.Rows[0].PlayerName)
	assert.Equal(t, 26, board.Rows[0].TotalPoints)
	assert.Equal(t, 1, board.Rows[0].Position)
	assert.True(t, board.Rows[0].Qualified)
	assert.Equal(t, 13, board.Rows[0].PointsByStage[stage1.ID])
	assert.Equal(t, 13, board.Rows[0].PointsByStage[stage2.ID])

	assert.Equal(t, "Bravo Ben", board.Rows[1].PlayerName)
	assert.Equal(t, 22, board.Rows[1].TotalPoints)
	assert.Equal(t, 2, board.Rows[1].Position)
}

func TestPlayoffCalculate_RecentStagePositionBreaksTies(t *testing.T) {
	store := newFakeStore()
	engine := newPlayoffEngine(store)

	season := store.addSeason("Temporada", 2026)

	// Same handicap, mirrored results: each wins one stage, 24 points apiece.
	alba := store.addPlayer("Ana", "Alba", fptr(10))
	bravo := store.addPlayer("Ben", "Bravo", fptr(10))

	date1 := seedDate(store, "Fecha 1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), alba, bravo)
	date2 := seedDate(store, "Fecha 2", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), bravo, alba)
	store.addStage(season, "Etapa 1", date1)
	store.addStage(season, "Etapa 2", date2)

	board, err := engine.Calculate(context.Background(), season.ID)
	require.NoError(t, err)
	require.Len(t, board.Rows, 2)

	// The most recent stage decides: Bravo won Etapa 2.
	assert.Equal(t, "Bravo Ben", board.Rows[0].PlayerName)
	assert.Equal(t, "Alba Ana", board.Rows[1].PlayerName)
}

func TestPlayoffCalculate_MissingStageCountsAsWorst(t *testing.T) {
	store := newFakeStore()
	engine := newPlayoffEngine(store)

	season := store.addSeason("Temporada", 2026)

	// Only one of the two ties played the recent stage; equal totals and
	// handicap otherwise.
	early := store.addPlayer("Ana", "Alba", fptr(10))
	recent := store.addPlayer("Ben", "Bravo", fptr(10))

	date1 := seedDate(store, "Fecha 1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), early)
	date2 := seedDate(store, "Fecha 2", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), recent)
	store.addStage(season, "Etapa 1", date1)
	store.addStage(season, "Etapa 2", date2)

	board, err := engine.Calculate(context.Background(), season.ID)
	require.NoError(t, err)
	require.Len(t, board.Rows, 2)

	// Both have 13 points; the player with a result in the recent stage
	// ranks ahead of the one absent from it.
	assert.Equal(t, "Bravo Ben", board.Rows[0].PlayerName)
	assert.Equal(t, "Alba Ana", board.Rows[1].PlayerName)
}

func TestPlayoffCalculate_TopEightQualify(t *testing.T) {
	store := newFakeStore()
	engine := newPlayoffEngine(store)

	season := store.addSeason("Temporada", 2026)

	players := make([]*models.Player, 0, 9)
	lastNames := []string{"Alba", "Bravo", "Cruz", "Diaz", "Franco", "Gil", "Haro", "Ibar", "Juri"}
	for i, last := range lastNames {
		players = append(players, store.addPlayer("P", last, fptr(float64(i))))
	}
	date := seedDate(store, "Fecha única", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), players...)
	store.addStage(season, "Etapa única", date)

	board, err := engine.Calculate(context.Background(), season.ID)
	require.NoError(t, err)
	require.Len(t, board.Rows, 9)

	for i, row := range board.Rows {
		assert.Equal(t, i+1, row.Position)
		assert.Equal(t, i < 8, row.Qualified, "position %d", i+1)
	}
}

func TestPlayoffCalculate_EmptySeasonWipesResults(t *testing.T) {
	store := newFakeStore()
	engine := newPlayoffEngine(store)

	season := store.addSeason("Temporada", 2026)

	// Leftover rows from a deleted stage structure must not survive.
	store.playoffRows[season.ID] = []models.PlayoffResult{{
		ID:       uuid.New(),
		SeasonID: season.ID,
		PlayerID: uuid.New(),
		Position: 1,
	}}

	board, err := engine.Calculate(context.Background(), season.ID)
	require.NoError(t, err)
	assert.Empty(t, board.Rows)
	assert.Empty(t, store.playoffRows[season.ID])
}

func TestPlayoffResults_UnknownSeason(t *testing.T) {
	store := newFakeStore()
	engine := newPlayoffEngine(store)

	_, err := engine.Results(context.Background(), uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
