package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/models"
)

func TestFrutalesCalculate_PointsTable(t *testing.T) {
	store := newFakeStore()
	engine := NewFrutalesEngine(store, testLogger())

	tournament := store.addTournament("Frutales 1", models.TournamentTypeFrutales, false)

	first := store.addPlayer("Ana", "Alba", fptr(10))
	second := store.addPlayer("Ben", "Bravo", fptr(12))
	third := store.addPlayer("Cleo", "Cruz", fptr(15))
	withdrawn := store.addPlayer("Dan", "Diaz", fptr(18))
	cheater := store.addPlayer("Eva", "Franco", fptr(20))

	// first: a birdie on hole 1, pars elsewhere. gross 35.
	firstStrokes := strokesAll(9, 4)
	firstStrokes[0] = iptr(3)
	store.addCard(tournament, first, models.ScorecardStatusDelivered, nil, firstStrokes, nil)
	// second: all pars, gross 36.
	store.addCard(tournament, second, models.ScorecardStatusDelivered, nil, strokesAll(9, 4), nil)
	// third: all bogeys, gross 45.
	store.addCard(tournament, third, models.ScorecardStatusDelivered, nil, strokesAll(9, 5), nil)
	// withdrawn: cancelled mid-round with a birdie already carded.
	store.addCard(tournament, withdrawn, models.ScorecardStatusCancelled, nil,
		[]*int{iptr(3), iptr(4), nil, nil, nil, nil, nil, nil, nil}, nil)
	// cheater: disqualified.
	store.addCard(tournament, cheater, models.ScorecardStatusDisqualified, nil, strokesAll(9, 3), nil)

	entries, err := engine.Calculate(context.Background(), tournament.ID)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// Winner: 12 position + 1 birdie + 1 participation.
	assert.Equal(t, "Alba Ana", entries[0].PlayerName)
	assert.Equal(t, 1, *entries[0].Position)
	assert.Equal(t, 12, entries[0].PositionPoints)
	assert.Equal(t, 1, entries[0].BirdiePoints)
	assert.Equal(t, 14, entries[0].TotalPoints)

	assert.Equal(t, "Bravo Ben", entries[1].PlayerName)
	assert.Equal(t, 11, entries[1].TotalPoints)

	assert.Equal(t, "Cruz Cleo", entries[2].PlayerName)
	assert.Equal(t, 9, entries[2].TotalPoints)

	// Cancelled: no position points, but bonus and participation stand.
	assert.Equal(t, "Diaz Dan", entries[3].PlayerName)
	assert.Equal(t, 4, *entries[3].Position)
	assert.Equal(t, 0, entries[3].PositionPoints)
	assert.Equal(t, 1, entries[3].BirdiePoints)
	assert.Equal(t, 2, entries[3].TotalPoints)

	// Disqualified: zero everything, no position, listed last.
	assert.Equal(t, "Franco Eva", entries[4].PlayerName)
	assert.Nil(t, entries[4].Position)
	assert.Equal(t, 0, entries[4].TotalPoints)
	assert.Equal(t, models.ScorecardStatusDisqualified, entries[4].Status)
}

func TestFrutalesCalculate_DoublePoints(t *testing.T) {
	store := newFakeStore()
	engine := NewFrutalesEngine(store, testLogger())

	tournament := store.addTournament("Frutales x2", models.TournamentTypeFrutales, true)
	player := store.addPlayer("Ana", "Alba", fptr(10))

	strokes := strokesAll(9, 4)
	strokes[0] = iptr(3)
	store.addCard(tournament, player, models.ScorecardStatusDelivered, nil, strokes, nil)

	entries, err := engine.Calculate(context.Background(), tournament.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Everything doubles: position 24, birdie 2, participation 2.
	assert.Equal(t, 24, entries[0].PositionPoints)
	assert.Equal(t, 2, entries[0].BirdiePoints)
	assert.Equal(t, 2, entries[0].ParticipationPoints)
	assert.Equal(t, 28, entries[0].TotalPoints)
}

func TestFrutalesCalculate_RanksBeyondSixth(t *testing.T) {
	store := newFakeStore()
	engine := NewFrutalesEngine(store, testLogger())

	tournament := store.addTournament("Frutales full", models.TournamentTypeFrutales, false)

	names := []string{"Alba", "Bravo", "Cruz", "Diaz", "Franco", "Gil", "Haro", "Ibar"}
	for i, last := range names {
		p := store.addPlayer("P", last, fptr(float64(i)))
		store.addCard(tournament, p, models.ScorecardStatusDelivered, nil, strokesAll(9, 4+i), nil)
	}

	entries, err := engine.Calculate(context.Background(), tournament.ID)
	require.NoError(t, err)
	require.Len(t, entries, 8)

	wantPosition := []int{12, 10, 8, 6, 4, 2, 1, 1}
	for i, want := range wantPosition {
		assert.Equal(t, want, entries[i].PositionPoints, "rank %d", i+1)
	}
}

func TestFrutalesCalculate_HandicapIndexBreaksNetTie(t *testing.T) {
	store := newFakeStore()
	engine := NewFrutalesEngine(store, testLogger())

	tournament := store.addTournament("Frutales net tie", models.TournamentTypeFrutales, false)

	winner := store.addPlayer("Ana", "Alba", fptr(12))
	// The tied pair: identical hole-by-hole cards, so only the handicap
	// index separates them. Cruz carries the lower index but the
	// later-sorting name.
	higherIndex := store.addPlayer("Ben", "Bravo", fptr(8))
	lowerIndex := store.addPlayer("Cleo", "Cruz", fptr(5))

	// Winner: two birdies, net 70. Tied pair: all pars, net 72 each.
	winnerStrokes := strokesAll(18, 4)
	winnerStrokes[0] = iptr(3)
	winnerStrokes[1] = iptr(3)
	store.addCard(tournament, winner, models.ScorecardStatusDelivered, nil, winnerStrokes, nil)
	store.addCard(tournament, higherIndex, models.ScorecardStatusDelivered, nil, strokesAll(18, 4), nil)
	store.addCard(tournament, lowerIndex, models.ScorecardStatusDelivered, nil, strokesAll(18, 4), nil)

	entries, err := engine.Calculate(context.Background(), tournament.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Alba Ana", entries[0].PlayerName)
	assert.Equal(t, 12, entries[0].PositionPoints)
	assert.Equal(t, "Cruz Cleo", entries[1].PlayerName)
	assert.Equal(t, 10, entries[1].PositionPoints)
	assert.Equal(t, "Bravo Ben", entries[2].PlayerName)
	assert.Equal(t, 8, entries[2].PositionPoints)
}

func TestFrutalesCalculate_CountbackBreaksTies(t *testing.T) {
	store := newFakeStore()
	engine := NewFrutalesEngine(store, testLogger())

	tournament := store.addTournament("Frutales tie", models.TournamentTypeFrutales, false)

	a := store.addPlayer("Ana", "Alba", fptr(10))
	b := store.addPlayer("Ben", "Bravo", fptr(10))

	// Identical gross and handicap; the last hole decides: a carded 4, b 5.
	aStrokes := strokesAll(9, 4)
	aStrokes[7] = iptr(5)
	bStrokes := strokesAll(9, 4)
	bStrokes[8] = iptr(5)
	store.addCard(tournament, a, models.ScorecardStatusDelivered, nil, aStrokes, nil)
	store.addCard(tournament, b, models.ScorecardStatusDelivered, nil, bStrokes, nil)

	entries, err := engine.Calculate(context.Background(), tournament.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alba Ana", entries[0].PlayerName)
	assert.Equal(t, 12, entries[0].PositionPoints)
	assert.Equal(t, "Bravo Ben", entries[1].PlayerName)
	assert.Equal(t, 10, entries[1].PositionPoints)
}

func TestFrutalesCalculate_Idempotent(t *testing.T) {
	store := newFakeStore()
	engine := NewFrutalesEngine(store, testLogger())

	tournament := store.addTournament("Frutales rerun", models.TournamentTypeFrutales, false)
	for i, last := range []string{"Alba", "Bravo", "Cruz"} {
		p := store.addPlayer("P", last, fptr(float64(i)))
		store.addCard(tournament, p, models.ScorecardStatusDelivered, nil, strokesAll(9, 4+i), nil)
	}

	firstRun, err := engine.Calculate(context.Background(), tournament.ID)
	require.NoError(t, err)
	secondRun, err := engine.Calculate(context.Background(), tournament.ID)
	require.NoError(t, err)

	assert.Equal(t, firstRun, secondRun)
}

func TestFrutalesCalculate_RejectsNonFrutales(t *testing.T) {
	store := newFakeStore()
	engine := NewFrutalesEngine(store, testLogger())

	tournament := store.addTournament("Medal", models.TournamentTypeClasico, false)

	_, err := engine.Calculate(context.Background(), tournament.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}
