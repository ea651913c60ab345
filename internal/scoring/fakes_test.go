package scoring

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/models"
)

// fakeStore is the in-memory Store used by the engine tests. It mirrors the
// documented Store contracts: lookups hydrate the associations the real
// implementation preloads, list orders match, and Replace* swaps the whole
// derived-row set for its scope.
type fakeStore struct {
	tournaments  map[uuid.UUID]*models.Tournament
	categories   map[uuid.UUID][]models.TournamentCategory
	inscriptions map[uuid.UUID][]models.Inscription
	scorecards   map[uuid.UUID][]*models.Scorecard
	players      map[uuid.UUID]*models.Player

	seasons      map[uuid.UUID]*models.Season
	stageOrder   map[uuid.UUID][]uuid.UUID
	stagesByID   map[uuid.UUID]*models.Stage
	frutalesRows map[uuid.UUID][]models.FrutalesScore
	stageRows    map[uuid.UUID][]models.StageScore
	playoffRows  map[uuid.UUID][]models.PlayoffResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tournaments:  make(map[uuid.UUID]*models.Tournament),
		categories:   make(map[uuid.UUID][]models.TournamentCategory),
		inscriptions: make(map[uuid.UUID][]models.Inscription),
		scorecards:   make(map[uuid.UUID][]*models.Scorecard),
		players:      make(map[uuid.UUID]*models.Player),
		seasons:      make(map[uuid.UUID]*models.Season),
		stageOrder:   make(map[uuid.UUID][]uuid.UUID),
		stagesByID:   make(map[uuid.UUID]*models.Stage),
		frutalesRows: make(map[uuid.UUID][]models.FrutalesScore),
		stageRows:    make(map[uuid.UUID][]models.StageScore),
		playoffRows:  make(map[uuid.UUID][]models.PlayoffResult),
	}
}

func (f *fakeStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	return fn(f)
}

func (f *fakeStore) GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, apperrors.NotFound("tournament", id)
	}
	return t, nil
}

func (f *fakeStore) ListCategories(ctx context.Context, tournamentID uuid.UUID) ([]models.TournamentCategory, error) {
	return f.categories[tournamentID], nil
}

func (f *fakeStore) ListInscriptions(ctx context.Context, tournamentID uuid.UUID) ([]models.Inscription, error) {
	return f.inscriptions[tournamentID], nil
}

func (f *fakeStore) GetInscription(ctx context.Context, id uuid.UUID) (*models.Inscription, error) {
	for _, list := range f.inscriptions {
		for i := range list {
			if list[i].ID == id {
				return &list[i], nil
			}
		}
	}
	return nil, apperrors.NotFound("inscription", id)
}

func (f *fakeStore) SetInscriptionsPaid(ctx context.Context, paidByID map[uuid.UUID]bool) error {
	for _, list := range f.inscriptions {
		for i := range list {
			if paid, ok := paidByID[list[i].ID]; ok {
				list[i].Paid = paid
			}
		}
	}
	return nil
}

func (f *fakeStore) GetScorecard(ctx context.Context, tournamentID, playerID uuid.UUID) (*models.Scorecard, error) {
	for _, card := range f.scorecards[tournamentID] {
		if card.PlayerID == playerID {
			return card, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListScorecardsByStatus(ctx context.Context, tournamentID uuid.UUID, statuses ...models.ScorecardStatus) ([]models.Scorecard, error) {
	var out []models.Scorecard
	for _, card := range f.scorecards[tournamentID] {
		for _, status := range statuses {
			if card.Status == status {
				out = append(out, *card)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceFrutalesScores(ctx context.Context, tournamentID uuid.UUID, rows []models.FrutalesScore) error {
	hydrated := make([]models.FrutalesScore, len(rows))
	copy(hydrated, rows)
	for i := range hydrated {
		if p, ok := f.players[hydrated[i].PlayerID]; ok {
			hydrated[i].Player = *p
		}
		if card := f.cardByID(hydrated[i].ScorecardID); card != nil {
			hydrated[i].Scorecard = *card
		}
	}
	f.frutalesRows[tournamentID] = hydrated
	return nil
}

func (f *fakeStore) ListFrutalesScores(ctx context.Context, tournamentID uuid.UUID) ([]models.FrutalesScore, error) {
	rows := make([]models.FrutalesScore, len(f.frutalesRows[tournamentID]))
	copy(rows, f.frutalesRows[tournamentID])
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalPoints > rows[j].TotalPoints })
	return rows, nil
}

func (f *fakeStore) GetStage(ctx context.Context, stageID uuid.UUID) (*models.Stage, error) {
	s, ok := f.stagesByID[stageID]
	if !ok {
		return nil, apperrors.NotFound("stage", stageID)
	}
	return s, nil
}

func (f *fakeStore) GetSeason(ctx context.Context, seasonID uuid.UUID) (*models.Season, error) {
	s, ok := f.seasons[seasonID]
	if !ok {
		return nil, apperrors.NotFound("season", seasonID)
	}
	return s, nil
}

func (f *fakeStore) ListStages(ctx context.Context, seasonID uuid.UUID) ([]models.Stage, error) {
	var out []models.Stage
	for _, id := range f.stageOrder[seasonID] {
		out = append(out, *f.stagesByID[id])
	}
	return out, nil
}

func (f *fakeStore) ReplaceStageScores(ctx context.Context, stageID uuid.UUID, rows []models.StageScore) error {
	hydrated := make([]models.StageScore, len(rows))
	copy(hydrated, rows)
	for i := range hydrated {
		if p, ok := f.players[hydrated[i].PlayerID]; ok {
			hydrated[i].Player = *p
		}
	}
	f.stageRows[stageID] = hydrated
	return nil
}

func (f *fakeStore) ListStageScores(ctx context.Context, stageID uuid.UUID) ([]models.StageScore, error) {
	rows := make([]models.StageScore, len(f.stageRows[stageID]))
	copy(rows, f.stageRows[stageID])
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Position, rows[j].Position
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return *a < *b
	})
	return rows, nil
}

func (f *fakeStore) ReplacePlayoffResults(ctx context.Context, seasonID uuid.UUID, rows []models.PlayoffResult) error {
	hydrated := make([]models.PlayoffResult, len(rows))
	copy(hydrated, rows)
	for i := range hydrated {
		if p, ok := f.players[hydrated[i].PlayerID]; ok {
			hydrated[i].Player = *p
		}
	}
	f.playoffRows[seasonID] = hydrated
	return nil
}

func (f *fakeStore) ListPlayoffResults(ctx context.Context, seasonID uuid.UUID) ([]models.PlayoffResult, error) {
	rows := make([]models.PlayoffResult, len(f.playoffRows[seasonID]))
	copy(rows, f.playoffRows[seasonID])
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	return rows, nil
}

func (f *fakeStore) cardByID(id uuid.UUID) *models.Scorecard {
	for _, cards := range f.scorecards {
		for _, card := range cards {
			if card.ID == id {
				return card
			}
		}
	}
	return nil
}

// --- fixture builders ---

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// addPlayer registers a player with the fake and returns it.
func (f *fakeStore) addPlayer(firstName, lastName string, handicapIndex *float64) *models.Player {
	p := &models.Player{
		ID:            uuid.New(),
		FirstName:     firstName,
		LastName:      lastName,
		Matricula:     "M-" + uuid.NewString()[:8],
		HandicapIndex: handicapIndex,
	}
	f.players[p.ID] = p
	return p
}

func (f *fakeStore) addTournament(name string, typ models.TournamentType, doublePoints bool) *models.Tournament {
	t := &models.Tournament{
		ID:           uuid.New(),
		Name:         name,
		Code:         "T-" + uuid.NewString()[:8],
		Type:         typ,
		Status:       models.TournamentStatusActive,
		DoublePoints: doublePoints,
	}
	f.tournaments[t.ID] = t
	return t
}

func (f *fakeStore) addInscription(t *models.Tournament, p *models.Player) *models.Inscription {
	insc := models.Inscription{
		ID:           uuid.New(),
		TournamentID: t.ID,
		PlayerID:     p.ID,
		Player:       *p,
	}
	f.inscriptions[t.ID] = append(f.inscriptions[t.ID], insc)
	return &f.inscriptions[t.ID][len(f.inscriptions[t.ID])-1]
}

// addCard builds a scorecard with one hole row per entry of strokes. A nil
// entry is an unscored hole. Pars line up with the pars slice; when pars is
// nil every hole is a par 4.
func (f *fakeStore) addCard(t *models.Tournament, p *models.Player, status models.ScorecardStatus, handicapCourse *float64, strokes []*int, pars []int) *models.Scorecard {
	card := &models.Scorecard{
		ID:             uuid.New(),
		TournamentID:   t.ID,
		PlayerID:       p.ID,
		Player:         *p,
		HandicapCourse: handicapCourse,
		Status:         status,
	}
	for i, s := range strokes {
		par := 4
		if pars != nil {
			par = pars[i]
		}
		card.HoleScores = append(card.HoleScores, models.HoleScore{
			ID:            uuid.New(),
			ScorecardID:   card.ID,
			HoleID:        uuid.New(),
			Hole:          models.Hole{Number: i + 1, Par: par, StrokeIndex: i + 1},
			PlayerStrokes: s,
		})
	}
	f.scorecards[t.ID] = append(f.scorecards[t.ID], card)
	return card
}

func (f *fakeStore) addSeason(name string, year int) *models.Season {
	s := &models.Season{ID: uuid.New(), Name: name, Year: year}
	f.seasons[s.ID] = s
	return s
}

func (f *fakeStore) addStage(season *models.Season, name string, tournaments ...*models.Tournament) *models.Stage {
	stage := &models.Stage{
		ID:       uuid.New(),
		SeasonID: season.ID,
		Name:     name,
	}
	for _, t := range tournaments {
		stage.Tournaments = append(stage.Tournaments, *t)
	}
	f.stagesByID[stage.ID] = stage
	f.stageOrder[season.ID] = append(f.stageOrder[season.ID], stage.ID)
	return stage
}

// strokesAll returns n holes all scored with the same stroke count.
func strokesAll(n, strokes int) []*int {
	out := make([]*int, n)
	for i := range out {
		out[i] = iptr(strokes)
	}
	return out
}
