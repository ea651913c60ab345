package scoring

import (
	"context"

	"github.com/google/uuid"

	"github.com/fergarri/golf-tournament-app/internal/models"
)

// Store is the persistence surface the engines compute over. The gorm
// implementation lives in internal/storage; tests substitute fakes.
//
// Lookup methods return an apperrors NotFound error when the referenced
// entity does not exist, except GetScorecard which returns (nil, nil) when
// the player simply never started a card.
//
// The Replace* methods are replace-scope transactions: delete every derived
// row matching the scope key, then bulk-insert the new set, atomically.
type Store interface {
	// Transact runs fn against a transactional view of the store. Every
	// Replace* performed inside commits or rolls back as one unit, so a
	// cascaded recompute never leaves a scope mixing old and new rows.
	Transact(ctx context.Context, fn func(tx Store) error) error

	GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error)
	ListCategories(ctx context.Context, tournamentID uuid.UUID) ([]models.TournamentCategory, error)

	// ListInscriptions returns the tournament's inscriptions with Player and
	// fallback Category populated.
	ListInscriptions(ctx context.Context, tournamentID uuid.UUID) ([]models.Inscription, error)
	GetInscription(ctx context.Context, id uuid.UUID) (*models.Inscription, error)
	// SetInscriptionsPaid updates the paid flag of the given inscriptions as
	// one batch.
	SetInscriptionsPaid(ctx context.Context, paidByID map[uuid.UUID]bool) error

	// GetScorecard returns the card of (tournament, player) with HoleScores
	// and their Holes populated, or nil when no card exists.
	GetScorecard(ctx context.Context, tournamentID, playerID uuid.UUID) (*models.Scorecard, error)
	// ListScorecardsByStatus returns the tournament's cards in any of the
	// given statuses, with Player and HoleScores.Hole populated.
	ListScorecardsByStatus(ctx context.Context, tournamentID uuid.UUID, statuses ...models.ScorecardStatus) ([]models.Scorecard, error)

	ReplaceFrutalesScores(ctx context.Context, tournamentID uuid.UUID, rows []models.FrutalesScore) error
	// ListFrutalesScores returns the tournament's computed rows with Player
	// and Scorecard populated, ordered by total points descending.
	ListFrutalesScores(ctx context.Context, tournamentID uuid.UUID) ([]models.FrutalesScore, error)

	// GetStage returns the stage with its Tournaments populated.
	GetStage(ctx context.Context, stageID uuid.UUID) (*models.Stage, error)
	GetSeason(ctx context.Context, seasonID uuid.UUID) (*models.Season, error)
	// ListStages returns the season's stages in chronological (creation)
	// order, Tournaments populated.
	ListStages(ctx context.Context, seasonID uuid.UUID) ([]models.Stage, error)

	ReplaceStageScores(ctx context.Context, stageID uuid.UUID, rows []models.StageScore) error
	// ListStageScores returns the stage's computed rows with Player
	// populated, ordered by position ascending.
	ListStageScores(ctx context.Context, stageID uuid.UUID) ([]models.StageScore, error)

	ReplacePlayoffResults(ctx context.Context, seasonID uuid.UUID, rows []models.PlayoffResult) error
	// ListPlayoffResults returns the season's computed rows with Player
	// populated, ordered by position ascending.
	ListPlayoffResults(ctx context.Context, seasonID uuid.UUID) ([]models.PlayoffResult, error)
}
