// Package storage implements the engines' Store interface on top of GORM and
// PostgreSQL. All reads preload exactly the associations the engines'
// contracts promise; the Replace* operations are delete-then-insert inside a
// transaction so readers never observe a partially replaced artifact set.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/models"
	"github.com/fergarri/golf-tournament-app/internal/scoring"
)

// GormStore is the production Store. A zero value is not usable; construct
// with New.
type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transact runs fn against a transactional store. Nested calls reuse GORM's
// savepoint support, so engines can compose freely.
func (s *GormStore) Transact(ctx context.Context, fn func(tx scoring.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	var tournament models.Tournament
	err := s.db.WithContext(ctx).First(&tournament, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("tournament", id)
	}
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *GormStore) ListCategories(ctx context.Context, tournamentID uuid.UUID) ([]models.TournamentCategory, error) {
	var categories []models.TournamentCategory
	err := s.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("handicap_min ASC").
		Find(&categories).Error
	return categories, err
}

func (s *GormStore) ListInscriptions(ctx context.Context, tournamentID uuid.UUID) ([]models.Inscription, error) {
	var inscriptions []models.Inscription
	err := s.db.WithContext(ctx).
		Preload("Player").
		Preload("Category").
		Where("tournament_id = ?", tournamentID).
		Order("created_at ASC").
		Find(&inscriptions).Error
	return inscriptions, err
}

func (s *GormStore) GetInscription(ctx context.Context, id uuid.UUID) (*models.Inscription, error) {
	var inscription models.Inscription
	err := s.db.WithContext(ctx).First(&inscription, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("inscription", id)
	}
	if err != nil {
		return nil, err
	}
	return &inscription, nil
}

func (s *GormStore) SetInscriptionsPaid(ctx context.Context, paidByID map[uuid.UUID]bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, paid := range paidByID {
			if err := tx.Model(&models.Inscription{}).
				Where("id = ?", id).
				Update("paid", paid).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) GetScorecard(ctx context.Context, tournamentID, playerID uuid.UUID) (*models.Scorecard, error) {
	var card models.Scorecard
	err := s.db.WithContext(ctx).
		Preload("HoleScores.Hole").
		Where("tournament_id = ? AND player_id = ?", tournamentID, playerID).
		First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *GormStore) ListScorecardsByStatus(ctx context.Context, tournamentID uuid.UUID, statuses ...models.ScorecardStatus) ([]models.Scorecard, error) {
	var cards []models.Scorecard
	err := s.db.WithContext(ctx).
		Preload("Player").
		Preload("HoleScores.Hole").
		Where("tournament_id = ? AND status IN ?", tournamentID, statuses).
		Order("created_at ASC").
		Find(&cards).Error
	return cards, err
}

func (s *GormStore) ReplaceFrutalesScores(ctx context.Context, tournamentID uuid.UUID, rows []models.FrutalesScore) error {
	return replace(ctx, s.db, "tournament_id", tournamentID, rows)
}

func (s *GormStore) ListFrutalesScores(ctx context.Context, tournamentID uuid.UUID) ([]models.FrutalesScore, error) {
	var scores []models.FrutalesScore
	err := s.db.WithContext(ctx).
		Preload("Player").
		Preload("Scorecard.HoleScores.Hole").
		Where("tournament_id = ?", tournamentID).
		Order("total_points DESC").
		Find(&scores).Error
	return scores, err
}

func (s *GormStore) GetStage(ctx context.Context, stageID uuid.UUID) (*models.Stage, error) {
	var stage models.Stage
	err := s.db.WithContext(ctx).
		Preload("Tournaments").
		First(&stage, "id = ?", stageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("stage", stageID)
	}
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (s *GormStore) GetSeason(ctx context.Context, seasonID uuid.UUID) (*models.Season, error) {
	var season models.Season
	err := s.db.WithContext(ctx).First(&season, "id = ?", seasonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("season", seasonID)
	}
	if err != nil {
		return nil, err
	}
	return &season, nil
}

func (s *GormStore) ListStages(ctx context.Context, seasonID uuid.UUID) ([]models.Stage, error) {
	var stages []models.Stage
	err := s.db.WithContext(ctx).
		Preload("Tournaments").
		Where("season_id = ?", seasonID).
		Order("created_at ASC").
		Find(&stages).Error
	return stages, err
}

func (s *GormStore) ReplaceStageScores(ctx context.Context, stageID uuid.UUID, rows []models.StageScore) error {
	return replace(ctx, s.db, "stage_id", stageID, rows)
}

func (s *GormStore) ListStageScores(ctx context.Context, stageID uuid.UUID) ([]models.StageScore, error) {
	var scores []models.StageScore
	err := s.db.WithContext(ctx).
		Preload("Player").
		Where("stage_id = ?", stageID).
		Order("position ASC").
		Find(&scores).Error
	return scores, err
}

func (s *GormStore) ReplacePlayoffResults(ctx context.Context, seasonID uuid.UUID, rows []models.PlayoffResult) error {
	return replace(ctx, s.db, "season_id", seasonID, rows)
}

func (s *GormStore) ListPlayoffResults(ctx context.Context, seasonID uuid.UUID) ([]models.PlayoffResult, error) {
	var results []models.PlayoffResult
	err := s.db.WithContext(ctx).
		Preload("Player").
		Where("season_id = ?", seasonID).
		Order("position ASC").
		Find(&results).Error
	return results, err
}

// replace is the replace-scope transaction shared by the three computed
// artifacts: delete every row matching the scope key, then bulk-insert the
// new set. Associations on the rows are never written, computed rows only
// reference existing entities.
func replace[T any](ctx context.Context, db *gorm.DB, scopeColumn string, scopeID uuid.UUID, rows []T) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(scopeColumn+" = ?", scopeID).Delete(new(T)).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&rows).Error
	})
}
