// Package stages manages the grouping of tournaments into season stages. The
// aggregation math lives in internal/scoring; this package only owns the
// stage records and the membership rules.
package stages

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/models"
)

type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

// Create adds a stage to the season with the given tournament list.
// Membership rules: at least one tournament, every tournament must be of
// Frutales type, and none may already sit in another stage of the same
// season.
func (s *Service) Create(ctx context.Context, seasonID uuid.UUID, name string, tournamentIDs []uuid.UUID) (*models.Stage, error) {
	if name == "" {
		return nil, apperrors.InvalidState("stage name is required")
	}

	var season models.Season
	if err := s.db.WithContext(ctx).First(&season, "id = ?", seasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("season", seasonID)
		}
		return nil, err
	}

	tournaments, err := s.validateMembers(ctx, seasonID, uuid.Nil, tournamentIDs)
	if err != nil {
		return nil, err
	}

	stage := models.Stage{SeasonID: seasonID, Name: name}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&stage).Error; err != nil {
			return err
		}
		return tx.Model(&stage).Association("Tournaments").Append(toInterfaces(tournaments)...)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.WithFields(logrus.Fields{
		"season_id":   seasonID,
		"stage_id":    stage.ID,
		"tournaments": len(tournaments),
	}).Info("stage created")

	return s.Get(ctx, stage.ID)
}

// Update renames a stage and/or replaces its tournament list. The same
// membership rules as Create apply; the stage's own current members do not
// count as "taken".
func (s *Service) Update(ctx context.Context, stageID uuid.UUID, name string, tournamentIDs []uuid.UUID) (*models.Stage, error) {
	stage, err := s.Get(ctx, stageID)
	if err != nil {
		return nil, err
	}

	tournaments, err := s.validateMembers(ctx, stage.SeasonID, stageID, tournamentIDs)
	if err != nil {
		return nil, err
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if name != "" && name != stage.Name {
			if err := tx.Model(stage).Update("name", name).Error; err != nil {
				return err
			}
		}
		return tx.Model(stage).Association("Tournaments").Replace(toInterfaces(tournaments)...)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, stageID)
}

func (s *Service) Get(ctx context.Context, stageID uuid.UUID) (*models.Stage, error) {
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

// ListBySeason returns the season's stages in creation order with their
// tournaments populated.
func (s *Service) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]models.Stage, error) {
	var stages []models.Stage
	err := s.db.WithContext(ctx).
		Preload("Tournaments").
		Where("season_id = ?", seasonID).
		Order("created_at ASC").
		Find(&stages).Error
	return stages, err
}

// AvailableTournaments returns Frutales tournaments not yet assigned to any
// stage of the season, for the stage create/edit forms. excludeStageID, when
// non-nil, keeps that stage's own members in the result so editing a stage
// offers them back.
func (s *Service) AvailableTournaments(ctx context.Context, seasonID uuid.UUID, excludeStageID *uuid.UUID) ([]models.Tournament, error) {
	taken, err := s.takenTournamentIDs(ctx, seasonID, excludeStageID)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Where("type = ?", models.TournamentTypeFrutales).
		Order("start_date ASC")
	if len(taken) > 0 {
		query = query.Where("id NOT IN ?", taken)
	}

	var tournaments []models.Tournament
	err = query.Find(&tournaments).Error
	return tournaments, err
}

// validateMembers checks the membership rules and returns the loaded
// tournaments. selfID is the stage being edited (uuid.Nil on create) so its
// current members are not treated as conflicts.
func (s *Service) validateMembers(ctx context.Context, seasonID, selfID uuid.UUID, tournamentIDs []uuid.UUID) ([]models.Tournament, error) {
	if len(tournamentIDs) == 0 {
		return nil, apperrors.InvalidState("a stage needs at least one tournament")
	}

	var tournaments []models.Tournament
	if err := s.db.WithContext(ctx).Where("id IN ?", tournamentIDs).Find(&tournaments).Error; err != nil {
		return nil, err
	}
	if len(tournaments) != len(tournamentIDs) {
		return nil, apperrors.InvalidState("one or more tournaments do not exist")
	}
	for _, t := range tournaments {
		if t.Type != models.TournamentTypeFrutales {
			return nil, apperrors.InvalidState("tournament %s is not a Frutales tournament", t.ID)
		}
	}

	var exclude *uuid.UUID
	if selfID != uuid.Nil {
		exclude = &selfID
	}
	taken, err := s.takenTournamentIDs(ctx, seasonID, exclude)
	if err != nil {
		return nil, err
	}
	takenSet := make(map[uuid.UUID]struct{}, len(taken))
	for _, id := range taken {
		takenSet[id] = struct{}{}
	}
	for _, t := range tournaments {
		if _, conflict := takenSet[t.ID]; conflict {
			return nil, apperrors.InvalidState("tournament %s already belongs to another stage of this season", t.ID)
		}
	}
	return tournaments, nil
}

// takenTournamentIDs lists tournament ids already claimed by stages of the
// season, optionally ignoring one stage.
func (s *Service) takenTournamentIDs(ctx context.Context, seasonID uuid.UUID, excludeStageID *uuid.UUID) ([]uuid.UUID, error) {
	query := s.db.WithContext(ctx).
		Table("stage_tournaments").
		Joins("JOIN stages ON stages.id = stage_tournaments.stage_id").
		Where("stages.season_id = ?", seasonID)
	if excludeStageID != nil {
		query = query.Where("stages.id <> ?", *excludeStageID)
	}

	var ids []uuid.UUID
	err := query.Pluck("stage_tournaments.tournament_id", &ids).Error
	return ids, err
}

func toInterfaces(tournaments []models.Tournament) []interface{} {
	out := make([]interface{}, 0, len(tournaments))
	for i := range tournaments {
		out = append(out, &tournaments[i])
	}
	return out
}
