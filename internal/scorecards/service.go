// Package scorecards implements the scorecard lifecycle: creation with
// pre-filled hole rows, score entry, marker assignment, and the status state
// machine (deliver, cancel, disqualify, reinstate).
package scorecards

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/handicap"
	"github.com/fergarri/golf-tournament-app/internal/models"
)

type Service struct {
	db       *gorm.DB
	log      *logrus.Logger
	handicap *handicap.Service
}

func NewService(db *gorm.DB, log *logrus.Logger, handicap *handicap.Service) *Service {
	return &Service{db: db, log: log, handicap: handicap}
}

// HoleUpdate is one hole's strokes in a bulk score update. Nil fields leave
// the stored value untouched.
type HoleUpdate struct {
	HoleNumber    int  `json:"hole_number"`
	PlayerStrokes *int `json:"player_strokes"`
	MarkerStrokes *int `json:"marker_strokes"`
}

// GetOrCreate returns the player's card for the tournament, creating it on
// first access. Creation pre-fills one empty HoleScore row per course hole and
// snapshots the course handicap from the conversion table, so the card is
// self-contained from then on.
func (s *Service) GetOrCreate(ctx context.Context, tournamentID, playerID uuid.UUID) (*models.Scorecard, error) {
	var inscription models.Inscription
	err := s.db.WithContext(ctx).
		Where("tournament_id = ? AND player_id = ?", tournamentID, playerID).
		First(&inscription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InvalidState("player %s is not inscribed in tournament %s", playerID, tournamentID)
	}
	if err != nil {
		return nil, err
	}

	card, err := s.findCard(ctx, tournamentID, playerID)
	if err != nil {
		return nil, err
	}
	if card != nil {
		return card, nil
	}

	var tournament models.Tournament
	if err := s.db.WithContext(ctx).First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("tournament", tournamentID)
		}
		return nil, err
	}
	if tournament.Status == models.TournamentStatusFinalized {
		return nil, apperrors.InvalidState("tournament %s is finalized", tournamentID)
	}

	var holes []models.Hole
	if err := s.db.WithContext(ctx).
		Where("course_id = ?", tournament.CourseID).
		Order("number ASC").
		Find(&holes).Error; err != nil {
		return nil, err
	}
	if len(holes) == 0 {
		return nil, apperrors.Inconsistency("course %s has no holes configured", tournament.CourseID)
	}

	handicapCourse, err := s.resolveHandicap(ctx, &inscription, tournament.CourseID)
	if err != nil {
		return nil, err
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		newCard := models.Scorecard{
			TournamentID:   tournamentID,
			PlayerID:       playerID,
			HandicapCourse: handicapCourse,
			Status:         models.ScorecardStatusInProgress,
		}
		if err := tx.Create(&newCard).Error; err != nil {
			return err
		}
		holeScores := make([]models.HoleScore, 0, len(holes))
		for _, h := range holes {
			holeScores = append(holeScores, models.HoleScore{
				ScorecardID: newCard.ID,
				HoleID:      h.ID,
			})
		}
		return tx.Create(&holeScores).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.WithFields(logrus.Fields{
		"tournament_id": tournamentID,
		"player_id":     playerID,
	}).Info("scorecard created")

	return s.findCard(ctx, tournamentID, playerID)
}

// resolveHandicap picks the card's course handicap: the inscription's value
// wins when present; otherwise the player's handicap index is converted via
// the course's default tee. Either source missing means no handicap.
func (s *Service) resolveHandicap(ctx context.Context, inscription *models.Inscription, courseID uuid.UUID) (*float64, error) {
	if inscription.HandicapCourse != nil {
		v := *inscription.HandicapCourse
		return &v, nil
	}

	var player models.Player
	if err := s.db.WithContext(ctx).First(&player, "id = ?", inscription.PlayerID).Error; err != nil {
		return nil, err
	}
	if player.HandicapIndex == nil {
		return nil, nil
	}

	tee, err := s.handicap.DefaultTee(ctx, courseID)
	if err != nil || tee == nil {
		return nil, err
	}
	converted, err := s.handicap.CourseHandicap(ctx, tee.ID, *player.HandicapIndex)
	if err != nil || converted == nil {
		return nil, err
	}
	v := float64(*converted)
	return &v, nil
}

// UpdateScore records strokes for a single hole. Only IN_PROGRESS cards
// accept edits.
func (s *Service) UpdateScore(ctx context.Context, cardID uuid.UUID, update HoleUpdate) (*models.Scorecard, error) {
	return s.UpdateScores(ctx, cardID, []HoleUpdate{update})
}

// UpdateScores applies a batch of hole updates atomically.
func (s *Service) UpdateScores(ctx context.Context, cardID uuid.UUID, updates []HoleUpdate) (*models.Scorecard, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := canEdit(card); err != nil {
		return nil, err
	}

	byNumber := make(map[int]*models.HoleScore, len(card.HoleScores))
	for i := range card.HoleScores {
		byNumber[card.HoleScores[i].Hole.Number] = &card.HoleScores[i]
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			hs, ok := byNumber[u.HoleNumber]
			if !ok {
				return apperrors.InvalidState("hole %d does not exist on scorecard %s", u.HoleNumber, cardID)
			}
			changes := map[string]any{}
			if u.PlayerStrokes != nil {
				if *u.PlayerStrokes < 1 {
					return apperrors.InvalidState("strokes for hole %d must be positive", u.HoleNumber)
				}
				changes["player_strokes"] = *u.PlayerStrokes
			}
			if u.MarkerStrokes != nil {
				if *u.MarkerStrokes < 1 {
					return apperrors.InvalidState("marker strokes for hole %d must be positive", u.HoleNumber)
				}
				changes["marker_strokes"] = *u.MarkerStrokes
			}
			if len(changes) == 0 {
				continue
			}
			if err := tx.Model(&models.HoleScore{}).Where("id = ?", hs.ID).Updates(changes).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.getCard(ctx, cardID)
}

// AssignMarker sets the fellow competitor keeping the duplicate card. The
// marker must be inscribed in the same tournament and cannot be the player
// themselves.
func (s *Service) AssignMarker(ctx context.Context, cardID, markerID uuid.UUID) (*models.Scorecard, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := canEdit(card); err != nil {
		return nil, err
	}
	if markerID == card.PlayerID {
		return nil, apperrors.InvalidState("a player cannot mark their own card")
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.Inscription{}).
		Where("tournament_id = ? AND player_id = ?", card.TournamentID, markerID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperrors.InvalidState("marker %s is not inscribed in tournament %s", markerID, card.TournamentID)
	}

	if err := s.db.WithContext(ctx).Model(card).Update("marker_id", markerID).Error; err != nil {
		return nil, err
	}
	return s.getCard(ctx, cardID)
}

// Deliver closes the card. Every hole must have player strokes; delivery
// stamps DeliveredAt so a later reinstate can tell a delivered card from one
// that was still open.
func (s *Service) Deliver(ctx context.Context, cardID uuid.UUID) (*models.Scorecard, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := canDeliver(card); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Model(card).Updates(map[string]any{
		"status":       models.ScorecardStatusDelivered,
		"delivered_at": now,
	}).Error
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"scorecard_id":  cardID,
		"tournament_id": card.TournamentID,
	}).Info("scorecard delivered")

	return s.getCard(ctx, cardID)
}

// Cancel withdraws an unfinished card. A complete card must be delivered
// instead, so cancellation is rejected once every hole is scored.
func (s *Service) Cancel(ctx context.Context, cardID uuid.UUID) (*models.Scorecard, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := canCancel(card); err != nil {
		return nil, err
	}

	if err := s.setStatus(ctx, card, models.ScorecardStatusCancelled); err != nil {
		return nil, err
	}
	return s.getCard(ctx, cardID)
}

// Disqualify marks the card disqualified. Allowed from any state so a rules
// breach discovered after delivery is still actionable.
func (s *Service) Disqualify(ctx context.Context, cardID uuid.UUID) (*models.Scorecard, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := canDisqualify(card); err != nil {
		return nil, err
	}

	if err := s.setStatus(ctx, card, models.ScorecardStatusDisqualified); err != nil {
		return nil, err
	}
	return s.getCard(ctx, cardID)
}

// Reinstate reverses a disqualification. The card returns to DELIVERED when
// it was complete and had been delivered, otherwise back to IN_PROGRESS.
func (s *Service) Reinstate(ctx context.Context, cardID uuid.UUID) (*models.Scorecard, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := canReinstate(card); err != nil {
		return nil, err
	}

	if err := s.setStatus(ctx, card, reinstateTarget(card)); err != nil {
		return nil, err
	}
	return s.getCard(ctx, cardID)
}

// FinalizeTournament closes out the tournament: complete in-progress cards
// are delivered, incomplete ones cancelled, and the tournament itself is
// flipped to FINALIZED. Finalizing an already-finalized tournament is
// rejected.
func (s *Service) FinalizeTournament(ctx context.Context, tournamentID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tournament models.Tournament
		if err := tx.First(&tournament, "id = ?", tournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("tournament", tournamentID)
			}
			return err
		}
		if tournament.Status == models.TournamentStatusFinalized {
			return apperrors.InvalidState("tournament %s is already finalized", tournamentID)
		}

		var open []models.Scorecard
		err := tx.Preload("HoleScores").
			Where("tournament_id = ? AND status = ?", tournamentID, models.ScorecardStatusInProgress).
			Find(&open).Error
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		delivered, cancelled := 0, 0
		for i := range open {
			card := &open[i]
			if isComplete(card) {
				err = tx.Model(card).Updates(map[string]any{
					"status":       models.ScorecardStatusDelivered,
					"delivered_at": now,
				}).Error
				delivered++
			} else {
				err = tx.Model(card).Update("status", models.ScorecardStatusCancelled).Error
				cancelled++
			}
			if err != nil {
				return err
			}
		}

		if err := tx.Model(&tournament).Update("status", models.TournamentStatusFinalized).Error; err != nil {
			return err
		}

		s.log.WithFields(logrus.Fields{
			"tournament_id": tournamentID,
			"delivered":     delivered,
			"cancelled":     cancelled,
		}).Info("tournament finalized")
		return nil
	})
}

func (s *Service) setStatus(ctx context.Context, card *models.Scorecard, status models.ScorecardStatus) error {
	if err := s.db.WithContext(ctx).Model(card).Update("status", status).Error; err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"scorecard_id": card.ID,
		"status":       status,
	}).Info("scorecard status changed")
	return nil
}

func (s *Service) getCard(ctx context.Context, cardID uuid.UUID) (*models.Scorecard, error) {
	var card models.Scorecard
	err := s.db.WithContext(ctx).
		Preload("Player").
		Preload("Marker").
		Preload("HoleScores", func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN holes ON holes.id = hole_scores.hole_id").Order("holes.number ASC")
		}).
		Preload("HoleScores.Hole").
		First(&card, "id = ?", cardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("scorecard", cardID)
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *Service) findCard(ctx context.Context, tournamentID, playerID uuid.UUID) (*models.Scorecard, error) {
	var card models.Scorecard
	err := s.db.WithContext(ctx).
		Where("tournament_id = ? AND player_id = ?", tournamentID, playerID).
		First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.getCard(ctx, card.ID)
}
