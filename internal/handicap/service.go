// Package handicap resolves a player's course handicap from the per-tee
// conversion table. The conversion is read once, when a scorecard is created;
// the ranking engines only ever see the snapshot stored on the card.
package handicap

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fergarri/golf-tournament-app/internal/models"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CourseHandicap looks up the course handicap for a handicap index on the
// given tee. Returns (nil, nil) when the index falls outside every conversion
// row; the card is then created without a handicap and the player scores
// gross only.
func (s *Service) CourseHandicap(ctx context.Context, teeID uuid.UUID, handicapIndex float64) (*int, error) {
	var conv models.HandicapConversion
	err := s.db.WithContext(ctx).
		Where("tee_id = ? AND index_from <= ? AND index_to >= ?", teeID, handicapIndex, handicapIndex).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv.CourseHandicap, nil
}

// DefaultTee returns the course's first tee, used when a tournament does not
// pin a specific tee set.
func (s *Service) DefaultTee(ctx context.Context, courseID uuid.UUID) (*models.CourseTee, error) {
	var tee models.CourseTee
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("name ASC").
		First(&tee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tee, nil
}
