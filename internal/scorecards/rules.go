package scorecards

import (
	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/models"
)

// The status state machine, expressed as pure predicates over a loaded card:
//
//	IN_PROGRESS  -> DELIVERED     every hole scored
//	IN_PROGRESS  -> CANCELLED     only while incomplete
//	any          -> DISQUALIFIED
//	DISQUALIFIED -> DELIVERED     if complete and previously delivered
//	DISQUALIFIED -> IN_PROGRESS   otherwise

func canDeliver(card *models.Scorecard) error {
	if card.Status != models.ScorecardStatusInProgress {
		return apperrors.InvalidState("scorecard %s is %s and cannot be delivered", card.ID, card.Status)
	}
	if !isComplete(card) {
		return apperrors.InvalidState("scorecard %s has holes without scores", card.ID)
	}
	return nil
}

func canCancel(card *models.Scorecard) error {
	if card.Status != models.ScorecardStatusInProgress {
		return apperrors.InvalidState("scorecard %s is %s and cannot be cancelled", card.ID, card.Status)
	}
	if isComplete(card) {
		return apperrors.InvalidState("scorecard %s is complete and must be delivered, not cancelled", card.ID)
	}
	return nil
}

func canDisqualify(card *models.Scorecard) error {
	if card.Status == models.ScorecardStatusDisqualified {
		return apperrors.InvalidState("scorecard %s is already disqualified", card.ID)
	}
	return nil
}

func canReinstate(card *models.Scorecard) error {
	if card.Status != models.ScorecardStatusDisqualified {
		return apperrors.InvalidState("scorecard %s is %s, only disqualified cards can be reinstated", card.ID, card.Status)
	}
	return nil
}

// reinstateTarget picks the status a disqualified card returns to: DELIVERED
// when it was complete and had actually been delivered, IN_PROGRESS in every
// other case.
func reinstateTarget(card *models.Scorecard) models.ScorecardStatus {
	if isComplete(card) && card.DeliveredAt != nil {
		return models.ScorecardStatusDelivered
	}
	return models.ScorecardStatusInProgress
}

// canEdit guards score entry and marker changes.
func canEdit(card *models.Scorecard) error {
	if card.Status != models.ScorecardStatusInProgress {
		return apperrors.InvalidState("scorecard %s is %s and no longer accepts changes", card.ID, card.Status)
	}
	return nil
}

// isComplete reports whether every hole row has player strokes. A card with
// no hole rows is never complete.
func isComplete(card *models.Scorecard) bool {
	if len(card.HoleScores) == 0 {
		return false
	}
	for _, hs := range card.HoleScores {
		if hs.PlayerStrokes == nil {
			return false
		}
	}
	return true
}
