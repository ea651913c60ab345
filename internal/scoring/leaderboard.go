package scoring

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fergarri/golf-tournament-app/internal/apperrors"
	"github.com/fergarri/golf-tournament-app/internal/models"
)

// LeaderboardEntry is one row of a tournament leaderboard. Score fields are
// nil unless the player's card was delivered. No position is assigned here:
// rank numbering is a presentation concern, scoped by the caller to whatever
// category filter is in effect, so the same computation serves both the
// whole-field and per-category views.
type LeaderboardEntry struct {
	ScorecardID    *uuid.UUID             `json:"scorecard_id"`
	InscriptionID  uuid.UUID              `json:"inscription_id"`
	PlayerID       uuid.UUID              `json:"player_id"`
	PlayerName     string                 `json:"player_name"`
	Matricula      string                 `json:"matricula"`
	ClubOrigin     *string                `json:"club_origin"`
	CategoryID     *uuid.UUID             `json:"category_id"`
	CategoryName   *string                `json:"category_name"`
	HandicapCourse *float64               `json:"handicap_course"`
	Gross          *int                   `json:"score_gross"`
	Net            *float64               `json:"score_net"`
	TotalPar       *int                   `json:"total_par"`
	ScoreToPar     *float64               `json:"score_to_par"`
	Status         models.ScorecardStatus `json:"status"`
	Delivered      bool                   `json:"delivered"`
	Paid           bool                   `json:"paid"`
}

// LeaderboardEngine produces the ranked/unranked view of all inscribed
// players in a single tournament. Read-only; persists nothing.
type LeaderboardEngine struct {
	store Store
	log   *logrus.Logger
}

func NewLeaderboardEngine(store Store, log *logrus.Logger) *LeaderboardEngine {
	return &LeaderboardEngine{store: store, log: log}
}

// Compute builds the leaderboard for a tournament: delivered cards first,
// sorted by net score ascending, then everyone else sorted by player name.
func (e *LeaderboardEngine) Compute(ctx context.Context, tournamentID uuid.UUID) ([]LeaderboardEntry, error) {
	return e.compute(ctx, e.store, tournamentID)
}

func (e *LeaderboardEngine) compute(ctx context.Context, st Store, tournamentID uuid.UUID) ([]LeaderboardEntry, error) {
	if _, err := st.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	categories, err := st.ListCategories(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	inscriptions, err := st.ListInscriptions(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	var withScores, withoutScores []LeaderboardEntry

	for i := range inscriptions {
		insc := &inscriptions[i]
		card, err := st.GetScorecard(ctx, tournamentID, insc.PlayerID)
		if err != nil {
			return nil, err
		}

		if card != nil && card.Status == models.ScorecardStatusDelivered {
			withScores = append(withScores, e.deliveredEntry(insc, card, categories))
		} else {
			withoutScores = append(withoutScores, e.pendingEntry(insc, card))
		}
	}

	sort.SliceStable(withScores, func(i, j int) bool {
		return *withScores[i].Net < *withScores[j].Net
	})
	sort.SliceStable(withoutScores, func(i, j int) bool {
		return withoutScores[i].PlayerName < withoutScores[j].PlayerName
	})

	return append(withScores, withoutScores...), nil
}

// deliveredEntry builds a full-score row. The category is re-derived from the
// card's course handicap on every computation rather than read from the
// inscription, so handicap corrections move players between categories.
func (e *LeaderboardEngine) deliveredEntry(insc *models.Inscription, card *models.Scorecard, categories []models.TournamentCategory) LeaderboardEntry {
	agg := AggregateScore(card, card.HoleScores)

	handicap := 0.0
	if card.HandicapCourse != nil {
		handicap = *card.HandicapCourse
	}

	entry := LeaderboardEntry{
		ScorecardID:    &card.ID,
		InscriptionID:  insc.ID,
		PlayerID:       insc.PlayerID,
		PlayerName:     insc.Player.FullName(),
		Matricula:      insc.Player.Matricula,
		ClubOrigin:     insc.Player.ClubOrigin,
		HandicapCourse: &handicap,
		Gross:          &agg.Gross,
		Net:            &agg.Net,
		TotalPar:       &agg.TotalPar,
		ScoreToPar:     &agg.ScoreToPar,
		Status:         models.ScorecardStatusDelivered,
		Delivered:      true,
		Paid:           insc.Paid,
	}

	if cat := CategoryFor(&handicap, categories); cat != nil {
		entry.CategoryID = &cat.ID
		entry.CategoryName = &cat.Name
	}
	return entry
}

// pendingEntry builds a row for a player without a delivered card. The
// inscription's category, if any, is shown as a fallback.
func (e *LeaderboardEngine) pendingEntry(insc *models.Inscription, card *models.Scorecard) LeaderboardEntry {
	entry := LeaderboardEntry{
		InscriptionID:  insc.ID,
		PlayerID:       insc.PlayerID,
		PlayerName:     insc.Player.FullName(),
		Matricula:      insc.Player.Matricula,
		ClubOrigin:     insc.Player.ClubOrigin,
		HandicapCourse: insc.HandicapCourse,
		Status:         models.ScorecardStatusInProgress,
		Paid:           insc.Paid,
	}

	if card != nil {
		entry.ScorecardID = &card.ID
		entry.Status = card.Status
		if entry.HandicapCourse == nil {
			entry.HandicapCourse = card.HandicapCourse
		}
	}

	if insc.Category != nil {
		entry.CategoryID = &insc.Category.ID
		entry.CategoryName = &insc.Category.Name
	}
	return entry
}

// UpdatePayments sets the paid flag for a batch of inscriptions. The two
// slices are parallel; a size mismatch or an inscription belonging to another
// tournament rejects the whole batch before anything is written.
func (e *LeaderboardEngine) UpdatePayments(ctx context.Context, tournamentID uuid.UUID, inscriptionIDs []uuid.UUID, paid []bool) error {
	if len(inscriptionIDs) != len(paid) {
		return apperrors.Inconsistency("inscription ids and paid values must have the same size (%d != %d)",
			len(inscriptionIDs), len(paid))
	}

	return e.store.Transact(ctx, func(tx Store) error {
		updates := make(map[uuid.UUID]bool, len(inscriptionIDs))
		for i, id := range inscriptionIDs {
			insc, err := tx.GetInscription(ctx, id)
			if err != nil {
				return err
			}
			if insc.TournamentID != tournamentID {
				return apperrors.Inconsistency("inscription %s does not belong to tournament %s", id, tournamentID)
			}
			updates[id] = paid[i]
		}

		if err := tx.SetInscriptionsPaid(ctx, updates); err != nil {
			return err
		}

		e.log.WithFields(logrus.Fields{
			"tournament_id": tournamentID,
			"updated":       len(updates),
		}).Info("payments updated")
		return nil
	})
}
