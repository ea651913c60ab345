// Package scoring implements the tournament scoring and ranking engines:
// per-tournament leaderboards, Frutales points tables, stage aggregation and
// the season playoff ranking. All four are synchronous batch computations
// over the persistence layer; every recompute is a full replace of the
// derived rows for its scope, so re-running after a late score correction is
// always safe and yields the same result.
package scoring

import (
	"github.com/fergarri/golf-tournament-app/internal/models"
)

// AggregatedScore is the computed scoring summary of one scorecard.
type AggregatedScore struct {
	Gross      int     // Sum of recorded player strokes
	Net        float64 // Gross minus course handicap
	TotalPar   int     // Sum of pars over the holes that have a recorded score
	ScoreToPar float64 // Net minus TotalPar
}

// GrossScore sums the recorded player strokes of a card. Holes without a
// player stroke contribute nothing; complete reports whether every hole has
// one.
func GrossScore(holeScores []models.HoleScore) (gross int, complete bool) {
	complete = len(holeScores) > 0
	for _, hs := range holeScores {
		if hs.PlayerStrokes == nil {
			complete = false
			continue
		}
		gross += *hs.PlayerStrokes
	}
	return gross, complete
}

// AggregateScore computes gross, net and score-to-par for a scorecard. A
// missing course handicap is treated as zero. Pure function of its inputs.
func AggregateScore(card *models.Scorecard, holeScores []models.HoleScore) AggregatedScore {
	gross, _ := GrossScore(holeScores)

	handicap := 0.0
	if card.HandicapCourse != nil {
		handicap = *card.HandicapCourse
	}

	totalPar := 0
	for _, hs := range holeScores {
		if hs.PlayerStrokes != nil {
			totalPar += hs.Hole.Par
		}
	}

	net := float64(gross) - handicap
	return AggregatedScore{
		Gross:      gross,
		Net:        net,
		TotalPar:   totalPar,
		ScoreToPar: net - float64(totalPar),
	}
}

// CategoryFor returns the category whose inclusive [HandicapMin, HandicapMax]
// range contains the given course handicap, or nil when no category matches.
// No match is a normal outcome, never an error.
func CategoryFor(handicapCourse *float64, categories []models.TournamentCategory) *models.TournamentCategory {
	if handicapCourse == nil {
		return nil
	}
	for i := range categories {
		c := &categories[i]
		if *handicapCourse >= c.HandicapMin && *handicapCourse <= c.HandicapMax {
			return c
		}
	}
	return nil
}

// Achievements counts the bonus-scoring results on a card.
type Achievements struct {
	Birdies int
	Eagles  int
	Aces    int
}

// TallyAchievements classifies each scored hole. The three results are
// mutually exclusive per hole, checked in priority order: ace (1 stroke),
// then eagle (par − 2), then birdie (par − 1). Holes without a recorded
// player stroke are skipped.
func TallyAchievements(holeScores []models.HoleScore) Achievements {
	var a Achievements
	for _, hs := range holeScores {
		if hs.PlayerStrokes == nil {
			continue
		}
		strokes := *hs.PlayerStrokes
		par := hs.Hole.Par
		switch {
		case strokes == 1:
			a.Aces++
		case strokes == par-2:
			a.Eagles++
		case strokes == par-1:
			a.Birdies++
		}
	}
	return a
}
