package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fergarri/golf-tournament-app/internal/models"
)

func holeScore(number, par int, strokes *int) models.HoleScore {
	return models.HoleScore{
		Hole:          models.Hole{Number: number, Par: par},
		PlayerStrokes: strokes,
	}
}

func TestGrossScore(t *testing.T) {
	tests := []struct {
		name         string
		holes        []models.HoleScore
		wantGross    int
		wantComplete bool
	}{
		{
			name:         "all holes scored",
			holes:        []models.HoleScore{holeScore(1, 4, iptr(5)), holeScore(2, 3, iptr(3))},
			wantGross:    8,
			wantComplete: true,
		},
		{
			name:         "missing hole makes incomplete",
			holes:        []models.HoleScore{holeScore(1, 4, iptr(5)), holeScore(2, 3, nil)},
			wantGross:    5,
			wantComplete: false,
		},
		{
			name:         "no holes is incomplete",
			holes:        nil,
			wantGross:    0,
			wantComplete: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross, complete := GrossScore(tt.holes)
			assert.Equal(t, tt.wantGross, gross)
			assert.Equal(t, tt.wantComplete, complete)
		})
	}
}

func TestAggregateScore(t *testing.T) {
	holes := []models.HoleScore{
		holeScore(1, 4, iptr(5)),
		holeScore(2, 3, iptr(4)),
		holeScore(3, 5, nil),
	}

	t.Run("with handicap", func(t *testing.T) {
		card := &models.Scorecard{HandicapCourse: fptr(2)}
		agg := AggregateScore(card, holes)

		assert.Equal(t, 9, agg.Gross)
		assert.Equal(t, 7.0, agg.Net)
		// par counts only the scored holes
		assert.Equal(t, 7, agg.TotalPar)
		assert.Equal(t, 0.0, agg.ScoreToPar)
	})

	t.Run("missing handicap counts as zero", func(t *testing.T) {
		card := &models.Scorecard{}
		agg := AggregateScore(card, holes)

		assert.Equal(t, 9.0, agg.Net)
		assert.Equal(t, 2.0, agg.ScoreToPar)
	})
}

func TestCategoryFor(t *testing.T) {
	categories := []models.TournamentCategory{
		{ID: uuid.New(), Name: "Primera", HandicapMin: 0, HandicapMax: 9.9},
		{ID: uuid.New(), Name: "Segunda", HandicapMin: 10, HandicapMax: 18},
	}

	tests := []struct {
		name     string
		handicap *float64
		want     *string
	}{
		{"inside first bracket", fptr(5), &categories[0].Name},
		{"lower bound inclusive", fptr(0), &categories[0].Name},
		{"upper bound inclusive", fptr(18), &categories[1].Name},
		{"between brackets matches second", fptr(10), &categories[1].Name},
		{"outside all brackets", fptr(25), nil},
		{"nil handicap", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategoryFor(tt.handicap, categories)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.NotNil(t, got)
			assert.Equal(t, *tt.want, got.Name)
		})
	}
}

func TestTallyAchievements(t *testing.T) {
	holes := []models.HoleScore{
		holeScore(1, 3, iptr(1)), // ace, not an eagle even though par-2
		holeScore(2, 5, iptr(3)), // eagle
		holeScore(3, 4, iptr(3)), // birdie
		holeScore(4, 4, iptr(4)), // par, nothing
		holeScore(5, 4, nil),     // unscored, skipped
	}

	a := TallyAchievements(holes)

	assert.Equal(t, 1, a.Aces)
	assert.Equal(t, 1, a.Eagles)
	assert.Equal(t, 1, a.Birdies)
}
