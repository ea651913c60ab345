package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pair struct {
	f *float64
	i *int
	s string
	b bool
}

func TestChain_FirstNonZeroDecides(t *testing.T) {
	primary := ByFloat(func(p pair) *float64 { return p.f }, false)
	secondary := ByString(func(p pair) string { return p.s })
	chain := Chain(primary, secondary)

	tests := []struct {
		name string
		a, b pair
		want int
	}{
		{"primary decides", pair{f: fptr(1), s: "z"}, pair{f: fptr(2), s: "a"}, -1},
		{"falls through to secondary", pair{f: fptr(1), s: "a"}, pair{f: fptr(1), s: "b"}, -1},
		{"full tie", pair{f: fptr(1), s: "a"}, pair{f: fptr(1), s: "a"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chain(tt.a, tt.b))
		})
	}
}

func TestByFloat(t *testing.T) {
	asc := ByFloat(func(p pair) *float64 { return p.f }, false)
	desc := ByFloat(func(p pair) *float64 { return p.f }, true)

	tests := []struct {
		name string
		cmp  Comparator[pair]
		a, b pair
		want int
	}{
		{"ascending lower first", asc, pair{f: fptr(70)}, pair{f: fptr(72)}, -1},
		{"ascending higher last", asc, pair{f: fptr(75)}, pair{f: fptr(72)}, 1},
		{"descending higher first", desc, pair{f: fptr(75)}, pair{f: fptr(72)}, -1},
		{"equal", asc, pair{f: fptr(72)}, pair{f: fptr(72)}, 0},
		{"nil sorts last ascending", asc, pair{f: nil}, pair{f: fptr(99)}, 1},
		{"nil sorts last descending too", desc, pair{f: nil}, pair{f: fptr(1)}, 1},
		{"both nil tie", asc, pair{f: nil}, pair{f: nil}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmp(tt.a, tt.b))
		})
	}
}

func TestByInt(t *testing.T) {
	desc := ByInt(func(p pair) *int { return p.i }, true)

	assert.Equal(t, -1, desc(pair{i: iptr(12)}, pair{i: iptr(10)}))
	assert.Equal(t, 1, desc(pair{i: iptr(8)}, pair{i: iptr(10)}))
	assert.Equal(t, 0, desc(pair{i: iptr(10)}, pair{i: iptr(10)}))
	assert.Equal(t, 1, desc(pair{i: nil}, pair{i: iptr(0)}), "nil sorts last even descending")
}

func TestByBool_TrueFirst(t *testing.T) {
	cmp := ByBool(func(p pair) bool { return p.b })

	assert.Equal(t, -1, cmp(pair{b: true}, pair{b: false}))
	assert.Equal(t, 1, cmp(pair{b: false}, pair{b: true}))
	assert.Equal(t, 0, cmp(pair{b: true}, pair{b: true}))
}

func roundData(maxHole int, strokes map[int]int) *playerRoundData {
	return &playerRoundData{strokesByHole: strokes, maxHole: maxHole}
}

func TestCountback(t *testing.T) {
	tests := []struct {
		name string
		a, b *playerRoundData
		want int
	}{
		{
			name: "highest hole decides",
			a:    roundData(9, map[int]int{9: 4, 8: 6}),
			b:    roundData(9, map[int]int{9: 5, 8: 3}),
			want: -1,
		},
		{
			name: "walks down on ties",
			a:    roundData(9, map[int]int{9: 4, 8: 5}),
			b:    roundData(9, map[int]int{9: 4, 8: 4}),
			want: 1,
		},
		{
			name: "missing hole counts as worst",
			a:    roundData(9, map[int]int{9: 4}),
			b:    roundData(9, map[int]int{9: 4, 8: 7}),
			want: 1,
		},
		{
			name: "identical cards tie",
			a:    roundData(9, map[int]int{9: 4, 8: 4}),
			b:    roundData(9, map[int]int{9: 4, 8: 4}),
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countback(tt.a, tt.b))
		})
	}
}
