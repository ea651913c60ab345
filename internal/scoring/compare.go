// compare.go holds the building blocks for the ranking tie-break chains.
//
// Every ranking in this package (Frutales delivered rank, Frutales final
// position, stage ranking, playoff ranking) is a cascade of near-identical
// "sort by X, missing values last" steps. Expressing each cascade as one
// ordered list of field comparators keeps the chains textually distinct but
// structurally uniform, and lets each step be tested in isolation.
package scoring

// Comparator orders two values: negative means a ranks before b.
type Comparator[T any] func(a, b T) int

// Chain combines comparators left to right; the first non-zero result decides.
func Chain[T any](cmps ...Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		for _, cmp := range cmps {
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// ByFloat orders by a nullable float key. A nil key sorts last regardless of
// direction; desc=true reverses the order of present values only.
func ByFloat[T any](key func(T) *float64, desc bool) Comparator[T] {
	return func(a, b T) int {
		va, vb := key(a), key(b)
		if c, decided := compareNils(va == nil, vb == nil); decided {
			return c
		}
		switch {
		case *va < *vb:
			return ascOrDesc(-1, desc)
		case *va > *vb:
			return ascOrDesc(1, desc)
		default:
			return 0
		}
	}
}

// ByInt orders by a nullable int key, nil last.
func ByInt[T any](key func(T) *int, desc bool) Comparator[T] {
	return func(a, b T) int {
		va, vb := key(a), key(b)
		if c, decided := compareNils(va == nil, vb == nil); decided {
			return c
		}
		switch {
		case *va < *vb:
			return ascOrDesc(-1, desc)
		case *va > *vb:
			return ascOrDesc(1, desc)
		default:
			return 0
		}
	}
}

// ByString orders by a string key, ascending.
func ByString[T any](key func(T) string) Comparator[T] {
	return func(a, b T) int {
		va, vb := key(a), key(b)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		default:
			return 0
		}
	}
}

// ByBool orders entries whose key is true before those whose key is false.
func ByBool[T any](key func(T) bool) Comparator[T] {
	return func(a, b T) int {
		va, vb := key(a), key(b)
		if va == vb {
			return 0
		}
		if va {
			return -1
		}
		return 1
	}
}

// compareNils resolves the nil cases of a nullable comparison: any present
// value beats a missing one. decided is false when both values are present.
func compareNils(aNil, bNil bool) (c int, decided bool) {
	switch {
	case aNil && bNil:
		return 0, true
	case aNil:
		return 1, true
	case bNil:
		return -1, true
	default:
		return 0, false
	}
}

func ascOrDesc(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}

// missingHoleStrokes is the stroke count assumed for a hole without a
// recorded score during countback comparison.
const missingHoleStrokes = 99

// countback is the hole-by-hole tie-break: compare strokes from the
// highest-numbered hole downward; lower strokes on the first differing hole
// wins. Holes without a recorded score count as 99 strokes.
func countback(a, b *playerRoundData) int {
	start := a.maxHole
	if b.maxHole > start {
		start = b.maxHole
	}
	for hole := start; hole >= 1; hole-- {
		sa, oka := a.strokesByHole[hole]
		if !oka {
			sa = missingHoleStrokes
		}
		sb, okb := b.strokesByHole[hole]
		if !okb {
			sb = missingHoleStrokes
		}
		if sa != sb {
			if sa < sb {
				return -1
			}
			return 1
		}
	}
	return 0
}
