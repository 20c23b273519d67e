package domain

// BoundaryRow pairs an inclusive lower bound with the label it selects.
type BoundaryRow[T any] struct {
	LowerBound float64
	Value      T
}

// BoundaryTable is an ordered threshold ladder: rows sorted by LowerBound
// descending, evaluated top-down, first match wins. Encoding phase, tier and
// urgency ladders as data keeps every boundary testable in one place.
type BoundaryTable[T any] struct {
	rows     []BoundaryRow[T]
	fallback T
}

// NewBoundaryTable builds a table from rows ordered by LowerBound descending.
// The fallback is returned when no row's lower bound is met.
func NewBoundaryTable[T any](fallback T, rows ...BoundaryRow[T]) BoundaryTable[T] {
	return BoundaryTable[T]{rows: rows, fallback: fallback}
}

// Lookup returns the value of the first row whose lower bound the score meets.
func (t BoundaryTable[T]) Lookup(score float64) T {
	for _, row := range t.rows {
		if score >= row.LowerBound {
			return row.Value
		}
	}
	return t.fallback
}
