// Package classify buckets listing attributes into ordered categories.
//
// Every classifier is an ordered table of closed-open upper bounds: a value v
// maps to the first bucket whose bound is greater than v, and values at or
// above the last bound map to the overflow category. The buckets therefore
// cover [0, inf) with no gaps or overlaps.
package classify

import (
	"fmt"

	"github.com/Veraticus/bnb-insights/internal/common"
)

// Bound pairs an exclusive upper bound with the category below it.
type Bound[C any] struct {
	Category C
	Below    int
}

// Table is an ordered threshold table over non-negative integers.
type Table[C any] struct {
	overflow C
	bounds   []Bound[C]
}

// NewTable builds a table from strictly increasing positive bounds.
func NewTable[C any](bounds []Bound[C], overflow C) (*Table[C], error) {
	prev := 0
	for i, b := range bounds {
		if b.Below <= prev {
			return nil, fmt.Errorf("%w: bound %d (%d) must be greater than %d", common.ErrInvalidConfig, i, b.Below, prev)
		}
		prev = b.Below
	}
	return &Table[C]{
		bounds:   append([]Bound[C](nil), bounds...),
		overflow: overflow,
	}, nil
}

// Lookup returns the category for v.
func (t *Table[C]) Lookup(v int) (C, error) {
	if v < 0 {
		var zero C
		return zero, fmt.Errorf("%w: negative value %d", common.ErrInvalidInput, v)
	}
	for _, b := range t.bounds {
		if v < b.Below {
			return b.Category, nil
		}
	}
	return t.overflow, nil
}

// Bounds returns a copy of the table's bounds.
func (t *Table[C]) Bounds() []Bound[C] {
	return append([]Bound[C](nil), t.bounds...)
}

// withUppers replaces the bound values of a default table, keeping its
// categories. len(uppers) must match the number of bounds.
func withUppers[C any](defaults []Bound[C], uppers []int) ([]Bound[C], error) {
	if len(uppers) != len(defaults) {
		return nil, fmt.Errorf("%w: expected %d bounds, got %d", common.ErrInvalidConfig, len(defaults), len(uppers))
	}
	out := make([]Bound[C], len(defaults))
	for i, b := range defaults {
		out[i] = Bound[C]{Category: b.Category, Below: uppers[i]}
	}
	return out, nil
}
