// Package layout clusters recognized elements into reading-order rows and
// pairs label elements with the inputs they describe. All distances assume
// the elements of one call share a single coordinate space; promote
// normalized boxes with recognition.Element.PixelBox before grouping.
package layout

import (
	"math"
	"sort"

	"github.com/carelayer/scanform/pkg/recognition"
)

// DefaultTolerance is the vertical distance, in box units, within which two
// elements are considered part of the same row.
const DefaultTolerance = 20.0

// Row is one horizontal cluster of elements, ordered left to right.
type Row struct {
	Elements []recognition.Element
}

// MeanTop returns the average top coordinate of the row's members.
func (r Row) MeanTop() float64 {
	if len(r.Elements) == 0 {
		return 0
	}
	sum := 0.0
	for _, el := range r.Elements {
		sum += el.Box.Top
	}
	return sum / float64(len(r.Elements))
}

// Grouper clusters one page's elements into rows.
type Grouper struct {
	tolerance float64
}

// GrouperOption configures a Grouper.
type GrouperOption func(*Grouper)

// WithTolerance overrides the row tolerance. Non-positive values keep the
// default.
func WithTolerance(tolerance float64) GrouperOption {
	return func(g *Grouper) {
		if tolerance > 0 {
			g.tolerance = tolerance
		}
	}
}

// NewGrouper builds a Grouper with the default tolerance unless overridden.
func NewGrouper(opts ...GrouperOption) *Grouper {
	g := &Grouper{tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GroupRows clusters elements into rows. Elements are considered in
// ascending top order so that row membership does not depend on input
// ordering; each element joins the first existing row whose running mean top
// lies within the tolerance, or starts a new row. Members of a row come back
// sorted ascending by left, equal lefts keeping their relative input order.
// The input slice is never modified.
func (g *Grouper) GroupRows(elements []recognition.Element) []Row {
	if len(elements) == 0 {
		return nil
	}

	ordered := make([]recognition.Element, len(elements))
	copy(ordered, elements)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Box.Top != ordered[j].Box.Top {
			return ordered[i].Box.Top < ordered[j].Box.Top
		}
		return ordered[i].Box.Left < ordered[j].Box.Left
	})

	type accum struct {
		members []recognition.Element
		topSum  float64
	}
	var rows []*accum

	for _, el := range ordered {
		placed := false
		for _, row := range rows {
			mean := row.topSum / float64(len(row.members))
			if math.Abs(el.Box.Top-mean) < g.tolerance {
				row.members = append(row.members, el)
				row.topSum += el.Box.Top
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, &accum{members: []recognition.Element{el}, topSum: el.Box.Top})
		}
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row.members, func(i, j int) bool {
			return row.members[i].Box.Left < row.members[j].Box.Left
		})
		out = append(out, Row{Elements: row.members})
	}
	return out
}
