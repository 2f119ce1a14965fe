package layout

import (
	"github.com/carelayer/scanform/pkg/recognition"
)

// Match pairs a describing element with the input it labels. Exactly one of
// the two sides may be nil: a label with no input stands alone, and an input
// no label claimed becomes a standalone field.
type Match struct {
	Label *recognition.Element
	Input *recognition.Element
}

// Source returns the element a synthesized field should derive from: the
// label when present, otherwise the input.
func (m Match) Source() *recognition.Element {
	if m.Label != nil {
		return m.Label
	}
	return m.Input
}

// MatchRow pairs the labels of one row with its inputs by nearest Euclidean
// distance between box origins. Labels claim inputs in row order and an input
// once claimed is out of reach for later labels. Checkbox, radio, and select
// elements carry their own caption and pass through unpaired, in row order;
// inputs left unclaimed trail the output in row order.
func MatchRow(row Row) []Match {
	var (
		matches []Match
		inputs  []*recognition.Element
		claimed []bool
	)
	for i := range row.Elements {
		el := &row.Elements[i]
		if isInputKind(el.Kind) {
			inputs = append(inputs, el)
			claimed = append(claimed, false)
		}
	}

	for i := range row.Elements {
		el := &row.Elements[i]
		switch {
		case el.Kind == recognition.KindLabel:
			matches = append(matches, Match{Label: el, Input: claimNearest(el, inputs, claimed)})
		case isInputKind(el.Kind):
			// Claimed or standalone, resolved after the labels.
		default:
			matches = append(matches, Match{Label: el})
		}
	}

	for i, input := range inputs {
		if !claimed[i] {
			matches = append(matches, Match{Input: input})
		}
	}
	return matches
}

// MatchRows concatenates per-row matches in row order.
func MatchRows(rows []Row) []Match {
	var matches []Match
	for _, row := range rows {
		matches = append(matches, MatchRow(row)...)
	}
	return matches
}

func isInputKind(kind recognition.ElementKind) bool {
	return kind == recognition.KindInput || kind == recognition.KindText
}

func claimNearest(label *recognition.Element, inputs []*recognition.Element, claimed []bool) *recognition.Element {
	best := -1
	bestDist := 0.0
	for i, input := range inputs {
		if claimed[i] {
			continue
		}
		dist := label.Box.Origin().Distance(input.Box.Origin())
		if best < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	if best < 0 {
		return nil
	}
	claimed[best] = true
	return inputs[best]
}
