package compose

import (
	"fmt"
	"math"
	"sort"

	"github.com/goliatone/go-formport/pkg/diag"
)

// orderScale spaces sequence-derived keys past any authored row number, so a
// fragment without a known position always lands after every positioned one
// while unknowns keep their relative source order. Sequences count from
// zero; the extra step keeps sequence zero off the authored-row range.
const orderScale = 10000

// orderLast is the terminal key for a pair with no derivable position at
// all: guaranteed last place, never silent loss.
const orderLast = math.MaxInt32

// positioned is one area awaiting its place, tagged with where its content
// first appeared in the source so ties keep first-seen order.
type positioned struct {
	area Area
	seen int
}

// BuildAreas assigns every matched entry an order key, sorts, and returns
// the composed area list. Keys come from the row index when a position is
// independently known: the smallest authored row for a standalone fragment,
// the declared starting row for a pair's section, falling back to the
// smallest authored row of either half. A standalone fragment with no known
// row orders by its sequence position instead; a pair with no position at
// all takes the terminal key and an UnresolvedOrderKey event. Ties keep
// first-seen order.
//
// The area count always equals len(match.Standalone) + len(match.Pairs):
// ordering never loses an entry.
func BuildAreas(match Match, rows *RowIndex, sink diag.Sink) []Area {
	entries := make([]positioned, 0, len(match.Standalone)+len(match.Pairs))

	for _, desc := range match.Standalone {
		entries = append(entries, positioned{
			area: Area{
				Kind:     AreaSingle,
				Fragment: desc.Fragment,
				OrderKey: standaloneKey(desc, rows),
			},
			seen: desc.Sequence,
		})
	}
	for _, pair := range match.Pairs {
		entries = append(entries, positioned{
			area: Area{
				Kind:     AreaPair,
				Section:  pair.Section,
				List:     pair.List,
				Item:     pair.Item,
				TopLevel: pair.TopLevel,
				Members:  memberOrder(pair),
				OrderKey: pairKey(pair, rows, sink),
			},
			seen: pair.Sequence,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].area.OrderKey != entries[j].area.OrderKey {
			return entries[i].area.OrderKey < entries[j].area.OrderKey
		}
		return entries[i].seen < entries[j].seen
	})

	areas := make([]Area, len(entries))
	for i, entry := range entries {
		areas[i] = entry.area
	}
	return areas
}

// memberOrder lays out a pair's halves for display. The item fragment leads
// a top-level section: it is the user-visible surface, with the list behind
// it as backing data. A nested section leads with the list, matching the
// drill-down flow that reveals it.
func memberOrder(pair Pair) []FragmentRef {
	if pair.TopLevel {
		return []FragmentRef{pair.Item, pair.List}
	}
	return []FragmentRef{pair.List, pair.Item}
}

func standaloneKey(desc Descriptor, rows *RowIndex) int {
	if row, ok := rows.FragmentRow(desc.Fragment); ok {
		return row
	}
	return (desc.Sequence + 1) * orderScale
}

func pairKey(pair Pair, rows *RowIndex, sink diag.Sink) int {
	if row, ok := rows.SectionRow(pair.Section); ok {
		return row
	}

	key := orderLast
	if row, ok := rows.FragmentRow(pair.List); ok && row < key {
		key = row
	}
	if row, ok := rows.FragmentRow(pair.Item); ok && row < key {
		key = row
	}
	if key == orderLast {
		diag.Emit(sink, diag.Event{
			Kind:    diag.KindUnresolvedOrderKey,
			Section: pair.Section,
			Detail:  fmt.Sprintf("no position known for section %q; composite placed last", pair.Section),
		})
	}
	return key
}
