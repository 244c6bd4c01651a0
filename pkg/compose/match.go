package compose

import (
	"fmt"

	"github.com/goliatone/go-formport/pkg/diag"
)

// MatchPairs pairs the list and item halves of each repeating section by
// section name. Descriptors with any other role pass through as standalone
// sections in input order. A half whose counterpart never appears, a half
// without a section name, and a duplicate half for an already-taken slot are
// all reported as unmatched with an UnmatchedPair event; none of them reach
// the pair list.
//
// Pairs come back in the order their first half appeared. A pair is
// top-level exactly when its halves declare no enclosing parent section.
func MatchPairs(descriptors []Descriptor, sink diag.Sink) Match {
	var match Match

	type slot struct {
		list, item *Descriptor
		order      int
	}
	slots := make(map[string]*slot)
	sections := make([]string, 0)

	for i := range descriptors {
		desc := descriptors[i]
		if desc.Role != RoleList && desc.Role != RoleItem {
			match.Standalone = append(match.Standalone, desc)
			continue
		}
		if desc.Section == "" {
			match.Unmatched = append(match.Unmatched, desc)
			diag.Emit(sink, diag.Event{
				Kind:     diag.KindUnmatchedPair,
				Fragment: string(desc.Fragment),
				Detail:   fmt.Sprintf("%s fragment %q has no section name", desc.Role, desc.Fragment),
			})
			continue
		}

		s := slots[desc.Section]
		if s == nil {
			s = &slot{order: len(sections)}
			slots[desc.Section] = s
			sections = append(sections, desc.Section)
		}

		taken := s.list
		if desc.Role == RoleItem {
			taken = s.item
		}
		if taken != nil {
			match.Unmatched = append(match.Unmatched, desc)
			diag.Emit(sink, diag.Event{
				Kind:     diag.KindUnmatchedPair,
				Fragment: string(desc.Fragment),
				Section:  desc.Section,
				Detail:   fmt.Sprintf("section %q already has a %s fragment (%q); %q ignored", desc.Section, desc.Role, taken.Fragment, desc.Fragment),
			})
			continue
		}

		if desc.Role == RoleList {
			s.list = &descriptors[i]
		} else {
			s.item = &descriptors[i]
		}
	}

	for _, name := range sections {
		s := slots[name]
		switch {
		case s.list != nil && s.item != nil:
			match.Pairs = append(match.Pairs, Pair{
				Section:  name,
				List:     s.list.Fragment,
				Item:     s.item.Fragment,
				TopLevel: pairParent(s.list, s.item) == "",
				Sequence: minSequence(s.list, s.item),
			})
		case s.list != nil:
			match.Unmatched = append(match.Unmatched, *s.list)
			emitMissingHalf(sink, *s.list, RoleItem)
		case s.item != nil:
			match.Unmatched = append(match.Unmatched, *s.item)
			emitMissingHalf(sink, *s.item, RoleList)
		}
	}

	return match
}

// pairParent resolves the enclosing section for a matched pair. The list
// half's declaration wins; the item half only fills in when the list is
// silent, so a parent recorded on either side keeps the pair nested.
func pairParent(list, item *Descriptor) string {
	if list.Parent != "" {
		return list.Parent
	}
	return item.Parent
}

func minSequence(list, item *Descriptor) int {
	if item.Sequence < list.Sequence {
		return item.Sequence
	}
	return list.Sequence
}

func emitMissingHalf(sink diag.Sink, half Descriptor, missing Role) {
	diag.Emit(sink, diag.Event{
		Kind:     diag.KindUnmatchedPair,
		Fragment: string(half.Fragment),
		Section:  half.Section,
		Detail:   fmt.Sprintf("section %q has a %s fragment but no %s counterpart", half.Section, half.Role, missing),
	})
}
