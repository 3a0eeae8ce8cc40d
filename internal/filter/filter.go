// Package filter implements the Filter & Search Engine (C10): an
// in-memory predicate composition over the emitted index that picks
// out the matching subset of cards. Every predicate field is optional
// (its zero value passes every card); populated predicates are
// conjunctive across categories, per spec.md §4.10's predicate table.
//
// Grounded on original_source/datapack/src/lib.rs's filter_* family
// (filter_by_power_range_native, filter_by_class_bits, etc.), each of
// which independently narrows a Vec<CardExport> — reimplemented here
// as a single Query struct whose Apply method folds every active
// predicate over one pass of the index in product-sort-then-code
// order, matching spec.md §5's declared result ordering.
package filter

import (
	"strconv"

	"github.com/cardindex/wxdex/internal/index"
	"github.com/cardindex/wxdex/internal/textsearch"
)

// PowerRange narrows cards by numeric power, per spec.md §4.10 and
// original_source/datapack/src/lib.rs's filter_by_power_range_native:
// an empty power or "-" never matches, "∞" matches only when
// IncludeInfinity is set, and an unparseable power never matches.
type PowerRange struct {
	Min             *int
	Max             *int
	IncludeInfinity bool
}

func (r PowerRange) matches(power string) bool {
	if power == "" || power == "-" {
		return false
	}
	if power == "∞" {
		return r.IncludeInfinity
	}
	v, err := strconv.Atoi(power)
	if err != nil {
		return false
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Burst is the tri-state burst predicate: 0 passes every card, 1
// requires HasBurst==1, 2 requires HasBurst==2.
type Burst int

const (
	BurstAny   Burst = 0
	BurstHas   Burst = 1
	BurstEmpty Burst = 2
)

// Query composes every C10 predicate. A nil/zero field always passes;
// set only the fields a caller's filter descriptor actually requests.
type Query struct {
	ColorMask    uint32
	FeatureBits1 uint64
	FeatureBits2 uint64
	CardTypes    map[int]struct{}
	Products     map[string]struct{}
	Levels       map[string]struct{}
	KlassMask    uint64
	Powers       map[string]struct{}
	PowerRange   *PowerRange
	BurstState   Burst
	Text         string
}

func levelString(l *int64) string {
	if l == nil {
		return ""
	}
	return strconv.FormatInt(*l, 10)
}

func (q Query) matchesOne(c index.Card, text textsearch.Query) bool {
	if q.ColorMask != 0 && c.Color&q.ColorMask != q.ColorMask {
		return false
	}
	if q.FeatureBits1 != 0 && c.FeatureBits1&q.FeatureBits1 != q.FeatureBits1 {
		return false
	}
	if q.FeatureBits2 != 0 && c.FeatureBits2&q.FeatureBits2 != q.FeatureBits2 {
		return false
	}
	if len(q.CardTypes) > 0 {
		if _, ok := q.CardTypes[c.CardType]; !ok {
			return false
		}
	}
	if len(q.Products) > 0 {
		if _, ok := q.Products[c.Product]; !ok {
			return false
		}
	}
	if len(q.Levels) > 0 {
		if _, ok := q.Levels[levelString(c.Level)]; !ok {
			return false
		}
	}
	if q.KlassMask != 0 && c.KlassBits&q.KlassMask == 0 {
		return false
	}
	if len(q.Powers) > 0 {
		if _, ok := q.Powers[c.Power]; !ok {
			return false
		}
	}
	if q.PowerRange != nil && !q.PowerRange.matches(c.Power) {
		return false
	}
	switch q.BurstState {
	case BurstHas:
		if c.HasBurst != 1 {
			return false
		}
	case BurstEmpty:
		if c.HasBurst != 2 {
			return false
		}
	}
	if len(text.Keywords) > 0 {
		fields := map[textsearch.Field]string{
			textsearch.FieldName:          c.Name,
			textsearch.FieldCode:          c.Code,
			textsearch.FieldPronunciation: c.Pronunciation,
		}
		if !text.Matches(fields) {
			return false
		}
	}
	return true
}

// Apply scans cards in order and returns every card matching every
// active predicate. Input order (product sort then code, per §5) is
// preserved since the scan never reorders.
func (q Query) Apply(cards []index.Card) []index.Card {
	text := textsearch.NewQuery(q.Text)

	out := make([]index.Card, 0, len(cards))
	for _, c := range cards {
		if q.matchesOne(c, text) {
			out = append(out, c)
		}
	}
	return out
}
