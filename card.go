package wxdex

import (
	"time"

	"github.com/cardindex/wxdex/internal/colorx"
	"github.com/cardindex/wxdex/internal/htmlx"
	"github.com/cardindex/wxdex/internal/index"
	"github.com/cardindex/wxdex/internal/taxonomy"
	"github.com/cardindex/wxdex/internal/timing"
)

// Card embeds one emitted index row and adds the bit-decoding methods a
// caller of Filter/Search actually wants, rather than making them mask
// arithmetic themselves.
//
// Grounded on ninesl/scryball's MagicCard (embeds *client.Card, adds
// Printings and the DB-to-domain conversion helpers) — the same
// embed-and-extend shape, generalized from a wrapped API response to a
// wrapped flat index row.
type Card struct {
	index.Card
}

// Colors decodes the card's color bitset into its component Colors.
func (c Card) Colors() colorx.Colors {
	return colorx.FromBits(c.Color)
}

// CardType decodes the card's numeric card-type into its symbolic type.
func (c Card) CardType() htmlx.CardType {
	return htmlx.CardType(c.Card.CardType)
}

// Features decodes the card's two-word feature bitset into its
// component Features.
func (c Card) Features() []taxonomy.Feature {
	return taxonomy.FromBits(c.FeatureBits1, c.FeatureBits2)
}

// BurstFeatures decodes the card's life-burst-only feature bitset. It
// is only meaningful when HasBurst is 1 (spec.md §3's tri-state rule).
func (c Card) BurstFeatures() []taxonomy.Feature {
	return taxonomy.FromBits(c.BurstBits, 0)
}

// Timings decodes the card's timing bitset into its component Timings.
func (c Card) Timings() []timing.Timing {
	return timing.Set(c.Card.Timing).All()
}

// HasLevel reports whether the card carries a level value at all (a
// card type with no level slot, such as Spell, Arts or Key, has a nil
// Level rather than zero).
func (c Card) HasLevel() bool {
	return c.Level != nil
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
