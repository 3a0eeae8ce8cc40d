// Package index is the Static Index Emitter (C9): it reads the
// canonical card table and projects every row into a flat, read-only
// Card tuple, carrying each card's stored klass bits and joining in
// its product code and source URL. The resulting slice is what the Filter & Search Engine
// (C10) holds in memory and scans.
//
// Grounded on original_source/datapack/src/lib.rs's flat 25-field
// tuple constant and shared/webapp/src/repositories/card.rs's
// klass_bits join (load every klass's bit position once, then OR in
// per card) — reimplemented here as an eager in-memory projection
// rather than a generated static array, since this system builds its
// index from a live store rather than a code-generation step.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/cardindex/wxdex/internal/format"
	"github.com/cardindex/wxdex/internal/store"
)

// Card is one row of the emitted index: the 25-tuple from spec.md §4.9,
// expressed as named fields instead of a positional tuple.
type Card struct {
	ID            int64
	Name          string
	Code          string
	Pronunciation string
	Color         uint32
	Cost          string
	Level         *int64
	Limit         *int64
	LimitEx       *int64
	Power         string
	HasBurst      int
	SkillText     string
	BurstText     string
	Format        format.Format
	Story         string
	Rarity        string
	URL           string
	CardType      int
	Product       string
	ProductSort   int
	Timing        uint8
	FeatureBits1  uint64
	FeatureBits2  uint64
	KlassBits     uint64
	BurstBits     uint64
	Ex1           string
}

func nullableInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// Build reads the canonical card table and every supporting join
// table in one pass, returning the emitted index sorted by product
// sort_asc and then by code, with IDs reassigned in that order. Cards
// are dropped by format only when filterByFormat is true; otherwise
// every card is emitted regardless of formatFilter.
func Build(ctx context.Context, st *store.Store, formatFilter format.Format, filterByFormat bool) ([]Card, error) {
	cards, err := st.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("index: list cards: %w", err)
	}
	urls, err := st.RawCardURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("index: list raw card urls: %w", err)
	}
	products, err := st.ProductCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("index: list product codes: %w", err)
	}
	productSorts, err := st.ProductSortAscs(ctx)
	if err != nil {
		return nil, fmt.Errorf("index: list product sort order: %w", err)
	}

	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if filterByFormat && format.Format(c.Format) != formatFilter {
			continue
		}

		out = append(out, Card{
			ID:            c.ID,
			Name:          c.Name,
			Code:          c.Code,
			Pronunciation: c.Pronunciation,
			Color:         c.Color,
			Cost:          c.Cost,
			Level:         nullableInt(c.Level),
			Limit:         nullableInt(c.LimitCount),
			LimitEx:       nullableInt(c.LimitEx),
			Power:         c.Power,
			HasBurst:      c.HasBurst,
			SkillText:     c.SkillText,
			BurstText:     c.BurstText,
			Format:        format.Format(c.Format),
			Story:         c.Story,
			Rarity:        c.Rarity,
			URL:           urls[c.Code],
			CardType:      c.CardType,
			Product:       products[c.ProductID],
			ProductSort:   productSorts[c.ProductID],
			Timing:        c.TimingBits,
			FeatureBits1:  c.FeatureBits1,
			FeatureBits2:  c.FeatureBits2,
			KlassBits:     c.KlassBits,
			BurstBits:     c.BurstBits,
			Ex1:           "",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProductSort != out[j].ProductSort {
			return out[i].ProductSort < out[j].ProductSort
		}
		return out[i].Code < out[j].Code
	})
	for i := range out {
		out[i].ID = int64(i)
	}
	return out, nil
}
