// Package analyze is the Analyzer Pipeline (C8): it orchestrates the
// HTML extractor (C4) and rule engine (C5) over one raw card row,
// resolves klass/color/timing/format value objects, applies admin
// feature overrides, and upserts the canonical card row.
//
// Grounded on ninesl/scryball's query.go InsertCardFromAPI — the same
// "convert, lock, upsert, fetch back" shape, generalized from a single
// API-card conversion to this system's multi-stage extract→classify
// flow.
package analyze

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cardindex/wxdex/internal/colorx"
	"github.com/cardindex/wxdex/internal/format"
	"github.com/cardindex/wxdex/internal/htmlx"
	"github.com/cardindex/wxdex/internal/klass"
	"github.com/cardindex/wxdex/internal/ruleengine"
	"github.com/cardindex/wxdex/internal/rules"
	"github.com/cardindex/wxdex/internal/store"
	"github.com/cardindex/wxdex/internal/timing"
)

const (
	sentinelSkill = "[SKILL_TEXT_EXTRACTED]"
	sentinelBurst = "[LIFE_BURST_TEXT_EXTRACTED]"
)

// Analyzer runs the per-card analysis pipeline against a Store. It
// keeps an in-memory view of the klass table so repeated klass tokens
// within a batch reuse the same bit position without a round trip per
// card (spec.md §4.3's append-only sort_asc assignment).
type Analyzer struct {
	Store *store.Store
	Bank  []rules.Rule

	klassByCat1 map[string]klass.Klass
	nextSortAsc int
}

// New loads the existing klass table from st and returns a ready
// Analyzer.
func New(ctx context.Context, st *store.Store, bank []rules.Rule) (*Analyzer, error) {
	rows, err := st.ListKlasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyze: load klass table: %w", err)
	}

	a := &Analyzer{Store: st, Bank: bank, klassByCat1: make(map[string]klass.Klass, len(rows))}
	for _, r := range rows {
		k := klass.Klass{ID: r.ID, Cat1: r.Cat1, Cat2: r.Cat2, Cat3: r.Cat3, SortAsc: r.SortAsc}
		a.klassByCat1[r.Cat1] = k
		if r.SortAsc >= a.nextSortAsc {
			a.nextSortAsc = r.SortAsc + 1
		}
	}
	return a, nil
}

var klassSplit = regexp.MustCompile(`[／/、,]+`)

func splitKlassTokens(raw string) []string {
	var out []string
	for _, tok := range klassSplit.Split(raw, -1) {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// resolveKlasses upserts every klass token present in raw and returns
// the card's klass_bits plus the klass ids to join against.
func (a *Analyzer) resolveKlasses(ctx context.Context, raw string) (uint64, []int64, error) {
	var bits uint64
	var ids []int64
	for _, tok := range splitKlassTokens(raw) {
		k, ok := a.klassByCat1[tok]
		if !ok {
			k = klass.Klass{Cat1: tok, SortAsc: a.nextSortAsc}
			id, err := a.Store.UpsertKlass(ctx, store.KlassParams{Cat1: tok, SortAsc: k.SortAsc})
			if err != nil {
				return 0, nil, fmt.Errorf("analyze: upsert klass %q: %w", tok, err)
			}
			k.ID = id
			a.klassByCat1[tok] = k
			a.nextSortAsc++
		}
		bits |= k.Bit()
		ids = append(ids, k.ID)
	}
	return bits, ids, nil
}

// canCarryBurst reports whether card_type can ever have life-burst
// text, per spec.md §3's has_burst tri-state rule.
func canCarryBurst(ct htmlx.CardType) bool {
	switch ct {
	case htmlx.Signi, htmlx.SigniCraft, htmlx.Spell, htmlx.SpellCraft:
		return true
	default:
		return false
	}
}

func parseOptionalInt(s string) sql.NullInt64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullInt64{}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}

// sentinelizeRawHTML replaces each extracted skill block's HTML with a
// sentinel marker, so the raw_cards.raw_html column doesn't duplicate
// text already broken out into skill_text_extracted/
// burst_text_extracted (spec.md §4.7).
func sentinelizeRawHTML(rawHTML string, blocks []string, hasBurst bool) string {
	sentinel := sentinelSkill
	if hasBurst {
		sentinel = sentinelSkill + "\n" + sentinelBurst
	}
	cleaned := rawHTML
	for _, b := range blocks {
		if b == "" {
			continue
		}
		cleaned = strings.Replace(cleaned, b, sentinel, 1)
	}
	return cleaned
}

// AnalyzeOne runs the full pipeline over one raw row, upserts the
// resulting canonical card, and marks the raw row analyzed. Any error
// here leaves the raw row unanalyzed so the caller can record it via
// Store.MarkRawCardFailed and retry on a later pass.
func (a *Analyzer) AnalyzeOne(ctx context.Context, raw store.RawCard) error {
	rec, err := htmlx.Extract(raw.RawHTML)
	if err != nil {
		return fmt.Errorf("analyze: extract %s: %w", raw.Code, err)
	}
	if rec.CardType == htmlx.Unknown {
		return fmt.Errorf("analyze: %s resolved to an unknown card type", raw.Code)
	}

	color := colorx.FromChars(rec.Color).ToBitset()
	klassBits, klassIDs, err := a.resolveKlasses(ctx, rec.Klass)
	if err != nil {
		return err
	}
	timingSet := timing.FromCells(rec.Timing)
	cardFormat := format.Detect(raw.RawHTML)

	blocks := make([]string, len(rec.SkillBlocksHTML))
	for i, b := range rec.SkillBlocksHTML {
		blocks[i] = htmlx.ReplaceImgWithAlt(b)
	}
	result := ruleengine.Run(blocks, a.Bank)

	bits := result.Features.ToBits()
	burstBits := result.BurstFeatures.ToBits().Word1 | result.BurstFeatures.ToBits().Word2

	hasBurst := 0
	if result.HasBurst() {
		hasBurst = 1
	} else if canCarryBurst(rec.CardType) {
		hasBurst = 2
	}

	if override, err := a.Store.FeatureOverrideByPronunciation(ctx, rec.Pronounce); err == nil {
		bits.Word1 = override.FixedBits1
		bits.Word2 = override.FixedBits2
		burstBits = override.FixedBurstBits
	} else if err != sql.ErrNoRows {
		return fmt.Errorf("analyze: feature override lookup for %q: %w", rec.Pronounce, err)
	}

	skillText := strings.Join(result.Normal, "\n")
	burstText := strings.Join(result.Burst, "\n")

	cost := rec.Cost
	if parsed, err := colorx.ParseCost(rec.Cost); err == nil && parsed != "" {
		cost = parsed
	}

	cardID, err := a.Store.UpsertCard(ctx, store.CardParams{
		Code:          raw.Code,
		Pronunciation: rec.Pronounce,
		Name:          rec.Name,
		Artist:        rec.Artist,
		Rarity:        rec.Rarity,
		Story:         rec.Story,
		CardType:      int(rec.CardType),
		Color:         color,
		KlassBits:     klassBits,
		Level:         parseOptionalInt(rec.Level),
		LimitCount:    parseOptionalInt(rec.Limit),
		LimitEx:       parseOptionalInt(rec.LimitEx),
		Power:         rec.Power,
		Cost:          cost,
		TimingBits:    uint8(timingSet),
		UserText:      rec.User,
		Format:        int(cardFormat),
		HasBurst:      hasBurst,
		SkillText:     skillText,
		BurstText:     burstText,
		FeatureBits1:  bits.Word1,
		FeatureBits2:  bits.Word2,
		BurstBits:     burstBits,
		ProductID:     raw.ProductID,
	})
	if err != nil {
		return fmt.Errorf("analyze: upsert canonical card %s: %w", raw.Code, err)
	}

	if err := a.Store.AssignCardKlasses(ctx, cardID, klassIDs); err != nil {
		return fmt.Errorf("analyze: assign klasses for %s: %w", raw.Code, err)
	}

	cleaned := sentinelizeRawHTML(raw.RawHTML, rec.SkillBlocksHTML, result.HasBurst())
	if err := a.Store.UpdateRawCardExtractedText(ctx, raw.Code, cleaned, skillText, burstText); err != nil {
		return fmt.Errorf("analyze: store extracted text for %s: %w", raw.Code, err)
	}

	if err := a.Store.MarkRawCardAnalyzed(ctx, raw.Code, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("analyze: mark %s analyzed: %w", raw.Code, err)
	}

	return nil
}
