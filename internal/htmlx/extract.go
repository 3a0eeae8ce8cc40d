// Package htmlx resolves a card detail page's layout variant and reads
// its `.cardData dd` cells into a flat Record, using the slot map each
// variant's own markup commits to (C4).
package htmlx

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Record is every field any variant can populate. A variant that
// doesn't use a given slot leaves the corresponding field at its zero
// value, per §4.4's "positions they ignore are simply not read" policy.
type Record struct {
	No       string
	Name     string
	Pronounce string
	Artist   string
	Rarity   string
	CardType CardType

	Klass   string
	Color   string
	Level   string
	Cost    string
	Limit   string
	LimitEx string
	Power   string
	User    string
	Timing  []string
	Format  string
	Story   string

	SkillBlocksHTML []string
}

// slots declares which `.cardData dd` index (see cardtype.go's
// resolveCardType table) feeds which Record field for one variant.
// -1 means the variant never reads that slot.
type slots struct {
	klass, color, level, cost, limit, limitEx, power, user, timing, format, story int
}

const absent = -1

var variantSlots = map[CardType]slots{
	Lrig:        {klass: absent, color: 2, level: 3, cost: 4, limit: 6, limitEx: absent, power: absent, user: 1, timing: absent, format: 10, story: 11},
	LrigAssist:  {klass: absent, color: 2, level: 3, cost: 4, limit: 6, limitEx: absent, power: absent, user: 1, timing: 9, format: 10, story: 11},
	Arts:        {klass: absent, color: 2, level: absent, cost: 5, limit: absent, limitEx: absent, power: absent, user: 1, timing: 9, format: 10, story: 11},
	ArtsCraft:   {klass: absent, color: 2, level: absent, cost: 5, limit: absent, limitEx: absent, power: absent, user: 1, timing: 9, format: 10, story: 11},
	Key:         {klass: absent, color: 2, level: absent, cost: 5, limit: absent, limitEx: absent, power: absent, user: 8, timing: 9, format: 10, story: 11},
	Signi:       {klass: 1, color: 2, level: 3, cost: absent, limit: absent, limitEx: 6, power: 7, user: 8, timing: absent, format: 10, story: 11},
	SigniCraft:  {klass: 1, color: 2, level: 3, cost: absent, limit: absent, limitEx: 6, power: 7, user: 8, timing: absent, format: 10, story: 11},
	Resona:      {klass: 1, color: 2, level: 3, cost: 5, limit: absent, limitEx: 6, power: 7, user: 8, timing: 9, format: 10, story: 11},
	ResonaCraft: {klass: 1, color: 2, level: 3, cost: 5, limit: absent, limitEx: 6, power: 7, user: 8, timing: 9, format: 10, story: 11},
	Spell:       {klass: absent, color: 2, level: absent, cost: 5, limit: absent, limitEx: absent, power: absent, user: 8, timing: absent, format: 10, story: 11},
	SpellCraft:  {klass: absent, color: 2, level: absent, cost: 5, limit: absent, limitEx: absent, power: absent, user: 8, timing: absent, format: 10, story: 11},
	Piece:       {klass: absent, color: 2, level: absent, cost: 5, limit: absent, limitEx: absent, power: absent, user: 8, timing: 9, format: 10, story: 11},
	PieceCraft:  {klass: absent, color: 2, level: absent, cost: 5, limit: absent, limitEx: absent, power: absent, user: 8, timing: 9, format: 10, story: 11},
	PieceRelay:  {klass: absent, color: 2, level: absent, cost: 5, limit: absent, limitEx: absent, power: absent, user: 8, timing: 9, format: 10, story: 11},
	Token:       {klass: absent, color: 2, level: absent, cost: absent, limit: absent, limitEx: absent, power: absent, user: absent, timing: absent, format: absent, story: absent},
}

var (
	headBracket = regexp.MustCompile(`^＜`)
	imgAltTag   = regexp.MustCompile(`<img[^>]*alt="([^"]*)"[^>]*>`)
	brVariant   = regexp.MustCompile(`<br\s*/?>`)
)

// canonicalBreaks normalizes every void-element break marker goquery's
// s.Html() can hand back (x/net/html always serializes <br> as "<br/>",
// never the source markup's "<br />") to a single "<br>" form, so every
// downstream string match sees one spelling regardless of how the DOM
// serializer rendered it.
func canonicalBreaks(html string) string {
	return brVariant.ReplaceAllString(html, "<br>")
}

// Extract parses one card detail page's raw HTML into a Record. Every
// read is defensive: a missing selector yields a zero-value field
// rather than an error, matching §4.4's never-panic policy — the one
// exception is a dd[0] variant cell wholly absent from the document,
// reported as an error since nothing downstream can proceed without it.
func Extract(rawHTML string) (Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Record{}, fmt.Errorf("htmlx: parse document: %w", err)
	}

	dd := doc.Find(".cardData dd").Map(func(_ int, s *goquery.Selection) string {
		html, _ := s.Html()
		return canonicalBreaks(html)
	})
	if len(dd) == 0 {
		return Record{}, fmt.Errorf("htmlx: no .cardData dd cells found")
	}

	ct := resolveCardType(dd[0])
	spec, ok := variantSlots[ct]
	if !ok {
		return Record{CardType: Unknown}, nil
	}

	no := firstHTML(doc, ".cardNum", "unknown")
	rarity := firstHTML(doc, ".cardRarity", "unknown rarity")
	artist := firstHTML(doc, ".cardImg p span", "unknown artist")

	nameHTML := firstHTML(doc, ".cardName", "")
	name, pronounce := splitNameAndPronounce(nameHTML)

	rec := Record{
		No:        no,
		Name:      name,
		Pronounce: pronounce,
		Artist:    artist,
		Rarity:    rarity,
		CardType:  ct,
	}

	rec.Klass = cellAt(dd, spec.klass)
	rec.Color = cellAt(dd, spec.color)
	rec.Level = cellAt(dd, spec.level)
	rec.Cost = flattenBreak(cellAt(dd, spec.cost))
	rec.Limit = cellAt(dd, spec.limit)
	rec.LimitEx = cellAt(dd, spec.limitEx)
	rec.Power = cellAt(dd, spec.power)
	rec.User = cellAt(dd, spec.user)
	rec.Format = cellAt(dd, spec.format)
	rec.Story = parseStory(cellAt(dd, spec.story))
	if spec.timing != absent {
		rec.Timing = splitByBreak(cellAt(dd, spec.timing))
	}

	rec.SkillBlocksHTML = doc.Find(".cardSkill").Map(func(_ int, s *goquery.Selection) string {
		html, _ := s.Html()
		return canonicalBreaks(html)
	})

	return rec, nil
}

func firstHTML(doc *goquery.Document, selector, fallback string) string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		slog.With("selector", selector).Warn("htmlx: selector not found, using fallback")
		return fallback
	}
	html, err := sel.Html()
	if err != nil {
		slog.With("selector", selector).Warn(fmt.Sprintf("htmlx: serialize selection: %v", err))
		return fallback
	}
	return canonicalBreaks(html)
}

func cellAt(dd []string, idx int) string {
	if idx == absent || idx < 0 || idx >= len(dd) {
		return ""
	}
	return dd[idx]
}

// splitNameAndPronounce reads the name cell's text preceding its first
// <br>, and the reading given in its nested <span>, stripping the
// leading "＜" the source markup wraps klass-style names in.
func splitNameAndPronounce(nameHTML string) (name, pronounce string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + nameHTML + "</div>"))
	if err != nil {
		slog.Warn(fmt.Sprintf("htmlx: parse name fragment: %v", err))
		return "", ""
	}
	root := doc.Find("div").First()

	root.Contents().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "br" {
			return false
		}
		if goquery.NodeName(s) == "#text" && name == "" {
			name = s.Text()
		}
		return true
	})
	name = headBracket.ReplaceAllString(strings.TrimSpace(name), "")

	if span := root.Find("span").First(); span.Length() > 0 {
		pronounce = strings.TrimSpace(span.Text())
	}
	return name, pronounce
}

// parseStory reports the classic "ディソナ" story marker when the cell
// carries the source's story-image class, and "" otherwise.
func parseStory(html string) string {
	if strings.Contains(html, `class="cardData_story_img"`) {
		return "ディソナ"
	}
	return ""
}

// splitByBreak breaks a cell listing several values across <br> tags
// into one string per value.
func splitByBreak(html string) []string {
	html = strings.ReplaceAll(html, "\n", "")
	if html == "" {
		return nil
	}
	return strings.Split(html, "<br>")
}

// flattenBreak collapses a cell whose value is broken across <br> tags
// back into a single contiguous string (used for cost, which reads as
// one icon-markup run regardless of how the source wraps it visually).
func flattenBreak(html string) string {
	html = strings.ReplaceAll(html, "\n", "")
	return strings.ReplaceAll(html, "<br>", "")
}

// ReplaceImgWithAlt substitutes every inline icon <img alt="..."> with
// its alt text, correcting the vendor markup's malformed doubled-glyph
// alt attributes (e.g. alt="白2》" meaning simply "白》") along the way.
// This runs once per skill block before the rule bank sees it.
func ReplaceImgWithAlt(html string) string {
	return imgAltTag.ReplaceAllStringFunc(html, func(m string) string {
		sub := imgAltTag.FindStringSubmatch(m)
		if len(sub) < 2 {
			return m
		}
		return strings.ReplaceAll(sub[1], "2》", "》")
	})
}
