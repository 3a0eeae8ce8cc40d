// Package textsearch implements the Japanese-aware text-search
// normalization and field-selection sub-algorithm of the Filter &
// Search Engine (C10): fullwidth/halfwidth and hiragana/katakana
// folding, whitespace collapse, keyword splitting, and input-type
// detection that picks which card fields a query is matched against.
//
// Grounded on original_source/datapack/src/text_search.rs's intent
// (normalize then classify then restrict fields) reimplemented with
// golang.org/x/text/width for the fullwidth/halfwidth fold, the same
// ecosystem library AKJUS-bsc-erigon pulls in for this exact class of
// text-normalization problem.
package textsearch

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// InputType classifies a normalized query string, selecting which
// card fields participate in matching.
type InputType int

const (
	Empty InputType = iota
	AlphaNumeric
	Katakana
	Hiragana
	Mixed
)

// hiraganaToKatakana shifts a hiragana rune into its katakana
// counterpart; the Unicode blocks are a fixed 0x60 offset apart.
func hiraganaToKatakana(r rune) rune {
	if r >= 0x3041 && r <= 0x3096 {
		return r + 0x60
	}
	return r
}

func isWhitespace(r rune) bool {
	return r == '　' || unicode.IsSpace(r)
}

// Normalize folds fullwidth alphanumerics to halfwidth, halfwidth
// katakana to fullwidth, hiragana to katakana, collapses every run of
// (halfwidth or fullwidth) whitespace to a single space, and trims.
func Normalize(s string) string {
	folded := width.Fold.String(s)

	var b strings.Builder
	b.Grow(len(folded))
	lastWasSpace := false
	for _, r := range folded {
		if isWhitespace(r) {
			if !lastWasSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			lastWasSpace = true
			continue
		}
		b.WriteRune(hiraganaToKatakana(r))
		lastWasSpace = false
	}
	return strings.TrimSpace(b.String())
}

// Keywords splits an already-normalized string on whitespace.
func Keywords(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

func isKatakanaRune(r rune) bool {
	return (r >= 0x30A1 && r <= 0x30FF) || r == 0x30FC
}

func isHiraganaRune(r rune) bool {
	return r >= 0x3041 && r <= 0x3096
}

// DetectType classifies a normalized (pre-split) query string.
func DetectType(normalized string) InputType {
	if normalized == "" {
		return Empty
	}

	var hasAlnum, hasKatakana, hasHiragana, hasOther bool
	for _, r := range normalized {
		if r == ' ' {
			continue
		}
		switch {
		case unicode.IsDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasAlnum = true
		case isKatakanaRune(r):
			hasKatakana = true
		case isHiraganaRune(r):
			hasHiragana = true
		default:
			hasOther = true
		}
	}

	switch {
	case hasOther || (hasAlnum && (hasKatakana || hasHiragana)) || (hasKatakana && hasHiragana):
		return Mixed
	case hasAlnum:
		return AlphaNumeric
	case hasKatakana:
		return Katakana
	case hasHiragana:
		return Hiragana
	default:
		return Mixed
	}
}

// Field names a card attribute text search can match against.
type Field int

const (
	FieldName Field = iota
	FieldCode
	FieldPronunciation
)

// ActiveFields returns which fields a query of the given type matches
// against, per spec.md §4.10 step 4.
func ActiveFields(t InputType) []Field {
	switch t {
	case AlphaNumeric:
		return []Field{FieldName, FieldCode}
	case Katakana, Hiragana:
		return []Field{FieldName, FieldPronunciation}
	case Mixed:
		return []Field{FieldName, FieldCode, FieldPronunciation}
	default: // Empty
		return []Field{FieldName, FieldCode, FieldPronunciation}
	}
}

// Query is a fully normalized, classified search query ready to match
// against cards.
type Query struct {
	Keywords []string
	Fields   []Field
}

// NewQuery normalizes raw, detects its type, and resolves its active
// field set.
func NewQuery(raw string) Query {
	normalized := Normalize(raw)
	return Query{
		Keywords: Keywords(normalized),
		Fields:   ActiveFields(DetectType(normalized)),
	}
}

// Matches reports whether every keyword in q appears in at least one
// of fieldValues' entries for q's active fields (both keyword and
// field values are normalized before comparison).
func (q Query) Matches(fieldValues map[Field]string) bool {
	if len(q.Keywords) == 0 {
		return true
	}

	normalizedFields := make([]string, 0, len(q.Fields))
	for _, f := range q.Fields {
		normalizedFields = append(normalizedFields, Normalize(fieldValues[f]))
	}

	for _, kw := range q.Keywords {
		found := false
		for _, fv := range normalizedFields {
			if strings.Contains(fv, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
