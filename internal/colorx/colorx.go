// Package colorx implements the Color value object (C3): the six card
// colors plus Colorless/Unknown, their bit encoding, the cost-string
// parser, and the CSS gradient projection consumed by presentation
// layers outside this module's scope.
package colorx

import (
	"fmt"
	"strings"
)

// Color is one of the six WIXOSS card colors, Colorless, or Unknown.
type Color int

const (
	White Color = iota
	Blue
	Red
	Black
	Green
	Colorless
	Unknown
)

func (c Color) String() string {
	switch c {
	case White:
		return "白"
	case Blue:
		return "青"
	case Red:
		return "赤"
	case Black:
		return "黒"
	case Green:
		return "緑"
	case Colorless:
		return "無"
	default:
		return "?"
	}
}

// fromText maps every accepted textual form (lowercase ascii, uppercase
// ascii, single kanji) to its Color. Unrecognized input yields Unknown,
// never an error — §7 "Unknown color characters are silently ignored."
var fromText = map[string]Color{
	"w": White, "W": White, "白": White,
	"u": Blue, "U": Blue, "青": Blue,
	"r": Red, "R": Red, "赤": Red,
	"b": Black, "B": Black, "黒": Black,
	"g": Green, "G": Green, "緑": Green,
	"l": Colorless, "L": Colorless, "無": Colorless,
}

// FromText resolves one textual token to a Color, defaulting to Unknown.
func FromText(s string) Color {
	if c, ok := fromText[s]; ok {
		return c
	}
	return Unknown
}

// ToBit returns this color's position in the 32-bit color mask.
func (c Color) ToBit() uint32 {
	switch c {
	case White:
		return 1 << 1
	case Blue:
		return 1 << 2
	case Red:
		return 1 << 3
	case Black:
		return 1 << 4
	case Green:
		return 1 << 5
	case Colorless:
		return 1 << 6
	default:
		return 1 << 7
	}
}

// cssCode is used only by BitsToGradient, a pure projection consumed by
// presentation layers outside this module's scope (spec.md §4.3).
func (c Color) cssCode() string {
	switch c {
	case White:
		return "#fff1b4"
	case Blue:
		return "#b4ceff"
	case Red:
		return "#ffb4b4"
	case Black:
		return "rgb(176, 150, 255)"
	case Green:
		return "#ccffb4"
	case Colorless:
		return "#cfcfcf"
	default:
		return "#ffffff"
	}
}

// Colors is an ordered multiset of Color, as read off a multi-color
// cell split on <br>.
type Colors []Color

// FromChars splits a string into one Color per rune, defaulting
// unrecognized runes to Unknown.
func FromChars(s string) Colors {
	out := make(Colors, 0, len(s))
	for _, r := range s {
		out = append(out, FromText(string(r)))
	}
	return out
}

// ToBitset ORs every color's bit into a single 32-bit mask.
func (cs Colors) ToBitset() uint32 {
	var bits uint32
	for _, c := range cs {
		bits |= c.ToBit()
	}
	return bits
}

// FromBits returns every color whose bit is set, in canonical
// White/Blue/Red/Black/Green/Colorless order.
func FromBits(bits uint32) Colors {
	var out Colors
	for _, c := range []Color{White, Blue, Red, Black, Green, Colorless} {
		if bits&c.ToBit() != 0 {
			out = append(out, c)
		}
	}
	return out
}

// BitsToGradient projects a color bitset to a CSS background declaration:
// a flat background-color for a single color, or a linear-gradient
// across evenly spaced stops for multiple colors. Returns "" for an
// empty bitset. This is a pure presentation helper; it is not consumed
// by the filter or index and exists only because spec.md §4.3 names it
// as part of this value object's surface.
func BitsToGradient(bits uint32) string {
	colors := FromBits(bits)
	if len(colors) == 0 {
		return ""
	}
	if len(colors) == 1 {
		return fmt.Sprintf("background-color: %s;", colors[0].cssCode())
	}

	const offset = 10
	width := (100 - offset*2) / (len(colors) - 1)

	stops := make([]string, len(colors))
	for i, c := range colors {
		stops[i] = fmt.Sprintf("%s %d%%", c.cssCode(), i*width+offset)
	}
	return fmt.Sprintf("background: linear-gradient(to right, %s);", strings.Join(stops, ","))
}

// fullToHalfDigits maps fullwidth digits to their ASCII equivalent, used
// by ParseCost to read the count following a color icon.
var fullToHalfDigits = map[rune]rune{
	'０': '0', '１': '1', '２': '2', '３': '3', '４': '4',
	'５': '5', '６': '6', '７': '7', '８': '8', '９': '9',
}

var colorGlyphToLetter = map[string]byte{
	"白": 'w',
	"青": 'u',
	"赤": 'r',
	"黒": 'k',
	"緑": 'g',
	"無": 'l',
	"?": 'x',
}

// ParseCost reads the vendor's icon-markup cost cell, shaped as
// "《色》×N" repeated once per color (e.g. "《白》×３《無》×１"), and
// returns the normalized "letter+count" concatenation spec.md §3
// describes ("cost (textual, normalized: color symbol + count,
// concatenated)"). An unrecognized color glyph is a parse error; callers
// fall back to the raw string rather than panicking, per §4.4's
// never-panic policy.
func ParseCost(raw string) (string, error) {
	var b strings.Builder
	runes := []rune(raw)
	i := 0
	for i < len(runes) {
		if runes[i] != '《' {
			i++
			continue
		}
		i++
		start := i
		for i < len(runes) && runes[i] != '》' {
			i++
		}
		if i >= len(runes) {
			return "", fmt.Errorf("unterminated color icon in cost string %q", raw)
		}
		glyph := string(runes[start:i])
		i++ // skip 》

		var letter byte
		if strings.Contains(glyph, "コイン") {
			letter = 'c'
		} else if l, ok := colorGlyphToLetter[glyph]; ok {
			letter = l
		} else {
			return "", fmt.Errorf("unexpected color glyph %q in cost string %q", glyph, raw)
		}

		if i >= len(runes) || runes[i] != '×' {
			return "", fmt.Errorf("expected '×' after color glyph in cost string %q", raw)
		}
		i++

		var count strings.Builder
		for i < len(runes) {
			r := runes[i]
			if half, ok := fullToHalfDigits[r]; ok {
				r = half
			}
			if r < '0' || r > '9' {
				break
			}
			count.WriteRune(r)
			i++
		}
		if count.Len() == 0 {
			return "", fmt.Errorf("missing count after color glyph in cost string %q", raw)
		}

		b.WriteByte(letter)
		b.WriteString(count.String())
	}
	return b.String(), nil
}
