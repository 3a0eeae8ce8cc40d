// Package ruleengine turns a card's raw skill-text HTML blocks into
// normalized skill lines plus the features those lines imply (C5).
package ruleengine

import (
	"regexp"
	"strings"

	"github.com/cardindex/wxdex/internal/rules"
	"github.com/cardindex/wxdex/internal/taxonomy"
)

var (
	gainskillOpen  = regexp.MustCompile(`<div class="card_ability_add_border">`)
	gainskillClose = regexp.MustCompile(`(<br>)?\n?</div>`)
	brTag          = regexp.MustCompile(`<br\s?>`)
)

// wrapGainSkill rewrites an "ability granted by another effect" block
// into a <gainskill> pseudotag on a line of its own, so the line split
// below sees the grant as a separate line instead of an opaque <div>.
func wrapGainSkill(html string) string {
	wrapped := gainskillOpen.ReplaceAllString(html, "\n<gainskill>")
	wrapped = strings.ReplaceAll(wrapped, "</div>", "</gainskill>\n")
	return gainskillClose.ReplaceAllString(wrapped, "</gainskill>")
}

// Result is one skill-text source's outcome: the normalized lines split
// into ordinary skill text and life-burst text, the features any
// normal line implied, and the features any life-burst line implied
// (these land in the canonical card's separate feature_bits and
// burst_bits words, per spec.md §3).
type Result struct {
	Normal        []string
	Burst         []string
	Features      taxonomy.FeatureSet
	BurstFeatures taxonomy.FeatureSet
}

// Run applies the rule bank to every raw HTML skill block in source,
// in order. On each line the bank's Remove rules run first, in bank
// order, and the remaining detect rules run after them, in bank order.
// A single card's lines are processed sequentially because Remove
// rules rewrite the line a later rule may also need to match.
func Run(source []string, bank []rules.Rule) Result {
	res := Result{Features: taxonomy.NewFeatureSet(), BurstFeatures: taxonomy.NewFeatureSet()}

	for _, block := range source {
		wrapped := wrapGainSkill(block)
		normalized := brTag.ReplaceAllString(wrapped, "\n")

		for _, raw := range strings.Split(normalized, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}

			isBurst := false
			var lineFeatures []taxonomy.Feature
			for _, removePass := range []bool{true, false} {
				for _, r := range bank {
					if r.Remove != removePass {
						continue
					}
					out, matched := r.Apply(line)
					if !matched {
						continue
					}
					line = out
					for _, f := range r.Features {
						lineFeatures = append(lineFeatures, f)
						if f == taxonomy.LifeBurst {
							isBurst = true
						}
					}
				}
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if isBurst {
				res.Burst = append(res.Burst, line)
				for _, f := range lineFeatures {
					res.BurstFeatures[f] = struct{}{}
				}
			} else {
				res.Normal = append(res.Normal, line)
				for _, f := range lineFeatures {
					res.Features[f] = struct{}{}
				}
			}
		}
	}

	return res
}

// HasBurst reports whether any line carried the life-burst sentinel.
func (r Result) HasBurst() bool {
	return len(r.Burst) > 0
}
