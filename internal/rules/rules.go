// Package rules holds the ordered rule bank (C2): regexes matched
// against a skill-text line, each pairing a textual rewrite with the
// taxonomy features that rewrite implies.
package rules

import (
	"fmt"
	"regexp"

	"github.com/cardindex/wxdex/internal/taxonomy"
)

// Rule is one (pattern, rewrite, features) row. When Remove is true the
// match is deleted from the line entirely (ReplaceWith is usually empty
// or a short sentinel like "LB:"); when false the match is left in
// place and ReplaceWith is not applied.
type Rule struct {
	Pattern     *regexp.Regexp
	Remove      bool
	ReplaceWith string
	Features    []taxonomy.Feature
}

// Apply runs the rule against line, returning the rewritten line and
// whether the rule matched at all (a miss contributes no features).
func (r Rule) Apply(line string) (string, bool) {
	if !r.Pattern.MatchString(line) {
		return line, false
	}
	if r.Remove {
		return r.Pattern.ReplaceAllString(line, r.ReplaceWith), true
	}
	return line, true
}

// mustRule compiles pattern once at package init. An invalid regex
// panics at init time rather than surfacing at analyze time, matching
// the "regexes compiled once at process start, a bad one fails the
// build" requirement.
func mustRule(pattern string, remove bool, replaceWith string, fs ...taxonomy.Feature) Rule {
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("rules: invalid pattern %q: %v", pattern, err))
	}
	return Rule{Pattern: re, Remove: remove, ReplaceWith: replaceWith, Features: fs}
}
