package rules

import "github.com/cardindex/wxdex/internal/taxonomy"

// numberRun matches a run of fullwidth digits, optionally wrapped in
// fullwidth parentheses, standing in for the specific count a card's
// skill text names (e.g. "３" or "（３）"). A card printing and its
// reprint with a different number differ only here, so every
// number-sensitive rule is built through NumericVariation instead of
// writing the digit literally into the pattern.
const numberRun = `[（\x{FF10}-\x{FF19}）]+`

// NumericVariation builds a rule whose pattern is head, then a run of
// fullwidth digits, then tail, generalizing every printing of a card
// whose skill text differs only in the number named. When head is
// empty the pattern begins directly with the digit run.
func NumericVariation(head, tail string, remove bool, replaceWith string, fs ...taxonomy.Feature) Rule {
	return mustRule(head+numberRun+tail, remove, replaceWith, fs...)
}
