package rules

import (
	"testing"

	"github.com/cardindex/wxdex/internal/taxonomy"
)

func TestBankEveryRuleCompiles(t *testing.T) {
	if len(Bank) == 0 {
		t.Fatal("Bank is empty")
	}
	for i, r := range Bank {
		if r.Pattern == nil {
			t.Fatalf("rule %d has nil pattern", i)
		}
	}
}

func TestLifeBurstSentinelReplacesColon(t *testing.T) {
	line := "ライフバースト：カードを１枚引く。"
	var matched bool
	var out string
	for _, r := range Bank {
		if r.Pattern.MatchString("ライフバースト：") {
			out, matched = r.Apply(line)
			break
		}
	}
	if !matched {
		t.Fatal("expected the life burst rule to match")
	}
	if out != "LB:カードを１枚引く。" {
		t.Fatalf("Apply() = %q, want LB: prefix", out)
	}
}

func TestApplyNoMatchLeavesLineUnchanged(t *testing.T) {
	r := mustRule(`絶対に出てこない文字列ＸＹＺ`, true, "", taxonomy.Draw)
	out, matched := r.Apply("このシグニをダウンする。")
	if matched {
		t.Fatal("expected no match")
	}
	if out != "このシグニをダウンする。" {
		t.Fatalf("Apply() on non-match = %q, want unchanged", out)
	}
}

func TestApplyNonRemoveLeavesLineInPlace(t *testing.T) {
	r := mustRule(`アサシン`, false, "*ASSASSIN*", taxonomy.Assassin)
	line := "【アサシン】を持つ。"
	out, matched := r.Apply(line)
	if !matched {
		t.Fatal("expected match")
	}
	if out != line {
		t.Fatalf("Apply() on non-remove rule changed the line: %q", out)
	}
}

func TestNumericVariationMatchesAnyDigitCount(t *testing.T) {
	r := NumericVariation("カードを", "枚引", false, "*DRAW*", taxonomy.Draw)
	for _, line := range []string{"カードを１枚引く。", "カードを２枚引く。", "カードを（１）枚引く。"} {
		if !r.Pattern.MatchString(line) {
			t.Errorf("pattern did not match %q", line)
		}
	}
}

func TestMustRuleInvalidPatternPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on invalid pattern")
		}
	}()
	mustRule(`(unterminated`, false, "")
}

func TestBankRuleFeaturesAreValidTaxonomyMembers(t *testing.T) {
	known := make(map[taxonomy.Feature]bool)
	for _, f := range taxonomy.All() {
		known[f] = true
	}
	for i, r := range Bank {
		for _, f := range r.Features {
			if !known[f] {
				t.Errorf("rule %d references unknown feature %v", i, f)
			}
		}
	}
}
