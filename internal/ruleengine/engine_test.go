package ruleengine

import (
	"testing"

	"github.com/cardindex/wxdex/internal/rules"
	"github.com/cardindex/wxdex/internal/taxonomy"
)

func TestRunSplitsNormalAndBurstLines(t *testing.T) {
	source := []string{
		"【出】：カードを１枚引く。<br>ライフバースト：カードを１枚引く。",
	}
	res := Run(source, rules.Bank)

	if len(res.Normal) != 1 {
		t.Fatalf("Normal = %v, want one line", res.Normal)
	}
	if len(res.Burst) != 1 {
		t.Fatalf("Burst = %v, want one line", res.Burst)
	}
	if !res.Features.Has(taxonomy.Draw) {
		t.Error("expected Draw feature to be detected on the normal line")
	}
	if !res.BurstFeatures.Has(taxonomy.LifeBurst) {
		t.Error("expected LifeBurst feature to be detected on the burst line")
	}
	if res.Burst[0] != "LB:カードを１枚引く。" {
		t.Errorf("burst line = %q, want LB: prefix preserved", res.Burst[0])
	}
}

func TestRunEmptyLinesAreDropped(t *testing.T) {
	res := Run([]string{"<br><br>"}, rules.Bank)
	if len(res.Normal) != 0 || len(res.Burst) != 0 {
		t.Fatalf("expected no lines, got normal=%v burst=%v", res.Normal, res.Burst)
	}
}

func TestRunGainSkillWrapsAbilityGrant(t *testing.T) {
	source := []string{
		`通常のアビリティ。<div class="card_ability_add_border">アサシンを得る。</div>`,
	}
	res := Run(source, rules.Bank)
	if len(res.Normal) != 2 {
		t.Fatalf("Normal = %v, want two lines", res.Normal)
	}
	if !res.Features.Has(taxonomy.Assassin) {
		t.Error("expected Assassin feature from granted ability")
	}
}

func TestHasBurst(t *testing.T) {
	res := Run([]string{"ライフバースト：カードを１枚引く。"}, rules.Bank)
	if !res.HasBurst() {
		t.Fatal("expected HasBurst to be true")
	}
}

func TestRunBurstFeaturesStaySeparateFromNormalFeatures(t *testing.T) {
	res := Run([]string{"ライフバースト：カードを１枚引く。"}, rules.Bank)
	if len(res.Features) != 0 {
		t.Fatalf("Features = %v, want empty since the only line is a burst line", res.Features)
	}
	if !res.BurstFeatures.Has(taxonomy.Draw) {
		t.Error("expected Draw feature on the burst-only line to land in BurstFeatures")
	}
}

func TestRunNoMatchYieldsNoFeatures(t *testing.T) {
	res := Run([]string{"特に何もしない。"}, rules.Bank)
	if len(res.Features) != 0 {
		t.Fatalf("expected no features, got %v", res.Features)
	}
	if len(res.Normal) != 1 {
		t.Fatalf("expected the unmatched line to survive, got %v", res.Normal)
	}
}
