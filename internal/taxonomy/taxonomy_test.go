package taxonomy

import (
	"testing"

	"pgregory.net/rapid"
)

func TestEveryFeatureAppearsOnceAndRoundTrips(t *testing.T) {
	seen := make(map[Feature]int)
	for _, f := range All() {
		seen[f]++
		b := Bits(f)
		found := FromBits(b.Word1, b.Word2)
		ok := false
		for _, g := range found {
			if g == f {
				ok = true
				break
			}
		}
		if !ok {
			t.Errorf("FromBits(Bits(%v)) does not contain %v", f, f)
		}
	}
	for f, n := range seen {
		if n != 1 {
			t.Errorf("feature %v appears %d times in All()", f, n)
		}
	}
}

func TestBitsExactlyOneWordNonZero(t *testing.T) {
	for _, f := range All() {
		b := Bits(f)
		if b.Word1 != 0 && b.Word2 != 0 {
			t.Errorf("feature %v has bits in both words: %+v", f, b)
		}
		if b.Word1 == 0 && b.Word2 == 0 {
			t.Errorf("feature %v has no bit set", f)
		}
	}
}

func TestFromLabelRoundTrip(t *testing.T) {
	for _, f := range All() {
		label := f.Label()
		got, ok := FromLabel(label)
		if !ok {
			t.Fatalf("FromLabel(%q) not found", label)
		}
		if got != f {
			t.Errorf("FromLabel(%q) = %v, want %v", label, got, f)
		}
	}
}

func TestFromLabelUnknown(t *testing.T) {
	if _, ok := FromLabel("this is not a feature"); ok {
		t.Fatal("expected unknown label to fail")
	}
}

func TestFeatureSetToBitsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		all := All()
		n := rapid.IntRange(0, len(all)).Draw(t, "n")
		idx := rapid.Permutation(indices(len(all))).Draw(t, "idx")[:n]

		set := NewFeatureSet()
		for _, i := range idx {
			set[all[i]] = struct{}{}
		}

		bits := set.ToBits()
		got := FromBits(bits.Word1, bits.Word2)

		if len(got) != len(set) {
			t.Fatalf("round trip lost features: put %d, got %d", len(set), len(got))
		}
		for _, f := range got {
			if !set.Has(f) {
				t.Fatalf("round trip produced unexpected feature %v", f)
			}
		}
	})
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestLabelsByTagGroupsEveryFeature(t *testing.T) {
	byTag := LabelsByTag()
	total := 0
	for _, fs := range byTag {
		total += len(fs)
	}
	if total != len(All()) {
		t.Fatalf("LabelsByTag covers %d features, want %d", total, len(All()))
	}
}

func TestLifeBurstFeatureIsMarked(t *testing.T) {
	if !LifeBurst.IsLifeBurst() {
		t.Fatal("LifeBurst feature must be marked IsLifeBurst")
	}
	for _, f := range All() {
		if f != LifeBurst && f.IsLifeBurst() {
			t.Errorf("unexpected life-burst feature: %v", f)
		}
	}
}
