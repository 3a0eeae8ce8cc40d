package textsearch

import "testing"

func TestNormalizeFoldsFullwidthToHalfwidth(t *testing.T) {
	got := Normalize("ＷＸ２４－００１")
	want := "WX24-001"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeConvertsHiraganaToKatakana(t *testing.T) {
	got := Normalize("きゅうせい")
	want := "キュウセイ"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := Normalize("  白姫　　ひめ  ")
	want := "白姫 ヒメ"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestDetectTypeAlphaNumeric(t *testing.T) {
	if got := DetectType(Normalize("WX24-001")); got != AlphaNumeric {
		t.Errorf("DetectType() = %v, want AlphaNumeric", got)
	}
}

func TestDetectTypeKatakana(t *testing.T) {
	if got := DetectType(Normalize("キュウセイ")); got != Katakana {
		t.Errorf("DetectType() = %v, want Katakana", got)
	}
}

func TestDetectTypeHiragana(t *testing.T) {
	if got := DetectType("きゅうせい"); got != Hiragana {
		t.Errorf("DetectType() = %v, want Hiragana", got)
	}
}

func TestDetectTypeMixedWhenKanjiPresent(t *testing.T) {
	if got := DetectType(Normalize("白姫")); got != Mixed {
		t.Errorf("DetectType() = %v, want Mixed", got)
	}
}

func TestDetectTypeEmpty(t *testing.T) {
	if got := DetectType(""); got != Empty {
		t.Errorf("DetectType() = %v, want Empty", got)
	}
}

func TestActiveFieldsRestrictsAlphaNumericToNameAndCode(t *testing.T) {
	fields := ActiveFields(AlphaNumeric)
	if len(fields) != 2 || fields[0] != FieldName || fields[1] != FieldCode {
		t.Errorf("ActiveFields(AlphaNumeric) = %v, want [Name Code]", fields)
	}
}

func TestActiveFieldsRestrictsKatakanaToNameAndPronunciation(t *testing.T) {
	fields := ActiveFields(Katakana)
	if len(fields) != 2 || fields[0] != FieldName || fields[1] != FieldPronunciation {
		t.Errorf("ActiveFields(Katakana) = %v, want [Name Pronunciation]", fields)
	}
}

func TestQueryMatchesRequiresEveryKeyword(t *testing.T) {
	q := NewQuery("白姫 キュウセイ")
	fields := map[Field]string{
		FieldName:          "救世の白姫",
		FieldCode:          "WX24-001",
		FieldPronunciation: "きゅうせいのしろひめ",
	}
	if !q.Matches(fields) {
		t.Error("Matches() = false, want true when both keywords are present across fields")
	}
}

func TestQueryMatchesFailsWhenOneKeywordMissing(t *testing.T) {
	q := NewQuery("白姫 存在しない")
	fields := map[Field]string{
		FieldName:          "救世の白姫",
		FieldCode:          "WX24-001",
		FieldPronunciation: "きゅうせいのしろひめ",
	}
	if q.Matches(fields) {
		t.Error("Matches() = true, want false when a keyword is absent everywhere")
	}
}

func TestQueryMatchesEmptyQueryAlwaysTrue(t *testing.T) {
	q := NewQuery("")
	if !q.Matches(map[Field]string{}) {
		t.Error("Matches() = false for empty query, want true")
	}
}

func TestQueryAlphaNumericIgnoresPronunciationField(t *testing.T) {
	q := NewQuery("WX24")
	fields := map[Field]string{
		FieldName:          "別の名前",
		FieldCode:          "WX24-001",
		FieldPronunciation: "むかんけい",
	}
	if !q.Matches(fields) {
		t.Error("Matches() = false, want true since WX24 appears in code")
	}
}
