package store

import (
	"context"
	"database/sql"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertProductIsIdempotentOnCode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.UpsertProduct(ctx, ProductParams{ProductCode: "WX24", Name: "Booster 24", ProductType: "booster", SortAsc: 1})
	if err != nil {
		t.Fatalf("UpsertProduct() error: %v", err)
	}
	id2, err := s.UpsertProduct(ctx, ProductParams{ProductCode: "WX24", Name: "Booster 24 (renamed)", ProductType: "booster", SortAsc: 2})
	if err != nil {
		t.Fatalf("UpsertProduct() second call error: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("UpsertProduct() ids = %d, %d, want same row reused", id1, id2)
	}

	got, err := s.ProductIDByCode(ctx, "WX24")
	if err != nil {
		t.Fatalf("ProductIDByCode() error: %v", err)
	}
	if got != id1 {
		t.Errorf("ProductIDByCode() = %d, want %d", got, id1)
	}
}

func TestUpsertKlassDeduplicatesOnCat1Cat2Cat3(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.UpsertKlass(ctx, KlassParams{Cat1: "精像", Cat2: "超越臨界", SortAsc: 0})
	if err != nil {
		t.Fatalf("UpsertKlass() error: %v", err)
	}
	id2, err := s.UpsertKlass(ctx, KlassParams{Cat1: "精像", Cat2: "超越臨界", SortAsc: 99})
	if err != nil {
		t.Fatalf("UpsertKlass() second call error: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("UpsertKlass() ids = %d, %d, want same row", id1, id2)
	}

	klasses, err := s.ListKlasses(ctx)
	if err != nil {
		t.Fatalf("ListKlasses() error: %v", err)
	}
	if len(klasses) != 1 {
		t.Fatalf("ListKlasses() = %d rows, want 1", len(klasses))
	}
}

func TestCardKlassAssignmentReplacesPriorSet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prodID, _ := s.UpsertProduct(ctx, ProductParams{ProductCode: "WX24", Name: "n", ProductType: "booster", SortAsc: 0})
	cardID, err := s.UpsertCard(ctx, CardParams{Code: "WX24-001", CardType: 5, ProductID: prodID})
	if err != nil {
		t.Fatalf("UpsertCard() error: %v", err)
	}
	k1, _ := s.UpsertKlass(ctx, KlassParams{Cat1: "精像", SortAsc: 0})
	k2, _ := s.UpsertKlass(ctx, KlassParams{Cat1: "奏像", SortAsc: 1})

	if err := s.AssignCardKlasses(ctx, cardID, []int64{k1, k2}); err != nil {
		t.Fatalf("AssignCardKlasses() error: %v", err)
	}
	ids, err := s.KlassIDsForCard(ctx, cardID)
	if err != nil {
		t.Fatalf("KlassIDsForCard() error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("KlassIDsForCard() = %v, want 2 entries", ids)
	}

	if err := s.AssignCardKlasses(ctx, cardID, []int64{k1}); err != nil {
		t.Fatalf("AssignCardKlasses() replace error: %v", err)
	}
	ids, err = s.KlassIDsForCard(ctx, cardID)
	if err != nil {
		t.Fatalf("KlassIDsForCard() error: %v", err)
	}
	if len(ids) != 1 || ids[0] != k1 {
		t.Fatalf("KlassIDsForCard() after replace = %v, want [%d]", ids, k1)
	}
}

func TestRawCardUpsertIsWriteOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prodID, _ := s.UpsertProduct(ctx, ProductParams{ProductCode: "WX24", Name: "n", ProductType: "booster", SortAsc: 0})
	p := RawCardParams{Code: "WX24-001", ProductID: prodID, SourceURL: "https://example.test/a", RawHTML: "<div>a</div>", ScrapedAt: "2026-01-01T00:00:00Z"}
	if err := s.UpsertRawCard(ctx, p); err != nil {
		t.Fatalf("UpsertRawCard() error: %v", err)
	}

	p.RawHTML = "<div>b</div>"
	if err := s.UpsertRawCard(ctx, p); err != nil {
		t.Fatalf("UpsertRawCard() second call error: %v", err)
	}

	got, err := s.RawCardByCode(ctx, "WX24-001")
	if err != nil {
		t.Fatalf("RawCardByCode() error: %v", err)
	}
	if got.RawHTML != "<div>a</div>" {
		t.Errorf("RawCardByCode().RawHTML = %q, want the original write-once content", got.RawHTML)
	}
}

func TestListUnanalyzedRawCardsExcludesAnalyzed(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prodID, _ := s.UpsertProduct(ctx, ProductParams{ProductCode: "WX24", Name: "n", ProductType: "booster", SortAsc: 0})
	s.UpsertRawCard(ctx, RawCardParams{Code: "WX24-001", ProductID: prodID, SourceURL: "u1", RawHTML: "h1", ScrapedAt: "t1"})
	s.UpsertRawCard(ctx, RawCardParams{Code: "WX24-002", ProductID: prodID, SourceURL: "u2", RawHTML: "h2", ScrapedAt: "t2"})

	if err := s.MarkRawCardAnalyzed(ctx, "WX24-001", "2026-01-02T00:00:00Z"); err != nil {
		t.Fatalf("MarkRawCardAnalyzed() error: %v", err)
	}

	pending, err := s.ListUnanalyzedRawCards(ctx)
	if err != nil {
		t.Fatalf("ListUnanalyzedRawCards() error: %v", err)
	}
	if len(pending) != 1 || pending[0].Code != "WX24-002" {
		t.Fatalf("ListUnanalyzedRawCards() = %v, want only WX24-002", pending)
	}
}

func TestMarkRawCardFailedDoesNotMarkAnalyzed(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prodID, _ := s.UpsertProduct(ctx, ProductParams{ProductCode: "WX24", Name: "n", ProductType: "booster", SortAsc: 0})
	s.UpsertRawCard(ctx, RawCardParams{Code: "WX24-001", ProductID: prodID, SourceURL: "u", RawHTML: "h", ScrapedAt: "t"})

	if err := s.MarkRawCardFailed(ctx, "WX24-001", "2026-01-02T00:00:00Z", "boom"); err != nil {
		t.Fatalf("MarkRawCardFailed() error: %v", err)
	}

	pending, err := s.ListUnanalyzedRawCards(ctx)
	if err != nil {
		t.Fatalf("ListUnanalyzedRawCards() error: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("ListUnanalyzedRawCards() = %v, want the failed row still pending", pending)
	}
	if !pending[0].AnalysisError.Valid || pending[0].AnalysisError.String != "boom" {
		t.Errorf("AnalysisError = %v, want \"boom\"", pending[0].AnalysisError)
	}
}

func TestUpsertCardOverwritesOnCode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prodID, _ := s.UpsertProduct(ctx, ProductParams{ProductCode: "WX24", Name: "n", ProductType: "booster", SortAsc: 0})
	_, err := s.UpsertCard(ctx, CardParams{Code: "WX24-001", Name: "旧名", CardType: 5, ProductID: prodID, Level: sql.NullInt64{Int64: 3, Valid: true}})
	if err != nil {
		t.Fatalf("UpsertCard() error: %v", err)
	}
	_, err = s.UpsertCard(ctx, CardParams{Code: "WX24-001", Name: "新名", CardType: 5, ProductID: prodID, Level: sql.NullInt64{Int64: 4, Valid: true}})
	if err != nil {
		t.Fatalf("UpsertCard() second call error: %v", err)
	}

	got, err := s.CardByCode(ctx, "WX24-001")
	if err != nil {
		t.Fatalf("CardByCode() error: %v", err)
	}
	if got.Name != "新名" || got.Level.Int64 != 4 {
		t.Errorf("CardByCode() = %+v, want updated name/level", got)
	}
}

func TestListCardsOrdersByID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prodID, _ := s.UpsertProduct(ctx, ProductParams{ProductCode: "WX24", Name: "n", ProductType: "booster", SortAsc: 0})
	s.UpsertCard(ctx, CardParams{Code: "WX24-002", CardType: 5, ProductID: prodID})
	s.UpsertCard(ctx, CardParams{Code: "WX24-001", CardType: 5, ProductID: prodID})

	cards, err := s.ListCards(ctx)
	if err != nil {
		t.Fatalf("ListCards() error: %v", err)
	}
	if len(cards) != 2 || cards[0].Code != "WX24-002" || cards[1].Code != "WX24-001" {
		t.Fatalf("ListCards() = %v, want insertion order by id", cards)
	}
}

func TestFeatureOverrideByPronunciationMissingIsErrNoRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.FeatureOverrideByPronunciation(ctx, "nonexistent"); err != sql.ErrNoRows {
		t.Fatalf("FeatureOverrideByPronunciation() error = %v, want sql.ErrNoRows", err)
	}
}

func TestUpsertFeatureOverrideRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := FeatureOverrideParams{Pronunciation: "えるどら", FixedBits1: 0b101, FixedBits2: 0, FixedBurstBits: 1, Note: "manual fix", UpdatedAt: "2026-01-01T00:00:00Z"}
	if err := s.UpsertFeatureOverride(ctx, p); err != nil {
		t.Fatalf("UpsertFeatureOverride() error: %v", err)
	}

	got, err := s.FeatureOverrideByPronunciation(ctx, "えるどら")
	if err != nil {
		t.Fatalf("FeatureOverrideByPronunciation() error: %v", err)
	}
	if got.FixedBits1 != 0b101 || got.FixedBurstBits != 1 {
		t.Errorf("FeatureOverrideByPronunciation() = %+v", got)
	}
}
