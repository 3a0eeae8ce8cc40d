package index

import (
	"context"
	"database/sql"
	"testing"

	"github.com/cardindex/wxdex/internal/format"
	"github.com/cardindex/wxdex/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	prodID, err := st.UpsertProduct(ctx, store.ProductParams{ProductCode: "WX24", Name: "Booster 24", ProductType: "booster", SortAsc: 0})
	if err != nil {
		t.Fatalf("UpsertProduct() error: %v", err)
	}
	if err := st.UpsertRawCard(ctx, store.RawCardParams{Code: "WX24-001", ProductID: prodID, SourceURL: "https://example.test/WX24-001", RawHTML: "h", ScrapedAt: "t"}); err != nil {
		t.Fatalf("UpsertRawCard() error: %v", err)
	}
	if _, err := st.UpsertCard(ctx, store.CardParams{
		Code: "WX24-001", Name: "救世の白姫", CardType: 5, ProductID: prodID,
		Level: sql.NullInt64{Int64: 3, Valid: true}, Format: int(format.AllStar),
	}); err != nil {
		t.Fatalf("UpsertCard() error: %v", err)
	}
	if _, err := st.UpsertCard(ctx, store.CardParams{
		Code: "WX24-002", Name: "他のカード", CardType: 5, ProductID: prodID,
		Format: int(format.KeySelection),
	}); err != nil {
		t.Fatalf("UpsertCard() error: %v", err)
	}
	return st
}

func TestBuildEmitsEveryCardWithJoinedFields(t *testing.T) {
	st := seededStore(t)
	cards, err := Build(context.Background(), st, format.AllStar, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("Build() = %d cards, want 2", len(cards))
	}

	first := cards[0]
	if first.Code != "WX24-001" {
		t.Fatalf("first card code = %q, want WX24-001", first.Code)
	}
	if first.URL != "https://example.test/WX24-001" {
		t.Errorf("URL = %q, want joined source_url", first.URL)
	}
	if first.Product != "WX24" {
		t.Errorf("Product = %q, want WX24", first.Product)
	}
	if first.Level == nil || *first.Level != 3 {
		t.Errorf("Level = %v, want pointer to 3", first.Level)
	}
}

func TestBuildFiltersByFormatWhenRequested(t *testing.T) {
	st := seededStore(t)
	cards, err := Build(context.Background(), st, format.AllStar, true)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(cards) != 1 || cards[0].Code != "WX24-001" {
		t.Fatalf("Build(filtered) = %v, want only the AllStar card", cards)
	}
}

func TestBuildSecondCardHasNilLevel(t *testing.T) {
	st := seededStore(t)
	cards, err := Build(context.Background(), st, format.AllStar, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if cards[1].Level != nil {
		t.Errorf("Level = %v, want nil for an unset level", cards[1].Level)
	}
}
