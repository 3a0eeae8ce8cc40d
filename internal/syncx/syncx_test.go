package syncx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/cardindex/wxdex/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestHTTPSyncerPushSendsApiKeyAndDecodesResult(t *testing.T) {
	var gotKey string
	var gotBody pushRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(PushResult{Received: 1, Created: 1})
	}))
	defer srv.Close()

	c := NewHTTPSyncer(srv.URL, "secret", nil)
	result, err := c.Push(context.Background(), []FeatureOverride{{Pronunciation: "きゅうせいのしろひめ"}})
	if err != nil {
		t.Fatalf("Push() error: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("X-Api-Key = %q, want secret", gotKey)
	}
	if gotBody.IdempotencyKey == "" {
		t.Error("push request had no idempotency key")
	}
	if len(gotBody.Overrides) != 1 {
		t.Fatalf("server saw %d overrides, want 1", len(gotBody.Overrides))
	}
	if result.Received != 1 || result.Created != 1 {
		t.Errorf("result = %+v, want Received=1 Created=1", result)
	}
}

func TestHTTPSyncerPullIncludesSinceParam(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]FeatureOverride{{Pronunciation: "a", UpdatedAt: "2026-01-01T00:00:00Z"}})
	}))
	defer srv.Close()

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewHTTPSyncer(srv.URL, "secret", nil)
	overrides, err := c.Pull(context.Background(), &since)
	if err != nil {
		t.Fatalf("Pull() error: %v", err)
	}
	if gotQuery == "" {
		t.Error("pull request had no since query param")
	}
	if len(overrides) != 1 || overrides[0].Pronunciation != "a" {
		t.Fatalf("Pull() = %v, want one override", overrides)
	}
}

func TestHTTPSyncerErrorStatusIsReturnedAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPSyncer(srv.URL, "bad-key", nil)
	if _, err := c.Push(context.Background(), nil); err == nil {
		t.Error("Push() error = nil, want error on 401")
	}
}

type fakeSyncer struct {
	pulled []FeatureOverride
}

func (f fakeSyncer) Push(ctx context.Context, overrides []FeatureOverride) (PushResult, error) {
	return PushResult{Received: len(overrides)}, nil
}

func (f fakeSyncer) Pull(ctx context.Context, since *time.Time) ([]FeatureOverride, error) {
	return f.pulled, nil
}

func TestPullAllImportsNewOverride(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	syncer := fakeSyncer{pulled: []FeatureOverride{
		{Pronunciation: "きゅうせいのしろひめ", FixedBits1: 5, UpdatedAt: "2026-01-01T00:00:00Z"},
	}}

	imported, err := PullAll(ctx, st, syncer, nil)
	if err != nil {
		t.Fatalf("PullAll() error: %v", err)
	}
	if imported != 1 {
		t.Fatalf("PullAll() imported = %d, want 1", imported)
	}

	row, err := st.FeatureOverrideByPronunciation(ctx, "きゅうせいのしろひめ")
	if err != nil {
		t.Fatalf("FeatureOverrideByPronunciation() error: %v", err)
	}
	if row.FixedBits1 != 5 {
		t.Errorf("FixedBits1 = %d, want 5", row.FixedBits1)
	}
}

func TestPullAllSkipsOlderRemoteOverride(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.UpsertFeatureOverride(ctx, store.FeatureOverrideParams{
		Pronunciation: "p", FixedBits1: 9, UpdatedAt: "2026-06-01T00:00:00Z",
	}); err != nil {
		t.Fatalf("seed UpsertFeatureOverride() error: %v", err)
	}

	syncer := fakeSyncer{pulled: []FeatureOverride{
		{Pronunciation: "p", FixedBits1: 1, UpdatedAt: "2026-01-01T00:00:00Z"},
	}}
	imported, err := PullAll(ctx, st, syncer, nil)
	if err != nil {
		t.Fatalf("PullAll() error: %v", err)
	}
	if imported != 0 {
		t.Fatalf("PullAll() imported = %d, want 0 for a stale remote row", imported)
	}

	row, _ := st.FeatureOverrideByPronunciation(ctx, "p")
	if row.FixedBits1 != 9 {
		t.Errorf("FixedBits1 = %d, want unchanged 9", row.FixedBits1)
	}
}

func TestPushAllSendsEveryLocalOverride(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.UpsertFeatureOverride(ctx, store.FeatureOverrideParams{Pronunciation: "a", UpdatedAt: "2026-01-01T00:00:00Z"}); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	if err := st.UpsertFeatureOverride(ctx, store.FeatureOverrideParams{Pronunciation: "b", UpdatedAt: "2026-01-02T00:00:00Z"}); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	result, err := PushAll(ctx, st, fakeSyncer{})
	if err != nil {
		t.Fatalf("PushAll() error: %v", err)
	}
	if result.Received != 2 {
		t.Fatalf("PushAll() received = %d, want 2", result.Received)
	}
}
