// Package wxdex is the top-level entry point for the card-catalog
// system: a Catalog bundles the content cache, the analyzer pipeline,
// and the static index, and the package-level Cache/Analyze/Filter/
// Search functions operate on a lazily-built default Catalog the way a
// caller who never touches configuration would expect.
//
// Grounded on ninesl/scryball's state.go singleton (CurrentScryball,
// initOnce, createDefaultInstance) — the same sync.Once-guarded
// lazy-init shape, generalized from a single in-memory Scryfall mirror
// to this system's Store+Analyzer+cache bundle.
package wxdex

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/cardindex/wxdex/internal/analyze"
	"github.com/cardindex/wxdex/internal/cache"
	"github.com/cardindex/wxdex/internal/config"
	"github.com/cardindex/wxdex/internal/filter"
	"github.com/cardindex/wxdex/internal/format"
	"github.com/cardindex/wxdex/internal/httpclient"
	"github.com/cardindex/wxdex/internal/index"
	"github.com/cardindex/wxdex/internal/rules"
	"github.com/cardindex/wxdex/internal/store"
	"github.com/cardindex/wxdex/internal/syncx"
)

// Config is the environment-resolved settings a Catalog is built from.
// It is the same shape internal/config.Load resolves; Catalog just
// holds it so NewWithConfig callers don't need to import internal/config
// themselves.
type Config = config.Config

// Catalog bundles everything one instance of this system needs: the
// durable Store, the analyzer pipeline, the listing/detail cachers, and
// a copy of the Config it was built from.
type Catalog struct {
	Config   Config
	Store    *store.Store
	Analyzer *analyze.Analyzer
	Listing  *cache.Listing
	Detail   *cache.Detail
	Syncer   *syncx.HTTPSyncer
}

var (
	// Current is the process-wide default Catalog, lazily built by the
	// package-level Cache/Analyze/Filter/Search functions on first use.
	Current *Catalog

	initOnce sync.Once
	mu       sync.RWMutex
)

// ensureCurrent returns the default Catalog, building it from
// config.Load on first call. Every later call returns the same
// instance; building a fresh one requires SetConfig.
func ensureCurrent() (*Catalog, error) {
	var topErr error
	initOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if Current == nil {
			cfg, err := config.Load()
			if err != nil {
				topErr = fmt.Errorf("%w: %v", ErrNotConfigured, err)
				return
			}
			cat, err := buildCatalog(cfg)
			if err != nil {
				topErr = err
				return
			}
			Current = cat
		}
	})
	if topErr != nil {
		return nil, topErr
	}
	mu.RLock()
	defer mu.RUnlock()
	if Current == nil {
		return nil, ErrNotConfigured
	}
	return Current, nil
}

// buildCatalog wires a Catalog's collaborators from cfg: opens the
// store, builds the HTTP client and its two cache layers, loads the
// analyzer's klass table, and (if a sync endpoint is configured) builds
// the override syncer.
func buildCatalog(cfg Config) (*Catalog, error) {
	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("%w: open store: %v", ErrIO, err)
	}

	hc := httpclient.New(httpclient.Options{})
	listing := &cache.Listing{
		Root:    cfg.CacheRoot + "/listing",
		HTTP:    hc,
		BaseURL: cfg.UpstreamBaseURL,
		Limiter: rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
	}
	detail := &cache.Detail{
		Root:    cfg.CacheRoot + "/detail",
		HTTP:    hc,
		BaseURL: cfg.UpstreamBaseURL,
	}

	analyzer, err := analyze.New(context.Background(), st, rules.Bank)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("%w: build analyzer: %v", ErrPersistence, err)
	}

	var syncer *syncx.HTTPSyncer
	if cfg.SyncEndpoint != "" {
		syncer = syncx.NewHTTPSyncer(cfg.SyncEndpoint, cfg.SyncAPIKey, nil)
	}

	return &Catalog{
		Config:   cfg,
		Store:    st,
		Analyzer: analyzer,
		Listing:  listing,
		Detail:   detail,
		Syncer:   syncer,
	}, nil
}

// NewWithConfig builds a standalone Catalog from cfg without touching
// the process-wide default. Use this when a caller needs more than one
// catalog (tests, or a multi-tenant embedding of this package).
func NewWithConfig(cfg Config) (*Catalog, error) {
	return buildCatalog(cfg)
}

// SetConfig replaces the process-wide default Catalog with one built
// from cfg, closing the previous instance's store if there was one.
func SetConfig(cfg Config) error {
	cat, err := buildCatalog(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if Current != nil {
		Current.Store.Close()
	}
	Current = cat
	return nil
}

// Close releases the Catalog's Store handle.
func (c *Catalog) Close() error {
	return c.Store.Close()
}

var productKindNames = map[string]cache.ProductKind{
	"booster":        cache.Booster,
	"starter":        cache.Starter,
	"special_card":   cache.SpecialCard,
	"promotion_card": cache.PromotionCard,
}

// productSortAsc resolves a stable sort_asc for a product: an existing
// product keeps its current rank (UpsertProduct would otherwise reset
// it to whatever is passed in), and a new product is appended after
// the highest rank seen so far.
func productSortAsc(ctx context.Context, st *store.Store, productCode string) (int, error) {
	sorts, err := st.ProductSortAscs(ctx)
	if err != nil {
		return 0, err
	}
	if id, err := st.ProductIDByCode(ctx, productCode); err == nil {
		return sorts[id], nil
	}
	max := -1
	for _, s := range sorts {
		if s > max {
			max = s
		}
	}
	return max + 1, nil
}

// Cache runs C6/C7 over one product: it walks its paginated listing,
// collects every detail link, fetches and caches each detail page, and
// stores the raw HTML for analysis. kind is one of "booster", "starter",
// "special_card", or "promotion_card".
func (c *Catalog) Cache(ctx context.Context, kind, productCode, keyword, productName string) error {
	pk, ok := productKindNames[kind]
	if !ok {
		return fmt.Errorf("%w: unknown product kind %q", ErrUserInput, kind)
	}

	if _, err := c.Listing.Walk(ctx, pk, productCode, keyword); err != nil {
		return fmt.Errorf("%w: walk listing for %s: %v", ErrTransport, productCode, err)
	}
	hrefs, err := c.Listing.CollectDetailLinks(pk, productCode, keyword)
	if err != nil {
		return fmt.Errorf("%w: collect detail links for %s: %v", ErrIO, productCode, err)
	}

	sortAsc, err := productSortAsc(ctx, c.Store, productCode)
	if err != nil {
		return fmt.Errorf("%w: resolve product sort order: %v", ErrPersistence, err)
	}
	productID, err := c.Store.UpsertProduct(ctx, store.ProductParams{
		ProductCode: productCode,
		Name:        productName,
		ProductType: kind,
		SortAsc:     sortAsc,
	})
	if err != nil {
		return fmt.Errorf("%w: upsert product %s: %v", ErrPersistence, productCode, err)
	}

	for _, href := range hrefs {
		cardNo, cardParam, err := cache.ParseDetailLink(href)
		if err != nil {
			continue
		}
		html, err := c.Detail.Fetch(ctx, cardNo, cardParam)
		if err != nil {
			return fmt.Errorf("%w: fetch detail %s: %v", ErrTransport, cardNo, err)
		}
		if err := c.Store.UpsertRawCard(ctx, store.RawCardParams{
			Code:      cardNo,
			ProductID: productID,
			SourceURL: href,
			RawHTML:   html,
			ScrapedAt: nowRFC3339(),
		}); err != nil {
			return fmt.Errorf("%w: upsert raw card %s: %v", ErrPersistence, cardNo, err)
		}
	}
	return nil
}

// AnalyzeResult summarizes one Analyze call over every unanalyzed raw
// row.
type AnalyzeResult struct {
	Analyzed int
	Failed   int
	Errors   map[string]string
}

// Analyze runs C8 over every raw row not yet analyzed, upserting each
// into the canonical card table. A per-card failure is recorded on the
// raw row and collected in the result; it never aborts the batch.
func (c *Catalog) Analyze(ctx context.Context) (AnalyzeResult, error) {
	raws, err := c.Store.ListUnanalyzedRawCards(ctx)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("%w: list unanalyzed raw cards: %v", ErrPersistence, err)
	}

	result := AnalyzeResult{Errors: make(map[string]string)}
	for _, raw := range raws {
		if err := c.Analyzer.AnalyzeOne(ctx, raw); err != nil {
			result.Failed++
			result.Errors[raw.Code] = err.Error()
			slog.With("code", raw.Code).Warn(fmt.Sprintf("analyze: card failed, continuing batch: %v", err))
			if markErr := c.Store.MarkRawCardFailed(ctx, raw.Code, nowRFC3339(), err.Error()); markErr != nil {
				result.Errors[raw.Code] = result.Errors[raw.Code] + "; " + markErr.Error()
				slog.With("code", raw.Code).Error(fmt.Sprintf("analyze: failed to record failure: %v", markErr))
			}
			continue
		}
		result.Analyzed++
	}
	return result, nil
}

// Filter builds the static index (C9) and runs q against it (C10),
// returning every matching card.
func (c *Catalog) Filter(ctx context.Context, q filter.Query) ([]Card, error) {
	cards, err := index.Build(ctx, c.Store, format.AllStar, false)
	if err != nil {
		return nil, fmt.Errorf("%w: build index: %v", ErrPersistence, err)
	}
	matched := q.Apply(cards)
	out := make([]Card, len(matched))
	for i, ic := range matched {
		out[i] = Card{Card: ic}
	}
	return out, nil
}

// Search is Filter restricted to a free-text query, the common case of
// a caller that only wants C10's text search.
func (c *Catalog) Search(ctx context.Context, text string) ([]Card, error) {
	return c.Filter(ctx, filter.Query{Text: text})
}

// Cache runs the default Catalog's Cache, building it from the
// environment on first use.
func Cache(ctx context.Context, kind, productCode, keyword, productName string) error {
	c, err := ensureCurrent()
	if err != nil {
		return err
	}
	return c.Cache(ctx, kind, productCode, keyword, productName)
}

// Analyze runs the default Catalog's Analyze, building it from the
// environment on first use.
func Analyze(ctx context.Context) (AnalyzeResult, error) {
	c, err := ensureCurrent()
	if err != nil {
		return AnalyzeResult{}, err
	}
	return c.Analyze(ctx)
}

// Filter runs the default Catalog's Filter, building it from the
// environment on first use.
func Filter(ctx context.Context, q filter.Query) ([]Card, error) {
	c, err := ensureCurrent()
	if err != nil {
		return nil, err
	}
	return c.Filter(ctx, q)
}

// Search runs the default Catalog's Search, building it from the
// environment on first use.
func Search(ctx context.Context, text string) ([]Card, error) {
	c, err := ensureCurrent()
	if err != nil {
		return nil, err
	}
	return c.Search(ctx, text)
}
