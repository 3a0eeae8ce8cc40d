// Command wxdex-cache is the listing-cache CLI collaborator spec.md §6
// names: it walks one or more products' paginated listings, then fetches and
// caches every detail page it links to, writing each into the
// raw_cards table (uncategorized, unanalyzed) for C8 to pick up later.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/spf13/cobra"

	"github.com/cardindex/wxdex/internal/cache"
	"github.com/cardindex/wxdex/internal/config"
	"github.com/cardindex/wxdex/internal/httpclient"
	"github.com/cardindex/wxdex/internal/store"
)

var productKindNames = map[string]cache.ProductKind{
	"booster":        cache.Booster,
	"starter":        cache.Starter,
	"special_card":   cache.SpecialCard,
	"promotion_card": cache.PromotionCard,
}

func main() {
	var (
		kindFlag    string
		keywordFlag string
	)

	root := &cobra.Command{
		Use:   "wxdex-cache <product_no> [product_no...]",
		Short: "walk a product's listing pages and cache every linked detail page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := productKindNames[kindFlag]
			if !ok {
				return fmt.Errorf("unknown --kind %q", kindFlag)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.DatabaseDSN)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			httpc := httpclient.New(httpclient.Options{})
			listing := &cache.Listing{
				Root:    cfg.CacheRoot + "/listing",
				HTTP:    httpc,
				BaseURL: cfg.UpstreamBaseURL,
				Limiter: rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
			}
			detail := &cache.Detail{
				Root:    cfg.CacheRoot + "/detail",
				HTTP:    httpc,
				BaseURL: cfg.UpstreamBaseURL,
			}

			ctx := cmd.Context()
			for _, productNo := range args {
				if err := runProduct(ctx, st, listing, detail, kind, productNo, keywordFlag); err != nil {
					return fmt.Errorf("product %s: %w", productNo, err)
				}
			}
			return nil
		},
	}
	root.Flags().StringVar(&kindFlag, "kind", "booster", "product kind: booster, starter, special_card, promotion_card")
	root.Flags().StringVar(&keywordFlag, "keyword", "", "search keyword, required for --kind special_card")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "wxdex-cache:", err)
		os.Exit(1)
	}
}

func runProduct(ctx context.Context, st *store.Store, listing *cache.Listing, detail *cache.Detail, kind cache.ProductKind, productNo, keyword string) error {
	if _, err := listing.Walk(ctx, kind, productNo, keyword); err != nil {
		return fmt.Errorf("walk listing: %w", err)
	}

	links, err := listing.CollectDetailLinks(kind, productNo, keyword)
	if err != nil {
		return fmt.Errorf("collect detail links: %w", err)
	}

	sortAsc, err := productSortAsc(ctx, st, productNo)
	if err != nil {
		return fmt.Errorf("resolve product sort order: %w", err)
	}
	productID, err := st.UpsertProduct(ctx, store.ProductParams{
		ProductCode: productNo,
		Name:        productNo,
		ProductType: kindSlug(kind),
		SortAsc:     sortAsc,
	})
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	for _, href := range links {
		cardNo, card, err := cache.ParseDetailLink(href)
		if err != nil {
			slog.With("href", href).Warn(fmt.Sprintf("wxdex-cache: skipping link: %v", err))
			continue
		}

		html, err := detail.Fetch(ctx, cardNo, card)
		if err != nil {
			return fmt.Errorf("fetch detail %s: %w", cardNo, err)
		}

		if err := st.UpsertRawCard(ctx, store.RawCardParams{
			Code:       cardNo,
			ProductID:  productID,
			SourceURL:  href,
			RawHTML:    html,
			ScrapedAt:  time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			return fmt.Errorf("store raw card %s: %w", cardNo, err)
		}
	}
	return nil
}

// productSortAsc preserves an existing product's insertion rank across
// repeated cache runs, and assigns the next free rank to a new one, so
// C10's "product sort then code" ordering never shuffles on a re-run.
func productSortAsc(ctx context.Context, st *store.Store, productNo string) (int, error) {
	id, err := st.ProductIDByCode(ctx, productNo)
	sorts, listErr := st.ProductSortAscs(ctx)
	if listErr != nil {
		return 0, listErr
	}
	if err == nil {
		return sorts[id], nil
	}

	next := 0
	for _, s := range sorts {
		if s >= next {
			next = s + 1
		}
	}
	return next, nil
}

func kindSlug(k cache.ProductKind) string {
	for slug, v := range productKindNames {
		if v == k {
			return slug
		}
	}
	return "booster"
}
