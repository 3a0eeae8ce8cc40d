// Package cache implements the two-tier content cache and fetcher
// (C6/C7): a paginated product listing walk with page-count discovery,
// and a per-card detail fetch, each backed by a write-once filesystem
// cache. Grounded structurally on shared/cacher/src/product_cacher.rs
// and scraper/src/raw_card.rs, and on ninesl/scryball's
// internal/client pagination-follow pattern generalized from JSON
// pages to HTML fragments.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/cardindex/wxdex/internal/httpclient"
)

const cardsPerPage = 21

// ProductKind selects how a product's cache filenames and query shape
// are built (spec.md §4.6: different product types populate different
// query field subsets).
type ProductKind int

const (
	Booster ProductKind = iota
	Starter
	SpecialCard
	PromotionCard
)

func (k ProductKind) slug() string {
	switch k {
	case Booster:
		return "booster"
	case Starter:
		return "starter"
	case SpecialCard:
		return "special_card"
	default:
		return "promotion_card"
	}
}

// Listing walks a product's paginated listing pages into a local cache
// directory tree and extracts card detail links from the cached pages.
type Listing struct {
	Root       string
	HTTP       *httpclient.Client
	BaseURL    string
	Limiter    *rate.Limiter
}

// pageFilename builds the cache key for one listing page, per spec.md
// §4.6's three naming schemes.
func pageFilename(kind ProductKind, productNo, keyword string, page int) string {
	switch kind {
	case SpecialCard:
		return fmt.Sprintf("%s-%d.html", keyword, page)
	case PromotionCard:
		return fmt.Sprintf("p%d.html", page)
	default:
		return fmt.Sprintf("%s-%d.html", productNo, page)
	}
}

func (l *Listing) pagePath(kind ProductKind, productNo, keyword string, page int) string {
	return filepath.Join(l.Root, kind.slug(), pageFilename(kind, productNo, keyword, page))
}

// fetchPage returns the cached contents of page, fetching and writing
// it first if absent. The cache is write-once: an existing file is
// never re-fetched or overwritten (spec.md §4.6).
func (l *Listing) fetchPage(ctx context.Context, kind ProductKind, productNo, keyword string, page int) (string, error) {
	path := l.pagePath(kind, productNo, keyword, page)
	if b, err := os.ReadFile(path); err == nil {
		return string(b), nil
	}

	if l.Limiter != nil {
		if err := l.Limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("cache: rate limit wait: %w", err)
		}
	}

	url := l.listingURL(kind, productNo, keyword, page)
	html, err := l.HTTP.GetHTML(ctx, url)
	if err != nil {
		return "", fmt.Errorf("cache: fetch listing page %d: %w", page, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("cache: parse listing page %d: %w", page, err)
	}
	fragment := doc.Find(".cardDip")
	if fragment.Length() == 0 {
		return "", fmt.Errorf("cache: listing page %d missing .cardDip", page)
	}
	fragmentHTML, err := goquery.OuterHtml(fragment.First())
	if err != nil {
		return "", fmt.Errorf("cache: serialize .cardDip for page %d: %w", page, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("cache: mkdir for listing page %d: %w", page, err)
	}
	if err := os.WriteFile(path, []byte(fragmentHTML), 0o644); err != nil {
		return "", fmt.Errorf("cache: write listing page %d: %w", page, err)
	}
	return fragmentHTML, nil
}

// listingURL builds the request URL for one page. The real query shape
// (search/product_type/card_kind/etc., §4.6) is carried as query
// parameters by the caller's base URL configuration; this helper only
// adds the page-identifying parameters this package owns.
func (l *Listing) listingURL(kind ProductKind, productNo, keyword string, page int) string {
	q := fmt.Sprintf("product_type=%s&card_page=%d", kind.slug(), page)
	switch kind {
	case SpecialCard:
		q += "&keyword=" + keyword
	default:
		q += "&product_no=" + productNo
	}
	return l.BaseURL + "?" + q
}

// pageCount parses the "<h3><p><span>N</span>" total-card marker off
// page 1's HTML and returns ceil(N / cardsPerPage).
func pageCount(page1HTML string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page1HTML))
	if err != nil {
		return 0, fmt.Errorf("cache: parse page 1 for count: %w", err)
	}
	text := strings.TrimSpace(doc.Find("h3 p span").First().Text())
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("cache: parse total-card count %q: %w", text, err)
	}
	return (n + cardsPerPage - 1) / cardsPerPage, nil
}

// Walk fetches page 1, discovers the total page count, then fetches the
// remaining pages in strict sequence (page p+1 only after page p
// completes, per spec.md §5's ordering guarantee), returning every
// cached page's HTML in page order.
func (l *Listing) Walk(ctx context.Context, kind ProductKind, productNo, keyword string) ([]string, error) {
	first, err := l.fetchPage(ctx, kind, productNo, keyword, 1)
	if err != nil {
		return nil, err
	}
	pages, err := pageCount(first)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, pages)
	out = append(out, first)
	for p := 2; p <= pages; p++ {
		html, err := l.fetchPage(ctx, kind, productNo, keyword, p)
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

// CollectDetailLinks re-reads every page currently cached for a
// product and returns the deduplicated, non-empty set of `a.c-box`
// hrefs across all of them.
func (l *Listing) CollectDetailLinks(kind ProductKind, productNo, keyword string) ([]string, error) {
	dir := filepath.Join(l.Root, kind.slug())
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cache: read listing cache dir %s: %w", dir, err)
	}

	prefix := strings.TrimSuffix(pageFilename(kind, productNo, keyword, 0), "0.html")
	seen := make(map[string]struct{})
	var hrefs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".html") {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".html")); err != nil {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("cache: read cached listing page %s: %w", e.Name(), err)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(b)))
		if err != nil {
			return nil, fmt.Errorf("cache: parse cached listing page %s: %w", e.Name(), err)
		}
		doc.Find("a.c-box[href]").Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok || href == "" {
				return
			}
			if _, dup := seen[href]; dup {
				return
			}
			seen[href] = struct{}{}
			hrefs = append(hrefs, href)
		})
	}
	return hrefs, nil
}

// fanOutLimit bounds how many products WalkProducts walks
// concurrently, per spec.md §5's "small concurrent-task ceiling".
const fanOutLimit = 6

// WalkProducts runs Walk independently over several products, since
// spec.md §5 states cross-product C6 invocations are independent and
// may proceed concurrently.
func WalkProducts(ctx context.Context, l *Listing, kind ProductKind, productNos []string) (map[string][]string, error) {
	results := make(map[string][]string, len(productNos))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	type entry struct {
		productNo string
		pages     []string
	}
	out := make(chan entry, len(productNos))

	for _, no := range productNos {
		no := no
		g.Go(func() error {
			pages, err := l.Walk(ctx, kind, no, "")
			if err != nil {
				return err
			}
			out <- entry{productNo: no, pages: pages}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(out)
	for e := range out {
		results[e.productNo] = e.pages
	}
	return results, nil
}
