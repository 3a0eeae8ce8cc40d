package cache

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cardindex/wxdex/internal/httpclient"
)

// AgeGateCookie is the vendor's age-gate cookie value (spec.md §6).
// The Listing and Detail cachers do not send it: their requests are
// plain GETs through httpclient.Client.GetHTML, which sets no cookies.
const AgeGateCookie = "wixAge=conf;"

// Detail fetches and caches individual card detail pages.
type Detail struct {
	Root    string
	HTTP    *httpclient.Client
	BaseURL string
}

// detailPath derives the cache path for a card number: every segment
// but the last becomes a subdirectory, and the last segment plus
// ".html" becomes the filename (spec.md §4.7).
func (d *Detail) detailPath(cardNo string) string {
	parts := strings.Split(cardNo, "-")
	dir := filepath.Join(d.Root, filepath.Join(parts[:len(parts)-1]...))
	return filepath.Join(dir, parts[len(parts)-1]+".html")
}

// ParseDetailLink extracts the (cardNo, card) query parameters a
// listing page's detail link carries.
func ParseDetailLink(href string) (cardNo, card string, err error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", "", fmt.Errorf("cache: parse detail link %q: %w", href, err)
	}
	q := u.Query()
	cardNo = q.Get("card_no")
	card = q.Get("card")
	if cardNo == "" {
		return "", "", fmt.Errorf("cache: detail link %q missing card_no", href)
	}
	return cardNo, card, nil
}

// Fetch returns the cached `.cardDetail` fragment for cardNo, fetching
// it over HTTP on a cache miss. Cache is write-once, same discipline as
// Listing.
func (d *Detail) Fetch(ctx context.Context, cardNo, card string) (string, error) {
	path := d.detailPath(cardNo)
	if b, err := os.ReadFile(path); err == nil {
		return string(b), nil
	}

	form := url.Values{"card": {card}, "card_no": {cardNo}}
	reqURL := d.BaseURL + "?" + form.Encode()
	body, err := d.HTTP.GetHTML(ctx, reqURL)
	if err != nil {
		return "", fmt.Errorf("cache: fetch detail %s: %w", cardNo, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body))
	if err != nil {
		return "", fmt.Errorf("cache: parse detail fragment %s: %w", cardNo, err)
	}
	fragment := doc.Find(".cardDetail")
	if fragment.Length() == 0 {
		return "", fmt.Errorf("cache: detail %s missing .cardDetail", cardNo)
	}
	fragmentHTML, err := goquery.OuterHtml(fragment.First())
	if err != nil {
		return "", fmt.Errorf("cache: serialize .cardDetail for %s: %w", cardNo, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("cache: mkdir for detail %s: %w", cardNo, err)
	}
	if err := os.WriteFile(path, []byte(fragmentHTML), 0o644); err != nil {
		return "", fmt.Errorf("cache: write detail %s: %w", cardNo, err)
	}
	return fragmentHTML, nil
}
