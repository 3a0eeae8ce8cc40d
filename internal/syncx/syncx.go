// Package syncx implements the feature-override sync layer (C11): an
// abstract push/pull interface over FeatureOverride rows, plus one
// concrete client against an admin JSON API. The analyzer pipeline
// (C8) only ever reads overrides through the local store; syncx's job
// is to keep that local table current against a remote admin backend.
//
// Grounded on fixed_data_server/src/sync.rs's SyncClient (push a
// batch, pull since an optional timestamp, apply with a
// newer-wins-on-updated_at merge) reimplemented as a JSON/HTTP client
// instead of the original's gRPC transport, since spec.md's non-goals
// treat the sync transport as "a pluggable push/pull interface" and
// the only transport library present across the example pack's go.mod
// files is a plain net/http client, not a gRPC stack. Libs:
// github.com/goccy/go-json (wire encoding, the faster encoding/json
// drop-in erigon's go.mod pulls in) and github.com/google/uuid (a
// fresh idempotency key per push batch).
package syncx

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/cardindex/wxdex/internal/store"
)

// FeatureOverride is the wire shape of one override row, mirroring
// fixed_data_server's FeatureOverride message field-for-field.
type FeatureOverride struct {
	Pronunciation  string `json:"pronunciation"`
	FixedBits1     uint64 `json:"fixed_bits1"`
	FixedBits2     uint64 `json:"fixed_bits2"`
	FixedBurstBits uint64 `json:"fixed_burst_bits"`
	Note           string `json:"note"`
	UpdatedAt      string `json:"updated_at"`
}

func fromStoreRow(o store.FeatureOverride) FeatureOverride {
	return FeatureOverride{
		Pronunciation:  o.Pronunciation,
		FixedBits1:     o.FixedBits1,
		FixedBits2:     o.FixedBits2,
		FixedBurstBits: o.FixedBurstBits,
		Note:           o.Note,
		UpdatedAt:      o.UpdatedAt,
	}
}

func (o FeatureOverride) toParams() store.FeatureOverrideParams {
	return store.FeatureOverrideParams{
		Pronunciation:  o.Pronunciation,
		FixedBits1:     o.FixedBits1,
		FixedBits2:     o.FixedBits2,
		FixedBurstBits: o.FixedBurstBits,
		Note:           o.Note,
		UpdatedAt:      o.UpdatedAt,
	}
}

// PushResult reports the remote's accounting of a push batch, per
// spec.md §6: "push (stream of FeatureOverride -> counts of
// received/created/updated)".
type PushResult struct {
	Received int      `json:"items_received"`
	Created  int      `json:"items_created"`
	Updated  int      `json:"items_updated"`
	Errors   []string `json:"errors,omitempty"`
}

// Syncer is the abstract push/pull interface spec.md §6 calls for.
// The analyzer pipeline depends only on the read side (Pull, via
// PullAll); Push exists for admin-side tooling.
type Syncer interface {
	Push(ctx context.Context, overrides []FeatureOverride) (PushResult, error)
	Pull(ctx context.Context, since *time.Time) ([]FeatureOverride, error)
}

// HTTPSyncer is a Syncer backed by a JSON admin API: POST {baseURL}/overrides/push
// and GET {baseURL}/overrides/pull?since=<RFC3339>.
type HTTPSyncer struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPSyncer builds a Syncer against baseURL, authenticating with
// apiKey via the X-Api-Key header. A nil httpClient falls back to
// http.DefaultClient.
func NewHTTPSyncer(baseURL, apiKey string, httpClient *http.Client) *HTTPSyncer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPSyncer{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

type pushRequest struct {
	IdempotencyKey string            `json:"idempotency_key"`
	Overrides      []FeatureOverride `json:"overrides"`
}

// Push sends overrides as one batch tagged with a fresh idempotency
// key, so a retried push after a dropped response never double-counts
// on the admin side.
func (c *HTTPSyncer) Push(ctx context.Context, overrides []FeatureOverride) (PushResult, error) {
	body, err := json.Marshal(pushRequest{
		IdempotencyKey: uuid.NewString(),
		Overrides:      overrides,
	})
	if err != nil {
		return PushResult{}, fmt.Errorf("syncx: encode push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/overrides/push", bytes.NewReader(body))
	if err != nil {
		return PushResult{}, fmt.Errorf("syncx: build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PushResult{}, fmt.Errorf("syncx: push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return PushResult{}, fmt.Errorf("syncx: push request returned status %d", resp.StatusCode)
	}

	var result PushResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return PushResult{}, fmt.Errorf("syncx: decode push response: %w", err)
	}
	return result, nil
}

// Pull fetches every override updated since the given time (or every
// override, when since is nil).
func (c *HTTPSyncer) Pull(ctx context.Context, since *time.Time) ([]FeatureOverride, error) {
	url := c.baseURL + "/overrides/pull"
	if since != nil {
		url += "?since=" + since.UTC().Format(time.RFC3339)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("syncx: build pull request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("syncx: pull request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("syncx: pull request returned status %d", resp.StatusCode)
	}

	var overrides []FeatureOverride
	if err := json.NewDecoder(resp.Body).Decode(&overrides); err != nil {
		return nil, fmt.Errorf("syncx: decode pull response: %w", err)
	}
	return overrides, nil
}

// PushAll reads every local override and pushes them as one batch.
func PushAll(ctx context.Context, st *store.Store, s Syncer) (PushResult, error) {
	rows, err := st.ListFeatureOverrides(ctx)
	if err != nil {
		return PushResult{}, fmt.Errorf("syncx: list local overrides: %w", err)
	}

	overrides := make([]FeatureOverride, 0, len(rows))
	for _, r := range rows {
		overrides = append(overrides, fromStoreRow(r))
	}
	return s.Push(ctx, overrides)
}

// PullAll fetches every override since the given time and applies
// each one that is new or newer than the local copy, mirroring
// fixed_data_server's sync_pull_all newer-wins merge. It returns the
// number of rows actually written.
func PullAll(ctx context.Context, st *store.Store, s Syncer, since *time.Time) (int, error) {
	remote, err := s.Pull(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("syncx: pull overrides: %w", err)
	}

	imported := 0
	for _, o := range remote {
		existing, err := st.FeatureOverrideByPronunciation(ctx, o.Pronunciation)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// no local copy, always import
		case err != nil:
			return imported, fmt.Errorf("syncx: look up local override %s: %w", o.Pronunciation, err)
		case existing.UpdatedAt >= o.UpdatedAt:
			continue
		}
		if err := st.UpsertFeatureOverride(ctx, o.toParams()); err != nil {
			return imported, fmt.Errorf("syncx: apply override %s: %w", o.Pronunciation, err)
		}
		imported++
	}
	return imported, nil
}
