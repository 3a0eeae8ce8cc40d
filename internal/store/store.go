// Package store is the sqlite-backed persistence layer: raw card rows
// as fetched from the detail cache, the canonical card table an
// analyzed row is upserted into, and the small product/klass/override
// reference tables everything else joins against.
//
// Grounded on ninesl/scryball's state.go/query.go shape: a
// mutex-guarded handle around a *sql.DB opened against
// modernc.org/sqlite, an embedded schema applied on open, and a
// hand-written query layer of one method per statement with typed
// "...Params" structs for multi-column writes — the same shape sqlc
// would generate, written by hand because the teacher's generated
// internal/scryfall package was not carried into this retrieval pack.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Store owns a single sqlite handle. All exported methods take their
// own lock, mirroring ninesl/scryball's Scryball.mu discipline of
// serializing writes around a shared *sql.DB.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates (or attaches to) a sqlite database at dsn and applies
// the embedded schema. dsn may be ":memory:" for an ephemeral store.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dsn, err)
	}
	if _, err := db.Exec(embeddedSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply embedded schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ProductParams upserts a product row keyed on product_code.
type ProductParams struct {
	ProductCode string
	Name        string
	ProductType string
	SortAsc     int
}

func (s *Store) UpsertProduct(ctx context.Context, p ProductParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (product_code, name, product_type, sort_asc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(product_code) DO UPDATE SET
			name = excluded.name,
			product_type = excluded.product_type,
			sort_asc = excluded.sort_asc
	`, p.ProductCode, p.Name, p.ProductType, p.SortAsc)
	if err != nil {
		return 0, fmt.Errorf("store: upsert product %s: %w", p.ProductCode, err)
	}

	var id int64
	row := s.db.QueryRowContext(ctx, `SELECT id FROM products WHERE product_code = ?`, p.ProductCode)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("store: fetch product id for %s: %w", p.ProductCode, err)
	}
	return id, nil
}

func (s *Store) ProductIDByCode(ctx context.Context, productCode string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id int64
	row := s.db.QueryRowContext(ctx, `SELECT id FROM products WHERE product_code = ?`, productCode)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("store: product %s: %w", productCode, err)
	}
	return id, nil
}

// ProductCodes returns the id -> product_code mapping for every
// product, for the index emitter to render a card's product_id back
// into its display code.
func (s *Store) ProductCodes(ctx context.Context) (map[int64]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, product_code FROM products`)
	if err != nil {
		return nil, fmt.Errorf("store: list product codes: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var id int64
		var code string
		if err := rows.Scan(&id, &code); err != nil {
			return nil, fmt.Errorf("store: scan product code row: %w", err)
		}
		out[id] = code
	}
	return out, rows.Err()
}

// ProductSortAscs returns the id -> sort_asc mapping for every product,
// for C10's "order by product sort then code" result ordering.
func (s *Store) ProductSortAscs(ctx context.Context) (map[int64]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, sort_asc FROM products`)
	if err != nil {
		return nil, fmt.Errorf("store: list product sort_asc: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var id int64
		var sortAsc int
		if err := rows.Scan(&id, &sortAsc); err != nil {
			return nil, fmt.Errorf("store: scan product sort_asc row: %w", err)
		}
		out[id] = sortAsc
	}
	return out, rows.Err()
}

// KlassParams upserts a klass row keyed on the (cat1, cat2, cat3) triple.
type KlassParams struct {
	Cat1    string
	Cat2    string
	Cat3    string
	SortAsc int
}

func (s *Store) UpsertKlass(ctx context.Context, k KlassParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO klasses (cat1, cat2, cat3, sort_asc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cat1, cat2, cat3) DO NOTHING
	`, k.Cat1, k.Cat2, k.Cat3, k.SortAsc)
	if err != nil {
		return 0, fmt.Errorf("store: upsert klass %s/%s/%s: %w", k.Cat1, k.Cat2, k.Cat3, err)
	}

	var id int64
	row := s.db.QueryRowContext(ctx, `SELECT id FROM klasses WHERE cat1 = ? AND cat2 = ? AND cat3 = ?`, k.Cat1, k.Cat2, k.Cat3)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("store: fetch klass id for %s/%s/%s: %w", k.Cat1, k.Cat2, k.Cat3, err)
	}
	return id, nil
}

// KlassRow is one row of the klasses table, used to rebuild an
// internal/klass.Table at startup.
type KlassRow struct {
	ID      int64
	Cat1    string
	Cat2    string
	Cat3    string
	SortAsc int
}

func (s *Store) ListKlasses(ctx context.Context) ([]KlassRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, cat1, cat2, cat3, sort_asc FROM klasses ORDER BY sort_asc`)
	if err != nil {
		return nil, fmt.Errorf("store: list klasses: %w", err)
	}
	defer rows.Close()

	var out []KlassRow
	for rows.Next() {
		var k KlassRow
		if err := rows.Scan(&k.ID, &k.Cat1, &k.Cat2, &k.Cat3, &k.SortAsc); err != nil {
			return nil, fmt.Errorf("store: scan klass row: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// AssignCardKlasses replaces the set of klasses a card belongs to.
func (s *Store) AssignCardKlasses(ctx context.Context, cardID int64, klassIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin assign klasses tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM card_klasses WHERE card_id = ?`, cardID); err != nil {
		return fmt.Errorf("store: clear card_klasses for card %d: %w", cardID, err)
	}
	for _, kid := range klassIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO card_klasses (card_id, klass_id) VALUES (?, ?)`, cardID, kid); err != nil {
			return fmt.Errorf("store: insert card_klasses (%d, %d): %w", cardID, kid, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit assign klasses tx: %w", err)
	}
	return nil
}

func (s *Store) KlassIDsForCard(ctx context.Context, cardID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT klass_id FROM card_klasses WHERE card_id = ?`, cardID)
	if err != nil {
		return nil, fmt.Errorf("store: klass ids for card %d: %w", cardID, err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan card_klasses row: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// RawCardParams is a freshly fetched detail page awaiting analysis.
type RawCardParams struct {
	Code                string
	ProductID           int64
	SourceURL           string
	RawHTML             string
	SkillTextExtracted  string
	BurstTextExtracted  string
	ScrapedAt           string
}

func (s *Store) UpsertRawCard(ctx context.Context, p RawCardParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO raw_cards (code, product_id, source_url, raw_html, skill_text_extracted, burst_text_extracted, scraped_at, is_analyzed)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(code) DO NOTHING
	`, p.Code, p.ProductID, p.SourceURL, p.RawHTML, p.SkillTextExtracted, p.BurstTextExtracted, p.ScrapedAt)
	if err != nil {
		return fmt.Errorf("store: upsert raw card %s: %w", p.Code, err)
	}
	return nil
}

// RawCard is one row pulled off raw_cards for analysis.
type RawCard struct {
	ID                  int64
	Code                string
	ProductID           int64
	SourceURL           string
	RawHTML             string
	SkillTextExtracted  string
	BurstTextExtracted  string
	ScrapedAt           string
	IsAnalyzed          bool
	LastAnalyzedAt      sql.NullString
	AnalysisError       sql.NullString
}

func scanRawCard(row interface{ Scan(...any) error }) (RawCard, error) {
	var r RawCard
	err := row.Scan(&r.ID, &r.Code, &r.ProductID, &r.SourceURL, &r.RawHTML,
		&r.SkillTextExtracted, &r.BurstTextExtracted, &r.ScrapedAt,
		&r.IsAnalyzed, &r.LastAnalyzedAt, &r.AnalysisError)
	return r, err
}

const rawCardColumns = `id, code, product_id, source_url, raw_html, skill_text_extracted, burst_text_extracted, scraped_at, is_analyzed, last_analyzed_at, analysis_error`

func (s *Store) RawCardByCode(ctx context.Context, code string) (RawCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+rawCardColumns+` FROM raw_cards WHERE code = ?`, code)
	r, err := scanRawCard(row)
	if err != nil {
		return RawCard{}, fmt.Errorf("store: raw card %s: %w", code, err)
	}
	return r, nil
}

// ListUnanalyzedRawCards returns every raw row not yet marked
// analyzed, in insertion order, for the analyzer pipeline (C8) to fan
// out over.
func (s *Store) ListUnanalyzedRawCards(ctx context.Context) ([]RawCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+rawCardColumns+` FROM raw_cards WHERE is_analyzed = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list unanalyzed raw cards: %w", err)
	}
	defer rows.Close()

	var out []RawCard
	for rows.Next() {
		r, err := scanRawCard(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan raw card row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarkRawCardAnalyzed flips is_analyzed, stamps last_analyzed_at, and
// clears any prior analysis_error.
func (s *Store) MarkRawCardAnalyzed(ctx context.Context, code, analyzedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE raw_cards SET is_analyzed = 1, last_analyzed_at = ?, analysis_error = NULL WHERE code = ?
	`, analyzedAt, code)
	if err != nil {
		return fmt.Errorf("store: mark raw card %s analyzed: %w", code, err)
	}
	return nil
}

// UpdateRawCardExtractedText writes back the sentinelized raw HTML and
// the separated skill/burst text slabs once the analyzer has run,
// per spec.md §4.7.
func (s *Store) UpdateRawCardExtractedText(ctx context.Context, code, cleanedRawHTML, skillText, burstText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE raw_cards SET raw_html = ?, skill_text_extracted = ?, burst_text_extracted = ? WHERE code = ?
	`, cleanedRawHTML, skillText, burstText, code)
	if err != nil {
		return fmt.Errorf("store: update extracted text for %s: %w", code, err)
	}
	return nil
}

// MarkRawCardFailed records an analysis error without setting
// is_analyzed, so the row is retried on the next pipeline pass.
func (s *Store) MarkRawCardFailed(ctx context.Context, code, attemptedAt, analysisErr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE raw_cards SET last_analyzed_at = ?, analysis_error = ? WHERE code = ?
	`, attemptedAt, analysisErr, code)
	if err != nil {
		return fmt.Errorf("store: mark raw card %s failed: %w", code, err)
	}
	return nil
}

// CardParams upserts the canonical card row keyed on code.
type CardParams struct {
	Code          string
	Pronunciation string
	Name          string
	Artist        string
	Rarity        string
	Story         string
	CardType      int
	Color         uint32
	KlassBits     uint64
	Level         sql.NullInt64
	LimitCount    sql.NullInt64
	LimitEx       sql.NullInt64
	Power         string
	Cost          string
	TimingBits    uint8
	UserText      string
	Format        int
	HasBurst      int
	SkillText     string
	BurstText     string
	FeatureBits1  uint64
	FeatureBits2  uint64
	BurstBits     uint64
	ProductID     int64
}

func (s *Store) UpsertCard(ctx context.Context, p CardParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (
			code, pronunciation, name, artist, rarity, story, card_type, color, klass_bits,
			level, limit_count, limit_ex, power, cost, timing_bits, user_text, format,
			has_burst, skill_text, burst_text, feature_bits1, feature_bits2, burst_bits, product_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			pronunciation = excluded.pronunciation,
			name = excluded.name,
			artist = excluded.artist,
			rarity = excluded.rarity,
			story = excluded.story,
			card_type = excluded.card_type,
			color = excluded.color,
			klass_bits = excluded.klass_bits,
			level = excluded.level,
			limit_count = excluded.limit_count,
			limit_ex = excluded.limit_ex,
			power = excluded.power,
			cost = excluded.cost,
			timing_bits = excluded.timing_bits,
			user_text = excluded.user_text,
			format = excluded.format,
			has_burst = excluded.has_burst,
			skill_text = excluded.skill_text,
			burst_text = excluded.burst_text,
			feature_bits1 = excluded.feature_bits1,
			feature_bits2 = excluded.feature_bits2,
			burst_bits = excluded.burst_bits,
			product_id = excluded.product_id
	`,
		p.Code, p.Pronunciation, p.Name, p.Artist, p.Rarity, p.Story, p.CardType, p.Color, p.KlassBits,
		p.Level, p.LimitCount, p.LimitEx, p.Power, p.Cost, p.TimingBits, p.UserText, p.Format,
		p.HasBurst, p.SkillText, p.BurstText, p.FeatureBits1, p.FeatureBits2, p.BurstBits, p.ProductID,
	)
	if err != nil {
		return 0, fmt.Errorf("store: upsert card %s: %w", p.Code, err)
	}

	var id int64
	row := s.db.QueryRowContext(ctx, `SELECT id FROM cards WHERE code = ?`, p.Code)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("store: fetch card id for %s: %w", p.Code, err)
	}
	return id, nil
}

const cardColumns = `id, code, pronunciation, name, artist, rarity, story, card_type, color, klass_bits,
	level, limit_count, limit_ex, power, cost, timing_bits, user_text, format,
	has_burst, skill_text, burst_text, feature_bits1, feature_bits2, burst_bits, product_id`

// Card mirrors a row of the cards table, the shape both the index
// emitter (C9) and the admin feature-override lookup read back.
type Card struct {
	ID            int64
	Code          string
	Pronunciation string
	Name          string
	Artist        string
	Rarity        string
	Story         string
	CardType      int
	Color         uint32
	KlassBits     uint64
	Level         sql.NullInt64
	LimitCount    sql.NullInt64
	LimitEx       sql.NullInt64
	Power         string
	Cost          string
	TimingBits    uint8
	UserText      string
	Format        int
	HasBurst      int
	SkillText     string
	BurstText     string
	FeatureBits1  uint64
	FeatureBits2  uint64
	BurstBits     uint64
	ProductID     int64
}

func scanCard(row interface{ Scan(...any) error }) (Card, error) {
	var c Card
	err := row.Scan(&c.ID, &c.Code, &c.Pronunciation, &c.Name, &c.Artist, &c.Rarity, &c.Story,
		&c.CardType, &c.Color, &c.KlassBits, &c.Level, &c.LimitCount, &c.LimitEx, &c.Power, &c.Cost,
		&c.TimingBits, &c.UserText, &c.Format, &c.HasBurst, &c.SkillText, &c.BurstText,
		&c.FeatureBits1, &c.FeatureBits2, &c.BurstBits, &c.ProductID)
	return c, err
}

func (s *Store) CardByCode(ctx context.Context, code string) (Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE code = ?`, code)
	c, err := scanCard(row)
	if err != nil {
		return Card{}, fmt.Errorf("store: card %s: %w", code, err)
	}
	return c, nil
}

// ListCards returns every canonical card row, ordered by id, for the
// static index emitter (C9) to project into the compact tuple table.
func (s *Store) ListCards(ctx context.Context) ([]Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list cards: %w", err)
	}
	defer rows.Close()

	var out []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan card row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RawCardURLs returns the code -> source_url mapping across every raw
// card row, for the index emitter to attach a detail-page URL to each
// canonical card without denormalizing source_url onto cards itself.
func (s *Store) RawCardURLs(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT code, source_url FROM raw_cards`)
	if err != nil {
		return nil, fmt.Errorf("store: list raw card urls: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var code, url string
		if err := rows.Scan(&code, &url); err != nil {
			return nil, fmt.Errorf("store: scan raw card url row: %w", err)
		}
		out[code] = url
	}
	return out, rows.Err()
}

// FeatureOverrideParams upserts an admin-supplied bit override keyed
// on pronunciation.
type FeatureOverrideParams struct {
	Pronunciation   string
	FixedBits1      uint64
	FixedBits2      uint64
	FixedBurstBits  uint64
	Note            string
	UpdatedAt       string
}

func (s *Store) UpsertFeatureOverride(ctx context.Context, p FeatureOverrideParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feature_overrides (pronunciation, fixed_bits1, fixed_bits2, fixed_burst_bits, note, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(pronunciation) DO UPDATE SET
			fixed_bits1 = excluded.fixed_bits1,
			fixed_bits2 = excluded.fixed_bits2,
			fixed_burst_bits = excluded.fixed_burst_bits,
			note = excluded.note,
			updated_at = excluded.updated_at
	`, p.Pronunciation, p.FixedBits1, p.FixedBits2, p.FixedBurstBits, p.Note, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: upsert feature override %s: %w", p.Pronunciation, err)
	}
	return nil
}

// FeatureOverride is a single row of the feature_overrides table.
type FeatureOverride struct {
	Pronunciation  string
	FixedBits1     uint64
	FixedBits2     uint64
	FixedBurstBits uint64
	Note           string
	UpdatedAt      string
}

// ListFeatureOverrides returns every override, most recently updated
// first, for C11's push-all sync operation.
func (s *Store) ListFeatureOverrides(ctx context.Context) ([]FeatureOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT pronunciation, fixed_bits1, fixed_bits2, fixed_burst_bits, note, updated_at
		FROM feature_overrides ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list feature overrides: %w", err)
	}
	defer rows.Close()

	var out []FeatureOverride
	for rows.Next() {
		var o FeatureOverride
		if err := rows.Scan(&o.Pronunciation, &o.FixedBits1, &o.FixedBits2, &o.FixedBurstBits, &o.Note, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan feature override row: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// FeatureOverrideByPronunciation looks up an override, returning
// sql.ErrNoRows if none exists — the analyzer (C8) treats that as "no
// override applies" rather than an error.
func (s *Store) FeatureOverrideByPronunciation(ctx context.Context, pronunciation string) (FeatureOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var o FeatureOverride
	row := s.db.QueryRowContext(ctx, `
		SELECT pronunciation, fixed_bits1, fixed_bits2, fixed_burst_bits, note, updated_at
		FROM feature_overrides WHERE pronunciation = ?
	`, pronunciation)
	if err := row.Scan(&o.Pronunciation, &o.FixedBits1, &o.FixedBits2, &o.FixedBurstBits, &o.Note, &o.UpdatedAt); err != nil {
		return FeatureOverride{}, err
	}
	return o, nil
}
