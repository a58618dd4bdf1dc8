package lookup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hazyhaar/artikel/pkg/artikel"
	_ "modernc.org/sqlite"
)

// DefaultCacheSize is the in-memory capacity used when size <= 0.
const DefaultCacheSize = 4096

type cached struct {
	ann     *Annotation
	expires time.Time
}

// Cache wraps a Source with an in-memory LRU in front of a persistent
// sqlite table. Misses are cached too, so a word unknown remotely is not
// re-fetched until its TTL runs out. Errors are never cached.
type Cache struct {
	src Source
	mem *lru.Cache[string, cached]
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
	log *slog.Logger
}

// OpenCache creates a cache over src. An empty path keeps the cache in
// memory only.
func OpenCache(src Source, path string, size int, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	mem, err := lru.New[string, cached](size)
	if err != nil {
		return nil, fmt.Errorf("lookup cache: %w", err)
	}
	c := &Cache{
		src: src,
		mem: mem,
		ttl: ttl,
		now: time.Now,
		log: logger.With("component", "lookup_cache"),
	}
	if path == "" {
		return c, nil
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open lookup cache: %w", err)
	}
	const ddl = `CREATE TABLE IF NOT EXISTS lookup_cache (
		word        TEXT PRIMARY KEY,
		title       TEXT NOT NULL DEFAULT '',
		article     TEXT NOT NULL,
		plural      TEXT NOT NULL DEFAULT '',
		source      TEXT NOT NULL DEFAULT '',
		fetched_at  INTEGER NOT NULL,
		expires_at  INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create lookup_cache table: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM lookup_cache WHERE expires_at <= ?`, c.now().Unix()); err != nil {
		db.Close()
		return nil, fmt.Errorf("purge lookup_cache: %w", err)
	}
	c.db = db
	return c, nil
}

// Close closes the sqlite connection, if any.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup serves word from memory, then sqlite, then the wrapped source.
// Entries are keyed by page title, which keeps case and ß, so "PFAU" and
// "Pfau" or "Strauß" and "Strauss" are cached apart.
func (c *Cache) Lookup(ctx context.Context, word string) (*Annotation, error) {
	key := pageTitle(word)
	if key == "" {
		return nil, nil
	}
	now := c.now()

	if e, ok := c.mem.Get(key); ok && now.Before(e.expires) {
		return e.ann, nil
	}

	if e, ok := c.load(ctx, key, now); ok {
		c.mem.Add(key, e)
		return e.ann, nil
	}

	ann, err := c.src.Lookup(ctx, word)
	if err != nil {
		return nil, err
	}
	e := cached{ann: ann, expires: now.Add(c.ttl)}
	c.mem.Add(key, e)
	c.store(ctx, key, e, now)
	return ann, nil
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int {
	return c.mem.Len()
}

func (c *Cache) load(ctx context.Context, key string, now time.Time) (cached, bool) {
	if c.db == nil {
		return cached{}, false
	}
	var (
		title, article, plural, source string
		fetchedAt, expiresAt           int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT title, article, plural, source, fetched_at, expires_at FROM lookup_cache WHERE word = ?`, key,
	).Scan(&title, &article, &plural, &source, &fetchedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return cached{}, false
	}
	if err != nil {
		c.log.WarnContext(ctx, "lookup cache read failed", "word", key, "error", err)
		return cached{}, false
	}
	expires := time.Unix(expiresAt, 0)
	if !now.Before(expires) {
		return cached{}, false
	}

	g, err := artikel.ParseGender(article)
	if err != nil {
		c.log.WarnContext(ctx, "lookup cache row corrupt", "word", key, "article", article)
		return cached{}, false
	}
	e := cached{expires: expires}
	if g != artikel.Unknown {
		e.ann = &Annotation{
			Word:       title,
			Gender:     g,
			Plural:     plural,
			Source:     source,
			Confidence: ConfidenceUnverified,
			FetchedAt:  time.Unix(fetchedAt, 0).UTC(),
		}
	}
	return e, true
}

func (c *Cache) store(ctx context.Context, key string, e cached, now time.Time) {
	if c.db == nil {
		return
	}
	var title, plural, source string
	article := artikel.Unknown.Article()
	if e.ann != nil {
		title, plural, source = e.ann.Word, e.ann.Plural, e.ann.Source
		article = e.ann.Gender.Article()
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO lookup_cache (word, title, article, plural, source, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key, title, article, plural, source, now.Unix(), e.expires.Unix(),
	)
	if err != nil {
		c.log.WarnContext(ctx, "lookup cache write failed", "word", key, "error", err)
	}
}
