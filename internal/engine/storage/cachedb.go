package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/islandforge/archipelago/internal/engine/decor"
)

// CacheDB is the persistent tier of the placement cache: a sqlite table
// of zstd-compressed placement lists keyed the same way as the
// in-memory cache. Revisiting an island after a relaunch skips grid
// analysis entirely.
//
// Read failures are treated as cache misses, never as errors.
type CacheDB struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
	log *slog.Logger
}

var _ decor.PersistentStore = (*CacheDB)(nil)

// OpenCacheDB opens (creating if needed) the placement database at path.
func OpenCacheDB(path string, log *slog.Logger) (*CacheDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS placements (
			key        TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			created_at INTEGER NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create placements table: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &CacheDB{db: db, enc: enc, dec: dec, log: log}, nil
}

// Load returns the placement list stored under key, if any.
func (c *CacheDB) Load(key decor.Key) ([]decor.Placement, bool) {
	var payload []byte
	err := c.db.QueryRow(`SELECT payload FROM placements WHERE key = ?`, key.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		c.log.Warn("cache db read", "key", key.String(), "error", err)
		return nil, false
	}

	raw, err := c.dec.DecodeAll(payload, nil)
	if err != nil {
		c.log.Warn("cache db decompress", "key", key.String(), "error", err)
		return nil, false
	}
	var placements []decor.Placement
	if err := json.Unmarshal(raw, &placements); err != nil {
		c.log.Warn("cache db decode", "key", key.String(), "error", err)
		return nil, false
	}
	if placements == nil {
		placements = []decor.Placement{}
	}
	return placements, true
}

// Save writes the placement list under key, replacing any previous
// value.
func (c *CacheDB) Save(key decor.Key, placements []decor.Placement) error {
	raw, err := json.Marshal(placements)
	if err != nil {
		return fmt.Errorf("encode placements: %w", err)
	}
	payload := c.enc.EncodeAll(raw, nil)

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO placements (key, payload, created_at) VALUES (?, ?, ?)`,
		key.String(), payload, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("write placements: %w", err)
	}
	return nil
}

// Clear drops every stored placement list.
func (c *CacheDB) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM placements`); err != nil {
		return fmt.Errorf("clear placements: %w", err)
	}
	return nil
}

// Len returns the number of stored entries.
func (c *CacheDB) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM placements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count placements: %w", err)
	}
	return n, nil
}

// Close releases the database and codec resources.
func (c *CacheDB) Close() error {
	c.enc.Close()
	c.dec.Close()
	return c.db.Close()
}
