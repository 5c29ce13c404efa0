// Package pdacache memoizes program-derived-address searches and
// account-info lookups behind a TTL, so repeated calls for the same
// seeds or pubkey avoid both a CPU-bound bump search and a network
// round trip. It is purely an optimization: every hit is reproducible
// by calling solkey.FindAddress or getAccountInfo directly. It does not
// compute or fetch anything itself: on a miss GetPDA and GetAccountInfo
// report ok=false, and the caller stores fresh results with PutPDA and
// PutAccountInfo.
package pdacache

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jellydator/ttlcache/v3"
	_ "modernc.org/sqlite"

	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/solkey"
)

// PDAEntry is a cached program-derived-address search result.
type PDAEntry struct {
	Address solkey.Key
	Bump    byte
}

// AccountInfoEntry is a cached getAccountInfo result for one commitment.
type AccountInfoEntry struct {
	Commitment string
	Payload    []byte
}

// Cache is a two-level read-through cache: an in-process ttlcache layer
// in front of a sqlite-backed table that survives process restarts.
type Cache struct {
	db  *sql.DB
	ttl time.Duration

	pdaMem     *ttlcache.Cache[string, PDAEntry]
	accountMem *ttlcache.Cache[string, AccountInfoEntry]
}

// Open opens (creating if absent) a sqlite database at path with WAL
// mode, ensures the pda_cache and account_info_cache tables exist, and
// wires an in-process ttlcache layer with the given ttl in front of it.
// ttl <= 0 uses config.PDACacheTTL.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = config.PDACacheTTL
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("pdacache: create directory %q: %w", dir, err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("pdacache: open database %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pdacache: ping database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("pdacache: enable WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	pdaMem := ttlcache.New(ttlcache.WithTTL[string, PDAEntry](ttl))
	accountMem := ttlcache.New(ttlcache.WithTTL[string, AccountInfoEntry](ttl))
	go pdaMem.Start()
	go accountMem.Start()

	return &Cache{db: db, ttl: ttl, pdaMem: pdaMem, accountMem: accountMem}, nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pda_cache (
			key_hash   TEXT PRIMARY KEY,
			address    TEXT NOT NULL,
			bump       INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS account_info_cache (
			pubkey     TEXT NOT NULL,
			commitment TEXT NOT NULL,
			payload    BLOB NOT NULL,
			expires_at INTEGER NOT NULL,
			PRIMARY KEY (pubkey, commitment)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("pdacache: create schema: %w", err)
		}
	}
	return nil
}

// Close stops the in-process layers and closes the database connection.
func (c *Cache) Close() error {
	c.pdaMem.Stop()
	c.accountMem.Stop()
	return c.db.Close()
}

// pdaKey hashes a seed list plus program id into a stable cache key,
// matching the key_hash column's documented derivation: sha256(seeds ‖
// program_id).
func pdaKey(seeds []solkey.Seed, programID solkey.Key) string {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	return fmt.Sprintf("%x", h.Sum(nil))
}

// GetPDA returns a previously cached FindAddress result, checking the
// in-process layer first and falling back to sqlite. ok is false on a
// miss or an expired row.
func (c *Cache) GetPDA(seeds []solkey.Seed, programID solkey.Key) (PDAEntry, bool, error) {
	key := pdaKey(seeds, programID)

	if item := c.pdaMem.Get(key); item != nil && !item.IsExpired() {
		return item.Value(), true, nil
	}

	var addressStr string
	var bump int
	var expiresAt int64
	err := c.db.QueryRow(
		`SELECT address, bump, expires_at FROM pda_cache WHERE key_hash = ?`, key,
	).Scan(&addressStr, &bump, &expiresAt)
	if err == sql.ErrNoRows {
		return PDAEntry{}, false, nil
	}
	if err != nil {
		return PDAEntry{}, false, fmt.Errorf("pdacache: query pda_cache: %w", err)
	}
	if time.Unix(expiresAt, 0).Before(time.Now()) {
		return PDAEntry{}, false, nil
	}

	address, err := solkey.Decode(addressStr)
	if err != nil {
		return PDAEntry{}, false, fmt.Errorf("pdacache: decode cached address: %w", err)
	}
	entry := PDAEntry{Address: address, Bump: byte(bump)}
	c.pdaMem.Set(key, entry, ttlcache.DefaultTTL)
	return entry, true, nil
}

// PutPDA writes a FindAddress result through to both cache layers.
func (c *Cache) PutPDA(seeds []solkey.Seed, programID solkey.Key, entry PDAEntry) error {
	key := pdaKey(seeds, programID)
	expiresAt := time.Now().Add(c.ttl).Unix()

	_, err := c.db.Exec(
		`INSERT INTO pda_cache (key_hash, address, bump, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key_hash) DO UPDATE SET address = excluded.address, bump = excluded.bump, expires_at = excluded.expires_at`,
		key, entry.Address.ToBase58(), int(entry.Bump), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("pdacache: write pda_cache: %w", err)
	}

	c.pdaMem.Set(key, entry, ttlcache.DefaultTTL)
	return nil
}

// GetAccountInfo returns a previously cached getAccountInfo payload for
// pubkey at the given commitment level.
func (c *Cache) GetAccountInfo(pubkey solkey.Key, commitment string) (AccountInfoEntry, bool, error) {
	memKey := pubkey.ToBase58() + "/" + commitment

	if item := c.accountMem.Get(memKey); item != nil && !item.IsExpired() {
		return item.Value(), true, nil
	}

	var payload []byte
	var expiresAt int64
	err := c.db.QueryRow(
		`SELECT payload, expires_at FROM account_info_cache WHERE pubkey = ? AND commitment = ?`,
		pubkey.ToBase58(), commitment,
	).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return AccountInfoEntry{}, false, nil
	}
	if err != nil {
		return AccountInfoEntry{}, false, fmt.Errorf("pdacache: query account_info_cache: %w", err)
	}
	if time.Unix(expiresAt, 0).Before(time.Now()) {
		return AccountInfoEntry{}, false, nil
	}

	entry := AccountInfoEntry{Commitment: commitment, Payload: payload}
	c.accountMem.Set(memKey, entry, ttlcache.DefaultTTL)
	return entry, true, nil
}

// PutAccountInfo writes a getAccountInfo payload through to both layers.
func (c *Cache) PutAccountInfo(pubkey solkey.Key, entry AccountInfoEntry) error {
	memKey := pubkey.ToBase58() + "/" + entry.Commitment
	expiresAt := time.Now().Add(c.ttl).Unix()

	_, err := c.db.Exec(
		`INSERT INTO account_info_cache (pubkey, commitment, payload, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(pubkey, commitment) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		pubkey.ToBase58(), entry.Commitment, entry.Payload, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("pdacache: write account_info_cache: %w", err)
	}

	c.accountMem.Set(memKey, entry, ttlcache.DefaultTTL)
	return nil
}

// PurgeExpired deletes rows past their expiry from both sqlite tables.
// The in-process layers self-expire and need no explicit sweep.
func (c *Cache) PurgeExpired() error {
	now := time.Now().Unix()
	if _, err := c.db.Exec(`DELETE FROM pda_cache WHERE expires_at < ?`, now); err != nil {
		return fmt.Errorf("pdacache: purge pda_cache: %w", err)
	}
	if _, err := c.db.Exec(`DELETE FROM account_info_cache WHERE expires_at < ?`, now); err != nil {
		return fmt.Errorf("pdacache: purge account_info_cache: %w", err)
	}
	slog.Debug("pdacache: purged expired entries")
	return nil
}
