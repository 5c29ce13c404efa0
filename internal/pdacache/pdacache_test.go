package pdacache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/solforge/svmsdk/internal/solkey"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pdacache.db")
	cache, err := Open(dbPath, time.Hour)
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func testKey(b byte) solkey.Key {
	var k solkey.Key
	k[0] = b
	return k
}

func TestPDA_MissThenHitAfterPut(t *testing.T) {
	cache := newTestCache(t)
	seeds := []solkey.Seed{solkey.SeedByte(1)}
	programID := testKey(9)

	_, ok, err := cache.GetPDA(seeds, programID)
	if err != nil {
		t.Fatalf("GetPDA error = %v", err)
	}
	if ok {
		t.Fatal("expected a miss before any Put")
	}

	want := PDAEntry{Address: testKey(42), Bump: 254}
	if err := cache.PutPDA(seeds, programID, want); err != nil {
		t.Fatalf("PutPDA error = %v", err)
	}

	got, ok, err := cache.GetPDA(seeds, programID)
	if err != nil {
		t.Fatalf("GetPDA error = %v", err)
	}
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if got != want {
		t.Errorf("GetPDA = %+v, want %+v", got, want)
	}
}

func TestPDA_SurvivesInProcessCacheEviction(t *testing.T) {
	// Simulate a cold in-process cache (e.g. after a restart) by opening
	// a second Cache handle against the same sqlite file.
	dbPath := filepath.Join(t.TempDir(), "pdacache.db")
	first, err := Open(dbPath, time.Hour)
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	defer first.Close()

	seeds := []solkey.Seed{solkey.SeedByte(7)}
	programID := testKey(3)
	want := PDAEntry{Address: testKey(99), Bump: 1}
	if err := first.PutPDA(seeds, programID, want); err != nil {
		t.Fatalf("PutPDA error = %v", err)
	}

	second, err := Open(dbPath, time.Hour)
	if err != nil {
		t.Fatalf("second Open error = %v", err)
	}
	defer second.Close()

	got, ok, err := second.GetPDA(seeds, programID)
	if err != nil {
		t.Fatalf("GetPDA error = %v", err)
	}
	if !ok {
		t.Fatal("expected the sqlite layer to survive a fresh Cache handle")
	}
	if got != want {
		t.Errorf("GetPDA = %+v, want %+v", got, want)
	}
}

func TestAccountInfo_MissThenHitAfterPut(t *testing.T) {
	cache := newTestCache(t)
	pubkey := testKey(5)

	_, ok, err := cache.GetAccountInfo(pubkey, "confirmed")
	if err != nil {
		t.Fatalf("GetAccountInfo error = %v", err)
	}
	if ok {
		t.Fatal("expected a miss before any Put")
	}

	want := AccountInfoEntry{Commitment: "confirmed", Payload: []byte("owner-bytes")}
	if err := cache.PutAccountInfo(pubkey, want); err != nil {
		t.Fatalf("PutAccountInfo error = %v", err)
	}

	got, ok, err := cache.GetAccountInfo(pubkey, "confirmed")
	if err != nil {
		t.Fatalf("GetAccountInfo error = %v", err)
	}
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if string(got.Payload) != string(want.Payload) {
		t.Errorf("Payload = %q, want %q", got.Payload, want.Payload)
	}
}

func TestAccountInfo_CommitmentLevelsAreDistinctKeys(t *testing.T) {
	cache := newTestCache(t)
	pubkey := testKey(11)

	if err := cache.PutAccountInfo(pubkey, AccountInfoEntry{Commitment: "processed", Payload: []byte("p")}); err != nil {
		t.Fatalf("PutAccountInfo error = %v", err)
	}

	_, ok, err := cache.GetAccountInfo(pubkey, "finalized")
	if err != nil {
		t.Fatalf("GetAccountInfo error = %v", err)
	}
	if ok {
		t.Fatal("expected commitment levels to be cached independently")
	}
}

func TestPurgeExpired_RemovesPastEntries(t *testing.T) {
	cache := newTestCache(t)

	seeds := []solkey.Seed{solkey.SeedByte(2)}
	programID := testKey(4)
	if err := cache.PutPDA(seeds, programID, PDAEntry{Address: testKey(1), Bump: 255}); err != nil {
		t.Fatalf("PutPDA error = %v", err)
	}
	// Force the row into the past directly; PutPDA itself always
	// stamps a future expiry under a positive TTL.
	if _, err := cache.db.Exec(`UPDATE pda_cache SET expires_at = ?`, time.Now().Add(-time.Hour).Unix()); err != nil {
		t.Fatalf("backdate expires_at error = %v", err)
	}

	if err := cache.PurgeExpired(); err != nil {
		t.Fatalf("PurgeExpired error = %v", err)
	}

	var count int
	if err := cache.db.QueryRow(`SELECT COUNT(*) FROM pda_cache`).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 0 {
		t.Errorf("pda_cache row count = %d, want 0 after purge", count)
	}
}
