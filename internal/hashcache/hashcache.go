// Package hashcache provides persistent caching of content fingerprints
// keyed by file identity, using BoltDB. Grounded on the teacher's
// internal/cache self-cleaning read/write-database pattern: each run opens
// the existing database read-only and writes a fresh one, atomically
// swapping it in on Close so entries that were never looked up age out on
// their own.
//
// Scope is deliberately narrow: only fingerprints are cached here, never
// detection results (groups, scores, clusters). Persisting those would
// make a scan's output depend on a stale run's state, which the "no
// persistent state across runs" design goal rules out — see DESIGN.md.
package hashcache

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "fingerprints"

// Cache provides persistent fingerprint caching. Safe for concurrent use by
// multiple goroutines processing files within one run.
type Cache struct {
	readDB  *bolt.DB
	writeDB *bolt.DB
	path    string
	enabled bool
}

// Open opens the existing cache at path for reading and creates a fresh one
// for writing. Returns a disabled cache if path is empty, matching the
// no-cache default.
func Open(path string) (*Cache, error) {
	if path == "" {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	c := &Cache{path: path, enabled: true}

	if _, statErr := os.Stat(path); statErr == nil {
		readDB, err := bolt.Open(path, 0o600, &bolt.Options{
			ReadOnly: true,
			Timeout:  1 * time.Second,
		})
		if err == nil {
			c.readDB = readDB
		}
	}

	newPath := path + ".new"
	writeDB, err := bolt.Open(newPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("create new cache (locked by another instance?): %w", err)
	}
	c.writeDB = writeDB

	if err := c.writeDB.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// Close closes both databases and atomically swaps the new one in, but only
// if it closed cleanly, to avoid losing the prior cache on a write error.
func (c *Cache) Close() error {
	var firstErr error

	if c.readDB != nil {
		if err := c.readDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.writeDB != nil {
		if err := c.writeDB.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else if err := os.Rename(c.path+".new", c.path); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

const keyVersion byte = 1

// Identity is the file-identity tuple a fingerprint is cached against: any
// change invalidates the cached entry.
type Identity struct {
	ProviderName string
	FileID       string
	Size         int64
	ModTime      time.Time
}

// makeKey builds a deterministic byte key: ver(1) + provider + NUL + fileID
// + NUL + size(8) + modTime(8).
func makeKey(id Identity) []byte {
	buf := make([]byte, 0, 1+len(id.ProviderName)+1+len(id.FileID)+1+8+8)
	buf = append(buf, keyVersion)
	buf = append(buf, id.ProviderName...)
	buf = append(buf, 0)
	buf = append(buf, id.FileID...)
	buf = append(buf, 0)
	buf = binary.BigEndian.AppendUint64(buf, uint64(id.Size))
	buf = binary.BigEndian.AppendUint64(buf, uint64(id.ModTime.UnixNano()))
	return buf
}

// Lookup retrieves a cached fingerprint for id, from entries stored earlier
// in this run or carried over from the previous run. A hit from the previous
// run is copied into the write database so it survives this run's atomic
// swap. Returns ("", false) on a miss or when the cache is disabled.
func (c *Cache) Lookup(id Identity) (string, bool) {
	if !c.enabled {
		return "", false
	}

	key := makeKey(id)
	get := func(db *bolt.DB) string {
		var fingerprint string
		if db == nil {
			return ""
		}
		_ = db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(bucketName))
			if b == nil {
				return nil
			}
			if data := b.Get(key); data != nil {
				fingerprint = string(data)
			}
			return nil
		})
		return fingerprint
	}

	if fingerprint := get(c.writeDB); fingerprint != "" {
		return fingerprint, true
	}
	fingerprint := get(c.readDB)
	if fingerprint == "" {
		return "", false
	}

	c.Store(id, fingerprint)
	return fingerprint, true
}

// Store saves fingerprint for id in the write database. No-op if the cache
// is disabled.
func (c *Cache) Store(id Identity, fingerprint string) {
	if !c.enabled || c.writeDB == nil || fingerprint == "" {
		return
	}

	_ = c.writeDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.Put(makeKey(id), []byte(fingerprint))
	})
}
