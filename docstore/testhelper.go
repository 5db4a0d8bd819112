// ABOUTME: Test utilities for creating isolated document store clients
// ABOUTME: Uses temporary directories with BadgerDB for test isolation

package docstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v3"
)

// testKV wraps BadgerDB to provide the same interface as charm/kv.KV
// for testing without requiring server connectivity.
type testKV struct {
	db *badger.DB
}

func (t *testKV) Get(key []byte) ([]byte, error) {
	var result []byte
	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	return result, err
}

func (t *testKV) Set(key, value []byte) error {
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (t *testKV) Delete(key []byte) error {
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (t *testKV) Keys() ([][]byte, error) {
	var keys [][]byte
	err := t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func (t *testKV) Close() error {
	return t.db.Close()
}

// testClient wraps testKV to match the Client surface without the charm/kv
// dependency. The mutex provides thread safety for parallel test operations.
type testClient struct {
	tkv    *testKV
	config *Config
	mu     sync.RWMutex
}

func (c *testClient) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tkv.Get(key)
}

func (c *testClient) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tkv.Set(key, value)
}

func (c *testClient) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tkv.Delete(key)
}

func (c *testClient) Keys() ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tkv.Keys()
}

func (c *testClient) Config() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *testClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tkv.Close()
}

// NewTestClient creates a document store client backed by a temporary
// BadgerDB, avoiding the charm server dependency. Cleanup is registered on
// the test.
func NewTestClient(t *testing.T) *Client {
	t.Helper()

	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, AppName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		t.Fatalf("Failed to create data dir: %v", err)
	}

	opts := badger.DefaultOptions(dataDir).
		WithLogger(nil) // Suppress badger logs in tests

	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}

	tc := &testClient{
		tkv: &testKV{db: db},
		config: &Config{
			Host:         "localhost",
			AutoSync:     false,
			SyncInterval: DefaultSyncInterval,
		},
	}

	c := &Client{
		kv:         nil, // Use test implementation
		config:     tc.config,
		testClient: tc,
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	return c
}

// NewTestStore creates a Store over a temp-backed client. PushRemote on the
// returned store simulates another device writing the document.
func NewTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(NewTestClient(t))
	t.Cleanup(func() { _ = s.closeLoops() })
	return s
}

// PushRemote writes a document directly to the backend, bypassing the
// subscriber bookkeeping, then runs a poll pass so subscribers observe it.
func (s *Store) PushRemote(t *testing.T, docID string, value any) {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal remote value: %v", err)
	}
	if err := s.client.Set(docKey(docID), data); err != nil {
		t.Fatalf("push remote value: %v", err)
	}
	s.Refresh()
}

// closeLoops stops background goroutines without closing the client, whose
// badger handle is cleaned up by the test helper.
func (s *Store) closeLoops() error {
	s.Flush()
	close(s.done)
	s.wg.Wait()
	return nil
}
