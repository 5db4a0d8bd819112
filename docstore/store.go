// ABOUTME: Document store adapter over the cloud KV client
// ABOUTME: Snapshot subscriptions with default bootstrap and fire-and-forget writes

package docstore

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Well-known document IDs for the synchronized entities.
const (
	DocProfile = "profile"
	DocLeads   = "leads"
	DocDeals   = "deals"
)

// UpdateFunc receives the latest snapshot of a subscribed document.
type UpdateFunc func(raw json.RawMessage)

type subscription struct {
	docID     string
	onUpdate  UpdateFunc
	lastSeen  []byte
	cancelled bool
}

// Store provides document-granular subscribe/write semantics on top of the
// KV client. Writes are full-document overwrites; failures are logged and
// swallowed so the caller's optimistic local state is never rolled back.
type Store struct {
	client *Client
	logger *log.Logger

	mu     sync.Mutex
	subs   map[int]*subscription
	nextID int

	writeCh chan writeReq
	done    chan struct{}
	wg      sync.WaitGroup
}

type writeReq struct {
	docID string
	data  []byte
}

// NewStore wraps a client and starts the background writer and the remote
// poll loop.
func NewStore(client *Client) *Store {
	s := &Store{
		client:  client,
		logger:  log.WithPrefix("docstore"),
		subs:    make(map[int]*subscription),
		writeCh: make(chan writeReq, 256),
		done:    make(chan struct{}),
	}

	s.wg.Add(2)
	go s.writeLoop()
	go s.pollLoop(client.Config().SyncInterval)

	return s
}

func docKey(docID string) []byte {
	return []byte("doc:" + docID)
}

// Subscribe registers onUpdate for a document and returns a cancel func.
//
// If the document does not exist remotely yet, defaultValue is written once
// and onUpdate fires immediately with it; a later re-subscribe finds the
// document present and does not re-trigger the default write. Every remote
// change observed afterwards invokes onUpdate with the latest snapshot.
// After cancel returns no further invocations happen, even for polls already
// in flight; dispatch and cancellation are serialized on the store mutex.
func (s *Store) Subscribe(docID string, defaultValue any, onUpdate UpdateFunc) (func(), error) {
	defBytes, err := json.Marshal(defaultValue)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.client.Get(docKey(docID))
	if err == ErrNotFound {
		// Bootstrap: write the default synchronously so a concurrent
		// re-subscribe sees the document as present.
		if serr := s.client.Set(docKey(docID), defBytes); serr != nil {
			s.logger.Error("default bootstrap write failed", "doc", docID, "err", serr)
		}
		current = defBytes
	} else if err != nil {
		s.logger.Error("initial read failed, serving default", "doc", docID, "err", err)
		current = defBytes
	}

	sub := &subscription{
		docID:    docID,
		onUpdate: onUpdate,
		lastSeen: current,
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = sub

	onUpdate(current)

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		sub.cancelled = true
		delete(s.subs, id)
	}
	return cancel, nil
}

// Write performs a fire-and-forget full-document overwrite. Serialization
// failures are logged and dropped; network failures surface only in logs.
// Writes to the backend are serialized in submission order by a single
// writer goroutine, so a later snapshot never loses to an earlier one.
func (s *Store) Write(docID string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("marshal failed, dropping write", "doc", docID, "err", err)
		return
	}

	// Record our own write as the last-seen snapshot so the next poll does
	// not echo it back to subscribers.
	s.mu.Lock()
	for _, sub := range s.subs {
		if sub.docID == docID {
			sub.lastSeen = data
		}
	}
	s.mu.Unlock()

	select {
	case s.writeCh <- writeReq{docID: docID, data: data}:
	case <-s.done:
	}
}

// Refresh runs one poll pass synchronously: pull remote changes and notify
// subscribers whose documents changed. The poll loop calls this on a timer;
// tests call it directly for determinism.
func (s *Store) Refresh() {
	if err := s.client.Sync(); err != nil {
		s.logger.Warn("remote sync failed", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.cancelled {
			continue
		}
		data, err := s.client.Get(docKey(sub.docID))
		if err != nil {
			if err != ErrNotFound {
				s.logger.Warn("poll read failed", "doc", sub.docID, "err", err)
			}
			continue
		}
		if string(data) == string(sub.lastSeen) {
			continue
		}
		sub.lastSeen = data
		sub.onUpdate(data)
	}
}

func (s *Store) pollLoop(interval time.Duration) {
	defer s.wg.Done()
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Refresh()
		case <-s.done:
			return
		}
	}
}

func (s *Store) writeLoop() {
	defer s.wg.Done()
	for {
		select {
		case req := <-s.writeCh:
			if err := s.client.Set(docKey(req.docID), req.data); err != nil {
				// Availability over consistency: the local copy stays
				// authoritative even when the remote write is lost.
				s.logger.Warn("remote write failed", "doc", req.docID, "err", err)
			}
		case <-s.done:
			// Drain pending writes before shutting down.
			for {
				select {
				case req := <-s.writeCh:
					if err := s.client.Set(docKey(req.docID), req.data); err != nil {
						s.logger.Warn("remote write failed during drain", "doc", req.docID, "err", err)
					}
				default:
					return
				}
			}
		}
	}
}

// Flush blocks until writes enqueued before the call have been handed to
// the backend. Used by CLI commands that exit right after a mutation.
func (s *Store) Flush() {
	for {
		s.mu.Lock()
		pending := len(s.writeCh)
		s.mu.Unlock()
		if pending == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Close stops the background loops and releases the client.
func (s *Store) Close() error {
	s.Flush()
	close(s.done)
	s.wg.Wait()
	return s.client.Close()
}
