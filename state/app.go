// ABOUTME: Application state owning the three synchronized mirrors
// ABOUTME: Wires document subscriptions and tracks per-document load status

package state

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vsdcomms/salesdesk/docstore"
	"github.com/vsdcomms/salesdesk/models"
)

// App owns the profile, leads, and deals mirrors. It is handed to every
// component that reads or mutates the synchronized collections; nothing
// else talks to those documents directly.
type App struct {
	Profile *Mirror[models.Profile]
	Leads   *Mirror[[]models.Lead]
	Deals   *Mirror[[]models.Deal]

	store  *docstore.Store
	logger *log.Logger

	mu            sync.Mutex
	profileLoaded bool
	leadsLoaded   bool
	dealsLoaded   bool
	cancels       []func()
}

// Open subscribes all three documents. Each mirror starts from its
// hardcoded default and is overwritten by the bootstrap snapshot before
// Open returns; remote updates afterwards overwrite unconditionally.
func Open(store *docstore.Store) (*App, error) {
	a := &App{
		Profile: newMirror(store, docstore.DocProfile, models.DefaultProfile()),
		Leads:   newMirror(store, docstore.DocLeads, []models.Lead{}),
		Deals:   newMirror(store, docstore.DocDeals, []models.Deal{}),
		store:   store,
		logger:  log.WithPrefix("state"),
	}

	if err := subscribeMirror(a, a.Profile, models.DefaultProfile(), &a.profileLoaded); err != nil {
		return nil, err
	}
	if err := subscribeMirror(a, a.Leads, []models.Lead{}, &a.leadsLoaded); err != nil {
		a.Close()
		return nil, err
	}
	if err := subscribeMirror(a, a.Deals, []models.Deal{}, &a.dealsLoaded); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func subscribeMirror[T any](a *App, m *Mirror[T], defaultValue T, loaded *bool) error {
	cancel, err := a.store.Subscribe(m.docID, defaultValue, func(raw json.RawMessage) {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			a.logger.Error("discarding malformed document", "doc", m.docID, "err", err)
			return
		}
		m.replace(v)
		a.mu.Lock()
		*loaded = true
		a.mu.Unlock()
	})
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.cancels = append(a.cancels, cancel)
	a.mu.Unlock()
	return nil
}

// Loaded reports whether all three documents have delivered a snapshot.
// Each collection tracks its own flag; none stands proxy for the others.
func (a *App) Loaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profileLoaded && a.leadsLoaded && a.dealsLoaded
}

// Flush blocks until pending remote writes have been handed to the backend.
func (a *App) Flush() {
	a.store.Flush()
}

// Close cancels all subscriptions. The store itself stays open; its owner
// closes it.
func (a *App) Close() {
	a.mu.Lock()
	cancels := a.cancels
	a.cancels = nil
	a.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}
