// ABOUTME: Pending forecast edits staged per deal until confirm or cancel
// ABOUTME: Side-map state machine, never written through before Confirm

package tracker

import (
	"fmt"
	"sync"

	"github.com/vsdcomms/salesdesk/models"
)

// DealApplier commits a merged deal. Satisfied by state.App.
type DealApplier interface {
	ApplyDealChanges(id string, fn func(models.Deal) models.Deal) error
}

// Changes is the staged partial for one deal. Nil fields were never
// touched in this editing session and must not be written on Confirm.
type Changes struct {
	PoPct    *int
	PoMonth  *string
	InvPct   *int
	InvMonth *string
}

func (c Changes) empty() bool {
	return c.PoPct == nil && c.PoMonth == nil && c.InvPct == nil && c.InvMonth == nil
}

// Pending holds forecast edits that have not been committed yet. Edits
// accumulate per deal; Confirm writes exactly the staged fields through
// the mirror and Cancel discards them, leaving the deal untouched.
type Pending struct {
	mu     sync.Mutex
	staged map[string]*Changes
}

// NewPending returns an empty staging area.
func NewPending() *Pending {
	return &Pending{staged: make(map[string]*Changes)}
}

var validPoPct = map[int]bool{0: true, 25: true, 50: true, 75: true, 100: true}
var validInvPct = map[int]bool{0: true, 50: true, 100: true}

func validMonth(m string) bool {
	for _, name := range models.Months {
		if name == m {
			return true
		}
	}
	return m == models.UnscheduledBucket || m == ""
}

func (p *Pending) entry(id string) *Changes {
	c, ok := p.staged[id]
	if !ok {
		c = &Changes{}
		p.staged[id] = c
	}
	return c
}

// StagePoPercentage stages a purchase-order likelihood for the deal.
func (p *Pending) StagePoPercentage(id string, pct int) error {
	if !validPoPct[pct] {
		return fmt.Errorf("po percentage must be one of 0, 25, 50, 75, 100; got %d", pct)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entry(id).PoPct = &pct
	return nil
}

// StagePoMonth stages the expected purchase-order month.
func (p *Pending) StagePoMonth(id, month string) error {
	if !validMonth(month) {
		return fmt.Errorf("unknown month %q", month)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entry(id).PoMonth = &month
	return nil
}

// StageInvoicePercentage stages an invoicing likelihood for the deal.
func (p *Pending) StageInvoicePercentage(id string, pct int) error {
	if !validInvPct[pct] {
		return fmt.Errorf("invoice percentage must be one of 0, 50, 100; got %d", pct)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entry(id).InvPct = &pct
	return nil
}

// StageInvoiceMonth stages the estimated invoicing month.
func (p *Pending) StageInvoiceMonth(id, month string) error {
	if !validMonth(month) {
		return fmt.Errorf("unknown month %q", month)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entry(id).InvMonth = &month
	return nil
}

// Staged returns a copy of the staged changes for the deal.
func (p *Pending) Staged(id string) (Changes, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.staged[id]
	if !ok {
		return Changes{}, false
	}
	return *c, true
}

// PendingIDs lists deals with uncommitted edits.
func (p *Pending) PendingIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.staged))
	for id := range p.staged {
		ids = append(ids, id)
	}
	return ids
}

// Confirm merges the staged fields into the deal and clears the entry.
// Fields never staged keep their existing values. Confirming a deal with
// nothing staged is a no-op. The entry survives a failed apply so the
// user can retry or cancel.
func (p *Pending) Confirm(id string, app DealApplier) error {
	p.mu.Lock()
	c, ok := p.staged[id]
	p.mu.Unlock()
	if !ok || c.empty() {
		return nil
	}

	err := app.ApplyDealChanges(id, func(d models.Deal) models.Deal {
		if c.PoPct != nil {
			v := *c.PoPct
			d.ForecastedPoPercentage = &v
		}
		if c.PoMonth != nil {
			d.ForecastedPoMonth = *c.PoMonth
		}
		if c.InvPct != nil {
			v := *c.InvPct
			d.ForecastedInvoicePercentage = &v
		}
		if c.InvMonth != nil {
			d.EstimatedInvoiceMonth = *c.InvMonth
		}
		return d
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	delete(p.staged, id)
	p.mu.Unlock()
	return nil
}

// Cancel discards the staged entry, leaving the deal exactly as it was.
func (p *Pending) Cancel(id string) {
	p.mu.Lock()
	delete(p.staged, id)
	p.mu.Unlock()
}
