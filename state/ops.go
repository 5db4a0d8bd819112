// ABOUTME: Entity operations over the synchronized collections
// ABOUTME: Lead and deal mutations with validation, cascade, and history rules

package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vsdcomms/salesdesk/models"
)

// ErrNotFound is returned when an operation targets an unknown entity id.
var ErrNotFound = errors.New("state: entity not found")

func today() string {
	return time.Now().Format("2006-01-02")
}

func nowStamp() string {
	return time.Now().Format(time.RFC3339)
}

// AddLead validates and prepends a lead. Newest first is the display order
// for both synchronized collections.
func (a *App) AddLead(lead models.Lead) (models.Lead, error) {
	if strings.TrimSpace(lead.Name) == "" || strings.TrimSpace(lead.CompanyName) == "" {
		return models.Lead{}, errors.New("lead requires a name and a company name")
	}
	if lead.ID == "" {
		lead.ID = models.NewID()
	}
	a.Leads.Update(func(leads []models.Lead) []models.Lead {
		return append([]models.Lead{lead}, leads...)
	})
	return lead, nil
}

// UpdateLead replaces the lead with the matching id.
func (a *App) UpdateLead(lead models.Lead) error {
	found := false
	a.Leads.Update(func(leads []models.Lead) []models.Lead {
		out := make([]models.Lead, len(leads))
		for i, l := range leads {
			if l.ID == lead.ID {
				out[i] = lead
				found = true
			} else {
				out[i] = l
			}
		}
		return out
	})
	if !found {
		return fmt.Errorf("lead %s: %w", lead.ID, ErrNotFound)
	}
	return nil
}

// SaveLeadNotes updates only the free-text notes on a lead.
func (a *App) SaveLeadNotes(id, notes string) error {
	found := false
	a.Leads.Update(func(leads []models.Lead) []models.Lead {
		out := make([]models.Lead, len(leads))
		for i, l := range leads {
			if l.ID == id {
				l.UserNotes = notes
				found = true
			}
			out[i] = l
		}
		return out
	})
	if !found {
		return fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteLead removes a lead and cascades to every deal whose contact is
// that lead. The cascade is unconditional; deals must not outlive their
// contact person.
func (a *App) DeleteLead(id string) error {
	found := false
	a.Leads.Update(func(leads []models.Lead) []models.Lead {
		out := leads[:0:0]
		for _, l := range leads {
			if l.ID == id {
				found = true
				continue
			}
			out = append(out, l)
		}
		return out
	})
	if !found {
		return fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	a.Deals.Update(func(deals []models.Deal) []models.Deal {
		out := deals[:0:0]
		for _, d := range deals {
			if d.ContactPersonID == id {
				continue
			}
			out = append(out, d)
		}
		return out
	})
	return nil
}

// FindLead returns the lead with the given id.
func (a *App) FindLead(id string) (models.Lead, bool) {
	for _, l := range a.Leads.Current() {
		if l.ID == id {
			return l, true
		}
	}
	return models.Lead{}, false
}

// AddDeal validates, fills defaults, seeds the activity and stage
// histories, and prepends the deal. The returned advisory is true when the
// new deal lands in an early stage and the caller should offer a follow-up
// reminder.
func (a *App) AddDeal(deal models.Deal) (models.Deal, bool, error) {
	if strings.TrimSpace(deal.Description) == "" || strings.TrimSpace(deal.ContactPersonName) == "" {
		return models.Deal{}, false, errors.New("deal requires a description and a contact person")
	}

	// The seed log entry keeps the raw activity text; the summary field
	// gets a friendlier default when none was given.
	rawActivity := deal.Activity

	if deal.ID == "" {
		deal.ID = models.NewID()
	}
	if deal.DecisionMaker == "" {
		deal.DecisionMaker = "Unknown"
	}
	if deal.Activity == "" {
		deal.Activity = "Opportunity identified"
	}
	if deal.Date == "" {
		deal.Date = today()
	}
	if deal.PipelineStatus == "" {
		deal.PipelineStatus = models.StatusProspecting
	}
	if !models.IsValidStatus(deal.PipelineStatus) {
		return models.Deal{}, false, fmt.Errorf("unknown pipeline status %q", deal.PipelineStatus)
	}

	seedNotes := rawActivity
	if seedNotes == "" {
		seedNotes = "Deal Created"
	}
	deal.ActivityHistory = []models.ActivityLogEntry{{
		ID:        models.NewID(),
		Date:      deal.Date,
		Type:      models.ActivityOther,
		Notes:     seedNotes,
		CreatedAt: nowStamp(),
	}}
	deal.StageHistory = []models.StageHistoryEntry{{
		Stage: deal.PipelineStatus,
		Date:  nowStamp(),
	}}

	a.Deals.Update(func(deals []models.Deal) []models.Deal {
		return append([]models.Deal{deal}, deals...)
	})

	advisory := deal.PipelineStatus == models.StatusProspecting || deal.PipelineStatus == models.StatusPotential
	return deal, advisory, nil
}

// UpdateDealStatus commits a stage transition immediately and appends to
// the stage history. Status changes never go through forecast staging.
// The advisory result is true for transitions back to Prospecting or
// Potential, where a re-engagement reminder should be offered.
func (a *App) UpdateDealStatus(id, status string) (bool, error) {
	if !models.IsValidStatus(status) {
		return false, fmt.Errorf("unknown pipeline status %q", status)
	}
	found := false
	a.Deals.Update(func(deals []models.Deal) []models.Deal {
		out := make([]models.Deal, len(deals))
		for i, d := range deals {
			if d.ID == id {
				d.PipelineStatus = status
				d.StageHistory = append(d.StageHistory, models.StageHistoryEntry{
					Stage: status,
					Date:  nowStamp(),
				})
				found = true
			}
			out[i] = d
		}
		return out
	})
	if !found {
		return false, fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	advisory := status == models.StatusProspecting || status == models.StatusPotential
	return advisory, nil
}

// AppendActivity prepends a log entry and refreshes the denormalized
// activity summary and date in the same update, so readers never see the
// summary ahead of the history.
func (a *App) AppendActivity(dealID string, entry models.ActivityLogEntry) error {
	if strings.TrimSpace(entry.Notes) == "" {
		return errors.New("activity entry requires notes")
	}
	if entry.ID == "" {
		entry.ID = models.NewID()
	}
	if entry.Date == "" {
		entry.Date = today()
	}
	if entry.Type == "" {
		entry.Type = models.ActivityOther
	}
	if entry.CreatedAt == "" {
		entry.CreatedAt = nowStamp()
	}
	found := false
	a.Deals.Update(func(deals []models.Deal) []models.Deal {
		out := make([]models.Deal, len(deals))
		for i, d := range deals {
			if d.ID == dealID {
				d.Activity = entry.Notes
				d.Date = entry.Date
				d.ActivityHistory = append([]models.ActivityLogEntry{entry}, d.ActivityHistory...)
				found = true
			}
			out[i] = d
		}
		return out
	})
	if !found {
		return fmt.Errorf("deal %s: %w", dealID, ErrNotFound)
	}
	return nil
}

// SaveInlineEdit updates the three quick-edit fields on a deal.
func (a *App) SaveInlineEdit(id, decisionMaker, quotationNo string, value float64) error {
	return a.updateDeal(id, func(d models.Deal) models.Deal {
		d.DecisionMaker = decisionMaker
		d.QuotationNo = quotationNo
		d.Value = value
		return d
	})
}

// AttachCostingFile sets the costing attachment metadata on a deal.
func (a *App) AttachCostingFile(id string, file models.CostingFile) error {
	return a.updateDeal(id, func(d models.Deal) models.Deal {
		d.CostingFile = &file
		return d
	})
}

// LinkCompetitor associates a deal with a competitor record.
func (a *App) LinkCompetitor(dealID, competitorID string) error {
	return a.updateDeal(dealID, func(d models.Deal) models.Deal {
		d.LinkedCompetitorID = competitorID
		return d
	})
}

// UnlinkCompetitor clears the competitor association on one deal.
func (a *App) UnlinkCompetitor(dealID string) error {
	return a.updateDeal(dealID, func(d models.Deal) models.Deal {
		d.LinkedCompetitorID = ""
		return d
	})
}

// UnlinkCompetitorEverywhere clears the association on every deal that
// references the competitor. Competitor deletion unlinks, never cascades.
func (a *App) UnlinkCompetitorEverywhere(competitorID string) {
	a.Deals.Update(func(deals []models.Deal) []models.Deal {
		out := make([]models.Deal, len(deals))
		for i, d := range deals {
			if d.LinkedCompetitorID == competitorID {
				d.LinkedCompetitorID = ""
			}
			out[i] = d
		}
		return out
	})
}

// ApplyDealChanges merges fn's result for the matching deal. Used by the
// forecast tracker to commit staged fields.
func (a *App) ApplyDealChanges(id string, fn func(models.Deal) models.Deal) error {
	return a.updateDeal(id, fn)
}

func (a *App) updateDeal(id string, fn func(models.Deal) models.Deal) error {
	found := false
	a.Deals.Update(func(deals []models.Deal) []models.Deal {
		out := make([]models.Deal, len(deals))
		for i, d := range deals {
			if d.ID == id {
				d = fn(d)
				found = true
			}
			out[i] = d
		}
		return out
	})
	if !found {
		return fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	return nil
}

// FindDeal returns the deal with the given id.
func (a *App) FindDeal(id string) (models.Deal, bool) {
	for _, d := range a.Deals.Current() {
		if d.ID == id {
			return d, true
		}
	}
	return models.Deal{}, false
}

// DeleteDeal removes a single deal.
func (a *App) DeleteDeal(id string) error {
	found := false
	a.Deals.Update(func(deals []models.Deal) []models.Deal {
		out := deals[:0:0]
		for _, d := range deals {
			if d.ID == id {
				found = true
				continue
			}
			out = append(out, d)
		}
		return out
	})
	if !found {
		return fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	return nil
}

// SaveProfile overwrites the profile document.
func (a *App) SaveProfile(p models.Profile) {
	a.Profile.Set(p)
}

// AddProductAsset appends an asset to the profile's product library.
func (a *App) AddProductAsset(asset models.ProductAsset) models.ProductAsset {
	if asset.ID == "" {
		asset.ID = models.NewID()
	}
	a.Profile.Update(func(p models.Profile) models.Profile {
		p.ProductAssets = append(p.ProductAssets, asset)
		return p
	})
	return asset
}

// RemoveProductAsset drops an asset from the profile's product library.
func (a *App) RemoveProductAsset(id string) {
	a.Profile.Update(func(p models.Profile) models.Profile {
		out := p.ProductAssets[:0:0]
		for _, as := range p.ProductAssets {
			if as.ID == id {
				continue
			}
			out = append(out, as)
		}
		p.ProductAssets = out
		return p
	})
}

// SetIdealClientProfile stores the generated ideal client profile text.
func (a *App) SetIdealClientProfile(text string) {
	a.Profile.Update(func(p models.Profile) models.Profile {
		p.IdealClientProfile = text
		return p
	})
}
