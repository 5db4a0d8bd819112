// ABOUTME: Deal MCP tool handlers
// ABOUTME: Deal creation, status transitions, activity logging, forecast staging

package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vsdcomms/salesdesk/models"
	"github.com/vsdcomms/salesdesk/state"
	"github.com/vsdcomms/salesdesk/tracker"
)

type DealHandlers struct {
	app     *state.App
	pending *tracker.Pending
}

func NewDealHandlers(app *state.App, pending *tracker.Pending) *DealHandlers {
	return &DealHandlers{app: app, pending: pending}
}

type AddDealInput struct {
	Description       string  `json:"description" jsonschema:"Deal description (required)"`
	ContactPersonID   string  `json:"contact_person_id,omitempty" jsonschema:"Lead ID of the contact"`
	ContactPersonName string  `json:"contact_person_name" jsonschema:"Contact name (required)"`
	CompanyName       string  `json:"company_name,omitempty" jsonschema:"Company name"`
	DecisionMaker     string  `json:"decision_maker,omitempty" jsonschema:"Decision maker (defaults to Unknown)"`
	Value             float64 `json:"value,omitempty" jsonschema:"Deal value"`
	PipelineStatus    string  `json:"pipeline_status,omitempty" jsonschema:"Prospecting, Potential, Solutioning, Negotiation, Won, or Closed (defaults to Prospecting)"`
	QuotationNo       string  `json:"quotation_no,omitempty" jsonschema:"Quotation number"`
	Notes             string  `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

type DealOutput struct {
	ID                string  `json:"id"`
	Description       string  `json:"description"`
	ContactPersonName string  `json:"contact_person_name"`
	CompanyName       string  `json:"company_name,omitempty"`
	Value             float64 `json:"value"`
	PipelineStatus    string  `json:"pipeline_status"`
	Activity          string  `json:"activity,omitempty"`
	Date              string  `json:"date,omitempty"`
	ReengageAdvised   bool    `json:"reengage_advised,omitempty"`
}

func dealToOutput(d models.Deal, advisory bool) DealOutput {
	return DealOutput{
		ID:                d.ID,
		Description:       d.Description,
		ContactPersonName: d.ContactPersonName,
		CompanyName:       d.CompanyName,
		Value:             d.Value,
		PipelineStatus:    d.PipelineStatus,
		Activity:          d.Activity,
		Date:              d.Date,
		ReengageAdvised:   advisory,
	}
}

func (h *DealHandlers) AddDeal(_ context.Context, request *mcp.CallToolRequest, input AddDealInput) (*mcp.CallToolResult, DealOutput, error) {
	deal, advisory, err := h.app.AddDeal(models.Deal{
		Description:       input.Description,
		ContactPersonID:   input.ContactPersonID,
		ContactPersonName: input.ContactPersonName,
		CompanyName:       input.CompanyName,
		DecisionMaker:     input.DecisionMaker,
		Value:             input.Value,
		PipelineStatus:    input.PipelineStatus,
		QuotationNo:       input.QuotationNo,
		Notes:             input.Notes,
	})
	if err != nil {
		return nil, DealOutput{}, err
	}
	return nil, dealToOutput(deal, advisory), nil
}

type UpdateDealStatusInput struct {
	ID     string `json:"id" jsonschema:"Deal ID (required)"`
	Status string `json:"status" jsonschema:"New pipeline status (required). Commits immediately and appends to stage history."`
}

func (h *DealHandlers) UpdateDealStatus(_ context.Context, request *mcp.CallToolRequest, input UpdateDealStatusInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.ID == "" {
		return nil, DealOutput{}, fmt.Errorf("id is required")
	}
	advisory, err := h.app.UpdateDealStatus(input.ID, input.Status)
	if err != nil {
		return nil, DealOutput{}, err
	}
	deal, _ := h.app.FindDeal(input.ID)
	return nil, dealToOutput(deal, advisory), nil
}

type LogActivityInput struct {
	DealID string `json:"deal_id" jsonschema:"Deal ID (required)"`
	Type   string `json:"type,omitempty" jsonschema:"Phone, WhatsApp, Email, Online Meeting, Physical Meeting, or Other"`
	Date   string `json:"date,omitempty" jsonschema:"Activity date YYYY-MM-DD (defaults to today)"`
	Notes  string `json:"notes" jsonschema:"What happened (required)"`
}

func (h *DealHandlers) LogActivity(_ context.Context, request *mcp.CallToolRequest, input LogActivityInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.DealID == "" {
		return nil, DealOutput{}, fmt.Errorf("deal_id is required")
	}
	err := h.app.AppendActivity(input.DealID, models.ActivityLogEntry{
		Type:  input.Type,
		Date:  input.Date,
		Notes: input.Notes,
	})
	if err != nil {
		return nil, DealOutput{}, err
	}
	deal, _ := h.app.FindDeal(input.DealID)
	return nil, dealToOutput(deal, false), nil
}

type StageForecastInput struct {
	DealID        string  `json:"deal_id" jsonschema:"Deal ID (required)"`
	PoPercentage  *int    `json:"po_percentage,omitempty" jsonschema:"Purchase-order likelihood: 0, 25, 50, 75, or 100"`
	PoMonth       *string `json:"po_month,omitempty" jsonschema:"Expected PO month (January..December)"`
	InvPercentage *int    `json:"invoice_percentage,omitempty" jsonschema:"Invoicing likelihood: 0, 50, or 100"`
	InvMonth      *string `json:"invoice_month,omitempty" jsonschema:"Estimated invoice month"`
}

type StageForecastOutput struct {
	DealID string `json:"deal_id"`
	Staged bool   `json:"staged"`
}

// StageForecast accumulates forecast edits without writing them to the
// deal; confirm_forecast commits them, matching the tracker's two-step
// edit flow.
func (h *DealHandlers) StageForecast(_ context.Context, request *mcp.CallToolRequest, input StageForecastInput) (*mcp.CallToolResult, StageForecastOutput, error) {
	if input.DealID == "" {
		return nil, StageForecastOutput{}, fmt.Errorf("deal_id is required")
	}
	if _, ok := h.app.FindDeal(input.DealID); !ok {
		return nil, StageForecastOutput{}, fmt.Errorf("deal %s not found", input.DealID)
	}

	if input.PoPercentage != nil {
		if err := h.pending.StagePoPercentage(input.DealID, *input.PoPercentage); err != nil {
			return nil, StageForecastOutput{}, err
		}
	}
	if input.PoMonth != nil {
		if err := h.pending.StagePoMonth(input.DealID, *input.PoMonth); err != nil {
			return nil, StageForecastOutput{}, err
		}
	}
	if input.InvPercentage != nil {
		if err := h.pending.StageInvoicePercentage(input.DealID, *input.InvPercentage); err != nil {
			return nil, StageForecastOutput{}, err
		}
	}
	if input.InvMonth != nil {
		if err := h.pending.StageInvoiceMonth(input.DealID, *input.InvMonth); err != nil {
			return nil, StageForecastOutput{}, err
		}
	}

	_, staged := h.pending.Staged(input.DealID)
	return nil, StageForecastOutput{DealID: input.DealID, Staged: staged}, nil
}

type ConfirmForecastInput struct {
	DealID string `json:"deal_id" jsonschema:"Deal ID (required)"`
	Cancel bool   `json:"cancel,omitempty" jsonschema:"Discard the staged edits instead of committing them"`
}

func (h *DealHandlers) ConfirmForecast(_ context.Context, request *mcp.CallToolRequest, input ConfirmForecastInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.DealID == "" {
		return nil, DealOutput{}, fmt.Errorf("deal_id is required")
	}
	if input.Cancel {
		h.pending.Cancel(input.DealID)
	} else if err := h.pending.Confirm(input.DealID, h.app); err != nil {
		return nil, DealOutput{}, err
	}
	deal, ok := h.app.FindDeal(input.DealID)
	if !ok {
		return nil, DealOutput{}, fmt.Errorf("deal %s not found", input.DealID)
	}
	return nil, dealToOutput(deal, false), nil
}
