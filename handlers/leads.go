// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements add_lead, find_leads, and delete_lead tools

package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vsdcomms/salesdesk/models"
	"github.com/vsdcomms/salesdesk/state"
)

type LeadHandlers struct {
	app *state.App
}

func NewLeadHandlers(app *state.App) *LeadHandlers {
	return &LeadHandlers{app: app}
}

type AddLeadInput struct {
	Name           string `json:"name" jsonschema:"Contact name (required)"`
	CompanyName    string `json:"company_name" jsonschema:"Company name (required)"`
	Email          string `json:"email,omitempty" jsonschema:"Email address"`
	Phone          string `json:"phone,omitempty" jsonschema:"Phone number"`
	JobTitle       string `json:"job_title,omitempty" jsonschema:"Job title"`
	Department     string `json:"department,omitempty" jsonschema:"Department"`
	Industry       string `json:"industry,omitempty" jsonschema:"Industry"`
	Source         string `json:"source,omitempty" jsonschema:"Where the lead came from"`
	ProjectBrief   string `json:"project_brief,omitempty" jsonschema:"Known project context"`
}

type LeadOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Source      string `json:"source,omitempty"`
}

func leadToOutput(l models.Lead) LeadOutput {
	return LeadOutput{
		ID:          l.ID,
		Name:        l.Name,
		CompanyName: l.CompanyName,
		Email:       l.Email,
		Phone:       l.Phone,
		JobTitle:    l.JobTitle,
		Industry:    l.Industry,
		Source:      l.Source,
	}
}

func (h *LeadHandlers) AddLead(_ context.Context, request *mcp.CallToolRequest, input AddLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	lead, err := h.app.AddLead(models.Lead{
		Name:         input.Name,
		CompanyName:  input.CompanyName,
		Email:        input.Email,
		Phone:        input.Phone,
		JobTitle:     input.JobTitle,
		Department:   input.Department,
		Industry:     input.Industry,
		Source:       input.Source,
		ProjectBrief: input.ProjectBrief,
	})
	if err != nil {
		return nil, LeadOutput{}, err
	}
	return nil, leadToOutput(lead), nil
}

type FindLeadsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (matches name, company, email, industry)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindLeadsOutput struct {
	Leads []LeadOutput `json:"leads"`
}

func (h *LeadHandlers) FindLeads(_ context.Context, request *mcp.CallToolRequest, input FindLeadsInput) (*mcp.CallToolResult, FindLeadsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	query := strings.ToLower(input.Query)

	var out []LeadOutput
	for _, l := range h.app.Leads.Current() {
		if query != "" {
			haystack := strings.ToLower(l.Name + " " + l.CompanyName + " " + l.Email + " " + l.Industry)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, leadToOutput(l))
		if len(out) >= limit {
			break
		}
	}
	return nil, FindLeadsOutput{Leads: out}, nil
}

type DeleteLeadInput struct {
	ID string `json:"id" jsonschema:"Lead ID to delete (required). Deletes every deal whose contact is this lead."`
}

type DeleteLeadOutput struct {
	Deleted      string `json:"deleted"`
	DealsRemoved int    `json:"deals_removed"`
}

func (h *LeadHandlers) DeleteLead(_ context.Context, request *mcp.CallToolRequest, input DeleteLeadInput) (*mcp.CallToolResult, DeleteLeadOutput, error) {
	if input.ID == "" {
		return nil, DeleteLeadOutput{}, fmt.Errorf("id is required")
	}

	removed := 0
	for _, d := range h.app.Deals.Current() {
		if d.ContactPersonID == input.ID {
			removed++
		}
	}

	if err := h.app.DeleteLead(input.ID); err != nil {
		return nil, DeleteLeadOutput{}, err
	}
	return nil, DeleteLeadOutput{Deleted: input.ID, DealsRemoved: removed}, nil
}
