// ABOUTME: Data models for sales platform entities
// ABOUTME: Defines Profile, Lead, Deal, Competitor, and MarketingTask structs
package models

import (
	"strconv"
	"time"
)

// JSON field names are camelCase to stay wire-compatible with documents
// written by earlier releases of the platform.

type ProductAsset struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

type Profile struct {
	Name               string         `json:"name"`
	Role               string         `json:"role"`
	CompanyName        string         `json:"companyName"`
	TargetRevenue      string         `json:"targetRevenue"` // free-text currency string, e.g. "100,000"
	Product            string         `json:"product"`
	Plan               string         `json:"plan"`
	Experience         string         `json:"experience"`
	Industries         string         `json:"industries"`
	SalesStyle         string         `json:"salesStyle"`
	Goals              string         `json:"goals"`
	ProductAssets      []ProductAsset `json:"productAssets,omitempty"`
	IdealClientProfile string         `json:"idealClientProfile,omitempty"`
}

type Lead struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CompanyName    string `json:"companyName"`
	Address        string `json:"address,omitempty"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	JobTitle       string `json:"jobTitle"`
	Department     string `json:"department"`
	JobDescription string `json:"jobDescription"`
	Industry       string `json:"industry"`
	Source         string `json:"source"`
	ProjectBrief   string `json:"projectBrief,omitempty"`
	UserNotes      string `json:"userNotes,omitempty"`
}

type ActivityLogEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // the date the activity happened
	Type      string `json:"type"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"createdAt"` // timestamp of record creation
}

type StageHistoryEntry struct {
	Stage string `json:"stage"`
	Date  string `json:"date"`
}

type CostingFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type Deal struct {
	ID                string       `json:"id"`
	QuotationNo       string       `json:"quotationNo,omitempty"`
	Description       string       `json:"description"`
	ContactPersonID   string       `json:"contactPersonId"`
	ContactPersonName string       `json:"contactPersonName"`
	CompanyName       string       `json:"companyName"`
	DecisionMaker     string       `json:"decisionMaker"`
	Value             float64      `json:"value"`
	Activity          string       `json:"activity"` // latest activity summary, mirrors ActivityHistory[0]
	Date              string       `json:"date"`     // latest activity date, mirrors ActivityHistory[0]
	PipelineStatus    string       `json:"pipelineStatus"`
	Notes             string       `json:"notes,omitempty"`
	LinkedCompetitorID string      `json:"linkedCompetitorId,omitempty"`
	CostingFile       *CostingFile `json:"costingFile,omitempty"`

	// Forecasting fields. Percentages are nil when never set; the month
	// fields default to "Unscheduled" grouping when empty.
	ForecastedPoPercentage      *int   `json:"forecastedPoPercentage,omitempty"` // 0, 25, 50, 75, 100
	ForecastedPoMonth           string `json:"forecastedPoMonth,omitempty"`
	ForecastedInvoicePercentage *int   `json:"forecastedInvoicePercentage,omitempty"` // 0, 50, 100
	EstimatedInvoiceMonth       string `json:"estimatedInvoiceMonth,omitempty"`

	ActivityHistory []ActivityLogEntry  `json:"activityHistory,omitempty"`
	StageHistory    []StageHistoryEntry `json:"stageHistory,omitempty"`
}

type Competitor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SwotAnalysis string `json:"swotAnalysis"`
	RecentNews   string `json:"recentNews"`
	Notes        string `json:"notes"`
}

type MarketingTask struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Topic     string `json:"topic,omitempty"`
	Content   string `json:"content"`
	FullDraft string `json:"fullDraft,omitempty"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
}

// Pipeline status constants.
const (
	StatusProspecting = "Prospecting"
	StatusPotential   = "Potential"
	StatusSolutioning = "Solutioning"
	StatusNegotiation = "Negotiation"
	StatusClosed      = "Closed"
	StatusWon         = "Won"
)

// PipelineStatuses is the full set in selector order.
var PipelineStatuses = []string{
	StatusProspecting,
	StatusPotential,
	StatusSolutioning,
	StatusNegotiation,
	StatusWon,
	StatusClosed,
}

// Activity type constants.
const (
	ActivityPhone           = "Phone"
	ActivityWhatsApp        = "WhatsApp"
	ActivityEmail           = "Email"
	ActivityOnlineMeeting   = "Online Meeting"
	ActivityPhysicalMeeting = "Physical Meeting"
	ActivityOther           = "Other"
)

// Product asset type constants.
const (
	AssetDatasheet    = "datasheet"
	AssetPresentation = "presentation"
	AssetCosting      = "costing"
	AssetPhoto        = "photo"
	AssetVideo        = "video"
)

// Marketing task status constants.
const (
	TaskDraft     = "Draft"
	TaskScheduled = "Scheduled"
	TaskPublished = "Published"
)

// Months in calendar order, used for forecast month selectors and sorting.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// UnscheduledBucket is the grouping label for deals with no forecast month.
const UnscheduledBucket = "Unscheduled"

// NewID returns a millisecond-timestamp ID. Earlier releases generated IDs
// this way, so new entities must keep the format for the shared documents.
// Collisions within the same millisecond are accepted under the
// single-user, single-device assumption.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// DefaultProfile returns the profile used to bootstrap a fresh install.
func DefaultProfile() Profile {
	return Profile{
		Role:          "Sales Channel Consultant",
		CompanyName:   "VSD Communications",
		TargetRevenue: "100,000",
		SalesStyle:    "Consultative",
		ProductAssets: []ProductAsset{},
	}
}

// IsValidStatus reports whether s is a known pipeline status.
func IsValidStatus(s string) bool {
	for _, st := range PipelineStatuses {
		if st == s {
			return true
		}
	}
	return false
}
