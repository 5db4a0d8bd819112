// ABOUTME: CSV export and import for leads and deals
// ABOUTME: Fixed header lists, header-name mapping, silent skip of bad rows

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/vsdcomms/salesdesk/models"
)

// Column orders are fixed; other tools consume these files.
var LeadHeaders = []string{
	"id", "name", "companyName", "address", "email", "phone", "jobTitle",
	"department", "jobDescription", "industry", "source", "projectBrief", "userNotes",
}

var DealHeaders = []string{
	"id", "quotationNo", "description", "contactPersonId", "contactPersonName",
	"companyName", "decisionMaker", "value", "activity", "date", "pipelineStatus", "notes",
}

// LeadsFileName returns the dated export name, e.g. VSD_Contacts_2026-08-29.csv.
func LeadsFileName() string {
	return fmt.Sprintf("VSD_Contacts_%s.csv", time.Now().Format("2006-01-02"))
}

// DealsFileName returns the dated export name for deals.
func DealsFileName() string {
	return fmt.Sprintf("VSD_Deals_%s.csv", time.Now().Format("2006-01-02"))
}

// WriteLeadsCSV writes one quoted row per lead under the fixed header.
func WriteLeadsCSV(w io.Writer, leads []models.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LeadHeaders); err != nil {
		return err
	}
	for _, l := range leads {
		row := []string{
			l.ID, l.Name, l.CompanyName, l.Address, l.Email, l.Phone, l.JobTitle,
			l.Department, l.JobDescription, l.Industry, l.Source, l.ProjectBrief, l.UserNotes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDealsCSV writes one quoted row per deal under the fixed header.
// History columns are not exported; CSV is the flat interchange format.
func WriteDealsCSV(w io.Writer, deals []models.Deal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DealHeaders); err != nil {
		return err
	}
	for _, d := range deals {
		row := []string{
			d.ID, d.QuotationNo, d.Description, d.ContactPersonID, d.ContactPersonName,
			d.CompanyName, d.DecisionMaker, strconv.FormatFloat(d.Value, 'f', -1, 64),
			d.Activity, d.Date, d.PipelineStatus, d.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readRecords parses the file and returns a field lookup per row keyed by
// the header names found in row zero.
func readRecords(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows; missing cells read as empty

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	var out []map[string]string
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadLeadsCSV parses leads from CSV. Rows without a name and company are
// skipped silently, matching the forgiving import the data came from.
// A missing id gets a fresh one.
func ReadLeadsCSV(r io.Reader) ([]models.Lead, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	var leads []models.Lead
	for i, rec := range records {
		if rec["name"] == "" || rec["companyName"] == "" {
			continue
		}
		id := rec["id"]
		if id == "" {
			id = models.NewID() + strconv.Itoa(i)
		}
		industry := rec["industry"]
		if industry == "" {
			industry = "Unspecified"
		}
		source := rec["source"]
		if source == "" {
			source = "CSV Import"
		}
		leads = append(leads, models.Lead{
			ID:             id,
			Name:           rec["name"],
			CompanyName:    rec["companyName"],
			Address:        rec["address"],
			Email:          rec["email"],
			Phone:          rec["phone"],
			JobTitle:       rec["jobTitle"],
			Department:     rec["department"],
			JobDescription: rec["jobDescription"],
			Industry:       industry,
			Source:         source,
			ProjectBrief:   rec["projectBrief"],
			UserNotes:      rec["userNotes"],
		})
	}
	return leads, nil
}

// ReadDealsCSV parses deals from CSV. Rows lacking a description or any
// contact reference are skipped. Imported deals start with an empty
// activity history; only the flat fields travel through CSV.
func ReadDealsCSV(r io.Reader) ([]models.Deal, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	var deals []models.Deal
	for i, rec := range records {
		if rec["description"] == "" || (rec["contactPersonName"] == "" && rec["contactPersonId"] == "") {
			continue
		}
		id := rec["id"]
		if id == "" {
			id = models.NewID() + strconv.Itoa(i)
		}
		value, _ := strconv.ParseFloat(rec["value"], 64)
		activity := rec["activity"]
		if activity == "" {
			activity = "Imported via CSV"
		}
		status := rec["pipelineStatus"]
		if !models.IsValidStatus(status) {
			status = models.StatusProspecting
		}
		deals = append(deals, models.Deal{
			ID:                id,
			QuotationNo:       rec["quotationNo"],
			Description:       rec["description"],
			ContactPersonID:   rec["contactPersonId"],
			ContactPersonName: rec["contactPersonName"],
			CompanyName:       rec["companyName"],
			DecisionMaker:     rec["decisionMaker"],
			Value:             value,
			Activity:          activity,
			Date:              rec["date"],
			PipelineStatus:    status,
			Notes:             rec["notes"],
		})
	}
	return deals, nil
}

// ExportLeadsFile writes the leads CSV to path.
func ExportLeadsFile(path string, leads []models.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return WriteLeadsCSV(f, leads)
}

// ExportDealsFile writes the deals CSV to path.
func ExportDealsFile(path string, deals []models.Deal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return WriteDealsCSV(f, deals)
}

// ImportLeadsFile reads leads from a CSV file.
func ImportLeadsFile(path string) ([]models.Lead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return ReadLeadsCSV(f)
}

// ImportDealsFile reads deals from a CSV file.
func ImportDealsFile(path string) ([]models.Deal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return ReadDealsCSV(f)
}
