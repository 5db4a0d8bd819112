// ABOUTME: Lead CLI commands
// ABOUTME: Human-friendly commands for managing leads
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/vsdcomms/salesdesk/models"
	"github.com/vsdcomms/salesdesk/state"
)

// AddLeadCommand adds a new lead.
func AddLeadCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("add-lead", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	company := fs.String("company", "", "Company name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	jobTitle := fs.String("title", "", "Job title")
	industry := fs.String("industry", "", "Industry")
	source := fs.String("source", "", "Where the lead came from")
	brief := fs.String("brief", "", "Known project context")
	_ = fs.Parse(args)

	lead, err := app.AddLead(models.Lead{
		Name:         *name,
		CompanyName:  *company,
		Email:        *email,
		Phone:        *phone,
		JobTitle:     *jobTitle,
		Industry:     *industry,
		Source:       *source,
		ProjectBrief: *brief,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Lead created: %s (ID: %s)\n", lead.Name, lead.ID)
	fmt.Printf("  Company: %s\n", lead.CompanyName)
	if lead.Email != "" {
		fmt.Printf("  Email: %s\n", lead.Email)
	}
	return nil
}

// ListLeadsCommand lists all leads.
func ListLeadsCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("list-leads", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, company, email, or industry")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	q := strings.ToLower(*query)
	var leads []models.Lead
	for _, lead := range app.Leads.Current() {
		if q != "" {
			haystack := strings.ToLower(lead.Name + " " + lead.CompanyName + " " + lead.Email + " " + lead.Industry)
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		leads = append(leads, lead)
		if len(leads) >= *limit {
			break
		}
	}

	if len(leads) == 0 {
		fmt.Println("No leads found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCOMPANY\tEMAIL\tINDUSTRY\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t-----\t--------\t--")

	for _, lead := range leads {
		email := lead.Email
		if email == "" {
			email = "-"
		}
		industry := lead.Industry
		if industry == "" {
			industry = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			lead.Name, lead.CompanyName, email, industry, shortID(lead.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d lead(s)\n", len(leads))
	return nil
}

// UpdateLeadCommand updates an existing lead.
func UpdateLeadCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("update-lead", flag.ExitOnError)
	name := fs.String("name", "", "Contact name")
	company := fs.String("company", "", "Company name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	notes := fs.String("notes", "", "Notes about the lead")
	_ = fs.Parse(args)

	// First positional arg is the lead ID
	if len(fs.Args()) < 1 {
		return fmt.Errorf("lead ID is required")
	}
	leadID := fs.Args()[0]

	existing, ok := app.FindLead(leadID)
	if !ok {
		return fmt.Errorf("lead not found: %s", leadID)
	}

	// Apply updates from flags
	if *name != "" {
		existing.Name = *name
	}
	if *company != "" {
		existing.CompanyName = *company
	}
	if *email != "" {
		existing.Email = *email
	}
	if *phone != "" {
		existing.Phone = *phone
	}
	if *notes != "" {
		existing.UserNotes = *notes
	}

	if err := app.UpdateLead(existing); err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	fmt.Printf("✓ Lead updated: %s (ID: %s)\n", existing.Name, leadID)
	return nil
}

// DeleteLeadCommand deletes a lead and its deals.
func DeleteLeadCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("delete-lead", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("lead ID is required")
	}
	leadID := fs.Args()[0]

	cascaded := 0
	for _, d := range app.Deals.Current() {
		if d.ContactPersonID == leadID {
			cascaded++
		}
	}

	if err := app.DeleteLead(leadID); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	fmt.Printf("✓ Lead deleted: %s\n", leadID)
	if cascaded > 0 {
		fmt.Printf("  Removed %d linked deal(s)\n", cascaded)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
