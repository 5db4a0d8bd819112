// ABOUTME: Deal CLI commands
// ABOUTME: Pipeline management, activity logging, and forecast staging
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/vsdcomms/salesdesk/models"
	"github.com/vsdcomms/salesdesk/state"
	"github.com/vsdcomms/salesdesk/tracker"
)

// AddDealCommand creates a new deal.
func AddDealCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("add-deal", flag.ExitOnError)
	description := fs.String("description", "", "Deal description (required)")
	contact := fs.String("contact", "", "Contact name (required)")
	contactID := fs.String("contact-id", "", "Lead ID of the contact")
	company := fs.String("company", "", "Company name")
	value := fs.Float64("value", 0, "Deal value")
	status := fs.String("status", "", "Pipeline status (defaults to Prospecting)")
	quotation := fs.String("quotation", "", "Quotation number")
	notes := fs.String("notes", "", "Free-form notes")
	_ = fs.Parse(args)

	deal, advisory, err := app.AddDeal(models.Deal{
		Description:       *description,
		ContactPersonID:   *contactID,
		ContactPersonName: *contact,
		CompanyName:       *company,
		Value:             *value,
		PipelineStatus:    *status,
		QuotationNo:       *quotation,
		Notes:             *notes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Deal created: %s (ID: %s)\n", deal.Description, deal.ID)
	fmt.Printf("  Status: %s  Value: %.2f\n", deal.PipelineStatus, deal.Value)
	if advisory {
		fmt.Println("  ⚠️  Early-stage deal - schedule a re-engagement touch (see 'remind')")
	}
	return nil
}

// ListDealsCommand lists deals, optionally filtered by status.
func ListDealsCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("list-deals", flag.ExitOnError)
	status := fs.String("status", "", "Filter by pipeline status")
	query := fs.String("query", "", "Search by description or company")
	_ = fs.Parse(args)

	q := strings.ToLower(*query)
	var deals []models.Deal
	for _, deal := range app.Deals.Current() {
		if *status != "" && deal.PipelineStatus != *status {
			continue
		}
		if q != "" {
			haystack := strings.ToLower(deal.Description + " " + deal.CompanyName + " " + deal.ContactPersonName)
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		deals = append(deals, deal)
	}

	if len(deals) == 0 {
		fmt.Println("No deals found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DESCRIPTION\tCOMPANY\tVALUE\tSTATUS\tLAST ACTIVITY\tID")
	_, _ = fmt.Fprintln(w, "-----------\t-------\t-----\t------\t-------------\t--")

	for _, deal := range deals {
		company := deal.CompanyName
		if company == "" {
			company = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%s\n",
			deal.Description, company, deal.Value, deal.PipelineStatus, deal.Date, shortID(deal.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d deal(s)\n", len(deals))
	return nil
}

// SetStatusCommand moves a deal to a new pipeline status.
func SetStatusCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("set-status", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 2 {
		return fmt.Errorf("usage: set-status <deal-id> <status>")
	}
	dealID, status := fs.Args()[0], fs.Args()[1]

	advisory, err := app.UpdateDealStatus(dealID, status)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Deal %s moved to %s\n", dealID, status)
	if advisory {
		fmt.Println("  ⚠️  Early-stage deal - schedule a re-engagement touch (see 'remind')")
	}
	return nil
}

// LogActivityCommand logs an activity against a deal.
func LogActivityCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("log-activity", flag.ExitOnError)
	activityType := fs.String("type", "", "Phone, WhatsApp, Email, Online Meeting, Physical Meeting, or Other")
	date := fs.String("date", "", "Activity date YYYY-MM-DD (defaults to today)")
	notes := fs.String("notes", "", "What happened (required)")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("deal ID is required")
	}
	dealID := fs.Args()[0]

	err := app.AppendActivity(dealID, models.ActivityLogEntry{
		Type:  *activityType,
		Date:  *date,
		Notes: *notes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Activity logged for deal %s\n", dealID)
	return nil
}

// EditDealCommand edits the inline fields of a deal.
func EditDealCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("edit-deal", flag.ExitOnError)
	decisionMaker := fs.String("decision-maker", "", "Decision maker")
	quotation := fs.String("quotation", "", "Quotation number")
	value := fs.Float64("value", -1, "Deal value")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("deal ID is required")
	}
	dealID := fs.Args()[0]

	existing, ok := app.FindDeal(dealID)
	if !ok {
		return fmt.Errorf("deal not found: %s", dealID)
	}

	dm := existing.DecisionMaker
	if *decisionMaker != "" {
		dm = *decisionMaker
	}
	qn := existing.QuotationNo
	if *quotation != "" {
		qn = *quotation
	}
	v := existing.Value
	if *value >= 0 {
		v = *value
	}

	if err := app.SaveInlineEdit(dealID, dm, qn, v); err != nil {
		return err
	}

	fmt.Printf("✓ Deal updated: %s\n", dealID)
	return nil
}

// ForecastCommand stages forecast edits and asks for confirmation before
// committing, mirroring the tracker's two-step flow.
func ForecastCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	poPct := fs.Int("po-pct", -1, "Purchase-order likelihood: 0, 25, 50, 75, or 100")
	poMonth := fs.String("po-month", "", "Expected PO month (January..December)")
	invPct := fs.Int("inv-pct", -1, "Invoicing likelihood: 0, 50, or 100")
	invMonth := fs.String("inv-month", "", "Estimated invoice month")
	yes := fs.Bool("yes", false, "Commit without asking")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("deal ID is required")
	}
	dealID := fs.Args()[0]

	deal, ok := app.FindDeal(dealID)
	if !ok {
		return fmt.Errorf("deal not found: %s", dealID)
	}

	pending := tracker.NewPending()
	if *poPct >= 0 {
		if err := pending.StagePoPercentage(dealID, *poPct); err != nil {
			return err
		}
	}
	if *poMonth != "" {
		if err := pending.StagePoMonth(dealID, *poMonth); err != nil {
			return err
		}
	}
	if *invPct >= 0 {
		if err := pending.StageInvoicePercentage(dealID, *invPct); err != nil {
			return err
		}
	}
	if *invMonth != "" {
		if err := pending.StageInvoiceMonth(dealID, *invMonth); err != nil {
			return err
		}
	}

	changes, staged := pending.Staged(dealID)
	if !staged {
		fmt.Println("Nothing to change")
		return nil
	}

	fmt.Printf("Staged forecast for %s (%s):\n", deal.Description, shortID(dealID))
	if changes.PoPct != nil {
		fmt.Printf("  PO likelihood:      %s -> %d%%\n", pctOrDash(deal.ForecastedPoPercentage), *changes.PoPct)
	}
	if changes.PoMonth != nil {
		fmt.Printf("  PO month:           %s -> %s\n", orDash(deal.ForecastedPoMonth), *changes.PoMonth)
	}
	if changes.InvPct != nil {
		fmt.Printf("  Invoice likelihood: %s -> %d%%\n", pctOrDash(deal.ForecastedInvoicePercentage), *changes.InvPct)
	}
	if changes.InvMonth != nil {
		fmt.Printf("  Invoice month:      %s -> %s\n", orDash(deal.EstimatedInvoiceMonth), *changes.InvMonth)
	}

	if !*yes {
		fmt.Print("Commit? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			pending.Cancel(dealID)
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := pending.Confirm(dealID, app); err != nil {
		return err
	}
	fmt.Println("✓ Forecast updated")
	return nil
}

// DeleteDealCommand deletes a deal.
func DeleteDealCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("delete-deal", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("deal ID is required")
	}
	dealID := fs.Args()[0]

	if err := app.DeleteDeal(dealID); err != nil {
		return err
	}
	fmt.Printf("✓ Deal deleted: %s\n", dealID)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func pctOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", *p)
}
