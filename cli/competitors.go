// ABOUTME: Competitor CLI commands
// ABOUTME: Local competitor intel with AI-assisted analysis
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/vsdcomms/salesdesk/genai"
	"github.com/vsdcomms/salesdesk/localstore"
	"github.com/vsdcomms/salesdesk/models"
	"github.com/vsdcomms/salesdesk/state"
)

// AddCompetitorCommand adds a competitor to the local database.
func AddCompetitorCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-competitor", flag.ExitOnError)
	name := fs.String("name", "", "Competitor name (required)")
	notes := fs.String("notes", "", "Notes about the competitor")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	competitor := &models.Competitor{Name: *name, Notes: *notes}
	if err := localstore.CreateCompetitor(db, competitor); err != nil {
		return fmt.Errorf("failed to create competitor: %w", err)
	}

	fmt.Printf("✓ Competitor created: %s (ID: %s)\n", competitor.Name, competitor.ID)
	return nil
}

// ListCompetitorsCommand lists tracked competitors.
func ListCompetitorsCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-competitors", flag.ExitOnError)
	query := fs.String("query", "", "Search by name")
	_ = fs.Parse(args)

	var competitors []models.Competitor
	var err error
	if *query != "" {
		competitors, err = localstore.FindCompetitors(db, *query)
	} else {
		competitors, err = localstore.ListCompetitors(db)
	}
	if err != nil {
		return fmt.Errorf("failed to list competitors: %w", err)
	}

	if len(competitors) == 0 {
		fmt.Println("No competitors found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tANALYZED\tID")
	_, _ = fmt.Fprintln(w, "----\t--------\t--")
	for _, c := range competitors {
		analyzed := "no"
		if c.SwotAnalysis != "" {
			analyzed = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, analyzed, shortID(c.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d competitor(s)\n", len(competitors))
	return nil
}

// AnalyzeCompetitorCommand runs a search-grounded SWOT and news analysis
// and stores the result, with an AI-suggested notes summary.
func AnalyzeCompetitorCommand(db *sql.DB, app *state.App, args []string) error {
	fs := flag.NewFlagSet("analyze-competitor", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("competitor ID is required")
	}
	competitorID := fs.Args()[0]

	competitor, err := localstore.GetCompetitor(db, competitorID)
	if err != nil {
		return fmt.Errorf("failed to fetch competitor: %w", err)
	}
	if competitor == nil {
		return fmt.Errorf("competitor not found: %s", competitorID)
	}

	client, err := geminiClient(db)
	if err != nil {
		return err
	}

	ctx := context.Background()
	fmt.Printf("Analyzing %s...\n", competitor.Name)
	analysis, err := client.AnalyzeCompetitor(ctx, competitor.Name)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	profile := app.Profile.Current()
	competitor.SwotAnalysis = analysis
	if suggested := client.SuggestCompetitorNotes(ctx, competitor.SwotAnalysis, competitor.RecentNews, &profile); suggested != "" {
		competitor.Notes = suggested
	}

	if err := localstore.UpdateCompetitor(db, competitor); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	fmt.Println(analysis)
	fmt.Printf("\n✓ Analysis saved for %s\n", competitor.Name)
	return nil
}

// DeleteCompetitorCommand removes a competitor and unlinks it from deals.
func DeleteCompetitorCommand(db *sql.DB, app *state.App, args []string) error {
	fs := flag.NewFlagSet("delete-competitor", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("competitor ID is required")
	}
	competitorID := fs.Args()[0]

	if err := localstore.DeleteCompetitor(db, app, competitorID); err != nil {
		return fmt.Errorf("failed to delete competitor: %w", err)
	}

	fmt.Printf("✓ Competitor deleted: %s\n", competitorID)
	return nil
}

// LinkCompetitorCommand links a competitor to a deal.
func LinkCompetitorCommand(db *sql.DB, app *state.App, args []string) error {
	fs := flag.NewFlagSet("link-competitor", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 2 {
		return fmt.Errorf("usage: link-competitor <deal-id> <competitor-id>")
	}
	dealID, competitorID := fs.Args()[0], fs.Args()[1]

	competitor, err := localstore.GetCompetitor(db, competitorID)
	if err != nil {
		return fmt.Errorf("failed to fetch competitor: %w", err)
	}
	if competitor == nil {
		return fmt.Errorf("competitor not found: %s", competitorID)
	}

	if err := app.LinkCompetitor(dealID, competitorID); err != nil {
		return err
	}

	fmt.Printf("✓ Linked %s to deal %s\n", competitor.Name, dealID)
	return nil
}

// UnlinkCompetitorCommand clears the competitor link on a deal.
func UnlinkCompetitorCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("unlink-competitor", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("deal ID is required")
	}
	dealID := fs.Args()[0]

	if err := app.UnlinkCompetitor(dealID); err != nil {
		return err
	}

	fmt.Printf("✓ Competitor unlinked from deal %s\n", dealID)
	return nil
}

// geminiClient builds a Gemini client from the environment, falling back to
// the key stored via 'settings set-key'.
func geminiClient(db *sql.DB) (*genai.Client, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return genai.NewClient(key), nil
	}
	key, err := localstore.GetSetting(db, localstore.SettingGeminiAPIKey, "")
	if err != nil {
		return nil, fmt.Errorf("failed to read stored API key: %w", err)
	}
	if key == "" {
		return nil, fmt.Errorf("no Gemini API key configured; set GEMINI_API_KEY or run 'settings set-key'")
	}
	return genai.NewClient(key), nil
}
