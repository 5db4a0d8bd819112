// ABOUTME: AI assistant CLI commands
// ABOUTME: Prospecting, research, strategy, scripts, ICP, and coaching chat
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/vsdcomms/salesdesk/genai"
	"github.com/vsdcomms/salesdesk/localstore"
	"github.com/vsdcomms/salesdesk/models"
	"github.com/vsdcomms/salesdesk/state"
)

// ProspectCommand finds potential leads matching the given criteria using
// search grounding.
func ProspectCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("ai-prospect", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("usage: ai prospect <criteria>")
	}
	criteria := strings.Join(fs.Args(), " ")

	client, err := geminiClient(db)
	if err != nil {
		return err
	}

	result, err := client.ProspectLeads(context.Background(), criteria)
	if err != nil {
		return fmt.Errorf("prospecting failed: %w", err)
	}
	fmt.Println(result)
	return nil
}

// ResearchCommand researches a company with search grounding.
func ResearchCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("ai-research", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("usage: ai research <company>")
	}
	company := strings.Join(fs.Args(), " ")

	client, err := geminiClient(db)
	if err != nil {
		return err
	}

	result, err := client.ResearchCompany(context.Background(), company)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}
	fmt.Println(result)
	return nil
}

// StrategyCommand builds a master attack plan for a deal, folding in the
// linked competitor's intel when one is attached.
func StrategyCommand(db *sql.DB, app *state.App, args []string) error {
	fs := flag.NewFlagSet("ai-strategy", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("deal ID is required")
	}
	dealID := fs.Args()[0]

	deal, ok := app.FindDeal(dealID)
	if !ok {
		return fmt.Errorf("deal not found: %s", dealID)
	}

	client, err := geminiClient(db)
	if err != nil {
		return err
	}

	dealContext := fmt.Sprintf("%s for %s (%s), value %.2f, currently %s. Notes: %s",
		deal.Description, deal.CompanyName, deal.ContactPersonName, deal.Value, deal.PipelineStatus, deal.Notes)

	profile := app.Profile.Current()

	var competitor *models.Competitor
	if deal.LinkedCompetitorID != "" {
		c, err := localstore.GetCompetitor(db, deal.LinkedCompetitorID)
		if err != nil {
			return fmt.Errorf("failed to fetch competitor: %w", err)
		}
		if c != nil {
			competitor = c
		}
	}

	// Other deals contested by the same competitor give the plan context
	var linked []models.Deal
	if competitor != nil {
		for _, d := range app.Deals.Current() {
			if d.LinkedCompetitorID == competitor.ID && d.ID != deal.ID {
				linked = append(linked, d)
			}
		}
	}

	result, err := client.IntegratedStrategy(context.Background(), dealContext, competitor, &profile, linked)
	if err != nil {
		return fmt.Errorf("strategy generation failed: %w", err)
	}
	fmt.Println(result)
	return nil
}

// ScriptCommand generates outreach script variations.
func ScriptCommand(db *sql.DB, app *state.App, args []string) error {
	fs := flag.NewFlagSet("ai-script", flag.ExitOnError)
	scenario := fs.String("scenario", "Cold Call", "Cold Call, WhatsApp Outreach, Email Intro, or Follow-up")
	target := fs.String("target", "", "Who the script is for")
	valueProp := fs.String("value-prop", "", "The value proposition to lead with")
	tone := fs.String("tone", "Professional", "Tone of voice")
	variations := fs.Int("variations", 2, "Number of variations")
	goal := fs.String("goal", "", "Structured goal (WhatsApp Outreach)")
	outcome := fs.String("outcome", "", "Desired outcome (WhatsApp Outreach)")
	cta := fs.String("cta", "", "Call to action (WhatsApp Outreach)")
	_ = fs.Parse(args)

	client, err := geminiClient(db)
	if err != nil {
		return err
	}

	profile := app.Profile.Current()
	var params *genai.ScriptParams
	if *goal != "" || *outcome != "" || *cta != "" {
		params = &genai.ScriptParams{Goal: *goal, Outcome: *outcome, CTA: *cta}
	}

	result, err := client.SalesScript(context.Background(), *scenario, *target, *valueProp, *tone, *variations, &profile, params)
	if err != nil {
		return fmt.Errorf("script generation failed: %w", err)
	}
	fmt.Println(result)
	return nil
}

// ICPCommand generates and saves an ideal client profile.
func ICPCommand(db *sql.DB, app *state.App, args []string) error {
	fs := flag.NewFlagSet("ai-icp", flag.ExitOnError)
	_ = fs.Parse(args)

	client, err := geminiClient(db)
	if err != nil {
		return err
	}

	profile := app.Profile.Current()
	result, err := client.IdealClientProfile(context.Background(), &profile)
	if err != nil {
		return fmt.Errorf("ICP generation failed: %w", err)
	}

	app.SetIdealClientProfile(result)
	fmt.Println(result)
	fmt.Println("\n✓ Ideal client profile saved")
	return nil
}

// MotivateCommand prints a quick motivational line. Always succeeds.
func MotivateCommand(db *sql.DB, app *state.App, args []string) error {
	client, err := geminiClient(db)
	if err != nil {
		return err
	}
	profile := app.Profile.Current()
	fmt.Println(client.QuickMotivation(context.Background(), &profile))
	return nil
}

// CoachCommand runs an interactive coaching chat on stdin.
func CoachCommand(db *sql.DB, app *state.App, args []string) error {
	client, err := geminiClient(db)
	if err != nil {
		return err
	}

	profile := app.Profile.Current()
	chat := client.NewCoachingChat(&profile, nil)

	fmt.Println("Sales coach ready. Type a question, or 'exit' to quit.")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil // EOF ends the session
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		reply, err := chat.Send(context.Background(), line)
		if err != nil {
			fmt.Printf("! %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", reply.Text)
	}
}
