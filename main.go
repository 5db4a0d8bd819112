// ABOUTME: Entry point for the sales platform MCP server, CLI, and TUI
// ABOUTME: Routes to subcommands and wires the document store and local db
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/vsdcomms/salesdesk/cli"
	"github.com/vsdcomms/salesdesk/docstore"
	"github.com/vsdcomms/salesdesk/localstore"
	"github.com/vsdcomms/salesdesk/state"
	"github.com/vsdcomms/salesdesk/tui"
)

const version = "0.1.0"

func main() {
	// Optional .env for GEMINI_API_KEY and Google OAuth credentials
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Local database path (default: ~/.local/share/salesdesk/local.db)")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("salesdesk version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	app, db := openStores(*dbPath)
	defer func() {
		app.Flush()
		app.Close()
		_ = db.Close()
	}()

	switch command {
	case "mcp":
		if err := cli.MCPCommand(app, db); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "tui":
		if err := tui.Run(app); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	case "tracker":
		if err := tui.RunTab(app, tui.TabTracker); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	case "crm":
		runCRM(app, db, commandArgs)

	case "ai":
		runAI(app, db, commandArgs)

	case "marketing":
		runMarketing(app, db, commandArgs)

	case "settings":
		runSettings(app, db, commandArgs)

	case "dashboard":
		if err := cli.DashboardCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "funnel":
		if err := cli.FunnelCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "forecast-report":
		if err := cli.ForecastReportCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "graph":
		if err := cli.PipelineGraphCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "export":
		if err := cli.ExportCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "import":
		if err := cli.ImportCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "backup":
		if err := cli.BackupCommand(db, app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "restore":
		if err := cli.RestoreCommand(db, app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "remind":
		if err := cli.RemindCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "calendar":
		if len(commandArgs) == 0 || commandArgs[0] != "connect" {
			fmt.Println("Error: calendar requires the 'connect' subcommand")
			os.Exit(1)
		}
		if err := cli.ConnectCalendarCommand(commandArgs[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// openStores wires the synced document store and the local database.
func openStores(dbPath string) (*state.App, *sql.DB) {
	cfg, err := docstore.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load store config: %v", err)
	}

	client, err := docstore.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}

	store := docstore.NewStore(client)
	app, err := state.Open(store)
	if err != nil {
		log.Fatalf("Failed to open app state: %v", err)
	}

	if dbPath == "" {
		dbPath = localstore.DefaultPath()
	}
	db, err := localstore.OpenDatabase(dbPath)
	if err != nil {
		log.Fatalf("Failed to open local database: %v", err)
	}

	return app, db
}

func runCRM(app *state.App, db *sql.DB, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: crm requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	sub, subArgs := args[0], args[1:]
	var err error
	switch sub {
	// Lead commands
	case "add-lead":
		err = cli.AddLeadCommand(app, subArgs)
	case "list-leads":
		err = cli.ListLeadsCommand(app, subArgs)
	case "update-lead":
		err = cli.UpdateLeadCommand(app, subArgs)
	case "delete-lead":
		err = cli.DeleteLeadCommand(app, subArgs)

	// Deal commands
	case "add-deal":
		err = cli.AddDealCommand(app, subArgs)
	case "list-deals":
		err = cli.ListDealsCommand(app, subArgs)
	case "set-status":
		err = cli.SetStatusCommand(app, subArgs)
	case "log-activity":
		err = cli.LogActivityCommand(app, subArgs)
	case "edit-deal":
		err = cli.EditDealCommand(app, subArgs)
	case "forecast":
		err = cli.ForecastCommand(app, subArgs)
	case "delete-deal":
		err = cli.DeleteDealCommand(app, subArgs)

	// Competitor commands
	case "add-competitor":
		err = cli.AddCompetitorCommand(db, subArgs)
	case "list-competitors":
		err = cli.ListCompetitorsCommand(db, subArgs)
	case "analyze-competitor":
		err = cli.AnalyzeCompetitorCommand(db, app, subArgs)
	case "delete-competitor":
		err = cli.DeleteCompetitorCommand(db, app, subArgs)
	case "link-competitor":
		err = cli.LinkCompetitorCommand(db, app, subArgs)
	case "unlink-competitor":
		err = cli.UnlinkCompetitorCommand(app, subArgs)

	default:
		fmt.Printf("Unknown crm command: %s\n\n", sub)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runAI(app *state.App, db *sql.DB, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: ai requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	sub, subArgs := args[0], args[1:]
	var err error
	switch sub {
	case "prospect":
		err = cli.ProspectCommand(db, subArgs)
	case "research":
		err = cli.ResearchCommand(db, subArgs)
	case "strategy":
		err = cli.StrategyCommand(db, app, subArgs)
	case "script":
		err = cli.ScriptCommand(db, app, subArgs)
	case "icp":
		err = cli.ICPCommand(db, app, subArgs)
	case "coach":
		err = cli.CoachCommand(db, app, subArgs)
	case "motivate":
		err = cli.MotivateCommand(db, app, subArgs)
	default:
		fmt.Printf("Unknown ai command: %s\n\n", sub)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runMarketing(app *state.App, db *sql.DB, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: marketing requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	sub, subArgs := args[0], args[1:]
	var err error
	switch sub {
	case "plan":
		err = cli.MarketingPlanCommand(db, app, subArgs)
	case "draft":
		err = cli.MarketingDraftCommand(db, app, subArgs)
	case "list":
		err = cli.ListMarketingTasksCommand(db, subArgs)
	case "status":
		err = cli.SetTaskStatusCommand(db, subArgs)
	default:
		fmt.Printf("Unknown marketing command: %s\n\n", sub)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runSettings(app *state.App, db *sql.DB, args []string) {
	if len(args) == 0 {
		args = []string{"show"}
	}

	sub, subArgs := args[0], args[1:]
	var err error
	switch sub {
	case "show":
		err = cli.ShowSettingsCommand(db, app, subArgs)
	case "set-key":
		err = cli.SetKeyCommand(db, subArgs)
	case "set-cloud-url":
		err = cli.SetCloudURLCommand(db, subArgs)
	case "profile":
		err = cli.UpdateProfileCommand(app, subArgs)
	default:
		fmt.Printf("Unknown settings command: %s\n\n", sub)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage() {
	fmt.Printf(`salesdesk v%s - Intelligent sales platform

USAGE:
  salesdesk [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Local database path (default: ~/.local/share/salesdesk/local.db)

COMMANDS:
  mcp                    Start MCP server (for agent integration)
  tui                    Interactive dashboard, funnel, and tracker
  tracker                Open the TUI straight on the forecast tracker
  crm                    Lead, deal, and competitor commands
  ai                     AI assistant commands
  marketing              Marketing calendar commands
  settings               Profile and configuration
  dashboard              Print the pipeline overview
  funnel                 Print both funnel readings (--graph for DOT)
  forecast-report        Probable and confirmed forecast by month
  graph                  Deal-level pipeline graph as DOT
  export / import        CSV round-trips for leads and deals
  backup / restore       Full JSON backup bundles
  remind                 Schedule a follow-up for a deal
  calendar connect       Authorize Google Calendar access

CRM COMMANDS:
  salesdesk crm add-lead        --name, --company (required), --email, --phone, --title, --industry, --source, --brief
  salesdesk crm list-leads      --query, --limit
  salesdesk crm update-lead     [flags] <id>
  salesdesk crm delete-lead     <id>   (also removes the lead's deals)

  salesdesk crm add-deal        --description, --contact (required), --contact-id, --company, --value, --status, --quotation, --notes
  salesdesk crm list-deals      --status, --query
  salesdesk crm set-status      <deal-id> <status>
  salesdesk crm log-activity    [flags] <deal-id>
  salesdesk crm edit-deal       [flags] <deal-id>
  salesdesk crm forecast        [flags] <deal-id>   (stages, then asks to commit)
  salesdesk crm delete-deal     <deal-id>

  salesdesk crm add-competitor / list-competitors / analyze-competitor <id> /
            delete-competitor <id> / link-competitor <deal-id> <competitor-id> /
            unlink-competitor <deal-id>

AI COMMANDS:
  salesdesk ai prospect <criteria>    Find leads with search grounding
  salesdesk ai research <company>     Company research brief
  salesdesk ai strategy <deal-id>     Master attack plan for a deal
  salesdesk ai script [flags]         Outreach script variations
  salesdesk ai icp                    Generate and save the ideal client profile
  salesdesk ai coach                  Interactive coaching chat
  salesdesk ai motivate               A quick motivational line

MARKETING COMMANDS:
  salesdesk marketing plan            Generate the monthly calendar
  salesdesk marketing draft <id>      Expand a task into full copy
  salesdesk marketing list            List the task calendar
  salesdesk marketing status <id> <s> Move a task between Draft/Scheduled/Published

EXAMPLES:
  # Start MCP server
  salesdesk mcp

  # Add a lead and a deal for it
  salesdesk crm add-lead --name "Jo Tan" --company "Acme Networks"
  salesdesk crm add-deal --description "Campus wifi" --contact "Jo Tan" --value 50000

  # Stage and commit a forecast
  salesdesk crm forecast --po-pct 75 --po-month March <deal-id>

`, version)
}
