// ABOUTME: Reporting CLI commands
// ABOUTME: Dashboard, funnel, forecast, and graph views on stdout
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/vsdcomms/salesdesk/metrics"
	"github.com/vsdcomms/salesdesk/state"
	"github.com/vsdcomms/salesdesk/viz"
)

// DashboardCommand prints the pipeline overview.
func DashboardCommand(app *state.App, args []string) error {
	stats := viz.GenerateDashboardStats(app.Profile.Current(), app.Leads.Current(), app.Deals.Current())
	fmt.Print(viz.RenderDashboard(stats))
	return nil
}

// FunnelCommand prints both funnel readings: per-stage composition and
// cumulative flow-through.
func FunnelCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("funnel", flag.ExitOnError)
	graph := fs.Bool("graph", false, "Emit GraphViz DOT source instead of text")
	_ = fs.Parse(args)

	leads := app.Leads.Current()
	deals := app.Deals.Current()

	if *graph {
		generator := viz.NewGraphGenerator(leads, deals)
		dot, err := generator.GenerateFunnelGraph()
		if err != nil {
			return err
		}
		fmt.Println(dot)
		return nil
	}

	fmt.Println("STAGE COMPOSITION")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STAGE\tCOUNT\tVALUE\tVS PREVIOUS")
	_, _ = fmt.Fprintln(w, "-----\t-----\t-----\t-----------")
	for _, stage := range metrics.FunnelStages(leads, deals) {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%.2f\t%.0f%%\n", stage.Name, stage.Count, stage.Value, stage.Conversion)
	}
	_ = w.Flush()

	funnel := metrics.ComputeCumulativeFunnel(deals)
	fmt.Println("\nFLOW-THROUGH")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STAGE\tREACHED\tCONVERSION\tDROP-OFF")
	_, _ = fmt.Fprintln(w, "-----\t-------\t----------\t--------")
	for _, stage := range funnel.Stages {
		marker := ""
		if stage.Critical {
			marker = "  ⚠️ leak"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d%%\t%d%%%s\n", stage.Label, stage.Cumulative, stage.Conversion, stage.DropOff, marker)
	}
	_ = w.Flush()

	fmt.Printf("\nWin rate through funnel: %d%%\n", funnel.GlobalWinRate)
	fmt.Printf("Active pipeline value:   %.2f\n", metrics.ActiveFunnelValue(metrics.FunnelStages(leads, deals)))
	return nil
}

// ForecastReportCommand prints the probable and confirmed buckets by month.
func ForecastReportCommand(app *state.App, args []string) error {
	deals := app.Deals.Current()

	printBucket := func(title string, items []metrics.ForecastItem) {
		fmt.Println(title)
		if len(items) == 0 {
			fmt.Println("  (none)")
			return
		}
		grouped := metrics.GroupByMonth(items)
		for _, month := range metrics.MonthKeys(grouped) {
			total := 0.0
			for _, it := range grouped[month] {
				total += it.Deal.Value
			}
			fmt.Printf("  %s (%.2f)\n", month, total)
			for _, it := range grouped[month] {
				fmt.Printf("    - %s (%s): %.2f at %d%% [%s]\n",
					it.Deal.Description, it.Deal.CompanyName, it.Deal.Value, it.Pct, it.Kind)
			}
		}
	}

	printBucket("PROBABLE", metrics.ProbableItems(deals))
	fmt.Println()
	printBucket("CONFIRMED", metrics.ConfirmedItems(deals))
	return nil
}

// PipelineGraphCommand emits the deal-level pipeline graph as DOT.
func PipelineGraphCommand(app *state.App, args []string) error {
	generator := viz.NewGraphGenerator(app.Leads.Current(), app.Deals.Current())
	dot, err := generator.GeneratePipelineGraph()
	if err != nil {
		return err
	}
	fmt.Println(dot)
	return nil
}
