// ABOUTME: Marketing CLI commands
// ABOUTME: AI-generated monthly plan, drafts, and task management
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/vsdcomms/salesdesk/localstore"
	"github.com/vsdcomms/salesdesk/models"
	"github.com/vsdcomms/salesdesk/state"
)

// MarketingPlanCommand generates a structured monthly plan and replaces the
// local task calendar with it.
func MarketingPlanCommand(db *sql.DB, app *state.App, args []string) error {
	fs := flag.NewFlagSet("marketing-plan", flag.ExitOnError)
	month := fs.String("month", time.Now().Month().String(), "Plan month")
	year := fs.Int("year", time.Now().Year(), "Plan year")
	_ = fs.Parse(args)

	client, err := geminiClient(db)
	if err != nil {
		return err
	}

	profile := app.Profile.Current()
	fmt.Printf("Generating marketing plan for %s %d...\n", *month, *year)
	plan, err := client.MarketingCalendar(context.Background(), *month, *year, &profile)
	if err != nil {
		return fmt.Errorf("plan generation failed: %w", err)
	}

	// Persist the raw plan alongside the derived tasks
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := localstore.SetSetting(db, localstore.SettingMarketingPlan, string(raw)); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	tasks := []models.MarketingTask{
		{
			Type:     "Event",
			Title:    plan.EventPlan.Theme,
			Content:  plan.EventPlan.Agenda,
			Date:     fmt.Sprintf("%s %d", *month, *year),
			Priority: "High",
		},
	}
	for _, week := range plan.WeeklyContent {
		tasks = append(tasks, models.MarketingTask{
			Type:     week.Channel,
			Title:    fmt.Sprintf("Week %d: %s", week.Week, week.Focus),
			Topic:    week.Focus,
			Content:  week.Copy,
			Date:     fmt.Sprintf("%s %d", *month, *year),
			Priority: "Medium",
		})
	}
	if err := localstore.ReplaceMarketingTasks(db, tasks); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}

	fmt.Printf("✓ Plan saved: event %q plus %d weekly tasks\n", plan.EventPlan.Theme, len(plan.WeeklyContent))
	return nil
}

// MarketingDraftCommand expands a task into full draft copy.
func MarketingDraftCommand(db *sql.DB, app *state.App, args []string) error {
	fs := flag.NewFlagSet("marketing-draft", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("task ID is required")
	}
	taskID := fs.Args()[0]

	task, err := localstore.GetMarketingTask(db, taskID)
	if err != nil {
		return fmt.Errorf("failed to fetch task: %w", err)
	}
	if task == nil {
		return fmt.Errorf("task not found: %s", taskID)
	}

	client, err := geminiClient(db)
	if err != nil {
		return err
	}

	profile := app.Profile.Current()
	fmt.Printf("Drafting %q...\n", task.Title)
	draft, err := client.MarketingContent(context.Background(), *task, &profile)
	if err != nil {
		return fmt.Errorf("draft generation failed: %w", err)
	}

	if err := localstore.SaveFullDraft(db, taskID, draft); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	fmt.Println(draft)
	fmt.Printf("\n✓ Draft saved for %s\n", task.Title)
	return nil
}

// ListMarketingTasksCommand lists the task calendar.
func ListMarketingTasksCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("marketing-list", flag.ExitOnError)
	_ = fs.Parse(args)

	tasks, err := localstore.ListMarketingTasks(db)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No marketing tasks. Run 'marketing plan' to generate a calendar.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tTYPE\tDATE\tSTATUS\tDRAFTED\tID")
	_, _ = fmt.Fprintln(w, "-----\t----\t----\t------\t-------\t--")
	for _, task := range tasks {
		drafted := "no"
		if task.FullDraft != "" {
			drafted = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			task.Title, task.Type, task.Date, task.Status, drafted, shortID(task.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d task(s)\n", len(tasks))
	return nil
}

// SetTaskStatusCommand moves a marketing task between Draft, Scheduled,
// and Published.
func SetTaskStatusCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("marketing-status", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 2 {
		return fmt.Errorf("usage: marketing status <task-id> <Draft|Scheduled|Published>")
	}
	taskID, status := fs.Args()[0], fs.Args()[1]

	if status != models.TaskDraft && status != models.TaskScheduled && status != models.TaskPublished {
		return fmt.Errorf("invalid status %q", status)
	}

	if err := localstore.SetMarketingTaskStatus(db, taskID, status); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	fmt.Printf("✓ Task %s set to %s\n", taskID, status)
	return nil
}
