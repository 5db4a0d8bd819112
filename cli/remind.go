// ABOUTME: Calendar re-engagement CLI commands
// ABOUTME: Creates follow-up reminders or prints compose links as a fallback
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/vsdcomms/salesdesk/calendarsync"
	"github.com/vsdcomms/salesdesk/state"
)

// RemindCommand schedules a follow-up for a deal. With an authenticated
// calendar it inserts the event directly; otherwise it prints Google and
// Outlook compose links.
func RemindCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("remind", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("deal ID is required")
	}
	dealID := fs.Args()[0]

	deal, ok := app.FindDeal(dealID)
	if !ok {
		return fmt.Errorf("deal not found: %s", dealID)
	}

	if !calendarsync.HasCredentials() {
		fmt.Printf("Follow-up for %s - add it to your calendar:\n\n", deal.Description)
		fmt.Printf("  Google:  %s\n", calendarsync.GoogleLinkURL(deal))
		fmt.Printf("  Outlook: %s\n", calendarsync.OutlookLinkURL(deal))
		fmt.Println("\nRun 'calendar connect' to create reminders directly.")
		return nil
	}

	token, err := calendarsync.LoadToken()
	if err != nil {
		return fmt.Errorf("failed to load calendar token: %w", err)
	}

	ctx := context.Background()
	service, err := calendarsync.NewCalendarClient(ctx, token)
	if err != nil {
		return err
	}

	link, err := calendarsync.CreateReminder(ctx, service, deal)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Reminder created for %s\n", deal.Description)
	fmt.Printf("  %s\n", link)
	return nil
}

// ConnectCalendarCommand runs the OAuth flow and stores the token.
func ConnectCalendarCommand(args []string) error {
	fs := flag.NewFlagSet("calendar-connect", flag.ExitOnError)
	_ = fs.Parse(args)

	config := calendarsync.NewOAuthConfig()
	if config.ClientID == "" || config.ClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
	}

	authURL := config.AuthCodeURL("state-token")
	fmt.Println("Open this URL in your browser and authorize access:")
	fmt.Printf("\n  %s\n\n", authURL)
	fmt.Print("Paste the authorization code: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read code: %w", err)
	}
	code = strings.TrimSpace(code)

	token, err := config.Exchange(context.Background(), code)
	if err != nil {
		return fmt.Errorf("failed to exchange code: %w", err)
	}

	if err := calendarsync.SaveToken(token); err != nil {
		return err
	}

	fmt.Println("✓ Calendar connected")
	return nil
}
