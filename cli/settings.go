// ABOUTME: Settings and profile CLI commands
// ABOUTME: API key entry, backup folder, and business profile edits
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/vsdcomms/salesdesk/localstore"
	"github.com/vsdcomms/salesdesk/state"
)

// ShowSettingsCommand prints the profile and stored settings.
func ShowSettingsCommand(db *sql.DB, app *state.App, args []string) error {
	profile := app.Profile.Current()

	fmt.Println("PROFILE")
	fmt.Printf("  Name:           %s\n", orDash(profile.Name))
	fmt.Printf("  Role:           %s\n", orDash(profile.Role))
	fmt.Printf("  Company:        %s\n", orDash(profile.CompanyName))
	fmt.Printf("  Target revenue: %s\n", orDash(profile.TargetRevenue))
	fmt.Printf("  Sales style:    %s\n", orDash(profile.SalesStyle))
	fmt.Printf("  Product assets: %d\n", len(profile.ProductAssets))

	cloudURL, err := localstore.CloudFolderURL(db)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	key, err := localstore.GetSetting(db, localstore.SettingGeminiAPIKey, "")
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	keyState := "not set"
	if key != "" {
		keyState = "set"
	}

	fmt.Println("\nSETTINGS")
	fmt.Printf("  Backup folder:  %s\n", cloudURL)
	fmt.Printf("  Gemini API key: %s\n", keyState)
	return nil
}

// SetKeyCommand stores the Gemini API key, read with hidden input.
func SetKeyCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("set-key", flag.ExitOnError)
	_ = fs.Parse(args)

	fmt.Print("Gemini API key: ")
	keyBytes, err := term.ReadPassword(syscall.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}
	fmt.Println() // New line after hidden input

	key := string(keyBytes)
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if err := localstore.SetSetting(db, localstore.SettingGeminiAPIKey, key); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}

	fmt.Println("✓ API key saved")
	return nil
}

// SetCloudURLCommand changes the backup folder destination.
func SetCloudURLCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("set-cloud-url", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("folder URL is required")
	}

	if err := localstore.SetSetting(db, localstore.SettingCloudFolderURL, fs.Args()[0]); err != nil {
		return fmt.Errorf("failed to save folder URL: %w", err)
	}

	fmt.Println("✓ Backup folder updated")
	return nil
}

// UpdateProfileCommand edits the business profile used in AI prompts.
func UpdateProfileCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "Your name")
	role := fs.String("role", "", "Your role")
	company := fs.String("company", "", "Company name")
	target := fs.String("target", "", "Target revenue, e.g. RM 100,000")
	product := fs.String("product", "", "What you sell")
	industries := fs.String("industries", "", "Industries you serve")
	style := fs.String("style", "", "Sales style")
	goals := fs.String("goals", "", "Current goals")
	_ = fs.Parse(args)

	profile := app.Profile.Current()
	if *name != "" {
		profile.Name = *name
	}
	if *role != "" {
		profile.Role = *role
	}
	if *company != "" {
		profile.CompanyName = *company
	}
	if *target != "" {
		profile.TargetRevenue = *target
	}
	if *product != "" {
		profile.Product = *product
	}
	if *industries != "" {
		profile.Industries = *industries
	}
	if *style != "" {
		profile.SalesStyle = *style
	}
	if *goals != "" {
		profile.Goals = *goals
	}

	app.SaveProfile(profile)
	fmt.Println("✓ Profile updated")
	return nil
}
