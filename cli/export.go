// ABOUTME: Export, import, and backup CLI commands
// ABOUTME: CSV round-trips and full JSON backup bundles
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/vsdcomms/salesdesk/export"
	"github.com/vsdcomms/salesdesk/localstore"
	"github.com/vsdcomms/salesdesk/state"
)

// ExportCommand writes leads or deals to a CSV file.
func ExportCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "Output path (defaults to the dated file name)")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("usage: export <leads|deals>")
	}

	switch fs.Args()[0] {
	case "leads":
		path := *out
		if path == "" {
			path = export.LeadsFileName()
		}
		leads := app.Leads.Current()
		if err := export.ExportLeadsFile(path, leads); err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d lead(s) to %s\n", len(leads), path)

	case "deals":
		path := *out
		if path == "" {
			path = export.DealsFileName()
		}
		deals := app.Deals.Current()
		if err := export.ExportDealsFile(path, deals); err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d deal(s) to %s\n", len(deals), path)

	default:
		return fmt.Errorf("unknown export target: %s (valid: leads, deals)", fs.Args()[0])
	}
	return nil
}

// ImportCommand reads leads or deals from a CSV file and merges them in.
func ImportCommand(app *state.App, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 2 {
		return fmt.Errorf("usage: import <leads|deals> <file>")
	}
	target, path := fs.Args()[0], fs.Args()[1]

	switch target {
	case "leads":
		leads, err := export.ImportLeadsFile(path)
		if err != nil {
			return err
		}
		imported := 0
		for _, lead := range leads {
			if _, ok := app.FindLead(lead.ID); ok {
				if err := app.UpdateLead(lead); err != nil {
					return err
				}
			} else if _, err := app.AddLead(lead); err != nil {
				return err
			}
			imported++
		}
		fmt.Printf("✓ Imported %d lead(s) from %s\n", imported, filepath.Base(path))

	case "deals":
		deals, err := export.ImportDealsFile(path)
		if err != nil {
			return err
		}
		imported := 0
		for _, deal := range deals {
			if _, _, err := app.AddDeal(deal); err != nil {
				return err
			}
			imported++
		}
		fmt.Printf("✓ Imported %d deal(s) from %s\n", imported, filepath.Base(path))

	default:
		return fmt.Errorf("unknown import target: %s (valid: leads, deals)", target)
	}
	return nil
}

// BackupCommand writes the full backup bundle and reminds the user where
// the cloud copy belongs.
func BackupCommand(db *sql.DB, app *state.App, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	dir := fs.String("dir", ".", "Directory to write the backup in")
	_ = fs.Parse(args)

	competitors, err := localstore.ListCompetitors(db)
	if err != nil {
		return fmt.Errorf("failed to list competitors: %w", err)
	}

	path, err := export.WriteBackup(*dir, app.Profile.Current(), app.Leads.Current(), app.Deals.Current(), competitors)
	if err != nil {
		return err
	}

	cloudURL, err := localstore.CloudFolderURL(db)
	if err != nil {
		return fmt.Errorf("failed to read backup folder setting: %w", err)
	}

	fmt.Printf("✓ Backup written: %s\n", path)
	fmt.Printf("  Upload it to the shared folder: %s\n", cloudURL)
	return nil
}

// RestoreCommand loads a backup bundle back into the stores.
func RestoreCommand(db *sql.DB, app *state.App, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("backup file is required")
	}

	bundle, err := export.ReadBackup(fs.Args()[0])
	if err != nil {
		return err
	}

	app.SaveProfile(bundle.Profile)
	app.Leads.Set(bundle.Leads)
	app.Deals.Set(bundle.Deals)

	for i := range bundle.Competitors {
		c := bundle.Competitors[i]
		existing, err := localstore.GetCompetitor(db, c.ID)
		if err != nil {
			return fmt.Errorf("failed to check competitor: %w", err)
		}
		if existing != nil {
			err = localstore.UpdateCompetitor(db, &c)
		} else {
			err = localstore.CreateCompetitor(db, &c)
		}
		if err != nil {
			return fmt.Errorf("failed to restore competitor: %w", err)
		}
	}

	fmt.Printf("✓ Restored %d lead(s), %d deal(s), %d competitor(s) from %s\n",
		len(bundle.Leads), len(bundle.Deals), len(bundle.Competitors), fs.Args()[0])
	return nil
}
