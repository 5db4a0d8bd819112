// ABOUTME: Full JSON backup bundle of profile, leads, deals, competitors
// ABOUTME: Written as a dated file for manual drop into the cloud folder

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vsdcomms/salesdesk/models"
)

// Bundle is the complete dataset snapshot.
type Bundle struct {
	Timestamp   string              `json:"timestamp"`
	Profile     models.Profile      `json:"profile"`
	Leads       []models.Lead       `json:"leads"`
	Deals       []models.Deal       `json:"deals"`
	Competitors []models.Competitor `json:"competitors"`
}

// BackupFileName returns the dated bundle name, e.g.
// VSD_Full_Backup_2026-08-29.json.
func BackupFileName() string {
	return fmt.Sprintf("VSD_Full_Backup_%s.json", time.Now().Format("2006-01-02"))
}

// WriteBackup writes the bundle as indented JSON into dir and returns the
// full path. The caller pairs it with the configured cloud folder URL for
// the manual drag-in step.
func WriteBackup(dir string, profile models.Profile, leads []models.Lead, deals []models.Deal, competitors []models.Competitor) (string, error) {
	bundle := Bundle{
		Timestamp:   time.Now().Format(time.RFC3339),
		Profile:     profile,
		Leads:       leads,
		Deals:       deals,
		Competitors: competitors,
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	path := filepath.Join(dir, BackupFileName())
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return path, nil
}

// ReadBackup loads a bundle from disk, for restores.
func ReadBackup(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	return &bundle, nil
}
