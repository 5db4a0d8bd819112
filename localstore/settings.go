// ABOUTME: Key-value settings stored in the local database
// ABOUTME: Cloud backup folder URL and the saved marketing plan

package localstore

import (
	"database/sql"
	"time"
)

// Setting keys.
const (
	SettingCloudFolderURL = "cloud_folder_url"
	SettingMarketingPlan  = "marketing_plan"
	SettingGeminiAPIKey   = "gemini_api_key"
)

// DefaultCloudFolderURL is the shared Drive folder backups are dropped in
// until the user points the app somewhere else.
const DefaultCloudFolderURL = "https://drive.google.com/drive/folders/16h74cBl4OYaWgFcY2MmOOLNroHs_odyg?usp=sharing"

// GetSetting returns the stored value, or fallback when the key is unset.
func GetSetting(db *sql.DB, key, fallback string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting upserts a settings key.
func SetSetting(db *sql.DB, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	return err
}

// CloudFolderURL returns the configured backup destination.
func CloudFolderURL(db *sql.DB) (string, error) {
	return GetSetting(db, SettingCloudFolderURL, DefaultCloudFolderURL)
}
