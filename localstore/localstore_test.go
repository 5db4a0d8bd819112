// ABOUTME: Tests for the local SQLite store
// ABOUTME: Schema init, competitor and task CRUD, settings upsert

package localstore

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/vsdcomms/salesdesk/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count); err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}
	if count < 3 {
		t.Errorf("Expected at least 3 tables, got %d", count)
	}

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}
}

type fakeUnlinker struct {
	unlinked []string
}

func (f *fakeUnlinker) UnlinkCompetitorEverywhere(id string) {
	f.unlinked = append(f.unlinked, id)
}

func TestCompetitorCRUD(t *testing.T) {
	db := openTestDB(t)

	c := &models.Competitor{Name: "TelcoRival", SwotAnalysis: "Strong brand", Notes: "Undercuts on price"}
	if err := CreateCompetitor(db, c); err != nil {
		t.Fatalf("CreateCompetitor failed: %v", err)
	}
	if c.ID == "" {
		t.Fatal("Expected generated id")
	}

	got, err := GetCompetitor(db, c.ID)
	if err != nil {
		t.Fatalf("GetCompetitor failed: %v", err)
	}
	if got == nil || got.Name != "TelcoRival" {
		t.Fatalf("Got %+v, want TelcoRival", got)
	}

	got.RecentNews = "Won a municipal tender"
	if err := UpdateCompetitor(db, got); err != nil {
		t.Fatalf("UpdateCompetitor failed: %v", err)
	}
	updated, _ := GetCompetitor(db, c.ID)
	if updated.RecentNews != "Won a municipal tender" {
		t.Errorf("Update not persisted: %+v", updated)
	}

	found, err := FindCompetitors(db, "rival")
	if err != nil {
		t.Fatalf("FindCompetitors failed: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("Expected 1 match, got %d", len(found))
	}

	unlinker := &fakeUnlinker{}
	if err := DeleteCompetitor(db, unlinker, c.ID); err != nil {
		t.Fatalf("DeleteCompetitor failed: %v", err)
	}
	if len(unlinker.unlinked) != 1 || unlinker.unlinked[0] != c.ID {
		t.Errorf("Expected deal unlink for %s, got %v", c.ID, unlinker.unlinked)
	}
	gone, _ := GetCompetitor(db, c.ID)
	if gone != nil {
		t.Error("Competitor still present after delete")
	}
}

func TestMarketingTaskCRUD(t *testing.T) {
	db := openTestDB(t)

	task := &models.MarketingTask{Type: "LinkedIn Post", Title: "Fiber launch", Date: "2026-09-01", Priority: "High"}
	if err := CreateMarketingTask(db, task); err != nil {
		t.Fatalf("CreateMarketingTask failed: %v", err)
	}
	if task.Status != models.TaskDraft {
		t.Errorf("Expected default Draft status, got %s", task.Status)
	}

	if err := SetMarketingTaskStatus(db, task.ID, models.TaskScheduled); err != nil {
		t.Fatalf("SetMarketingTaskStatus failed: %v", err)
	}
	if err := SaveFullDraft(db, task.ID, "Full post body"); err != nil {
		t.Fatalf("SaveFullDraft failed: %v", err)
	}

	got, err := GetMarketingTask(db, task.ID)
	if err != nil {
		t.Fatalf("GetMarketingTask failed: %v", err)
	}
	if got.Status != models.TaskScheduled || got.FullDraft != "Full post body" {
		t.Errorf("Got %+v", got)
	}

	if err := DeleteMarketingTask(db, task.ID); err != nil {
		t.Fatalf("DeleteMarketingTask failed: %v", err)
	}
	gone, _ := GetMarketingTask(db, task.ID)
	if gone != nil {
		t.Error("Task still present after delete")
	}
}

func TestReplaceMarketingTasks(t *testing.T) {
	db := openTestDB(t)

	old := &models.MarketingTask{Type: "Blog", Title: "Old plan item"}
	if err := CreateMarketingTask(db, old); err != nil {
		t.Fatalf("CreateMarketingTask failed: %v", err)
	}

	err := ReplaceMarketingTasks(db, []models.MarketingTask{
		{Type: "LinkedIn Post", Title: "Week 1", Date: "2026-09-01"},
		{Type: "Email", Title: "Week 2", Date: "2026-09-08"},
	})
	if err != nil {
		t.Fatalf("ReplaceMarketingTasks failed: %v", err)
	}

	tasks, err := ListMarketingTasks(db)
	if err != nil {
		t.Fatalf("ListMarketingTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks after replace, got %d", len(tasks))
	}
	if tasks[0].Title != "Week 1" {
		t.Errorf("Expected date ordering, got %+v", tasks)
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)

	url, err := CloudFolderURL(db)
	if err != nil {
		t.Fatalf("CloudFolderURL failed: %v", err)
	}
	if url != DefaultCloudFolderURL {
		t.Errorf("Expected default folder URL, got %s", url)
	}

	if err := SetSetting(db, SettingCloudFolderURL, "https://example.com/folder"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := SetSetting(db, SettingCloudFolderURL, "https://example.com/folder2"); err != nil {
		t.Fatalf("SetSetting upsert failed: %v", err)
	}

	url, _ = CloudFolderURL(db)
	if url != "https://example.com/folder2" {
		t.Errorf("Expected overwritten URL, got %s", url)
	}
}
