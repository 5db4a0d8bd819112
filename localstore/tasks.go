// ABOUTME: Marketing task database operations
// ABOUTME: CRUD for the content calendar, ordered by scheduled date

package localstore

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/vsdcomms/salesdesk/models"
)

func CreateMarketingTask(db *sql.DB, task *models.MarketingTask) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = models.TaskDraft
	}
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO marketing_tasks (id, type, title, topic, content, full_draft, date, status, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.Type, task.Title, task.Topic, task.Content, task.FullDraft, task.Date, task.Status, task.Priority, now, now)
	return err
}

func GetMarketingTask(db *sql.DB, id string) (*models.MarketingTask, error) {
	task := &models.MarketingTask{}
	err := db.QueryRow(`
		SELECT id, type, title, topic, content, full_draft, date, status, priority
		FROM marketing_tasks WHERE id = ?
	`, id).Scan(&task.ID, &task.Type, &task.Title, &task.Topic, &task.Content,
		&task.FullDraft, &task.Date, &task.Status, &task.Priority)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func ListMarketingTasks(db *sql.DB) ([]models.MarketingTask, error) {
	rows, err := db.Query(`
		SELECT id, type, title, topic, content, full_draft, date, status, priority
		FROM marketing_tasks ORDER BY date, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MarketingTask
	for rows.Next() {
		var task models.MarketingTask
		if err := rows.Scan(&task.ID, &task.Type, &task.Title, &task.Topic, &task.Content,
			&task.FullDraft, &task.Date, &task.Status, &task.Priority); err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func UpdateMarketingTask(db *sql.DB, task *models.MarketingTask) error {
	_, err := db.Exec(`
		UPDATE marketing_tasks
		SET type = ?, title = ?, topic = ?, content = ?, full_draft = ?, date = ?, status = ?, priority = ?, updated_at = ?
		WHERE id = ?
	`, task.Type, task.Title, task.Topic, task.Content, task.FullDraft, task.Date, task.Status, task.Priority, time.Now(), task.ID)
	return err
}

// SetMarketingTaskStatus moves a task through Draft, Scheduled, Published.
func SetMarketingTaskStatus(db *sql.DB, id, status string) error {
	_, err := db.Exec(`
		UPDATE marketing_tasks SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now(), id)
	return err
}

// SaveFullDraft stores the generated long-form draft for a task.
func SaveFullDraft(db *sql.DB, id, draft string) error {
	_, err := db.Exec(`
		UPDATE marketing_tasks SET full_draft = ?, updated_at = ? WHERE id = ?
	`, draft, time.Now(), id)
	return err
}

func DeleteMarketingTask(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM marketing_tasks WHERE id = ?`, id)
	return err
}

// ReplaceMarketingTasks swaps the whole calendar in one transaction, used
// when a freshly generated plan replaces the previous one.
func ReplaceMarketingTasks(db *sql.DB, tasks []models.MarketingTask) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM marketing_tasks`); err != nil {
		return err
	}
	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if task.ID == "" {
			task.ID = uuid.New().String()
		}
		if task.Status == "" {
			task.Status = models.TaskDraft
		}
		if _, err := tx.Exec(`
			INSERT INTO marketing_tasks (id, type, title, topic, content, full_draft, date, status, priority, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, task.ID, task.Type, task.Title, task.Topic, task.Content, task.FullDraft, task.Date, task.Status, task.Priority, now, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}
