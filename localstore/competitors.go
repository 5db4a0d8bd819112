// ABOUTME: Competitor database operations
// ABOUTME: CRUD plus unlink-on-delete against the deal collection

package localstore

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vsdcomms/salesdesk/models"
)

// CompetitorUnlinker clears deal references to a competitor being deleted.
// Satisfied by state.App.
type CompetitorUnlinker interface {
	UnlinkCompetitorEverywhere(competitorID string)
}

func CreateCompetitor(db *sql.DB, c *models.Competitor) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO competitors (id, name, swot_analysis, recent_news, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.SwotAnalysis, c.RecentNews, c.Notes, now, now)
	return err
}

func GetCompetitor(db *sql.DB, id string) (*models.Competitor, error) {
	c := &models.Competitor{}
	err := db.QueryRow(`
		SELECT id, name, swot_analysis, recent_news, notes
		FROM competitors WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.SwotAnalysis, &c.RecentNews, &c.Notes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func ListCompetitors(db *sql.DB) ([]models.Competitor, error) {
	rows, err := db.Query(`
		SELECT id, name, swot_analysis, recent_news, notes
		FROM competitors ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Competitor
	for rows.Next() {
		var c models.Competitor
		if err := rows.Scan(&c.ID, &c.Name, &c.SwotAnalysis, &c.RecentNews, &c.Notes); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func FindCompetitors(db *sql.DB, query string) ([]models.Competitor, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := db.Query(`
		SELECT id, name, swot_analysis, recent_news, notes
		FROM competitors
		WHERE LOWER(name) LIKE ?
		ORDER BY name COLLATE NOCASE
	`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Competitor
	for rows.Next() {
		var c models.Competitor
		if err := rows.Scan(&c.ID, &c.Name, &c.SwotAnalysis, &c.RecentNews, &c.Notes); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func UpdateCompetitor(db *sql.DB, c *models.Competitor) error {
	_, err := db.Exec(`
		UPDATE competitors
		SET name = ?, swot_analysis = ?, recent_news = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.SwotAnalysis, c.RecentNews, c.Notes, time.Now(), c.ID)
	return err
}

// DeleteCompetitor removes the record and clears every deal reference to
// it. Deleting a competitor unlinks deals, it never deletes them.
func DeleteCompetitor(db *sql.DB, unlinker CompetitorUnlinker, id string) error {
	if _, err := db.Exec(`DELETE FROM competitors WHERE id = ?`, id); err != nil {
		return err
	}
	if unlinker != nil {
		unlinker.UnlinkCompetitorEverywhere(id)
	}
	return nil
}
