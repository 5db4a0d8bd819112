// ABOUTME: Tests for compose links, token storage, and reminder events
// ABOUTME: No network; the calendar service itself is exercised elsewhere

package calendarsync

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsdcomms/salesdesk/models"
)

var linkDeal = models.Deal{
	Description:       "Campus wifi rollout",
	CompanyName:       "Acme Networks",
	ContactPersonName: "Jo Tan",
	PipelineStatus:    models.StatusPotential,
}

func TestGoogleLinkURL(t *testing.T) {
	u := GoogleLinkURL(linkDeal)
	assert.Contains(t, u, "calendar.google.com/calendar/render?action=TEMPLATE")
	assert.Contains(t, u, "Follow-up%3A+Campus+wifi+rollout+-+Acme+Networks")
	assert.Contains(t, u, "Advance+to+Potential+phase")
}

func TestOutlookLinkURL(t *testing.T) {
	u := OutlookLinkURL(linkDeal)
	assert.Contains(t, u, "outlook.office.com/calendar/0/deeplink/compose")
	assert.Contains(t, u, "Jo+Tan")
}

func TestReminderEvent(t *testing.T) {
	now := time.Date(2026, 8, 29, 16, 30, 0, 0, time.UTC)
	event := ReminderEvent(linkDeal, now)

	assert.Equal(t, "Follow-up: Campus wifi rollout - Acme Networks", event.Summary)
	assert.Contains(t, event.Description, "Jo Tan")

	start, err := time.Parse(time.RFC3339, event.Start.DateTime)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC), start)

	end, err := time.Parse(time.RFC3339, event.End.DateTime)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, end.Sub(start))
}

func TestOAuthConfig(t *testing.T) {
	config := NewOAuthConfig()
	require.NotNil(t, config)
	require.Len(t, config.Scopes, 1)
	assert.Equal(t, "https://www.googleapis.com/auth/calendar.events", config.Scopes[0])
}

func TestTokenPathXDG(t *testing.T) {
	path := TokenPath()
	assert.True(t, strings.HasPrefix(path, filepath.Join(xdg.DataHome, "salesdesk")),
		"token must live under the app's XDG data dir, got %s", path)
	assert.Equal(t, "google-credentials.json", filepath.Base(path))
}

func TestLoadTokenMissingFile(t *testing.T) {
	if _, err := os.Stat(TokenPath()); err == nil {
		t.Skip("token file exists on this machine")
	}
	_, err := LoadToken()
	assert.Error(t, err)
}

func TestNewCalendarClientRejectsNilToken(t *testing.T) {
	_, err := NewCalendarClient(t.Context(), nil)
	assert.Error(t, err)
}
