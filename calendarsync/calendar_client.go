// ABOUTME: Authenticated Google Calendar client and reminder creation
// ABOUTME: Inserts a next-day follow-up event for a deal

package calendarsync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/vsdcomms/salesdesk/models"
)

// NewCalendarClient creates a Calendar API service from an OAuth token.
func NewCalendarClient(ctx context.Context, token *oauth2.Token) (*calendar.Service, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	config := NewOAuthConfig()
	client := config.Client(ctx, token)

	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return service, nil
}

// ReminderEvent builds the follow-up event inserted for a deal: half an
// hour starting 9am tomorrow, with the same subject and objective text as
// the compose links.
func ReminderEvent(deal models.Deal, now time.Time) *calendar.Event {
	start := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	end := start.Add(30 * time.Minute)

	return &calendar.Event{
		Summary:     followUpSubject(deal),
		Description: followUpBody(deal),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
}

// CreateReminder inserts the follow-up event into the primary calendar and
// returns the event link.
func CreateReminder(ctx context.Context, service *calendar.Service, deal models.Deal) (string, error) {
	event := ReminderEvent(deal, time.Now())

	created, err := service.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create reminder event: %w", err)
	}
	return created.HtmlLink, nil
}
