// ABOUTME: Prefilled calendar compose links for re-engagement follow-ups
// ABOUTME: Google and Outlook deep links built from the deal fields

package calendarsync

import (
	"fmt"
	"net/url"

	"github.com/vsdcomms/salesdesk/models"
)

func followUpSubject(deal models.Deal) string {
	return fmt.Sprintf("Follow-up: %s - %s", deal.Description, deal.CompanyName)
}

func followUpBody(deal models.Deal) string {
	return fmt.Sprintf("Strategic follow-up for %s. Objective: Advance to %s phase.",
		deal.ContactPersonName, deal.PipelineStatus)
}

// GoogleLinkURL returns a calendar.google.com compose link prefilled with
// the follow-up subject and strategic objective.
func GoogleLinkURL(deal models.Deal) string {
	return "https://calendar.google.com/calendar/render?action=TEMPLATE&text=" +
		url.QueryEscape(followUpSubject(deal)) +
		"&details=" + url.QueryEscape(followUpBody(deal))
}

// OutlookLinkURL returns the equivalent Outlook deeplink.
func OutlookLinkURL(deal models.Deal) string {
	return "https://outlook.office.com/calendar/0/deeplink/compose?subject=" +
		url.QueryEscape(followUpSubject(deal)) +
		"&body=" + url.QueryEscape(followUpBody(deal))
}
