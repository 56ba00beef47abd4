package lifecycle

import (
	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// RenewalPeriodDays is added on every renewal regardless of plan
const RenewalPeriodDays = 30

// RenewalAnchor is the current expiration while it has not passed, today otherwise
func RenewalAnchor(expiration, today calendar.Date) calendar.Date {
	if expiration.Before(today) {
		return today
	}
	return expiration
}

// Renew returns the client with a new expiration one period after the anchor
// and the reminder flag cleared. Every call adds another period, so callers
// must never retry it on their own.
func Renew(client models.Client, today calendar.Date) models.Client {
	client.ExpirationDate = RenewalAnchor(client.ExpirationDate, today).AddDays(RenewalPeriodDays)
	client.HasReminder = false
	return client
}
