// Package lifecycle holds the subscription rules of the console: status from
// dates, which clients each campaign targets, renewal arithmetic and the
// append-only notification history.
package lifecycle

import (
	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// ExpiringWindowDays is the last day count still labelled Expiring
const ExpiringWindowDays = 3

// Label is the computed status of a subscription
type Label string

const (
	Active   Label = "Active"
	Expiring Label = "Expiring"
	Expired  Label = "Expired"
)

// Display returns the label shown to operators
func (l Label) Display() string {
	switch l {
	case Active:
		return "Ativo"
	case Expiring:
		return "Vencendo"
	case Expired:
		return "Expirado"
	default:
		return string(l)
	}
}

// Status is derived on every read and never stored
type Status struct {
	Label         Label `json:"label"`
	DaysRemaining int   `json:"daysRemaining"`
}

// Classify computes the status of a subscription that ends on expiration
func Classify(expiration, today calendar.Date) Status {
	days := calendar.DaysBetween(expiration, today)

	switch {
	case days < 0:
		return Status{Label: Expired, DaysRemaining: days}
	case days <= ExpiringWindowDays:
		return Status{Label: Expiring, DaysRemaining: days}
	default:
		return Status{Label: Active, DaysRemaining: days}
	}
}

// Classified pairs a client with its status
type Classified struct {
	Client models.Client `json:"client"`
	Status Status        `json:"status"`
}

// Classifier measures every client against one fixed day
type Classifier struct {
	today calendar.Date
}

func NewClassifier(today calendar.Date) Classifier {
	return Classifier{today: today}
}

func (c Classifier) Today() calendar.Date { return c.today }

func (c Classifier) Classify(client models.Client) Status {
	return Classify(client.ExpirationDate, c.today)
}

// ClassifyAll keeps input order
func (c Classifier) ClassifyAll(clients []models.Client) []Classified {
	out := make([]Classified, 0, len(clients))
	for _, client := range clients {
		out = append(out, Classified{Client: client, Status: c.Classify(client)})
	}
	return out
}
