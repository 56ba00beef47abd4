// Package messaging renders campaign messages from templates and turns them
// into WhatsApp deep links the operator opens by hand.
package messaging

import (
	"strings"

	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// NotAvailable fills placeholders whose source record is missing
const NotAvailable = "N/A"

// Placeholders are the values substituted into a template
type Placeholders struct {
	Nome       string `json:"nome"`
	Plano      string `json:"plano"`
	Vencimento string `json:"vencimento"`
	Valor      string `json:"valor"`
}

// Render substitutes [Nome], [Plano], [Vencimento] and [Valor] in content.
// Unknown bracketed text is left alone.
func Render(content string, p Placeholders) string {
	r := strings.NewReplacer(
		"[Nome]", p.Nome,
		"[Plano]", p.Plano,
		"[Vencimento]", p.Vencimento,
		"[Valor]", p.Valor,
	)
	return r.Replace(content)
}

// PlaceholdersFor resolves the values for a client. plan may be nil when the
// client points at a plan that was deleted.
func PlaceholdersFor(client models.Client, plan *models.Plan) Placeholders {
	p := Placeholders{
		Nome:       client.FullName,
		Plano:      NotAvailable,
		Vencimento: client.ExpirationDate.Display(),
		Valor:      NotAvailable,
	}
	if plan != nil {
		p.Plano = plan.Name
		p.Valor = plan.MonthlyValue.Format()
	}
	return p
}
