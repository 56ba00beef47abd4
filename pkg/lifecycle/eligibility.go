package lifecycle

import (
	"sort"

	"github.com/samber/lo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// UpcomingWindowDays bounds the dashboard's upcoming list
const UpcomingWindowDays = 7

// CampaignKey names a standing campaign
type CampaignKey string

const (
	CampaignThreeDay CampaignKey = "three-day"
	CampaignDueToday CampaignKey = "due-today"
	CampaignOverdue  CampaignKey = "overdue"
)

// Campaign targets the clients whose days remaining equal DaysRemaining.
// The message comes from the template TemplateID, or FallbackContent when that
// template is gone.
type Campaign struct {
	Key             CampaignKey `json:"key"`
	Title           string      `json:"title"`
	DaysRemaining   int         `json:"daysRemaining"`
	TemplateID      string      `json:"templateId"`
	FallbackContent string      `json:"fallbackContent"`
}

// Overdue matches exactly one day past due. Clients further behind are not
// collected by any campaign.
var standingCampaigns = []Campaign{
	{
		Key:             CampaignThreeDay,
		Title:           "Vencem em 3 dias",
		DaysRemaining:   3,
		TemplateID:      "template1",
		FallbackContent: "Olá, [Nome]! Seu plano IPTV vence em 3 dias. Valor: R$[Valor]. Para renovar, entre em contato conosco.",
	},
	{
		Key:             CampaignDueToday,
		Title:           "Vencem hoje",
		DaysRemaining:   0,
		TemplateID:      "template2",
		FallbackContent: "Olá, [Nome]! Gostaríamos de lembrar que seu plano IPTV vence hoje. Valor: R$[Valor]. Evite a interrupção do serviço! Fale conosco para renovar.",
	},
	{
		Key:             CampaignOverdue,
		Title:           "Venceram ontem",
		DaysRemaining:   -1,
		TemplateID:      "template3",
		FallbackContent: "Olá, [Nome]. Identificamos que seu plano IPTV venceu ontem. Para reativar seu acesso e continuar aproveitando, por favor, entre em contato.",
	},
}

// Campaigns returns the standing campaigns in display order
func Campaigns() []Campaign {
	out := make([]Campaign, len(standingCampaigns))
	copy(out, standingCampaigns)
	return out
}

// CampaignByKey looks a standing campaign up
func CampaignByKey(key CampaignKey) (Campaign, bool) {
	return lo.Find(standingCampaigns, func(c Campaign) bool { return c.Key == key })
}

// SelectByExactDaysRemaining returns the clients with exactly n days remaining,
// in input order. No match gives an empty slice.
func SelectByExactDaysRemaining(clients []models.Client, today calendar.Date, n int) []models.Client {
	return lo.Filter(clients, func(c models.Client, _ int) bool {
		return Classify(c.ExpirationDate, today).DaysRemaining == n
	})
}

// Select applies the campaign's predicate
func (c Campaign) Select(clients []models.Client, today calendar.Date) []models.Client {
	return SelectByExactDaysRemaining(clients, today, c.DaysRemaining)
}

// SelectUpcoming returns the clients with 0..maxDays days remaining, soonest
// first. Clients with the same count keep input order.
func SelectUpcoming(clients []models.Client, today calendar.Date, maxDays int) []Classified {
	out := lo.FilterMap(clients, func(c models.Client, _ int) (Classified, bool) {
		s := Classify(c.ExpirationDate, today)
		return Classified{Client: c, Status: s}, s.DaysRemaining >= 0 && s.DaysRemaining <= maxDays
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Status.DaysRemaining < out[j].Status.DaysRemaining
	})
	return out
}
