package console

import (
	"context"

	"github.com/samber/lo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
)

// Stats are the dashboard counters
type Stats struct {
	TotalClients  int `json:"totalClients"`
	ActiveClients int `json:"activeClients"`
	ExpiringSoon  int `json:"expiringSoon"`
	TotalPlans    int `json:"totalPlans"`
}

// CampaignSummary is a campaign with its target count for today
type CampaignSummary struct {
	Campaign lifecycle.Campaign `json:"campaign"`
	Count    int                `json:"count"`
}

// Dashboard is the operator's landing view
type Dashboard struct {
	Today     calendar.Date     `json:"today"`
	Stats     Stats             `json:"stats"`
	Upcoming  []ClientView      `json:"upcoming"`
	Campaigns []CampaignSummary `json:"campaigns"`
}

// Dashboard computes counters, the 7-day upcoming list and campaign sizes
// against one day.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	clients, err := s.repos.Clients.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	refs, err := s.loadLookups(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	today := s.clock.Today()
	classified := lifecycle.NewClassifier(today).ClassifyAll(clients)

	stats := Stats{
		TotalClients: len(clients),
		ActiveClients: lo.CountBy(classified, func(c lifecycle.Classified) bool {
			return c.Status.Label != lifecycle.Expired
		}),
		ExpiringSoon: lo.CountBy(classified, func(c lifecycle.Classified) bool {
			return c.Status.Label == lifecycle.Expiring
		}),
		TotalPlans: len(refs.plans),
	}

	upcoming := lo.Map(lifecycle.SelectUpcoming(clients, today, lifecycle.UpcomingWindowDays), func(c lifecycle.Classified, _ int) ClientView {
		return refs.view(c.Client, c.Status)
	})

	summaries := lo.Map(lifecycle.Campaigns(), func(c lifecycle.Campaign, _ int) CampaignSummary {
		return CampaignSummary{Campaign: c, Count: len(c.Select(clients, today))}
	})

	return Dashboard{
		Today:     today,
		Stats:     stats,
		Upcoming:  upcoming,
		Campaigns: summaries,
	}, nil
}
