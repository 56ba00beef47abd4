package console

import (
	"context"

	"github.com/samber/lo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
	"github.com/PancyStudios/WTVConsoleGo/pkg/messaging"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// CampaignTarget is one client a campaign would message today
type CampaignTarget struct {
	Client  ClientView `json:"client"`
	Message string     `json:"message"`
	Link    string     `json:"link,omitempty"`
	// LinkError explains why no link could be built, usually a bad phone
	LinkError string `json:"linkError,omitempty"`
}

// CampaignRun is a campaign evaluated for one day
type CampaignRun struct {
	Campaign     lifecycle.Campaign `json:"campaign"`
	Today        calendar.Date      `json:"today"`
	TemplateName string             `json:"templateName"`
	Targets      []CampaignTarget   `json:"targets"`
}

// Campaigns lists the standing campaigns
func (s *Service) Campaigns() []lifecycle.Campaign {
	return lifecycle.Campaigns()
}

func (s *Service) campaign(key lifecycle.CampaignKey) (lifecycle.Campaign, error) {
	c, ok := lifecycle.CampaignByKey(key)
	if !ok {
		return lifecycle.Campaign{}, errors.NotFound("campaign", string(key))
	}
	return c, nil
}

// templateFor returns the campaign's template, or a stand-in built from the
// fallback text when the template was deleted.
func (s *Service) templateFor(ctx context.Context, c lifecycle.Campaign) (models.MessageTemplate, error) {
	t, err := s.repos.Templates.Get(ctx, c.TemplateID)
	if errors.IsNotFound(err) {
		return models.MessageTemplate{ID: c.TemplateID, Name: c.Title, Content: c.FallbackContent}, nil
	}
	return t, err
}

// CampaignTargets evaluates a campaign for today. An empty target list is a
// normal result.
func (s *Service) CampaignTargets(ctx context.Context, key lifecycle.CampaignKey) (CampaignRun, error) {
	campaign, err := s.campaign(key)
	if err != nil {
		return CampaignRun{}, err
	}
	template, err := s.templateFor(ctx, campaign)
	if err != nil {
		return CampaignRun{}, err
	}
	clients, err := s.repos.Clients.List(ctx)
	if err != nil {
		return CampaignRun{}, err
	}
	refs, err := s.loadLookups(ctx)
	if err != nil {
		return CampaignRun{}, err
	}

	today := s.clock.Today()
	selected := campaign.Select(clients, today)

	targets := make([]CampaignTarget, 0, len(selected))
	for _, c := range selected {
		text := messaging.Render(template.Content, messaging.PlaceholdersFor(c, refs.plan(c.PlanID)))
		target := CampaignTarget{
			Client:  refs.view(c, lifecycle.Classify(c.ExpirationDate, today)),
			Message: text,
		}

		out, err := s.dispatcher.Dispatch(ctx, messaging.Message{
			ClientID:   c.ID,
			ClientName: c.FullName,
			Phone:      c.Phone,
			Text:       text,
		})
		if err != nil {
			target.LinkError = errors.Hint(err)
			if target.LinkError == "" {
				target.LinkError = err.Error()
			}
		} else {
			target.Link = out.Link
		}
		targets = append(targets, target)
	}

	return CampaignRun{
		Campaign:     campaign,
		Today:        today,
		TemplateName: template.Name,
		Targets:      targets,
	}, nil
}

// ConfirmSends records that the operator sent the campaign message to each
// client. Every id must still be a target today; otherwise nothing is recorded.
func (s *Service) ConfirmSends(ctx context.Context, key lifecycle.CampaignKey, clientIDs []string) ([]models.NotificationLog, error) {
	if len(clientIDs) == 0 {
		return nil, errors.ValidationMissing("clientIds")
	}

	run, err := s.CampaignTargets(ctx, key)
	if err != nil {
		return nil, err
	}
	byClient := lo.KeyBy(run.Targets, func(t CampaignTarget) string { return t.Client.ID })

	drafts := make([]models.NotificationDraft, 0, len(clientIDs))
	for _, id := range lo.Uniq(clientIDs) {
		target, ok := byClient[id]
		if !ok {
			return nil, errors.NotFound("client", id)
		}
		drafts = append(drafts, models.NotificationDraft{
			ClientID:   id,
			ClientName: target.Client.FullName,
			Message:    target.Message,
		})
	}

	return s.RecordNotifications(ctx, drafts)
}

// RecordNotifications appends sends to the history
func (s *Service) RecordNotifications(ctx context.Context, drafts []models.NotificationDraft) ([]models.NotificationLog, error) {
	if len(drafts) == 0 {
		return nil, errors.ValidationMissing("notifications")
	}
	for _, d := range drafts {
		if err := s.check(d); err != nil {
			return nil, err
		}
	}

	created, err := s.repos.Notifications.Append(ctx, drafts)
	if err != nil {
		return nil, err
	}
	for _, entry := range created {
		s.publish(ctx, EventNotificationRecorded, entry)
	}
	return created, nil
}

// Notifications returns the history newest first, capped at limit when limit > 0
func (s *Service) Notifications(ctx context.Context, limit int) ([]models.NotificationLog, error) {
	logs, err := s.repos.Notifications.List(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
