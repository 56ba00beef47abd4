package console

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
	"github.com/PancyStudios/WTVConsoleGo/pkg/messaging"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// SortField names a client list column
type SortField string

const (
	SortByName       SortField = "fullName"
	SortByPlan       SortField = "planId"
	SortByExpiration SortField = "expirationDate"
	SortByStatus     SortField = "status"
)

// ClientFilter narrows and orders ListClients
type ClientFilter struct {
	// Query matches name or IPTV login, case-insensitive
	Query            string
	OnlyWithReminder bool
	SortField        SortField
	Descending       bool
}

// ClientView is a client with its computed status and resolved references
type ClientView struct {
	models.Client
	Status      lifecycle.Status `json:"status"`
	StatusLabel string           `json:"statusLabel"`
	PlanName    string           `json:"planName"`
	ServerName  string           `json:"serverName"`
}

// lookups resolves plan and server references; dangling ids show as N/A
type lookups struct {
	plans   map[string]models.Plan
	servers map[string]models.Server
}

func (s *Service) loadLookups(ctx context.Context) (lookups, error) {
	plans, err := s.repos.Plans.List(ctx)
	if err != nil {
		return lookups{}, err
	}
	servers, err := s.repos.Servers.List(ctx)
	if err != nil {
		return lookups{}, err
	}
	return lookups{
		plans:   lo.KeyBy(plans, func(p models.Plan) string { return p.ID }),
		servers: lo.KeyBy(servers, func(sv models.Server) string { return sv.ID }),
	}, nil
}

func (l lookups) plan(id string) *models.Plan {
	if p, ok := l.plans[id]; ok {
		return &p
	}
	return nil
}

func (l lookups) view(c models.Client, status lifecycle.Status) ClientView {
	v := ClientView{
		Client:      c,
		Status:      status,
		StatusLabel: status.Label.Display(),
		PlanName:    messaging.NotAvailable,
		ServerName:  messaging.NotAvailable,
	}
	if p, ok := l.plans[c.PlanID]; ok {
		v.PlanName = p.Name
	}
	if sv, ok := l.servers[c.ServerID]; ok {
		v.ServerName = sv.Name
	}
	return v
}

// ListClients returns the filtered client list; every status is computed
// against the same day.
func (s *Service) ListClients(ctx context.Context, filter ClientFilter) ([]ClientView, error) {
	clients, err := s.repos.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	refs, err := s.loadLookups(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	clients = lo.Filter(clients, func(c models.Client, _ int) bool {
		if filter.OnlyWithReminder && !c.HasReminder {
			return false
		}
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(c.FullName), query) ||
			strings.Contains(strings.ToLower(c.IPTVLogin), query)
	})

	sortClients(clients, filter.SortField, filter.Descending)

	classifier := lifecycle.NewClassifier(s.clock.Today())
	return lo.Map(clients, func(c models.Client, _ int) ClientView {
		return refs.view(c, classifier.Classify(c))
	}), nil
}

func sortClients(clients []models.Client, field SortField, desc bool) {
	less := func(a, b models.Client) bool {
		switch field {
		case SortByPlan:
			return a.PlanID < b.PlanID
		case SortByExpiration, SortByStatus:
			return a.ExpirationDate.Before(b.ExpirationDate)
		default:
			return strings.ToLower(a.FullName) < strings.ToLower(b.FullName)
		}
	}
	sort.SliceStable(clients, func(i, j int) bool {
		if desc {
			return less(clients[j], clients[i])
		}
		return less(clients[i], clients[j])
	})
}

// GetClient returns one client with its status
func (s *Service) GetClient(ctx context.Context, id string) (ClientView, error) {
	c, err := s.repos.Clients.Get(ctx, id)
	if err != nil {
		return ClientView{}, err
	}
	return s.viewOf(ctx, c)
}

func (s *Service) viewOf(ctx context.Context, c models.Client) (ClientView, error) {
	refs, err := s.loadLookups(ctx)
	if err != nil {
		return ClientView{}, err
	}
	return refs.view(c, lifecycle.Classify(c.ExpirationDate, s.clock.Today())), nil
}

// CreateClient validates and stores a new client. The activation date
// defaults to today.
func (s *Service) CreateClient(ctx context.Context, c models.Client) (ClientView, error) {
	if c.ActivationDate.IsZero() {
		c.ActivationDate = s.clock.Today()
	}
	if err := s.validateClient(c); err != nil {
		return ClientView{}, err
	}

	created, err := s.repos.Clients.Add(ctx, c)
	if err != nil {
		return ClientView{}, err
	}
	s.publish(ctx, EventClientCreated, created)
	return s.viewOf(ctx, created)
}

// UpdateClient replaces the client stored under id
func (s *Service) UpdateClient(ctx context.Context, id string, c models.Client) (ClientView, error) {
	c.ID = id
	if err := s.validateClient(c); err != nil {
		return ClientView{}, err
	}

	updated, err := s.repos.Clients.Update(ctx, c)
	if err != nil {
		return ClientView{}, err
	}
	s.publish(ctx, EventClientUpdated, updated)
	return s.viewOf(ctx, updated)
}

// DeleteClient removes a client. Its notification history stays.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if err := s.repos.Clients.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, EventClientDeleted, map[string]string{"id": id})
	return nil
}

// SetReminder sets or clears the manual reminder flag
func (s *Service) SetReminder(ctx context.Context, id string, on bool) (ClientView, error) {
	c, err := s.repos.Clients.Get(ctx, id)
	if err != nil {
		return ClientView{}, err
	}
	c.HasReminder = on

	updated, err := s.repos.Clients.Update(ctx, c)
	if err != nil {
		return ClientView{}, err
	}
	s.publish(ctx, EventClientReminder, updated)
	return s.viewOf(ctx, updated)
}

// RenewalResult describes a quick renewal
type RenewalResult struct {
	Client             ClientView    `json:"client"`
	PreviousExpiration calendar.Date `json:"previousExpiration"`
	Anchor             calendar.Date `json:"anchor"`
}

// RenewClient extends the subscription by one renewal period. Each call adds
// another period.
func (s *Service) RenewClient(ctx context.Context, id string) (RenewalResult, error) {
	c, err := s.repos.Clients.Get(ctx, id)
	if err != nil {
		return RenewalResult{}, err
	}

	today := s.clock.Today()
	renewed := lifecycle.Renew(c, today)

	updated, err := s.repos.Clients.Update(ctx, renewed)
	if err != nil {
		return RenewalResult{}, err
	}

	view, err := s.viewOf(ctx, updated)
	if err != nil {
		return RenewalResult{}, err
	}
	result := RenewalResult{
		Client:             view,
		PreviousExpiration: c.ExpirationDate,
		Anchor:             lifecycle.RenewalAnchor(c.ExpirationDate, today),
	}
	s.publish(ctx, EventClientRenewed, result)
	return result, nil
}
