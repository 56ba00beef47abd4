// Package console is the application layer of the WTV console. Both operator
// surfaces (the HTTP API and the Discord bot) go through Service, which
// validates input, applies the lifecycle rules and writes to the store.
package console

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/messaging"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store"
)

// Service implements every console operation
type Service struct {
	repos      *store.Repositories
	clock      calendar.Clock
	dispatcher messaging.Dispatcher
	publisher  Publisher
	validate   *validator.Validate
}

// Option configures a Service
type Option func(*Service)

// WithDispatcher replaces the WhatsApp link dispatcher
func WithDispatcher(d messaging.Dispatcher) Option {
	return func(s *Service) { s.dispatcher = d }
}

// WithPublisher sets where change events go
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// New builds a Service over repos
func New(repos *store.Repositories, clock calendar.Clock, opts ...Option) *Service {
	s := &Service{
		repos:      repos,
		clock:      clock,
		dispatcher: messaging.WhatsAppLinkDispatcher{},
		publisher:  NopPublisher{},
		validate:   newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the business day every listing is measured against
func (s *Service) Today() calendar.Date {
	return s.clock.Today()
}

// StoreStatus reports the backend name and whether it currently works
func (s *Service) StoreStatus(ctx context.Context) (string, error) {
	if s.repos.Backend == nil {
		return "unknown", nil
	}
	return s.repos.Backend.Name(), s.repos.Backend.Ping(ctx)
}
