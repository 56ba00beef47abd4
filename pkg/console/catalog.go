package console

import (
	"context"

	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store"
)

// Plans, servers and templates share the same CRUD flow: validate, write,
// publish a catalog.changed event.

type catalogChange struct {
	Entity string      `json:"entity"`
	Action string      `json:"action"`
	Record interface{} `json:"record,omitempty"`
	ID     string      `json:"id,omitempty"`
}

func createRecord[T store.Record[T]](ctx context.Context, s *Service, repo store.Repository[T], entity string, record T, check func(T) error) (T, error) {
	if err := check(record); err != nil {
		var zero T
		return zero, err
	}
	created, err := repo.Add(ctx, record)
	if err != nil {
		return created, err
	}
	s.publish(ctx, EventCatalogChanged, catalogChange{Entity: entity, Action: "created", Record: created, ID: created.GetID()})
	return created, nil
}

func updateRecord[T store.Record[T]](ctx context.Context, s *Service, repo store.Repository[T], entity, id string, record T, check func(T) error) (T, error) {
	record = record.WithID(id)
	if err := check(record); err != nil {
		var zero T
		return zero, err
	}
	updated, err := repo.Update(ctx, record)
	if err != nil {
		return updated, err
	}
	s.publish(ctx, EventCatalogChanged, catalogChange{Entity: entity, Action: "updated", Record: updated, ID: id})
	return updated, nil
}

func deleteRecord[T store.Record[T]](ctx context.Context, s *Service, repo store.Repository[T], entity, id string) error {
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, EventCatalogChanged, catalogChange{Entity: entity, Action: "deleted", ID: id})
	return nil
}

// Plans

func (s *Service) ListPlans(ctx context.Context) ([]models.Plan, error) {
	return s.repos.Plans.List(ctx)
}

func (s *Service) GetPlan(ctx context.Context, id string) (models.Plan, error) {
	return s.repos.Plans.Get(ctx, id)
}

func (s *Service) CreatePlan(ctx context.Context, p models.Plan) (models.Plan, error) {
	return createRecord(ctx, s, s.repos.Plans, "plan", p, s.validatePlan)
}

func (s *Service) UpdatePlan(ctx context.Context, id string, p models.Plan) (models.Plan, error) {
	return updateRecord(ctx, s, s.repos.Plans, "plan", id, p, s.validatePlan)
}

// DeletePlan leaves clients that reference the plan pointing at nothing
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.repos.Plans, "plan", id)
}

// Servers

func (s *Service) ListServers(ctx context.Context) ([]models.Server, error) {
	return s.repos.Servers.List(ctx)
}

func (s *Service) GetServer(ctx context.Context, id string) (models.Server, error) {
	return s.repos.Servers.Get(ctx, id)
}

func (s *Service) CreateServer(ctx context.Context, sv models.Server) (models.Server, error) {
	return createRecord(ctx, s, s.repos.Servers, "server", sv, s.checkServer)
}

func (s *Service) UpdateServer(ctx context.Context, id string, sv models.Server) (models.Server, error) {
	return updateRecord(ctx, s, s.repos.Servers, "server", id, sv, s.checkServer)
}

func (s *Service) DeleteServer(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.repos.Servers, "server", id)
}

func (s *Service) checkServer(sv models.Server) error { return s.check(sv) }

// Templates

func (s *Service) ListTemplates(ctx context.Context) ([]models.MessageTemplate, error) {
	return s.repos.Templates.List(ctx)
}

func (s *Service) GetTemplate(ctx context.Context, id string) (models.MessageTemplate, error) {
	return s.repos.Templates.Get(ctx, id)
}

func (s *Service) CreateTemplate(ctx context.Context, t models.MessageTemplate) (models.MessageTemplate, error) {
	return createRecord(ctx, s, s.repos.Templates, "template", t, s.checkTemplate)
}

func (s *Service) UpdateTemplate(ctx context.Context, id string, t models.MessageTemplate) (models.MessageTemplate, error) {
	return updateRecord(ctx, s, s.repos.Templates, "template", id, t, s.checkTemplate)
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.repos.Templates, "template", id)
}

func (s *Service) checkTemplate(t models.MessageTemplate) error { return s.check(t) }
