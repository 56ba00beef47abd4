package console

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	clock     calendar.FixedClock
	publisher *recordingPublisher
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = calendar.FixedAt(calendar.MustParse("2024-06-01"))
	s.publisher = &recordingPublisher{}

	mem, err := memory.New(memory.Options{Seed: true, Clock: s.clock})
	s.Require().NoError(err)
	s.service = New(mem.Repositories(), s.clock, WithPublisher(s.publisher))
}

func (s *ServiceSuite) names(views []ClientView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.FullName)
	}
	return out
}

func (s *ServiceSuite) addClient(name, expiration string) ClientView {
	c, err := s.service.CreateClient(s.ctx, models.Client{
		FullName:       name,
		Phone:          "11999990000",
		CityState:      "Curitiba/PR",
		IPTVLogin:      strings.ToLower(strings.ReplaceAll(name, " ", ".")),
		ExpirationDate: calendar.MustParse(expiration),
		PlanID:         "plan1",
		ServerID:       "server1",
	})
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) TestListClientsDefaultSort() {
	views, err := s.service.ListClients(s.ctx, ClientFilter{})
	s.Require().NoError(err)
	s.Equal([]string{"Ana Costa", "Carlos Pereira", "João da Silva", "Maria Oliveira", "Pedro Martins"}, s.names(views))
}

func (s *ServiceSuite) TestListClientsFilters() {
	views, _ := s.service.ListClients(s.ctx, ClientFilter{Query: "SILVA"})
	s.Equal([]string{"João da Silva"}, s.names(views))

	views, _ = s.service.ListClients(s.ctx, ClientFilter{Query: "maria.o"})
	s.Equal([]string{"Maria Oliveira"}, s.names(views))

	views, _ = s.service.ListClients(s.ctx, ClientFilter{OnlyWithReminder: true})
	s.Require().Len(views, 1)
	s.Equal("Carlos Pereira", views[0].FullName)
	s.Equal(lifecycle.Expired, views[0].Status.Label)
	s.Equal("Expirado", views[0].StatusLabel)
	s.Equal(-10, views[0].Status.DaysRemaining)
}

func (s *ServiceSuite) TestListClientsSortByExpirationDesc() {
	views, err := s.service.ListClients(s.ctx, ClientFilter{SortField: SortByExpiration, Descending: true})
	s.Require().NoError(err)
	s.Equal([]string{"Pedro Martins", "Ana Costa", "Maria Oliveira", "João da Silva", "Carlos Pereira"}, s.names(views))
}

func (s *ServiceSuite) TestClientViewResolvesReferences() {
	v, err := s.service.GetClient(s.ctx, "client1")
	s.Require().NoError(err)
	s.Equal("Plano Premium", v.PlanName)
	s.Equal("Servidor Secundário (BR)", v.ServerName)
	s.Equal(lifecycle.Status{Label: lifecycle.Expiring, DaysRemaining: 3}, v.Status)

	s.Require().NoError(s.service.DeletePlan(s.ctx, "plan2"))
	v, err = s.service.GetClient(s.ctx, "client1")
	s.Require().NoError(err)
	s.Equal("N/A", v.PlanName)
}

func (s *ServiceSuite) TestCreateClientValidation() {
	_, err := s.service.CreateClient(s.ctx, models.Client{FullName: "Sem Plano", ServerID: "server1"})
	s.True(errors.IsValidation(err))
	s.Equal("Por favor, selecione um plano e um servidor.", errors.Hint(err))

	_, err = s.service.CreateClient(s.ctx, models.Client{PlanID: "plan1", ServerID: "server1", Phone: "1"})
	s.True(errors.IsValidation(err))
	s.Equal("fullName", errors.Details(err)["field"])

	_, err = s.service.CreateClient(s.ctx, models.Client{
		FullName: "Sem Data", Phone: "1", CityState: "x", IPTVLogin: "x", PlanID: "plan1", ServerID: "server1",
	})
	s.True(errors.IsValidation(err))
	s.Equal("expirationDate", errors.Details(err)["field"])

	views, _ := s.service.ListClients(s.ctx, ClientFilter{})
	s.Len(views, 5, "failed validation must not touch the store")
	s.Empty(s.publisher.types())
}

func (s *ServiceSuite) TestCreateClientDefaultsActivation() {
	c := s.addClient("Lucas Souza", "2024-07-01")
	s.Equal("2024-06-01", c.ActivationDate.String())
	s.NotEmpty(c.ID)
	s.Equal([]string{EventClientCreated}, s.publisher.types())
}

func (s *ServiceSuite) TestUpdateAndDeleteMissingClient() {
	_, err := s.service.UpdateClient(s.ctx, "ghost", models.Client{
		FullName: "Fantasma", Phone: "1", CityState: "x", IPTVLogin: "x",
		PlanID: "plan1", ServerID: "server1", ExpirationDate: calendar.MustParse("2024-07-01"),
	})
	s.True(errors.IsNotFound(err))

	s.True(errors.IsNotFound(s.service.DeleteClient(s.ctx, "ghost")))
	_, err = s.service.RenewClient(s.ctx, "ghost")
	s.True(errors.IsNotFound(err))
}

func (s *ServiceSuite) TestRenewExpiredClient() {
	result, err := s.service.RenewClient(s.ctx, "client3")
	s.Require().NoError(err)

	s.Equal("2024-07-01", result.Client.ExpirationDate.String())
	s.Equal("2024-05-22", result.PreviousExpiration.String())
	s.Equal("2024-06-01", result.Anchor.String())
	s.False(result.Client.HasReminder)
	s.Equal(lifecycle.Active, result.Client.Status.Label)
	s.Equal([]string{EventClientRenewed}, s.publisher.types())

	stored, _ := s.service.GetClient(s.ctx, "client3")
	s.Equal("2024-07-01", stored.ExpirationDate.String())
}

func (s *ServiceSuite) TestRenewActiveClientKeepsCadence() {
	result, err := s.service.RenewClient(s.ctx, "client1")
	s.Require().NoError(err)
	s.Equal("2024-07-04", result.Client.ExpirationDate.String())
	s.Equal("2024-06-04", result.Anchor.String())
}

func (s *ServiceSuite) TestSetReminder() {
	v, err := s.service.SetReminder(s.ctx, "client2", true)
	s.Require().NoError(err)
	s.True(v.HasReminder)

	views, _ := s.service.ListClients(s.ctx, ClientFilter{OnlyWithReminder: true})
	s.Len(views, 2)
}

func (s *ServiceSuite) TestThreeDayCampaign() {
	run, err := s.service.CampaignTargets(s.ctx, lifecycle.CampaignThreeDay)
	s.Require().NoError(err)

	s.Equal("Lembrete de 3 dias", run.TemplateName)
	s.Require().Len(run.Targets, 1)
	target := run.Targets[0]
	s.Equal("client1", target.Client.ID)
	s.Equal("Olá, João da Silva! Seu plano IPTV Plano Premium vence em 3 dias, no dia 04/06/2024. O valor para renovação é de R$40.00. Para renovar, entre em contato conosco.", target.Message)
	s.True(strings.HasPrefix(target.Link, "https://api.whatsapp.com/send?phone=5511987654321&text="))
	s.Empty(target.LinkError)
}

func (s *ServiceSuite) TestOverdueCampaignOnlyYesterday() {
	s.addClient("Ontem", "2024-05-31")
	s.addClient("Cinco Dias", "2024-05-27")

	run, err := s.service.CampaignTargets(s.ctx, lifecycle.CampaignOverdue)
	s.Require().NoError(err)
	s.Require().Len(run.Targets, 1)
	s.Equal("Ontem", run.Targets[0].Client.FullName)
	s.Contains(run.Targets[0].Message, "venceu em 31/05/2024")
}

func (s *ServiceSuite) TestEmptyCampaignIsNotAnError() {
	run, err := s.service.CampaignTargets(s.ctx, lifecycle.CampaignDueToday)
	s.Require().NoError(err)
	s.NotNil(run.Targets)
	s.Empty(run.Targets)
}

func (s *ServiceSuite) TestCampaignFallsBackWhenTemplateDeleted() {
	s.Require().NoError(s.service.DeleteTemplate(s.ctx, "template1"))

	run, err := s.service.CampaignTargets(s.ctx, lifecycle.CampaignThreeDay)
	s.Require().NoError(err)
	s.Require().Len(run.Targets, 1)
	s.Equal("Olá, João da Silva! Seu plano IPTV vence em 3 dias. Valor: R$40.00. Para renovar, entre em contato conosco.", run.Targets[0].Message)
}

func (s *ServiceSuite) TestCampaignWithBadPhone() {
	c := s.addClient("Telefone Curto", "2024-06-04")
	c.Phone = "1234"
	_, err := s.service.UpdateClient(s.ctx, c.ID, c.Client)
	s.Require().NoError(err)

	run, err := s.service.CampaignTargets(s.ctx, lifecycle.CampaignThreeDay)
	s.Require().NoError(err)
	s.Require().Len(run.Targets, 2)

	for _, target := range run.Targets {
		if target.Client.ID == c.ID {
			s.Empty(target.Link)
			s.NotEmpty(target.LinkError)
		}
	}
}

func (s *ServiceSuite) TestUnknownCampaign() {
	_, err := s.service.CampaignTargets(s.ctx, "weekly")
	s.True(errors.IsNotFound(err))
}

func (s *ServiceSuite) TestConfirmSends() {
	logs, err := s.service.ConfirmSends(s.ctx, lifecycle.CampaignThreeDay, []string{"client1", "client1"})
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal("João da Silva", logs[0].ClientName)
	s.Equal(s.clock.Now(), logs[0].SentAt)
	s.Equal([]string{EventNotificationRecorded}, s.publisher.types())

	history, err := s.service.Notifications(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal(logs[0].ID, history[0].ID)

	limited, _ := s.service.Notifications(s.ctx, 2)
	s.Len(limited, 2)
}

func (s *ServiceSuite) TestConfirmSendsRejectsNonTargets() {
	_, err := s.service.ConfirmSends(s.ctx, lifecycle.CampaignThreeDay, []string{"client1", "client2"})
	s.True(errors.IsNotFound(err))

	history, _ := s.service.Notifications(s.ctx, 0)
	s.Len(history, 2, "nothing is recorded when one id is not a target")

	_, err = s.service.ConfirmSends(s.ctx, lifecycle.CampaignThreeDay, nil)
	s.True(errors.IsValidation(err))
}

func (s *ServiceSuite) TestRecordNotificationsValidation() {
	_, err := s.service.RecordNotifications(s.ctx, nil)
	s.True(errors.IsValidation(err))

	_, err = s.service.RecordNotifications(s.ctx, []models.NotificationDraft{{ClientID: "client1", ClientName: "João"}})
	s.True(errors.IsValidation(err))
	s.Equal("message", errors.Details(err)["field"])
}

func (s *ServiceSuite) TestDashboard() {
	d, err := s.service.Dashboard(s.ctx)
	s.Require().NoError(err)

	s.Equal(Stats{TotalClients: 5, ActiveClients: 4, ExpiringSoon: 1, TotalPlans: 3}, d.Stats)
	s.Require().Len(d.Upcoming, 1)
	s.Equal("client1", d.Upcoming[0].ID)
	s.Equal("2024-06-01", d.Today.String())

	counts := map[lifecycle.CampaignKey]int{}
	for _, c := range d.Campaigns {
		counts[c.Campaign.Key] = c.Count
	}
	s.Equal(map[lifecycle.CampaignKey]int{lifecycle.CampaignThreeDay: 1, lifecycle.CampaignDueToday: 0, lifecycle.CampaignOverdue: 0}, counts)
}

func (s *ServiceSuite) TestDashboardUpcomingOrder() {
	s.addClient("Sete", "2024-06-08")
	s.addClient("Hoje", "2024-06-01")
	s.addClient("Oito", "2024-06-09")

	d, err := s.service.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Hoje", "João da Silva", "Sete"}, s.names(d.Upcoming))
}

func (s *ServiceSuite) TestCatalog() {
	plan, err := s.service.CreatePlan(s.ctx, models.Plan{Name: "Plano Família", MonthlyValue: models.NewMoney(70)})
	s.Require().NoError(err)

	_, err = s.service.CreatePlan(s.ctx, models.Plan{Name: "Negativo", MonthlyValue: models.NewMoney(-1)})
	s.True(errors.IsValidation(err))

	plan.Description = "Até 4 telas"
	updated, err := s.service.UpdatePlan(s.ctx, plan.ID, plan)
	s.Require().NoError(err)
	s.Equal("Até 4 telas", updated.Description)

	_, err = s.service.CreateServer(s.ctx, models.Server{Name: "Sem URL"})
	s.True(errors.IsValidation(err))

	_, err = s.service.CreateTemplate(s.ctx, models.MessageTemplate{Name: "Vazio"})
	s.True(errors.IsValidation(err))

	_, err = s.service.UpdateServer(s.ctx, "ghost", models.Server{Name: "x", URL: "y"})
	s.True(errors.IsNotFound(err))

	plans, _ := s.service.ListPlans(s.ctx)
	s.Len(plans, 4)
	s.Equal([]string{EventCatalogChanged, EventCatalogChanged}, s.publisher.types())
}

func (s *ServiceSuite) TestStoreStatus() {
	name, err := s.service.StoreStatus(s.ctx)
	s.NoError(err)
	s.Equal("memory", name)
}

func TestStorageFailureSurfaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wtv.json")
	clock := calendar.FixedAt(calendar.MustParse("2024-06-01"))

	mem, err := memory.New(memory.Options{Path: path, Seed: true, Clock: clock})
	require.NoError(t, err)
	svc := New(mem.Repositories(), clock)

	require.NoError(t, os.Mkdir(path+".tmp", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path+".tmp", "x"), []byte("x"), 0o644))

	_, err = svc.RenewClient(context.Background(), "client1")
	assert.True(t, errors.IsStorage(err))

	v, err := svc.GetClient(context.Background(), "client1")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-04", v.ExpirationDate.String(), "failed renewal must not be applied")

	_, err = svc.StoreStatus(context.Background())
	assert.True(t, errors.IsStorage(err))
}

func TestMultiPublisher(t *testing.T) {
	var got []string
	p := MultiPublisher{
		PublisherFunc(func(_ context.Context, e Event) { got = append(got, "a:"+e.Type) }),
		nil,
		PublisherFunc(func(_ context.Context, e Event) { got = append(got, "b:"+e.Type) }),
	}
	p.Publish(context.Background(), Event{Type: EventClientRenewed})
	assert.Equal(t, []string{"a:client.renewed", "b:client.renewed"}, got)
}
