package memory

import (
	"time"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// demoData builds the starter data set. Dates are relative to the clock so the
// dashboard always has something to show.
func demoData(clock calendar.Clock) snapshot {
	today := clock.Today()
	now := clock.Now()

	client := func(id, name, phone, server, city, login string, activated, expires int, plan string) models.Client {
		return models.Client{
			ID:             id,
			FullName:       name,
			Phone:          phone,
			ServerID:       server,
			CityState:      city,
			IPTVLogin:      login,
			ActivationDate: today.AddDays(activated),
			ExpirationDate: today.AddDays(expires),
			PlanID:         plan,
		}
	}

	carlos := client("client3", "Carlos Pereira", "5531999998888", "server3", "Belo Horizonte/MG", "carlos.p", -40, -10, "plan3")
	carlos.HasReminder = true

	return snapshot{
		Plans: []models.Plan{
			{ID: "plan1", Name: "Plano Básico", Description: "Canais SD e HD", MonthlyValue: models.NewMoney(25)},
			{ID: "plan2", Name: "Plano Premium", Description: "Canais Full HD e 4K", MonthlyValue: models.NewMoney(40)},
			{ID: "plan3", Name: "Plano Total", Description: "Todos os canais + Filmes e Séries", MonthlyValue: models.NewMoney(55)},
		},
		Servers: []models.Server{
			{ID: "server1", Name: "Servidor Principal (USA)", URL: "http://usa.server.com"},
			{ID: "server2", Name: "Servidor Secundário (BR)", URL: "http://br.server.com"},
			{ID: "server3", Name: "Servidor VIP (EU)", URL: "http://eu.server.com"},
		},
		Clients: []models.Client{
			client("client1", "João da Silva", "5511987654321", "server2", "São Paulo/SP", "joao.silva", -27, 3, "plan2"),
			client("client2", "Maria Oliveira", "5521912345678", "server1", "Rio de Janeiro/RJ", "maria.o", -15, 15, "plan1"),
			carlos,
			client("client4", "Ana Costa", "5571988887777", "server2", "Salvador/BA", "ana.costa", -5, 25, "plan2"),
			client("client5", "Pedro Martins", "5561977776666", "server1", "Brasília/DF", "pedro.m", -1, 29, "plan1"),
		},
		Templates: []models.MessageTemplate{
			{
				ID:      "template1",
				Name:    "Lembrete de 3 dias",
				Content: "Olá, [Nome]! Seu plano IPTV [Plano] vence em 3 dias, no dia [Vencimento]. O valor para renovação é de R$[Valor]. Para renovar, entre em contato conosco.",
			},
			{
				ID:      "template2",
				Name:    "Aviso de Vencimento",
				Content: "Olá, [Nome]. Gostaríamos de informar que seu plano [Plano] vence hoje, dia [Vencimento]. Para evitar a interrupção do serviço, por favor, realize o pagamento.",
			},
			{
				ID:      "template3",
				Name:    "Cobrança",
				Content: "Olá, [Nome]. Identificamos que seu plano [Plano] venceu em [Vencimento]. Para reativar seu acesso, renove por R$[Valor] entrando em contato conosco.",
			},
		},
		Notifications: []models.NotificationLog{
			{
				ID:         "notif1",
				ClientID:   "client1",
				ClientName: "João da Silva",
				Message:    "Olá, João da Silva! Seu plano IPTV vence em 3 dias. Valor: R$40.00. Para renovar, entre em contato conosco.",
				SentAt:     now.Add(-24 * time.Hour),
			},
			{
				ID:         "notif2",
				ClientID:   "client3",
				ClientName: "Carlos Pereira",
				Message:    "Olá, Carlos Pereira! Seu plano IPTV venceu. Para reativar, entre em contato conosco.",
				SentAt:     now.Add(-13 * 24 * time.Hour),
			},
		},
	}
}
