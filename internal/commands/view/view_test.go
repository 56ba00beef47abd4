package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

func TestDays(t *testing.T) {
	tests := map[int]string{
		3:   "vence em 3 dias",
		1:   "vence amanhã",
		0:   "vence hoje",
		-1:  "venceu ontem",
		-10: "venceu há 10 dias",
	}
	for n, want := range tests {
		assert.Equal(t, want, Days(n), n)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "João", Truncate("João", 4))
	assert.Equal(t, "Jo…", Truncate("João", 3))
	assert.Equal(t, "J", Truncate("João", 1))
}

func TestClientLine(t *testing.T) {
	v := console.ClientView{
		Client: models.Client{
			ID:             "client1",
			FullName:       "João da Silva",
			ExpirationDate: calendar.MustParse("2024-06-04"),
		},
		Status:   lifecycle.Status{Label: lifecycle.Expiring, DaysRemaining: 3},
		PlanName: "Plano Premium",
	}

	assert.Equal(t, "🟡 **João da Silva** · Plano Premium · 04/06/2024 (vence em 3 dias) · `client1`", ClientLine(v))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, ColorActive, StatusColor(lifecycle.Active))
	assert.Equal(t, ColorWarning, StatusColor(lifecycle.Expiring))
	assert.Equal(t, ColorDanger, StatusColor(lifecycle.Expired))
}
