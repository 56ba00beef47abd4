package web

import (
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// SetupAPIRoutes mounts the console API and, when feed is set, the live
// notification socket.
func SetupAPIRoutes(s *Server, h *ConsoleHandler, feed *Feed) {
	svc := h.service

	api := s.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/status", h.Status)
		api.GET("/dashboard", h.Dashboard)

		clients := api.Group("/clients")
		clients.GET("", h.ListClients)
		clients.POST("", h.CreateClient)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeleteClient)
		clients.POST("/:id/renew", h.RenewClient)
		clients.PUT("/:id/reminder", h.SetReminder)

		registerCatalog(api, "/plans", catalogOps[models.Plan]{
			list: svc.ListPlans, get: svc.GetPlan, create: svc.CreatePlan,
			update: svc.UpdatePlan, delete: svc.DeletePlan,
		})
		registerCatalog(api, "/servers", catalogOps[models.Server]{
			list: svc.ListServers, get: svc.GetServer, create: svc.CreateServer,
			update: svc.UpdateServer, delete: svc.DeleteServer,
		})
		registerCatalog(api, "/templates", catalogOps[models.MessageTemplate]{
			list: svc.ListTemplates, get: svc.GetTemplate, create: svc.CreateTemplate,
			update: svc.UpdateTemplate, delete: svc.DeleteTemplate,
		})

		campaigns := api.Group("/campaigns")
		campaigns.GET("", h.ListCampaigns)
		campaigns.GET("/:key", h.CampaignTargets)
		campaigns.POST("/:key/confirm", h.ConfirmSends)

		api.GET("/notifications", h.ListNotifications)
		api.POST("/notifications", h.RecordNotifications)
	}

	if feed != nil {
		s.GET("/ws/notifications", feed.Serve)
	}
}

// BacklogFrom adapts the service history to the feed backlog
func BacklogFrom(svc *console.Service) BacklogFunc {
	return svc.Notifications
}
