package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PancyStudios/WTVConsoleGo/pkg/config"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// ConsoleHandler exposes console.Service over HTTP
type ConsoleHandler struct {
	service *console.Service
	// botOnline reports the Discord console state; nil when the bot is disabled
	botOnline func() bool
}

func NewConsoleHandler(service *console.Service, botOnline func() bool) *ConsoleHandler {
	return &ConsoleHandler{service: service, botOnline: botOnline}
}

func (h *ConsoleHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "WTV Console is running",
		"version": config.Version,
	})
}

// Status reports the store backend and the Discord console
func (h *ConsoleHandler) Status(c *gin.Context) {
	name, err := h.service.StoreStatus(c.Request.Context())

	store := gin.H{"backend": name, "isOnline": err == nil}
	if err != nil {
		store["error"] = errors.Hint(err)
	}

	bot := gin.H{"enabled": h.botOnline != nil, "isOnline": false}
	if h.botOnline != nil {
		bot["isOnline"] = h.botOnline()
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status": "ok",
		"today":  h.service.Today(),
		"store":  store,
		"bot":    bot,
	})
}

func (h *ConsoleHandler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Clients

// ListClients accepts q, reminder, sort and order=desc
func (h *ConsoleHandler) ListClients(c *gin.Context) {
	reminder, _ := strconv.ParseBool(c.Query("reminder"))
	filter := console.ClientFilter{
		Query:            c.Query("q"),
		OnlyWithReminder: reminder,
		SortField:        console.SortField(c.Query("sort")),
		Descending:       c.Query("order") == "desc",
	}

	clients, err := h.service.ListClients(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ConsoleHandler) GetClient(c *gin.Context) {
	client, err := h.service.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ConsoleHandler) CreateClient(c *gin.Context) {
	var req models.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	client, err := h.service.CreateClient(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ConsoleHandler) UpdateClient(c *gin.Context) {
	var req models.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	client, err := h.service.UpdateClient(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ConsoleHandler) DeleteClient(c *gin.Context) {
	if err := h.service.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ConsoleHandler) RenewClient(c *gin.Context) {
	result, err := h.service.RenewClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type reminderRequest struct {
	HasReminder *bool `json:"hasReminder"`
}

func (h *ConsoleHandler) SetReminder(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.HasReminder == nil {
		c.Error(errors.ValidationMissing("hasReminder"))
		return
	}

	client, err := h.service.SetReminder(c.Request.Context(), c.Param("id"), *req.HasReminder)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Campaigns

func (h *ConsoleHandler) ListCampaigns(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Campaigns())
}

func (h *ConsoleHandler) CampaignTargets(c *gin.Context) {
	run, err := h.service.CampaignTargets(c.Request.Context(), lifecycle.CampaignKey(c.Param("key")))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, run)
}

type confirmRequest struct {
	ClientIDs []string `json:"clientIds"`
}

func (h *ConsoleHandler) ConfirmSends(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	logs, err := h.service.ConfirmSends(c.Request.Context(), lifecycle.CampaignKey(c.Param("key")), req.ClientIDs)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, logs)
}

// Notifications

func (h *ConsoleHandler) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	logs, err := h.service.Notifications(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *ConsoleHandler) RecordNotifications(c *gin.Context) {
	var drafts []models.NotificationDraft
	if err := c.ShouldBindJSON(&drafts); err != nil {
		badRequest(c, err)
		return
	}

	logs, err := h.service.RecordNotifications(c.Request.Context(), drafts)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, logs)
}
