package mqtt

import (
	"context"
	"fmt"

	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// EventTopicPrefix is prepended to the event type, e.g. wtv/events/client.renewed
const EventTopicPrefix = "wtv/events/"

type topicPublisher interface {
	Publish(topic string, payload interface{}) error
	IsConnected() bool
}

// EventPublisher forwards console events to the broker
type EventPublisher struct {
	client topicPublisher
}

// NewEventPublisher wraps a connected communicator
func NewEventPublisher(client topicPublisher) *EventPublisher {
	return &EventPublisher{client: client}
}

// Publish sends the event as JSON. Events raised while the broker is away are dropped.
func (p *EventPublisher) Publish(_ context.Context, event console.Event) {
	if !p.client.IsConnected() {
		logger.Debug(fmt.Sprintf("Broker offline, dropping %s", event.Type), "MQTT")
		return
	}
	if err := p.client.Publish(EventTopicPrefix+event.Type, event); err != nil {
		logger.Warn(fmt.Sprintf("Error publishing %s: %v", event.Type, err), "MQTT")
	}
}

type requestRouter interface {
	On(requestTopic string, callback RequestHandler)
}

// RegisterHandlers answers status, dashboard and campaign requests from svc
func RegisterHandlers(router requestRouter, svc *console.Service) {
	router.On("status", func(map[string]interface{}) (interface{}, error) {
		name, err := svc.StoreStatus(context.Background())
		status := map[string]interface{}{
			"store":  name,
			"online": err == nil,
			"today":  svc.Today().String(),
		}
		return status, nil
	})

	router.On("dashboard", func(map[string]interface{}) (interface{}, error) {
		return svc.Dashboard(context.Background())
	})

	router.On("campaign", func(payload map[string]interface{}) (interface{}, error) {
		key, _ := payload["campaign"].(string)
		if key == "" {
			return nil, fmt.Errorf("campaign is required")
		}
		return svc.CampaignTargets(context.Background(), lifecycle.CampaignKey(key))
	})
}
