package mqtt

import (
	"context"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store/memory"
)

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"wtv/events/#", "wtv/events/client.renewed", true},
		{"wtv/events/#", "wtv/events", true},
		{"wtv/+/status", "wtv/request/status", true},
		{"wtv/+/status", "wtv/request/dashboard", false},
		{"wtv/request/status", "wtv/request/status", true},
		{"wtv/request/status", "wtv/request/status/extra", false},
		{"wtv/request/+", "wtv/request", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.topic, func(t *testing.T) {
			if got := topicMatch(tt.pattern, tt.topic); got != tt.want {
				t.Errorf("topicMatch(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
			}
		})
	}
}

type fakeBroker struct {
	connected bool
	err       error
	topics    []string
	payloads  []interface{}
	handlers  map[string]RequestHandler
}

func (f *fakeBroker) Publish(topic string, payload interface{}) error {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return f.err
}

func (f *fakeBroker) IsConnected() bool { return f.connected }

func (f *fakeBroker) On(topic string, callback RequestHandler) {
	if f.handlers == nil {
		f.handlers = make(map[string]RequestHandler)
	}
	f.handlers[topic] = callback
}

func TestEventPublisher(t *testing.T) {
	broker := &fakeBroker{connected: true}
	p := NewEventPublisher(broker)

	p.Publish(context.Background(), console.Event{Type: console.EventClientRenewed})
	assert.Equal(t, []string{"wtv/events/client.renewed"}, broker.topics)

	broker.err = errors.New("broken pipe")
	p.Publish(context.Background(), console.Event{Type: console.EventNotificationRecorded})
	assert.Len(t, broker.topics, 2)

	broker.connected = false
	p.Publish(context.Background(), console.Event{Type: console.EventClientDeleted})
	assert.Len(t, broker.topics, 2, "offline broker drops events")
}

func TestAnswer(t *testing.T) {
	raw, err := json.Marshal(MqttRequest{CorrelationID: "abc", Payload: map[string]interface{}{"campaign": "overdue"}})
	require.NoError(t, err)

	var seen map[string]interface{}
	resp := answer("wtv/request/campaign", raw, func(p map[string]interface{}) (interface{}, error) {
		seen = p
		return "ok", nil
	})
	require.NotNil(t, resp)
	assert.Equal(t, "abc", resp.CorrelationID)
	assert.Equal(t, "ok", resp.Data)
	assert.Equal(t, "campaign", seen["_topic"])
	assert.Equal(t, "overdue", seen["campaign"])

	resp = answer("wtv/request/campaign", raw, func(map[string]interface{}) (interface{}, error) {
		return nil, errors.New("boom")
	})
	assert.Equal(t, "boom", resp.Error)

	assert.Nil(t, answer("wtv/request/x", []byte("not json"), nil))
}

func TestRegisterHandlers(t *testing.T) {
	clock := calendar.FixedAt(calendar.MustParse("2024-06-01"))
	mem, err := memory.New(memory.Options{Seed: true, Clock: clock})
	require.NoError(t, err)
	svc := console.New(mem.Repositories(), clock)

	broker := &fakeBroker{}
	RegisterHandlers(broker, svc)
	require.Len(t, broker.handlers, 3)

	status, err := broker.handlers["status"](map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"store": "memory", "online": true, "today": "2024-06-01"}, status)

	out, err := broker.handlers["dashboard"](map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, 5, out.(console.Dashboard).Stats.TotalClients)

	out, err = broker.handlers["campaign"](map[string]interface{}{"campaign": "three-day"})
	require.NoError(t, err)
	assert.Len(t, out.(console.CampaignRun).Targets, 1)

	_, err = broker.handlers["campaign"](map[string]interface{}{})
	assert.Error(t, err)
}
