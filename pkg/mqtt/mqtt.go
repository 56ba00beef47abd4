// Package mqtt connects the console to an MQTT broker. Change events are
// published under wtv/events and remote tools query the console by publishing
// to wtv/request/<topic>; answers go to wtv/response/<topic>/<correlationId>.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

const (
	requestPrefix  = "wtv/request/"
	responsePrefix = "wtv/response/"
)

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

type route struct {
	pattern string
	handler func(topic string, payload []byte)
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client   mqtt.Client
	routes   []route
	mu       sync.RWMutex
	clientID string
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a new MQTT communicator
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{
		clientID: clientID,
	}

	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Connected to MQTT broker as %s", clientID), "MQTT")
			mc.resubscribe()
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("MQTT connection lost: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if token.Wait() && token.Error() != nil {
		logger.Error(fmt.Sprintf("MQTT connection error: %v", token.Error()), "MQTT")
	}

	return mc
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("MQTT connection closed.", "MQTT")
	} else {
		logger.Warn("MQTT client was not connected, nothing to close.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Publish sends a message to a topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 0, false, jsonData)
	token.Wait()
	return token.Error()
}

// RequestHandler is a function type for handling MQTT requests
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// On registers a handler for a request topic
func (mc *MqttCommunicator) On(requestTopic string, callback RequestHandler) {
	err := mc.Subscribe(requestPrefix+requestTopic, func(topic string, payload []byte) {
		response := answer(topic, payload, callback)
		if response == nil {
			return
		}
		actualTopic := strings.TrimPrefix(topic, requestPrefix)
		responseTopic := fmt.Sprintf("%s%s/%s", responsePrefix, actualTopic, response.CorrelationID)
		if err := mc.Publish(responseTopic, response); err != nil {
			logger.Error(fmt.Sprintf("Error answering %s: %v", actualTopic, err), "MQTT")
		}
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Error subscribing to topic %s: %v", requestTopic, err), "MQTT")
	}
}

// answer decodes a request and runs callback. It returns nil when the
// payload is not a request.
func answer(topic string, payload []byte, callback RequestHandler) *MqttResponse {
	var request MqttRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		logger.Error(fmt.Sprintf("Error parsing MQTT request: %v", err), "MQTT")
		return nil
	}

	payloadMap := make(map[string]interface{})
	if pm, ok := request.Payload.(map[string]interface{}); ok {
		payloadMap = pm
	}
	payloadMap["_topic"] = strings.TrimPrefix(topic, requestPrefix)

	data, err := callback(payloadMap)
	if err != nil {
		return &MqttResponse{CorrelationID: request.CorrelationID, Error: err.Error()}
	}
	return &MqttResponse{CorrelationID: request.CorrelationID, Data: data}
}

// Subscribe subscribes to a topic with a message handler. Subscriptions are
// remembered and restored after a reconnect.
func (mc *MqttCommunicator) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	mc.mu.Lock()
	mc.routes = append(mc.routes, route{pattern: topic, handler: handler})
	mc.mu.Unlock()

	return mc.subscribe(topic)
}

func (mc *MqttCommunicator) subscribe(pattern string) error {
	token := mc.client.Subscribe(pattern, 0, func(c mqtt.Client, msg mqtt.Message) {
		mc.dispatch(pattern, msg.Topic(), msg.Payload())
	})
	token.Wait()
	return token.Error()
}

// dispatch hands a message to the routes registered under pattern
func (mc *MqttCommunicator) dispatch(pattern, topic string, payload []byte) {
	mc.mu.RLock()
	handlers := make([]func(string, []byte), 0, 1)
	for _, r := range mc.routes {
		if r.pattern == pattern && topicMatch(r.pattern, topic) {
			handlers = append(handlers, r.handler)
		}
	}
	mc.mu.RUnlock()

	for _, h := range handlers {
		h(topic, payload)
	}
}

func (mc *MqttCommunicator) resubscribe() {
	mc.mu.RLock()
	patterns := make([]string, 0, len(mc.routes))
	seen := make(map[string]bool)
	for _, r := range mc.routes {
		if !seen[r.pattern] {
			seen[r.pattern] = true
			patterns = append(patterns, r.pattern)
		}
	}
	mc.mu.RUnlock()

	for _, p := range patterns {
		if err := mc.subscribe(p); err != nil {
			logger.Error(fmt.Sprintf("Error restoring subscription %s: %v", p, err), "MQTT")
		}
	}
}

// Unsubscribe unsubscribes from a topic
func (mc *MqttCommunicator) Unsubscribe(topic string) error {
	mc.mu.Lock()
	kept := mc.routes[:0]
	for _, r := range mc.routes {
		if r.pattern != topic {
			kept = append(kept, r)
		}
	}
	mc.routes = kept
	mc.mu.Unlock()

	token := mc.client.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}

// topicMatch checks if a received topic matches a pattern (with wildcards)
// '+' matches exactly one topic level
// '#' matches zero or more topic levels and must be the last character
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	patternLen := len(patternParts)
	topicLen := len(topicParts)

	for i := 0; i < patternLen; i++ {
		if patternParts[i] == "#" {
			return true
		}

		if i >= topicLen {
			return false
		}

		if patternParts[i] == "+" {
			continue
		}

		if patternParts[i] != topicParts[i] {
			return false
		}
	}

	return patternLen == topicLen
}
