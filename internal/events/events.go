// Package events fans workflow state changes out to MQTT subscribers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const TopicPrefix = "agrofund/events/"

// Event is one status change on a reviewable record.
type Event struct {
	Entity string    `json:"entity"`
	ID     string    `json:"id"`
	Status string    `json:"status"`
	Actor  string    `json:"actor,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher never fails the caller's operation; implementations log instead.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// NopPublisher drops events. Used when MQTT_ENABLED is false.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// Broker is the subset of pkg/mqtt.Client used for publishing.
type Broker interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

type MQTTPublisher struct {
	broker Broker
	qos    byte
	logger *zap.Logger
}

func NewMQTTPublisher(broker Broker, qos byte, logger *zap.Logger) *MQTTPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MQTTPublisher{broker: broker, qos: qos, logger: logger}
}

func (p *MQTTPublisher) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		p.logger.Warn("Failed to encode event", zap.String("entity", e.Entity), zap.Error(err))
		return
	}
	topic := Topic(e.Entity)
	if err := p.broker.Publish(topic, p.qos, false, payload); err != nil {
		p.logger.Warn("Failed to publish event",
			zap.String("topic", topic),
			zap.String("id", e.ID),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("Event published", zap.String("topic", topic), zap.String("id", e.ID), zap.String("status", e.Status))
}

func Topic(entity string) string {
	return fmt.Sprintf("%s%s", TopicPrefix, entity)
}
