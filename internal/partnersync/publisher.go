// Package partnersync publishes the owner's shared cycle snapshot to an MQTT
// topic the partner's device subscribes to.
package partnersync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/terraincognita07/cyclecast/internal/services"
	"go.uber.org/zap"
)

const (
	snapshotQoS           = 1
	disconnectQuiesceMs   = 250
	defaultConnectTimeout = 10 * time.Second
)

type Config struct {
	Broker   string
	ClientID string
	Topic    string
	Username string
	Password string
}

// Publisher sends snapshots as retained messages so a partner that connects
// later still receives the latest one.
type Publisher struct {
	client mqtt.Client
	topic  string
	logger *zap.Logger
}

var _ services.PartnerPublisher = (*Publisher)(nil)

func Connect(config Config, logger *zap.Logger) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	if config.Username != "" {
		opts.SetUsername(config.Username)
	}
	if config.Password != "" {
		opts.SetPassword(config.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(defaultConnectTimeout)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker: %w", token.Error())
	}

	return NewPublisher(client, config.Topic, logger), nil
}

func NewPublisher(client mqtt.Client, topic string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, topic: topic, logger: logger}
}

func (publisher *Publisher) PublishSnapshot(ctx context.Context, snapshot services.PartnerSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode partner snapshot: %w", err)
	}

	token := publisher.client.Publish(publisher.topic, snapshotQoS, true, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		publisher.logger.Error("partner snapshot publish failed",
			zap.String("topic", publisher.topic),
			zap.Error(err),
		)
		return fmt.Errorf("publish to topic %s: %w", publisher.topic, err)
	}

	publisher.logger.Info("partner snapshot published",
		zap.String("topic", publisher.topic),
		zap.Int("bytes", len(payload)),
	)
	return nil
}

func (publisher *Publisher) Close() {
	publisher.client.Disconnect(disconnectQuiesceMs)
}
