// Package mqtt ingests sensor fill-level pushes. Sensors publish JSON
// payloads on bins/<bin-id>/fill; each message becomes an observation with
// source=sensor after boundary validation in the service layer.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/ecotrack/binsight/core/model"
	"github.com/ecotrack/binsight/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled   bool   `json:"enabled"`
	Broker    string `json:"broker"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FillTopic string `json:"fill_topic"`
	QoS       byte   `json:"qos"`
}

// SetDefaults applies the default topic filter and a random client id.
func (c *Config) SetDefaults() {
	if c.FillTopic == "" {
		c.FillTopic = "bins/+/fill"
	}
	if c.ClientID == "" {
		c.ClientID = "binsight-" + uuid.NewString()[:8]
	}
}

// Validate checks mandatory fields when the ingestor is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	return nil
}

// FillRecorder receives validated sensor readings. Implemented by the
// service layer's RecordFillLevel.
type FillRecorder interface {
	RecordFillLevel(ctx context.Context, binID string, fillLevel float64, source model.Source) (model.Observation, error)
}

type fillMessage struct {
	FillLevel float64 `json:"fill_level"`
}

// pahoClient is the subset of the Paho API the ingestor uses. It can be
// swapped in tests to avoid a live broker.
type pahoClient interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Ingestor subscribes to the fill topic and forwards readings to the
// recorder.
type Ingestor struct {
	cli      pahoClient
	cfg      Config
	recorder FillRecorder
	log      logger.Logger
}

// NewIngestor connects to the broker and subscribes to the fill topic.
func NewIngestor(cfg Config, recorder FillRecorder) (*Ingestor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New("mqtt-ingestor")
	ing := &Ingestor{cfg: cfg, recorder: recorder, log: log}

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Subscribe(cfg.FillTopic, cfg.QoS, ing.onFill); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	ing.cli = c
	return ing, nil
}

// Close disconnects from the broker.
func (i *Ingestor) Close() {
	if i.cli != nil {
		i.cli.Disconnect(uint((250 * time.Millisecond).Milliseconds()))
	}
}

func (i *Ingestor) onFill(_ paho.Client, msg paho.Message) {
	binID, err := binIDFromTopic(msg.Topic())
	if err != nil {
		i.log.Warnf("ignoring message: %v", err)
		return
	}
	var m fillMessage
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		i.log.Warnf("bin %s: invalid fill payload: %v", binID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := i.recorder.RecordFillLevel(ctx, binID, m.FillLevel, model.SourceSensor); err != nil {
		i.log.Warnf("bin %s: record sensor reading: %v", binID, err)
		return
	}
	i.log.Debugw("sensor reading recorded", map[string]any{"bin_id": binID, "fill_level": m.FillLevel})
}

// binIDFromTopic extracts the bin id from a bins/<id>/fill topic.
func binIDFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "bins" || parts[2] != "fill" || parts[1] == "" {
		return "", fmt.Errorf("unexpected topic %q", topic)
	}
	return parts[1], nil
}
