// Package publish pushes run results to an MQTT broker for downstream
// dashboards. It is an optional collaborator: the core engine never
// imports it.
package publish

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/projection"
	"github.com/Claudio-NG/FROTAS/core/runmetrics"
	"github.com/Claudio-NG/FROTAS/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT publisher.
type Config struct {
	Enabled      bool   `json:"enabled"`
	Broker       string `json:"broker"`
	ClientID     string `json:"client_id"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	SummaryTopic string `json:"summary_topic"`
	AnomalyTopic string `json:"anomaly_topic"`
	QoS          byte   `json:"qos"`
	Retain       bool   `json:"retain"`
	MaxRetries   int    `json:"max_retries"`
	BackoffMS    int    `json:"backoff_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "frotas-publisher"
	}
	if c.SummaryTopic == "" {
		c.SummaryTopic = "fleet/maintenance/summary"
	}
	if c.AnomalyTopic == "" {
		c.AnomalyTopic = "fleet/maintenance/anomalies"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS == 0 {
		c.BackoffMS = 100
	}
}

// Validate checks mandatory fields when publishing is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher sends run summaries and anomaly lists to the broker.
type Publisher struct {
	cli     pahoClient
	cfg     Config
	log     logger.Logger
	backoff time.Duration
}

// New connects to the MQTT broker.
func New(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	log := logger.New("mqtt-publisher")
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected") }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Publisher{
		cli:     c,
		cfg:     cfg,
		log:     log,
		backoff: time.Duration(cfg.BackoffMS) * time.Millisecond,
	}, nil
}

type summaryPayload struct {
	RunID     string  `json:"run_id"`
	Today     string  `json:"today"`
	FleetSize int     `json:"fleet_size"`
	Overdue   int     `json:"overdue"`
	Attention int     `json:"attention"`
	OnTrack   int     `json:"on_track"`
	Unknown   int     `json:"unknown"`
	Anomalies int     `json:"anomalies"`
	Duration  float64 `json:"duration_seconds"`
}

type anomalyPayload struct {
	RunID  string `json:"run_id"`
	Plate  string `json:"plate"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// PublishRun sends the run summary and one message per anomaly.
func (p *Publisher) PublishRun(run *projection.Run) error {
	counts := runmetrics.CountStatuses(run.Projections)
	sum := summaryPayload{
		RunID:     run.ID,
		Today:     run.Today.Format("2006-01-02"),
		FleetSize: len(run.Projections),
		Overdue:   counts[model.StatusOverdue],
		Attention: counts[model.StatusAttention],
		OnTrack:   counts[model.StatusOnTrack],
		Unknown:   counts[model.StatusUnknown],
		Anomalies: len(run.Anomalies),
		Duration:  run.Duration.Seconds(),
	}
	if err := p.publishJSON(p.cfg.SummaryTopic, sum); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}
	for _, a := range run.Anomalies {
		msg := anomalyPayload{RunID: run.ID, Plate: a.Plate, Kind: string(a.Kind), Detail: a.Detail}
		if err := p.publishJSON(p.cfg.AnomalyTopic, msg); err != nil {
			return fmt.Errorf("publish anomaly %s: %w", a.Plate, err)
		}
	}
	return nil
}

func (p *Publisher) publishJSON(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		token := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		p.log.Warnf("publish to %s failed (attempt %d): %v", topic, attempt+1, publishErr)
		time.Sleep(p.backoff)
	}
	return publishErr
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
