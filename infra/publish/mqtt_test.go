package publish

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/projection"
)

type stubToken struct {
	err error
}

func (t *stubToken) Wait() bool                     { return true }
func (t *stubToken) WaitTimeout(time.Duration) bool { return true }
func (t *stubToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *stubToken) Error() error { return t.err }

type published struct {
	topic   string
	payload []byte
}

type stubClient struct {
	connected  bool
	connectErr error
	publishErr error
	failFirst  int // fail the first n publishes
	messages   []published
}

func (c *stubClient) IsConnected() bool { return c.connected }

func (c *stubClient) Connect() paho.Token {
	if c.connectErr == nil {
		c.connected = true
	}
	return &stubToken{err: c.connectErr}
}

func (c *stubClient) Disconnect(uint) { c.connected = false }

func (c *stubClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	if c.failFirst > 0 {
		c.failFirst--
		return &stubToken{err: errors.New("broker unavailable")}
	}
	if c.publishErr != nil {
		return &stubToken{err: c.publishErr}
	}
	c.messages = append(c.messages, published{topic: topic, payload: payload.([]byte)})
	return &stubToken{}
}

func withStubClient(t *testing.T, cli *stubClient) {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return cli }
	t.Cleanup(func() { newMQTTClient = orig })
}

func sampleRun() *projection.Run {
	return &projection.Run{
		ID:    "run-1",
		Today: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Projections: []model.Projection{
			{Vehicle: model.VehicleRecord{Plate: "ABC1234"}, Status: model.StatusOverdue},
			{Vehicle: model.VehicleRecord{Plate: "DEF5678"}, Status: model.StatusOnTrack},
		},
		Anomalies: []model.Anomaly{
			{Plate: "ABC1234", Kind: model.AnomalyMileageRegression, Detail: "latest below baseline"},
		},
		Duration: 42 * time.Millisecond,
	}
}

func TestPublishRun(t *testing.T) {
	cli := &stubClient{}
	withStubClient(t, cli)

	p, err := New(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.PublishRun(sampleRun()))
	require.Len(t, cli.messages, 2)

	assert.Equal(t, "fleet/maintenance/summary", cli.messages[0].topic)
	var sum map[string]any
	require.NoError(t, json.Unmarshal(cli.messages[0].payload, &sum))
	assert.Equal(t, "run-1", sum["run_id"])
	assert.Equal(t, "2024-06-10", sum["today"])
	assert.Equal(t, float64(2), sum["fleet_size"])
	assert.Equal(t, float64(1), sum["overdue"])
	assert.Equal(t, float64(1), sum["anomalies"])

	assert.Equal(t, "fleet/maintenance/anomalies", cli.messages[1].topic)
	var an map[string]any
	require.NoError(t, json.Unmarshal(cli.messages[1].payload, &an))
	assert.Equal(t, "ABC1234", an["plate"])
	assert.Equal(t, "mileage_regression", an["kind"])
}

func TestPublishRunRetriesTransientFailures(t *testing.T) {
	cli := &stubClient{failFirst: 2}
	withStubClient(t, cli)

	p, err := New(Config{Enabled: true, Broker: "tcp://localhost:1883", BackoffMS: 1})
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.PublishRun(sampleRun()))
	require.Len(t, cli.messages, 2)
}

func TestPublishRunGivesUpAfterMaxRetries(t *testing.T) {
	cli := &stubClient{publishErr: errors.New("broker gone")}
	withStubClient(t, cli)

	p, err := New(Config{Enabled: true, Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1})
	require.NoError(t, err)
	defer p.Close()

	assert.Error(t, p.PublishRun(sampleRun()))
}

func TestNewFailsWhenBrokerUnreachable(t *testing.T) {
	cli := &stubClient{connectErr: errors.New("connection refused")}
	withStubClient(t, cli)

	_, err := New(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, "frotas-publisher", cfg.ClientID)
	assert.Equal(t, "fleet/maintenance/summary", cfg.SummaryTopic)
	assert.Equal(t, "fleet/maintenance/anomalies", cfg.AnomalyTopic)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{Enabled: true}.Validate())
	assert.NoError(t, Config{Enabled: true, Broker: "tcp://b:1883"}.Validate())
}
