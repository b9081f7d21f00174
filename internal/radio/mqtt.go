package radio

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig selects the broker and the fixed destination topic.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
}

// MQTTRadio sends packets to one fixed MQTT topic. The broker session
// stays open between cycles; Wake and Sleep are no-ops because holding
// the connection is far cheaper than a reconnect handshake per send,
// and the paho client handles link loss with its own reconnect.
type MQTTRadio struct {
	client paho.Client
	topic  string
}

// NewMQTTRadio connects to the broker. The connection attempt is the
// peer registration step of the boot sequence; failure here keeps the
// node from starting.
func NewMQTTRadio(cfg MQTTConfig) (*MQTTRadio, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "accel-node"
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}

	return &MQTTRadio{client: client, topic: cfg.Topic}, nil
}

func (r *MQTTRadio) Wake() error { return nil }

// Send publishes the raw packet bytes at QoS 0: at most once, matching
// the best-effort telemetry contract.
func (r *MQTTRadio) Send(p Packet) error {
	token := r.client.Publish(r.topic, 0, false, p.Bytes())
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s: timeout", r.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", r.topic, err)
	}
	return nil
}

func (r *MQTTRadio) Sleep() error { return nil }

// Close disconnects from the broker.
func (r *MQTTRadio) Close() error {
	r.client.Disconnect(1000)
	return nil
}
