package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Client publishes dataset and run lifecycle events.
type Client interface {
	Publish(subject string, data interface{}) error
	Close()
}

// publishTimeout bounds the wait for a JetStream ack.
const publishTimeout = 5 * time.Second

// duplicateWindow is how long the stream remembers message IDs.
const duplicateWindow = 2 * time.Minute

// NATSClient publishes to the TOPSIS_EVENTS stream and waits for the stream
// to acknowledge each message.
type NATSClient struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *slog.Logger
}

func NewNATSClient(ctx context.Context, url string, logger *slog.Logger) (*NATSClient, error) {
	nc, err := nats.Connect(url,
		nats.Name("topsisd"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	c := &NATSClient{conn: nc, js: js, logger: logger}
	if err := c.ensureStream(ctx); err != nil {
		logger.Warn("event stream unavailable, publishes will fail until it exists", "stream", StreamName, "error", err)
	}
	return c, nil
}

func (c *NATSClient) ensureStream(ctx context.Context) error {
	cfg, err := streamConfig()
	if err != nil {
		return err
	}
	_, err = c.js.CreateOrUpdateStream(ctx, cfg)
	return err
}

func streamConfig() (jetstream.StreamConfig, error) {
	maxAge, err := time.ParseDuration(StreamMaxAge)
	if err != nil {
		return jetstream.StreamConfig{}, fmt.Errorf("stream max age: %w", err)
	}
	return jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{SubjectPrefix + ".>"},
		Storage:    jetstream.FileStorage,
		MaxAge:     maxAge,
		Duplicates: duplicateWindow,
	}, nil
}

// Publish sends data as a JSON message and blocks until the stream acks it.
func (c *NATSClient) Publish(subject string, data interface{}) error {
	msg, err := newMsg(subject, data)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	ack, err := c.js.PublishMsg(ctx, msg)
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	if ack.Duplicate {
		c.logger.Debug("duplicate event dropped by stream", "subject", subject, "seq", ack.Sequence)
	}
	return nil
}

// newMsg encodes data as JSON and stamps a unique message ID so the stream
// can drop redelivered copies.
func newMsg(subject string, data interface{}) (*nats.Msg, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", subject, err)
	}
	msg := nats.NewMsg(subject)
	msg.Data = payload
	msg.Header.Set("Content-Type", "application/json")
	msg.Header.Set(jetstream.MsgIDHeader, uuid.NewString())
	return msg, nil
}

func (c *NATSClient) Close() {
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
	}
}
