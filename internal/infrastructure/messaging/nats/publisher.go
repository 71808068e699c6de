package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

// NATSPublisher implements EventPublisher for NATS JetStream
type NATSPublisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
	logger  *logger.Logger
}

// sampleEvent is the wire format for a published sample.
type sampleEvent struct {
	SessionID string        `json:"session_id"`
	Sample    entity.Sample `json:"sample"`
}

// NewNATSPublisher creates a new NATS publisher
func NewNATSPublisher(natsURL, subject string, log *logger.Logger) (*NATSPublisher, error) {
	// Connect to NATS with retry
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	// Get JetStream context
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	log.Info("Connected to NATS", "url", natsURL, "subject", subject)

	return &NATSPublisher{
		nc:      nc,
		js:      js,
		subject: subject,
		logger:  log,
	}, nil
}

// PublishSample publishes one collected sample (async)
func (p *NATSPublisher) PublishSample(ctx context.Context, sessionID string, sample entity.Sample) error {
	data, err := json.Marshal(sampleEvent{SessionID: sessionID, Sample: sample})
	if err != nil {
		return fmt.Errorf("failed to marshal sample event: %w", err)
	}

	// Async publish (fire-and-forget for better performance)
	_, err = p.js.PublishAsync(p.subject, data)
	if err != nil {
		p.logger.Error("Failed to publish sample", err,
			"subject", p.subject,
		)
		return fmt.Errorf("failed to publish sample: %w", err)
	}

	p.logger.Debug("Sample published",
		"subject", p.subject,
		"size", len(data),
	)

	return nil
}

// Close closes the NATS connection
func (p *NATSPublisher) Close() error {
	if p.nc != nil {
		p.logger.Info("Closing NATS connection")
		p.nc.Close()
	}
	return nil
}
