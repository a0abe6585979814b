package kafkactrl

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/heliotherm-dev/heliotherm/internal/log"
	"github.com/heliotherm-dev/heliotherm/internal/ports"
)

type Config struct {
	DeviceID string
	Brokers  []string
	Topic    string

	// PollInterval is how often the publisher checks for a new run.
	PollInterval time.Duration
}

// Sample is the wire envelope for one published series point.
type Sample struct {
	DeviceID  string    `json:"deviceId"`
	RunID     string    `json:"runId"`
	Series    string    `json:"series"`
	Hour      float64   `json:"hour"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// messageWriter is satisfied by *kafka.Writer; tests inject a fake.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Controller struct {
	svc ports.SimulatorService
	cfg Config

	w messageWriter
}

func New(svc ports.SimulatorService, cfg Config) (*Controller, error) {
	if cfg.DeviceID == "" {
		return nil, errors.New("kafka: DeviceID is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if cfg.Topic == "" {
		cfg.Topic = "heliotherm.samples"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 1 * time.Second
	}
	return &Controller{svc: svc, cfg: cfg}, nil
}

func newKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
}

// Run publishes the hourly tank samples of every new simulation run until
// ctx is canceled. Each run is published exactly once, keyed by device ID so
// one device's samples stay ordered within a partition.
func (c *Controller) Run(ctx context.Context) error {
	if c.w == nil {
		c.w = newKafkaWriter(c.cfg.Brokers, c.cfg.Topic)
	}
	defer func() {
		if err := c.w.Close(); err != nil {
			log.Errorw("kafka writer close failed", "err", err)
		}
	}()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	var lastRunID string
	if id, err := c.publishRun(ctx); err != nil {
		log.Errorw("kafka publish failed", "err", err, "deviceId", c.cfg.DeviceID)
	} else {
		lastRunID = id
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if c.svc.Get().RunID == lastRunID {
				continue
			}
			id, err := c.publishRun(ctx)
			if err != nil {
				log.Errorw("kafka publish failed", "err", err, "deviceId", c.cfg.DeviceID)
				continue
			}
			lastRunID = id
		}
	}
}

// publishRun writes the current run's tank samples and returns the run ID
// they were taken from, so the caller records exactly the run it wrote.
func (c *Controller) publishRun(ctx context.Context) (string, error) {
	snap := c.svc.Get()
	res := c.svc.Result()
	now := time.Now()

	var msgs []kafka.Message
	for _, s := range res.Tank {
		for _, pt := range s.Points {
			b, err := json.Marshal(Sample{
				DeviceID:  c.cfg.DeviceID,
				RunID:     snap.RunID,
				Series:    s.Name,
				Hour:      pt.Hour,
				Value:     pt.Value,
				Timestamp: now,
			})
			if err != nil {
				return "", err
			}
			msgs = append(msgs, kafka.Message{Key: []byte(c.cfg.DeviceID), Value: b, Time: now})
		}
	}
	if len(msgs) == 0 {
		return snap.RunID, nil
	}
	if err := c.w.WriteMessages(ctx, msgs...); err != nil {
		return "", err
	}
	log.Infow("published run", "deviceId", c.cfg.DeviceID, "runId", snap.RunID, "samples", len(msgs))
	return snap.RunID, nil
}
