package queue

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"adlens/internal/config"
	"adlens/internal/model"
)

// Job asks the worker to analyze one uploaded video.
type Job struct {
	AnalysisID uint                  `json:"analysis_id"`
	VideoKey   string                `json:"video_key"`
	Model      string                `json:"model,omitempty"`
	Options    model.AnalysisOptions `json:"options"`
}

// Delivery is a received job that must be acknowledged once handled.
type Delivery struct {
	Job  Job
	Ack  func() error
	Nack func(requeue bool) error
}

// Queue carries analysis jobs from the API to the workers.
type Queue interface {
	Publish(ctx context.Context, job Job) error
	// Consume streams deliveries until ctx is cancelled.
	Consume(ctx context.Context) (<-chan Delivery, error)
	Close() error
}

// New builds the queue selected by cfg.Driver.
func New(cfg config.QueueConfig, logger zerolog.Logger) (Queue, error) {
	switch cfg.Driver {
	case "rabbitmq", "amqp":
		return NewRabbitMQ(cfg.URL, cfg.Name, cfg.Prefetch, logger)
	case "memory", "":
		return NewMemory(256), nil
	default:
		return nil, fmt.Errorf("unsupported queue driver %q", cfg.Driver)
	}
}
