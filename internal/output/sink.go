// Package output persists finder results: local files, object storage and
// a message topic.
package output

import (
	"context"
	"fmt"

	"intraday-arb/internal/config"
	"intraday-arb/internal/intraday"
)

const (
	jsonFileName = "trading_opportunities.json"
	csvFileName  = "trading_opportunities.csv"
)

// Sink receives one finished scan.
type Sink interface {
	Name() string
	Write(ctx context.Context, res *intraday.Result) error
}

// Multi writes to every sink in order and stops at the first failure.
type Multi []Sink

func (m Multi) Name() string { return "multi" }

func (m Multi) Write(ctx context.Context, res *intraday.Result) error {
	for _, s := range m {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Write(ctx, res); err != nil {
			return fmt.Errorf("%s sink: %w", s.Name(), err)
		}
	}
	return nil
}

// Close releases sinks that hold connections.
func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// Build assembles the sinks enabled in cfg. The file sink is always first
// when a directory is configured.
func Build(ctx context.Context, cfg config.OutputConfig) (Multi, error) {
	var sinks Multi
	if cfg.Dir != "" {
		sinks = append(sinks, NewFileSink(cfg.Dir))
	}
	if cfg.S3.Enabled {
		s, err := NewS3Sink(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.Kafka.Enabled {
		k, err := NewKafkaSink(cfg.Kafka)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, k)
	}
	return sinks, nil
}
