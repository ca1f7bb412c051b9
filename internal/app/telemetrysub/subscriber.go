// Package telemetrysub drains the telemetry fanout queue and writes each
// event to the structured log. It stands in for the real telemetry storage
// collaborator during development.
package telemetrysub

import (
	"context"
	"encoding/json"
	"fmt"

	"reorder-system/internal/common/config"
	"reorder-system/internal/common/logger"
	"reorder-system/internal/connections/rabbitmq"
	"reorder-system/internal/telemetry"
)

func Run(ctx context.Context, cfg config.App) error {
	lg := logger.New("telemetry-subscriber")

	client, err := rabbitmq.Dial(cfg.Rabbit)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer client.Close()
	if err := client.DeclareTelemetry(); err != nil {
		return fmt.Errorf("declare telemetry exchange: %w", err)
	}

	deliveries, err := client.Consume(rabbitmq.TelemetryQueue, "telemetry-subscriber", 16)
	if err != nil {
		return fmt.Errorf("consume %s: %w", rabbitmq.TelemetryQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("telemetry channel closed")
			}
			var ev telemetry.Event
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				lg.Error("telemetry_decode_failed", err, nil)
				_ = d.Nack(false, false)
				continue
			}
			fields := map[string]any{"type": ev.Type, "timestamp_ms": ev.TimestampMs}
			for k, v := range ev.Fields {
				fields[k] = v
			}
			lg.Info("telemetry_event", fields)
			_ = d.Ack(false)
		}
	}
}
