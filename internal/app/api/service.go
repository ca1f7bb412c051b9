package api

import (
	"context"
	"fmt"
	"strconv"

	"reorder-system/internal/catalog"
	"reorder-system/internal/commerce"
	"reorder-system/internal/common/config"
	"reorder-system/internal/common/httpx"
	"reorder-system/internal/common/logger"
	"reorder-system/internal/connections/database"
	"reorder-system/internal/connections/rabbitmq"
	"reorder-system/internal/coordinator"
	"reorder-system/internal/metrics"
	"reorder-system/internal/telemetry"
)

// Run assembles the catalog, telemetry sink, commerce mock and coordinator,
// then serves the HTTP boundary until ctx is canceled.
func Run(ctx context.Context, cfg config.App) error {
	lg := logger.New("api-server")

	cat, err := buildCatalog(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	lg.Info("catalog_loaded", map[string]any{"source": cfg.Catalog.Source, "products": cat.Len()})

	var (
		sink    telemetry.Sink
		memSink *telemetry.Memory
	)
	switch cfg.Telemetry.Transport {
	case "rabbitmq":
		client, err := rabbitmq.Dial(cfg.Rabbit)
		if err != nil {
			return fmt.Errorf("dial rabbitmq: %w", err)
		}
		defer client.Close()
		amqpSink, err := telemetry.NewAMQP(client, lg)
		if err != nil {
			return fmt.Errorf("declare telemetry exchange: %w", err)
		}
		defer amqpSink.Close()
		sink = amqpSink
	default:
		memSink = telemetry.NewMemory(0)
		sink = memSink
	}

	provider := commerce.WithTimeout{
		Inner:   commerce.NewMock(cat.Products(), cfg.Commerce.FailSKUs),
		Timeout: cfg.Commerce.Timeout(),
	}

	reg := metrics.NewRegistry()
	coord := coordinator.New(coordinator.Deps{
		Catalog:  cat,
		Provider: provider,
		Sink:     sink,
		Metrics:  reg,
		Logger:   lg,
	}, coordinator.Config{
		IntentTTL:       cfg.Coordinator.IntentTTL(),
		DismissCooldown: cfg.Coordinator.DismissCooldown(),
		Retention:       cfg.Coordinator.Retention(),
	})
	go coord.RunSweeper(ctx, cfg.Coordinator.SweepInterval())

	h := NewHandler(coord, memSink, lg)
	srv := httpx.New(":"+strconv.Itoa(cfg.Server.Port), Router(h, reg.Handler()))
	lg.Info("listening", map[string]any{"port": cfg.Server.Port})
	return srv.Run(ctx)
}

func buildCatalog(ctx context.Context, cfg config.App) (*catalog.Catalog, error) {
	switch cfg.Catalog.Source {
	case "file":
		return catalog.LoadFile(cfg.Catalog.Path)
	case "postgres":
		conn, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return catalog.LoadPostgres(ctx, conn)
	default:
		return catalog.New(catalog.Seed())
	}
}
