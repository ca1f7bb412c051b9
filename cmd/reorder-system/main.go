package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reorder-system/internal/app/api"
	"reorder-system/internal/app/telemetrysub"
	"reorder-system/internal/common/config"
	"reorder-system/internal/common/logger"
)

func main() {
	mode := flag.String("mode", "", "api-server | telemetry-subscriber")
	port := flag.Int("port", 0, "override the configured HTTP port")
	configPath := flag.String("config", "", "path to config.yaml (defaults to config.yaml, then deploy/config.example.yaml)")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	switch *mode {
	case "api-server":
		lg.Info("service_started", map[string]any{"service": "api-server", "port": cfg.Server.Port})
		if err := api.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "telemetry-subscriber":
		lg.Info("service_started", map[string]any{"service": "telemetry-subscriber"})
		if err := telemetrysub.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: api-server | telemetry-subscriber")
		os.Exit(2)
	}
}

// loadConfig falls back to built-in defaults when no config file exists, so
// the api-server runs standalone with the seed catalog and memory telemetry.
func loadConfig(path string) (config.App, error) {
	if path != "" {
		return config.Load(path)
	}
	found, err := config.FindConfig()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(found)
}
