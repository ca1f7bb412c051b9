package config

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"reorder-system/internal/connections/database"
	"reorder-system/internal/connections/rabbitmq"
)

type Server struct {
	Port int `yaml:"port"`
}

type Coordinator struct {
	IntentTTLMs       int64 `yaml:"intent_ttl_ms"`
	DismissCooldownMs int64 `yaml:"dismiss_cooldown_ms"` // 0 disables the post-dismissal window
	RetentionMs       int64 `yaml:"retention_ms"`
	SweepIntervalMs   int64 `yaml:"sweep_interval_ms"`
}

func (c Coordinator) IntentTTL() time.Duration       { return time.Duration(c.IntentTTLMs) * time.Millisecond }
func (c Coordinator) DismissCooldown() time.Duration { return time.Duration(c.DismissCooldownMs) * time.Millisecond }
func (c Coordinator) Retention() time.Duration       { return time.Duration(c.RetentionMs) * time.Millisecond }
func (c Coordinator) SweepInterval() time.Duration   { return time.Duration(c.SweepIntervalMs) * time.Millisecond }

type Commerce struct {
	TimeoutMs int64    `yaml:"timeout_ms"`
	FailSKUs  []string `yaml:"fail_skus"` // mock vendor rejects these outright
}

func (c Commerce) Timeout() time.Duration { return time.Duration(c.TimeoutMs) * time.Millisecond }

type Catalog struct {
	Source string `yaml:"source"` // seed | file | postgres
	Path   string `yaml:"path"`   // file source only
}

type Telemetry struct {
	Transport string `yaml:"transport"` // memory | rabbitmq
}

type App struct {
	Server      Server          `yaml:"server"`
	Coordinator Coordinator     `yaml:"coordinator"`
	Commerce    Commerce        `yaml:"commerce"`
	Catalog     Catalog         `yaml:"catalog"`
	Telemetry   Telemetry       `yaml:"telemetry"`
	Database    database.Config `yaml:"database"`
	Rabbit      rabbitmq.Config `yaml:"rabbitmq"`
}

// 15m prompt TTL, 5m dismissal cooldown, 1h retention.
func defaults() App {
	return App{
		Server: Server{Port: 3000},
		Coordinator: Coordinator{
			IntentTTLMs:       15 * 60 * 1000,
			DismissCooldownMs: 5 * 60 * 1000,
			RetentionMs:       60 * 60 * 1000,
			SweepIntervalMs:   60 * 1000,
		},
		Commerce:  Commerce{TimeoutMs: 10 * 1000},
		Catalog:   Catalog{Source: "seed"},
		Telemetry: Telemetry{Transport: "memory"},
	}
}

func Load(path string) (App, error) {
	a := defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, fmt.Errorf("parse config: %w", err)
	}
	if err := a.validate(); err != nil {
		return App{}, err
	}
	return a, nil
}

// Default returns a config without reading any file, for runs that need no
// external collaborators.
func Default() App { return defaults() }

func (a App) validate() error {
	if a.Coordinator.IntentTTLMs <= 0 {
		return fmt.Errorf("invalid config: intent_ttl_ms must be positive")
	}
	if a.Coordinator.DismissCooldownMs < 0 {
		return fmt.Errorf("invalid config: dismiss_cooldown_ms must not be negative")
	}
	if a.Coordinator.RetentionMs <= 0 {
		return fmt.Errorf("invalid config: retention_ms must be positive")
	}
	if a.Commerce.TimeoutMs <= 0 {
		return fmt.Errorf("invalid config: commerce timeout_ms must be positive")
	}
	switch a.Catalog.Source {
	case "seed", "file", "postgres":
	default:
		return fmt.Errorf("invalid config: unknown catalog source %q", a.Catalog.Source)
	}
	if a.Catalog.Source == "file" && a.Catalog.Path == "" {
		return fmt.Errorf("invalid config: catalog source file requires path")
	}
	if a.Catalog.Source == "postgres" && a.Database.Host == "" {
		return fmt.Errorf("invalid config: catalog source postgres requires database host")
	}
	switch a.Telemetry.Transport {
	case "memory", "rabbitmq":
	default:
		return fmt.Errorf("invalid config: unknown telemetry transport %q", a.Telemetry.Transport)
	}
	if a.Telemetry.Transport == "rabbitmq" && a.Rabbit.Host == "" {
		return fmt.Errorf("invalid config: telemetry transport rabbitmq requires rabbitmq host")
	}
	return nil
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
