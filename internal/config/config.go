// Package config defines relay configuration structures and loading hooks.
//
// Conventions follow the rest of the repo: unexported construction details,
// koanf tags on fields, sentinel error kinds in errors.go.
package config

import "context"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address serving the overlay
	// broadcast endpoint and the control-plane API, e.g. ":9090".
	Addr string `koanf:"addr"`

	// CoordinatorURL is the coordination client's websocket endpoint.
	CoordinatorURL string `koanf:"coordinator_url"`

	// RelayName is the display name the relay registers itself under.
	RelayName string `koanf:"relay_name"`

	// EventQueueSize bounds the in-memory coordinator event queue.
	EventQueueSize int `koanf:"queue_size"`

	// BroadcastWriteTimeoutMS bounds a single overlay send.
	BroadcastWriteTimeoutMS int `koanf:"broadcast_write_timeout_ms"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9090",
		CoordinatorURL:          "ws://127.0.0.1:2053",
		RelayName:               "ta-relay",
		EventQueueSize:          1024,
		BroadcastWriteTimeoutMS: 3000,
	}
}
