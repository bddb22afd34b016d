// Package config provides configuration helpers for go-shopeat commands.
package config

import (
	"os"
	"strconv"
)

// Default server configuration.
const (
	DefaultServerHost = "localhost"
	DefaultServerPort = "8000"
)

// ServerHost returns the backend host from SHOPEAT_HOST env var.
// Falls back to the provided default if not set.
func ServerHost(defaultHost string) string {
	if host := os.Getenv("SHOPEAT_HOST"); host != "" {
		return host
	}
	return defaultHost
}

// ServerPort returns the backend port from SHOPEAT_PORT env var or default.
func ServerPort() string {
	if port := os.Getenv("SHOPEAT_PORT"); port != "" {
		return port
	}
	return DefaultServerPort
}

// ServerURL returns the backend HTTP base URL.
func ServerURL(host, port string) string {
	return "http://" + host + ":" + port
}

// WebSocketURL returns the websocket endpoint URL for a client ID.
func WebSocketURL(host, port, clientID string) string {
	return "ws://" + host + ":" + port + "/ws/" + clientID
}

// OpenAIKey returns the OpenAI API key from OPENAI_API_KEY env var.
// Empty means the assistant falls back to rule-based replies.
func OpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// IntEnv returns an integer env var value or the default when unset or invalid.
func IntEnv(name string, def int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
