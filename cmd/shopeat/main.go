// ShopEat terminal client - a voice shopping session over websocket.
// Typed lines stand in for speech; replies print instead of playing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopeat/go-shopeat/internal/log"
	"github.com/shopeat/go-shopeat/pkg/client"
)

func main() {
	cfg, level := parseFlags()
	log.Init(level)

	app := client.New(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shopeat: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() (client.Config, string) {
	cfg := client.DefaultConfig()

	host := flag.String("host", cfg.Host, "Backend host (overrides SHOPEAT_HOST)")
	port := flag.String("port", cfg.Port, "Backend port (overrides SHOPEAT_PORT)")
	clientID := flag.String("client-id", "", "Client ID (default: random)")
	greeting := flag.String("greeting", "", "Override the spoken greeting")
	manual := flag.Bool("manual", false, "Start without hands-free listening")
	level := flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg.Host, cfg.Port = *host, *port
	if *clientID != "" {
		cfg.ClientID = *clientID
	}
	cfg.Greeting = *greeting
	cfg.Continuous = !*manual
	return cfg, *level
}
