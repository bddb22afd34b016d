// ShopEat backend - REST shopping-list API plus the websocket session
// endpoint. Uses OpenAI for replies when OPENAI_API_KEY is set, the keyword
// rules engine otherwise.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopeat/go-shopeat/internal/config"
	"github.com/shopeat/go-shopeat/internal/log"
	"github.com/shopeat/go-shopeat/pkg/assist"
	"github.com/shopeat/go-shopeat/pkg/server"
)

func main() {
	port := flag.String("port", config.ServerPort(), "Listen port (overrides SHOPEAT_PORT)")
	level := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*level)

	var assistant assist.Assistant
	if key := config.OpenAIKey(); key != "" {
		openai, err := assist.NewOpenAI(key)
		if err != nil {
			log.Error("openai setup failed", "error", err)
			os.Exit(1)
		}
		assistant = openai
		log.Info("using OpenAI interpreter")
	} else {
		assistant = assist.NewRules()
		log.Info("OPENAI_API_KEY not set, using rules interpreter")
	}

	srv := server.New(server.Config{
		Addr:         ":" + *port,
		Assistant:    assistant,
		ReplyTimeout: time.Duration(config.IntEnv("SHOPEAT_REPLY_TIMEOUT", 30)) * time.Second,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("listening", "addr", ":"+*port)
	if err := srv.Start(); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
