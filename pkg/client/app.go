// Package client wires the terminal voice-shopping session: transport,
// capture, playback, the session manager, and the list view. Typed lines
// stand in for speech so the full pipeline runs without audio hardware.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopeat/go-shopeat/internal/config"
	"github.com/shopeat/go-shopeat/pkg/capture"
	"github.com/shopeat/go-shopeat/pkg/session"
	"github.com/shopeat/go-shopeat/pkg/shopping"
	"github.com/shopeat/go-shopeat/pkg/speech"
	"github.com/shopeat/go-shopeat/pkg/transport"
)

// Config holds client configuration.
type Config struct {
	// Host and Port locate the backend.
	Host string
	Port string

	// ClientID identifies this device on the websocket endpoint.
	ClientID string

	// Greeting overrides the default spoken greeting. Empty keeps it.
	Greeting string

	// Continuous starts hands-free listening immediately.
	Continuous bool

	// In and Out are the terminal streams.
	In  io.Reader
	Out io.Writer
}

// DefaultConfig returns client defaults, honoring SHOPEAT_HOST and
// SHOPEAT_PORT.
func DefaultConfig() Config {
	return Config{
		Host:       config.ServerHost(config.DefaultServerHost),
		Port:       config.ServerPort(),
		ClientID:   uuid.NewString(),
		Continuous: true,
		In:         os.Stdin,
		Out:        os.Stdout,
	}
}

// App is the terminal client.
type App struct {
	cfg       Config
	out       io.Writer
	transport *transport.Client
	manager   *session.Manager
	mic       *capture.Console
	rest      *shopping.Client
}

// New wires the session together. Call Run to start it.
func New(cfg Config) *App {
	if cfg.ClientID == "" {
		cfg.ClientID = uuid.NewString()
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	out := cfg.Out
	mic := capture.NewConsole()
	speaker := speech.NewConsole(out)
	projector := shopping.NewProjector(shopping.ViewFunc(func(items []shopping.Item) {
		renderList(out, items)
	}))

	tc := transport.NewClient(transport.Config{
		URL: config.WebSocketURL(cfg.Host, cfg.Port, cfg.ClientID),
	})

	scfg := session.DefaultConfig()
	if cfg.Greeting != "" {
		scfg.GreetingText = cfg.Greeting
	}
	manager := session.New(scfg, mic, speaker, tc, projector, &consoleEvents{out: out})
	tc.OnMessage(manager.HandleMessage)
	tc.OnStatus(manager.HandleTransportState)

	return &App{
		cfg:       cfg,
		out:       out,
		transport: tc,
		manager:   manager,
		mic:       mic,
		rest:      shopping.NewClient(config.ServerURL(cfg.Host, cfg.Port)),
	}
}

// Run connects and processes terminal input until the context is cancelled
// or the user quits.
func (a *App) Run(ctx context.Context) error {
	if err := a.transport.Connect(); err != nil {
		return err
	}
	defer a.transport.Close()
	defer a.manager.Close()

	if a.cfg.Continuous {
		a.manager.EnableContinuous()
	}
	a.printHelp()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.cfg.In)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if a.handleLine(strings.TrimSpace(line)) {
				return nil
			}
		}
	}
}

// handleLine dispatches one typed line. It reports whether the user quit.
func (a *App) handleLine(line string) bool {
	switch {
	case line == "":
		return false

	case line == "/quit" || line == "/exit":
		return true

	case line == "/help":
		a.printHelp()

	case line == "/start":
		a.manager.EnableContinuous()

	case line == "/stop":
		a.manager.DisableContinuous()

	case line == "/mic":
		a.manager.Listen()

	case line == "/list":
		if err := a.manager.RequestList(); err != nil {
			fmt.Fprintf(a.out, "⚠️  %v\n", err)
		}

	case line == "/clear":
		if err := a.manager.ClearList(); err != nil {
			fmt.Fprintf(a.out, "⚠️  %v\n", err)
		}

	case strings.HasPrefix(line, "/add "):
		name := strings.TrimSpace(strings.TrimPrefix(line, "/add "))
		if name == "" {
			fmt.Fprintln(a.out, "Usage: /add <item>")
			return false
		}
		if err := a.manager.AddItem(shopping.NewItem(name)); err != nil {
			fmt.Fprintf(a.out, "⚠️  %v\n", err)
		}

	case line == "/fetch":
		// Pulls the list over REST, independent of the websocket.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		snapshot, err := a.rest.List(ctx)
		cancel()
		if err != nil {
			fmt.Fprintf(a.out, "⚠️  %v\n", err)
			return false
		}
		renderList(a.out, snapshot.Items)

	case strings.HasPrefix(line, "/"):
		fmt.Fprintf(a.out, "Unknown command %q. Type /help.\n", line)

	default:
		if !a.mic.Submit(line) {
			fmt.Fprintln(a.out, "Not listening. Type /start or /mic first.")
		}
	}
	return false
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "Type what you'd say out loud, or use a command:")
	fmt.Fprintln(a.out, "  /start   hands-free listening on")
	fmt.Fprintln(a.out, "  /stop    hands-free listening off")
	fmt.Fprintln(a.out, "  /mic     listen for one utterance")
	fmt.Fprintln(a.out, "  /list    ask for the current list")
	fmt.Fprintln(a.out, "  /add X   add an item directly")
	fmt.Fprintln(a.out, "  /clear   empty the list")
	fmt.Fprintln(a.out, "  /fetch   pull the list over REST")
	fmt.Fprintln(a.out, "  /quit    leave")
}
