// Package server provides the reference backend: REST endpoints for the
// shopping list plus the websocket session endpoint that interprets voice
// input. List updates are broadcast to every connected client.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/shopeat/go-shopeat/pkg/assist"
	"github.com/shopeat/go-shopeat/pkg/hub"
	"github.com/shopeat/go-shopeat/pkg/shopping"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// Assistant interprets voice transcripts. Defaults to the rules engine.
	Assistant assist.Assistant

	// ReplyTimeout bounds one assistant call.
	ReplyTimeout time.Duration
}

// Server is the shopeat backend.
type Server struct {
	app       *fiber.App
	cfg       Config
	store     *shopping.Store
	assistant assist.Assistant
	sessions  *hub.Hub
}

// New creates a server with all routes registered. Call Start to listen.
func New(cfg Config) *Server {
	if cfg.Assistant == nil {
		cfg.Assistant = assist.NewRules()
	}
	if cfg.ReplyTimeout <= 0 {
		cfg.ReplyTimeout = 30 * time.Second
	}

	s := &Server{
		cfg:       cfg,
		store:     shopping.NewStore(),
		assistant: cfg.Assistant,
		sessions:  hub.New("sessions"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "ShopEat Backend",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleRoot)
	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Get("/shopping-list", s.handleGetList)
	api.Post("/shopping-list", s.handleAddItem)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/:client_id", websocket.New(s.handleSession))

	s.app = app
	return s
}

// Store exposes the shopping list, mainly for tests.
func (s *Server) Store() *shopping.Store {
	return s.store
}

// App exposes the fiber app for handler-level tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the hub and listens until Shutdown.
func (s *Server) Start() error {
	go s.sessions.Run()
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "ShopEat Backend API",
		"status":  "running",
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":             "healthy",
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"active_connections": s.sessions.ClientCount(),
		"shopping_items":     s.store.Len(),
	})
}

func (s *Server) handleGetList(c *fiber.Ctx) error {
	snapshot := s.store.Snapshot()
	return c.JSON(fiber.Map{
		"items":       snapshot.Items,
		"total_items": len(snapshot.Items),
	})
}

func (s *Server) handleAddItem(c *fiber.Ctx) error {
	var item shopping.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid item payload",
		})
	}
	if item.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "item name is required",
		})
	}

	added := s.store.Add(item)
	s.broadcastListState()
	return c.JSON(fiber.Map{
		"message": "Item added",
		"item":    added,
	})
}
