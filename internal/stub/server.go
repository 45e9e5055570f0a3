package stub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"admin-console/internal/config"
	"admin-console/internal/resource"
)

// Server is the bundled development backend: it implements the envelope
// contract the admin engine consumes, over the sqlite document store, with
// a single seeded admin identity. Production deployments talk to the real
// job-board API instead.
type Server struct {
	store     *Store
	registry  *resource.Registry
	cfg       config.StubConfig
	adminHash string
	app       *fiber.App
}

func New(ctx context.Context, cfg config.StubConfig, registry *resource.Registry) (*Server, error) {
	store, err := OpenStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	adminHash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		store.Close()
		return nil, err
	}

	s := &Server{
		store:     store,
		registry:  registry,
		cfg:       cfg,
		adminHash: adminHash,
	}

	if cfg.Seed {
		if err := Seed(ctx, store, registry); err != nil {
			store.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return respondError(c, 500, err.Error())
		},
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Post("/auth/login", s.login)

	api := app.Group("/api", authMiddleware(cfg.JWTSecret))
	api.Post("/upload", s.upload)
	api.Get("/:resource", s.list)
	api.Post("/:resource", s.create)
	api.Get("/:resource/:id/:id2?", s.get)
	api.Put("/:resource/:id/:id2?", s.update)
	api.Delete("/:resource/:id/:id2?", s.remove)

	s.app = app
	return s, nil
}

// App exposes the fiber app (tests drive it in-process via Transport).
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until the listener fails.
func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.cfg.Port))
}

// Close releases the store.
func (s *Server) Close() {
	s.store.Close()
}

// Transport adapts the in-process fiber app to the API client's Doer, so
// integration tests exercise the full HTTP contract without a listener.
type Transport struct {
	App *fiber.App
}

func (t Transport) Do(req *http.Request) (*http.Response, error) {
	return t.App.Test(req, -1)
}

func respond(c *fiber.Ctx, status int, payload fiber.Map) error {
	payload["success"] = true
	return c.Status(status).JSON(payload)
}

func respondError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
}
