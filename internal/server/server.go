package server

import (
	"log"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/ssmubc/Empathetic-Communication/internal/bootstrap"
	"github.com/ssmubc/Empathetic-Communication/internal/config"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/serverutils"
	internalWS "github.com/ssmubc/Empathetic-Communication/internal/websocket"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.IngestionController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)

	// WebSocket feed for per-patient ingestion status updates
	api.Get("/ws/ingestion/:patient_id", serveIngestionWs(c))
}

func serveIngestionWs(c *bootstrap.Container) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		patientID, err := uuid.Parse(ctx.Params("patient_id"))
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid patient ID"})
		}

		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}

		return websocket.New(func(conn *websocket.Conn) {
			c.Logger.Info("server", "starting ingestion status session", map[string]interface{}{"patient_id": patientID})
			internalWS.ServeWs(c.WebSocketHub, conn, patientID)
			c.Logger.Info("server", "ingestion status session ended", map[string]interface{}{"patient_id": patientID})
		})(ctx)
	}
}
