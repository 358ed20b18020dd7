package FiberConfig

import (
	"VisitReport/Controllers"
	"VisitReport/middleware"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/Login", Controllers.Login)
	api.Post("/Logout", Controllers.Logout)

	// Catalog
	api.Get("/projects", Controllers.GetProjects)
	api.Get("/projects/:projectId/tasks", Controllers.GetProjectTasks)

	// Reporting
	api.Post("/report", Controllers.SubmitReport)

	// Visit summary flow
	api.Get("/visit-summary", Controllers.GetVisitSummary)
	api.Get("/visit-summary/export", Controllers.ExportVisitSummary)
	api.Post("/visit-summary/create", Controllers.CreateVisitSummary)
	api.Post("/visit-summary/upload-signatures", Controllers.UploadSignatures)

	// Per-tab work session state
	api.Get("/WorkSession/:key", Controllers.GetWorkSession)
	api.Put("/WorkSession/:key", Controllers.PutWorkSession)
	api.Delete("/WorkSession/:key", Controllers.DeleteWorkSession)

	// Request logs API
	api.Get("/logs", middleware.Verify(), Controllers.GetLogs)
	api.Get("/logs/stats", middleware.Verify(), Controllers.GetLogStats)
}

func NewApp() *fiber.App {
	engine := html.New("./Templates", ".html")
	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: 20 * 1024 * 1024, // signature + photo uploads
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{})
	})

	SetupRoutes(app)

	return app
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := NewApp()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	app.Listen(":" + port)
}
