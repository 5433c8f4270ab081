package handler

import (
	"github.com/gofiber/fiber/v2"

	"stampapi/internal/metrics"
	"stampapi/internal/service"
	"stampapi/internal/session"
)

// HealthCheck reports service health plus the live session count.
func HealthCheck(sessions session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"sessions": sessions.Len(),
		})
	}
}

// LivenessProbe is the bare liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, sessions session.Store, stampSvc service.StampService, stamperSvc service.StamperService, m *metrics.Metrics) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(sessions))
	app.Get("/healthz", LivenessProbe())

	// Stateless stamp rendering
	app.Post("/stamps/hospital", GenerateHospitalStamp(stampSvc, m))
	app.Get("/stamps/hospital/preview", HospitalStampPreview(stampSvc, m))
	app.Post("/stamps/doctor", GenerateDoctorStamp(stampSvc, m))

	// Session lifecycle
	app.Post("/sessions", CreateSession(stamperSvc))
	app.Delete("/sessions/:id", DeleteSession(stamperSvc))
	app.Post("/sessions/:id/document", UploadDocument(stamperSvc, m))
	app.Get("/sessions/:id/document", GetDocument(stamperSvc))

	// Placement editing
	app.Post("/sessions/:id/stamps", AddStamp(stamperSvc, m))
	app.Get("/sessions/:id/stamps", StampSummary(stamperSvc))
	app.Delete("/sessions/:id/stamps", ClearAllStamps(stamperSvc))
	app.Get("/sessions/:id/stamps/:stampID", GetStamp(stamperSvc))
	app.Delete("/sessions/:id/stamps/:stampID", RemoveStamp(stamperSvc))
	app.Put("/sessions/:id/stamps/:stampID/position", MoveStamp(stamperSvc))
	app.Put("/sessions/:id/stamps/:stampID/size", ResizeStamp(stamperSvc))
	app.Put("/sessions/:id/stamps/:stampID/rotation", RotateStamp(stamperSvc))
	app.Put("/sessions/:id/stamps/:stampID/opacity", SetStampOpacity(stamperSvc))
	app.Put("/sessions/:id/stamps/:stampID/zindex", SetStampZIndex(stamperSvc))

	// Pages
	app.Get("/sessions/:id/pages/:page/preview", PagePreview(stamperSvc, m))
	app.Delete("/sessions/:id/pages/:page/stamps", ClearPageStamps(stamperSvc))

	// Configuration snapshots
	app.Get("/sessions/:id/config", ExportStampConfig(stamperSvc))
	app.Put("/sessions/:id/config", ImportStampConfig(stamperSvc))
	app.Post("/sessions/:id/archive", ArchiveSession(stamperSvc))
}
