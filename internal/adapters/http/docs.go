package http

import (
	"bytes"
	"text/template"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
)

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({url: '{{.SpecURL}}', dom_id: '#swagger-ui', deepLinking: true});
  </script>
</body>
</html>`))

const docsSpecURL = "/docs/openapi.yaml"

// SetupDocs serves the OpenAPI document at specPath under /docs/openapi.yaml
// and a Swagger UI page for it at /docs. The document is read once; when it
// is missing neither route is registered.
func SetupDocs(app *fiber.App, specPath string) {
	doc, err := os.ReadFile(specPath)
	if err != nil {
		slog.Warn("api docs disabled", "path", specPath, "error", err)
		return
	}

	var page bytes.Buffer
	if err := docsPage.Execute(&page, struct{ Title, SpecURL string }{
		Title:   "ForestGeo API",
		SpecURL: docsSpecURL,
	}); err != nil {
		slog.Warn("api docs disabled", "error", err)
		return
	}
	html := page.Bytes()

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(html)
	})
	app.Get(docsSpecURL, func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(doc)
	})
}
