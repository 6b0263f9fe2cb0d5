// Package openapi serves an OpenAPI 3.0 document and a Swagger UI page for
// the report API. The document is built by hand rather than generated from
// annotations; the API surface is small enough that the explicit form is
// easier to keep accurate.
package openapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Generator builds the OpenAPI 3.0 spec for the report endpoints.
type Generator struct {
	version string
	baseURL string
}

// NewGenerator creates a new OpenAPI spec generator.
func NewGenerator(version, baseURL string) *Generator {
	return &Generator{version: version, baseURL: baseURL}
}

var reportKinds = []string{"staff", "appointments", "financial", "medical"}

// filterParams are the query parameters shared by every report endpoint.
func filterParams() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"name": "period", "in": "query",
			"description": "Reporting period the anchor date falls in.",
			"schema": map[string]interface{}{
				"type": "string",
				"enum": []string{"month", "quarter", "year"},
			},
		},
		{
			"name": "date", "in": "query",
			"description": "Anchor date (YYYY-MM-DD). Defaults to today.",
			"schema":      map[string]interface{}{"type": "string", "format": "date"},
		},
		{
			"name": "doctor_id", "in": "query",
			"description": "Restrict the report to a single doctor.",
			"schema":      map[string]interface{}{"type": "string"},
		},
	}
}

func jsonResponse(description, schemaRef string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{"$ref": schemaRef},
			},
		},
	}
}

// GenerateSpec produces the OpenAPI 3.0 spec as a map.
func (g *Generator) GenerateSpec() map[string]interface{} {
	paths := map[string]interface{}{
		"/api/v1/reports/{kind}": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Generate a report",
				"operationId": "getReport",
				"tags":        []string{"reports"},
				"parameters": append([]map[string]interface{}{
					{
						"name": "kind", "in": "path", "required": true,
						"schema": map[string]interface{}{
							"type": "string",
							"enum": reportKinds,
						},
					},
				}, filterParams()...),
				"responses": map[string]interface{}{
					"200": jsonResponse("The assembled report", "#/components/schemas/Report"),
					"400": jsonResponse("Invalid filter", "#/components/schemas/Error"),
					"404": jsonResponse("Unknown report kind", "#/components/schemas/Error"),
				},
			},
		},
		"/api/v1/reports/{kind}/export": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Export a report as CSV",
				"operationId": "exportReport",
				"tags":        []string{"reports"},
				"parameters": append([]map[string]interface{}{
					{
						"name": "kind", "in": "path", "required": true,
						"schema": map[string]interface{}{
							"type": "string",
							"enum": reportKinds,
						},
					},
				}, filterParams()...),
				"responses": map[string]interface{}{
					"200": map[string]interface{}{
						"description": "CSV file attachment",
						"content": map[string]interface{}{
							"text/csv": map[string]interface{}{
								"schema": map[string]interface{}{"type": "string"},
							},
						},
					},
					"404": jsonResponse("Unknown report kind", "#/components/schemas/Error"),
				},
			},
		},
		"/api/v1/reports/staff/doctors": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "List doctors ranked by performance",
				"operationId": "listDoctorRankings",
				"tags":        []string{"reports"},
				"parameters": append(filterParams(),
					map[string]interface{}{
						"name": "limit", "in": "query",
						"schema": map[string]interface{}{"type": "integer", "default": 20},
					},
					map[string]interface{}{
						"name": "offset", "in": "query",
						"schema": map[string]interface{}{"type": "integer", "default": 0},
					},
				),
				"responses": map[string]interface{}{
					"200": jsonResponse("Paginated rankings", "#/components/schemas/PaginatedRankings"),
				},
			},
		},
		"/health": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Liveness check",
				"operationId": "getHealth",
				"tags":        []string{"health"},
				"responses": map[string]interface{}{
					"200": map[string]interface{}{"description": "Server is up"},
				},
			},
		},
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "Clinic Reporting API",
			"version":     g.version,
			"description": "Statistical reports derived from clinic scheduling, payment and medical records.",
		},
		"servers": []map[string]string{
			{"url": g.baseURL},
		},
		"paths": paths,
		"components": map[string]interface{}{
			"schemas":         buildComponentSchemas(),
			"securitySchemes": buildSecuritySchemes(),
		},
		"security": []map[string]interface{}{
			{"bearerAuth": []string{}},
		},
	}
}

func buildSecuritySchemes() map[string]interface{} {
	return map[string]interface{}{
		"bearerAuth": map[string]interface{}{
			"type":         "http",
			"scheme":       "bearer",
			"bearerFormat": "JWT",
		},
	}
}

func buildComponentSchemas() map[string]interface{} {
	return map[string]interface{}{
		"Report": map[string]interface{}{
			"type":        "object",
			"description": "Shape varies by report kind; all kinds share the range metadata.",
			"properties": map[string]interface{}{
				"period":     map[string]interface{}{"type": "string"},
				"start_date": map[string]interface{}{"type": "string", "format": "date"},
				"end_date":   map[string]interface{}{"type": "string", "format": "date"},
			},
			"additionalProperties": true,
		},
		"PaginatedRankings": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"data": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"$ref": "#/components/schemas/DoctorPerformance"},
				},
				"total":    map[string]interface{}{"type": "integer"},
				"limit":    map[string]interface{}{"type": "integer"},
				"offset":   map[string]interface{}{"type": "integer"},
				"has_more": map[string]interface{}{"type": "boolean"},
			},
		},
		"DoctorPerformance": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"doctor_id":       map[string]interface{}{"type": "string"},
				"doctor_name":     map[string]interface{}{"type": "string"},
				"waiting":         map[string]interface{}{"type": "integer"},
				"completed":       map[string]interface{}{"type": "integer"},
				"consulted":       map[string]interface{}{"type": "integer"},
				"absent":          map[string]interface{}{"type": "integer"},
				"cancelled":       map[string]interface{}{"type": "integer"},
				"unknown":         map[string]interface{}{"type": "integer"},
				"total":           map[string]interface{}{"type": "integer"},
				"completion_rate": map[string]interface{}{"type": "integer"},
			},
		},
		"Error": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"message": map[string]interface{}{"type": "string"},
			},
		},
	}
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Clinic Reporting API - Swagger UI</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" >
  <style>
    html { box-sizing: border-box; overflow-y: scroll; }
    *, *:before, *:after { box-sizing: inherit; }
    body { margin: 0; background: #fafafa; }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/api/v1/openapi.json",
      dom_id: '#swagger-ui',
      deepLinking: true,
      presets: [
        SwaggerUIBundle.presets.apis,
        SwaggerUIBundle.SwaggerUIStandalonePreset
      ],
      layout: "BaseLayout"
    })
  </script>
</body>
</html>`

// RegisterRoutes registers the OpenAPI endpoints.
func (g *Generator) RegisterRoutes(apiGroup *echo.Group) {
	apiGroup.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, g.GenerateSpec())
	})
	apiGroup.GET("/docs", func(c echo.Context) error {
		return c.HTML(http.StatusOK, swaggerUIHTML)
	})
}
