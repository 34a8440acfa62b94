package api

import (
	_ "embed"
	"strings"

	"github.com/example/calculator-demo/domain/arith"
	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"
)

//go:embed swagger.html
var swaggerPage string

type openAPIDoc struct {
	OpenAPI string                              `json:"openapi" yaml:"openapi"`
	Info    openAPIInfo                         `json:"info" yaml:"info"`
	Paths   map[string]map[string]*operationDoc `json:"paths" yaml:"paths"`
}

type openAPIInfo struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
}

type operationDoc struct {
	Summary     string                 `json:"summary" yaml:"summary"`
	OperationID string                 `json:"operationId" yaml:"operationId"`
	Tags        []string               `json:"tags" yaml:"tags"`
	Parameters  []parameterDoc         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *bodyDoc               `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]responseDoc `json:"responses" yaml:"responses"`
}

type parameterDoc struct {
	Name     string         `json:"name" yaml:"name"`
	In       string         `json:"in" yaml:"in"`
	Required bool           `json:"required" yaml:"required"`
	Schema   map[string]any `json:"schema" yaml:"schema"`
}

type bodyDoc struct {
	Required bool                    `json:"required" yaml:"required"`
	Content  map[string]mediaTypeDoc `json:"content" yaml:"content"`
}

type responseDoc struct {
	Description string                  `json:"description" yaml:"description"`
	Content     map[string]mediaTypeDoc `json:"content,omitempty" yaml:"content,omitempty"`
}

type mediaTypeDoc struct {
	Schema map[string]any `json:"schema" yaml:"schema"`
}

var (
	numberSchema = map[string]any{"type": "number"}
	textSchema   = map[string]any{"type": "string"}
	errorSchema  = map[string]any{
		"type":       "object",
		"properties": map[string]any{"error": textSchema},
	}
)

func jsonContent(schema map[string]any) map[string]mediaTypeDoc {
	return map[string]mediaTypeDoc{fiber.MIMEApplicationJSON: {Schema: schema}}
}

func textContent() map[string]mediaTypeDoc {
	return map[string]mediaTypeDoc{fiber.MIMETextPlain: {Schema: textSchema}}
}

// buildOpenAPI generates the API document from the route table.
func buildOpenAPI(routes []route) openAPIDoc {
	doc := openAPIDoc{
		OpenAPI: "3.0.3",
		Info: openAPIInfo{
			Title:       "Calculator API",
			Version:     "1.0.0",
			Description: "Arithmetic over two numeric operands, as plain text or JSON.",
		},
		Paths: make(map[string]map[string]*operationDoc),
	}

	for _, r := range routes {
		op := &operationDoc{
			Summary:   r.Summary,
			Tags:      []string{r.Tag},
			Responses: make(map[string]responseDoc),
		}

		switch r.Kind {
		case textRoute:
			op.OperationID = "text_" + string(r.Operation)
			op.Parameters = []parameterDoc{
				{Name: "a", In: "query", Required: true, Schema: numberSchema},
				{Name: "b", In: "query", Required: true, Schema: numberSchema},
			}
			op.Responses["200"] = responseDoc{Description: "Result as text", Content: textContent()}
			op.Responses["400"] = responseDoc{Description: badRequestDescription(r.Operation), Content: textContent()}
		case jsonRoute:
			op.OperationID = "json_" + string(r.Operation)
			op.RequestBody = &bodyDoc{
				Required: true,
				Content: jsonContent(map[string]any{
					"type":     "object",
					"required": []string{"a", "b"},
					"properties": map[string]any{
						"a": numberSchema,
						"b": numberSchema,
					},
				}),
			}
			op.Responses["200"] = responseDoc{
				Description: "Result; null when not finite",
				Content: jsonContent(map[string]any{
					"type": "object",
					"properties": map[string]any{
						"result": map[string]any{"type": "number", "nullable": true},
					},
				}),
			}
			op.Responses["400"] = responseDoc{Description: badRequestDescription(r.Operation), Content: jsonContent(errorSchema)}
		default:
			op.OperationID = strings.Trim(strings.ReplaceAll(r.Path, "/", "_"), "_")
			op.Responses["200"] = responseDoc{Description: "OK", Content: jsonContent(map[string]any{"type": "object"})}
		}

		if r.Limited {
			op.Responses["429"] = responseDoc{Description: "Rate limit exceeded", Content: jsonContent(errorSchema)}
		}

		if doc.Paths[r.Path] == nil {
			doc.Paths[r.Path] = make(map[string]*operationDoc)
		}
		doc.Paths[r.Path][strings.ToLower(r.Method)] = op
	}
	return doc
}

func badRequestDescription(op arith.Operation) string {
	if op == arith.OpDivide {
		return "Invalid parameters or division by zero"
	}
	return "Invalid parameters"
}

// docsHandlers serves the generated document and the Swagger UI page.
type docsHandlers struct {
	doc  openAPIDoc
	yaml []byte
	page string
}

func newDocsHandlers(basePath string, routes []route) (*docsHandlers, error) {
	doc := buildOpenAPI(routes)
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return &docsHandlers{
		doc:  doc,
		yaml: out,
		page: strings.ReplaceAll(swaggerPage, "{{SPEC_URL}}", basePath+"/openapi.json"),
	}, nil
}

func (d *docsHandlers) UI(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(d.page)
}

func (d *docsHandlers) JSON(c *fiber.Ctx) error {
	return c.JSON(d.doc)
}

func (d *docsHandlers) YAML(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/yaml")
	return c.Send(d.yaml)
}
