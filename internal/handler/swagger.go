package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/budgetloop/budgetloop-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec is the OpenAPI 3.0 rendition of the generated swagger doc.
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type jsonObject = map[string]interface{}

// schemaFields are the swagger 2.0 parameter keys that move under "schema".
var schemaFields = []string{"type", "format", "enum", "default", "minimum", "maximum", "items"}

// rewriteRefs points every $ref at components/schemas.
func rewriteRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case jsonObject:
		out := make(jsonObject, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				out[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			out[key] = rewriteRefs(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = rewriteRefs(item)
		}
		return out
	default:
		return data
	}
}

// convertOperation moves body and formData parameters into requestBody,
// wraps the remaining parameter types in a schema and gives every response
// schema a media type.
func convertOperation(op jsonObject) jsonObject {
	out := jsonObject{}
	for key, value := range op {
		switch key {
		case "parameters", "responses", "consumes", "produces":
		default:
			out[key] = value
		}
	}

	var params []interface{}
	form := jsonObject{}
	var formRequired []interface{}
	raw, _ := op["parameters"].([]interface{})
	for _, p := range raw {
		param, ok := p.(jsonObject)
		if !ok {
			continue
		}
		switch param["in"] {
		case "body":
			out["requestBody"] = jsonObject{
				"description": param["description"],
				"required":    param["required"],
				"content": jsonObject{
					echo.MIMEApplicationJSON: jsonObject{"schema": param["schema"]},
				},
			}
		case "formData":
			prop := paramSchema(param)
			if prop["type"] == "file" {
				prop = jsonObject{"type": "string", "format": "binary"}
			}
			name, _ := param["name"].(string)
			form[name] = prop
			if required, _ := param["required"].(bool); required {
				formRequired = append(formRequired, name)
			}
		default:
			converted := jsonObject{"schema": paramSchema(param)}
			for _, field := range []string{"name", "in", "description", "required"} {
				if val, ok := param[field]; ok {
					converted[field] = val
				}
			}
			params = append(params, converted)
		}
	}
	if len(params) > 0 {
		out["parameters"] = params
	}
	if len(form) > 0 {
		schema := jsonObject{"type": "object", "properties": form}
		if len(formRequired) > 0 {
			schema["required"] = formRequired
		}
		out["requestBody"] = jsonObject{
			"content": jsonObject{echo.MIMEMultipartForm: jsonObject{"schema": schema}},
		}
	}

	mediaType := echo.MIMEApplicationJSON
	if produces, ok := op["produces"].([]interface{}); ok && len(produces) > 0 {
		if mt, ok := produces[0].(string); ok {
			mediaType = mt
		}
	}
	responses := jsonObject{}
	rawResponses, _ := op["responses"].(jsonObject)
	for status, r := range rawResponses {
		resp, ok := r.(jsonObject)
		if !ok {
			continue
		}
		converted := jsonObject{"description": resp["description"]}
		if schema, ok := resp["schema"]; ok {
			converted["content"] = jsonObject{mediaType: jsonObject{"schema": schema}}
		}
		responses[status] = converted
	}
	out["responses"] = responses
	return out
}

func paramSchema(param jsonObject) jsonObject {
	schema := jsonObject{}
	for _, field := range schemaFields {
		if val, ok := param[field]; ok {
			schema[field] = val
		}
	}
	return schema
}

func convertPaths(paths jsonObject) jsonObject {
	out := make(jsonObject, len(paths))
	for path, item := range paths {
		methods, ok := item.(jsonObject)
		if !ok {
			continue
		}
		converted := make(jsonObject, len(methods))
		for method, op := range methods {
			if operation, ok := op.(jsonObject); ok {
				converted[method] = convertOperation(operation)
			}
		}
		out[path] = converted
	}
	return out
}

// ServeOpenAPI3Spec serves the swagger doc converted to OpenAPI 3.0. The
// first server URL is derived from the request host.
func ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read swagger doc")
	}

	var swagger2 jsonObject
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return NewInternalError(c, "Failed to parse swagger doc")
	}

	info, _ := swagger2["info"].(jsonObject)
	paths, _ := rewriteRefs(swagger2["paths"]).(jsonObject)

	components := jsonObject{}
	if definitions, ok := swagger2["definitions"].(jsonObject); ok {
		components["schemas"] = rewriteRefs(definitions)
	}

	basePath, _ := swagger2["basePath"].(string)
	return c.JSON(http.StatusOK, OpenAPI3Spec{
		OpenAPI: "3.0.3",
		Info:    info,
		Servers: []Server{
			{URL: c.Scheme() + "://" + c.Request().Host + basePath, Description: "This server"},
			{URL: "http://localhost:8080" + basePath, Description: "Local development"},
		},
		Paths:      convertPaths(paths),
		Components: components,
	})
}
