// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/swaggo/swag"
	"gopkg.in/yaml.v3"

	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/constants"
	"github.com/taibuivan/blango/internal/platform/respond"
)

//go:embed docs/swagger.tmpl
var swaggerTemplate string

// SwaggerInfo describes the API schema served at /swagger.json.
var SwaggerInfo = &swag.Spec{
	Version:          constants.AppVersion,
	BasePath:         constants.APIPrefix,
	Schemes:          []string{"http", "https"},
	Title:            "Blango API",
	Description:      "Blog posts, tags, comments and users.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// swaggerJSON serves the schema as JSON.
func swaggerJSON(writer http.ResponseWriter, request *http.Request) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	writer.Header().Set(constants.HeaderContentType, "application/json; charset=utf-8")
	_, _ = writer.Write([]byte(doc))
}

// swaggerYAML serves the schema as YAML, keeping the key order of the JSON form.
func swaggerYAML(writer http.ResponseWriter, request *http.Request) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	out, err := jsonToYAML([]byte(doc))
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	writer.Header().Set(constants.HeaderContentType, "application/yaml; charset=utf-8")
	_, _ = writer.Write(out)
}

// jsonToYAML re-encodes a JSON document in block style. JSON is valid YAML,
// so the document is parsed into a node tree and its flow styles are reset.
func jsonToYAML(doc []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	var reset func(node *yaml.Node)
	reset = func(node *yaml.Node) {
		node.Style = 0
		for _, child := range node.Content {
			reset(child)
		}
	}
	reset(&root)

	return yaml.Marshal(&root)
}

const swaggerUIPage = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Blango API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>window.ui = SwaggerUIBundle({url: "/swagger.json", dom_id: "#swagger-ui"});</script>
</body>
</html>`

// swaggerUI serves the interactive documentation page.
func swaggerUI(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set(constants.HeaderContentType, "text/html; charset=utf-8")
	_, _ = writer.Write([]byte(swaggerUIPage))
}
