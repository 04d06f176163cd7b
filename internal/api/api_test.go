// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestReadiness(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	_, ready := NewHealthHandlers(HealthDependencies{Checks: []NamedCheck{
		{Name: "postgres", Check: healthy},
		{Name: "redis", Check: healthy},
	}}, discard)
	recorder := httptest.NewRecorder()
	ready(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ready"`)

	_, ready = NewHealthHandlers(HealthDependencies{Checks: []NamedCheck{
		{Name: "postgres", Check: healthy},
		{Name: "redis", Check: broken},
	}}, discard)
	recorder = httptest.NewRecorder()
	ready(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	assert.Contains(t, recorder.Body.String(), "connection refused")
}

/*
TestSwaggerDocuments checks that the schema renders as valid JSON and as YAML.
*/
func TestSwaggerDocuments(t *testing.T) {
	recorder := httptest.NewRecorder()
	swaggerJSON(recorder, httptest.NewRequest(http.MethodGet, "/swagger.json", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Equal(t, "/api/v1", doc["basePath"])
	paths, _ := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/posts/")
	assert.Contains(t, paths, "/jwt/refresh/")

	recorder = httptest.NewRecorder()
	swaggerYAML(recorder, httptest.NewRequest(http.MethodGet, "/swagger.yaml", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.True(t, strings.HasPrefix(body, "swagger: "))
	assert.Contains(t, body, "2.0")
	assert.Contains(t, body, "basePath: /api/v1")
}

func TestJSONToYAML_KeepsOrder(t *testing.T) {
	out, err := jsonToYAML([]byte(`{"b": 1, "a": {"z": "x", "y": [1, 2]}}`))
	require.NoError(t, err)
	assert.Equal(t, "b: 1\na:\n    z: x\n    y:\n        - 1\n        - 2\n", string(out))
}
