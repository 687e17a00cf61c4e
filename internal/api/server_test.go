// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/inventory"
	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/orchestrator"
)

const sampleInventory = `
devices:
  - hostname: r1
    management_ip: 10.0.0.1
    vendor: cisco_ios
    device_type: router
    subnets: ["10.1.1.0/24"]
`

func TestHealthz(t *testing.T) {
	s := newMinimalServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTraceNeedsInputForUnknownSource(t *testing.T) {
	s := newMinimalServer(t)
	body, _ := json.Marshal(traceRequestBody{SourceIP: "192.168.9.9", DestinationIP: "10.2.2.20"})
	req := httptest.NewRequest(http.MethodPost, "/traceroute/device-based", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var trace model.Trace
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trace))
	assert.Equal(t, model.StatusNeedsInput, trace.Status)
}

func TestTraceRejectsMalformedIP(t *testing.T) {
	s := newMinimalServer(t)
	body, _ := json.Marshal(traceRequestBody{SourceIP: "not-an-ip", DestinationIP: "10.2.2.20"})
	req := httptest.NewRequest(http.MethodPost, "/traceroute/device-based", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTraceNotFound(t *testing.T) {
	s := newMinimalServer(t)
	req := httptest.NewRequest(http.MethodGet, "/traceroute/device-based/00000000-0000-0000-0000-000000000000", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTraceThenPollByID(t *testing.T) {
	s := newMinimalServer(t)
	body, _ := json.Marshal(traceRequestBody{SourceIP: "192.168.9.9", DestinationIP: "10.2.2.20"})
	req := httptest.NewRequest(http.MethodPost, "/traceroute/device-based", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var trace model.Trace
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trace))

	pollReq := httptest.NewRequest(http.MethodGet, "/traceroute/device-based/"+trace.ID.String(), nil)
	pollRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(pollRec, pollReq)
	assert.Equal(t, http.StatusOK, pollRec.Code)
}

func newMinimalServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleInventory), 0o600))
	inv, err := inventory.LoadFile(path)
	require.NoError(t, err)

	orch := orchestrator.New(inv, credentials.NewStore(nil), nil)
	return NewServer(orch, DefaultServerConfig(), nil)
}
