package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/wiresep/pkg/buildinfo"
	"github.com/matzehuels/wiresep/pkg/cache"
	"github.com/matzehuels/wiresep/pkg/declutter"
	"github.com/matzehuels/wiresep/pkg/diagram"
	"github.com/matzehuels/wiresep/pkg/geom"
	wireio "github.com/matzehuels/wiresep/pkg/io"
	"github.com/matzehuels/wiresep/pkg/observability"
	"github.com/matzehuels/wiresep/pkg/pipeline"
)

func zWire(id diagram.WireID, port diagram.PortID, x0, x1, y float64) diagram.Wire {
	return diagram.Wire{
		ID:                 id,
		OutputPort:         port,
		InputPort:          diagram.PortID("in-" + string(id)),
		Start:              geom.Point{X: x0 - 8, Y: y - 40},
		InitialOrientation: diagram.Horizontal,
		Segments: []diagram.Segment{
			{Index: 0, Length: 8},
			{Index: 1, Length: 40},
			{Index: 2, Length: x1 - x0},
			{Index: 3, Length: 40},
			{Index: 4, Length: 8},
		},
	}
}

func staggeredSnapshot(t *testing.T) []byte {
	t.Helper()
	d := diagram.Diagram{Wires: diagram.Wires{
		"a": zWire("a", "o1", 0, 50, 100),
		"b": zWire("b", "o2", 10, 60, 102),
		"c": zWire("c", "o3", 20, 70, 104),
	}}
	data, err := wireio.Marshal(d)
	require.NoError(t, err)
	return data
}

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(c, nil, nil)
	t.Cleanup(func() { runner.Close() })
	return New(runner, pipeline.Options{}, nil)
}

func do(t *testing.T, s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleHealth(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, buildinfo.Version, resp.Version)
}

func TestHandleDeclutter(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/declutter", staggeredSnapshot(t))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp declutterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.CacheHit)
	assert.Equal(t, 1, resp.Stats.Horizontal.Clusters)
	assert.Empty(t, resp.Warnings)

	d, err := wireio.ReadJSON(bytes.NewReader(resp.Diagram))
	require.NoError(t, err)
	for id, want := range map[diagram.WireID]float64{"a": 95, "b": 102, "c": 109} {
		assert.InDelta(t, want, d.Wires[id].SegmentStart(2).Y, 1e-9, "wire %s", id)
	}
}

func TestHandleDeclutterCacheHit(t *testing.T) {
	s := setupTestServer(t)
	body := staggeredSnapshot(t)

	first := do(t, s, http.MethodPost, "/v1/declutter", body)
	require.Equal(t, http.StatusOK, first.Code)

	second := do(t, s, http.MethodPost, "/v1/declutter", body)
	require.Equal(t, http.StatusOK, second.Code)
	var resp declutterResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.True(t, resp.CacheHit)

	refreshed := do(t, s, http.MethodPost, "/v1/declutter?refresh=true", body)
	require.NoError(t, json.Unmarshal(refreshed.Body.Bytes(), &resp))
	assert.False(t, resp.CacheHit)
}

func TestHandleDeclutterSeparation(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/declutter?separation=10", staggeredSnapshot(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp declutterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	d, err := wireio.ReadJSON(bytes.NewReader(resp.Diagram))
	require.NoError(t, err)
	assert.InDelta(t, 92.0, d.Wires["a"].SegmentStart(2).Y, 1e-9)
	assert.InDelta(t, 112.0, d.Wires["c"].SegmentStart(2).Y, 1e-9)
}

func TestHandleDeclutterErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed snapshot", "/v1/declutter", `{"wires": [`, http.StatusBadRequest, "INVALID_SNAPSHOT"},
		{"short wire", "/v1/declutter", `{"wires":[{"id":"w","segments":[{"length":3}]}]}`, http.StatusBadRequest, "INVALID_SNAPSHOT"},
		{"separation not a number", "/v1/declutter?separation=wide", `{"wires":[]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"negative separation", "/v1/declutter?separation=-1", `{"wires":[]}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"corners not a boolean", "/v1/declutter?corners=maybe", `{"wires":[]}`, http.StatusBadRequest, "INVALID_INPUT"},
	}

	s := setupTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.target, []byte(tt.body))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestHandleDeclutterMethodNotAllowed(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/declutter", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleInspect(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/inspect?axis=h", staggeredSnapshot(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp inspectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "horizontal", resp.Axis)
	assert.Len(t, resp.Lines, 3)
	require.Len(t, resp.Clusters, 1)

	c := resp.Clusters[0]
	assert.Len(t, c.Segments, 3)
	require.Len(t, c.Placements, 3)
	assert.InDelta(t, 95.0, c.Placements[0].P, 1e-9)
	assert.InDelta(t, 109.0, c.Placements[2].P, 1e-9)
	for _, l := range resp.Lines {
		assert.Equal(t, "NORMSEG", l.Type)
		require.NotNil(t, l.Segment)
		assert.Equal(t, 2, *l.Segment)
	}
}

func TestHandleInspectVertical(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/inspect?axis=vertical", staggeredSnapshot(t))
	require.Equal(t, http.StatusOK, w.Code)

	var resp inspectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "vertical", resp.Axis)
	assert.Len(t, resp.Lines, 6)
	assert.Empty(t, resp.Clusters)
}

func TestHandleInspectBadAxis(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/inspect?axis=diagonal", staggeredSnapshot(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, w).Code)
}

func TestNotFound(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s, http.MethodGet, "/v2/anything", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type recordingServerHooks struct {
	mu     sync.Mutex
	events []string
	status []int
}

func (h *recordingServerHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, method+" "+path)
}

func (h *recordingServerHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = append(h.status, status)
}

func TestInstrumentCallsServerHooks(t *testing.T) {
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	s := setupTestServer(t)
	do(t, s, http.MethodGet, "/healthz", nil)
	do(t, s, http.MethodPost, "/v1/declutter", []byte(`not json`))

	assert.Equal(t, []string{"GET /healthz", "POST /v1/declutter"}, hooks.events)
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.status)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := setupTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRequestOptionsKeepBase(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, nil)
	s := New(runner, pipeline.Options{Corners: true, MaxCornerSize: 12}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/declutter?separation=4", strings.NewReader(""))
	opts, err := s.requestOptions(req)
	require.NoError(t, err)
	assert.True(t, opts.Corners)
	assert.Equal(t, 12.0, opts.MaxCornerSize)
	assert.Equal(t, 4.0, opts.Declutter.MaxSegmentSeparation)
	assert.Equal(t, declutter.DefaultMinNubLength, opts.Declutter.MinNubLength)
}
