package inspector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/viewport/internal/errors"
	"github.com/vango-dev/viewport/internal/logging"
	"github.com/vango-dev/viewport/pkg/metrics"
	"github.com/vango-dev/viewport/pkg/scenario"
)

const doc = `
name: inspect
templates:
  row: {tag: li, text: row}
ports:
  - name: list
    template: row
steps:
  - {op: hydrate, port: list}
  - {op: create, port: list}
  - {op: create, port: list, index: 0}
`

func newServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	sc, err := scenario.Parse([]byte(doc))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	c := metrics.New(metrics.WithRegistry(reg))
	s, err := New(sc,
		WithLogger(logging.NewNop()),
		WithGatherer(reg),
		WithHostOptions(scenario.WithLogger(logging.NewNop()), scenario.WithObserver(c)),
	)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return s, ts
}

func postStep(t *testing.T, ts *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/steps", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestStateAndSteps(t *testing.T) {
	_, ts := newServer(t)

	resp, err := http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	var snap scenario.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	resp.Body.Close()
	require.Len(t, snap.Ports, 1)
	assert.False(t, snap.Ports[0].Hydrated)

	r, body := postStep(t, ts, `{"op":"create","port":"list"}`)
	assert.Equal(t, http.StatusConflict, r.StatusCode)
	assert.Contains(t, string(body), `"code":"E200"`)

	r, _ = postStep(t, ts, `{"op":"hydrate","port":"list"}`)
	assert.Equal(t, http.StatusOK, r.StatusCode)

	r, body = postStep(t, ts, `{"op":"create","port":"list"}`)
	require.Equal(t, http.StatusOK, r.StatusCode)
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, 1, snap.Ports[0].Len)
	assert.Equal(t, "<li>row</li><!--list-->", snap.HTML)

	r, body = postStep(t, ts, `{"op":"remove","port":"list","index":5}`)
	assert.Equal(t, http.StatusConflict, r.StatusCode)
	assert.Contains(t, string(body), `"code":"E201"`)

	r, _ = postStep(t, ts, `{"op":"explode"}`)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)

	r, _ = postStep(t, ts, `not json`)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)

	resp, err = http.Get(ts.URL + "/preview")
	require.NoError(t, err)
	html, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "<li>row</li><!--list-->", string(html))
}

func TestInvalidStepsLeaveServerUsable(t *testing.T) {
	s, ts := newServer(t)

	r, _ := postStep(t, ts, `{"op":"hydrate","port":"list"}`)
	require.Equal(t, http.StatusOK, r.StatusCode)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"get without index", `{"op":"get","port":"list"}`, "E210"},
		{"unknown port", `{"op":"create","port":"grid"}`, "E210"},
		{"insert without view", `{"op":"insert","port":"list"}`, "E210"},
		{"unknown template", `{"op":"insert","port":"list","template":"cell"}`, "E210"},
		{"expect without checks", `{"op":"expect"}`, "E210"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, body := postStep(t, ts, tt.body)
			assert.Equal(t, http.StatusBadRequest, r.StatusCode)
			assert.Contains(t, string(body), `"code":"`+tt.code+`"`)
		})
	}

	_, err := s.Apply(scenario.Step{Op: scenario.OpGet, Port: "list"})
	assert.Equal(t, "E210", errors.CodeOf(err))

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	var snap scenario.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	resp.Body.Close()
	assert.True(t, snap.Ports[0].Hydrated)
	assert.Equal(t, 0, snap.Ports[0].Len)

	r, _ = postStep(t, ts, `{"op":"get","port":"list","index":0}`)
	assert.Equal(t, http.StatusConflict, r.StatusCode)
}

func TestRunAndReset(t *testing.T) {
	_, ts := newServer(t)

	resp, err := http.Post(ts.URL+"/api/run", "application/json", nil)
	require.NoError(t, err)
	var res scenario.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, res.Passed)
	assert.Equal(t, 2, res.Final.Ports[0].Len)

	resp, err = http.Post(ts.URL+"/api/reset", "application/json", nil)
	require.NoError(t, err)
	var snap scenario.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	resp.Body.Close()
	assert.Equal(t, 0, snap.Ports[0].Len)
	assert.Equal(t, "<!--list-->", snap.HTML)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newServer(t)
	postStep(t, ts, `{"op":"hydrate","port":"list"}`)
	postStep(t, ts, `{"op":"create","port":"list"}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `viewport_ops_total{op="create",port="list",status="success"} 1`)
	assert.Contains(t, string(body), `viewport_views{port="list"} 1`)
}

func TestWebSocketStream(t *testing.T) {
	s, ts := newServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageSnapshot, msg.Type)
	require.NotNil(t, msg.Snapshot)

	require.Eventually(t, func() bool { return s.Hub().ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = s.Apply(scenario.Step{Op: scenario.OpHydrate, Port: "list"})
	require.NoError(t, err)
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageStep, msg.Type)
	require.NotNil(t, msg.Step)
	assert.Equal(t, scenario.OpHydrate, msg.Step.Op)
	assert.True(t, msg.Snapshot.Ports[0].Hydrated)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Push(ctx, 10*time.Millisecond)
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageSnapshot, msg.Type)
}
