package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tabula"
	tabulahttp "github.com/aretw0/tabula/pkg/adapters/http"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/observability"
	"github.com/aretw0/tabula/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, opts ...tabula.Option) *registry.Registry {
	t.Helper()
	out, err := tabula.New(tabula.Static(domain.Options[domain.Record]{
		Data: []domain.Record{{"name": "Ada", "age": 36}, {"name": "Grace"}},
		Columns: []domain.ColumnDef[domain.Record]{
			{AccessorKey: "name", Header: "Name"},
			{AccessorKey: "age", Header: "Age"},
		},
		RenderFallbackValue: "-",
		Meta:                map[string]any{"title": "People"},
	}), opts...)
	require.NoError(t, err)

	reg := registry.NewRegistry()
	t.Cleanup(reg.Close)
	_, err = reg.Register("people", out)
	require.NoError(t, err)
	return reg
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestGetSwagger(t *testing.T) {
	doc, err := tabulahttp.GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/tables/{name}/events"))
}

func TestHealthAndInfo(t *testing.T) {
	h := tabulahttp.NewHandler(newRegistry(t))

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	info := decode[map[string]string](t, do(t, h, "GET", "/info", ""))
	assert.Equal(t, "tabula-http", info["app"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.Equal(t, strings.TrimSpace(tabula.Version), info["version"])

	w = do(t, h, "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestCORSPreflight(t *testing.T) {
	h := tabulahttp.NewHandler(newRegistry(t))
	w := do(t, h, "OPTIONS", "/tables/people/state", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTables(t *testing.T) {
	h := tabulahttp.NewHandler(newRegistry(t))

	list := decode[[]registry.Summary](t, do(t, h, "GET", "/tables", ""))
	require.Len(t, list, 1)
	assert.Equal(t, "people", list[0].Name)
	assert.Equal(t, "People", list[0].Title)
	assert.Equal(t, []string{"name", "age"}, list[0].Columns)
	assert.Equal(t, 2, list[0].Rows)

	byID := decode[registry.Summary](t, do(t, h, "GET", "/tables/"+list[0].ID, ""))
	assert.Equal(t, "people", byID.Name)

	w := do(t, h, "GET", "/tables/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "table not found")
}

func TestTableState(t *testing.T) {
	h := tabulahttp.NewHandler(newRegistry(t))

	initial := decode[domain.State](t, do(t, h, "GET", "/tables/people/state", ""))
	assert.Contains(t, initial, domain.KeySorting)

	w := do(t, h, "PATCH", "/tables/people/state", `{"globalFilter":"ad"}`)
	require.Equal(t, http.StatusOK, w.Code)
	patched := decode[domain.State](t, w)
	assert.Equal(t, "ad", patched[domain.KeyGlobalFilter])
	assert.Contains(t, patched, domain.KeySorting, "patch keeps the other keys")

	state := decode[domain.State](t, do(t, h, "GET", "/tables/people/state", ""))
	assert.Equal(t, "ad", state[domain.KeyGlobalFilter])

	replaced := decode[domain.State](t, do(t, h, "PUT", "/tables/people/state", `{"only":1}`))
	assert.Equal(t, domain.State{"only": float64(1)}, replaced)

	reset := decode[domain.State](t, do(t, h, "POST", "/tables/people/state/reset", ""))
	assert.Equal(t, initial, reset)

	w = do(t, h, "PATCH", "/tables/people/state", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTableRows(t *testing.T) {
	h := tabulahttp.NewHandler(newRegistry(t))

	grid := decode[tabulahttp.Grid](t, do(t, h, "GET", "/tables/people/rows", ""))
	assert.Equal(t, []string{"Name", "Age"}, grid.Headers)
	assert.Equal(t, [][]string{{"Ada", "36"}, {"Grace", "-"}}, grid.Rows)

	do(t, h, "PATCH", "/tables/people/state", `{"columnVisibility":{"age":false}}`)
	grid = decode[tabulahttp.Grid](t, do(t, h, "GET", "/tables/people/rows", ""))
	assert.Equal(t, []string{"Name"}, grid.Headers)
}

func TestMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(promReg)
	require.NoError(t, err)

	reg := newRegistry(t, tabula.WithName("people"), tabula.WithLifecycleHooks(metrics.Hooks()))
	h := tabulahttp.NewHandler(reg, tabulahttp.WithGatherer(promReg))

	w := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tabula_syncs_total")
}

// readEvent returns the payload of the next data line.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}
}

func TestSubscribeTableEvents(t *testing.T) {
	reg := newRegistry(t)
	srv := httptest.NewServer(tabulahttp.NewHandler(reg))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/tables/people/events?watch=sorting", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := bufio.NewReader(resp.Body)

	var first domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(readEvent(t, events)), &first))
	assert.Equal(t, "people", first.Table)
	assert.Contains(t, first.Changed, domain.KeySorting, "the first event carries the full state")
	assert.Contains(t, first.Changed, domain.KeyPagination)

	patch := func(body string) {
		r, err := http.NewRequest("PATCH", srv.URL+"/tables/people/state", strings.NewReader(body))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(r)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	patch(`{"globalFilter":"x"}`)
	patch(`{"sorting":[{"id":"name","desc":true}]}`)

	var next domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(readEvent(t, events)), &next))
	assert.Contains(t, next.Changed, domain.KeySorting)
	assert.NotContains(t, next.Changed, domain.KeyGlobalFilter, "diffs not touching watched keys are skipped")
}

func TestStreamManager_ReleasesWatch(t *testing.T) {
	reg := newRegistry(t)
	table, err := reg.Get("people")
	require.NoError(t, err)

	sm := tabulahttp.NewStreamManager(nil)
	ch1, cancel1 := sm.Subscribe(table)
	ch2, cancel2 := sm.Subscribe(table)
	assert.Equal(t, 2, sm.Count(table.ID))

	assert.Equal(t, "people", (<-ch1).Table)
	assert.Equal(t, "people", (<-ch2).Table)

	table.Patch(domain.State{"k": 1})
	assert.Equal(t, map[string]any{"k": 1}, (<-ch1).Changed)

	cancel1()
	cancel1()
	assert.Equal(t, 1, sm.Count(table.ID))
	cancel2()
	assert.Equal(t, 0, sm.Count(table.ID))

	_, open := <-ch1
	assert.False(t, open)
}
