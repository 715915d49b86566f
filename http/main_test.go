package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.hon.one/radiocross/common"
	"dev.hon.one/radiocross/core"
	"dev.hon.one/radiocross/inventory"
)

func TestHandleOtherRequest(t *testing.T) {
	mux := newServeMux()

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), common.AppName)
	assert.Contains(t, recorder.Body.String(), "/metrics")

	recorder = httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleReportRequestWithoutRun(t *testing.T) {
	recorder := httptest.NewRecorder()
	newServeMux().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/report", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleMetricsRequest(t *testing.T) {
	recorder := httptest.NewRecorder()
	newServeMux().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "radiocross_exporter_info")
}

func TestBuildRunMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	result := &core.Result{
		Time:        time.Date(2024, 5, 14, 6, 0, 0, 0, time.UTC),
		Duration:    2 * time.Second,
		Source:      "ENM4,ENM2",
		Success:     true,
		RecordCount: 40,
		Parse:       inventory.ParseStats{SkippedRecords: 1, RecordedRadios: 12},
		Stats: inventory.Stats{
			Subnetworks: []inventory.SubnetworkCount{
				{Subnetwork: "ALMATY", Count: 1},
				{Subnetwork: "SHYMKENT", Count: 2},
			},
			Total: 3,
		},
	}

	buildRunMetrics(registry, result)

	expected := `
# HELP radiocross_run_crossed_radios Crossed radios per subnetwork in the latest run.
# TYPE radiocross_run_crossed_radios gauge
radiocross_run_crossed_radios{source="ENM4,ENM2",subnetwork="ALMATY"} 1
radiocross_run_crossed_radios{source="ENM4,ENM2",subnetwork="SHYMKENT"} 2
# HELP radiocross_run_crossed_radios_total Crossed radios in the latest run.
# TYPE radiocross_run_crossed_radios_total gauge
radiocross_run_crossed_radios_total{source="ENM4,ENM2"} 3
# HELP radiocross_run_success Whether the latest run succeeded.
# TYPE radiocross_run_success gauge
radiocross_run_success{source="ENM4,ENM2"} 1
`
	err := testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"radiocross_run_crossed_radios", "radiocross_run_crossed_radios_total", "radiocross_run_success")
	require.NoError(t, err)
}

func TestBuildRunMetricsWithoutResult(t *testing.T) {
	registry := prometheus.NewRegistry()

	buildRunMetrics(registry, nil)

	count, err := testutil.GatherAndCount(registry)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestBuildHistoryMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	buildHistoryMetrics(registry, []common.RunEntry{{Success: true}, {Success: false}, {Success: true}})

	expected := `
# HELP radiocross_history_failed_runs Failed runs stored recently.
# TYPE radiocross_history_failed_runs gauge
radiocross_history_failed_runs 1
# HELP radiocross_history_runs Runs stored recently.
# TYPE radiocross_history_runs gauge
radiocross_history_runs 3
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected)))
}
