package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"dev.hon.one/radiocross/common"
	"dev.hon.one/radiocross/core"
	"dev.hon.one/radiocross/db"
	"dev.hon.one/radiocross/util"
)

// StartServer - Start HTTP server in the background.
func StartServer(waitGroup *sync.WaitGroup, shutdown *util.ShutdownChannelDistributor) {
	shutdownChannel := make(chan bool, 1)
	if !shutdown.AddListener(shutdownChannel) {
		return
	}
	waitGroup.Add(1)

	server := &http.Server{
		Addr:    common.GlobalConfig.HTTPEndpoint,
		Handler: newServeMux(),
	}

	// Run
	serverDone := make(chan struct{})
	go func() {
		defer waitGroup.Done()
		defer close(serverDone)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
		}
		log.Info("HTTP server stopped")
	}()

	// Shutdown
	go func() {
		select {
		case <-shutdownChannel:
			shutdownContext, shutdownContextCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownContextCancel()
			server.Shutdown(shutdownContext)
		case <-serverDone:
		}
	}()

	log.Infof("HTTP server started: %v", common.GlobalConfig.HTTPEndpoint)
}

func newServeMux() *http.ServeMux {
	var mainServeMux http.ServeMux
	mainServeMux.HandleFunc("/", handleOtherRequest)
	mainServeMux.HandleFunc("/metrics", handleMetricsRequest)
	mainServeMux.HandleFunc("/report", handleReportRequest)
	return &mainServeMux
}

func handleOtherRequest(response http.ResponseWriter, request *http.Request) {
	if request.URL.Path == "/" {
		fmt.Fprintf(response, "%s version %s by %s.\n", common.AppName, common.AppVersion, common.AppAuthor)
		fmt.Fprintf(response, "\nPaths:\n")
		fmt.Fprintf(response, "- Metrics: /metrics\n")
		fmt.Fprintf(response, "- Latest report: /report\n")
		if result := core.LatestResult(); result != nil {
			fmt.Fprintf(response, "\nLatest run: %v (success: %v)\n", result.Time.Format(time.RFC3339), result.Success)
			fmt.Fprintf(response, "%v\n", result.Stats)
		}
	} else {
		message := fmt.Sprintf("404 - Page not found.\n")
		http.Error(response, message, 404)
	}
}

func handleReportRequest(response http.ResponseWriter, request *http.Request) {
	result := core.LatestResult()
	if result == nil || result.ReportPath == "" {
		http.Error(response, "404 - No report available yet.\n", 404)
		return
	}
	response.Header().Set("Content-Disposition", `attachment; filename="radio_cross.xlsx"`)
	http.ServeFile(response, request, result.ReportPath)
}

func handleMetricsRequest(response http.ResponseWriter, request *http.Request) {
	log.WithFields(log.Fields{
		"endpoint": "metrics",
		"client":   request.RemoteAddr,
		"url":      request.URL,
	}).Trace("Request")

	// Build registry with data
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	util.NewExporterMetric(registry, common.PrometheusNamespace, common.AppVersion)
	buildRunMetrics(registry, core.LatestResult())
	buildHistoryMetrics(registry, db.FetchRecentRunEntries(request.Context()))

	// Delegate final handling to Prometheus
	promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP(response, request)
}

func buildRunMetrics(registry *prometheus.Registry, result *core.Result) {
	if result == nil {
		return
	}
	namespace := common.PrometheusNamespace
	labels := prometheus.Labels{"source": result.Source}
	success := 0.0
	if result.Success {
		success = 1
	}
	util.NewGauge(registry, namespace, "run", "success", "Whether the latest run succeeded.", labels).Set(success)
	util.NewGauge(registry, namespace, "run", "timestamp_seconds", "Start time of the latest run.", labels).Set(float64(result.Time.Unix()))
	util.NewGauge(registry, namespace, "run", "duration_seconds", "Duration of the latest run.", labels).Set(result.Duration.Seconds())
	util.NewGauge(registry, namespace, "run", "records", "Records retrieved during the latest run.", labels).Set(float64(result.RecordCount))
	util.NewGauge(registry, namespace, "run", "skipped_records", "Malformed records skipped during the latest run.", labels).Set(float64(result.Parse.SkippedRecords))
	util.NewGauge(registry, namespace, "run", "radios", "Shared radios found during the latest run.", labels).Set(float64(result.Parse.RecordedRadios))
	crossedRadios := util.NewGaugeVec(registry, namespace, "run", "crossed_radios", "Crossed radios per subnetwork in the latest run.", labels, "subnetwork")
	for _, subnetwork := range result.Stats.Subnetworks {
		crossedRadios.WithLabelValues(subnetwork.Subnetwork).Set(float64(subnetwork.Count))
	}
	util.NewGauge(registry, namespace, "run", "crossed_radios_total", "Crossed radios in the latest run.", labels).Set(float64(result.Stats.Total))
}

func buildHistoryMetrics(registry *prometheus.Registry, entries []common.RunEntry) {
	if entries == nil {
		return
	}
	failed := 0
	for _, entry := range entries {
		if !entry.Success {
			failed++
		}
	}
	namespace := common.PrometheusNamespace
	util.NewGauge(registry, namespace, "history", "runs", "Runs stored recently.", nil).Set(float64(len(entries)))
	util.NewGauge(registry, namespace, "history", "failed_runs", "Failed runs stored recently.", nil).Set(float64(failed))
}
