// Package core runs the radio cross report.
package core

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"dev.hon.one/radiocross/common"
	"dev.hon.one/radiocross/db"
	"dev.hon.one/radiocross/inventory"
	"dev.hon.one/radiocross/notify"
	"dev.hon.one/radiocross/report"
	"dev.hon.one/radiocross/scraping"
)

// Result - Outcome of one run.
type Result struct {
	Time        time.Time
	Duration    time.Duration
	Source      string
	Success     bool
	RecordCount int
	Parse       inventory.ParseStats
	Crossed     inventory.Associations
	Stats       inventory.Stats
	ReportPath  string
}

// Pipeline - Collaborators of a run.
type Pipeline struct {
	Retriever  scraping.Retriever
	ReportPath string
	Notifier   notify.Notifier // Optional
	Recipients []string
	Subject    string
}

// NewPipeline - Create a pipeline from the global config.
func NewPipeline() *Pipeline {
	config := common.GlobalConfig
	pipeline := &Pipeline{
		ReportPath: config.ReportPath,
		Recipients: config.Recipients,
		Subject:    config.Subject,
	}
	if config.InputPath != "" {
		pipeline.Retriever = &scraping.FileRetriever{Path: config.InputPath}
	} else {
		pipeline.Retriever = scraping.NewSSHRetriever(common.GlobalEndpoints, common.GlobalCredential, config.Command)
	}
	if config.SMTPHost != "" {
		pipeline.Notifier = notify.NewSMTPNotifier(config.SMTPHost, config.SMTPPort,
			os.Getenv(common.EnvSMTPUsername), os.Getenv(common.EnvSMTPPassword), config.SMTPFrom)
	}
	return pipeline
}

// Run - Run the whole report once. The result is also stored as the latest result.
func (pipeline *Pipeline) Run(ctx context.Context) (*Result, error) {
	log.WithFields(log.Fields{
		"source": pipeline.Retriever.Source(),
	}).Info("Starting run")
	result := &Result{
		Time:   time.Now(),
		Source: pipeline.Retriever.Source(),
	}
	err := pipeline.run(ctx, result)
	result.Duration = time.Since(result.Time)
	result.Success = err == nil
	storeResult(result)
	setLatestResult(result)

	fields := log.Fields{
		"duration":      result.Duration,
		"record_count":  result.RecordCount,
		"crossed_count": result.Stats.Total,
	}
	if err != nil {
		log.WithError(err).WithFields(fields).Error("Run failed")
		return result, err
	}
	log.WithFields(fields).Info("Run done")
	return result, nil
}

func (pipeline *Pipeline) run(ctx context.Context, result *Result) error {
	records, err := pipeline.Retriever.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve inventory: %w", err)
	}
	result.RecordCount = len(records)

	parser := inventory.NewParser()
	for _, record := range records {
		parser.Feed(record)
	}
	result.Parse = parser.Stats()
	result.Crossed = inventory.FilterCrossed(parser.Associations())
	result.Stats = inventory.CountCrosses(result.Crossed)

	reportPath, err := report.Write(pipeline.ReportPath, result.Crossed)
	if err != nil {
		return err
	}
	result.ReportPath = reportPath

	if pipeline.Notifier == nil {
		log.Trace("No notifier configured, skipping email")
		return nil
	}
	message := notify.NewMessage(pipeline.Recipients, pipeline.Subject, result.Stats, reportPath)
	return pipeline.Notifier.Send(message)
}

// Store the run and its crossed radios in the DB.
func storeResult(result *Result) {
	db.StoreRunEntry(common.RunEntry{
		Time:           result.Time,
		Source:         result.Source,
		Duration:       result.Duration,
		Success:        result.Success,
		RecordCount:    result.RecordCount,
		RadioCount:     result.Parse.RecordedRadios,
		CrossedCount:   result.Stats.Total,
		SkippedRecords: result.Parse.SkippedRecords,
		ReportPath:     result.ReportPath,
	})
	for _, row := range report.Rows(result.Crossed) {
		db.StoreCrossEntry(common.CrossEntry{
			Time:         result.Time,
			Subnetwork:   row.Subnetwork,
			SerialNumber: row.SerialNumber,
			ProductName:  row.ProductName,
			Site1:        row.Site1,
			Sector1:      row.Sector1,
			Site2:        row.Site2,
			Sector2:      row.Sector2,
		})
	}
	for _, subnetwork := range result.Stats.Subnetworks {
		db.StoreSubnetworkEntry(common.SubnetworkEntry{
			Time:         result.Time,
			Subnetwork:   subnetwork.Subnetwork,
			CrossedCount: subnetwork.Count,
		})
	}
}

var latestResultMutex sync.RWMutex
var latestResult *Result

func setLatestResult(result *Result) {
	latestResultMutex.Lock()
	defer latestResultMutex.Unlock()
	latestResult = result
}

// LatestResult - Result of the latest run, nil if none has finished.
func LatestResult() *Result {
	latestResultMutex.RLock()
	defer latestResultMutex.RUnlock()
	return latestResult
}
