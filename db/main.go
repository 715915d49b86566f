package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	log "github.com/sirupsen/logrus"

	"dev.hon.one/radiocross/common"
	"dev.hon.one/radiocross/util"
)

// InfluxDBQueryRecentTime - InfluxDB-formatted time to consider for fetching "recent" entries.
const InfluxDBQueryRecentTime = "-7d"

// Measurements.
const (
	measurementRun        = "run"
	measurementCross      = "cross"
	measurementSubnetwork = "subnetwork"
)

var clientMutex sync.RWMutex
var client influxdb2.Client
var clientQueryAPI influxdb2api.QueryAPI
var clientWriteAPI influxdb2api.WriteAPI

// StartClient - Start DB client. Does nothing if no InfluxDB URL is configured.
func StartClient(waitGroup *sync.WaitGroup, shutdown *util.ShutdownChannelDistributor) {
	if common.GlobalConfig.InfluxDBURL == "" {
		log.Info("DB client disabled")
		return
	}

	// Setup shutdown signal and waitgroup
	shutdownChannel := make(chan bool, 1)
	if !shutdown.AddListener(shutdownChannel) {
		return
	}
	waitGroup.Add(1)

	newClient := influxdb2.NewClient(common.GlobalConfig.InfluxDBURL, common.GlobalConfig.InfluxDBToken)

	cleanup := func() {
		clientMutex.Lock()
		localWriteAPI := clientWriteAPI
		clientQueryAPI = nil
		clientWriteAPI = nil
		client = nil
		clientMutex.Unlock()
		if localWriteAPI != nil {
			localWriteAPI.Flush()
		}
		newClient.Close()
		log.Info("DB client stopped")
		waitGroup.Done()
	}

	go func() {
		// Wait for DB connection (true) to come up or for shutdown signal (false)
		if !waitForDBUp(newClient, shutdownChannel) {
			cleanup()
			return
		}

		// Setup query API, async write API and error logging
		writeAPI := newClient.WriteAPI(common.GlobalConfig.InfluxDBOrg, common.GlobalConfig.InfluxDBBucket)
		go func() {
			for err := range writeAPI.Errors() {
				log.WithError(err).Error("Failed to write to database")
			}
		}()
		clientMutex.Lock()
		client = newClient
		clientQueryAPI = newClient.QueryAPI(common.GlobalConfig.InfluxDBOrg)
		clientWriteAPI = writeAPI
		clientMutex.Unlock()
		log.Info("DB client started: ", common.GlobalConfig.InfluxDBURL)

		<-shutdownChannel
		cleanup()
	}()
}

func waitForDBUp(dbClient influxdb2.Client, shutdownChannel <-chan bool) bool {
	checkHealth := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := dbClient.Health(ctx)
		if err != nil {
			log.WithError(err).Tracef("Database connection error")
			return false
		}
		return true
	}
	if checkHealth() {
		return true
	}
	log.Info("Waiting for database")
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if checkHealth() {
				return true
			}
		case <-shutdownChannel:
			return false
		}
	}
}

func writePoint(point *write.Point) {
	clientMutex.RLock()
	defer clientMutex.RUnlock()
	if clientWriteAPI == nil {
		return
	}
	clientWriteAPI.WritePoint(point)
}

// StoreRunEntry - Attempt to store a run entry in the DB.
func StoreRunEntry(entry common.RunEntry) {
	log.WithFields(log.Fields{
		"source":        entry.Source,
		"time":          entry.Time,
		"duration":      entry.Duration,
		"success":       entry.Success,
		"crossed_count": entry.CrossedCount,
	}).Trace("Run entry")

	writePoint(newRunPoint(entry))
}

func newRunPoint(entry common.RunEntry) *write.Point {
	return influxdb2.NewPointWithMeasurement(measurementRun).
		AddTag("source", entry.Source).
		AddField("duration_seconds", float64(entry.Duration)/float64(time.Second)).
		AddField("success", entry.Success).
		AddField("record_count", entry.RecordCount).
		AddField("radio_count", entry.RadioCount).
		AddField("crossed_count", entry.CrossedCount).
		AddField("skipped_records", entry.SkippedRecords).
		AddField("report_path", entry.ReportPath).
		SetTime(entry.Time)
}

// StoreCrossEntry - Attempt to store a crossed radio entry in the DB.
func StoreCrossEntry(entry common.CrossEntry) {
	log.WithFields(log.Fields{
		"subnetwork":    entry.Subnetwork,
		"serial_number": entry.SerialNumber,
		"product_name":  entry.ProductName,
		"site1":         entry.Site1,
		"sector1":       entry.Sector1,
		"site2":         entry.Site2,
		"sector2":       entry.Sector2,
	}).Trace("Cross entry")

	writePoint(newCrossPoint(entry))
}

func newCrossPoint(entry common.CrossEntry) *write.Point {
	return influxdb2.NewPointWithMeasurement(measurementCross).
		AddTag("subnetwork", entry.Subnetwork).
		AddTag("serial_number", entry.SerialNumber).
		AddTag("product_name", entry.ProductName).
		AddField("site1", entry.Site1).
		AddField("sector1", entry.Sector1).
		AddField("site2", entry.Site2).
		AddField("sector2", entry.Sector2).
		SetTime(entry.Time)
}

// StoreSubnetworkEntry - Attempt to store a subnetwork count entry in the DB.
func StoreSubnetworkEntry(entry common.SubnetworkEntry) {
	log.WithFields(log.Fields{
		"subnetwork":    entry.Subnetwork,
		"crossed_count": entry.CrossedCount,
	}).Trace("Subnetwork entry")

	writePoint(newSubnetworkPoint(entry))
}

func newSubnetworkPoint(entry common.SubnetworkEntry) *write.Point {
	return influxdb2.NewPointWithMeasurement(measurementSubnetwork).
		AddTag("subnetwork", entry.Subnetwork).
		AddField("crossed_count", entry.CrossedCount).
		SetTime(entry.Time)
}

func recentRunsQuery(bucket string) string {
	return fmt.Sprintf(`from(bucket:"%v") |> range(start: %v) |> filter(fn: (r) => r._measurement == "%v") |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")`,
		bucket, InfluxDBQueryRecentTime, measurementRun)
}

// FetchRecentRunEntries - Fetch recent run entries from the DB, nil if the DB is unavailable.
func FetchRecentRunEntries(ctx context.Context) []common.RunEntry {
	clientMutex.RLock()
	queryAPI := clientQueryAPI
	clientMutex.RUnlock()
	if queryAPI == nil {
		return nil
	}

	result, err := queryAPI.Query(ctx, recentRunsQuery(common.GlobalConfig.InfluxDBBucket))
	if err != nil {
		log.WithError(err).Error("Failed to query from database")
		return nil
	}
	defer result.Close()

	var entries []common.RunEntry
	for result.Next() {
		record := result.Record()
		entry := common.RunEntry{
			Time: record.Time(),
		}
		if source, ok := record.ValueByKey("source").(string); ok {
			entry.Source = source
		}
		if success, ok := record.ValueByKey("success").(bool); ok {
			entry.Success = success
		}
		if crossedCount, ok := record.ValueByKey("crossed_count").(int64); ok {
			entry.CrossedCount = int(crossedCount)
		}
		if durationSeconds, ok := record.ValueByKey("duration_seconds").(float64); ok {
			entry.Duration = time.Duration(durationSeconds * float64(time.Second))
		}
		entries = append(entries, entry)
	}
	if result.Err() != nil {
		log.WithError(result.Err()).Error("Failed to parse query result")
	}

	return entries
}
