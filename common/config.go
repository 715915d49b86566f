package common

import (
	"time"

	log "github.com/sirupsen/logrus"

	"dev.hon.one/radiocross/util"
)

// Application info.
const (
	AppName    = "radiocross"
	AppVersion = "0.2.0"
	AppAuthor  = "HON95"
)

// PrometheusNamespace - Prometheus metrics namespace.
const PrometheusNamespace = "radiocross"

// RetrieveTimeout - Default timeout for retrieving inventory from one endpoint.
const RetrieveTimeout = 5 * time.Minute

// DefaultReportPath - Where the report is written unless configured.
const DefaultReportPath = "reports/radio_cross.xlsx"

// DefaultCommand - Inventory query listing shared field replaceable units.
const DefaultCommand = "cmedit get * FieldReplaceableUnit.(isSharedWithExternalMe,productData)"

// Config - The config.
type Config struct {
	HTTPEndpoint       string   `json:"http_endpoint"`
	EndpointsPath      string   `json:"endpoints_path"`
	EnvPath            string   `json:"env_path"`
	Command            string   `json:"command"`
	InputPath          string   `json:"input_path"` // Optional, read a captured dump instead of the endpoints
	ReportPath         string   `json:"report_path"`
	RunIntervalSeconds float64  `json:"run_interval"`
	InfluxDBURL        string   `json:"influxdb_url"` // Optional, disables history if empty
	InfluxDBToken      string   `json:"influxdb_token"`
	InfluxDBOrg        string   `json:"influxdb_org"`
	InfluxDBBucket     string   `json:"influxdb_bucket"`
	SMTPHost           string   `json:"smtp_host"` // Optional, disables email if empty
	SMTPPort           int      `json:"smtp_port"`
	SMTPFrom           string   `json:"smtp_from"`
	Recipients         []string `json:"recipients"`
	Subject            string   `json:"subject"`
}

// LoadConfig - Load configuration file into the global config. Defaults are kept if the path is empty.
func LoadConfig(path string) bool {
	if path == "" {
		// Allow no config
		return ValidateConfig(GlobalConfig)
	}

	log.WithFields(log.Fields{
		"config_path": path,
	}).Info("Loading config")

	if !util.ParseJSONFile(&GlobalConfig, path) {
		return false
	}

	return ValidateConfig(GlobalConfig)
}

// ValidateConfig - Check the config for impossible values.
func ValidateConfig(config Config) bool {
	if config.RunIntervalSeconds < 0 {
		log.Error("Negative run interval not allowed")
		return false
	}
	if config.ReportPath == "" {
		log.Error("Report path missing")
		return false
	}
	if config.InputPath == "" && config.EndpointsPath == "" {
		log.Error("Neither input path nor endpoints path configured")
		return false
	}
	if config.Command == "" {
		log.Error("Inventory command missing")
		return false
	}
	if config.SMTPHost != "" {
		if config.SMTPPort <= 0 || config.SMTPPort > 65535 {
			log.WithFields(log.Fields{
				"smtp_port": config.SMTPPort,
			}).Error("Invalid SMTP port")
			return false
		}
		if config.SMTPFrom == "" || len(config.Recipients) == 0 {
			log.Error("SMTP sender or recipients missing")
			return false
		}
	}
	if config.InfluxDBURL != "" && (config.InfluxDBOrg == "" || config.InfluxDBBucket == "") {
		log.Error("InfluxDB org or bucket missing")
		return false
	}
	return true
}
