package common

// Global non-constant variables go here.

// GlobalConfig - Global singleton.
var GlobalConfig = Config{
	HTTPEndpoint:       ":8080",
	EndpointsPath:      "endpoints.json",
	EnvPath:            ".env",
	Command:            DefaultCommand,
	ReportPath:         DefaultReportPath,
	RunIntervalSeconds: 24 * 60 * 60,
	InfluxDBBucket:     "radiocross",
	SMTPPort:           25,
	Subject:            "Radio Crosses",
}

// GlobalCredential - Credential for the management endpoints.
var GlobalCredential Credential

// GlobalEndpoints - List of loaded management endpoints, names must be unique.
var GlobalEndpoints []Endpoint
