package common

import (
	"time"
)

// RunEntry - Summary of one report run.
type RunEntry struct {
	Time           time.Time
	Source         string
	Duration       time.Duration
	Success        bool
	RecordCount    int
	RadioCount     int
	CrossedCount   int
	SkippedRecords int
	ReportPath     string
}

// CrossEntry - A crossed radio found during a run.
type CrossEntry struct {
	Time         time.Time
	Subnetwork   string
	SerialNumber string
	ProductName  string
	Site1        string
	Sector1      string
	Site2        string
	Sector2      string
}

// SubnetworkEntry - Crossed radio count for one subnetwork during a run.
type SubnetworkEntry struct {
	Time         time.Time
	Subnetwork   string
	CrossedCount int
}
