// Package inventory reconciles shared radio inventory records into per-radio
// site/sector associations and finds the radios whose two sites disagree on
// the sector they serve.
package inventory

import (
	"sort"
	"strings"
)

// Markers used to tell identity records from attribute records.
const (
	IdentityMarker  = "FDN"
	AttributeMarker = "productData"
)

// Record - A single line of inventory output.
type Record interface {
	Value() string
}

// StringRecord - Record backed by a plain string.
type StringRecord string

// Value - The literal inventory line.
func (record StringRecord) Value() string {
	return string(record)
}

// StringRecords - Wrap plain lines as records.
func StringRecords(lines []string) []Record {
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, StringRecord(line))
	}
	return records
}

// RadioKey - Identity of a physical radio, "<serial>:<product>".
type RadioKey string

// NewRadioKey - Join serial number and product name into a radio key.
func NewRadioKey(serialNumber string, productName string) RadioKey {
	return RadioKey(serialNumber + ":" + productName)
}

// Split - Split the key back into serial number and product name.
// Product names may contain colons, serial numbers don't.
func (key RadioKey) Split() (string, string) {
	serialNumber, productName, _ := strings.Cut(string(key), ":")
	return serialNumber, productName
}

// SiteSector - One site a radio is mounted on and the sector it serves there.
type SiteSector struct {
	Site   string
	Sector string
}

// Association - Sites and sectors recorded for one radio.
type Association struct {
	Subnetwork string
	Sites      []SiteSector
}

// Len - Number of entries including the subnetwork attribute.
func (assoc *Association) Len() int {
	return len(assoc.Sites) + 1
}

// HasSector - Whether the sector is already recorded for any site.
func (assoc *Association) HasSector(sector string) bool {
	for _, siteSector := range assoc.Sites {
		if siteSector.Sector == sector {
			return true
		}
	}
	return false
}

// SectorAt - Sector recorded for a site.
func (assoc *Association) SectorAt(site string) (string, bool) {
	for _, siteSector := range assoc.Sites {
		if siteSector.Site == site {
			return siteSector.Sector, true
		}
	}
	return "", false
}

// Associations - Site/sector associations keyed by radio.
type Associations map[RadioKey]*Association

// Keys - Radio keys in lexicographic order.
func (assocs Associations) Keys() []RadioKey {
	keys := make([]RadioKey, 0, len(assocs))
	for key := range assocs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
