package inventory

import (
	"fmt"
	"sort"
	"strings"
)

// TotalKey - Name of the statistics entry summing all crossed radios.
const TotalKey = "Total"

// A crossed radio has the subnetwork attribute and exactly two sites.
const crossedEntryCount = 3

// IsSectorDifferent - Whether the first two sites of the radio serve different sectors.
// Labels of equal length are compared in full, otherwise only the sector number is
// compared, so "S1" matches "S1-L" while "S1-L" differs from "S1-R".
func IsSectorDifferent(assoc *Association) bool {
	if len(assoc.Sites) < 2 {
		return false
	}
	sector1 := assoc.Sites[0].Sector
	sector2 := assoc.Sites[1].Sector
	if len(sector1) == len(sector2) {
		return sector1 != sector2
	}
	return sectorNumber(sector1) != sectorNumber(sector2)
}

func sectorNumber(sector string) string {
	if len(sector) < 2 {
		return sector
	}
	return sector[:2]
}

// FilterCrossed - Keep the radios mounted on exactly two sites with different sectors.
func FilterCrossed(assocs Associations) Associations {
	crossed := make(Associations)
	for key, assoc := range assocs {
		if assoc.Len() == crossedEntryCount && IsSectorDifferent(assoc) {
			crossed[key] = assoc
		}
	}
	return crossed
}

// SubnetworkCount - Number of crossed radios in a subnetwork.
type SubnetworkCount struct {
	Subnetwork string
	Count      int
}

// Stats - Crossed radios per subnetwork, sorted by subnetwork name.
type Stats struct {
	Subnetworks []SubnetworkCount
	Total       int
}

// CountCrosses - Count crossed radios per subnetwork.
// Subnetworks without crossed radios are absent.
func CountCrosses(crossed Associations) Stats {
	counts := make(map[string]int)
	for _, assoc := range crossed {
		counts[assoc.Subnetwork]++
	}
	stats := Stats{
		Subnetworks: make([]SubnetworkCount, 0, len(counts)),
		Total:       len(crossed),
	}
	for subnetwork, count := range counts {
		stats.Subnetworks = append(stats.Subnetworks, SubnetworkCount{Subnetwork: subnetwork, Count: count})
	}
	sort.Slice(stats.Subnetworks, func(i, j int) bool {
		return stats.Subnetworks[i].Subnetwork < stats.Subnetworks[j].Subnetwork
	})
	return stats
}

// Entries - Per-subnetwork counts followed by the total.
func (stats Stats) Entries() []SubnetworkCount {
	entries := make([]SubnetworkCount, 0, len(stats.Subnetworks)+1)
	entries = append(entries, stats.Subnetworks...)
	return append(entries, SubnetworkCount{Subnetwork: TotalKey, Count: stats.Total})
}

// Map - Counts keyed by subnetwork, including the total.
func (stats Stats) Map() map[string]int {
	result := make(map[string]int, len(stats.Subnetworks)+1)
	for _, entry := range stats.Entries() {
		result[entry.Subnetwork] = entry.Count
	}
	return result
}

// String - One "<subnetwork>: <count>" line per entry.
func (stats Stats) String() string {
	var builder strings.Builder
	for i, entry := range stats.Entries() {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "%v: %v", entry.Subnetwork, entry.Count)
	}
	return builder.String()
}
