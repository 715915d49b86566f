package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSites(sector1, sector2 string) *Association {
	return &Association{
		Subnetwork: "ALMATY",
		Sites: []SiteSector{
			{Site: "Site1", Sector: sector1},
			{Site: "Site2", Sector: sector2},
		},
	}
}

func TestIsSectorDifferent(t *testing.T) {
	tests := map[string]struct {
		sector1 string
		sector2 string
		want    bool
	}{
		"bare and sided same number":      {sector1: "S1", sector2: "S1-L", want: false},
		"sided and bare same number":      {sector1: "S1-R", sector2: "S1", want: false},
		"left and right":                  {sector1: "S1-L", sector2: "S1-R", want: true},
		"different numbers":               {sector1: "S1", sector2: "S2", want: true},
		"different numbers mixed lengths": {sector1: "S1", sector2: "S2-L", want: true},
		"identical":                       {sector1: "S3-L", sector2: "S3-L", want: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, IsSectorDifferent(twoSites(test.sector1, test.sector2)))
		})
	}
}

func TestFilterCrossed(t *testing.T) {
	assocs := Associations{
		"SN1:RRUS": twoSites("S1", "S2"),
		"SN2:RRUS": twoSites("S1", "S1-L"),
		"SN3:RRUS": {
			Subnetwork: "ALMATY",
			Sites:      []SiteSector{{Site: "Site1", Sector: "S3"}},
		},
		"SN4:RRUS": {
			Subnetwork: "ALMATY",
			Sites: []SiteSector{
				{Site: "Site1", Sector: "S1"},
				{Site: "Site2", Sector: "S2"},
				{Site: "Site3", Sector: "S3"},
			},
		},
		"SN5:RRUS": twoSites("S1-L", "S1-R"),
	}

	crossed := FilterCrossed(assocs)

	assert.Equal(t, []RadioKey{"SN1:RRUS", "SN5:RRUS"}, crossed.Keys())
	assert.Len(t, assocs, 5, "input must be left untouched")
}

func TestCountCrosses(t *testing.T) {
	crossed := Associations{
		"SN1:RRUS": {Subnetwork: "SHYMKENT"},
		"SN2:RRUS": {Subnetwork: "ALMATY"},
		"SN3:RRUS": {Subnetwork: "SHYMKENT"},
		"SN4:RRUS": {Subnetwork: "ASTANA"},
	}

	stats := CountCrosses(crossed)

	assert.Equal(t, []SubnetworkCount{
		{Subnetwork: "ALMATY", Count: 1},
		{Subnetwork: "ASTANA", Count: 1},
		{Subnetwork: "SHYMKENT", Count: 2},
		{Subnetwork: TotalKey, Count: 4},
	}, stats.Entries())
	assert.Equal(t, map[string]int{"ALMATY": 1, "ASTANA": 1, "SHYMKENT": 2, "Total": 4}, stats.Map())
	assert.Equal(t, "ALMATY: 1\nASTANA: 1\nSHYMKENT: 2\nTotal: 4", stats.String())
}

func TestCountCrossesEmpty(t *testing.T) {
	stats := CountCrosses(Associations{})

	assert.Equal(t, map[string]int{"Total": 0}, stats.Map())
}

func TestCrossedEndToEnd(t *testing.T) {
	tests := map[string]struct {
		unit1       string
		unit2       string
		wantCrossed bool
	}{
		"different sectors":            {unit1: "RRU-S1", unit2: "RRU-S2", wantCrossed: true},
		"bare and right same number":   {unit1: "RRU-S1", unit2: "RRU-S1R", wantCrossed: false},
		"left and right same number":   {unit1: "RRU-S1L", unit2: "RRU-S1R", wantCrossed: true},
		"same sector on both mounting": {unit1: "RRU-S2", unit2: "RRU-S2", wantCrossed: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			lines := []string{
				identityLine("ALMATY", "Site1", test.unit1),
				attributeLine("SN123", "ModelX"),
				identityLine("ALMATY", "Site2", test.unit2),
				attributeLine("SN123", "ModelX"),
			}

			crossed := FilterCrossed(ParseAll(StringRecords(lines)))
			stats := CountCrosses(crossed)

			if !test.wantCrossed {
				assert.Empty(t, crossed)
				assert.Equal(t, map[string]int{"Total": 0}, stats.Map())
				return
			}
			require.Len(t, crossed, 1)
			assoc := crossed["SN123:ModelX"]
			require.NotNil(t, assoc)
			_, found1 := assoc.SectorAt("Site1")
			_, found2 := assoc.SectorAt("Site2")
			assert.True(t, found1)
			assert.True(t, found2)
			assert.Equal(t, map[string]int{"ALMATY": 1, "Total": 1}, stats.Map())
		})
	}
}

func TestSingleSiteNeverCrossed(t *testing.T) {
	for _, unit := range []string{"RRU-S1", "RRU-S2L", "RRU-S3R"} {
		lines := []string{
			identityLine("ALMATY", "Site1", unit),
			attributeLine("SN9", "ModelY"),
		}
		assert.Empty(t, FilterCrossed(ParseAll(StringRecords(lines))), unit)
	}
}
