package inventory

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// ParseStats - Counters for a single parse.
type ParseStats struct {
	IdentityRecords  int
	AttributeRecords int
	SkippedRecords   int
	RecordedRadios   int
}

// Identity currently in scope, replaced by every identity record.
type parserState struct {
	subnetwork string
	site       string
	unit       string
	sector     string
	valid      bool
}

// Build the state for an identity record.
// A record with a missing field gives an invalid state so that its attributes are dropped.
func identityState(fdn string) (parserState, error) {
	subnetwork, err := ExtractField(fdn, FieldSubNetwork)
	if err != nil {
		return parserState{}, err
	}
	site, err := ExtractField(fdn, FieldMeContext)
	if err != nil {
		return parserState{}, err
	}
	unit, err := ExtractField(fdn, FieldReplaceableUnit)
	if err != nil {
		return parserState{}, err
	}
	sector, _ := ExtractSector(unit)
	return parserState{
		subnetwork: subnetwork,
		site:       site,
		unit:       unit,
		sector:     sector,
		valid:      true,
	}, nil
}

// Whether attributes in this state describe a sectored unit.
func (state parserState) acceptsAttributes() bool {
	return state.valid && strings.Contains(state.unit, "S")
}

// Parser - Folds inventory records into radio associations.
type Parser struct {
	associations Associations
	state        parserState
	stats        ParseStats
}

// NewParser - Create an empty parser.
func NewParser() *Parser {
	return &Parser{
		associations: make(Associations),
	}
}

// Feed - Process the next record in order.
func (parser *Parser) Feed(record Record) {
	value := record.Value()
	switch {
	case strings.Contains(value, IdentityMarker):
		parser.stats.IdentityRecords++
		state, err := identityState(value)
		if err != nil {
			parser.stats.SkippedRecords++
			log.WithError(err).WithFields(log.Fields{
				"record": value,
			}).Warn("Skipping malformed identity record")
		}
		parser.state = state
	case strings.Contains(value, AttributeMarker):
		parser.stats.AttributeRecords++
		if !parser.state.acceptsAttributes() {
			return
		}
		serialNumber, productName := ExtractProductData(value)
		if !RecordAssociation(parser.associations, parser.state.subnetwork, parser.state.site, parser.state.sector, serialNumber, productName) {
			log.WithFields(log.Fields{
				"site":          parser.state.site,
				"unit":          parser.state.unit,
				"serial_number": serialNumber,
				"product_name":  productName,
			}).Trace("Attribute record not recorded")
		}
	}
}

// Associations - Associations built so far.
func (parser *Parser) Associations() Associations {
	return parser.associations
}

// Stats - Counters for records fed so far.
func (parser *Parser) Stats() ParseStats {
	stats := parser.stats
	stats.RecordedRadios = len(parser.associations)
	return stats
}

// ParseAll - Parse a full batch of records into radio associations.
func ParseAll(records []Record) Associations {
	parser := NewParser()
	for _, record := range records {
		parser.Feed(record)
	}
	return parser.Associations()
}

// RecordAssociation - Record that a radio serves a sector on a site.
// Nothing is recorded if sector, serial number or product name is missing, or if
// the radio already has the sector on some site. Returns whether a site was recorded.
func RecordAssociation(assocs Associations, subnetwork string, site string, sector string, serialNumber string, productName string) bool {
	if sector == "" || serialNumber == "" || productName == "" {
		return false
	}
	key := NewRadioKey(serialNumber, productName)
	assoc, found := assocs[key]
	if !found {
		assoc = &Association{}
		assocs[key] = assoc
	}
	assoc.Subnetwork = subnetwork
	if assoc.HasSector(sector) {
		return false
	}
	for i := range assoc.Sites {
		if assoc.Sites[i].Site == site {
			assoc.Sites[i].Sector = sector
			return true
		}
	}
	assoc.Sites = append(assoc.Sites, SiteSector{Site: site, Sector: sector})
	return true
}
