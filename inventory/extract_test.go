package inventory

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFDN = "FDN : SubNetwork=ONRM_ROOT_MO,SubNetwork=ALMATY,MeContext=ALA0012,ManagedElement=1,Equipment=1,FieldReplaceableUnit=RRU-S1L"

func TestExtractField(t *testing.T) {
	tests := map[string]struct {
		fdn     string
		field   Field
		want    string
		wantErr error
	}{
		"subnetwork skips the root": {
			fdn:   testFDN,
			field: FieldSubNetwork,
			want:  "ALMATY",
		},
		"subnetwork needs a leading comma": {
			fdn:     "FDN : SubNetwork=ALMATY,MeContext=ALA0012,FieldReplaceableUnit=RRU-S1",
			field:   FieldSubNetwork,
			wantErr: ErrFieldNotFound,
		},
		"me context": {
			fdn:   testFDN,
			field: FieldMeContext,
			want:  "ALA0012",
		},
		"managed element fallback": {
			fdn:   "FDN : SubNetwork=ONRM_ROOT_MO,SubNetwork=ASTANA,ManagedElement=AST0101,Equipment=1,FieldReplaceableUnit=RRU-S2",
			field: FieldMeContext,
			want:  "AST0101",
		},
		"site missing": {
			fdn:     "FDN : SubNetwork=ONRM_ROOT_MO,SubNetwork=ASTANA,Equipment=1,FieldReplaceableUnit=RRU-S2",
			field:   FieldMeContext,
			wantErr: ErrFieldNotFound,
		},
		"unit runs to end of string": {
			fdn:   "FDN : SubNetwork=ONRM_ROOT_MO,SubNetwork=ALMATY,MeContext=ALA0012,FieldReplaceableUnit=RRU,S2,R",
			field: FieldReplaceableUnit,
			want:  "RRU,S2,R",
		},
		"unit takes value after last equals sign": {
			fdn:   "FDN : SubNetwork=ONRM_ROOT_MO,SubNetwork=ALMATY,MeContext=ALA0012,FieldReplaceableUnit=1,RfPort=S3L",
			field: FieldReplaceableUnit,
			want:  "S3L",
		},
		"unit missing": {
			fdn:     "FDN : SubNetwork=ONRM_ROOT_MO,SubNetwork=ALMATY,MeContext=ALA0012",
			field:   FieldReplaceableUnit,
			wantErr: ErrFieldNotFound,
		},
		"unknown field": {
			fdn:     testFDN,
			field:   Field("Equipment"),
			wantErr: ErrUnknownField,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			value, err := ExtractField(test.fdn, test.field)
			if test.wantErr != nil {
				assert.True(t, errors.Is(err, test.wantErr), "got error %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, value)
		})
	}
}

func TestExtractFieldWellFormed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("fields are returned verbatim", prop.ForAll(
		func(subnetwork, site, unit string) bool {
			fdn := "FDN : SubNetwork=ONRM_ROOT_MO,SubNetwork=" + subnetwork + ",MeContext=" + site + ",ManagedElement=1,Equipment=1,FieldReplaceableUnit=" + unit
			gotSubnetwork, err1 := ExtractField(fdn, FieldSubNetwork)
			gotSite, err2 := ExtractField(fdn, FieldMeContext)
			gotUnit, err3 := ExtractField(fdn, FieldReplaceableUnit)
			return err1 == nil && err2 == nil && err3 == nil &&
				gotSubnetwork == subnetwork && gotSite == site && gotUnit == unit
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

func TestExtractProductData(t *testing.T) {
	tests := map[string]struct {
		text        string
		wantSerial  string
		wantProduct string
	}{
		"both present": {
			text:        "productData : {productName=RRUS 12 B3, productNumber=KRC 161 255/1, serialNumber=D829123456, productRevision=R2B}",
			wantSerial:  "D829123456",
			wantProduct: "RRUS 12 B3",
		},
		"serial missing": {
			text:        "productData : {productName=Radio 4415 B3, productNumber=KRC 161 746/1}",
			wantProduct: "Radio 4415 B3",
		},
		"product missing": {
			text:       "productData : {serialNumber=D829123456, productRevision=R2B}",
			wantSerial: "D829123456",
		},
		"both missing": {
			text: "productData : null",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			serial, product := ExtractProductData(test.text)
			assert.Equal(t, test.wantSerial, serial)
			assert.Equal(t, test.wantProduct, product)
		})
	}
}

func TestExtractSector(t *testing.T) {
	tests := map[string]struct {
		unit      string
		want      string
		wantFound bool
	}{
		"left":            {unit: "RRU-S3L", want: "S3-L", wantFound: true},
		"right":           {unit: "RRU-S3R", want: "S3-R", wantFound: true},
		"bare":            {unit: "RRU-S3", want: "S3", wantFound: true},
		"no sector":       {unit: "NoSectorHere", wantFound: false},
		"first sector":    {unit: "RRU-S1-S2", want: "S1", wantFound: true},
		"only last char":  {unit: "RRU-S2L-1", want: "S2", wantFound: true},
		"side anywhere":   {unit: "RRUS4-XL", want: "S4-L", wantFound: true},
		"lowercase side":  {unit: "RRU-S5l", want: "S5", wantFound: true},
		"sector is whole": {unit: "S7", want: "S7", wantFound: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			sector, found := ExtractSector(test.unit)
			assert.Equal(t, test.wantFound, found)
			assert.Equal(t, test.want, sector)
		})
	}
}
