package inventory

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Field - A named component of a distinguished name.
type Field string

// Supported distinguished name fields.
const (
	FieldSubNetwork      Field = "SubNetwork"
	FieldMeContext       Field = "MeContext"
	FieldReplaceableUnit Field = "FieldReplaceableUnit"
)

// ErrFieldNotFound - The field pattern is absent from the distinguished name.
var ErrFieldNotFound = errors.New("field not found")

// ErrUnknownField - The field type is not supported.
var ErrUnknownField = errors.New("unknown field")

// The unit designator may contain commas, so it runs to the end of the string.
var fdnSubNetworkRegex = regexp.MustCompile(`,SubNetwork=[^,]*`)
var fdnMeContextRegex = regexp.MustCompile(`MeContext=[^,]*`)
var fdnManagedElementRegex = regexp.MustCompile(`ManagedElement=[^,]*`)
var fdnReplaceableUnitRegex = regexp.MustCompile(`FieldReplaceableUnit=.*`)

var productSerialNumberRegex = regexp.MustCompile(`serialNumber=[^,]*`)
var productNameRegex = regexp.MustCompile(`productName=[^,]*`)

var sectorRegex = regexp.MustCompile(`S\d`)

// ExtractField - Get the value of a field from a distinguished name.
// MeContext falls back to ManagedElement for records without a MeContext.
func ExtractField(fdn string, field Field) (string, error) {
	var match string
	switch field {
	case FieldSubNetwork:
		match = fdnSubNetworkRegex.FindString(fdn)
	case FieldMeContext:
		match = fdnMeContextRegex.FindString(fdn)
		if match == "" {
			match = fdnManagedElementRegex.FindString(fdn)
		}
	case FieldReplaceableUnit:
		match = fdnReplaceableUnitRegex.FindString(fdn)
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownField, field)
	}
	if match == "" {
		return "", fmt.Errorf("%w: %v", ErrFieldNotFound, field)
	}
	return lastValue(match), nil
}

// ExtractProductData - Get serial number and product name from a product data attribute.
// Either is empty if missing.
func ExtractProductData(text string) (string, string) {
	serialNumber := ""
	if match := productSerialNumberRegex.FindString(text); match != "" {
		serialNumber = lastValue(match)
	}
	productName := ""
	if match := productNameRegex.FindString(text); match != "" {
		productName = lastValue(match)
	}
	return serialNumber, productName
}

// ExtractSector - Get the sector label from a unit designator, e.g. "S3" or "S3-L".
// Only the last character of the designator decides the side.
func ExtractSector(unit string) (string, bool) {
	sectorNumber := sectorRegex.FindString(unit)
	if sectorNumber == "" {
		return "", false
	}
	switch lastLabel := unit[len(unit)-1]; lastLabel {
	case 'L', 'R':
		return sectorNumber + "-" + string(lastLabel), true
	}
	return sectorNumber, true
}

// Value after the last "=" of a "key=value" match.
func lastValue(match string) string {
	return match[strings.LastIndex(match, "=")+1:]
}
