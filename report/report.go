// Package report writes crossed radios to a spreadsheet.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"dev.hon.one/radiocross/inventory"
)

// SheetName - Name of the report sheet.
const SheetName = "Radio Cross"

// Headers - Report column headers.
var Headers = []string{
	"Subnetwork",
	"Serial",
	"Radio",
	"Site1",
	"Site1 sector",
	"Site2",
	"Site2 sector",
	"Same sector",
}

// Columns of the two sector cells, compared by the last column.
const (
	sector1Column = 5
	sector2Column = 7
)

// Row - One report row.
type Row struct {
	Subnetwork   string
	SerialNumber string
	ProductName  string
	Site1        string
	Sector1      string
	Site2        string
	Sector2      string
}

// Rows - One row per crossed radio, sorted by radio key.
func Rows(crossed inventory.Associations) []Row {
	rows := make([]Row, 0, len(crossed))
	for _, key := range crossed.Keys() {
		assoc := crossed[key]
		serialNumber, productName := key.Split()
		row := Row{
			Subnetwork:   assoc.Subnetwork,
			SerialNumber: serialNumber,
			ProductName:  productName,
		}
		if len(assoc.Sites) > 0 {
			row.Site1, row.Sector1 = assoc.Sites[0].Site, assoc.Sites[0].Sector
		}
		if len(assoc.Sites) > 1 {
			row.Site2, row.Sector2 = assoc.Sites[1].Site, assoc.Sites[1].Sector
		}
		rows = append(rows, row)
	}
	return rows
}

// Write - Write the crossed radios to a new spreadsheet at path and return the path.
func Write(path string, crossed inventory.Associations) (string, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", SheetName); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}
	for column, header := range Headers {
		if err := setCell(file, column+1, 1, header); err != nil {
			return "", err
		}
	}

	rows := Rows(crossed)
	for i, row := range rows {
		rowNumber := i + 2
		values := []string{row.Subnetwork, row.SerialNumber, row.ProductName, row.Site1, row.Sector1, row.Site2, row.Sector2}
		for column, value := range values {
			if err := setCell(file, column+1, rowNumber, value); err != nil {
				return "", err
			}
		}
		if err := setSameSectorFormula(file, len(Headers), rowNumber); err != nil {
			return "", err
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := file.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	log.WithFields(log.Fields{
		"path":      path,
		"row_count": len(rows),
	}).Info("Wrote report")

	return path, nil
}

func setCell(file *excelize.File, column int, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return err
	}
	if err := file.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %v: %w", cell, err)
	}
	return nil
}

func setSameSectorFormula(file *excelize.File, column int, row int) error {
	cell, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return err
	}
	sector1, _ := excelize.CoordinatesToCellName(sector1Column, row)
	sector2, _ := excelize.CoordinatesToCellName(sector2Column, row)
	if err := file.SetCellFormula(SheetName, cell, fmt.Sprintf("%v=%v", sector1, sector2)); err != nil {
		return fmt.Errorf("failed to set formula %v: %w", cell, err)
	}
	return nil
}
