// csvio/import.go

// Package csvio reads batch asset lists and writes flattened entitlement
// exports. Input files come from inventory tools that disagree on
// delimiters, header spelling and byte-order marks, so reading is tolerant;
// output columns are fixed so downstream spreadsheets stay stable.
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/assetops/entitlements/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadAssetListFile imports assets from a CSV (or TSV) file.
func ReadAssetListFile(path string) ([]model.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset list: %w", err)
	}
	defer f.Close()
	return ReadAssetList(f)
}

// ReadAssetList imports assets from tabular data. The required columns are a
// display name and an asset/service tag, matched case-insensitively across
// common spellings; warranty, acquisition date and warranty-expiry date are
// picked up when present. The delimiter (comma or tab) is detected from the
// header line and a leading UTF-8 BOM is tolerated. Rows missing either
// required value are skipped.
func ReadAssetList(r io.Reader) ([]model.Asset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset list: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	delimiter := ','
	if bytes.ContainsRune(firstLine, '\t') {
		delimiter = '\t'
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	cols := matchColumns(header)
	if cols.name < 0 || cols.tag < 0 {
		return nil, fmt.Errorf("asset list must contain 'Name' and 'Asset Tag' columns, found: %v", header)
	}

	var assets []model.Asset
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read asset row: %w", err)
		}

		name := field(row, cols.name)
		tag := field(row, cols.tag)
		if name == "" || tag == "" {
			continue
		}

		assets = append(assets, model.Asset{
			Name:               name,
			ServiceTag:         tag,
			Warranty:           field(row, cols.warranty),
			AcquisitionDate:    field(row, cols.acquisitionDate),
			WarrantyExpiryDate: field(row, cols.warrantyExpiry),
		})
	}

	return assets, nil
}

// columnIndexes holds the resolved position of each recognized column, -1
// when absent.
type columnIndexes struct {
	name            int
	tag             int
	warranty        int
	acquisitionDate int
	warrantyExpiry  int
}

func matchColumns(header []string) columnIndexes {
	cols := columnIndexes{name: -1, tag: -1, warranty: -1, acquisitionDate: -1, warrantyExpiry: -1}
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name":
			cols.name = i
		case "asset tag", "asset_tag", "assettag", "service tag", "service_tag", "servicetag":
			cols.tag = i
		case "warranty":
			cols.warranty = i
		case "acquisition date", "acquisition_date":
			cols.acquisitionDate = i
		case "warranty expiry date", "warranty_expiry_date":
			cols.warrantyExpiry = i
		}
	}
	return cols
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
