// csvio/export.go
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/assetops/entitlements/model"
)

// WriteRecordsFile writes records to path, creating or truncating it.
func WriteRecordsFile(path string, records []model.Record, columns []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return WriteRecords(f, records, columns)
}

// WriteRecords writes a header row followed by one row per record, in the
// given fixed column order. Fields a record does not carry are rendered as
// empty strings; this is the only place absent values are defaulted.
func WriteRecords(w io.Writer, records []model.Record, columns []string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = rec[col]
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
