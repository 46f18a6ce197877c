package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/phonebill-converter/internal/report"
)

// CSVWriter writes report tables in CSV format.
type CSVWriter struct {
	// IncludeSources prefixes the table with one "# Source" line per document.
	IncludeSources bool
}

// WriteToFile writes the table to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, table *report.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, table)
}

// Write writes the table header-first to out.
func (w *CSVWriter) Write(out io.Writer, table *report.Table) error {
	writer := csv.NewWriter(out)

	if w.IncludeSources {
		for _, src := range table.Sources {
			if err := writer.Write([]string{"# Source", src}); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
	}

	header := table.Header
	if len(header) == 0 {
		header = report.Header
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
