package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"fxconvert/internal/domain/model"
)

var header = []string{"Amount", "Base Currency", "Target Currency", "Converted Amount", "Rate"}

// CSVExporter overwrites its file with the given results on every Export.
type CSVExporter struct {
	path string
}

func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

func (e *CSVExporter) Path() string {
	return e.path
}

func (e *CSVExporter) Export(results []model.ConversionResult) error {
	file, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.FromAmount.StringFixed(2),
			r.FromCurrency.String(),
			r.ToCurrency.String(),
			r.ToAmount.StringFixed(2),
			strconv.FormatFloat(r.Rate, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			file.Close()
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush export file: %w", err)
	}

	return file.Close()
}
