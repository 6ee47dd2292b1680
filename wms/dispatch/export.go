package dispatch

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const ManifestSheet = "Manifest"

// ExportManifest writes the manifest as an .xlsx workbook: a short header
// block followed by one row per package.
func (c *Coordinator) ExportManifest(manifestID string, w io.Writer) error {
	m, err := c.Manifest(manifestID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ManifestSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := [][]any{
		{"Manifest", m.ID},
		{"Carrier", fmt.Sprintf("%s (%s)", m.CarrierName, m.CarrierID)},
		{"Status", string(m.Status)},
		{"Created", m.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	if !m.HandedOverAt.IsZero() {
		header = append(header,
			[]any{"Handed over", m.HandedOverAt.Format("2006-01-02 15:04:05")},
			[]any{"Signature", m.Signature},
			[]any{"Confirmation", m.ConfirmationNumber})
	}
	for i, row := range header {
		r := row
		if err := f.SetSheetRow(ManifestSheet, fmt.Sprintf("A%d", i+1), &r); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	start := len(header) + 2
	columns := []any{"No", "Package", "Order", "Tracking Number", "Service Level", "Rate"}
	if err := f.SetSheetRow(ManifestSheet, fmt.Sprintf("A%d", start), &columns); err != nil {
		return fmt.Errorf("write columns: %w", err)
	}
	for i, s := range m.Shipments {
		row := start + 1 + i
		f.SetCellValue(ManifestSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(ManifestSheet, fmt.Sprintf("B%d", row), s.PackageID)
		f.SetCellValue(ManifestSheet, fmt.Sprintf("C%d", row), s.OrderID)
		f.SetCellValue(ManifestSheet, fmt.Sprintf("D%d", row), s.TrackingNumber)
		f.SetCellValue(ManifestSheet, fmt.Sprintf("E%d", row), s.ServiceLevel)
		f.SetCellValue(ManifestSheet, fmt.Sprintf("F%d", row), s.Rate.StringFixed(2))
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write manifest workbook: %w", err)
	}
	return nil
}
