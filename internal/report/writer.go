// =============================================================================
// Sales Sync - Report Writer
// =============================================================================
//
// This module renders report lines into tabular artifacts. A Sheet is the
// format-neutral form (header plus string records); WriteSheet then emits it
// as CSV or as an XLSX workbook with a single worksheet.
//
// FORMATTING RULES:
//   - dates:                     YYYY-MM-DD
//   - disc_* columns:            5 decimal places
//   - hnr2 (unit net price):     0 decimal places
//   - NULL columns:              empty string
//
// =============================================================================

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/salesync/internal/outlet"
	"github.com/ginjaninja78/salesync/internal/types"
)

// Sheet is one artifact in format-neutral form.
type Sheet struct {
	Name    string
	Header  []string
	Records [][]string
}

// FullHeader is the column layout of the full report.
var FullHeader = []string{
	"Tahun", "Bulan", "Comid", "Disid", "Distributor", "Outid", "Outlet", "Alamat",
	"Tanggal Faktur", "Nomor Faktur", "PO Outlet", "Proid", "Product", "Batch No",
	"Quantity", "hnr", "Value", "disc_distributor", "disc_amt", "disc_p", "disc_berno",
	"hnr2", "Value Net", "nama_group",
	"TPID", "TP", "SPVID", "SPV", "DMID", "DM", "AMID", "AM", "SMID", "SM", "GSMID", "GSM",
	"Off MR", "Off SPV", "Off DM", "Off AM", "SP Sales", "DPLID",
}

// UnmatchedHeader is the column layout of the unmatched-outlet report.
var UnmatchedHeader = []string{
	"Outlet Code", "comid", "Outid", "Outlet", "Alamat", "Distributor City",
	"Kota", "Distrik", "Kode Pos", "Tipe Outlet", "DM", "MRID",
}

// =============================================================================
// RECORD BUILDING
// =============================================================================

// FullSheet renders every line in the full report layout.
func FullSheet(lines []types.ReportLine) Sheet {
	records := make([][]string, len(lines))
	for i, l := range lines {
		records[i] = fullRecord(l)
	}
	return Sheet{Name: "Report", Header: FullHeader, Records: records}
}

func fullRecord(l types.ReportLine) []string {
	return []string{
		fmt.Sprint(l.Year),
		fmt.Sprint(l.Month),
		str(l.ComID),
		str(l.DisID),
		l.Distributor,
		str(l.OutID),
		str(l.Outlet),
		str(l.Address),
		formatDate(l),
		l.InvoiceNo,
		str(l.PONumber),
		str(l.ProID),
		str(l.Product),
		str(l.BatchNumber),
		l.Quantity.String(),
		nullDec(l.HNR),
		l.Value.String(),
		fixed(l.DiscDistributor, 5),
		l.DiscountAmount.StringFixed(5),
		l.DiscountPercent.StringFixed(5),
		l.DiscountPercent.StringFixed(5),
		l.UnitNetPrice.StringFixed(0),
		l.NetValue.String(),
		str(l.GroupName),
		str(l.TPID),
		str(l.TP),
		str(l.SPVID),
		str(l.SPV),
		str(l.DMID),
		str(l.DM),
		str(l.AMID),
		str(l.AM),
		str(l.SMID),
		str(l.SM),
		str(l.GSMID),
		str(l.GSM),
		// Off MR, Off SPV, Off DM, Off AM, SP Sales, DPLID are not sourced.
		"", "", "", "", "", "",
	}
}

// UnmatchedSheet renders deduplicated unmatched lines. Outlet name and
// address are taken from the companion detail when one exists for the code,
// and city, district, postal code and outlet type only come from there.
func UnmatchedSheet(lines []types.ReportLine, details map[string]outlet.Detail, outletTypes map[string]string) Sheet {
	records := make([][]string, len(lines))
	for i, l := range lines {
		name, address := str(l.Outlet), str(l.Address)
		var city, district, postal, outletType string
		if d, ok := details[l.OutletCode]; ok {
			name, address = d.Name, d.Address
			city, district, postal = d.City, d.District, d.PostalCode
			outletType = outletTypes[d.Group]
		}
		records[i] = []string{
			l.OutletCode,
			str(l.ComID),
			str(l.OutID),
			name,
			address,
			l.Distributor,
			city,
			district,
			postal,
			outletType,
			str(l.DM),
			str(l.TPID),
		}
	}
	return Sheet{Name: "Unmatched", Header: UnmatchedHeader, Records: records}
}

// =============================================================================
// OUTPUT
// =============================================================================

// WriteSheet writes sheet to path in the given format ("csv" or "xlsx").
func WriteSheet(path, format string, sheet Sheet) error {
	switch strings.ToLower(format) {
	case "", "csv":
		return WriteCSV(path, sheet)
	case "xlsx":
		return WriteXLSX(path, sheet)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// WriteCSV writes the sheet as RFC 4180 CSV.
func WriteCSV(path string, sheet Sheet) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(sheet.Header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	if err := w.WriteAll(sheet.Records); err != nil {
		return fmt.Errorf("failed to write report rows: %w", err)
	}

	return file.Sync()
}

// WriteXLSX writes the sheet as a workbook with one worksheet.
func WriteXLSX(path string, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	if err := setRow(f, name, 1, sheet.Header); err != nil {
		return err
	}
	for i, rec := range sheet.Records {
		if err := setRow(f, name, i+2, rec); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullDec(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func fixed(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return decimal.Zero.StringFixed(places)
	}
	return d.Decimal.StringFixed(places)
}

func formatDate(l types.ReportLine) string {
	if l.InvoiceDate.IsZero() {
		return ""
	}
	return l.InvoiceDate.Format("2006-01-02")
}
