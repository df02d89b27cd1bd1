// =============================================================================
// Sales Sync - Shared Types
// =============================================================================
//
// This package contains the types shared by the readers, normalizers, the
// ingestion pipeline, the store and the report builder. Keeping them here
// avoids import cycles between those packages.
//
// TYPES:
//   - Row / Table  : raw decoded source data (column name -> raw value)
//   - SourceKind   : declared physical format of a source file
//   - Transaction  : the canonical sales line every normalizer produces
//   - SaleKey      : identity triple used for deduplication
//   - Outlet       : a row of the outlet master registry
//
// =============================================================================

package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RAW SOURCE DATA
// =============================================================================

// Row is one decoded source record keyed by (trimmed) column name.
type Row map[string]string

// Table is a fully decoded source file.
type Table struct {
	// Headers contains the column names in file order.
	Headers []string

	// Rows contains the records in file order. Normalizers rely on this
	// order to drop the leading and trailing sentinel rows.
	Rows []Row

	// SourceFile is the path the table was read from.
	SourceFile string
}

// SourceKind is the declared physical format of a source file.
type SourceKind string

const (
	KindCSV  SourceKind = "csv"
	KindXLSX SourceKind = "xlsx"
	KindDBF  SourceKind = "dbf"
)

// =============================================================================
// CANONICAL TRANSACTION
// =============================================================================

// Transaction is one normalized invoice line.
type Transaction struct {
	// Dist is the distributor-site identity, e.g. "APL-BDG" or "PPG".
	Dist string `db:"dist"`

	// DisID is the site/branch identifier reported by the distributor.
	DisID string `db:"disid"`

	InvoiceDate time.Time       `db:"tanggal_faktur"`
	InvoiceNo   string          `db:"nomor_faktur"`
	ItemCode    string          `db:"item_code"`
	Quantity    decimal.Decimal `db:"quantity"`
	OutletCode  string          `db:"kode_outlet"`

	// Value is the gross line value, NetValue the value after distributor
	// discount. Sources that only report one amount carry it in both.
	Value    decimal.Decimal `db:"value"`
	NetValue decimal.Decimal `db:"net_value"`

	PONumber    string `db:"po_outlet"`
	BatchNumber string `db:"batch_no"`

	// DiscDistributor is the distributor discount as a percentage of Value.
	DiscDistributor decimal.Decimal `db:"disc_distributor"`
}

// Key returns the deduplication identity of the transaction.
func (t Transaction) Key() SaleKey {
	return SaleKey{Dist: t.Dist, InvoiceNo: t.InvoiceNo, ItemCode: t.ItemCode}
}

// SaleKey is the (site identity, invoice number, product code) triple.
type SaleKey struct {
	Dist      string `db:"dist"`
	InvoiceNo string `db:"nomor_faktur"`
	ItemCode  string `db:"item_code"`
}

// String renders the key the way it appears in logs.
func (k SaleKey) String() string {
	return fmt.Sprintf("%s-%s-%s", k.Dist, k.InvoiceNo, k.ItemCode)
}

// =============================================================================
// OUTLET MASTER
// =============================================================================

// Outlet is a row of the outlet registry. ComID, OutID and MRID are only
// assigned by the reconciliation workflow, never by ingestion.
type Outlet struct {
	Code        string `db:"kode_outlet"`
	Distributor string `db:"distributor"`
	DisID       string `db:"disid"`
	Name        string `db:"outlet"`
	Address     string `db:"alamat"`
	City        string `db:"kota"`
	PostalCode  string `db:"kode_pos"`
	District    string `db:"distrik"`
	Type        string `db:"tipe_outlet"`

	ComID *string `db:"comid"`
	OutID *string `db:"outid"`
	MRID  *string `db:"mrid"`
}
