package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow is one (invoice, product) line of the enriched sales report as
// read from the store. Columns coming from LEFT JOINs are nullable.
type ReportRow struct {
	Year  int `db:"tahun"`
	Month int `db:"bulan"`

	// Outlet master.
	ComID      *string `db:"comid"`
	DisID      *string `db:"disid"`
	OutID      *string `db:"outid"`
	Outlet     *string `db:"outlet"`
	Address    *string `db:"alamat"`
	OutletMRID *string `db:"outlet_mrid"`

	// Transaction.
	Distributor     string              `db:"distributor"`
	InvoiceDate     time.Time           `db:"tanggal_faktur"`
	InvoiceNo       string              `db:"nomor_faktur"`
	PONumber        *string             `db:"po_outlet"`
	OutletCode      string              `db:"kode_outlet"`
	BatchNumber     *string             `db:"batch_no"`
	Quantity        decimal.Decimal     `db:"quantity"`
	Value           decimal.Decimal     `db:"value"`
	NetValue        decimal.Decimal     `db:"value_net"`
	DiscDistributor decimal.NullDecimal `db:"disc_distributor"`

	// Product master.
	ProID       *string             `db:"proid"`
	Product     *string             `db:"product"`
	ProductRank *string             `db:"urut_prod"`
	HNR         decimal.NullDecimal `db:"hnr"`
	GroupName   *string             `db:"nama_grup"`

	// Territory hierarchy. HierarchyID is NULL when the join found nothing.
	TPID        *string `db:"tpid"`
	HierarchyID *string `db:"hierarchy_id"`
	TP          *string `db:"tp"`
	SPVID       *string `db:"spvid"`
	SPV         *string `db:"spv"`
	DMID        *string `db:"dmid"`
	DM          *string `db:"dm"`
	AMID        *string `db:"amid"`
	AM          *string `db:"am"`
	SMID        *string `db:"smid"`
	SM          *string `db:"sm"`
	GSMID       *string `db:"gsmid"`
	GSM         *string `db:"gsm"`
}

// Matched reports whether the hierarchy join resolved.
func (r ReportRow) Matched() bool {
	return r.HierarchyID != nil
}

// LedgerRow is one record written to the long-term sales ledger.
type LedgerRow struct {
	ComID           string
	SLHID           int64
	Year            int
	Month           int
	InvoiceDate     time.Time
	InvoiceNo       string
	Quantity        decimal.Decimal
	ProID           string
	DisID           string
	OutID           *string
	Distributor     string
	Outlet          *string
	Product         *string
	Bonus           int
	HNA             decimal.NullDecimal
	DiscountAmount  decimal.Decimal
	OutletCode      string
	NetValue        decimal.Decimal
	DiscBerno       decimal.Decimal
	DiscDistributor decimal.Decimal
	DiscPercent     decimal.Decimal
	OriginalValue   decimal.Decimal
}

// UnmappedOutlet is an outlet the reconciliation workflow still has to link.
type UnmappedOutlet struct {
	Code        string  `db:"kode_outlet"`
	Distributor string  `db:"distributor"`
	Name        string  `db:"outlet"`
	Address     string  `db:"alamat"`
	City        string  `db:"kota"`
	MRID        *string `db:"mrid"`
	MRName      *string `db:"mr_name"`
}

// OutletLink assigns legal entity, outlet identity and territory to a code.
type OutletLink struct {
	Code  string
	ComID string
	OutID string
	MRID  string
}

// ReportLine is a ReportRow with its derived price and discount fields.
type ReportLine struct {
	ReportRow

	// DiscountAmount is gross - net.
	DiscountAmount decimal.Decimal

	// DiscountPercent is 1 - net/gross, zero when gross is zero.
	DiscountPercent decimal.Decimal

	// UnitNetPrice is net / quantity, zero when quantity is zero.
	UnitNetPrice decimal.Decimal
}
