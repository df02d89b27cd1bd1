package normalizer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/salesync/internal/types"
)

var ppgColumns = struct {
	Branch, InvoiceDate, InvoiceNo, Part, Quantity, Customer, NetSales string
}{
	Branch:      "Branch Code",
	InvoiceDate: "Inv Date",
	InvoiceNo:   "Inv No",
	Part:        "Part No",
	Quantity:    "Qty",
	Customer:    "Customer Id",
	NetSales:    "Sales Nett (DPP)",
}

// PPG normalizes the PPG spreadsheet extract. Dates are day-first; the
// extract carries a single (net) amount.
type PPG struct{}

func NewPPG() *PPG { return &PPG{} }

func (n *PPG) Distributor() string { return "PPG" }

func (n *PPG) RequiredColumns() []string {
	c := ppgColumns
	return columnList(c.Branch, c.InvoiceDate, c.InvoiceNo, c.Part, c.Quantity, c.Customer, c.NetSales)
}

func (n *PPG) Normalize(row types.Row) (types.Transaction, error) {
	c := ppgColumns

	date, err := ParseDayFirstDate(row[c.InvoiceDate])
	if err != nil {
		return types.Transaction{}, skip("invalid invoice date", err)
	}
	qty, err := ParseAmount(row[c.Quantity])
	if err != nil {
		return types.Transaction{}, skip("invalid quantity", err)
	}
	value, err := ParseAmount(row[c.NetSales])
	if err != nil {
		return types.Transaction{}, skip("invalid sales value", err)
	}

	return types.Transaction{
		Dist:            "PPG",
		DisID:           "PPG-" + strings.TrimSpace(row[c.Branch]),
		InvoiceDate:     date,
		InvoiceNo:       strings.TrimSpace(row[c.InvoiceNo]),
		ItemCode:        strings.TrimSpace(row[c.Part]),
		Quantity:        qty,
		OutletCode:      strings.TrimSpace(row[c.Customer]),
		Value:           value,
		NetValue:        value,
		DiscDistributor: decimal.Zero,
	}, nil
}
