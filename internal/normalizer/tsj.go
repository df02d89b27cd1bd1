package normalizer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/salesync/internal/types"
)

// tsjDateLayout is how the DBF reader renders date columns.
const tsjDateLayout = "2006-01-02"

var tsjColumns = struct {
	Branch, Date, InvoiceNo, Product, Quantity, CustomerGroup, Customer, NetSales string
}{
	Branch:        "KODECAB",
	Date:          "TGLDOKJDI",
	InvoiceNo:     "NODOKJDI",
	Product:       "KODEPROD",
	Quantity:      "BANYAK",
	CustomerGroup: "GRUPLANG",
	Customer:      "KODELANG",
	NetSales:      "NETSALES",
}

// TSJ normalizes the TSJ DBF extract. The outlet code is the customer group
// followed by the customer code.
type TSJ struct{}

func NewTSJ() *TSJ { return &TSJ{} }

func (n *TSJ) Distributor() string { return "TSJ" }

func (n *TSJ) RequiredColumns() []string {
	c := tsjColumns
	return columnList(c.Branch, c.Date, c.InvoiceNo, c.Product, c.Quantity, c.CustomerGroup, c.Customer, c.NetSales)
}

func (n *TSJ) Normalize(row types.Row) (types.Transaction, error) {
	c := tsjColumns

	date, err := ParseFixedDate(tsjDateLayout, row[c.Date])
	if err != nil {
		return types.Transaction{}, skip("invalid document date", err)
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
		Dist:            "TSJ",
		DisID:           strings.TrimSpace(row[c.Branch]),
		InvoiceDate:     date,
		InvoiceNo:       strings.TrimSpace(row[c.InvoiceNo]),
		ItemCode:        strings.TrimSpace(row[c.Product]),
		Quantity:        qty,
		OutletCode:      strings.TrimSpace(row[c.CustomerGroup]) + strings.TrimSpace(row[c.Customer]),
		Value:           value,
		NetValue:        value,
		DiscDistributor: decimal.Zero,
	}, nil
}
