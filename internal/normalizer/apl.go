package normalizer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/salesync/internal/types"
)

// aplColumns maps canonical fields to APL CSV column names.
var aplColumns = struct {
	Plant, BillingDate, InvoiceNo, Material, Quantity, Customer string
	SellingPrice, NetValue, TransactionValue, PONumber, Batch  string
}{
	Plant:            "Plant",
	BillingDate:      "Billing Date",
	InvoiceNo:        "Invoice No",
	Material:         "Material Code",
	Quantity:         "Qty - Transaction",
	Customer:         "Sold To Customer Code",
	SellingPrice:     "Selling Price",
	NetValue:         "ID Net Value Principal - Transaction",
	TransactionValue: "Value - Transaction",
	PONumber:         "Customer PO No",
	Batch:            "Batch No",
}

// APL normalizes the APL delimited-text extract. The distributor-site
// identity is "APL-" plus the abbreviation of the city named at the end of
// the Plant column.
type APL struct {
	cities map[string]string
}

// NewAPL builds the APL normalizer around the city table.
func NewAPL(tables Tables) *APL {
	return &APL{cities: tables.CityAbbreviations}
}

func (n *APL) Distributor() string { return "APL" }

func (n *APL) RequiredColumns() []string {
	c := aplColumns
	return columnList(c.Plant, c.BillingDate, c.InvoiceNo, c.Material, c.Quantity, c.Customer,
		c.SellingPrice, c.NetValue, c.TransactionValue, c.PONumber, c.Batch)
}

// SiteFor maps a Plant value to the distributor-site identity.
func (n *APL) SiteFor(plant string) (string, error) {
	city := LastWord(plant)
	abbr, ok := n.cities[city]
	if !ok {
		return "", fmt.Errorf("%w: area %q not found", types.ErrUnrecognizedArea, city)
	}
	return "APL-" + abbr, nil
}

func (n *APL) Normalize(row types.Row) (types.Transaction, error) {
	c := aplColumns

	billing := strings.TrimSpace(row[c.BillingDate])
	if billing == "" {
		return types.Transaction{}, skip("missing billing date", nil)
	}
	date, err := ParseDate(billing)
	if err != nil {
		return types.Transaction{}, skip("invalid billing date", err)
	}

	site, err := n.SiteFor(row[c.Plant])
	if err != nil {
		return types.Transaction{}, skip("unrecognized area", err)
	}

	qty, err := ParseAmount(row[c.Quantity])
	if err != nil {
		return types.Transaction{}, skip("invalid quantity", err)
	}
	value, err := ParseAmount(row[c.SellingPrice])
	if err != nil {
		return types.Transaction{}, skip("invalid selling price", err)
	}
	net, err := ParseAmount(row[c.NetValue])
	if err != nil {
		return types.Transaction{}, skip("invalid net value", err)
	}
	trxValue, err := ParseAmount(row[c.TransactionValue])
	if err != nil {
		return types.Transaction{}, skip("invalid transaction value", err)
	}

	return types.Transaction{
		Dist:            site,
		DisID:           FirstDigits(row[c.Plant]),
		InvoiceDate:     date,
		InvoiceNo:       strings.TrimSpace(row[c.InvoiceNo]),
		ItemCode:        strings.TrimSpace(row[c.Material]),
		Quantity:        qty,
		OutletCode:      StripLeadingZeros(row[c.Customer]),
		Value:           value,
		NetValue:        net,
		PONumber:        strings.TrimSpace(row[c.PONumber]),
		BatchNumber:     strings.TrimSpace(row[c.Batch]),
		DiscDistributor: discountPercent(value, trxValue),
	}, nil
}

// discountPercent is (gross - discounted) / gross * 100, zero when gross is zero.
func discountPercent(gross, discounted decimal.Decimal) decimal.Decimal {
	if gross.IsZero() {
		return decimal.Zero
	}
	return gross.Sub(discounted).Div(gross).Mul(decimal.NewFromInt(100))
}
