package outlet

import (
	"fmt"

	"github.com/ginjaninja78/salesync/internal/csvparser"
	"github.com/ginjaninja78/salesync/internal/normalizer"
	"github.com/ginjaninja78/salesync/internal/types"
	"github.com/ginjaninja78/salesync/internal/validation"
)

// Detail is one entry of the outlet-detail companion file.
type Detail struct {
	Name        string
	City        string
	Address     string
	District    string
	PostalCode  string
	PONumber    string
	BatchNumber string

	// Group is the customer group code, mapped through the outlet type table.
	Group string
}

var detailColumns = struct {
	Code, Name, City, Address, District, PostalCode, PONumber, Batch, Group string
}{
	Code:       "Customer - Sold To Customer Code",
	Name:       "Sold To Customer Name",
	City:       "Sold To City",
	Address:    "Location - Sold To Customer Address 1",
	District:   "Sold To District",
	PostalCode: "Location - Sold To Post Code",
	PONumber:   "Customer PO No",
	Batch:      "Batch No",
	Group:      "Customer SA Group",
}

// LoadDetails reads the companion CSV into a map keyed by stripped code.
func LoadDetails(path string) (map[string]Detail, error) {
	table, err := csvparser.Parse(path)
	if err != nil {
		return nil, err
	}
	return DetailsFromTable(table)
}

// DetailsFromTable builds the detail map from an already decoded table. Like
// the sales extracts, the first and last rows are sentinels. A later entry
// for the same code replaces an earlier one.
func DetailsFromTable(table *types.Table) (map[string]Detail, error) {
	c := detailColumns
	required := []string{c.Code, c.Name, c.City, c.Address, c.District, c.PostalCode, c.Group}
	if err := validation.RequireColumns(table.Headers, required); err != nil {
		return nil, fmt.Errorf("outlet details: %w", err)
	}

	details := make(map[string]Detail)
	for i := 1; i < len(table.Rows)-1; i++ {
		row := table.Rows[i]
		code := normalizer.StripLeadingZeros(row[c.Code])
		if code == "" {
			continue
		}
		details[code] = Detail{
			Name:        row[c.Name],
			City:        row[c.City],
			Address:     row[c.Address],
			District:    row[c.District],
			PostalCode:  row[c.PostalCode],
			PONumber:    row[c.PONumber],
			BatchNumber: row[c.Batch],
			Group:       row[c.Group],
		}
	}

	return details, nil
}
