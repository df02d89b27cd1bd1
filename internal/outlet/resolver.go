// =============================================================================
// Sales Sync - Outlet Resolver
// =============================================================================
//
// The resolver decides, transaction by transaction, whether the outlet a sale
// points at must be added to the outlet registry.
//
// INPUTS (loaded once per ingestion run):
//   - details : outlet-detail companion file, keyed by stripped outlet code
//   - existing: outlet codes already in the registry for the distributor
//
// RULES:
//   - code in existing or already staged     -> Known
//   - code in details, not yet in registry   -> Staged (exactly once per run)
//   - code absent from details               -> NoDetail; the sale still
//                                               persists, no outlet row is made
//
// A Resolver is run-scoped state. It is not safe for concurrent use and must
// never be shared between sources.
//
// =============================================================================

package outlet

import (
	"sort"

	"github.com/ginjaninja78/salesync/internal/normalizer"
	"github.com/ginjaninja78/salesync/internal/types"
)

// Resolution is the outcome of resolving one transaction's outlet.
type Resolution int

const (
	// Known means the outlet exists or was already staged in this run.
	Known Resolution = iota
	// Staged means a new outlet row was staged by this call.
	Staged
	// NoDetail means the outlet is unknown and cannot be created.
	NoDetail
)

func (r Resolution) String() string {
	switch r {
	case Known:
		return "known"
	case Staged:
		return "staged"
	default:
		return "no_detail"
	}
}

// Resolver stages outlet inserts for one ingestion run.
type Resolver struct {
	details     map[string]Detail
	existing    map[string]struct{}
	outletTypes map[string]string

	staged   map[string]struct{}
	rows     []types.Outlet
	noDetail map[string]struct{}
}

// NewResolver builds a resolver. details may be nil when the source has no
// companion file; every unknown outlet then resolves to NoDetail.
func NewResolver(details map[string]Detail, existing map[string]struct{}, outletTypes map[string]string) *Resolver {
	if existing == nil {
		existing = map[string]struct{}{}
	}
	return &Resolver{
		details:     details,
		existing:    existing,
		outletTypes: outletTypes,
		staged:      make(map[string]struct{}),
		noDetail:    make(map[string]struct{}),
	}
}

// Resolve checks the outlet referenced by t and stages it when needed.
func (r *Resolver) Resolve(t types.Transaction) Resolution {
	code := t.OutletCode
	if _, ok := r.existing[code]; ok {
		return Known
	}
	if _, ok := r.staged[code]; ok {
		return Known
	}

	detail, ok := r.details[code]
	if !ok {
		r.noDetail[code] = struct{}{}
		return NoDetail
	}

	r.staged[code] = struct{}{}
	r.rows = append(r.rows, types.Outlet{
		Code:        code,
		Distributor: t.Dist,
		DisID:       t.DisID,
		Name:        detail.Name,
		Address:     detail.Address,
		City:        normalizer.StripCityPrefix(detail.City),
		PostalCode:  detail.PostalCode,
		District:    detail.District,
		Type:        r.outletTypes[detail.Group],
	})
	return Staged
}

// Staged returns the outlet rows staged so far, in first-seen order.
func (r *Resolver) Staged() []types.Outlet {
	return r.rows
}

// MissingDetail returns the unknown outlet codes that had no detail entry,
// sorted. These are kept for manual review.
func (r *Resolver) MissingDetail() []string {
	out := make([]string, 0, len(r.noDetail))
	for code := range r.noDetail {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
