// Package dedup holds the two-tier duplicate check applied before persistence.
//
// Tier one is the set of keys already persisted for the invoices in the
// batch, loaded with a single bulk query. Tier two is the set of keys the
// gate has admitted earlier in the same run. A key found in either tier is
// rejected silently.
package dedup

import "github.com/ginjaninja78/salesync/internal/types"

// Gate is run-scoped and not safe for concurrent use.
type Gate struct {
	existing map[types.SaleKey]struct{}
	accepted map[types.SaleKey]struct{}

	rejectedExisting int
	rejectedInBatch  int
}

// NewGate seeds the gate with the keys already persisted.
func NewGate(existing map[types.SaleKey]struct{}) *Gate {
	if existing == nil {
		existing = map[types.SaleKey]struct{}{}
	}
	return &Gate{
		existing: existing,
		accepted: make(map[types.SaleKey]struct{}),
	}
}

// Admit reports whether key is new, and records it when it is.
func (g *Gate) Admit(key types.SaleKey) bool {
	if _, ok := g.existing[key]; ok {
		g.rejectedExisting++
		return false
	}
	if _, ok := g.accepted[key]; ok {
		g.rejectedInBatch++
		return false
	}
	g.accepted[key] = struct{}{}
	return true
}

// Stats returns how many keys were admitted and rejected per tier.
func (g *Gate) Stats() (admitted, rejectedExisting, rejectedInBatch int) {
	return len(g.accepted), g.rejectedExisting, g.rejectedInBatch
}
