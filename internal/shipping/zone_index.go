package shipping

import (
	"github.com/google/btree"

	"github.com/lymstore/storefront/internal/domain"
)

// ZoneIndex resolves postal codes against a set of zones. Zones are ordered by
// range start so a lookup only walks the zones that start at or before the code.
// When several zones contain a code the narrowest range wins, then the lowest id.
type ZoneIndex struct {
	tree *btree.BTreeG[domain.ShippingZone]
}

func zoneLess(a, b domain.ShippingZone) bool {
	if a.PostalCodeStart != b.PostalCodeStart {
		return a.PostalCodeStart < b.PostalCodeStart
	}
	return a.ID < b.ID
}

// NewZoneIndex builds an index over the active zones of zones.
func NewZoneIndex(zones []domain.ShippingZone) *ZoneIndex {
	idx := &ZoneIndex{tree: btree.NewG[domain.ShippingZone](8, zoneLess)}
	for _, z := range zones {
		if !z.Active || z.PostalCodeEnd < z.PostalCodeStart {
			continue
		}
		idx.tree.ReplaceOrInsert(z)
	}
	return idx
}

func (idx *ZoneIndex) Len() int {
	return idx.tree.Len()
}

// Lookup returns the zone serving code.
func (idx *ZoneIndex) Lookup(code int) (domain.ShippingZone, bool) {
	var (
		best  domain.ShippingZone
		found bool
	)
	// pivot sorts after every zone starting at code
	pivot := domain.ShippingZone{PostalCodeStart: code, ID: int64(^uint64(0) >> 1)}
	idx.tree.DescendLessOrEqual(pivot, func(z domain.ShippingZone) bool {
		if !z.Contains(code) {
			return true
		}
		if !found || z.Width() < best.Width() || (z.Width() == best.Width() && z.ID < best.ID) {
			best = z
			found = true
		}
		return true
	})
	return best, found
}
