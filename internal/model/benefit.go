package model

// BenefitEntry is a named, valued perquisite attached to one regime of a
// draft. The name is the identity: a collection never holds two entries
// with the same name.
type BenefitEntry struct {
	Name   string
	Amount CurrencyAmount
}

// PendingBenefit represents a custom benefit whose name the user has not
// typed yet. It is deliberately a separate state on the collection rather
// than a reserved name inside Entries, so readers of the entry set never
// have to special-case a sentinel.
type PendingBenefit struct {
	AmountRaw string
}

// BenefitCollection is the set of benefits for one regime of one draft.
// Order carries no meaning. Mutation happens only through the benefits
// package, which returns fresh collections.
type BenefitCollection struct {
	Pending *PendingBenefit
	Entries []BenefitEntry
}

// Get returns the entry with the given name, if present.
func (c BenefitCollection) Get(name string) (BenefitEntry, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return BenefitEntry{}, false
}

// Resolved reports whether the collection is ready for request assembly,
// i.e. it has no half-authored custom entry.
func (c BenefitCollection) Resolved() bool {
	return c.Pending == nil
}

// Len returns the number of concrete entries.
func (c BenefitCollection) Len() int {
	return len(c.Entries)
}
