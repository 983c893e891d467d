// Package benefits manages the set of named benefit entries attached to
// one regime of a simulation draft. Every operation is a pure
// transformation: callers get a fresh collection and the input is never
// mutated.
package benefits

import (
	"strings"

	"github.com/cltpj/cltpj/internal/model"
	"github.com/cltpj/cltpj/internal/money"
)

// CustomIndicator is the display-level option that stands for "a custom
// benefit". It is only ever a selection label; it never becomes an entry
// name.
const CustomIndicator = "Outro"

// StandardNames is the fixed set of predefined benefit options. Any entry
// whose name is not in this set is a custom entry.
var StandardNames = []string{
	"VT",
	"VR",
	"VA",
	"Plano de Saúde",
	"Plano Odontológico",
	"Seguro de Vida",
	"Auxílio Educação",
	"Gympass",
}

// IsStandard reports whether name belongs to the predefined option set.
func IsStandard(name string) bool {
	for _, s := range StandardNames {
		if s == name {
			return true
		}
	}
	return false
}

// SelectedNames returns the display-level view of which options are
// active: the standard names present in the collection, plus the custom
// indicator when any custom entry (concrete or pending) exists.
func SelectedNames(c model.BenefitCollection) map[string]bool {
	selected := make(map[string]bool)
	for _, e := range c.Entries {
		if IsStandard(e.Name) {
			selected[e.Name] = true
		} else {
			selected[CustomIndicator] = true
		}
	}
	if c.Pending != nil {
		selected[CustomIndicator] = true
	}
	return selected
}

// ApplySelection reconciles an updated multi-select against the
// collection. Standard names that remain chosen keep their amounts, newly
// chosen ones start at zero, and deselected ones are dropped. Custom
// entries already present are always preserved; choosing the custom
// indicator ensures a single pending entry exists, deselecting it drops
// the pending entry but not concrete custom entries.
func ApplySelection(c model.BenefitCollection, chosenNames []string) model.BenefitCollection {
	chosen := make(map[string]bool, len(chosenNames))
	for _, n := range chosenNames {
		chosen[n] = true
	}

	out := model.BenefitCollection{}

	for _, e := range c.Entries {
		if !IsStandard(e.Name) || chosen[e.Name] {
			out.Entries = append(out.Entries, e)
		}
	}

	for _, n := range chosenNames {
		if !IsStandard(n) {
			continue
		}
		if _, ok := out.Get(n); !ok {
			out.Entries = append(out.Entries, model.BenefitEntry{Name: n, Amount: 0})
		}
	}

	if chosen[CustomIndicator] {
		if c.Pending != nil {
			pending := *c.Pending
			out.Pending = &pending
		} else {
			out.Pending = &model.PendingBenefit{}
		}
	}

	return out
}

// AddCustom upserts a custom entry by name. It returns the collection
// unchanged when the name is blank after trimming or the amount does not
// parse to a positive value. A pending placeholder, if any, is consumed:
// adding a named custom entry is how the placeholder resolves.
func AddCustom(c model.BenefitCollection, name, amountRaw string) model.BenefitCollection {
	name = strings.TrimSpace(name)
	if name == "" || name == CustomIndicator || !money.IsPositive(amountRaw) {
		return c
	}

	out := upsert(c, model.BenefitEntry{Name: name, Amount: money.ParseTyped(amountRaw)})
	out.Pending = nil
	return out
}

// UpdateAmount reformats and stores the amount for an existing entry.
// Absent names are a no-op.
func UpdateAmount(c model.BenefitCollection, name, amountRaw string) model.BenefitCollection {
	if _, ok := c.Get(name); !ok {
		return c
	}
	return upsert(c, model.BenefitEntry{Name: name, Amount: money.ParseTyped(amountRaw)})
}

// Remove drops the entry with the given name, if present.
func Remove(c model.BenefitCollection, name string) model.BenefitCollection {
	out := model.BenefitCollection{Pending: clonePending(c.Pending)}
	for _, e := range c.Entries {
		if e.Name != name {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}

// DropPending discards a half-authored custom entry.
func DropPending(c model.BenefitCollection) model.BenefitCollection {
	out := model.BenefitCollection{Entries: cloneEntries(c.Entries)}
	return out
}

// SetPendingAmount records the amount being typed for the pending custom
// entry, creating the pending state if needed.
func SetPendingAmount(c model.BenefitCollection, amountRaw string) model.BenefitCollection {
	out := model.BenefitCollection{
		Entries: cloneEntries(c.Entries),
		Pending: &model.PendingBenefit{AmountRaw: amountRaw},
	}
	return out
}

// ResolvePending promotes the pending custom entry into a named one. It
// fails silently, keeping the pending state, when the name is unusable.
func ResolvePending(c model.BenefitCollection, name string) model.BenefitCollection {
	if c.Pending == nil {
		return c
	}
	return AddCustom(c, name, c.Pending.AmountRaw)
}

func upsert(c model.BenefitCollection, entry model.BenefitEntry) model.BenefitCollection {
	out := model.BenefitCollection{Pending: clonePending(c.Pending)}
	replaced := false
	for _, e := range c.Entries {
		if e.Name == entry.Name {
			out.Entries = append(out.Entries, entry)
			replaced = true
			continue
		}
		out.Entries = append(out.Entries, e)
	}
	if !replaced {
		out.Entries = append(out.Entries, entry)
	}
	return out
}

func cloneEntries(entries []model.BenefitEntry) []model.BenefitEntry {
	if entries == nil {
		return nil
	}
	out := make([]model.BenefitEntry, len(entries))
	copy(out, entries)
	return out
}

func clonePending(p *model.PendingBenefit) *model.PendingBenefit {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
