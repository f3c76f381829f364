package rules

import (
	"go-chatmod/internal/errs"
	"go-chatmod/internal/trigger"
)

// Index holds one guild's rules, addressable by name and by trigger
// type. Registration order is preserved per trigger type so rules fire
// in the order they were configured.
type Index struct {
	byName    map[string]*Rule
	byTrigger map[trigger.Type][]*Rule
	order     []*Rule
}

func NewIndex() *Index {
	return &Index{
		byName:    make(map[string]*Rule),
		byTrigger: make(map[trigger.Type][]*Rule),
	}
}

func (idx *Index) Add(r *Rule) error {
	if _, exists := idx.byName[r.Name]; exists {
		return errs.Config("duplicate rule name %q", r.Name)
	}
	idx.byName[r.Name] = r
	idx.byTrigger[r.Trigger] = append(idx.byTrigger[r.Trigger], r)
	idx.order = append(idx.order, r)
	return nil
}

func (idx *Index) Get(name string) (*Rule, bool) {
	r, ok := idx.byName[name]
	return r, ok
}

// ForTrigger returns the rules bound to a trigger type in registration
// order. The returned slice must not be mutated.
func (idx *Index) ForTrigger(t trigger.Type) []*Rule {
	return idx.byTrigger[t]
}

// All returns every rule in registration order.
func (idx *Index) All() []*Rule {
	return idx.order
}

func (idx *Index) Len() int {
	return len(idx.order)
}
