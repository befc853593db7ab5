package filters

import (
	"sync"

	"github.com/civicdesk/complaint-dashboard/models"
)

// Applier receives the applied filter set, the complaint store implements it.
// SetFilters records the set of the request about to be made.
type Applier interface {
	SetFilters(Set)
	SetAppliedFilters(Set)
	ClearFilters()
}

// Labeler resolves problem-type codes to display names
type Labeler interface {
	Label(code string) string
}

// Chip is one applied filter rendered as a removable tag
type Chip struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Controller tracks the staged filter form and decides when its values become
// applied. Applying requires an explicit Apply while removing a single filter
// takes effect immediately.
type Controller struct {
	mu      sync.Mutex
	staged  Set
	applier Applier
}

// NewController returns a controller with an empty form
func NewController(applier Applier) *Controller {
	return &Controller{staged: Blank(), applier: applier}
}

// Stage sets one form field without applying it
func (c *Controller) Stage(key, value string) bool {
	if !IsKnown(key) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staged[key] = value
	return true
}

// StageAll sets several form fields, unknown keys are ignored
func (c *Controller) StageAll(values map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range values {
		if IsKnown(k) {
			c.staged[k] = v
		}
	}
}

// Staged returns a copy of the form state
func (c *Controller) Staged() Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staged.Clone()
}

// Apply hands the non-empty staged values to the applier and returns them.
// The applier resets the page to 1.
func (c *Controller) Apply() Set {
	c.mu.Lock()
	applied := c.staged.Compact()
	c.mu.Unlock()

	c.applier.SetFilters(applied)
	c.applier.SetAppliedFilters(applied)
	return applied
}

// Remove clears a single filter and applies the remaining staged values
// straight away, without waiting for Apply
func (c *Controller) Remove(key string) Set {
	c.mu.Lock()
	if IsKnown(key) {
		c.staged[key] = ""
	}
	applied := c.staged.Compact()
	c.mu.Unlock()

	c.applier.SetFilters(applied)
	c.applier.SetAppliedFilters(applied)
	return applied
}

// Reset empties the form and the applied filters
func (c *Controller) Reset() {
	c.mu.Lock()
	c.staged = Blank()
	c.mu.Unlock()

	c.applier.ClearFilters()
}

// Chips renders applied filters as tags in form order
func Chips(applied Set, problems Labeler) []Chip {
	chips := []Chip{}
	for _, k := range Keys {
		v, ok := applied[k]
		if !ok || v == "" {
			continue
		}
		chips = append(chips, Chip{Key: k, Label: Label(k), Value: displayValue(k, v, problems)})
	}
	return chips
}

func displayValue(key, value string, problems Labeler) string {
	switch key {
	case IsAssigned:
		if value == "true" {
			return "Assigned"
		}
		return "Unassigned"
	case Status:
		return models.StatusText(value)
	case StrCode:
		if problems != nil {
			return problems.Label(value)
		}
	}
	return value
}
