/*
Package catalog defines the set of tracked economic indicators.

PURPOSE:
  Holds the indicator registry: which FRED series the engine tracks, how
  they are grouped into dashboard sections, and how each value should be
  rendered. The registry is the single source of truth consulted by the
  sync service, the health analyzer, and the API layer.

STRUCTURE:
  Registry
    Section "LABOR MARKET"
      Indicator UNRATE (percent, percentage)
      Indicator PAYEMS (thousands, number)
      ...
    Section "INFLATION"
      ...

  Section order and indicator order within a section are preserved from
  the definition, so dashboards render deterministically.

PRIORITY SERIES:
  A small subset of headline series (unemployment, CPI, GDP, ...) is
  flagged as priority. The recent-updates feed sorts these ahead of
  other series with the same recency.

USAGE:
  reg := catalog.Default()
  ind, ok := reg.Indicator("UNRATE")
  sec, ok := reg.Section("LABOR MARKET")

  // Or load a custom registry from YAML:
  reg, err := catalog.Load("indicators.yaml")

SEE ALSO:
  - load.go: YAML registry loading
  - series/format.go: value rendering driven by Indicator.Format
*/
package catalog

import (
	"fmt"

	"github.com/macroview/indicator-engine/series"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// Indicator describes a single tracked FRED series.
type Indicator struct {
	ID          string        // FRED series identifier, e.g. "UNRATE"
	Name        string        // Human-readable name for dashboards
	Description string        // One-sentence explanation of the series
	Unit        string        // FRED unit label, e.g. "percent", "thousands"
	Format      series.Format // Rendering style for values
}

// Section groups related indicators under a dashboard heading.
type Section struct {
	Name       string
	Indicators []Indicator
}

// Registry is an immutable, ordered indicator catalog with fast ID lookup.
type Registry struct {
	sections  []Section
	byID      map[string]Indicator
	sectionOf map[string]string
	priority  map[string]bool
	order     []string // all IDs in catalog order
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

// New builds a registry from sections, validating IDs and formats.
// Priority IDs not present in any section are dropped silently.
func New(sections []Section, priority []string) (*Registry, error) {
	r := &Registry{
		sections:  sections,
		byID:      make(map[string]Indicator),
		sectionOf: make(map[string]string),
		priority:  make(map[string]bool),
	}

	for _, sec := range sections {
		if sec.Name == "" {
			return nil, fmt.Errorf("catalog: section with empty name")
		}
		if len(sec.Indicators) == 0 {
			return nil, fmt.Errorf("catalog: section %q has no indicators", sec.Name)
		}
		for _, ind := range sec.Indicators {
			if ind.ID == "" {
				return nil, fmt.Errorf("catalog: indicator with empty ID in section %q", sec.Name)
			}
			if _, dup := r.byID[ind.ID]; dup {
				return nil, fmt.Errorf("catalog: duplicate indicator %q", ind.ID)
			}
			switch ind.Format {
			case series.FormatPercentage, series.FormatNumber, series.FormatCurrency:
			default:
				return nil, fmt.Errorf("catalog: indicator %q has unknown format %q", ind.ID, ind.Format)
			}
			r.byID[ind.ID] = ind
			r.sectionOf[ind.ID] = sec.Name
			r.order = append(r.order, ind.ID)
		}
	}

	for _, id := range priority {
		if _, ok := r.byID[id]; ok {
			r.priority[id] = true
		}
	}
	return r, nil
}

// =============================================================================
// LOOKUPS
// =============================================================================

// Sections returns all sections in catalog order.
func (r *Registry) Sections() []Section {
	return r.sections
}

// SectionNames returns the section headings in catalog order.
func (r *Registry) SectionNames() []string {
	names := make([]string, len(r.sections))
	for i, sec := range r.sections {
		names[i] = sec.Name
	}
	return names
}

// Section returns the section with the exact given name.
func (r *Registry) Section(name string) (Section, bool) {
	for _, sec := range r.sections {
		if sec.Name == name {
			return sec, true
		}
	}
	return Section{}, false
}

// Indicator returns the indicator with the given series ID.
func (r *Registry) Indicator(id string) (Indicator, bool) {
	ind, ok := r.byID[id]
	return ind, ok
}

// SectionFor returns the section heading an indicator belongs to.
func (r *Registry) SectionFor(id string) (string, bool) {
	name, ok := r.sectionOf[id]
	return name, ok
}

// IDs returns every series ID in catalog order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of indicators in the registry.
func (r *Registry) Len() int {
	return len(r.order)
}

// IsPriority reports whether a series is a headline series.
func (r *Registry) IsPriority(id string) bool {
	return r.priority[id]
}

// PrioritySeries returns the headline series IDs in catalog order.
func (r *Registry) PrioritySeries() []string {
	var out []string
	for _, id := range r.order {
		if r.priority[id] {
			out = append(out, id)
		}
	}
	return out
}
