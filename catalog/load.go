/*
YAML registry loading.

Lets deployments track a different indicator set without a rebuild. The
file mirrors the Registry shape:

  sections:
    - name: LABOR MARKET
      indicators:
        - id: UNRATE
          name: Unemployment Rate
          description: Share of the labor force without work.
          unit: percent
          format: percentage
  priority:
    - UNRATE

Omitting the priority list keeps the built-in headline series.
*/
package catalog

import (
	"fmt"
	"os"

	"github.com/macroview/indicator-engine/series"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

type registryYAML struct {
	Sections []sectionYAML `yaml:"sections"`
	Priority []string      `yaml:"priority,omitempty"`
}

type sectionYAML struct {
	Name       string          `yaml:"name"`
	Indicators []indicatorYAML `yaml:"indicators"`
}

type indicatorYAML struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Unit        string `yaml:"unit,omitempty"`
	Format      string `yaml:"format"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads an indicator registry from a YAML file.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse builds a registry from YAML bytes.
func Parse(raw []byte) (*Registry, error) {
	var doc registryYAML
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("catalog: no sections defined")
	}

	sections := make([]Section, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		s := Section{Name: sec.Name}
		for _, ind := range sec.Indicators {
			format, err := series.ParseFormat(ind.Format)
			if err != nil {
				return nil, fmt.Errorf("catalog: indicator %q: %w", ind.ID, err)
			}
			s.Indicators = append(s.Indicators, Indicator{
				ID:          ind.ID,
				Name:        ind.Name,
				Description: ind.Description,
				Unit:        ind.Unit,
				Format:      format,
			})
		}
		sections = append(sections, s)
	}

	priority := doc.Priority
	if priority == nil {
		priority = defaultPriority
	}
	return New(sections, priority)
}
