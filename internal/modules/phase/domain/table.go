package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed phases.yaml
var defaultTableYAML []byte

type tableDoc struct {
	Phases []phaseDoc `yaml:"phases"`
}

type phaseDoc struct {
	ID          string  `yaml:"id"`
	Hours       float64 `yaml:"hours"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Citation    string  `yaml:"citation"`
}

// DefaultTable parses and validates the embedded phase table.
func DefaultTable() (Table, error) {
	return ParseTable(defaultTableYAML)
}

func ParseTable(payload []byte) (Table, error) {
	doc := tableDoc{}
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return Table{}, fmt.Errorf("decode phase table: %w", err)
	}
	phases := make([]Phase, 0, len(doc.Phases))
	for _, entry := range doc.Phases {
		phases = append(phases, Phase{
			ID:          ID(entry.ID),
			Hours:       entry.Hours,
			Title:       entry.Title,
			Description: entry.Description,
			Citation:    entry.Citation,
		})
	}
	return NewTable(phases)
}
