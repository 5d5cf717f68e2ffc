package prompts

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Count is the number of reflection prompts.
const Count = 7

//go:embed prompts.yaml
var promptsYAML []byte

type entry struct {
	Arabic  string `yaml:"ar"`
	English string `yaml:"en"`
}

type document struct {
	Prompts []entry `yaml:"prompts"`
}

var table = mustParseTable(promptsYAML)

func parseTable(raw []byte) ([]entry, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse prompt table: %w", err)
	}
	if len(doc.Prompts) != Count {
		return nil, fmt.Errorf("prompt table has %d entries, want %d", len(doc.Prompts), Count)
	}
	for i, p := range doc.Prompts {
		if strings.TrimSpace(p.Arabic) == "" || strings.TrimSpace(p.English) == "" {
			return nil, fmt.Errorf("prompt %d is missing a translation", i)
		}
	}
	return doc.Prompts, nil
}

func mustParseTable(raw []byte) []entry {
	entries, err := parseTable(raw)
	if err != nil {
		panic(err)
	}
	return entries
}
