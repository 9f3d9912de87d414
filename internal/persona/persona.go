// Package persona supplies flavour for autonomous seats: a personality pack
// loaded from YAML and the display names of the AI players.
package persona

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lorenzotomasdiez/werewolf/internal/game"
)

//go:embed personas.yaml
var defaultPack []byte

const defaultBias = 0.6

// Persona is a named personality with a speaking style.
type Persona struct {
	Name   string `yaml:"name"`
	Style  string `yaml:"style"`
	Prefer string `yaml:"prefer,omitempty"`
}

// Text is the persona as handed to a strategy prompt.
func (p Persona) Text() string {
	return p.Name + ": " + p.Style
}

// Pack is a parsed persona file.
type Pack struct {
	Bias     *float64  `yaml:"bias"`
	Personas []Persona `yaml:"personas"`
}

// Default returns the embedded pack.
func Default() Pack {
	pack, err := Parse(defaultPack)
	if err != nil {
		panic(fmt.Sprintf("persona: embedded pack: %v", err))
	}
	return pack
}

// Load reads a pack from a YAML file.
func Load(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("persona: read %s: %w", path, err)
	}
	pack, err := Parse(data)
	if err != nil {
		return Pack{}, fmt.Errorf("persona: %s: %w", path, err)
	}
	return pack, nil
}

// Parse decodes and validates a pack.
func Parse(data []byte) (Pack, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Pack{}, fmt.Errorf("persona: pack is empty")
	}
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return Pack{}, fmt.Errorf("persona: decode pack: %w", err)
	}
	if len(pack.Personas) == 0 {
		return Pack{}, fmt.Errorf("persona: pack has no personas")
	}
	for i, p := range pack.Personas {
		if strings.TrimSpace(p.Name) == "" {
			return Pack{}, fmt.Errorf("persona: entry %d has no name", i)
		}
		if p.Prefer != "" {
			var a game.Alignment
			if err := a.UnmarshalText([]byte(p.Prefer)); err != nil {
				return Pack{}, fmt.Errorf("persona: %s: %w", p.Name, err)
			}
		}
	}
	if pack.Bias != nil && (*pack.Bias < 0 || *pack.Bias > 1) {
		return Pack{}, fmt.Errorf("persona: bias %v out of [0, 1]", *pack.Bias)
	}
	return pack, nil
}

// Pool picks personas for seats. It implements game.PersonaSource.
type Pool struct {
	pack Pack
	bias float64
	rng  *game.Rand
}

// NewPool creates a Pool over pack drawing from rng.
func NewPool(pack Pack, rng *game.Rand) *Pool {
	bias := defaultBias
	if pack.Bias != nil {
		bias = *pack.Bias
	}
	return &Pool{pack: pack, bias: bias, rng: rng}
}

// Pick returns a persona text for an alignment. Most of the time it draws
// from the personas preferring that alignment, otherwise from the whole pack.
func (p *Pool) Pick(a game.Alignment) string {
	if len(p.pack.Personas) == 0 {
		return ""
	}
	var preferred []Persona
	for _, ps := range p.pack.Personas {
		if ps.Prefer == a.String() {
			preferred = append(preferred, ps)
		}
	}
	if len(preferred) > 0 && p.rng.Float64() < p.bias {
		return preferred[p.rng.IntN(len(preferred))].Text()
	}
	return p.pack.Personas[p.rng.IntN(len(p.pack.Personas))].Text()
}
