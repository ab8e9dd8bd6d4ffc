// Package labels is the read-only list of class labels a shape can carry,
// each with its display colour.
package labels

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is used for labels the registry does not know.
const DefaultColor = "#ff0000"

var ErrInvalidColor = errors.New("invalid colour")

type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Registry is safe for concurrent reads; it is never mutated after New.
type Registry struct {
	labels []Label
	byName map[string]int
}

// New builds a registry. Colours are normalized to lowercase #rrggbb;
// labels without a colour get one spread evenly around the hue circle.
// Later duplicates of a name are ignored.
func New(labels []Label) (*Registry, error) {
	r := &Registry{byName: make(map[string]int, len(labels))}
	for i, l := range labels {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		if _, dup := r.byName[name]; dup {
			continue
		}

		color := paletteColor(i, len(labels))
		if l.Color != "" {
			c, err := NormalizeColor(l.Color)
			if err != nil {
				return nil, fmt.Errorf("label %q: %w", name, err)
			}
			color = c
		}
		r.byName[name] = len(r.labels)
		r.labels = append(r.labels, Label{Name: name, Color: color})
	}
	return r, nil
}

// Labels returns the labels in registration order.
func (r *Registry) Labels() []Label {
	if r == nil {
		return nil
	}
	return append([]Label(nil), r.labels...)
}

// Lookup finds a label by name.
func (r *Registry) Lookup(name string) (Label, bool) {
	if r == nil {
		return Label{}, false
	}
	i, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return Label{}, false
	}
	return r.labels[i], true
}

// ColorFor returns the colour of name, or DefaultColor when it is not
// registered.
func (r *Registry) ColorFor(name string) string {
	if l, ok := r.Lookup(name); ok {
		return l.Color
	}
	return DefaultColor
}

// NormalizeColor parses a #rgb or #rrggbb colour and returns it as
// lowercase #rrggbb.
func NormalizeColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c.Hex(), nil
}

func paletteColor(i, n int) string {
	if n <= 0 {
		n = 1
	}
	return colorful.Hcl(360*float64(i)/float64(n), 0.6, 0.65).Clamped().Hex()
}

// ParseSpecs parses entries of the form "name" or "name=#rrggbb".
func ParseSpecs(specs []string) ([]Label, error) {
	var out []Label
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		name, color, _ := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("label spec %q: empty name", spec)
		}
		out = append(out, Label{Name: name, Color: strings.TrimSpace(color)})
	}
	return out, nil
}
