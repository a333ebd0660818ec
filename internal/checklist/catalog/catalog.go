// Package catalog owns the two fixed day templates and the item-key
// normalization rule shared by the progression engine and the command
// interpreter.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/examops/checkbot/internal/checklist/domain"
)

//go:embed templates.yaml
var templatesYAML []byte

type templatesDoc struct {
	Day1 []string `yaml:"day1"`
	Day2 []string `yaml:"day2"`
}

// Catalog holds the immutable ordered item templates for both days.
type Catalog struct {
	templates map[domain.Day][]string
	positions map[domain.Day]map[string]int
}

// Load parses the embedded templates and validates both day lists.
func Load() (*Catalog, error) {
	return load(templatesYAML)
}

func load(raw []byte) (*Catalog, error) {
	var doc templatesDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse checklist templates: %w", err)
	}

	c := &Catalog{
		templates: make(map[domain.Day][]string, 2),
		positions: make(map[domain.Day]map[string]int, 2),
	}
	for day, items := range map[domain.Day][]string{domain.Day1: doc.Day1, domain.Day2: doc.Day2} {
		if len(items) == 0 {
			return nil, fmt.Errorf("checklist template for day %d is empty", day)
		}
		positions := make(map[string]int, len(items))
		keys := make([]string, 0, len(items))
		for i, item := range items {
			key := NormalizeKey(item)
			if key == "" {
				return nil, fmt.Errorf("checklist template for day %d has a blank item at position %d", day, i)
			}
			if key != item {
				return nil, fmt.Errorf("checklist template item %q for day %d is not in canonical key form", item, day)
			}
			if _, seen := positions[key]; seen {
				return nil, fmt.Errorf("checklist template for day %d repeats item %q", day, key)
			}
			positions[key] = i
			keys = append(keys, key)
		}
		c.templates[day] = keys
		c.positions[day] = positions
	}
	return c, nil
}

// Template returns the ordered item keys for one day. The returned slice is
// shared and must not be mutated.
func (c *Catalog) Template(day domain.Day) []string {
	if c == nil {
		return nil
	}
	return c.templates[day]
}

// Len returns the number of items in one day's template.
func (c *Catalog) Len(day domain.Day) int {
	return len(c.Template(day))
}

// Position returns the template offset of an item key for one day.
func (c *Catalog) Position(day domain.Day, key string) (int, bool) {
	if c == nil {
		return 0, false
	}
	position, ok := c.positions[day][key]
	return position, ok
}

// Contains reports whether an item key belongs to one day's template.
func (c *Catalog) Contains(day domain.Day, key string) bool {
	_, ok := c.Position(day, key)
	return ok
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey folds a raw caption or item name into the canonical key
// space: lowercase ASCII tokens joined by underscores, diacritics and
// punctuation removed. "Crachás" and "crachas" both fold to the template
// key "crachas"; a caption must spell the same tokens as the key to match.
func NormalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	folded, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		folded = lowered
	}

	var b strings.Builder
	pendingSeparator := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSeparator && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSeparator = false
			b.WriteRune(r)
		default:
			pendingSeparator = true
		}
	}
	return b.String()
}

// DisplayName renders an item key for human-readable messages.
func DisplayName(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
