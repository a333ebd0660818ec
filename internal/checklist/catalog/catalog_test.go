package catalog

import (
	"testing"

	"github.com/examops/checkbot/internal/checklist/domain"
)

func TestLoadTemplateSizes(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if got := c.Len(domain.Day1); got != 18 {
		t.Fatalf("day 1 template length = %d, want 18", got)
	}
	if got := c.Len(domain.Day2); got != 19 {
		t.Fatalf("day 2 template length = %d, want 19", got)
	}
}

func TestLoadTemplateKeysUniqueAndCanonical(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	for _, day := range []domain.Day{domain.Day1, domain.Day2} {
		seen := make(map[string]struct{})
		for i, key := range c.Template(day) {
			if NormalizeKey(key) != key {
				t.Fatalf("day %d item %q is not canonical", day, key)
			}
			if _, dup := seen[key]; dup {
				t.Fatalf("day %d repeats item %q", day, key)
			}
			seen[key] = struct{}{}

			position, ok := c.Position(day, key)
			if !ok || position != i {
				t.Fatalf("day %d position(%q) = %d,%v, want %d,true", day, key, position, ok, i)
			}
		}
	}
}

func TestLoadRejectsDuplicateItems(t *testing.T) {
	raw := []byte("day1:\n  - alicate\n  - alicate\nday2:\n  - canetas\n")
	if _, err := load(raw); err == nil {
		t.Fatal("expected duplicate item error")
	}
}

func TestLoadRejectsEmptyDay(t *testing.T) {
	raw := []byte("day1:\n  - alicate\nday2: []\n")
	if _, err := load(raw); err == nil {
		t.Fatal("expected empty template error")
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already canonical", in: "ata_sala_dia1", want: "ata_sala_dia1"},
		{name: "caption with spaces", in: "ata sala dia1", want: "ata_sala_dia1"},
		{name: "mixed case and padding", in: "  Envelope Sala Dia1 ", want: "envelope_sala_dia1"},
		{name: "diacritics folded", in: "Crachás", want: "crachas"},
		{name: "punctuation stripped", in: "fita-adesiva!", want: "fita_adesiva"},
		{name: "collapsed separators", in: "canetas   e  pincéis", want: "canetas_e_pinceis"},
		{name: "blank", in: "   ", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeKey(tc.in); got != tc.want {
				t.Fatalf("NormalizeKey(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("envelope_porta_objetos_dia1"); got != "envelope porta objetos dia1" {
		t.Fatalf("display name = %q", got)
	}
}
