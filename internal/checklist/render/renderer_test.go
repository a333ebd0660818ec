package render

import (
	"strings"
	"testing"

	"github.com/examops/checkbot/internal/checklist/domain"
	"github.com/examops/checkbot/internal/checklist/engine"
)

func TestRenderStartedPortuguese(t *testing.T) {
	loc := NewPrinter("pt-BR")
	got := Render(loc, engine.Outcome{Kind: engine.OutcomeStarted, Day: domain.Day1, Next: "envelope_sala_dia1"})
	if !strings.Contains(got, "dia 1") {
		t.Fatalf("Render() = %q, want day reference", got)
	}
	if !strings.Contains(got, "envelope sala dia1") {
		t.Fatalf("Render() = %q, want display name of next item", got)
	}
}

func TestRenderStartedEnglish(t *testing.T) {
	loc := NewPrinter("en")
	got := Render(loc, engine.Outcome{Kind: engine.OutcomeStarted, Day: domain.Day2, Next: "envelope_sala_dia2"})
	if !strings.Contains(got, "Day 2") {
		t.Fatalf("Render() = %q, want English day reference", got)
	}
}

func TestRenderWrongItemNamesExpected(t *testing.T) {
	loc := NewPrinter("pt-BR")
	got := Render(loc, engine.Outcome{Kind: engine.OutcomeWrongItem, Day: domain.Day1, Expected: "ata_sala_dia1"})
	if !strings.Contains(got, "ata sala dia1") {
		t.Fatalf("Render() = %q, want expected item", got)
	}
}

func TestRenderMissingListsItemsInOrder(t *testing.T) {
	loc := NewPrinter("pt-BR")
	got := Render(loc, engine.Outcome{
		Kind:    engine.OutcomeMissingItems,
		Day:     domain.Day1,
		Missing: []string{"canetas", "pinceis"},
	})
	canetas := strings.Index(got, "canetas")
	pinceis := strings.Index(got, "pinceis")
	if canetas < 0 || pinceis < 0 || canetas > pinceis {
		t.Fatalf("Render() = %q, want canetas before pinceis", got)
	}
}

func TestRenderMissingEmptyMeansAllClear(t *testing.T) {
	loc := NewPrinter("pt-BR")
	got := Render(loc, engine.Outcome{Kind: engine.OutcomeMissingItems, Day: domain.Day1})
	if !strings.Contains(got, "Nenhum item faltante") {
		t.Fatalf("Render() = %q, want all-clear message", got)
	}
}

func TestRenderItemsMarkedWithUnknown(t *testing.T) {
	loc := NewPrinter("pt-BR")
	got := Render(loc, engine.Outcome{
		Kind:    engine.OutcomeItemsMarked,
		Day:     domain.Day1,
		Marked:  []string{"canetas"},
		Unknown: []string{"garrafa de agua"},
	})
	if !strings.Contains(got, "canetas") || !strings.Contains(got, "garrafa de agua") {
		t.Fatalf("Render() = %q, want marked and unknown sections", got)
	}
}

func TestRenderAlreadyStartedCompletedDay(t *testing.T) {
	loc := NewPrinter("pt-BR")
	got := Render(loc, engine.Outcome{Kind: engine.OutcomeAlreadyStarted, Day: domain.Day1})
	if !strings.Contains(got, "concluído") {
		t.Fatalf("Render() = %q, want completed message", got)
	}
}

func TestRenderEveryKindIsNonEmpty(t *testing.T) {
	loc := NewPrinter("pt-BR")
	kinds := []engine.OutcomeKind{
		engine.OutcomeUnrecognized,
		engine.OutcomeStarted,
		engine.OutcomeAlreadyStarted,
		engine.OutcomeItemAccepted,
		engine.OutcomeWrongItem,
		engine.OutcomeCompleted,
		engine.OutcomeNoActiveChecklist,
		engine.OutcomeItemsMarked,
		engine.OutcomeMissingItems,
		engine.OutcomeRestarted,
		engine.OutcomeTryAgain,
	}
	for _, kind := range kinds {
		if got := Render(loc, engine.Outcome{Kind: kind, Day: domain.Day1}); strings.TrimSpace(got) == "" {
			t.Fatalf("Render(kind %d) returned empty reply", kind)
		}
	}
}

func TestNewPrinterFallsBackOnBadLocale(t *testing.T) {
	loc := NewPrinter("???")
	got := Render(loc, engine.Outcome{Kind: engine.OutcomeTryAgain})
	if !strings.Contains(got, "Tente novamente") {
		t.Fatalf("Render() = %q, want pt-BR fallback", got)
	}
}
