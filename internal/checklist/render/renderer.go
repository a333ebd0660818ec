// Package render turns engine outcomes into localized chat replies.
package render

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/examops/checkbot/internal/checklist/catalog"
	"github.com/examops/checkbot/internal/checklist/engine"
)

// Localizer is the minimal message-printer contract required by the renderer.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// NewPrinter builds a message printer for one BCP 47 locale tag, falling back
// to pt-BR when the tag does not parse.
func NewPrinter(locale string) *message.Printer {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.MustParse("pt-BR")
	}
	return message.NewPrinter(tag)
}

// Render returns the reply text for one outcome. Every outcome kind renders
// to a non-empty message.
func Render(loc Localizer, out engine.Outcome) string {
	switch out.Kind {
	case engine.OutcomeStarted:
		return localize(loc, "checklist.started", int(out.Day), catalog.DisplayName(out.Next))
	case engine.OutcomeAlreadyStarted:
		if out.Next == "" {
			return localize(loc, "checklist.already_completed", int(out.Day))
		}
		return localize(loc, "checklist.already_started", int(out.Day), catalog.DisplayName(out.Next))
	case engine.OutcomeItemAccepted:
		return localize(loc, "checklist.item_accepted", catalog.DisplayName(out.Item), catalog.DisplayName(out.Next))
	case engine.OutcomeWrongItem:
		return localize(loc, "checklist.wrong_item", catalog.DisplayName(out.Expected))
	case engine.OutcomeCompleted:
		return localize(loc, "checklist.completed", int(out.Day))
	case engine.OutcomeNoActiveChecklist:
		return localize(loc, "checklist.no_active")
	case engine.OutcomeItemsMarked:
		return renderItemsMarked(loc, out)
	case engine.OutcomeMissingItems:
		if len(out.Missing) == 0 {
			return localize(loc, "checklist.all_clear", int(out.Day))
		}
		return localize(loc, "checklist.missing", int(out.Day), itemList(out.Missing))
	case engine.OutcomeRestarted:
		return localize(loc, "checklist.restarted", int(out.Day), catalog.DisplayName(out.Next))
	case engine.OutcomeTryAgain:
		return localize(loc, "checklist.try_again")
	default:
		return localize(loc, "checklist.unrecognized")
	}
}

func renderItemsMarked(loc Localizer, out engine.Outcome) string {
	parts := make([]string, 0, 2)
	if len(out.Marked) > 0 {
		parts = append(parts, localize(loc, "checklist.items_marked", displayNames(out.Marked)))
	}
	if len(out.Unknown) > 0 {
		parts = append(parts, localize(loc, "checklist.items_unknown", strings.Join(out.Unknown, ", ")))
	}
	if len(parts) == 0 {
		return localize(loc, "checklist.unrecognized")
	}
	return strings.Join(parts, "\n")
}

func itemList(keys []string) string {
	lines := make([]string, len(keys))
	for i, key := range keys {
		lines[i] = "- " + catalog.DisplayName(key)
	}
	return strings.Join(lines, "\n")
}

func displayNames(keys []string) string {
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = catalog.DisplayName(key)
	}
	return strings.Join(names, ", ")
}

func localize(loc Localizer, key message.Reference, args ...any) string {
	if loc == nil {
		if asString, ok := key.(string); ok {
			return asString
		}
		return ""
	}
	return loc.Sprintf(key, args...)
}
