package domain

// CommandKind enumerates the closed set of interpreted user intents.
type CommandKind int

const (
	// CommandUnrecognized means no actionable intent could be derived.
	CommandUnrecognized CommandKind = iota
	// CommandStartDay starts (or resumes) the checklist for one day.
	CommandStartDay
	// CommandMarkItems confirms named items out of sequential order.
	CommandMarkItems
	// CommandListMissing asks which items are still unconfirmed.
	CommandListMissing
	// CommandRestart clears the active checklist back to its initial state.
	CommandRestart
)

// Command is the structured result of interpreting one free-form utterance.
// Day is set for CommandStartDay; Items carries normalized item keys for
// CommandMarkItems, and Note an optional observation about those items.
type Command struct {
	Kind  CommandKind
	Day   Day
	Items []string
	Note  string
}
