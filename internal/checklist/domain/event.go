package domain

// EventKind distinguishes how an inbound event should be handled.
type EventKind string

const (
	// EventText is a free-form text message to be interpreted.
	EventText EventKind = "text"
	// EventItemSubmission is a captioned photo submission.
	EventItemSubmission EventKind = "item_submission"
)

// Event is the transport-agnostic inbound boundary contract. Text is set for
// EventText; ItemCaption and PayloadRef are set for EventItemSubmission.
type Event struct {
	SessionID   string
	Kind        EventKind
	Text        string
	ItemCaption string
	PayloadRef  string
}
