package engine

import "github.com/examops/checkbot/internal/checklist/domain"

// OutcomeKind enumerates every reply-worthy result of processing one inbound
// event. Process is total: there is a kind for every failure mode, so the
// transport layer always has something to say back.
type OutcomeKind int

const (
	// OutcomeUnrecognized means the message carried no actionable intent.
	OutcomeUnrecognized OutcomeKind = iota
	// OutcomeStarted means a new checklist was created for Day.
	OutcomeStarted
	// OutcomeAlreadyStarted means the checklist for Day existed; Next carries
	// the item to submit, or is empty when the day already completed.
	OutcomeAlreadyStarted
	// OutcomeItemAccepted means Item was confirmed and Next is now expected.
	OutcomeItemAccepted
	// OutcomeWrongItem means the submission did not match Expected.
	OutcomeWrongItem
	// OutcomeCompleted means every item of Day is confirmed.
	OutcomeCompleted
	// OutcomeNoActiveChecklist means the session has nothing in flight.
	OutcomeNoActiveChecklist
	// OutcomeItemsMarked reports the keys confirmed out of order and the
	// names that matched no template item.
	OutcomeItemsMarked
	// OutcomeMissingItems lists the unconfirmed keys; empty means all clear.
	OutcomeMissingItems
	// OutcomeRestarted means the active checklist was wiped back to empty.
	OutcomeRestarted
	// OutcomeTryAgain means a collaborator failed and the sender should
	// resubmit; no checklist position was consumed.
	OutcomeTryAgain
)

// Outcome is the result of processing one inbound event. Only the fields
// relevant to Kind are populated.
type Outcome struct {
	Kind     OutcomeKind
	Day      domain.Day
	Item     string
	Next     string
	Expected string
	Marked   []string
	Unknown  []string
	Missing  []string
}
