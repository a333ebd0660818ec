// Package classifier maps free-form worker utterances onto the closed
// command set. The contract is intentionally a black box: text in, one
// domain.Command out, or an error the engine folds into Unrecognized. The
// progression engine stays deterministic and independently testable with
// stub classifiers.
package classifier

import (
	"context"

	"github.com/examops/checkbot/internal/checklist/domain"
)

// Classifier interprets one utterance. The active day, when known, lets the
// implementation disambiguate item names against that day's template.
type Classifier interface {
	Classify(ctx context.Context, text string, activeDay domain.Day) (domain.Command, error)
}

// Func adapts a plain function to the Classifier interface.
type Func func(ctx context.Context, text string, activeDay domain.Day) (domain.Command, error)

// Classify implements Classifier.
func (f Func) Classify(ctx context.Context, text string, activeDay domain.Day) (domain.Command, error) {
	return f(ctx, text, activeDay)
}
