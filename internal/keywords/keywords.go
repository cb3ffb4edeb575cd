// Package keywords derives a fixed-length search query from a free-text
// presentation summary via the text-generation collaborator.
package keywords

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/demoday/internal/llm"
)

// Count is the required number of keywords in the generated query.
const Count = 5

// maxAttempts caps the validation retry loop. Fixed by design, not a knob.
const maxAttempts = 10

// ErrExhausted is returned when the model fails to produce a valid
// keyword set within maxAttempts attempts. Callers must treat it as a hard
// failure of the whole evaluation.
var ErrExhausted = fmt.Errorf("could not generate %d keywords in %d attempts", Count, maxAttempts)

// Extractor generates search keywords from presentation summaries.
type Extractor struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewExtractor creates a keyword extractor.
func NewExtractor(completer llm.Completer, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		completer: completer,
		logger:    logger.Named("keywords"),
	}
}

// Extract asks the model for exactly Count space-separated keywords
// describing the summary. A response with the wrong word count is retried,
// re-issuing the same request, up to maxAttempts times; exhaustion returns
// ErrExhausted. A provider error is returned immediately: keyword
// extraction is a required upstream step and transient failures here abort
// the evaluation.
func (e *Extractor) Extract(ctx context.Context, summary string) (string, error) {
	prompt := fmt.Sprintf(
		"Here is a summary of a presentation about a project, please provide a %d word title or %d key words of this presentation separated by spaces. "+
			"Do not include anything else in your response. It should only be %d words separated by spaces. %s",
		Count, Count, Count, summary,
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		response, err := e.completer.Complete(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("generating keywords: %w", err)
		}

		words := strings.Fields(response)
		if len(words) == Count {
			if attempt > 1 {
				e.logger.Debug("keyword generation recovered",
					zap.Int("attempt", attempt))
			}
			return strings.Join(words, " "), nil
		}

		e.logger.Debug("keyword response has wrong word count",
			zap.Int("attempt", attempt),
			zap.Int("words", len(words)))

		if err := ctx.Err(); err != nil {
			return "", err
		}
	}

	return "", ErrExhausted
}

// IsExhausted reports whether err is the keyword-exhaustion failure.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrExhausted)
}
