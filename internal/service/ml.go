package service

import "context"

// Interfaces over the ML sidecar. Services depend on these rather than the
// concrete HTTP client so tests can substitute canned behavior.

// TextExtractor pulls plain text out of an uploaded PDF by stored name.
type TextExtractor interface {
	ExtractText(ctx context.Context, storedName string) (string, error)
}

// Summarizer condenses a chunk of text into maxLen/minLen token bounds.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error)
}

// KeyPointExtractor returns up to n salient phrases from text.
type KeyPointExtractor interface {
	ExtractKeyPoints(ctx context.Context, text string, n int) ([]string, error)
}

// QuestionAnswerer answers a question against the given context text.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question, contextText string) (string, error)
}
