// Package providers defines the external collaborators the pipeline calls
// out to — text extraction, embedding, linguistic tagging, and narrative
// summarization — plus conservative default implementations so the
// pipeline is runnable without a real backend wired in.
package providers

import "context"

// ExtractText returns the concatenation of a document's page texts
// separated by blank lines; an empty string on an unsupported format is
// not an error.
type ExtractText interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Embed returns embedding vectors for texts, one row per input, in input
// order. Vectors should be usable with cosine similarity (unit-normalized
// is recommended but not required).
type Embed interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// LinguisticFeatures returns part-of-speech-derived frequencies for a
// text: stopword, noun, verb, and adjective frequency, in that order.
// Absence of a LinguisticFeatures provider (a nil value passed to the
// stylometry engine) drives the fallback tokenizer path of spec §4.4.
type LinguisticFeatures interface {
	LinguisticFeatures(ctx context.Context, text string) (stopword, noun, verb, adjective float64, err error)
}

// LLMSummarize produces a best-effort narrative summary of an analysis.
// Failure sets an empty summary but never fails the pipeline.
type LLMSummarize interface {
	Summarize(ctx context.Context, tenderDescription string, signals []byte) (string, error)
}
