package providers

import (
	"context"
	"hash/fnv"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// PlainTextExtractor is the default ExtractText implementation. Real PDF
// parsing is out of scope and no PDF library appears anywhere in the
// example pack this module was built from, so the default reads .txt
// files verbatim (a reasonable stand-in input format) and returns empty
// text — not an error — for any other extension, .pdf included.
type PlainTextExtractor struct{}

// ExtractText implements ExtractText.
func (PlainTextExtractor) ExtractText(_ context.Context, path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".txt" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// HashEmbedder is a deterministic, dependency-free Embed fallback: it
// hashes character n-grams into a fixed-width vector and L2-normalizes
// the result. It exists so SemanticEngine is exercisable without a real
// embedding model; production callers inject one instead.
type HashEmbedder struct {
	Dim     int // vector width, default 64
	NGram   int // character n-gram size, default 3
}

// NewHashEmbedder returns a HashEmbedder with sensible defaults.
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{Dim: 64, NGram: 3}
}

// Embed implements Embed.
func (h *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	dim := h.Dim
	if dim == 0 {
		dim = 64
	}
	n := h.NGram
	if n == 0 {
		n = 3
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, dim)
		normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
		if len(normalized) < n {
			out[i] = vec
			continue
		}
		for j := 0; j+n <= len(normalized); j++ {
			gram := normalized[j : j+n]
			h := fnv.New32a()
			h.Write([]byte(gram))
			vec[int(h.Sum32())%dim]++
		}
		var norm float64
		for _, v := range vec {
			norm += v * v
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range vec {
				vec[k] /= norm
			}
		}
		out[i] = vec
	}
	return out, nil
}

// NoopSummarizer is the default LLMSummarize implementation: a
// best-effort stub that always returns an empty string and a nil error,
// so the run ends with an empty summary (the same outcome as a summarizer
// failure) without needing a real narrative model.
type NoopSummarizer struct{}

// Summarize implements LLMSummarize.
func (NoopSummarizer) Summarize(_ context.Context, _ string, _ []byte) (string, error) {
	return "", nil
}
