package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voicearena/ttsbench/pkg/textextract"
)

// CorpusGenerator slices documents from a directory into samples. Each
// supported file is extracted once at load time; Generate then filters the
// slices by bucket.
type CorpusGenerator struct {
	samples []Sample
}

// LoadCorpus walks dir and slices every supported document into samples
// tagged with the given category.
func LoadCorpus(dir, category string) (*CorpusGenerator, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	supported := map[string]bool{}
	for _, ext := range textextract.SupportedExtensions() {
		supported[ext] = true
	}

	var samples []Sample
	for _, e := range entries {
		if e.IsDir() || !supported[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		doc, err := textextract.ExtractFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		for _, text := range slicePassages(doc.Content) {
			s := newSample(text, category, "corpus")
			samples = append(samples, s)
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no usable text found under %s", dir)
	}
	return &CorpusGenerator{samples: samples}, nil
}

func (g *CorpusGenerator) Generate(_ context.Context, category string, bucket LengthBucket, count int) ([]Sample, error) {
	if count < 1 {
		count = 1
	}
	var matching []Sample
	for _, s := range g.samples {
		if category != "" && s.Category != category {
			continue
		}
		if bucket != "" && s.Bucket != bucket {
			continue
		}
		matching = append(matching, s)
	}
	if len(matching) == 0 {
		return nil, fmt.Errorf("corpus has no %s samples in bucket %s", category, bucket)
	}

	out := make([]Sample, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, matching[i%len(matching)])
	}
	return out, nil
}

// slicePassages splits extracted text into passages of consecutive
// sentences, targeting the medium and long buckets.
func slicePassages(content string) []string {
	sentences := splitSentences(content)

	var passages []string
	var cur []string
	words := 0
	for _, s := range sentences {
		n := len(strings.Fields(s))
		if n == 0 {
			continue
		}
		cur = append(cur, s)
		words += n
		if words >= 60 {
			passages = append(passages, strings.Join(cur, " "))
			cur = nil
			words = 0
		}
	}
	if words >= 10 {
		passages = append(passages, strings.Join(cur, " "))
	}
	return passages
}

func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}
