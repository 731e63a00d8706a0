package dataset

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// LengthBucket groups samples by word count.
type LengthBucket string

const (
	BucketShort    LengthBucket = "short"     // 10-30 words
	BucketMedium   LengthBucket = "medium"    // 31-80 words
	BucketLong     LengthBucket = "long"      // 81-150 words
	BucketVeryLong LengthBucket = "very_long" // 151-200 words
)

// Categories available across generators.
const (
	CategoryNews         = "news"
	CategoryLiterature   = "literature"
	CategoryConversation = "conversation"
	CategoryTechnical    = "technical"
	CategoryNarrative    = "narrative"
)

// Sample is one text under test.
type Sample struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	WordCount  int          `json:"word_count"`
	Category   string       `json:"category"`
	Bucket     LengthBucket `json:"length_bucket"`
	Source     string       `json:"source"` // "builtin", "llm" or "corpus"
	Complexity float64      `json:"complexity_score,omitempty"`
}

// Generator produces test samples for benchmark suites.
type Generator interface {
	Generate(ctx context.Context, category string, bucket LengthBucket, count int) ([]Sample, error)
}

// BucketFor classifies a word count. Counts below the short floor still
// land in short; counts beyond the very-long ceiling land in very_long.
func BucketFor(words int) LengthBucket {
	switch {
	case words <= 30:
		return BucketShort
	case words <= 80:
		return BucketMedium
	case words <= 150:
		return BucketLong
	default:
		return BucketVeryLong
	}
}

// BucketRange returns the word-count bounds a generator should target.
func BucketRange(b LengthBucket) (min, max int) {
	switch b {
	case BucketShort:
		return 10, 30
	case BucketMedium:
		return 31, 80
	case BucketLong:
		return 81, 150
	default:
		return 151, 200
	}
}

func newSample(text, category, source string) Sample {
	words := len(strings.Fields(text))
	return Sample{
		ID:         uuid.NewString(),
		Text:       text,
		WordCount:  words,
		Category:   category,
		Bucket:     BucketFor(words),
		Source:     source,
		Complexity: complexity(text),
	}
}

// complexity is a rough 0..1 score from average word length and sentence
// length, enough to compare samples within a suite.
func complexity(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	var chars int
	for _, w := range words {
		chars += len(w)
	}
	avgWord := float64(chars) / float64(len(words))

	sentences := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}
	avgSentence := float64(len(words)) / float64(sentences)

	score := (avgWord-3)/5 + (avgSentence-5)/30
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
