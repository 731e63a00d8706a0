package dataset

import (
	"context"
	"testing"
)

func TestBucketFor(t *testing.T) {
	cases := []struct {
		words int
		want  LengthBucket
	}{
		{5, BucketShort},
		{10, BucketShort},
		{30, BucketShort},
		{31, BucketMedium},
		{80, BucketMedium},
		{81, BucketLong},
		{150, BucketLong},
		{151, BucketVeryLong},
		{200, BucketVeryLong},
		{500, BucketVeryLong},
	}
	for _, c := range cases {
		if got := BucketFor(c.words); got != c.want {
			t.Errorf("BucketFor(%d): got %s, want %s", c.words, got, c.want)
		}
	}
}

func TestBuiltinGeneratorKnownCategories(t *testing.T) {
	gen := NewBuiltinGenerator()
	for _, cat := range Categories() {
		samples, err := gen.Generate(context.Background(), cat, "", 2)
		if err != nil {
			t.Fatalf("category %s: %v", cat, err)
		}
		if len(samples) != 2 {
			t.Errorf("category %s: got %d samples, want 2", cat, len(samples))
		}
		for _, s := range samples {
			if s.Text == "" || s.WordCount == 0 || s.ID == "" {
				t.Errorf("category %s: incomplete sample %+v", cat, s)
			}
			if s.Category != cat {
				t.Errorf("sample category: got %s, want %s", s.Category, cat)
			}
			if s.Bucket != BucketFor(s.WordCount) {
				t.Errorf("sample bucket inconsistent with word count")
			}
		}
	}
}

func TestBuiltinGeneratorUnknownCategory(t *testing.T) {
	gen := NewBuiltinGenerator()
	if _, err := gen.Generate(context.Background(), "poetry-slam", "", 1); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestBuiltinGeneratorBucketFilter(t *testing.T) {
	gen := NewBuiltinGenerator()
	samples, err := gen.Generate(context.Background(), CategoryNews, BucketShort, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	for _, s := range samples {
		if s.Bucket != BucketShort {
			t.Errorf("expected short bucket, got %s (%d words)", s.Bucket, s.WordCount)
		}
	}
}

func TestComplexityBounds(t *testing.T) {
	texts := []string{
		"",
		"Hi.",
		"The quick brown fox jumps over the lazy dog.",
		"Notwithstanding the aforementioned considerations, the interdepartmental steering committee unanimously recommended postponing implementation indefinitely pending comprehensive reevaluation.",
	}
	for _, text := range texts {
		score := complexity(text)
		if score < 0 || score > 1 {
			t.Errorf("complexity(%q) out of range: %f", text, score)
		}
	}
}

func TestSlicePassages(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "This is a sentence with exactly eight words total. "
	}
	passages := slicePassages(long)
	if len(passages) == 0 {
		t.Fatal("expected at least one passage")
	}
	for _, p := range passages {
		s := newSample(p, CategoryLiterature, "corpus")
		if s.WordCount < 10 {
			t.Errorf("passage too short: %d words", s.WordCount)
		}
	}
}
