package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/voicearena/ttsbench/internal/provider"
)

func testRegistry() *provider.Registry {
	voices := []provider.VoiceInfo{
		{ID: "us-anna", Name: "Anna", Gender: provider.GenderFemale, Locale: "en-US"},
		{ID: "us-beth", Name: "Beth", Gender: provider.GenderFemale, Locale: "en-US"},
		{ID: "us-carl", Name: "Carl", Gender: provider.GenderMale, Locale: "en-US"},
		{ID: "uk-dora", Name: "Dora", Gender: provider.GenderFemale, Locale: "en-UK"},
	}
	ids := make([]string, len(voices))
	m := make(map[string]provider.VoiceInfo, len(voices))
	for i, v := range voices {
		ids[i] = v.ID
		m[v.ID] = v
	}
	return provider.NewRegistry([]*provider.Descriptor{{
		ID:              "vendor",
		Name:            "Vendor",
		MaxChars:        1000,
		SupportedVoices: ids,
		Voices:          m,
	}})
}

func TestSelectFiltersGender(t *testing.T) {
	sel := NewSelector(testRegistry())

	v, err := sel.Select("vendor", provider.GenderMale, "en-US", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "us-carl" {
		t.Errorf("expected us-carl, got %s", v)
	}
}

func TestSelectFiltersLocale(t *testing.T) {
	sel := NewSelector(testRegistry())

	v, err := sel.Select("vendor", provider.GenderFemale, "en-UK", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "uk-dora" {
		t.Errorf("expected uk-dora, got %s", v)
	}
}

func TestSelectRoundRobin(t *testing.T) {
	sel := NewSelector(testRegistry())

	// Two en-US female voices: call index cycles through them.
	want := []string{"us-anna", "us-beth", "us-anna", "us-beth"}
	for i, expected := range want {
		v, err := sel.Select("vendor", provider.GenderFemale, "en-US", i)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if v != expected {
			t.Errorf("call %d: got %s, want %s", i, v, expected)
		}
	}
}

func TestSelectNoMatch(t *testing.T) {
	sel := NewSelector(testRegistry())

	_, err := sel.Select("vendor", provider.GenderMale, "en-UK", 0)
	var noMatch *NoMatchingVoiceError
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchingVoiceError, got %v", err)
	}
	if noMatch.Provider != "vendor" || noMatch.Locale != "en-UK" {
		t.Errorf("error carries wrong fields: %+v", noMatch)
	}
}

func TestSelectUnknownProvider(t *testing.T) {
	sel := NewSelector(testRegistry())
	if _, err := sel.Select("nope", provider.GenderMale, "", 0); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestSelectEmptyLocaleMatchesAll(t *testing.T) {
	sel := NewSelector(testRegistry())

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		v, err := sel.Select("vendor", provider.GenderFemale, "", i)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct female voices across locales, got %d", len(seen))
	}
}

func TestSelectResolvedStaticCatalogue(t *testing.T) {
	reg := testRegistry()
	sel := NewSelector(reg)
	mock := provider.NewMockAdapter("vendor", []provider.VoiceInfo{
		{ID: "us-anna", Name: "Anna", Gender: provider.GenderFemale, Locale: "en-US"},
	})

	name, id, err := sel.SelectResolved(context.Background(), mock, provider.GenderFemale, "en-US", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != id {
		t.Errorf("static catalogue should pass the name through: %s vs %s", name, id)
	}
}
