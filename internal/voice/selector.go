package voice

import (
	"context"
	"fmt"
	"strings"

	"github.com/voicearena/ttsbench/internal/provider"
)

// NoMatchingVoiceError means a provider has no voice satisfying the
// requested gender and locale. Callers treat it as a hard failure; the
// selector never substitutes a voice that was not asked for.
type NoMatchingVoiceError struct {
	Provider string
	Gender   provider.Gender
	Locale   string
}

func (e *NoMatchingVoiceError) Error() string {
	return fmt.Sprintf("provider %s has no %s voice for locale %s", e.Provider, e.Gender, e.Locale)
}

// Selector picks voices from the registry's descriptor tables. It holds no
// mutable state: round-robin position is the caller's call index, so
// concurrent suites stay deterministic.
type Selector struct {
	registry *provider.Registry
}

func NewSelector(reg *provider.Registry) *Selector {
	return &Selector{registry: reg}
}

// Select returns the callIndex-th matching voice for the provider, cycling
// through matches in the descriptor's declared order.
func (s *Selector) Select(providerID string, gender provider.Gender, locale string, callIndex int) (string, error) {
	desc, err := s.registry.Get(providerID)
	if err != nil {
		return "", err
	}

	candidates := matchingVoices(desc, gender, locale)
	if len(candidates) == 0 {
		return "", &NoMatchingVoiceError{Provider: providerID, Gender: gender, Locale: locale}
	}
	return candidates[callIndex%len(candidates)], nil
}

// SelectResolved selects a voice and, for adapters with a dynamic
// catalogue, resolves it to the vendor id. The resolved voice is checked
// again against the requested gender and locale: a resolution that lands on
// a non-matching voice is a failure, not a fallback.
func (s *Selector) SelectResolved(ctx context.Context, adapter provider.Adapter, gender provider.Gender, locale string, callIndex int) (name, id string, err error) {
	name, err = s.Select(adapter.ID(), gender, locale, callIndex)
	if err != nil {
		return "", "", err
	}

	id = name
	if adapter.SupportsDynamicVoiceCatalogue() {
		resolver, ok := adapter.(provider.VoiceResolver)
		if !ok {
			return "", "", fmt.Errorf("provider %s advertises a dynamic catalogue but cannot resolve voices", adapter.ID())
		}
		id, err = resolver.ResolveVoice(ctx, name)
		if err != nil {
			return "", "", err
		}
	}

	desc := adapter.Descriptor()
	if info, ok := desc.Voices[name]; ok {
		if info.Gender != gender || !localeMatches(info, name, locale) {
			return "", "", &NoMatchingVoiceError{Provider: adapter.ID(), Gender: gender, Locale: locale}
		}
	}
	return name, id, nil
}

func matchingVoices(desc *provider.Descriptor, gender provider.Gender, locale string) []string {
	var out []string
	for _, vid := range desc.SupportedVoices {
		info, ok := desc.Voices[vid]
		if !ok {
			continue
		}
		if info.Gender != gender {
			continue
		}
		if !localeMatches(info, vid, locale) {
			continue
		}
		out = append(out, vid)
	}
	return out
}

func localeMatches(info provider.VoiceInfo, voiceID, locale string) bool {
	if locale == "" {
		return true
	}
	return info.Locale == locale || strings.HasPrefix(voiceID, locale)
}
