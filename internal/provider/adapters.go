package provider

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// NewAdapter builds the adapter for a single descriptor. The API key comes
// from the descriptor's env var.
func NewAdapter(desc *Descriptor, timeout, pingTimeout time.Duration) (Adapter, error) {
	apiKey := os.Getenv(desc.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("provider %s: %s is not set", desc.ID, desc.APIKeyEnv)
	}

	switch {
	case desc.ID == "murf_falcon":
		return NewMurfAdapter(desc, apiKey, timeout, pingTimeout), nil
	case strings.HasPrefix(desc.ID, "deepgram"):
		return NewDeepgramAdapter(desc, apiKey, timeout, pingTimeout), nil
	case strings.HasPrefix(desc.ID, "elevenlabs"):
		return NewElevenLabsAdapter(desc, apiKey, timeout, pingTimeout), nil
	case desc.ID == "openai":
		return NewOpenAIAdapter(desc, apiKey, timeout, pingTimeout), nil
	case strings.HasPrefix(desc.ID, "cartesia"):
		return NewCartesiaAdapter(desc, apiKey, timeout, pingTimeout), nil
	case desc.ID == "sarvam":
		return NewSarvamAdapter(desc, apiKey, timeout, pingTimeout), nil
	}
	return nil, fmt.Errorf("no adapter implementation for provider %s", desc.ID)
}

// ConfiguredAdapters builds adapters for every registry provider whose API
// key env var is set. Unconfigured providers are skipped, not errors.
func ConfiguredAdapters(reg *Registry, timeout, pingTimeout time.Duration) map[string]Adapter {
	adapters := make(map[string]Adapter)
	for _, desc := range reg.Descriptors() {
		if os.Getenv(desc.APIKeyEnv) == "" {
			continue
		}
		a, err := NewAdapter(desc, timeout, pingTimeout)
		if err != nil {
			continue
		}
		adapters[desc.ID] = a
	}
	return adapters
}
