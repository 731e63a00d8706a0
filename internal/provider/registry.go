package provider

import (
	"fmt"
	"os"
	"sort"
)

// Registry owns the process-wide descriptor table. Loaded once at startup,
// read-only afterwards.
type Registry struct {
	descriptors map[string]*Descriptor
}

func NewRegistry(descriptors []*Descriptor) *Registry {
	m := make(map[string]*Descriptor, len(descriptors))
	for _, d := range descriptors {
		m[d.ID] = d
	}
	return &Registry{descriptors: m}
}

func (r *Registry) Get(id string) (*Descriptor, error) {
	d, ok := r.descriptors[id]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", id)
	}
	return d, nil
}

func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.descriptors))
	for _, id := range r.IDs() {
		out = append(out, r.descriptors[id])
	}
	return out
}

// Configured reports, per provider id, whether its API key env var is set.
// The key material itself never leaves the adapter layer.
func (r *Registry) Configured() map[string]bool {
	out := make(map[string]bool, len(r.descriptors))
	for id, d := range r.descriptors {
		out[id] = os.Getenv(d.APIKeyEnv) != ""
	}
	return out
}

func voiceTable(infos []VoiceInfo) (ids []string, m map[string]VoiceInfo) {
	m = make(map[string]VoiceInfo, len(infos))
	for _, v := range infos {
		ids = append(ids, v.ID)
		m[v.ID] = v
	}
	return ids, m
}

func murfVoices() ([]string, map[string]VoiceInfo) {
	return voiceTable([]VoiceInfo{
		{ID: "en-US-matthew", Name: "Matthew", Gender: GenderMale, Locale: "en-US"},
		{ID: "en-US-carter", Name: "Carter", Gender: GenderMale, Locale: "en-US"},
		{ID: "en-US-terrell", Name: "Terrell", Gender: GenderMale, Locale: "en-US"},
		{ID: "en-US-ryan", Name: "Ryan", Gender: GenderMale, Locale: "en-US"},
		{ID: "en-US-natalie", Name: "Natalie", Gender: GenderFemale, Locale: "en-US"},
		{ID: "en-US-phoebe", Name: "Phoebe", Gender: GenderFemale, Locale: "en-US"},
		{ID: "en-US-sarah", Name: "Sarah", Gender: GenderFemale, Locale: "en-US"},
		{ID: "en-US-emily", Name: "Emily", Gender: GenderFemale, Locale: "en-US"},
		{ID: "en-UK-theo", Name: "Theo", Gender: GenderMale, Locale: "en-UK"},
		{ID: "en-UK-mason", Name: "Mason", Gender: GenderMale, Locale: "en-UK"},
		{ID: "en-UK-ruby", Name: "Ruby", Gender: GenderFemale, Locale: "en-UK"},
		{ID: "en-UK-hazel", Name: "Hazel", Gender: GenderFemale, Locale: "en-UK"},
		{ID: "en-AU-lucas", Name: "Lucas", Gender: GenderMale, Locale: "en-AU"},
		{ID: "en-AU-isla", Name: "Isla", Gender: GenderFemale, Locale: "en-AU"},
		{ID: "en-IN-arjun", Name: "Arjun", Gender: GenderMale, Locale: "en-IN"},
		{ID: "en-IN-priya", Name: "Priya", Gender: GenderFemale, Locale: "en-IN"},
	})
}

func deepgramVoices(prefix string) ([]string, map[string]VoiceInfo) {
	return voiceTable([]VoiceInfo{
		{ID: prefix + "asteria-en", Name: "Asteria", Gender: GenderFemale, Locale: "en-US"},
		{ID: prefix + "luna-en", Name: "Luna", Gender: GenderFemale, Locale: "en-US"},
		{ID: prefix + "stella-en", Name: "Stella", Gender: GenderFemale, Locale: "en-US"},
		{ID: prefix + "athena-en", Name: "Athena", Gender: GenderFemale, Locale: "en-US"},
		{ID: prefix + "hera-en", Name: "Hera", Gender: GenderFemale, Locale: "en-US"},
		{ID: prefix + "orion-en", Name: "Orion", Gender: GenderMale, Locale: "en-US"},
	})
}

func elevenLabsVoices() ([]string, map[string]VoiceInfo) {
	return voiceTable([]VoiceInfo{
		{ID: "Laura", Name: "Laura", Gender: GenderFemale, Locale: "en-US"},
		{ID: "Jessica", Name: "Jessica", Gender: GenderFemale, Locale: "en-US"},
		{ID: "Liam", Name: "Liam", Gender: GenderMale, Locale: "en-US"},
		{ID: "Elizabeth", Name: "Elizabeth", Gender: GenderFemale, Locale: "en-UK"},
		{ID: "Shelley", Name: "Shelley", Gender: GenderFemale, Locale: "en-UK"},
		{ID: "Dan", Name: "Dan", Gender: GenderMale, Locale: "en-UK"},
		{ID: "Nathaniel", Name: "Nathaniel", Gender: GenderMale, Locale: "en-UK"},
	})
}

func openAIVoices() ([]string, map[string]VoiceInfo) {
	return voiceTable([]VoiceInfo{
		{ID: "echo", Name: "Echo", Gender: GenderMale, Locale: "en-US"},
		{ID: "alloy", Name: "Alloy", Gender: GenderFemale, Locale: "en-US"},
		{ID: "nova", Name: "Nova", Gender: GenderFemale, Locale: "en-US"},
		{ID: "shimmer", Name: "Shimmer", Gender: GenderFemale, Locale: "en-US"},
		{ID: "onyx", Name: "Onyx", Gender: GenderMale, Locale: "en-US"},
		{ID: "fable", Name: "Fable", Gender: GenderMale, Locale: "en-UK"},
	})
}

func cartesiaVoices() ([]string, map[string]VoiceInfo) {
	return voiceTable([]VoiceInfo{
		{ID: "British Lady", Name: "British Lady", Gender: GenderFemale, Locale: "en-UK"},
		{ID: "Conversational Lady", Name: "Conversational Lady", Gender: GenderFemale, Locale: "en-US"},
		{ID: "Classy British Man", Name: "Classy British Man", Gender: GenderMale, Locale: "en-UK"},
		{ID: "Friendly Reading Man", Name: "Friendly Reading Man", Gender: GenderMale, Locale: "en-US"},
		{ID: "Midwestern Woman", Name: "Midwestern Woman", Gender: GenderFemale, Locale: "en-US"},
		{ID: "Professional Man", Name: "Professional Man", Gender: GenderMale, Locale: "en-US"},
	})
}

func sarvamVoices() ([]string, map[string]VoiceInfo) {
	return voiceTable([]VoiceInfo{
		{ID: "en-IN-male", Name: "Male (Indian English)", Gender: GenderMale, Locale: "en-IN"},
		{ID: "en-IN-female", Name: "Female (Indian English)", Gender: GenderFemale, Locale: "en-IN"},
		{ID: "hi-IN-male", Name: "Male (Hindi)", Gender: GenderMale, Locale: "hi-IN"},
		{ID: "hi-IN-female", Name: "Female (Hindi)", Gender: GenderFemale, Locale: "hi-IN"},
	})
}

// DefaultDescriptors returns the built-in vendor table.
func DefaultDescriptors() []*Descriptor {
	murfIDs, murfInfo := murfVoices()
	aura1IDs, aura1Info := deepgramVoices("aura-")
	aura2IDs, aura2Info := deepgramVoices("aura-2-")
	elIDs, elInfo := elevenLabsVoices()
	oaIDs, oaInfo := openAIVoices()
	carIDs, carInfo := cartesiaVoices()
	srvIDs, srvInfo := sarvamVoices()

	return []*Descriptor{
		{
			ID: "murf_falcon", Name: "Murf", ModelName: "Falcon",
			BaseURL:   "https://global.api.murf.ai/v1/speech/stream",
			APIKeyEnv: "MURF_API_KEY", MaxChars: 3000, SupportsStreaming: true,
			SupportedVoices: murfIDs, Voices: murfInfo,
		},
		{
			ID: "deepgram", Name: "Deepgram Aura 1", ModelName: "aura-1",
			BaseURL:   "https://api.deepgram.com/v1/speak",
			APIKeyEnv: "DEEPGRAM_API_KEY", MaxChars: 2000, SupportsStreaming: true,
			SupportedVoices: aura1IDs, Voices: aura1Info,
		},
		{
			ID: "deepgram_aura2", Name: "Deepgram Aura 2", ModelName: "aura-2",
			BaseURL:   "https://api.deepgram.com/v1/speak",
			APIKeyEnv: "DEEPGRAM_API_KEY", MaxChars: 2000, SupportsStreaming: true,
			SupportedVoices: aura2IDs, Voices: aura2Info,
		},
		{
			ID: "elevenlabs_flash", Name: "ElevenLabs Flash", ModelName: "eleven_flash_v2_5",
			BaseURL:   "https://api.elevenlabs.io/v1/text-to-speech",
			APIKeyEnv: "ELEVENLABS_API_KEY", MaxChars: 5000, SupportsStreaming: true,
			SupportedVoices: elIDs, Voices: elInfo,
		},
		{
			ID: "elevenlabs_v3", Name: "ElevenLabs v3", ModelName: "eleven_v3",
			BaseURL:   "https://api.elevenlabs.io/v1/text-to-speech",
			APIKeyEnv: "ELEVENLABS_API_KEY", MaxChars: 5000, SupportsStreaming: true,
			SupportedVoices: elIDs, Voices: elInfo,
		},
		{
			ID: "openai", Name: "OpenAI", ModelName: "gpt-4o-mini-tts",
			BaseURL:   "https://api.openai.com/v1",
			APIKeyEnv: "OPENAI_API_KEY", MaxChars: 4096, SupportsStreaming: true,
			SupportedVoices: oaIDs, Voices: oaInfo,
		},
		{
			ID: "cartesia_sonic2", Name: "Cartesia Sonic 2.0", ModelName: "sonic-2",
			BaseURL:   "https://api.cartesia.ai/tts/bytes",
			APIKeyEnv: "CARTESIA_API_KEY", MaxChars: 5000, SupportsStreaming: true,
			SupportedVoices: carIDs, Voices: carInfo,
		},
		{
			ID: "cartesia_turbo", Name: "Cartesia Sonic Turbo", ModelName: "sonic-turbo",
			BaseURL:   "https://api.cartesia.ai/tts/bytes",
			APIKeyEnv: "CARTESIA_API_KEY", MaxChars: 5000, SupportsStreaming: true,
			SupportedVoices: carIDs, Voices: carInfo,
		},
		{
			ID: "cartesia_sonic3", Name: "Cartesia Sonic 3", ModelName: "sonic-3",
			BaseURL:   "https://api.cartesia.ai/tts/bytes",
			APIKeyEnv: "CARTESIA_API_KEY", MaxChars: 5000, SupportsStreaming: true,
			SupportedVoices: carIDs, Voices: carInfo,
		},
		{
			ID: "sarvam", Name: "Sarvam AI", ModelName: "bulbul:v2",
			BaseURL:   "https://api.sarvam.ai/text-to-speech",
			APIKeyEnv: "SARVAM_API_KEY", MaxChars: 5000, SupportsStreaming: false,
			SupportedVoices: srvIDs, Voices: srvInfo,
		},
	}
}

// DefaultRegistry builds the registry from the built-in vendor table.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultDescriptors())
}
