package queue

const (
	TypeSuiteRun = "bench:suite"
)

// SuiteRunPayload describes a background benchmark suite. Voices are keyed
// by provider id; an empty map means the worker selects voices itself.
type SuiteRunPayload struct {
	SuiteID    string              `json:"suite_id"`
	Providers  []string            `json:"providers"`
	Category   string              `json:"category"`
	Bucket     string              `json:"length_bucket"`
	Samples    int                 `json:"samples"`
	Iterations int                 `json:"iterations"`
	Voices     map[string][]string `json:"voices,omitempty"`
}
