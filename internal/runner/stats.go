package runner

import "sort"

// ProviderSummary aggregates one provider's results across a suite.
type ProviderSummary struct {
	Provider     string         `json:"provider"`
	Total        int            `json:"total"`
	Successes    int            `json:"successes"`
	SuccessRate  float64        `json:"success_rate"`
	AvgLatencyMs float64        `json:"avg_latency_ms"`
	P95LatencyMs float64        `json:"p95_latency_ms"`
	AvgTTFBMs    float64        `json:"avg_ttfb_ms"`
	AvgFileSize  float64        `json:"avg_file_size_bytes"`
	ErrorsByKind map[string]int `json:"errors_by_kind,omitempty"`
}

// Summarize computes per-provider aggregates. Averages cover successful
// results only; a provider with zero successes reports zeros, never NaN.
func Summarize(results []TestResult) map[string]*ProviderSummary {
	out := make(map[string]*ProviderSummary)
	latencies := make(map[string][]float64)

	for _, res := range results {
		s, ok := out[res.Provider]
		if !ok {
			s = &ProviderSummary{Provider: res.Provider, ErrorsByKind: map[string]int{}}
			out[res.Provider] = s
		}
		s.Total++
		if !res.Success {
			if res.ErrorKind != "" {
				s.ErrorsByKind[string(res.ErrorKind)]++
			}
			continue
		}
		s.Successes++
		s.AvgLatencyMs += res.LatencyMs
		s.AvgTTFBMs += res.TTFBMs
		s.AvgFileSize += float64(res.FileSizeBytes)
		latencies[res.Provider] = append(latencies[res.Provider], res.LatencyMs)
	}

	for id, s := range out {
		if s.Total > 0 {
			s.SuccessRate = float64(s.Successes) / float64(s.Total)
		}
		if s.Successes > 0 {
			n := float64(s.Successes)
			s.AvgLatencyMs /= n
			s.AvgTTFBMs /= n
			s.AvgFileSize /= n
			s.P95LatencyMs = percentile(latencies[id], 0.95)
		}
	}
	return out
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
