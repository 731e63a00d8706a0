package provider

import (
	"context"
	"time"
)

// baseAdapter carries the pieces every vendor adapter shares: descriptor,
// key material, transport and ping handling.
type baseAdapter struct {
	desc        *Descriptor
	apiKey      string
	caller      *httpCaller
	pingHeaders map[string]string
}

func newBaseAdapter(desc *Descriptor, apiKey string, timeout, pingTimeout time.Duration, pingHeaders map[string]string) baseAdapter {
	return baseAdapter{
		desc:        desc,
		apiKey:      apiKey,
		caller:      newHTTPCaller(timeout, pingTimeout),
		pingHeaders: pingHeaders,
	}
}

func (b *baseAdapter) ID() string { return b.desc.ID }

func (b *baseAdapter) Descriptor() *Descriptor { return b.desc }

func (b *baseAdapter) AvailableVoices() []string { return b.desc.SupportedVoices }

func (b *baseAdapter) Validate(req Request) error { return validate(b.desc, req) }

func (b *baseAdapter) SupportsDynamicVoiceCatalogue() bool { return false }

func (b *baseAdapter) MeasurePingLatency(ctx context.Context) float64 {
	return b.caller.ping(ctx, b.desc.BaseURL, b.pingHeaders)
}

// resultFromWire translates a wire response carrying raw audio bytes into a
// Result. Vendors whose protocol exposes no first-byte boundary report TTFB
// equal to total latency with TTFBObserved=false so aggregation can tell the
// two apart.
func (b *baseAdapter) resultFromWire(req Request, w *wireResponse, meta map[string]any) *Result {
	if meta == nil {
		meta = map[string]any{}
	}
	meta["provider"] = b.desc.ID

	res := &Result{
		Provider:   b.desc.ID,
		Voice:      req.Voice,
		LatencyMs:  w.latencyMs,
		HTTPStatus: w.status,
		Metadata:   meta,
	}

	if w.kind != "" {
		res.ErrorKind = w.kind
		res.ErrorMessage = w.errMsg
		return res
	}

	res.Success = true
	res.Audio = w.body
	res.FileSizeBytes = len(w.body)
	if b.desc.SupportsStreaming {
		res.TTFBMs = w.ttfbMs
		res.TTFBObserved = true
	} else {
		res.TTFBMs = w.latencyMs
	}
	return res
}

func (b *baseAdapter) validationResult(req Request, err error) *Result {
	return failedResult(b.desc.ID, req.Voice, ErrKindValidation, err.Error(), 0)
}
