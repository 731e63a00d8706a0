package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// LLMGenerator produces fresh test texts through the Anthropic API. Fresh
// texts avoid benchmarking vendors on sentences their demos were tuned for.
type LLMGenerator struct {
	client anthropic.Client
	model  string
}

func NewLLMGenerator(apiKey, model string) *LLMGenerator {
	return &LLMGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (g *LLMGenerator) Generate(ctx context.Context, category string, bucket LengthBucket, count int) ([]Sample, error) {
	if count < 1 {
		count = 1
	}
	minWords, maxWords := BucketRange(bucket)

	prompt := fmt.Sprintf(
		"Write %d distinct %s passages suitable for reading aloud. "+
			"Each passage must be %d to %d words, plain prose, no headings or markdown. "+
			"Separate passages with a line containing only ---.",
		count, category, minWords, maxWords)

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate samples: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	var out []Sample
	for _, part := range strings.Split(content.String(), "---") {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		out = append(out, newSample(text, category, "llm"))
		if len(out) == count {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("model returned no usable passages")
	}
	return out, nil
}
