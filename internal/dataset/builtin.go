package dataset

import (
	"context"
	"fmt"
)

// builtinTexts is a small curated pool per category. Texts span the length
// buckets so filtered generation has something to return without an LLM or
// corpus configured.
var builtinTexts = map[string][]string{
	CategoryNews: {
		"The city council approved the new transit plan yesterday after months of public hearings and budget negotiations across every district.",
		"Markets closed higher on Friday as investors weighed the latest employment figures against persistent concerns about inflation. Analysts pointed to strong consumer spending and a resilient services sector, though several warned that borrowing costs remain elevated. The central bank is expected to hold rates steady at its next meeting, with most economists forecasting no change before the end of the quarter.",
		"A regional airline announced it will add six new routes this spring, connecting smaller cities that lost service during the downturn. The expansion is expected to create roughly two hundred jobs across ground operations and flight crews. Local officials welcomed the move, noting that reliable air service has become a deciding factor for companies choosing where to open new offices. The airline plans to operate the routes with a fleet of regional jets acquired last year, and tickets go on sale next month. Tourism boards in the affected cities have already begun planning joint promotions to capture the expected increase in weekend travel.",
	},
	CategoryLiterature: {
		"The river carried the last light of evening, and she watched it go without regret, the way one watches a guest depart.",
		"In the old house at the end of the lane, the clocks had all stopped at different hours, as if time itself had wandered from room to room and grown tired in each one. Dust settled on the piano no one played, and the garden pressed its green face against the windows, patient as the sea. He walked through it all like a man reading a letter written to someone else.",
	},
	CategoryConversation: {
		"Hey, did you catch the game last night? I can't believe they pulled it off in the final minutes.",
		"So I was thinking we could try that new place on Fifth Street for lunch tomorrow. My coworker went last week and said the noodles are incredible, though apparently it gets crowded fast. Maybe we should get there before noon? Let me know what works for you, and I'll book us a table if they take reservations.",
	},
	CategoryTechnical: {
		"The caching layer reduces database load by storing frequently accessed query results in memory with a configurable expiration policy.",
		"When the scheduler detects a failed node, it redistributes the affected workload across the remaining healthy instances. Each task carries an idempotency key, so retries never produce duplicate side effects. The rebalancing algorithm favors nodes with the lowest current utilization, and a cooldown window prevents oscillation when capacity fluctuates. Operators can tune both the detection threshold and the cooldown duration through the cluster configuration file.",
	},
	CategoryNarrative: {
		"She opened the envelope slowly, knowing that whatever it contained would change the shape of the summer ahead.",
		"The expedition reached the ridge just before dawn, and for a long moment nobody spoke. Below them the valley unrolled in folds of mist and shadow, the river a thread of silver stitching the dark fields together. They had walked for eleven days to see this, and now that it lay before them, each of them understood something different about why they had come. The guide checked his watch, said nothing, and began preparing the ropes for the descent.",
	},
}

// BuiltinGenerator serves samples from the curated pool. It never fails and
// needs no network, which makes it the default for quick tests.
type BuiltinGenerator struct{}

func NewBuiltinGenerator() *BuiltinGenerator { return &BuiltinGenerator{} }

func (g *BuiltinGenerator) Generate(_ context.Context, category string, bucket LengthBucket, count int) ([]Sample, error) {
	texts, ok := builtinTexts[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if count < 1 {
		count = 1
	}

	var matching []Sample
	for _, t := range texts {
		s := newSample(t, category, "builtin")
		if bucket == "" || s.Bucket == bucket {
			matching = append(matching, s)
		}
	}
	if len(matching) == 0 {
		// Fall back to the whole category rather than returning nothing.
		for _, t := range texts {
			matching = append(matching, newSample(t, category, "builtin"))
		}
	}

	out := make([]Sample, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, matching[i%len(matching)])
	}
	return out, nil
}

// Categories lists the categories the builtin pool covers.
func Categories() []string {
	return []string{CategoryNews, CategoryLiterature, CategoryConversation, CategoryTechnical, CategoryNarrative}
}
