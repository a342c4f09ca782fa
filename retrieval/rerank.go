package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/confcierge/core"
	"github.com/hupe1980/confcierge/model"
)

// Candidate is one retrieved entry handed to the reranker. Similarity is the
// vector-search score; it is carried for context but not consumed by the
// scoring or tie-breaking of the current rerankers.
type Candidate struct {
	Index      int
	Title      string
	Room       string
	Track      string
	Excerpt    string
	Similarity float32
}

// RankedEntry is a reranker verdict for one candidate: the original index and
// a 0-10 relevance score. Entries the reranker drops are simply absent.
type RankedEntry struct {
	Index  int    `json:"index"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Reranker reorders and filters retrieved candidates by relevance to a query.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []Candidate) ([]RankedEntry, error)
}

const rerankInstructions = `You are a re-ranker for conference schedule search results.
Given a user query and a list of retrieved schedule entries (each with index, title, room, track, and excerpt), you must:
1. Evaluate how relevant each entry is to the query (0-10).
2. Drop entries that are clearly irrelevant (score 0-3).
3. Return the remaining entries in order of relevance (most relevant first).

Each kept entry must have:
- "index": the original index of the entry
- "score": number from 1 to 10 (relevance)
- "reason": one short phrase why it's relevant

If nothing is relevant, return an empty results list.`

var rerankSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"results": map[string]any{
			"type":        "array",
			"description": "The reranked results",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"index":  map[string]any{"type": "integer", "description": "The original index of the entry"},
					"score":  map[string]any{"type": "integer", "description": "Number from 1 to 10 (relevance)"},
					"reason": map[string]any{"type": "string", "description": "One short phrase why it's relevant"},
				},
				"required":             []string{"index", "score", "reason"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"results"},
	"additionalProperties": false,
}

// ModelReranker scores candidates with a structured-output model call.
type ModelReranker struct {
	model model.Model
}

// NewModelReranker constructs a reranker on top of the given model.
func NewModelReranker(m model.Model) *ModelReranker {
	return &ModelReranker{model: m}
}

// Rerank implements Reranker.
func (r *ModelReranker) Rerank(ctx context.Context, query string, candidates []Candidate) ([]RankedEntry, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	blocks := make([]string, len(candidates))
	for i, c := range candidates {
		title := c.Title
		if title == "" {
			title = "(no title)"
		}
		blocks[i] = fmt.Sprintf("[%d] Title: %s\nRoom: %s | Track: %s\nExcerpt: %s", c.Index, title, c.Room, c.Track, c.Excerpt)
	}
	resp, err := r.model.Generate(ctx, model.Request{
		Instructions: rerankInstructions,
		Messages: []core.Message{
			core.UserMessage(fmt.Sprintf("Query: %s\n\nRetrieved entries:\n%s", query, strings.Join(blocks, "\n\n"))),
		},
		ResponseSchema: &model.ResponseSchema{Name: "rerank_response", Schema: rerankSchema},
	})
	if err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}
	var parsed struct {
		Results []RankedEntry `json:"results"`
	}
	if err := resp.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}
	return parsed.Results, nil
}
