package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/confcierge/model"
	"github.com/openai/openai-go"
)

// embedBatchSize caps how many inputs are sent per embeddings request.
const embedBatchSize = 100

// EmbedderOptions configure the OpenAI embedder.
type EmbedderOptions struct {
	Model string
}

// Embedder implements model.Embedder using the OpenAI embeddings endpoint.
type Embedder struct {
	client *openai.Client
	opts   EmbedderOptions
}

// NewEmbedder creates an Embedder using the official client.
func NewEmbedder(optFns ...func(o *EmbedderOptions)) *Embedder {
	client := openai.NewClient()
	return NewEmbedderFromClient(&client, optFns...)
}

// NewEmbedderFromClient creates an Embedder from an existing client.
func NewEmbedderFromClient(client *openai.Client, optFns ...func(o *EmbedderOptions)) *Embedder {
	opts := EmbedderOptions{Model: openai.EmbeddingModelTextEmbedding3Small}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Embedder{client: client, opts: opts}
}

// EmbedDocuments embeds texts in batches of at most 100. Blank inputs are
// substituted with a single space; the API rejects empty strings.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := make([]string, end-start)
		for i, t := range texts[start:end] {
			if strings.TrimSpace(t) == "" {
				t = " "
			}
			batch[i] = t
		}
		resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Model: e.opts.Model,
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
		})
		if err != nil {
			return nil, fmt.Errorf("openai embeddings error: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embeddings count mismatch: sent %d, got %d", len(batch), len(resp.Data))
		}
		for _, d := range resp.Data {
			out = append(out, toFloat32(d.Embedding))
		}
	}
	return out, nil
}

// EmbedQuery embeds a single query text.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

var _ model.Embedder = (*Embedder)(nil)
