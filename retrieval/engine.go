package retrieval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/hupe1980/confcierge/logging"
	"github.com/hupe1980/confcierge/model"
)

// Pipeline tuning constants.
const (
	// retrieveK is how many nearest neighbours are pulled before reranking.
	retrieveK = 20
	// DefaultTopK is the number of reranked results returned by default.
	DefaultTopK = 5
	// minKeepScore is the lowest rerank score that survives filtering;
	// entries scoring at or below 3 are dropped.
	minKeepScore = 4
	// indexBatchSize is how many texts are embedded per batch during indexing.
	indexBatchSize = 100
	// rerankExcerptChars / resultExcerptChars bound the excerpt lengths shown
	// to the reranker and in formatted results.
	rerankExcerptChars = 600
	resultExcerptChars = 800
)

// Status strings surfaced to callers (and ultimately to the model as tool
// output) for the recognizable non-result conditions.
const (
	StatusNotASchedule  = "Not a recognized schedule format (missing days)."
	StatusNoTalks       = "No talks found in schedule."
	StatusNoIndex       = "No schedule has been indexed for this session. Upload a schedule file first."
	StatusNoMatches     = "No matching sessions found."
	StatusNoneRelevant  = "No relevant sessions found after re-ranking."
	StatusNoOverview    = "No schedule overview for this session. Upload a schedule file first."
	overviewFilePattern = "%s-overview.txt"
)

// Options configure the retrieval Engine.
type Options struct {
	// PersistPath, when set, makes the vector store and overviews durable
	// under this directory. Empty means fully in-memory.
	PersistPath string
	// Compress enables gzip compression of the persisted store.
	Compress bool
	// Logger for index/query diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Engine owns the per-session vector collections and the overview texts.
// A reindex replaces a session's collection wholesale; it is not safe to run
// concurrently with a query against the same session.
type Engine struct {
	db       *chromem.DB
	embedder model.Embedder
	reranker Reranker
	logger   logging.Logger

	persistPath string

	mu        sync.Mutex
	overviews map[string]string
}

// NewEngine constructs an Engine over the given embedder and reranker.
func NewEngine(embedder model.Embedder, reranker Reranker, optFns ...func(o *Options)) (*Engine, error) {
	if embedder == nil {
		return nil, fmt.Errorf("retrieval: embedder is required")
	}
	if reranker == nil {
		return nil, fmt.Errorf("retrieval: reranker is required")
	}
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	var (
		db  *chromem.DB
		err error
	)
	if opts.PersistPath != "" {
		if err = os.MkdirAll(opts.PersistPath, 0o755); err != nil {
			return nil, fmt.Errorf("retrieval: create persist dir: %w", err)
		}
		db, err = chromem.NewPersistentDB(filepath.Join(opts.PersistPath, "chromem"), opts.Compress)
		if err != nil {
			return nil, fmt.Errorf("retrieval: open vector store: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	return &Engine{
		db:          db,
		embedder:    embedder,
		reranker:    reranker,
		logger:      opts.Logger,
		persistPath: opts.PersistPath,
		overviews:   map[string]string{},
	}, nil
}

// collectionName maps a session id to its single vector collection.
func collectionName(sessionID string) string { return "schedule-" + sessionID }

// embeddingFunc adapts the Embedder for chromem's query-time embedding hook.
func (e *Engine) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.embedder.EmbedQuery(ctx, text)
	}
}

// Index parses the schedule document, embeds every talk and replaces the
// session's collection wholesale with the result. It also derives and
// persists the compact overview. The returned string is a user-facing status;
// a document without days is reported via status, not error.
func (e *Engine) Index(ctx context.Context, sessionID string, scheduleJSON []byte) (string, error) {
	schedule, err := ParseSchedule(scheduleJSON)
	if err != nil {
		return "", err
	}
	if len(schedule.Days) == 0 {
		return StatusNotASchedule, nil
	}
	docs := schedule.Documents()
	if len(docs) == 0 {
		return StatusNoTalks, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := e.embedder.EmbedDocuments(ctx, texts[start:end])
		if err != nil {
			return "", fmt.Errorf("embed schedule documents: %w", err)
		}
		embeddings = append(embeddings, batch...)
	}
	if len(embeddings) != len(docs) {
		return "", fmt.Errorf("embedding count mismatch: %d documents, %d embeddings", len(docs), len(embeddings))
	}

	// Full replace, never a merge: drop any existing collection first.
	name := collectionName(sessionID)
	_ = e.db.DeleteCollection(name)
	coll, err := e.db.CreateCollection(name, nil, e.embeddingFunc())
	if err != nil {
		return "", fmt.Errorf("create collection: %w", err)
	}
	chromemDocs := make([]chromem.Document, len(docs))
	for i, d := range docs {
		chromemDocs[i] = chromem.Document{
			ID:        d.ID,
			Metadata:  d.Metadata,
			Embedding: embeddings[i],
			Content:   d.Text,
		}
	}
	if err := coll.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return "", fmt.Errorf("add documents: %w", err)
	}

	e.saveOverview(sessionID, schedule.Overview())

	e.logger.Info("retrieval.index.done", "session_id", sessionID, "documents", len(docs))

	return fmt.Sprintf("Indexed %d sessions for RAG and saved schedule overview.", len(docs)), nil
}

// Overview returns the compact program listing for the session, or the
// no-overview status when nothing has been indexed.
func (e *Engine) Overview(sessionID string) string {
	e.mu.Lock()
	overview, ok := e.overviews[sessionID]
	e.mu.Unlock()
	if ok {
		return overview
	}
	if e.persistPath != "" {
		data, err := os.ReadFile(e.overviewPath(sessionID))
		if err == nil {
			return string(data)
		}
	}
	return StatusNoOverview
}

// Query embeds the query text, retrieves the nearest neighbours from the
// session's collection, reranks them and formats the surviving entries. The
// no-index, no-matches and nothing-relevant conditions return their distinct
// status strings.
func (e *Engine) Query(ctx context.Context, sessionID, text string, topK int) (string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	coll := e.db.GetCollection(collectionName(sessionID), e.embeddingFunc())
	if coll == nil {
		return StatusNoIndex, nil
	}
	count := coll.Count()
	if count == 0 {
		return StatusNoMatches, nil
	}

	queryEmbedding, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	k := retrieveK
	if k > count {
		k = count
	}
	results, err := coll.QueryEmbedding(ctx, queryEmbedding, k, nil, nil)
	if err != nil {
		return "", fmt.Errorf("query collection: %w", err)
	}
	if len(results) == 0 {
		return StatusNoMatches, nil
	}

	candidates := make([]Candidate, len(results))
	for i, r := range results {
		candidates[i] = Candidate{
			Index:      i,
			Title:      r.Metadata["title"],
			Room:       r.Metadata["room"],
			Track:      r.Metadata["track"],
			Excerpt:    excerpt(r.Content, rerankExcerptChars),
			Similarity: r.Similarity,
		}
	}
	ranked, err := e.reranker.Rerank(ctx, text, candidates)
	if err != nil {
		return "", err
	}
	kept := filterRanked(ranked, len(results))
	if len(kept) == 0 {
		return StatusNoneRelevant, nil
	}
	if len(kept) > topK {
		kept = kept[:topK]
	}

	var b strings.Builder
	for i, entry := range kept {
		r := results[entry.Index]
		title := r.Metadata["title"]
		if title == "" {
			title = "(no title)"
		}
		fmt.Fprintf(&b, "--- Result %d ---\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", title)
		fmt.Fprintf(&b, "Room: %s\n", r.Metadata["room"])
		fmt.Fprintf(&b, "Date: %s\n", r.Metadata["date"])
		fmt.Fprintf(&b, "Start: %s\n", r.Metadata["start"])
		fmt.Fprintf(&b, "Track: %s\n", r.Metadata["track"])
		fmt.Fprintf(&b, "Excerpt: %s\n\n", excerpt(r.Content, resultExcerptChars))
	}
	return strings.TrimSpace(b.String()), nil
}

// filterRanked drops out-of-range indexes and entries scoring at or below the
// keep threshold, then orders by descending score. The sort is stable so ties
// keep the reranker's order.
func filterRanked(ranked []RankedEntry, candidateCount int) []RankedEntry {
	kept := make([]RankedEntry, 0, len(ranked))
	for _, entry := range ranked {
		if entry.Index < 0 || entry.Index >= candidateCount {
			continue
		}
		if entry.Score < minKeepScore {
			continue
		}
		kept = append(kept, entry)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	return kept
}

func (e *Engine) saveOverview(sessionID, overview string) {
	e.mu.Lock()
	e.overviews[sessionID] = overview
	e.mu.Unlock()
	if e.persistPath != "" {
		if err := os.WriteFile(e.overviewPath(sessionID), []byte(overview), 0o644); err != nil {
			e.logger.Warn("retrieval.overview.persist_failed", "session_id", sessionID, "error", err.Error())
		}
	}
}

func (e *Engine) overviewPath(sessionID string) string {
	return filepath.Join(e.persistPath, fmt.Sprintf(overviewFilePattern, sessionID))
}

func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
