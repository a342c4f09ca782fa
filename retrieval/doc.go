// Package retrieval indexes an uploaded conference schedule into a
// per-session vector collection and answers semantic queries over it via an
// embed -> nearest-neighbour search -> LLM rerank pipeline. It also derives a
// compact plain-text overview of the whole program for non-semantic
// "what's on" questions.
//
// The vector store is chromem-go, an embeddable pure-Go vector database. Each
// session owns exactly one collection; reindexing replaces it wholesale.
// Indexing and querying the same session are not safe to run concurrently;
// callers serialize those two operations themselves.
package retrieval
