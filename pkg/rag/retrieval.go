package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/typhonlabs/typhon/pkg/errors"
)

// embedDim is the dimensionality of the feature-hashed query/document
// vectors. The demo harness has no embedding service; term feature
// hashing is enough to make vector search behave plausibly over the
// small mock knowledge bases.
const embedDim = 256

// RetrievalFunc is the bare retrieval calling convention: a query in,
// a serialized document set out.
type RetrievalFunc func(ctx context.Context, query string) (string, error)

// RetrievalTool is the richer retrieval calling convention: a named tool
// with a description and argument schema around an inner RetrievalFunc.
// Chaos wrapping must preserve everything but Func.
type RetrievalTool struct {
	Name        string
	Description string
	ArgsSchema  mcp.ToolInputSchema
	Func        RetrievalFunc
}

// Call invokes the inner retrieval function.
func (t *RetrievalTool) Call(ctx context.Context, query string) (string, error) {
	return t.Func(ctx, query)
}

// RetrievalResponse is the serialized shape of a successful retrieval.
type RetrievalResponse struct {
	Query              string   `json:"query"`
	RetrievedDocuments []string `json:"retrieved_documents"`
}

// KnowledgeBase is a domain knowledge base backed by a VectorStore.
type KnowledgeBase struct {
	store      VectorStore
	collection string
	limit      int
}

// NewKnowledgeBase wraps a store and collection for retrieval.
func NewKnowledgeBase(store VectorStore, collection string, limit int) *KnowledgeBase {
	if limit <= 0 {
		limit = 3
	}
	return &KnowledgeBase{store: store, collection: collection, limit: limit}
}

// Load indexes documents into the knowledge base.
func (kb *KnowledgeBase) Load(ctx context.Context, docs map[string]string) error {
	points := make([]Point, 0, len(docs))
	for id, text := range docs {
		points = append(points, Point{
			ID:      id,
			Vector:  Embed(text),
			Payload: map[string]interface{}{"text": text},
		})
	}
	if err := kb.store.CreateCollection(ctx, kb.collection, embedDim); err != nil {
		return errors.New(errors.CodeStorageError, "create collection failed", err).
			WithContext("collection", kb.collection)
	}
	if err := kb.store.Upsert(ctx, kb.collection, points); err != nil {
		return errors.New(errors.CodeStorageError, "index documents failed", err).
			WithContext("collection", kb.collection)
	}
	return nil
}

// Retrieve returns the serialized document set for a query.
func (kb *KnowledgeBase) Retrieve(ctx context.Context, query string) (string, error) {
	results, err := kb.store.Search(ctx, kb.collection, Embed(query), kb.limit, 0)
	if err != nil {
		return "", errors.New(errors.CodeStorageError, "vector search failed", err).
			WithContext("collection", kb.collection).
			WithContext("query", query)
	}

	docs := make([]string, 0, len(results))
	for _, r := range results {
		if text, ok := r.Point.Payload["text"].(string); ok {
			docs = append(docs, text)
		}
	}

	data, err := json.Marshal(RetrievalResponse{Query: query, RetrievedDocuments: docs})
	if err != nil {
		return "", fmt.Errorf("serialize retrieval response: %w", err)
	}
	return string(data), nil
}

// Tool builds the RetrievalTool the agent layer registers for a domain.
func (kb *KnowledgeBase) Tool(name, description string) *RetrievalTool {
	return &RetrievalTool{
		Name:        name,
		Description: description,
		ArgsSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Natural language query against the domain knowledge base",
				},
			},
			Required: []string{"query"},
		},
		Func: kb.Retrieve,
	}
}

// Embed converts text to a feature-hashed term vector.
func Embed(text string) []float32 {
	vec := make([]float32, embedDim)
	for _, term := range strings.Fields(strings.ToLower(text)) {
		term = strings.Trim(term, ".,;:!?\"'()")
		if term == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(term))
		vec[h.Sum32()%embedDim]++
	}
	return vec
}
