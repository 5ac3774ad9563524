// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package intercept

import (
	"context"

	"github.com/typhonlabs/typhon/pkg/chaos"
	"github.com/typhonlabs/typhon/pkg/core"
	"github.com/typhonlabs/typhon/pkg/journal"
	"github.com/typhonlabs/typhon/pkg/rag"
)

// WrapRetrievalFunc wraps a bare retrieval callable with the RAG chaos
// check. When the fault fires, the original is not invoked and the caller
// receives a structured payload with an empty document set.
func (i *Interceptor) WrapRetrievalFunc(fn rag.RetrievalFunc) rag.RetrievalFunc {
	return func(ctx context.Context, query string) (string, error) {
		if fired, msg := i.engine.ShouldDisconnectRAG(); fired {
			i.recordRAGFault(ctx, msg)
			return chaos.NewRAGErrorPayload(msg).JSON(), nil
		}
		return fn(ctx, query)
	}
}

// WrapRetrievalTool wraps the richer retrieval tool shape, reconstructing
// an equivalent tool with identical name, description, and argument
// schema; only the inner callable is replaced.
func (i *Interceptor) WrapRetrievalTool(tool *rag.RetrievalTool) *rag.RetrievalTool {
	return &rag.RetrievalTool{
		Name:        tool.Name,
		Description: tool.Description,
		ArgsSchema:  tool.ArgsSchema,
		Func:        i.WrapRetrievalFunc(tool.Func),
	}
}

// WrapRetrieval wraps whichever retrieval calling convention the caller
// used, preserving it: a *rag.RetrievalTool comes back as a
// *rag.RetrievalTool, a bare function as a bare function. Unrecognized
// values pass through unchanged.
func (i *Interceptor) WrapRetrieval(tool any) any {
	switch t := tool.(type) {
	case *rag.RetrievalTool:
		return i.WrapRetrievalTool(t)
	case rag.RetrievalFunc:
		return i.WrapRetrievalFunc(t)
	case func(ctx context.Context, query string) (string, error):
		return i.WrapRetrievalFunc(t)
	default:
		return tool
	}
}

func (i *Interceptor) recordRAGFault(ctx context.Context, msg string) {
	if i.metrics != nil {
		i.metrics.RecordInjection(ctx, string(chaos.CategoryRAGChaos), "rag_retrieval")
	}
	if i.recorder != nil {
		entry := journal.NewEntry(string(chaos.CategoryRAGChaos), "rag_retrieval", "", msg)
		if id, ok := core.SessionID(ctx); ok {
			entry.Session = id
		}
		if err := i.recorder.Record(ctx, entry); err != nil {
			i.logger.Warn("fault journal write failed", "error", err)
		}
	}
}
