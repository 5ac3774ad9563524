package main

import (
	"context"
	"fmt"

	typherr "github.com/typhonlabs/typhon/pkg/errors"
	"github.com/typhonlabs/typhon/pkg/rag"
)

// retrievalAdapter exposes a retrieval tool through the core.Tool
// calling convention so it can be registered on the MCP server next to
// the domain tools.
type retrievalAdapter struct {
	tool *rag.RetrievalTool
}

func (a retrievalAdapter) Name() string { return a.tool.Name }

func (a retrievalAdapter) Call(ctx context.Context, input any) (any, error) {
	query, err := queryFromInput(input)
	if err != nil {
		return nil, err
	}
	return a.tool.Call(ctx, query)
}

func queryFromInput(input any) (string, error) {
	switch v := input.(type) {
	case string:
		return v, nil
	case map[string]any:
		if query, ok := v["query"].(string); ok {
			return query, nil
		}
		return "", typherr.New(typherr.CodeInvalidInput, "missing required argument: query", nil)
	default:
		return "", typherr.New(typherr.CodeInvalidInput,
			fmt.Sprintf("unsupported retrieval input type %T", input), nil)
	}
}
