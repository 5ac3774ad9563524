package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/typhonlabs/typhon/pkg/chaos"
	"github.com/typhonlabs/typhon/pkg/config"
	"github.com/typhonlabs/typhon/pkg/core"
	"github.com/typhonlabs/typhon/pkg/domains"
	"github.com/typhonlabs/typhon/pkg/intercept"
	"github.com/typhonlabs/typhon/pkg/journal"
	typhonmcp "github.com/typhonlabs/typhon/pkg/mcp"
	"github.com/typhonlabs/typhon/pkg/rag"
	"github.com/typhonlabs/typhon/pkg/session"
	"github.com/typhonlabs/typhon/pkg/telemetry"
)

// harness wires the chaos engine, the fault journal, the domain tools,
// and the retrieval layer into one ready-to-run assembly. Both the demo
// loop and the MCP server build on it.
type harness struct {
	cfg         *config.Config
	logger      *slog.Logger
	engine      *chaos.Engine
	store       *journal.Store
	interceptor *intercept.Interceptor
	tools       []core.Tool
	descs       map[string]string
	retrieval   *rag.RetrievalTool
	processor   *session.ResultProcessor
	shutdown    telemetry.ShutdownFunc
}

// applyChaosPolicy pushes a config chaos section onto a live engine. Used
// at startup and again on config hot reload.
func applyChaosPolicy(engine *chaos.Engine, cc config.ChaosConfig) error {
	for name, category := range cc.Categories() {
		if err := engine.SetCategory(chaos.Category(name), category.Enabled, category.Rate); err != nil {
			return err
		}
	}
	return nil
}

// newHarness assembles the full stack from config. A zero seed keeps the
// engine's own time-based seeding; any other value makes runs repeatable.
func newHarness(ctx context.Context, cfg *config.Config, logger *slog.Logger, seed int64) (*harness, error) {
	shutdown, err := telemetry.InitWithConfig("typhon", version, telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.Endpoint,
		OTLPInsecure: cfg.Telemetry.Insecure,
	})
	if err != nil {
		return nil, err
	}

	engineOpts := []chaos.Option{chaos.WithLogger(telemetry.ComponentLogger(logger, "engine"))}
	if seed != 0 {
		engineOpts = append(engineOpts, chaos.WithRand(rand.New(rand.NewSource(seed))))
	}
	engine := chaos.New(engineOpts...)
	if err := applyChaosPolicy(engine, cfg.Chaos); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	metrics, err := telemetry.NewChaosMetrics()
	if err != nil {
		_ = store.Close()
		_ = shutdown(ctx)
		return nil, err
	}

	interceptor := intercept.New(engine,
		intercept.WithFaultRecorder(store),
		intercept.WithMetrics(metrics),
		intercept.WithLogger(telemetry.ComponentLogger(logger, "interceptor")),
	)

	tools, err := domains.ToolsFor(cfg.Domains.Enabled)
	if err != nil {
		_ = store.Close()
		_ = shutdown(ctx)
		return nil, err
	}
	descs := make(map[string]string, len(tools))
	for _, tool := range tools {
		if fn, ok := tool.(core.ToolFunc); ok {
			descs[fn.Name()] = fn.Description
		}
	}

	kb, err := buildKnowledgeBase(ctx, cfg)
	if err != nil {
		_ = store.Close()
		_ = shutdown(ctx)
		return nil, err
	}
	retrieval := interceptor.WrapRetrievalTool(kb.Tool("retrieve_knowledge",
		"Retrieve relevant documents from the domain knowledge base."))
	descs[retrieval.Name] = retrieval.Description

	return &harness{
		cfg:         cfg,
		logger:      logger,
		engine:      engine,
		store:       store,
		interceptor: interceptor,
		tools:       interceptor.WrapAll(tools),
		descs:       descs,
		retrieval:   retrieval,
		processor:   session.NewResultProcessor(engine),
		shutdown:    shutdown,
	}, nil
}

// connectUpstream adapts the tools of an external MCP server to the
// core.Tool shape and runs them through the same chaos interception as
// the embedded domain tools. The returned client must be closed by the
// caller when the harness shuts down.
func (h *harness) connectUpstream(ctx context.Context, baseURL string) (*typhonmcp.Client, error) {
	client, err := typhonmcp.NewClientWithStreamableHTTPProtocol(baseURL, mcpgo.LATEST_PROTOCOL_VERSION)
	if err != nil {
		return nil, err
	}

	remote, err := client.ListTools(ctx)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	adapted, err := typhonmcp.AdaptTools(remote, client)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	for _, tool := range remote {
		h.descs[tool.Name] = tool.Description
	}

	h.tools = append(h.tools, h.interceptor.WrapAll(adapted)...)
	h.logger.Info("connected upstream MCP server", "url", baseURL, "tools", len(adapted))
	return client, nil
}

func (h *harness) Close(ctx context.Context) error {
	err := h.store.Close()
	if shutdownErr := h.shutdown(ctx); err == nil {
		err = shutdownErr
	}
	return err
}

func buildKnowledgeBase(ctx context.Context, cfg *config.Config) (*rag.KnowledgeBase, error) {
	var store rag.VectorStore
	switch cfg.RAG.Provider {
	case "qdrant":
		qdrantStore, err := rag.NewQdrantStore(cfg.RAG.QdrantAddr)
		if err != nil {
			return nil, err
		}
		store = qdrantStore
	case "inmemory", "":
		store = rag.NewInMemoryStore()
	default:
		return nil, fmt.Errorf("unknown rag provider %q", cfg.RAG.Provider)
	}

	kb := rag.NewKnowledgeBase(store, cfg.RAG.Collection, cfg.RAG.Limit)
	docs := make(map[string]string)
	for _, domain := range cfg.Domains.Enabled {
		for id, text := range knowledgeDocs(domain) {
			docs[id] = text
		}
	}
	if err := kb.Load(ctx, docs); err != nil {
		return nil, err
	}
	return kb, nil
}
