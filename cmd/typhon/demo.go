package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/typhonlabs/typhon/pkg/config"
	"github.com/typhonlabs/typhon/pkg/core"
	"github.com/typhonlabs/typhon/pkg/journal"
	"github.com/typhonlabs/typhon/pkg/session"
)

// sampleInputs drives the demo loop with one representative call per
// tool. Identifiers match the embedded mock datasets so healthy calls
// return real records.
var sampleInputs = map[string]map[string]any{
	"get_stock_price":         {"ticker": "AAPL"},
	"purchase_stocks":         {"ticker": "MSFT", "quantity": 10, "price": 415.50},
	"sell_stocks":             {"ticker": "GOOGL", "quantity": 5, "price": 200.00},
	"get_market_news":         {"ticker": "TSLA"},
	"get_account_information": {"user_id": "default"},

	"get_patient_info": {"patient_id": "12345"},
	"schedule_appointment": {
		"patient_id":       "12345",
		"provider_name":    "Dr. Sarah Johnson",
		"appointment_date": "2026-09-15",
		"appointment_time": "10:30",
		"reason":           "follow-up",
	},
	"get_medication_info":     {"medication_name": "aspirin"},
	"check_drug_interactions": {"medications": []any{"warfarin", "aspirin"}},
	"get_lab_results":         {"patient_id": "12345"},

	"search_products":    {"query": "flour", "category": "baking"},
	"create_cart":        {"items": []any{map[string]any{"sku": "001", "quantity": 2.0}}},
	"check_order_status": {"order_id": "ORD-000042"},
}

// retrievalQueries cycle through the knowledge base during the demo.
var retrievalQueries = []string{
	"What are the trading fees?",
	"When does support open?",
	"How long does settlement take?",
}

type demoCallResult struct {
	Tool          string `json:"tool"`
	ChaosInjected bool   `json:"chaos_injected"`
	StatusCode    string `json:"status_code,omitempty"`
	Output        string `json:"output"`
}

func runDemo(ctx context.Context, global globalFlags, cfg *config.Config, logger *slog.Logger, args []string) {
	cmd := flag.NewFlagSet("demo", flag.ContinueOnError)
	calls := cmd.Int("calls", 12, "number of tool calls")
	seed := cmd.Int64("seed", 0, "chaos engine seed (0 = time-based)")
	sessionID := cmd.String("session", "", "session id (default: generated)")
	noRAG := cmd.Bool("no-rag", false, "skip retrieval calls")
	if err := cmd.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(cmd.Args())

	h, err := newHarness(ctx, cfg, logger, *seed)
	if err != nil {
		fatal(err)
	}
	defer func() {
		if err := h.Close(context.Background()); err != nil {
			logger.Warn("harness shutdown failed", "error", err)
		}
	}()

	id := *sessionID
	if id == "" {
		id = session.NewSessionID()
	}
	ctx = core.WithSessionID(ctx, id)
	logger.Info("demo session started", "session", id, "calls", *calls)

	if len(h.tools) == 0 && *noRAG {
		fatal(fmt.Errorf("no domains enabled and retrieval disabled; nothing to call"))
	}

	results := make([]demoCallResult, 0, *calls)
	for i := 0; i < *calls; i++ {
		if len(h.tools) == 0 || (!*noRAG && i%(len(h.tools)+1) == len(h.tools)) {
			results = append(results, h.callRetrieval(ctx, global, retrievalQueries[i%len(retrievalQueries)]))
			continue
		}
		tool := h.tools[i%len(h.tools)]
		results = append(results, h.callTool(ctx, global, tool))
	}

	stats := h.engine.Stats()
	entries, err := h.store.List(ctx, journal.Filter{Session: id})
	if err != nil {
		fatal(err)
	}

	if global.JSON {
		printJSON(struct {
			Session string           `json:"session"`
			Calls   []demoCallResult `json:"calls"`
			Stats   any              `json:"stats"`
			Faults  int              `json:"recorded_faults"`
		}{Session: id, Calls: results, Stats: stats, Faults: len(entries)})
		return
	}

	writer := newTabWriter()
	writeRow(writer, "TOOL", "CHAOS", "STATUS", "OUTPUT")
	for _, result := range results {
		status := "-"
		if result.ChaosInjected {
			status = result.StatusCode
		}
		writeRow(writer, result.Tool, fmt.Sprintf("%t", result.ChaosInjected), status, truncateMessage(result.Output, 80))
	}
	writer.Flush()
	fmt.Printf("\nSession %s: %d calls, %d sloppy outputs, %d RAG failures, %d recorded faults\n",
		id, stats.APICallCount, stats.SloppyOutputs, stats.RAGFailures, len(entries))
}

func (h *harness) callTool(ctx context.Context, global globalFlags, tool core.Tool) demoCallResult {
	callCtx, cancel := context.WithTimeout(ctx, global.Timeout)
	defer cancel()

	input := sampleInputs[tool.Name()]
	out, err := tool.Call(callCtx, input)
	if err != nil {
		return demoCallResult{Tool: tool.Name(), Output: "error: " + err.Error()}
	}

	// Tool results pass through the consumption boundary the same way an
	// agent's message preparation would, so sloppiness and corruption
	// apply to what the demo prints, not to what the tool returned.
	text := h.processor.Process(stringify(out))
	result := demoCallResult{Tool: tool.Name(), Output: text}
	result.ChaosInjected, result.StatusCode = chaosStatus(text)
	return result
}

func (h *harness) callRetrieval(ctx context.Context, global globalFlags, query string) demoCallResult {
	callCtx, cancel := context.WithTimeout(ctx, global.Timeout)
	defer cancel()

	out, err := h.retrieval.Call(callCtx, query)
	if err != nil {
		return demoCallResult{Tool: h.retrieval.Name, Output: "error: " + err.Error()}
	}
	result := demoCallResult{Tool: h.retrieval.Name, Output: out}
	result.ChaosInjected, result.StatusCode = chaosStatus(out)
	return result
}

// chaosStatus sniffs an output string for an injected fault payload.
func chaosStatus(text string) (bool, string) {
	if !strings.Contains(text, `"chaos_injected":true`) {
		return false, ""
	}
	var payload struct {
		StatusCode string `json:"status_code"`
		ErrorType  string `json:"error_type"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return true, ""
	}
	if payload.StatusCode != "" {
		return true, payload.StatusCode
	}
	return true, payload.ErrorType
}

func stringify(out any) string {
	switch v := out.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// knowledgeDocs returns the mock knowledge base for one domain. The demo
// ships a handful of policy documents per domain; real deployments load
// their own corpus through pkg/rag.
func knowledgeDocs(domain string) map[string]string {
	switch domain {
	case "finance":
		return map[string]string{
			"finance-fees":       "Standard brokerage accounts are charged a flat fee of 10.00 USD per buy order and 14.99 USD per sell order.",
			"finance-settlement": "Equity trades settle on a T+2 basis. Funds from a sale are available for withdrawal two business days after execution.",
			"finance-hours":      "Market orders are accepted between 9:30 AM and 4:00 PM Eastern on trading days. Orders placed outside market hours queue for the next open.",
		}
	case "healthcare":
		return map[string]string{
			"healthcare-appointments": "Appointments can be scheduled up to 90 days in advance. Cancellations require 24 hours notice to avoid a missed-visit fee.",
			"healthcare-interactions": "Drug interaction checks compare every pair of medications against the interaction registry. A major severity finding requires pharmacist review before dispensing.",
			"healthcare-labs":         "Routine lab results are released to the patient portal within 3 business days of collection. Critical values are phoned to the ordering provider immediately.",
		}
	case "ecommerce":
		return map[string]string{
			"ecommerce-shipping": "Standard shipping takes 2-4 business days. Orders over 50.00 USD ship free; expedited shipping is available at checkout.",
			"ecommerce-returns":  "Unopened items may be returned within 30 days of delivery for a full refund. Perishable goods are not eligible for return.",
			"ecommerce-stock":    "Items showing in-stock ship from the nearest warehouse. Backordered items display an estimated restock date on the product page.",
		}
	default:
		return nil
	}
}
