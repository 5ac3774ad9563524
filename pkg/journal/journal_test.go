package journal

import (
	"context"
	"database/sql"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entry := NewEntry("tool_instability", "get_stock_price", "503", "Get Stock Price temporarily unavailable (503 Service Unavailable)")
	entry.Session = "session-1"
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("record: %v", err)
	}

	entries, err := store.List(ctx, Filter{Category: "tool_instability"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.ID != entry.ID {
		t.Errorf("expected id %s, got %s", entry.ID, got.ID)
	}
	if got.Tool != "get_stock_price" || got.StatusCode != "503" || got.Session != "session-1" {
		t.Errorf("unexpected entry: %+v", got)
	}
}

func TestListFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	faults := []struct {
		category string
		tool     string
		session  string
	}{
		{"tool_instability", "get_stock_price", "s1"},
		{"rate_limit", "get_stock_price", "s1"},
		{"rag_chaos", "rag_retrieval", "s2"},
	}
	for _, f := range faults {
		entry := NewEntry(f.category, f.tool, "", "injected")
		entry.Session = f.session
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	tests := []struct {
		name     string
		filter   Filter
		expected int
	}{
		{"all", Filter{}, 3},
		{"by category", Filter{Category: "rate_limit"}, 1},
		{"by tool", Filter{Tool: "get_stock_price"}, 2},
		{"by session", Filter{Session: "s2"}, 1},
		{"with limit", Filter{Limit: 2}, 2},
		{"no match", Filter{Category: "sloppiness"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(entries) != tt.expected {
				t.Errorf("expected %d entries, got %d", tt.expected, len(entries))
			}
		})
	}
}

func TestNewEntryDefaults(t *testing.T) {
	entry := NewEntry("rag_chaos", "rag_retrieval", "", "Document index corrupted")
	if entry.ID == "" {
		t.Error("expected generated id")
	}
	if entry.Time.IsZero() {
		t.Error("expected timestamp")
	}
}
