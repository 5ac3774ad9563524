package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/typhonlabs/typhon/pkg/config"
	"github.com/typhonlabs/typhon/pkg/journal"
)

// runJournal queries the fault journal written by previous demo or serve
// runs.
func runJournal(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	if len(args) == 0 || args[0] != "list" {
		fatal(fmt.Errorf("usage: typhon journal list [--category <c>] [--tool <t>] [--session <id>] [--limit N]"))
	}

	cmd := flag.NewFlagSet("journal list", flag.ContinueOnError)
	category := cmd.String("category", "", "filter by fault category")
	tool := cmd.String("tool", "", "filter by tool name")
	sessionID := cmd.String("session", "", "filter by session id")
	limit := cmd.Int("limit", 50, "maximum entries")
	if err := cmd.Parse(args[1:]); err != nil {
		fatal(err)
	}
	ensureNoArgs(cmd.Args())

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	entries, err := store.List(ctx, journal.Filter{
		Category: *category,
		Tool:     *tool,
		Session:  *sessionID,
		Limit:    *limit,
	})
	if err != nil {
		fatal(err)
	}

	if global.JSON {
		printJSON(entries)
		return
	}

	writer := newTabWriter()
	writeRow(writer, "TIME", "CATEGORY", "TOOL", "STATUS", "SESSION", "MESSAGE")
	for _, entry := range entries {
		writeRow(writer,
			formatTime(entry.Time),
			entry.Category,
			entry.Tool,
			entry.StatusCode,
			entry.Session,
			truncateMessage(entry.Message, 60),
		)
	}
	writer.Flush()
}
