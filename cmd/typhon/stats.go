package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/typhonlabs/typhon/pkg/chaos"
	"github.com/typhonlabs/typhon/pkg/config"
	"github.com/typhonlabs/typhon/pkg/journal"
)

type categorySummary struct {
	Category string  `json:"category"`
	Enabled  bool    `json:"enabled"`
	Rate     float64 `json:"rate"`
	Faults   int     `json:"recorded_faults"`
}

// runStats summarizes the configured policy against the faults the
// journal has accumulated across demo and serve runs.
func runStats(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	cmd := flag.NewFlagSet("stats", flag.ContinueOnError)
	sessionID := cmd.String("session", "", "restrict counts to one session")
	if err := cmd.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(cmd.Args())

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	categories := cfg.Chaos.Categories()
	summaries := make([]categorySummary, 0, len(chaos.Categories))
	total := 0
	for _, category := range chaos.Categories {
		entries, err := store.List(ctx, journal.Filter{
			Category: string(category),
			Session:  *sessionID,
		})
		if err != nil {
			fatal(err)
		}
		cc := categories[string(category)]
		summaries = append(summaries, categorySummary{
			Category: string(category),
			Enabled:  cc.Enabled,
			Rate:     cc.Rate,
			Faults:   len(entries),
		})
		total += len(entries)
	}

	if global.JSON {
		printJSON(struct {
			Categories []categorySummary `json:"categories"`
			Total      int               `json:"total_recorded_faults"`
		}{Categories: summaries, Total: total})
		return
	}

	writer := newTabWriter()
	writeRow(writer, "CATEGORY", "ENABLED", "RATE", "FAULTS")
	for _, summary := range summaries {
		writeRow(writer,
			summary.Category,
			fmt.Sprintf("%t", summary.Enabled),
			fmt.Sprintf("%.2f", summary.Rate),
			fmt.Sprintf("%d", summary.Faults),
		)
	}
	writer.Flush()
	fmt.Printf("\n%d recorded faults\n", total)
}
