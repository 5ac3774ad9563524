package main

import (
	"fmt"

	"github.com/typhonlabs/typhon/pkg/chaos"
	"github.com/typhonlabs/typhon/pkg/config"
)

type chaosPolicyRow struct {
	Category string  `json:"category"`
	Enabled  bool    `json:"enabled"`
	Rate     float64 `json:"rate"`
	Default  float64 `json:"default_rate"`
}

// runChaosShow prints the effective chaos policy as resolved from config
// defaults, files, environment, and --set overrides.
func runChaosShow(global globalFlags, cfg *config.Config, args []string) {
	if len(args) == 0 || args[0] != "show" {
		fatal(fmt.Errorf("usage: typhon chaos show"))
	}
	ensureNoArgs(args[1:])

	categories := cfg.Chaos.Categories()
	rows := make([]chaosPolicyRow, 0, len(chaos.Categories))
	for _, category := range chaos.Categories {
		cc := categories[string(category)]
		rows = append(rows, chaosPolicyRow{
			Category: string(category),
			Enabled:  cc.Enabled,
			Rate:     cc.Rate,
			Default:  chaos.DefaultRate(category),
		})
	}

	if global.JSON {
		printJSON(rows)
		return
	}

	writer := newTabWriter()
	writeRow(writer, "CATEGORY", "ENABLED", "RATE", "DEFAULT")
	for _, row := range rows {
		writeRow(writer,
			row.Category,
			fmt.Sprintf("%t", row.Enabled),
			fmt.Sprintf("%.2f", row.Rate),
			fmt.Sprintf("%.2f", row.Default),
		)
	}
	writer.Flush()
}
