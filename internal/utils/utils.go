package utils

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/EmmittRel/zeeno-analytics/internal/models"
)

// ExtractUniqueProcessors returns the distinct processor tags seen in a
// batch of normalized payments.
func ExtractUniqueProcessors(payments []models.NormalizedPayment) []models.Processor {
	seen := make(map[models.Processor]struct{})
	for _, p := range payments {
		seen[p.Processor] = struct{}{}
	}
	processors := make([]models.Processor, 0, len(seen))
	for proc := range seen {
		processors = append(processors, proc)
	}
	return processors
}

// DisplayLeaderboard prints the ranked contestants in a table format.
func DisplayLeaderboard(entries []models.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Println("No leaderboard entries to display.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Rank", "Contestant ID", "Name", "Votes"})

	for i, entry := range entries {
		t.AppendRow(table.Row{
			i + 1,
			entry.ContestantID,
			entry.Name,
			entry.Votes,
		})
	}

	t.Render()
}

// DisplayRegionTotals prints per-region vote totals in a table format.
func DisplayRegionTotals(totals map[string]int64) {
	if len(totals) == 0 {
		fmt.Println("No region totals to display.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Region", "Votes"})

	for _, region := range []string{models.RegionNepal, models.RegionIndia, models.RegionInternational} {
		if v, ok := totals[region]; ok {
			t.AppendRow(table.Row{region, v})
		}
	}

	t.Render()
}
