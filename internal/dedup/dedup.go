// Package dedup collapses rapid-fire duplicates in the polled NQR
// bank-transfer feed.
//
// The upstream report can surface the same physical transfer several times
// within one polling window. The filter is a coarse time heuristic, not a
// content match: it accepts that two distinct real transfers inside the
// window collapse to one. It applies to the live-feed view only — vote
// totals and leaderboards never run through it and rely on the debitStatus
// filter alone.
package dedup

import (
	"sort"
	"time"

	"github.com/EmmittRel/zeeno-analytics/internal/models"
)

// Window is the minimum spacing between two kept transactions.
const Window = 15 * time.Minute

// Filter sorts the transactions by time ascending and keeps one
// representative per window: a transaction survives iff it is at least
// Window after the previously kept one. The input slice is not modified;
// the output is a subsequence of the sorted input.
func Filter(txs []models.NQRTransaction, window time.Duration) []models.NQRTransaction {
	if len(txs) == 0 {
		return nil
	}

	sorted := make([]models.NQRTransaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	kept := make([]models.NQRTransaction, 0, len(sorted))
	lastKept := time.Unix(0, 0).UTC()
	for _, tx := range sorted {
		if tx.Timestamp.Sub(lastKept) >= window {
			kept = append(kept, tx)
			lastKept = tx.Timestamp
		}
	}
	return kept
}
