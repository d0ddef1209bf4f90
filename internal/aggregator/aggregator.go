// Package aggregator turns normalized payments into vote totals for the
// dashboard views: leaderboards, processor and region breakdowns, daily
// persisted rows, and the six-hour activity series.
package aggregator

import (
	"sort"
	"strconv"
	"time"

	"github.com/EmmittRel/zeeno-analytics/internal/models"
	"github.com/EmmittRel/zeeno-analytics/internal/normalizer"
	"github.com/EmmittRel/zeeno-analytics/pkg/votes"
)

// QualifyingVotes is the per-transaction minimum applied by leaderboard and
// statistics views. Raw transaction-log views pass 0 and take everything.
const QualifyingVotes = 10

// Options controls which payments an aggregation pass admits.
type Options struct {
	// MinVotes drops any single payment converting to fewer votes than
	// this, evaluated per transaction before summation. Zero disables it.
	MinVotes int64

	// IncludeUnattributed counts payments with no contestant id. Grand
	// totals include them; per-contestant breakdowns never see them
	// because their key function skips nil ids.
	IncludeUnattributed bool
}

// KeyFunc maps a payment to its grouping key. ok=false excludes the payment
// from the grouping entirely.
type KeyFunc func(p models.NormalizedPayment) (key string, ok bool)

type Aggregator interface {
	Totals(payments []models.NormalizedPayment, keyFn KeyFunc, opts Options) map[string]int64
	Leaderboard(payments []models.NormalizedPayment, names map[int64]string) []models.LeaderboardEntry
	GrandTotal(payments []models.NormalizedPayment, opts Options) int64
	DailyRows(payments []models.NormalizedPayment) []models.AggregatedVotes
	ActivitySeries(payments []models.NormalizedPayment) []models.ActivityPoint
}

// VoteAggregator is the stateless Aggregator used everywhere; each call
// computes a fresh result from the snapshot it is handed.
type VoteAggregator struct{}

func NewAggregator() *VoteAggregator {
	return &VoteAggregator{}
}

// admit applies the success filter and the per-transaction options shared
// by every grouping.
func admit(p models.NormalizedPayment, opts Options) bool {
	if !normalizer.IsSuccess(p) {
		return false
	}
	if !opts.IncludeUnattributed && p.IntentID == nil {
		return false
	}
	if opts.MinVotes > 0 && votes.Calculate(p.Amount, p.Currency) < opts.MinVotes {
		return false
	}
	return true
}

// Totals groups successful payments by keyFn and sums their vote counts.
func (a *VoteAggregator) Totals(payments []models.NormalizedPayment, keyFn KeyFunc, opts Options) map[string]int64 {
	totals := make(map[string]int64)
	for _, p := range payments {
		if !admit(p, opts) {
			continue
		}
		key, ok := keyFn(p)
		if !ok {
			continue
		}
		totals[key] += votes.Calculate(p.Amount, p.Currency)
	}
	return totals
}

// GrandTotal sums votes across all successful payments, including the
// unattributed ones when opts says so.
func (a *VoteAggregator) GrandTotal(payments []models.NormalizedPayment, opts Options) int64 {
	var total int64
	for _, p := range payments {
		if !admit(p, opts) {
			continue
		}
		total += votes.Calculate(p.Amount, p.Currency)
	}
	return total
}

// Leaderboard ranks contestants by vote total, descending, applying the
// qualifying-vote minimum per transaction. Ties break on contestant id
// ascending so the order is deterministic across refreshes. Names missing
// from the lookup render as an empty string.
func (a *VoteAggregator) Leaderboard(payments []models.NormalizedPayment, names map[int64]string) []models.LeaderboardEntry {
	totals := make(map[int64]int64)
	for _, p := range payments {
		if !admit(p, Options{MinVotes: QualifyingVotes}) {
			continue
		}
		totals[*p.IntentID] += votes.Calculate(p.Amount, p.Currency)
	}

	entries := make([]models.LeaderboardEntry, 0, len(totals))
	for id, total := range totals {
		entries = append(entries, models.LeaderboardEntry{
			ContestantID: id,
			Name:         names[id],
			Votes:        total,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Votes != entries[j].Votes {
			return entries[i].Votes > entries[j].Votes
		}
		return entries[i].ContestantID < entries[j].ContestantID
	})
	return entries
}

// DailyRows produces the persisted per-day, per-contestant vote rows. It
// takes every successful attributed payment without the qualifying minimum
// so persisted totals match the raw transaction log.
func (a *VoteAggregator) DailyRows(payments []models.NormalizedPayment) []models.AggregatedVotes {
	rowMap := make(map[string]*models.AggregatedVotes)
	for _, p := range payments {
		if !admit(p, Options{}) {
			continue
		}

		date := p.Timestamp.Truncate(24 * time.Hour)
		key := date.Format("2006-01-02") + "/" + strconv.FormatInt(*p.IntentID, 10)

		row, exists := rowMap[key]
		if !exists {
			row = &models.AggregatedVotes{
				Date:         date,
				ContestantID: *p.IntentID,
			}
			rowMap[key] = row
		}
		row.TransactionCount++
		row.TotalVotes += votes.Calculate(p.Amount, p.Currency)
	}

	rows := make([]models.AggregatedVotes, 0, len(rowMap))
	for _, row := range rowMap {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ContestantID < rows[j].ContestantID
	})
	return rows
}

// ActivitySeries buckets successful payments into four six-hour slots per
// day (00:00, 06:00, 12:00, 18:00 boundaries). Days where every slot is
// zero are dropped; the series comes back in chronological order. The
// qualifying minimum applies, matching the statistics view this feeds.
func (a *VoteAggregator) ActivitySeries(payments []models.NormalizedPayment) []models.ActivityPoint {
	opts := Options{MinVotes: QualifyingVotes, IncludeUnattributed: true}

	byDay := make(map[string]*models.ActivityPoint)
	for _, p := range payments {
		if !admit(p, opts) {
			continue
		}

		day := p.Timestamp.Format("2006-01-02")
		point, exists := byDay[day]
		if !exists {
			point = &models.ActivityPoint{Date: day}
			byDay[day] = point
		}
		slot := p.Timestamp.Hour() / 6
		point.Slots[slot] += votes.Calculate(p.Amount, p.Currency)
	}

	series := make([]models.ActivityPoint, 0, len(byDay))
	for _, point := range byDay {
		if point.Slots[0] == 0 && point.Slots[1] == 0 && point.Slots[2] == 0 && point.Slots[3] == 0 {
			continue
		}
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

// ByProcessor keys a payment by its processor tag.
func ByProcessor(p models.NormalizedPayment) (string, bool) {
	return string(p.Processor), true
}

// ByCurrency keys a payment by its resolved currency.
func ByCurrency(p models.NormalizedPayment) (string, bool) {
	return p.Currency, true
}

// ByRegion buckets a payment into Nepal, India, or International by the
// currency it settled in.
func ByRegion(p models.NormalizedPayment) (string, bool) {
	switch p.Currency {
	case "NPR":
		return models.RegionNepal, true
	case "INR":
		return models.RegionIndia, true
	default:
		return models.RegionInternational, true
	}
}

// ByContestant keys a payment by contestant id, skipping unattributed
// payments.
func ByContestant(p models.NormalizedPayment) (string, bool) {
	if p.IntentID == nil {
		return "", false
	}
	return strconv.FormatInt(*p.IntentID, 10), true
}
