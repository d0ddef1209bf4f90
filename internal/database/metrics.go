package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/EmmittRel/zeeno-analytics/internal/models"
)

// FetchVoteTotals retrieves the persisted vote rows for one date, summed
// per contestant.
func FetchVoteTotals(ctx context.Context, conn clickhouse.Conn, date time.Time) ([]models.AggregatedVotes, error) {
	var totals []models.AggregatedVotes
	query := `
    SELECT
        date,
        contestant_id,
        SUM(transaction_count) AS transaction_count,
        SUM(total_votes) AS total_votes
    FROM vote_analytics
    WHERE date = ?
    GROUP BY date, contestant_id
    ORDER BY total_votes DESC, contestant_id ASC
    `

	if err := conn.Select(ctx, &totals, query, date); err != nil {
		return nil, fmt.Errorf("fetching vote totals: %w", err)
	}

	return totals, nil
}
