package database

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/EmmittRel/zeeno-analytics/internal/models"
)

// VoteLoader batch-inserts aggregated vote rows.
type VoteLoader struct {
	Conn clickhouse.Conn
}

func NewVoteLoader(conn clickhouse.Conn) *VoteLoader {
	return &VoteLoader{
		Conn: conn,
	}
}

// Load inserts one refresh pass worth of daily vote rows.
func (l *VoteLoader) Load(ctx context.Context, rows []models.AggregatedVotes) error {
	batch, err := l.Conn.PrepareBatch(ctx, "INSERT INTO vote_analytics (date, contestant_id, transaction_count, total_votes)")
	if err != nil {
		return err
	}

	for _, row := range rows {
		err := batch.Append(row.Date, row.ContestantID, row.TransactionCount, row.TotalVotes)
		if err != nil {
			return err
		}
	}

	return batch.Send()
}
