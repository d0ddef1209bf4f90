package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/EmmittRel/zeeno-analytics/internal/models"
)

// ReportExporter writes leaderboard snapshots as CSV objects, the download
// the dashboard offers its operators.
type ReportExporter struct {
	Storage Storage
}

func NewReportExporter(storage Storage) *ReportExporter {
	return &ReportExporter{
		Storage: storage,
	}
}

// ExportLeaderboard uploads the ranked entries for one event as
// leaderboard-<event>-<date>.csv.
func (e *ReportExporter) ExportLeaderboard(entries []models.LeaderboardEntry, eventID int64, date time.Time) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"rank", "contestant_id", "name", "votes"}); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for i, entry := range entries {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(entry.ContestantID, 10),
			entry.Name,
			strconv.FormatInt(entry.Votes, 10),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing CSV writer: %w", err)
	}

	objectName := fmt.Sprintf("leaderboard-%d-%s.csv", eventID, date.Format("2006-01-02"))
	if err := e.Storage.UploadFile(objectName, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("error uploading leaderboard export: %w", err)
	}
	return nil
}
