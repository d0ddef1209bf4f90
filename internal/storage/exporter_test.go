package storage

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmittRel/zeeno-analytics/internal/models"
)

type captureStorage struct {
	objectName string
	body       []byte
	err        error
}

func (c *captureStorage) UploadFile(objectName string, reader io.Reader) error {
	if c.err != nil {
		return c.err
	}
	c.objectName = objectName
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	c.body = body
	return nil
}

func TestExportLeaderboard(t *testing.T) {
	t.Parallel()

	capture := &captureStorage{}
	exporter := NewReportExporter(capture)

	entries := []models.LeaderboardEntry{
		{ContestantID: 3, Name: "Chandra", Votes: 150},
		{ContestantID: 1, Name: "Anita", Votes: 100},
	}
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	err := exporter.ExportLeaderboard(entries, 7, date)
	require.NoError(t, err)

	assert.Equal(t, "leaderboard-7-2025-03-01.csv", capture.objectName)
	expected := "rank,contestant_id,name,votes\n" +
		"1,3,Chandra,150\n" +
		"2,1,Anita,100\n"
	assert.Equal(t, expected, string(capture.body))
}

func TestExportLeaderboardUploadError(t *testing.T) {
	t.Parallel()

	exporter := NewReportExporter(&captureStorage{err: errors.New("bucket gone")})
	err := exporter.ExportLeaderboard(nil, 7, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}
