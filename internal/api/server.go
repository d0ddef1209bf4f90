// Package api serves the aggregated vote views over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/EmmittRel/zeeno-analytics/internal/aggregator"
	"github.com/EmmittRel/zeeno-analytics/internal/database"
	"github.com/EmmittRel/zeeno-analytics/internal/dedup"
	"github.com/EmmittRel/zeeno-analytics/internal/models"
	"github.com/EmmittRel/zeeno-analytics/internal/normalizer"
)

// SnapshotFetcher provides one refresh pass worth of remote data.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, eventID int64, from, to time.Time) (*models.Snapshot, error)
}

// Server holds the dependencies of the HTTP handlers. Conn may be nil,
// which disables the persisted-totals endpoint.
type Server struct {
	EventID    int64
	Fetcher    SnapshotFetcher
	Aggregator *aggregator.VoteAggregator
	Conn       clickhouse.Conn
}

// NewServer initializes a new API server instance.
func NewServer(eventID int64, fetcher SnapshotFetcher, agg *aggregator.VoteAggregator, conn clickhouse.Conn) *Server {
	return &Server{
		EventID:    eventID,
		Fetcher:    fetcher,
		Aggregator: agg,
		Conn:       conn,
	}
}

// snapshotRange reads the optional ?days= lookback, defaulting to 30.
func snapshotRange(r *http.Request) (time.Time, time.Time) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	to := time.Now()
	return to.AddDate(0, 0, -days), to
}

// LeaderboardHandler handles GET /leaderboard: a fresh snapshot ranked by
// qualifying votes per contestant.
func (s *Server) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	from, to := snapshotRange(r)
	snap, err := s.Fetcher.FetchSnapshot(r.Context(), s.EventID, from, to)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard refresh failed")
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}

	names := make(map[int64]string, len(snap.Contestants))
	for _, c := range snap.Contestants {
		names[c.ID] = c.Name
	}

	payments := normalizer.FromSnapshot(snap)
	entries := s.Aggregator.Leaderboard(payments, names)
	writeJSON(w, entries)
}

// ActivityHandler handles GET /activity: the six-hour-slot vote series.
func (s *Server) ActivityHandler(w http.ResponseWriter, r *http.Request) {
	from, to := snapshotRange(r)
	snap, err := s.Fetcher.FetchSnapshot(r.Context(), s.EventID, from, to)
	if err != nil {
		log.Error().Err(err).Msg("activity refresh failed")
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}

	series := s.Aggregator.ActivitySeries(normalizer.FromSnapshot(snap))
	writeJSON(w, series)
}

// FeedHandler handles GET /feed: the live NQR transfer feed with the
// 15-minute duplicate window applied. This is the only path that runs the
// deduplicator; totals and leaderboards never do.
func (s *Server) FeedHandler(w http.ResponseWriter, r *http.Request) {
	from, to := snapshotRange(r)
	snap, err := s.Fetcher.FetchSnapshot(r.Context(), s.EventID, from, to)
	if err != nil {
		log.Error().Err(err).Msg("feed refresh failed")
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}

	kept := dedup.Filter(snap.NQRTransactions, dedup.Window)
	feed := make([]models.NormalizedPayment, 0, len(kept))
	for _, tx := range kept {
		feed = append(feed, normalizer.NormalizeNQR(tx))
	}
	writeJSON(w, feed)
}

// TotalsHandler handles GET /totals?date=YYYY-MM-DD from the persisted
// vote rows.
func (s *Server) TotalsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Conn == nil {
		http.Error(w, "totals store not configured", http.StatusServiceUnavailable)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		http.Error(w, "missing 'date' query parameter", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.Error(w, "invalid date format, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	totals, err := database.FetchVoteTotals(r.Context(), s.Conn, date)
	if err != nil {
		log.Error().Err(err).Msg("fetching persisted totals failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, totals)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response failed")
	}
}

// withRequestID tags every request with an id for log correlation.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		log.Debug().Str("request_id", id).Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		next.ServeHTTP(w, r)
	})
}

// Routes builds the handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/leaderboard", s.LeaderboardHandler)
	mux.HandleFunc("/activity", s.ActivityHandler)
	mux.HandleFunc("/feed", s.FeedHandler)
	mux.HandleFunc("/totals", s.TotalsHandler)
	return withRequestID(mux)
}

// StartServer runs the API server until the listener fails.
func StartServer(addr string, server *Server) {
	log.Info().Str("addr", addr).Msg("API server running")
	if err := http.ListenAndServe(addr, server.Routes()); err != nil {
		log.Fatal().Err(err).Msg("API server failed")
	}
}
