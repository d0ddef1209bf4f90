package zeenopay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmittRel/zeeno-analytics/internal/cache"
)

func TestFetchPaymentIntents(t *testing.T) {
	t.Parallel()

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/intents/", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("event_id"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`[
			{"intent_id": 12, "event_id": 7, "amount": "500.00", "currency": "npr", "processor": "KHALTI", "status": "success", "created_at": "2025-03-01T10:00:00Z"},
			{"intent_id": null, "event_id": 7, "amount": 100, "processor": "STRIPE", "status": "failed", "created_at": "2025-03-01T11:00:00Z"}
		]`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, "tok")
	intents, err := client.FetchPaymentIntents(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, intents, 2)

	require.NotNil(t, intents[0].IntentID)
	assert.Equal(t, int64(12), *intents[0].IntentID)
	assert.Equal(t, "500", intents[0].Amount.String())
	assert.Equal(t, "KHALTI", intents[0].Processor)

	assert.Nil(t, intents[1].IntentID)
	assert.Equal(t, "100", intents[1].Amount.String())
	assert.Empty(t, intents[1].Currency)
}

func TestFetchNQRTransactions(t *testing.T) {
	t.Parallel()

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/nqr/transactions/", r.URL.Path)
		assert.Equal(t, "2025-03-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2025-03-02", r.URL.Query().Get("end_date"))
		w.Write([]byte(`{
			"transactions": {
				"responseBody": [
					{"amount": "250.00", "addenda1": "vnpr-2a", "addenda2": "ref", "debitStatus": "000", "localTransactionDateTime": "2025-03-01T10:00:00"},
					{"amount": "100.00", "addenda1": "plain memo", "addenda2": "", "debitStatus": "001", "localTransactionDateTime": "garbage"}
				]
			}
		}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, "")
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	txs, err := client.FetchNQRTransactions(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "vnpr-2a", txs[0].Addenda1)
	assert.Equal(t, "000", txs[0].DebitStatus)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), txs[0].Timestamp)

	// Unparseable timestamp keeps the record with a zero time.
	assert.True(t, txs[1].Timestamp.IsZero())
}

func TestFetchEventsHTTPError(t *testing.T) {
	t.Parallel()

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, "")
	_, err := client.FetchEvents(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPStatus)
}

func TestFetchEventsInvalidJSON(t *testing.T) {
	t.Parallel()

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, "")
	_, err := client.FetchEvents(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGetJSONUsesCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"id": 1, "title": "Miss Koshi"}]`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, "", WithCache(cache.New(), time.Minute))

	for i := 0; i < 3; i++ {
		events, err := client.FetchEvents(context.Background())
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Miss Koshi", events[0].Title)
	}

	assert.Equal(t, int64(1), hits.Load())
}

func TestFetchSnapshot(t *testing.T) {
	t.Parallel()

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/events/contestants/":
			w.Write([]byte(`[{"id": 1, "event": 7, "name": "Anita"}]`))
		case "/payments/intents/":
			w.Write([]byte(`[{"intent_id": 1, "amount": "100", "processor": "KHALTI", "status": "success"}]`))
		case "/payments/qr/intents/":
			w.Write([]byte(`[]`))
		case "/payments/nqr/transactions/":
			w.Write([]byte(`{"transactions": {"responseBody": [{"amount": "50", "debitStatus": "000", "localTransactionDateTime": "2025-03-01T09:00:00"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, "")
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	snap, err := client.FetchSnapshot(context.Background(), 7, from, from)
	require.NoError(t, err)
	assert.Len(t, snap.Contestants, 1)
	assert.Len(t, snap.Intents, 1)
	assert.Empty(t, snap.QRIntents)
	assert.Len(t, snap.NQRTransactions, 1)
}

func TestFetchSnapshotFailsWhole(t *testing.T) {
	t.Parallel()

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/payments/nqr/transactions/" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, "")
	_, err := client.FetchSnapshot(context.Background(), 7, time.Now(), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPStatus)
}
