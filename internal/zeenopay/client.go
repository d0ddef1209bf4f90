// Package zeenopay is the HTTP client for the auth.zeenopay.com REST API:
// events, contestants, payment intents, QR intents, and the NQR static
// transaction report.
package zeenopay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/EmmittRel/zeeno-analytics/internal/cache"
	"github.com/EmmittRel/zeeno-analytics/internal/models"
)

var (
	ErrHTTPStatus      = errors.New("unexpected HTTP status from zeenopay API")
	ErrInvalidResponse = errors.New("invalid zeenopay API response")
)

// DefaultBaseURL is the fixed production API host.
const DefaultBaseURL = "https://auth.zeenopay.com"

// nqrTimeLayout is the timestamp format of the NQR transaction report.
const nqrTimeLayout = "2006-01-02T15:04:05"

// Client fetches platform data over HTTP. The fetch function is a field so
// tests can point the client at a mock server, same as responses can be
// served from the optional TTL cache.
type Client struct {
	baseURL   string
	token     string
	cache     *cache.Cache
	cacheTTL  time.Duration
	fetchFunc func(ctx context.Context, rawURL string) (*http.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// WithCache serves repeat requests from a TTL cache keyed by URL.
func WithCache(c *cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// NewClient returns a client for the given API host. An empty baseURL uses
// the production host; token, when set, is sent as a bearer credential.
func NewClient(baseURL, token string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		token:   token,
	}
	c.fetchFunc = c.fetchResponse
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetchResponse performs an authenticated GET and rejects non-2xx statuses.
func (c *Client) fetchResponse(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d for %s", ErrHTTPStatus, resp.StatusCode, rawURL)
	}
	return resp, nil
}

// getJSON fetches rawURL and decodes the body into v, serving from the
// cache when one is configured.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	if c.cache != nil {
		if body, ok := c.cache.Get(rawURL); ok {
			if err := json.Unmarshal(body, v); err != nil {
				return fmt.Errorf("%w: decoding cached body: %v", ErrInvalidResponse, err)
			}
			return nil
		}
	}

	resp, err := c.fetchFunc(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if c.cache != nil {
		c.cache.Set(rawURL, body, c.cacheTTL)
	}
	return nil
}

// FetchEvents returns all events visible to the configured credential.
func (c *Client) FetchEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.getJSON(ctx, c.baseURL+"/events/", &events); err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}
	return events, nil
}

// FetchContestants returns the contestants of one event.
func (c *Client) FetchContestants(ctx context.Context, eventID int64) ([]models.Contestant, error) {
	var contestants []models.Contestant
	u := c.baseURL + "/events/contestants/?event_id=" + strconv.FormatInt(eventID, 10)
	if err := c.getJSON(ctx, u, &contestants); err != nil {
		return nil, fmt.Errorf("fetching contestants: %w", err)
	}
	return contestants, nil
}

// FetchPaymentIntents returns the card/wallet payment intents of one event.
func (c *Client) FetchPaymentIntents(ctx context.Context, eventID int64) ([]models.PaymentIntent, error) {
	var intents []models.PaymentIntent
	u := c.baseURL + "/payments/intents/?event_id=" + strconv.FormatInt(eventID, 10)
	if err := c.getJSON(ctx, u, &intents); err != nil {
		return nil, fmt.Errorf("fetching payment intents: %w", err)
	}
	return intents, nil
}

// FetchQRIntents returns the static-QR payment intents of one event.
func (c *Client) FetchQRIntents(ctx context.Context, eventID int64) ([]models.PaymentIntent, error) {
	var intents []models.PaymentIntent
	u := c.baseURL + "/payments/qr/intents/?event_id=" + strconv.FormatInt(eventID, 10)
	if err := c.getJSON(ctx, u, &intents); err != nil {
		return nil, fmt.Errorf("fetching QR intents: %w", err)
	}
	return intents, nil
}

// nqrEnvelope mirrors the nested shape of the NQR static report.
type nqrEnvelope struct {
	Transactions struct {
		ResponseBody []nqrRecord `json:"responseBody"`
	} `json:"transactions"`
}

type nqrRecord struct {
	Amount                   decimal.Decimal `json:"amount"`
	Addenda1                 string          `json:"addenda1"`
	Addenda2                 string          `json:"addenda2"`
	DebitStatus              string          `json:"debitStatus"`
	LocalTransactionDateTime string          `json:"localTransactionDateTime"`
}

// FetchNQRTransactions returns the NQR bank transfers between from and to,
// inclusive, flattened out of the report envelope.
func (c *Client) FetchNQRTransactions(ctx context.Context, from, to time.Time) ([]models.NQRTransaction, error) {
	q := url.Values{}
	q.Set("start_date", from.Format("2006-01-02"))
	q.Set("end_date", to.Format("2006-01-02"))

	var envelope nqrEnvelope
	u := c.baseURL + "/payments/nqr/transactions/?" + q.Encode()
	if err := c.getJSON(ctx, u, &envelope); err != nil {
		return nil, fmt.Errorf("fetching NQR transactions: %w", err)
	}

	txs := make([]models.NQRTransaction, 0, len(envelope.Transactions.ResponseBody))
	for _, rec := range envelope.Transactions.ResponseBody {
		txs = append(txs, models.NQRTransaction{
			Amount:      rec.Amount,
			Addenda1:    rec.Addenda1,
			Addenda2:    rec.Addenda2,
			DebitStatus: rec.DebitStatus,
			Timestamp:   parseNQRTime(rec.LocalTransactionDateTime),
		})
	}
	return txs, nil
}

// parseNQRTime parses the report's local timestamp, falling back to
// RFC 3339. An unparseable value yields the zero time rather than dropping
// the record.
func parseNQRTime(s string) time.Time {
	if ts, err := time.Parse(nqrTimeLayout, s); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts
	}
	return time.Time{}
}

// FetchSnapshot fans out all source fetches for one event concurrently and
// joins them before returning, so aggregation never starts on partial
// data. Any single failure fails the whole pass.
func (c *Client) FetchSnapshot(ctx context.Context, eventID int64, from, to time.Time) (*models.Snapshot, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		snap     models.Snapshot
		mu       sync.Mutex
		firstErr error
		wg       sync.WaitGroup
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		contestants, err := c.FetchContestants(ctx, eventID)
		if err != nil {
			fail(err)
			return
		}
		snap.Contestants = contestants
	}()
	go func() {
		defer wg.Done()
		intents, err := c.FetchPaymentIntents(ctx, eventID)
		if err != nil {
			fail(err)
			return
		}
		snap.Intents = intents
	}()
	go func() {
		defer wg.Done()
		intents, err := c.FetchQRIntents(ctx, eventID)
		if err != nil {
			fail(err)
			return
		}
		snap.QRIntents = intents
	}()
	go func() {
		defer wg.Done()
		txs, err := c.FetchNQRTransactions(ctx, from, to)
		if err != nil {
			fail(err)
			return
		}
		snap.NQRTransactions = txs
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &snap, nil
}
