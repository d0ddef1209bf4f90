package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Processor identifies the payment channel a transaction came through.
// Values are uppercase tags matching the remote API.
type Processor string

const (
	ProcessorEsewa     Processor = "ESEWA"
	ProcessorKhalti    Processor = "KHALTI"
	ProcessorFonepay   Processor = "FONEPAY"
	ProcessorPrabhupay Processor = "PRABHUPAY"
	ProcessorPhonePe   Processor = "PHONEPE"
	ProcessorPayU      Processor = "PAYU"
	ProcessorStripe    Processor = "STRIPE"
	ProcessorQR        Processor = "QR"
	ProcessorNQR       Processor = "NQR"
)

// Event is a voting event hosted on the platform.
type Event struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	OrgID     int64  `json:"org"`
	FinalDate string `json:"finaldate"`
}

// Contestant is a voting target within an event.
type Contestant struct {
	ID      int64  `json:"id"`
	EventID int64  `json:"event"`
	Name    string `json:"name"`
	Misc    string `json:"misc_kv"`
	Status  string `json:"status"`
}

// PaymentIntent is a card/wallet/QR payment record as returned by the
// remote API. Amount arrives as either a JSON number or a quoted string,
// both of which decimal handles.
type PaymentIntent struct {
	IntentID  *int64          `json:"intent_id"`
	EventID   int64           `json:"event_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Processor string          `json:"processor"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// NQRTransaction is one bank-transfer record from the NQR static
// transaction report. Contestant attribution hides inside the free-text
// addenda fields.
type NQRTransaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Addenda1    string          `json:"addenda1"`
	Addenda2    string          `json:"addenda2"`
	DebitStatus string          `json:"debitStatus"`
	Timestamp   time.Time       `json:"-"`
}

// NormalizedPayment is the canonical shape every payment source reduces to
// before vote calculation and aggregation.
//
// Status holds the processor-specific success marker: the raw status field
// for intents, debitStatus for NQR transfers. IntentID is nil when the
// payment could not be attributed to a contestant.
type NormalizedPayment struct {
	IntentID  *int64
	EventID   int64
	Amount    decimal.Decimal
	Currency  string
	Processor Processor
	Status    string
	Timestamp time.Time
}

// Snapshot is one refresh pass worth of remote data, fetched in full
// before any aggregation starts.
type Snapshot struct {
	Contestants     []Contestant
	Intents         []PaymentIntent
	QRIntents       []PaymentIntent
	NQRTransactions []NQRTransaction
}

// AggregatedVotes is one persisted row of vote totals, keyed by date and
// contestant.
type AggregatedVotes struct {
	Date             time.Time `ch:"date"`
	ContestantID     int64     `ch:"contestant_id"`
	TransactionCount uint64    `ch:"transaction_count"`
	TotalVotes       int64     `ch:"total_votes"`
}

// LeaderboardEntry is one contestant's rank line.
type LeaderboardEntry struct {
	ContestantID int64  `json:"contestant_id"`
	Name         string `json:"name"`
	Votes        int64  `json:"votes"`
}

// ActivityPoint is one day of the voting-activity series, split into four
// six-hour slots.
type ActivityPoint struct {
	Date  string   `json:"date"`
	Slots [4]int64 `json:"slots"`
}

// Region buckets a payment by the currency it settled in.
const (
	RegionNepal         = "Nepal"
	RegionIndia         = "India"
	RegionInternational = "International"
)
