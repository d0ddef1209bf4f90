// Package normalizer reduces the remote API's heterogeneous payment
// records to the canonical NormalizedPayment shape: resolved currency,
// uppercase processor tag, contestant attribution, and a single success
// convention.
package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/EmmittRel/zeeno-analytics/internal/models"
)

// nprProcessors settle in Nepali rupees no matter what currency field the
// record carries.
var nprProcessors = map[models.Processor]struct{}{
	models.ProcessorEsewa:     {},
	models.ProcessorKhalti:    {},
	models.ProcessorFonepay:   {},
	models.ProcessorPrabhupay: {},
	models.ProcessorQR:        {},
	models.ProcessorNQR:       {},
}

// inrProcessors settle in Indian rupees.
var inrProcessors = map[models.Processor]struct{}{
	models.ProcessorPhonePe: {},
	models.ProcessorPayU:    {},
}

// intentIDPattern matches the contestant marker embedded in NQR transfer
// memos, e.g. "vNPR-1a2f".
var intentIDPattern = regexp.MustCompile(`(?i)vnpr-([0-9a-f]+)`)

// ParseProcessor normalizes a processor tag to its canonical uppercase form.
func ParseProcessor(s string) models.Processor {
	return models.Processor(strings.ToUpper(strings.TrimSpace(s)))
}

// ResolveCurrency returns the settlement currency for a payment. The
// processor wins over whatever currency field the record carries: Nepali
// wallets and QR rails always settle NPR, Indian rails INR. Stripe and
// anything unrecognized fall back to the record currency, defaulting to USD.
func ResolveCurrency(processor models.Processor, recordCurrency string) string {
	if _, ok := nprProcessors[processor]; ok {
		return "NPR"
	}
	if _, ok := inrProcessors[processor]; ok {
		return "INR"
	}

	currency := strings.ToUpper(strings.TrimSpace(recordCurrency))
	if currency == "" {
		return "USD"
	}
	return currency
}

// ExtractIntentID pulls the contestant/intent id out of the two free-text
// addenda fields of an NQR bank transfer. The fields are joined with a
// hyphen and scanned for a hex run following the "vnpr-" marker, so a
// marker split across the field boundary still resolves. Returns nil when
// no usable marker is present — a normal outcome for foreign or malformed
// transfer memos, not an error.
func ExtractIntentID(addenda1, addenda2 string) *int64 {
	memo := addenda1 + "-" + addenda2
	m := intentIDPattern.FindStringSubmatch(memo)
	if m == nil {
		return nil
	}

	id, err := strconv.ParseInt(m[1], 16, 64)
	if err != nil {
		return nil
	}
	return &id
}

// NormalizeIntent maps a card/wallet/QR payment intent to the canonical
// payment shape.
func NormalizeIntent(pi models.PaymentIntent) models.NormalizedPayment {
	processor := ParseProcessor(pi.Processor)
	return models.NormalizedPayment{
		IntentID:  pi.IntentID,
		EventID:   pi.EventID,
		Amount:    pi.Amount,
		Currency:  ResolveCurrency(processor, pi.Currency),
		Processor: processor,
		Status:    pi.Status,
		Timestamp: pi.CreatedAt,
	}
}

// NormalizeNQR maps an NQR bank transfer to the canonical payment shape.
// The transfer's debitStatus becomes the payment status, and attribution
// comes from the addenda marker.
func NormalizeNQR(tx models.NQRTransaction) models.NormalizedPayment {
	return models.NormalizedPayment{
		IntentID:  ExtractIntentID(tx.Addenda1, tx.Addenda2),
		Amount:    tx.Amount,
		Currency:  "NPR",
		Processor: models.ProcessorNQR,
		Status:    tx.DebitStatus,
		Timestamp: tx.Timestamp,
	}
}

// IsSuccess is the single success classification applied everywhere.
//
// The upstream dashboard checked 'S' in some views and 'success' in others;
// here one convention holds for every view: eSewa reports the letter code
// "S", NQR transfers report debitStatus "000", and every other processor
// reports "success" with the legacy "S" code also accepted.
func IsSuccess(p models.NormalizedPayment) bool {
	switch p.Processor {
	case models.ProcessorEsewa:
		return p.Status == "S"
	case models.ProcessorNQR:
		return p.Status == "000"
	default:
		return p.Status == "success" || p.Status == "S"
	}
}

// FromSnapshot flattens one refresh pass of remote data into normalized
// payments, in source order: intents, QR intents, NQR transfers.
func FromSnapshot(snap *models.Snapshot) []models.NormalizedPayment {
	payments := make([]models.NormalizedPayment, 0,
		len(snap.Intents)+len(snap.QRIntents)+len(snap.NQRTransactions))

	for _, pi := range snap.Intents {
		payments = append(payments, NormalizeIntent(pi))
	}
	for _, pi := range snap.QRIntents {
		payments = append(payments, NormalizeIntent(pi))
	}
	for _, tx := range snap.NQRTransactions {
		payments = append(payments, NormalizeNQR(tx))
	}
	return payments
}
