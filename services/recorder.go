package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/models"
	"github.com/stripe/stripe-go/v76"
)

// RecordOutcome is the terminal state of one confirmation attempt.
type RecordOutcome string

const (
	// OutcomeRecorded means a new paid booking row was written.
	OutcomeRecorded RecordOutcome = "recorded"
	// OutcomeDuplicateIgnored means a row for this session already exists;
	// nothing was written. Webhook retries and a guest refreshing the
	// confirmation page both land here.
	OutcomeDuplicateIgnored RecordOutcome = "duplicate_ignored"
	// OutcomeNotPaid means the session has not (yet) been paid. Abandoned
	// checkouts stay in this state forever and leave no trace in the store.
	OutcomeNotPaid RecordOutcome = "not_paid"
	// OutcomeMissingMetadata means the session carries no usable booking
	// details; acknowledged but not recorded.
	OutcomeMissingMetadata RecordOutcome = "missing_metadata"
)

// BookingRecorder persists confirmed payments. The Stripe webhook and the
// confirmation-page poll both funnel through RecordPaidSession so the
// idempotency check and the row shape cannot drift apart between the two
// paths.
type BookingRecorder struct {
	Store    BookingStore
	Notifier Notifier
}

func NewBookingRecorder(store BookingStore, notifier Notifier) *BookingRecorder {
	return &BookingRecorder{Store: store, Notifier: notifier}
}

// RecordPaidSession inspects a checkout session and, if it represents a new
// paid booking, inserts the row. A non-nil error means the store could not be
// read or written; the insert-failure case has already been escalated to the
// operator channel by the time it returns.
func (r *BookingRecorder) RecordPaidSession(sess *stripe.CheckoutSession) (RecordOutcome, error) {
	// A session counts as paid when payment_status says so or the session
	// has completed; async payment methods can complete before the
	// payment_status field flips.
	paid := sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
		sess.Status == stripe.CheckoutSessionStatusComplete
	if !paid {
		log.Printf("session %s not paid (payment_status=%s status=%s)", sess.ID, sess.PaymentStatus, sess.Status)
		return OutcomeNotPaid, nil
	}

	name := sess.Metadata["name"]
	email := sess.Metadata["email"]
	startDate, startErr := metadataDate(sess.Metadata, "startDate")
	endDate, endErr := metadataDate(sess.Metadata, "endDate")
	if name == "" || email == "" || startErr != nil || endErr != nil {
		log.Printf("session %s missing booking metadata: %v", sess.ID, sess.Metadata)
		return OutcomeMissingMetadata, nil
	}

	_, found, err := r.Store.FindBySessionID(sess.ID)
	if err != nil {
		return "", fmt.Errorf("idempotency lookup for session %s: %w", sess.ID, err)
	}
	if found {
		log.Printf("booking already stored for session %s", sess.ID)
		return OutcomeDuplicateIgnored, nil
	}

	nights, _ := strconv.Atoi(sess.Metadata["nights"])
	amount, _ := strconv.ParseFloat(sess.Metadata["amountNZD"], 64)
	metadataJSON, _ := json.Marshal(sess.Metadata)

	booking := &models.Booking{
		Name:            name,
		Email:           email,
		StartDate:       startDate,
		EndDate:         endDate,
		Status:          "paid",
		StripeSessionID: sess.ID,
		TotalNights:     nights,
		AmountNZD:       amount,
		SessionMetadata: metadataJSON,
	}

	if err := r.Store.Insert(booking); err != nil {
		// The guest has been charged but the booking is not on record.
		// Escalate for manual reconciliation; never retry automatically.
		r.Notifier.Alert("booking insert failed after payment", map[string]string{
			"session": sess.ID,
			"email":   email,
			"start":   startDate.Format("2006-01-02"),
			"end":     endDate.Format("2006-01-02"),
			"error":   err.Error(),
		})
		return "", fmt.Errorf("insert for session %s: %w", sess.ID, err)
	}

	log.Printf("booking stored for session %s (%s -> %s)",
		sess.ID, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	return OutcomeRecorded, nil
}

// metadataDate converts an ISO-8601 metadata value into the local-midnight
// date the bookings table stores.
func metadataDate(metadata map[string]string, key string) (time.Time, error) {
	v := metadata[key]
	if v == "" {
		return time.Time{}, fmt.Errorf("metadata %s missing", key)
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		// Already a plain date.
		if d, derr := ParseLocalDate(v); derr == nil {
			return d, nil
		}
		return time.Time{}, fmt.Errorf("metadata %s: %w", key, err)
	}
	return ToMidnight(t.In(time.Local)), nil
}
