package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/services"
	"github.com/kataras/iris/v12"
	"github.com/stripe/stripe-go/v76"
)

func completedSessionEvent(t *testing.T, sessionID string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"id":             sessionID,
		"payment_status": "paid",
		"status":         "complete",
		"metadata": map[string]string{
			"name":      "Guest Name",
			"email":     "guest@example.com",
			"startDate": isoDate(2025, time.June, 13),
			"endDate":   isoDate(2025, time.June, 15),
			"nights":    "2",
			"amountNZD": "320",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func buildWebhookApp(h *WebhookHandler) *iris.Application {
	app := iris.New()
	app.Post("/api/stripe-webhook", h.HandleStripeWebhook)
	app.Build()
	return app
}

func postWebhook(app *iris.Application) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/stripe-webhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "t=1,v1=stub")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestWebhookRecordsCompletedSessionOnce(t *testing.T) {
	store := &fakeStore{}
	recorder := services.NewBookingRecorder(store, services.NewOperatorNotifier(""))
	h := NewWebhookHandler(recorder, "whsec_test")
	h.constructEvent = func(payload []byte, header, secret string) (stripe.Event, error) {
		return completedSessionEvent(t, "cs_hook_1"), nil
	}
	app := buildWebhookApp(h)

	// Stripe retries deliveries; both must succeed, only one row may exist.
	for i := 0; i < 2; i++ {
		resp := postWebhook(app)
		if resp.Code != http.StatusOK {
			t.Fatalf("delivery %d: expected 200, got %d: %s", i+1, resp.Code, resp.Body.String())
		}
	}

	if len(store.rows) != 1 {
		t.Fatalf("expected exactly one persisted booking, got %d", len(store.rows))
	}
	if store.rows[0].StripeSessionID != "cs_hook_1" {
		t.Fatalf("wrong session recorded: %+v", store.rows[0])
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	store := &fakeStore{}
	recorder := services.NewBookingRecorder(store, services.NewOperatorNotifier(""))
	h := NewWebhookHandler(recorder, "whsec_test")
	h.constructEvent = func(payload []byte, header, secret string) (stripe.Event, error) {
		return stripe.Event{}, errors.New("signature mismatch")
	}
	app := buildWebhookApp(h)

	resp := postWebhook(app)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad signature, got %d", resp.Code)
	}
	if len(store.rows) != 0 {
		t.Fatal("unverified events must never be recorded")
	}
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	store := &fakeStore{}
	recorder := services.NewBookingRecorder(store, services.NewOperatorNotifier(""))
	h := NewWebhookHandler(recorder, "whsec_test")
	h.constructEvent = func(payload []byte, header, secret string) (stripe.Event, error) {
		return stripe.Event{Type: stripe.EventTypePaymentIntentCreated, Data: &stripe.EventData{Raw: []byte("{}")}}, nil
	}
	app := buildWebhookApp(h)

	resp := postWebhook(app)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 acknowledgement, got %d", resp.Code)
	}
	if len(store.rows) != 0 {
		t.Fatal("non-checkout events must not create bookings")
	}
}

func TestWebhookInsertFailureReturnsServerError(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("disk full")}
	recorder := services.NewBookingRecorder(store, services.NewOperatorNotifier(""))
	h := NewWebhookHandler(recorder, "whsec_test")
	h.constructEvent = func(payload []byte, header, secret string) (stripe.Event, error) {
		return completedSessionEvent(t, "cs_hook_2"), nil
	}
	app := buildWebhookApp(h)

	resp := postWebhook(app)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 so Stripe retries, got %d", resp.Code)
	}
}
