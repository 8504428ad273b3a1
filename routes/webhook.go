package routes

import (
	"encoding/json"
	"log"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/services"
	"github.com/brendonmuneatgmaildotcom/limestone-studio/utils"
	"github.com/kataras/iris/v12"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// WebhookHandler receives asynchronous payment notifications from Stripe.
// Signature verification needs the raw request body, so the handler reads it
// before any JSON decoding happens.
type WebhookHandler struct {
	Recorder      *services.BookingRecorder
	SigningSecret string

	// constructEvent is webhook.ConstructEvent in production; tests stub it.
	constructEvent func(payload []byte, header string, secret string) (stripe.Event, error)
}

func NewWebhookHandler(recorder *services.BookingRecorder, signingSecret string) *WebhookHandler {
	return &WebhookHandler{
		Recorder:       recorder,
		SigningSecret:  signingSecret,
		constructEvent: webhook.ConstructEvent,
	}
}

// HandleStripeWebhook verifies and records a completed checkout. Stripe
// retries deliveries, so a session that is already on record is acknowledged
// without a second write. Events other than checkout.session.completed are
// acknowledged and ignored.
func (h *WebhookHandler) HandleStripeWebhook(ctx iris.Context) {
	payload, err := ctx.GetBody()
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Webhook Error", "could not read request body", ctx)
		return
	}

	event, err := h.constructEvent(payload, ctx.GetHeader("Stripe-Signature"), h.SigningSecret)
	if err != nil {
		log.Printf("invalid webhook signature: %v", err)
		utils.CreateError(iris.StatusBadRequest, "Webhook Error", err.Error(), ctx)
		return
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		log.Printf("ignoring event: %s", event.Type)
		ctx.JSON(iris.Map{"received": true})
		return
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Webhook Error", "malformed session payload", ctx)
		return
	}

	if _, err := h.Recorder.RecordPaidSession(&sess); err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to record booking", ctx)
		return
	}

	ctx.JSON(iris.Map{"received": true})
}
