package routes

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/services"
	"github.com/brendonmuneatgmaildotcom/limestone-studio/utils"
	"github.com/kataras/iris/v12"
	"github.com/stripe/stripe-go/v76"
)

type CheckoutDatesInput struct {
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

type CheckoutInput struct {
	Name  string             `json:"name" validate:"required"`
	Email string             `json:"email" validate:"required,email"`
	Dates CheckoutDatesInput `json:"dates" validate:"required"`
}

// CheckoutHandler turns a validated booking request into a Stripe checkout
// session. Nothing is written to the store here; the booking only becomes a
// row once payment is confirmed, so an abandoned checkout leaves no orphaned
// pending state behind.
type CheckoutHandler struct {
	Payments       services.PaymentsClient
	Store          services.BookingStore
	Feed           services.FeedSource
	BaseURL        string
	NightlyRateNZD float64
}

// CreateCheckoutSession validates the guest input, then the requested range
// against current availability, then asks Stripe for a session. Validation
// failures never reach the network; booking details ride on the session as
// metadata because that is the only channel that survives the payment
// redirect.
func (h *CheckoutHandler) CreateCheckoutSession(ctx iris.Context) {
	var input CheckoutInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	stay, err := services.NewCandidateRange(input.Dates.StartDate, input.Dates.EndDate)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	// The store must be reachable to validate a submission; booking blind
	// against an unknown calendar is never allowed.
	rows, err := h.Store.ListPaid()
	if err != nil {
		log.Printf("bookings read failed during checkout: %v", err)
		utils.CreateError(iris.StatusServiceUnavailable, "Unavailable",
			"Could not verify availability, please try again shortly", ctx)
		return
	}
	local := services.StoredBookingIntervals(rows)

	// The feed is advisory: if it is down we book against local data alone.
	feed, err := h.Feed.BookedIntervals(ctx.Request().Context())
	if err != nil {
		log.Printf("feed read failed during checkout, using local bookings only: %v", err)
		feed = nil
	}

	if !services.IsRangeAvailable(stay.Start, stay.End, services.MergeIntervals(local, feed)) {
		utils.CreateError(iris.StatusConflict, "Conflict", "Selected dates are not available", ctx)
		return
	}

	nights := stay.Nights()
	amountNZD := float64(nights) * h.NightlyRateNZD
	amountCents := int64(math.Round(amountNZD * 100))

	plural := ""
	if nights > 1 {
		plural = "s"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		Currency:           stripe.String(string(stripe.CurrencyNZD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(input.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyNZD)),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Limestone Studio (%d night%s)", nights, plural)),
						Description: stripe.String(fmt.Sprintf("%s → %s",
							stay.Start.Format("02/01/2006"), stay.End.Format("02/01/2006"))),
					},
				},
			},
		},
		SuccessURL: stripe.String(h.BaseURL + "/?status=success&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(h.BaseURL + "/?status=cancelled"),
	}
	params.AddMetadata("name", input.Name)
	params.AddMetadata("email", input.Email)
	params.AddMetadata("startDate", stay.Start.Format(time.RFC3339))
	params.AddMetadata("endDate", stay.End.Format(time.RFC3339))
	params.AddMetadata("nights", fmt.Sprintf("%d", nights))
	params.AddMetadata("nightlyNZD", fmt.Sprintf("%g", h.NightlyRateNZD))
	params.AddMetadata("amountNZD", fmt.Sprintf("%g", amountNZD))

	sess, err := h.Payments.NewCheckoutSession(params)
	if err != nil {
		log.Printf("checkout error: %v", err)
		utils.CreateError(iris.StatusInternalServerError, "Error", "Checkout failed", ctx)
		return
	}

	ctx.JSON(iris.Map{"checkoutUrl": sess.URL})
}
