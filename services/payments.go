package services

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// PaymentsClient is the slice of the Stripe API the booking flows use.
// Handlers take it as a constructor argument; tests substitute fakes and
// assert that no session is created before validation passes.
type PaymentsClient interface {
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(id string) (*stripe.CheckoutSession, error)
}

type StripePayments struct {
	api *client.API
}

func NewStripePayments(secretKey string) *StripePayments {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripePayments{api: api}
}

func (p *StripePayments) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return p.api.CheckoutSessions.New(params)
}

func (p *StripePayments) GetCheckoutSession(id string) (*stripe.CheckoutSession, error) {
	return p.api.CheckoutSessions.Get(id, nil)
}
