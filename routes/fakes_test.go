package routes

import (
	"context"
	"errors"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/models"
	"github.com/brendonmuneatgmaildotcom/limestone-studio/services"
	"github.com/stripe/stripe-go/v76"
)

type fakeStore struct {
	rows      []models.Booking
	listErr   error
	findErr   error
	insertErr error
}

func (f *fakeStore) ListPaid() ([]models.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rows, nil
}

func (f *fakeStore) FindBySessionID(id string) (*models.Booking, bool, error) {
	if f.findErr != nil {
		return nil, false, f.findErr
	}
	for i := range f.rows {
		if f.rows[i].StripeSessionID == id {
			return &f.rows[i], true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeStore) Insert(b *models.Booking) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, *b)
	return nil
}

func storedBookings(dates ...string) []models.Booking {
	rows := make([]models.Booking, 0, len(dates)/2)
	for i := 0; i+1 < len(dates); i += 2 {
		start, err := services.ParseLocalDate(dates[i])
		if err != nil {
			panic(err)
		}
		end, err := services.ParseLocalDate(dates[i+1])
		if err != nil {
			panic(err)
		}
		rows = append(rows, models.Booking{
			StartDate: start,
			EndDate:   end,
			Status:    "paid",
		})
	}
	return rows
}

type fakeFeed struct {
	intervals []services.BookedInterval
	err       error
}

func (f *fakeFeed) BookedIntervals(ctx context.Context) ([]services.BookedInterval, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.intervals, nil
}

type fakePayments struct {
	created  []*stripe.CheckoutSessionParams
	newErr   error
	sessions map[string]*stripe.CheckoutSession
	getErr   error
}

func (f *fakePayments) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if f.newErr != nil {
		return nil, f.newErr
	}
	f.created = append(f.created, params)
	return &stripe.CheckoutSession{
		ID:  "cs_fake",
		URL: "https://checkout.stripe.com/c/pay/cs_fake",
	}, nil
}

func (f *fakePayments) GetCheckoutSession(id string) (*stripe.CheckoutSession, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if sess, ok := f.sessions[id]; ok {
		return sess, nil
	}
	return nil, errors.New("no such session: " + id)
}
