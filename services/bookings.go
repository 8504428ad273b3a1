package services

import (
	"errors"
	"log"
	"time"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/models"
	"gorm.io/gorm"
)

// BookingStore is the persistence surface the booking flows need. Handlers
// receive it as a constructor argument so tests can substitute fakes.
type BookingStore interface {
	// ListPaid returns every paid booking, newest first.
	ListPaid() ([]models.Booking, error)
	// FindBySessionID looks up a booking by its Stripe checkout session ID.
	// found is false when no row exists.
	FindBySessionID(sessionID string) (booking *models.Booking, found bool, err error)
	// Insert writes a new booking row.
	Insert(booking *models.Booking) error
}

// GormBookingStore backs BookingStore with the Postgres bookings table.
type GormBookingStore struct {
	DB *gorm.DB
}

func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{DB: db}
}

func (s *GormBookingStore) ListPaid() ([]models.Booking, error) {
	var bookings []models.Booking
	res := s.DB.Where("status = ?", "paid").Order("created_at DESC").Find(&bookings)
	if res.Error != nil {
		return nil, res.Error
	}
	return bookings, nil
}

func (s *GormBookingStore) FindBySessionID(sessionID string) (*models.Booking, bool, error) {
	var booking models.Booking
	res := s.DB.Where("stripe_session_id = ?", sessionID).First(&booking)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, res.Error
	}
	return &booking, true, nil
}

func (s *GormBookingStore) Insert(booking *models.Booking) error {
	return s.DB.Create(booking).Error
}

// StoredBookingIntervals converts stored rows into booked intervals. The
// Postgres date columns come back from the driver as midnight time.Time
// values in UTC; each is rebuilt as the same calendar date at local midnight.
// A row without dates is skipped with a diagnostic rather than poisoning the
// whole calendar.
func StoredBookingIntervals(bookings []models.Booking) []BookedInterval {
	intervals := make([]BookedInterval, 0, len(bookings))
	for _, b := range bookings {
		if b.StartDate.IsZero() || b.EndDate.IsZero() {
			log.Printf("skipping booking %d: missing dates", b.ID)
			continue
		}
		start := dateInLocal(b.StartDate)
		end := dateInLocal(b.EndDate)
		if !start.Before(end) {
			end = start.AddDate(0, 0, 1)
		}
		intervals = append(intervals, BookedInterval{Start: start, End: end, Origin: OriginLocalStore})
	}
	return intervals
}

// dateInLocal rebuilds t's calendar date at local midnight. Converting a UTC
// midnight with In(time.Local) instead would shift the day for timezones
// west of Greenwich.
func dateInLocal(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
