package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking is a paid reservation for the studio. Rows are only written after
// Stripe confirms payment; abandoned checkouts never reach this table.
// StartDate/EndDate live in Postgres date columns; the driver hands them
// back as midnight time.Time values.
type Booking struct {
	gorm.Model
	Name            string         `json:"name" gorm:"not null"`
	Email           string         `json:"email" gorm:"not null"`
	StartDate       time.Time      `json:"startDate" gorm:"column:start_date;type:date;not null;index"`
	EndDate         time.Time      `json:"endDate" gorm:"column:end_date;type:date;not null;index"`
	Status          string         `json:"status" gorm:"default:'paid'"`
	StripeSessionID string         `json:"stripeSessionID" gorm:"uniqueIndex;not null"`
	TotalNights     int            `json:"totalNights"`
	AmountNZD       float64        `json:"amountNZD"`
	SessionMetadata datatypes.JSON `json:"sessionMetadata"`
}
