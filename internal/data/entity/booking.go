package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusHeld      BookingStatus = "held"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is one customer transaction against one show time. State machine:
// held -> confirmed (terminal) on payment, held -> cancelled (terminal) on
// explicit cancel or expiry. ExpiresAt is set only while held.
type Booking struct {
	Base
	OrderID       string        `db:"order_id"`
	UserID        uuid.UUID     `db:"user_id"`
	ShowTimeID    uuid.UUID     `db:"show_time_id"`
	Status        BookingStatus `db:"status"`
	ExpiresAt     *time.Time    `db:"expires_at"`
	PaymentMethod *string       `db:"payment_method"`
	TotalPrice    int64         `db:"total_price"`
	Discount      int64         `db:"discount"`
	FinalPrice    int64         `db:"final_price"`
	PointsUsed    int           `db:"points_used"`
	PointsEarned  int           `db:"points_earned"`
}

// Expired reports whether a held booking's expiry instant has passed. A held
// booking past its expiry is equivalent to cancelled for all reservation
// purposes even before a cleanup pass physically updates it.
func (b *Booking) Expired(now time.Time) bool {
	if b.Status != BookingStatusHeld || b.ExpiresAt == nil {
		return false
	}
	return !now.Before(*b.ExpiresAt)
}

// Live reports whether the booking still claims its seats at the given
// instant: confirmed, or held and not yet expired.
func (b *Booking) Live(now time.Time) bool {
	switch b.Status {
	case BookingStatusConfirmed:
		return true
	case BookingStatusHeld:
		return !b.Expired(now)
	default:
		return false
	}
}
