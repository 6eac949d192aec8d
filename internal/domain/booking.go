package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type ApplicationStatus string

const (
	ApplicationStatusPending    ApplicationStatus = "pending"
	ApplicationStatusProcessing ApplicationStatus = "processing"
	ApplicationStatusApproved   ApplicationStatus = "approved"
	ApplicationStatusRejected   ApplicationStatus = "rejected"
)

// Booking is a tour purchase attempt. TransactionID is unique per payment
// attempt and immutable once created. BookingFeeCents is a snapshot of the
// fee computed at checkout time and is never recomputed afterwards, since
// the source tour's price may change after booking.
type Booking struct {
	ID              int64         `json:"id"`
	TourID          string        `json:"tour_id"`
	TransactionID   string        `json:"transaction_id"`
	Email           string        `json:"email"`
	Travelers       int           `json:"travelers"`
	AmountCents     int64         `json:"amount"`
	BookingFeeCents int64         `json:"booking_fee"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	Status          BookingStatus `json:"booking_status"`
	FailureReason   string        `json:"failure_reason,omitempty"`
	ExpiresAt       time.Time     `json:"expires_at"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// VisaBooking is a visa application checkout, the visa-side analogue of
// Booking with its own application lifecycle.
type VisaBooking struct {
	ID                  int64             `json:"id"`
	VisaID              string            `json:"visa_id"`
	TransactionID       string            `json:"transaction_id"`
	Email               string            `json:"email"`
	Country             string            `json:"country"`
	VisaType            string            `json:"visa_type"`
	AmountCents         int64             `json:"amount"`
	ApplicationFeeCents int64             `json:"application_fee"`
	PaymentStatus       PaymentStatus     `json:"payment_status"`
	ApplicationStatus   ApplicationStatus `json:"application_status"`
	FailureReason       string            `json:"failure_reason,omitempty"`
	ExpiresAt           time.Time         `json:"expires_at"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}
