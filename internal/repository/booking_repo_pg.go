package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelkov/tripdesk/internal/domain"
)

type BookingRepository interface {
	CreatePending(ctx context.Context, booking *domain.Booking) error
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Booking, error)
	SettlePayment(ctx context.Context, transactionID string, paid bool, reason string) (*domain.Booking, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, tour_id, transaction_id, email, travelers, amount_cents, booking_fee_cents, payment_status, booking_status, failure_reason, expires_at, created_at, updated_at`

func (r *PGBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking) error {
	booking.PaymentStatus = domain.PaymentStatusPending
	booking.Status = domain.BookingStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO bookings (tour_id, transaction_id, email, travelers, amount_cents, booking_fee_cents, payment_status, booking_status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		booking.TourID, booking.TransactionID, booking.Email, booking.Travelers,
		booking.AmountCents, booking.BookingFeeCents, booking.PaymentStatus, booking.Status, booking.ExpiresAt).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE transaction_id=$1`, transactionID)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

// SettlePayment performs the exactly-once pending -> paid/failed transition.
// The guard on payment_status makes a second settle attempt affect zero
// rows, which is reported as ErrAlreadySettled, never as a new transition.
// The fee snapshot columns are deliberately untouched.
func (r *PGBookingRepository) SettlePayment(ctx context.Context, transactionID string, paid bool, reason string) (*domain.Booking, error) {
	payment := domain.PaymentStatusFailed
	status := domain.BookingStatusCancelled
	if paid {
		payment = domain.PaymentStatusPaid
		status = domain.BookingStatusConfirmed
	}

	row := r.db.QueryRow(ctx, `UPDATE bookings
		SET payment_status=$1, booking_status=$2, failure_reason=$3, updated_at=now()
		WHERE transaction_id=$4 AND payment_status=$5
		RETURNING `+bookingColumns,
		payment, status, reason, transactionID, domain.PaymentStatusPending)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, lookupErr := r.GetByTransactionID(ctx, transactionID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, domain.ErrAlreadySettled
	}
	return b, err
}

func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings
		SET payment_status=$1, booking_status=$2, failure_reason='hold expired', updated_at=now()
		WHERE payment_status=$3 AND expires_at <= $4
		RETURNING `+bookingColumns,
		domain.PaymentStatusFailed, domain.BookingStatusCancelled, domain.PaymentStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var reason *string
	if err := row.Scan(&b.ID, &b.TourID, &b.TransactionID, &b.Email, &b.Travelers, &b.AmountCents,
		&b.BookingFeeCents, &b.PaymentStatus, &b.Status, &reason, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if reason != nil {
		b.FailureReason = *reason
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
