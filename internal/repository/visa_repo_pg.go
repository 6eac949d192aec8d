package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/avelkov/tripdesk/internal/domain"
)

type VisaRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Visa, error)
}

type VisaBookingRepository interface {
	CreatePending(ctx context.Context, booking *domain.VisaBooking) error
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.VisaBooking, error)
	SettlePayment(ctx context.Context, transactionID string, paid bool, reason string) (*domain.VisaBooking, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.VisaBooking, error)
}

type PGVisaRepository struct {
	db *pgxpool.Pool
}

func NewVisaRepository(db *pgxpool.Pool) VisaRepository {
	return &PGVisaRepository{db: db}
}

func (r *PGVisaRepository) GetByID(ctx context.Context, id string) (*domain.Visa, error) {
	row := r.db.QueryRow(ctx, `SELECT id, country, visa_type, price_cents, application_fee_percent, position, created_at, updated_at FROM visas WHERE id=$1`, id)
	var v domain.Visa
	var feePct float64
	if err := row.Scan(&v.ID, &v.Country, &v.VisaType, &v.PriceCents, &feePct, &v.Position, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	v.ApplicationFeePercent = decimal.NewFromFloat(feePct)
	return &v, nil
}

type PGVisaBookingRepository struct {
	db *pgxpool.Pool
}

func NewVisaBookingRepository(db *pgxpool.Pool) VisaBookingRepository {
	return &PGVisaBookingRepository{db: db}
}

const visaBookingColumns = `id, visa_id, transaction_id, email, country, visa_type, amount_cents, application_fee_cents, payment_status, application_status, failure_reason, expires_at, created_at, updated_at`

func (r *PGVisaBookingRepository) CreatePending(ctx context.Context, booking *domain.VisaBooking) error {
	booking.PaymentStatus = domain.PaymentStatusPending
	booking.ApplicationStatus = domain.ApplicationStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO visa_bookings (visa_id, transaction_id, email, country, visa_type, amount_cents, application_fee_cents, payment_status, application_status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		booking.VisaID, booking.TransactionID, booking.Email, booking.Country, booking.VisaType,
		booking.AmountCents, booking.ApplicationFeeCents, booking.PaymentStatus, booking.ApplicationStatus, booking.ExpiresAt).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGVisaBookingRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.VisaBooking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+visaBookingColumns+` FROM visa_bookings WHERE transaction_id=$1`, transactionID)
	b, err := scanVisaBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func (r *PGVisaBookingRepository) SettlePayment(ctx context.Context, transactionID string, paid bool, reason string) (*domain.VisaBooking, error) {
	payment := domain.PaymentStatusFailed
	status := domain.ApplicationStatusRejected
	if paid {
		payment = domain.PaymentStatusPaid
		status = domain.ApplicationStatusProcessing
	}

	row := r.db.QueryRow(ctx, `UPDATE visa_bookings
		SET payment_status=$1, application_status=$2, failure_reason=$3, updated_at=now()
		WHERE transaction_id=$4 AND payment_status=$5
		RETURNING `+visaBookingColumns,
		payment, status, reason, transactionID, domain.PaymentStatusPending)
	b, err := scanVisaBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, lookupErr := r.GetByTransactionID(ctx, transactionID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, domain.ErrAlreadySettled
	}
	return b, err
}

func (r *PGVisaBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.VisaBooking, error) {
	rows, err := r.db.Query(ctx, `UPDATE visa_bookings
		SET payment_status=$1, application_status=$2, failure_reason='hold expired', updated_at=now()
		WHERE payment_status=$3 AND expires_at <= $4
		RETURNING `+visaBookingColumns,
		domain.PaymentStatusFailed, domain.ApplicationStatusRejected, domain.PaymentStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.VisaBooking
	for rows.Next() {
		b, err := scanVisaBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

func scanVisaBooking(row pgx.Row) (*domain.VisaBooking, error) {
	var b domain.VisaBooking
	var reason *string
	if err := row.Scan(&b.ID, &b.VisaID, &b.TransactionID, &b.Email, &b.Country, &b.VisaType,
		&b.AmountCents, &b.ApplicationFeeCents, &b.PaymentStatus, &b.ApplicationStatus, &reason,
		&b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if reason != nil {
		b.FailureReason = *reason
	}
	return &b, nil
}

var _ VisaRepository = (*PGVisaRepository)(nil)
var _ VisaBookingRepository = (*PGVisaBookingRepository)(nil)
