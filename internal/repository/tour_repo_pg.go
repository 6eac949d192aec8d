package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/avelkov/tripdesk/internal/domain"
)

type TourRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Tour, error)
	List(ctx context.Context) ([]domain.Tour, error)
}

type PGTourRepository struct {
	db *pgxpool.Pool
}

func NewTourRepository(db *pgxpool.Pool) TourRepository {
	return &PGTourRepository{db: db}
}

const tourColumns = `id, title, base_price_cents, booking_fee_percent, offer_active, discount_type, flat_discount_cents, discount_percent, position, created_at, updated_at`

func (r *PGTourRepository) GetByID(ctx context.Context, id string) (*domain.Tour, error) {
	row := r.db.QueryRow(ctx, `SELECT `+tourColumns+` FROM tours WHERE id=$1`, id)
	tour, err := scanTour(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return tour, err
}

func (r *PGTourRepository) List(ctx context.Context) ([]domain.Tour, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tourColumns+` FROM tours ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tours []domain.Tour
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, *tour)
	}
	return tours, rows.Err()
}

func scanTour(row pgx.Row) (*domain.Tour, error) {
	var (
		t            domain.Tour
		feePct       float64
		offerActive  bool
		discountType *string
		flatCents    *int64
		discountPct  *float64
	)
	if err := row.Scan(&t.ID, &t.Title, &t.BasePriceCents, &feePct, &offerActive, &discountType,
		&flatCents, &discountPct, &t.Position, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.BookingFeePercent = decimal.NewFromFloat(feePct)
	if discountType != nil {
		offer := &domain.Offer{Active: offerActive, Type: domain.DiscountType(*discountType)}
		if flatCents != nil {
			offer.FlatDiscountCents = *flatCents
		}
		if discountPct != nil {
			offer.Percent = decimal.NewFromFloat(*discountPct)
		}
		t.Offer = offer
	}
	return &t, nil
}

var _ TourRepository = (*PGTourRepository)(nil)
