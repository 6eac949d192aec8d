package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelkov/tripdesk/internal/domain"
)

type CatalogRepository interface {
	List(ctx context.Context, resource domain.CatalogResource) ([]domain.CatalogEntry, error)
	Reorder(ctx context.Context, resource domain.CatalogResource, ids []string) error
}

// resourceTables whitelists the reorderable collections; table names are
// never built from raw request input.
var resourceTables = map[domain.CatalogResource]string{
	domain.ResourceReviews:     "reviews",
	domain.ResourceBlogs:       "blogs",
	domain.ResourceCountries:   "countries",
	domain.ResourceTeamMembers: "team_members",
	domain.ResourceVisas:       "visas",
}

type PGCatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &PGCatalogRepository{db: db}
}

func (r *PGCatalogRepository) List(ctx context.Context, resource domain.CatalogResource) ([]domain.CatalogEntry, error) {
	table, ok := resourceTables[resource]
	if !ok {
		return nil, domain.ErrUnknownResource
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(
		`SELECT id, title, position, created_at, updated_at FROM %s ORDER BY position, id`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Position, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Reorder reassigns positions 0..n-1 following the submitted ID order in a
// single transaction. The backend, not the client, owns position values.
func (r *PGCatalogRepository) Reorder(ctx context.Context, resource domain.CatalogResource, ids []string) error {
	table, ok := resourceTables[resource]
	if !ok {
		return domain.ErrUnknownResource
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`UPDATE %s SET position=$1, updated_at=now() WHERE id=$2`, table)
	for pos, id := range ids {
		cmd, err := tx.Exec(ctx, stmt, pos, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("reorder %s: %w: %s", resource, domain.ErrNotFound, id)
		}
	}

	return tx.Commit(ctx)
}

var _ CatalogRepository = (*PGCatalogRepository)(nil)
