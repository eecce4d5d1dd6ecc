package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/milan-history-map/internal/domain"
	"go.uber.org/zap"
)

type photoRecordRow struct {
	ID               string     `db:"id"`
	URL              string     `db:"url"`
	Caption          string     `db:"caption"`
	Latitude         *float64   `db:"latitude"`
	Longitude        *float64   `db:"longitude"`
	LocationAuthorID *string    `db:"location_author_id"`
	LocationSetAt    *time.Time `db:"location_set_at"`
}

func (r *contentRepository) InsertPhotos(ctx context.Context, owner domain.PhotoOwner, ownerID string, photos []domain.PhotoRecord) error {
	if len(photos) == 0 {
		return nil
	}
	t, err := photoTableFor(owner)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, %s, url, caption, latitude, longitude, location_author_id, location_set_at
		)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2::uuid, $3, $4, $5, $6, $7, $8)
	`, t.table, t.fk)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return r.dbError("Failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range photos {
		_, err := tx.ExecContext(ctx, query,
			p.ID, ownerID, p.URL, nullIfEmpty(p.Caption),
			p.Latitude, p.Longitude, p.LocationAuthorID, p.LocationSetAt,
		)
		if err != nil {
			return r.dbError("Failed to insert photo", err,
				zap.String("owner", string(owner)), zap.String("owner_id", ownerID))
		}
	}

	if err := tx.Commit(); err != nil {
		return r.dbError("Failed to commit photos", err, zap.String("owner_id", ownerID))
	}
	return nil
}

// UpdatePhotos перезаписывает подпись и координаты; URL не меняется
func (r *contentRepository) UpdatePhotos(ctx context.Context, owner domain.PhotoOwner, photos []domain.PhotoRecord) error {
	if len(photos) == 0 {
		return nil
	}
	t, err := photoTableFor(owner)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			caption = $1,
			latitude = $2,
			longitude = $3,
			location_author_id = $4,
			location_set_at = $5
		WHERE id = $6::uuid
	`, t.table)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return r.dbError("Failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range photos {
		_, err := tx.ExecContext(ctx, query,
			nullIfEmpty(p.Caption), p.Latitude, p.Longitude, p.LocationAuthorID, p.LocationSetAt, p.ID,
		)
		if err != nil {
			return r.dbError("Failed to update photo", err, zap.String("id", p.ID))
		}
	}

	if err := tx.Commit(); err != nil {
		return r.dbError("Failed to commit photo updates", err)
	}
	return nil
}

func (r *contentRepository) DeletePhotos(ctx context.Context, owner domain.PhotoOwner, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	t, err := photoTableFor(owner)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1::uuid[])`, t.table)
	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return r.dbError("Failed to delete photos", err, zap.Strings("ids", ids))
	}
	return nil
}

func (r *contentRepository) ListPhotos(ctx context.Context, owner domain.PhotoOwner, ownerID string) ([]domain.PhotoRecord, error) {
	t, err := photoTableFor(owner)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id::text, url, COALESCE(caption, '') AS caption,
			latitude, longitude, location_author_id, location_set_at
		FROM %s
		WHERE %s = $1::uuid
		ORDER BY seq
	`, t.table, t.fk)

	var rows []photoRecordRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, r.dbError("Failed to list photos", err, zap.String("owner_id", ownerID))
	}

	photos := make([]domain.PhotoRecord, 0, len(rows))
	for _, row := range rows {
		photos = append(photos, domain.PhotoRecord(row))
	}
	return photos, nil
}
