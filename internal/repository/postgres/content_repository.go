package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/pkg/errors"
	"go.uber.org/zap"
)

type contentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewContentRepository(db *DB) repository.ContentRepository {
	return &contentRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *contentRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	if err := r.db.SelectContext(ctx, &categories, `SELECT id, name FROM categories ORDER BY name, id`); err != nil {
		return nil, r.dbError("Failed to list categories", err)
	}
	return categories, nil
}

func (r *contentRepository) ListPeriods(ctx context.Context) ([]domain.Period, error) {
	periods := []domain.Period{}
	query := `SELECT id, name, start_year, end_year FROM periods ORDER BY start_year, id`
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, r.dbError("Failed to list periods", err)
	}
	return periods, nil
}

func (r *contentRepository) ListCharacters(ctx context.Context) ([]domain.CharacterRow, error) {
	rows, err := selectJSON[domain.CharacterRow](ctx, r.db, queryListCharacters)
	if err != nil {
		return nil, r.dbError("Failed to list characters", err)
	}
	return rows, nil
}

func (r *contentRepository) ListProfiles(ctx context.Context) ([]domain.ProfileRow, error) {
	profiles := []domain.ProfileRow{}
	if err := r.db.SelectContext(ctx, &profiles, `SELECT id, name, avatar_url FROM profiles ORDER BY name, id`); err != nil {
		return nil, r.dbError("Failed to list profiles", err)
	}
	return profiles, nil
}

func (r *contentRepository) ListPOIs(ctx context.Context) ([]domain.POIRow, error) {
	rows, err := selectJSON[domain.POIRow](ctx, r.db, queryListPOIs)
	if err != nil {
		return nil, r.dbError("Failed to list POIs", err)
	}
	return rows, nil
}

func (r *contentRepository) ListItineraries(ctx context.Context) ([]domain.ItineraryRow, error) {
	rows, err := selectJSON[domain.ItineraryRow](ctx, r.db, queryListItineraries)
	if err != nil {
		return nil, r.dbError("Failed to list itineraries", err)
	}
	return rows, nil
}

func (r *contentRepository) ListFavoriteIDs(ctx context.Context, target domain.FavoriteTarget, userID string) ([]string, error) {
	t, err := favoriteTableFor(target)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	query := fmt.Sprintf(`SELECT %s::text FROM %s WHERE user_id = $1`, t.fk, t.table)
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, r.dbError("Failed to list favorites", err, zap.String("target", string(target)))
	}
	return ids, nil
}

func (r *contentRepository) InsertFavorite(ctx context.Context, target domain.FavoriteTarget, userID, targetID string) error {
	t, err := favoriteTableFor(target)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, %s) VALUES ($1, $2::uuid) ON CONFLICT DO NOTHING`,
		t.table, t.fk,
	)
	if _, err := r.db.ExecContext(ctx, query, userID, targetID); err != nil {
		return r.dbError("Failed to insert favorite", err,
			zap.String("target", string(target)), zap.String("target_id", targetID))
	}
	return nil
}

func (r *contentRepository) DeleteFavorite(ctx context.Context, target domain.FavoriteTarget, userID, targetID string) error {
	t, err := favoriteTableFor(target)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND %s = $2::uuid`, t.table, t.fk)
	if _, err := r.db.ExecContext(ctx, query, userID, targetID); err != nil {
		return r.dbError("Failed to delete favorite", err,
			zap.String("target", string(target)), zap.String("target_id", targetID))
	}
	return nil
}

func (r *contentRepository) InsertProfile(ctx context.Context, p domain.ProfileRow) error {
	query := `
		INSERT INTO profiles (id, name, avatar_url)
		VALUES (:id, :name, :avatar_url)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return r.dbError("Failed to insert profile", err, zap.String("id", p.ID))
	}
	return nil
}

func (r *contentRepository) GetProfile(ctx context.Context, id string) (*domain.ProfileRow, error) {
	var p domain.ProfileRow
	err := r.db.GetContext(ctx, &p, `SELECT id, name, avatar_url FROM profiles WHERE id = $1`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Profilo", id)
	}
	if err != nil {
		return nil, r.dbError("Failed to get profile", err, zap.String("id", id))
	}
	return &p, nil
}

func (r *contentRepository) dbError(msg string, err error, fields ...zap.Field) error {
	r.logger.Error(msg, append(fields, zap.Error(err))...)
	return errors.ErrDatabaseError.Wrap(err)
}

func favoriteTableFor(target domain.FavoriteTarget) (favoriteTable, error) {
	t, ok := favoriteTables[string(target)]
	if !ok {
		return favoriteTable{}, fmt.Errorf("unknown favorite target %q", target)
	}
	return t, nil
}

func photoTableFor(owner domain.PhotoOwner) (photoTable, error) {
	t, ok := photoTables[string(owner)]
	if !ok {
		return photoTable{}, fmt.Errorf("unknown photo owner %q", owner)
	}
	return t, nil
}
