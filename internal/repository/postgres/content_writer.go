package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/pkg/errors"
	"go.uber.org/zap"
)

func (r *contentRepository) InsertCategory(ctx context.Context, c domain.Category) error {
	if _, err := r.db.NamedExecContext(ctx, `INSERT INTO categories (id, name) VALUES (:id, :name)`, c); err != nil {
		return r.dbError("Failed to insert category", err, zap.String("id", c.ID))
	}
	return nil
}

func (r *contentRepository) InsertPeriod(ctx context.Context, p domain.Period) error {
	query := `
		INSERT INTO periods (id, name, start_year, end_year)
		VALUES (:id, :name, :start_year, :end_year)
	`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return r.dbError("Failed to insert period", err, zap.String("id", p.ID))
	}
	return nil
}

// poiParams - параметры геометрии и полей POI в порядке колонок
func poiParams(rec domain.POIRecord) ([]interface{}, error) {
	coords, err := jsonParam(rec.Coordinates, rec.Coordinates == nil)
	if err != nil {
		return nil, fmt.Errorf("encode coordinates: %w", err)
	}
	path, err := jsonParam(rec.PathCoordinates, len(rec.PathCoordinates) == 0)
	if err != nil {
		return nil, fmt.Errorf("encode path: %w", err)
	}
	bounds, err := jsonParam(rec.Bounds, len(rec.Bounds) == 0)
	if err != nil {
		return nil, fmt.Errorf("encode bounds: %w", err)
	}

	return []interface{}{
		string(rec.Type), coords, path, bounds,
		rec.PeriodID, rec.Title, rec.Location, rec.EventDate, rec.Description,
		pq.Array(nonNil(rec.Tags)),
	}, nil
}

func (r *contentRepository) InsertPOI(ctx context.Context, rec domain.POIRecord) (string, error) {
	args, err := poiParams(rec)
	if err != nil {
		return "", err
	}
	args = append(args, nullIfEmpty(rec.AuthorID))

	query := `
		INSERT INTO pois (
			type, coordinates, path_coordinates, bounds,
			period_id, title, location, event_date, description, tags, author_id
		)
		VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5, $6, $7, $8, $9, $10::text[], $11)
		RETURNING id::text
	`

	var id string
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return "", r.dbError("Failed to insert POI", err, zap.String("title", rec.Title))
	}
	return id, nil
}

// UpdatePOI перезаписывает все поля кроме автора и даты создания
func (r *contentRepository) UpdatePOI(ctx context.Context, id string, rec domain.POIRecord) error {
	args, err := poiParams(rec)
	if err != nil {
		return err
	}
	args = append(args, id)

	query := `
		UPDATE pois SET
			type = $1,
			coordinates = $2::jsonb,
			path_coordinates = $3::jsonb,
			bounds = $4::jsonb,
			period_id = $5,
			title = $6,
			location = $7,
			event_date = $8,
			description = $9,
			tags = $10::text[]
		WHERE id = $11::uuid
	`
	return r.execOne(ctx, "POI", id, query, args...)
}

func (r *contentRepository) DeletePOI(ctx context.Context, id string) error {
	return r.execOne(ctx, "POI", id, `DELETE FROM pois WHERE id = $1::uuid`, id)
}

func (r *contentRepository) ReplacePOICategories(ctx context.Context, poiID string, categoryIDs []string) error {
	return r.replaceJoin(ctx, poiID,
		`DELETE FROM poi_categories WHERE poi_id = $1::uuid`,
		`INSERT INTO poi_categories (poi_id, category_id)
		 SELECT $1::uuid, c FROM unnest($2::text[]) AS c`,
		categoryIDs,
	)
}

func (r *contentRepository) ReplacePOICharacters(ctx context.Context, poiID string, characterIDs []string) error {
	return r.replaceJoin(ctx, poiID,
		`DELETE FROM poi_characters WHERE poi_id = $1::uuid`,
		`INSERT INTO poi_characters (poi_id, character_id)
		 SELECT $1::uuid, c::uuid FROM unnest($2::text[]) AS c`,
		characterIDs,
	)
}

func (r *contentRepository) InsertCharacter(ctx context.Context, rec domain.CharacterRecord) (string, error) {
	query := `
		INSERT INTO characters (name, description, wikipedia_url, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text
	`

	var id string
	err := r.db.QueryRowxContext(ctx, query,
		rec.Name, rec.Description, nullIfEmpty(rec.WikipediaURL), nullIfEmpty(rec.AuthorID),
	).Scan(&id)
	if err != nil {
		return "", r.dbError("Failed to insert character", err, zap.String("name", rec.Name))
	}
	return id, nil
}

func (r *contentRepository) UpdateCharacter(ctx context.Context, id string, rec domain.CharacterRecord) error {
	query := `
		UPDATE characters SET name = $1, description = $2, wikipedia_url = $3
		WHERE id = $4::uuid
	`
	return r.execOne(ctx, "Personaggio", id, query,
		rec.Name, rec.Description, nullIfEmpty(rec.WikipediaURL), id)
}

func (r *contentRepository) DeleteCharacter(ctx context.Context, id string) error {
	return r.execOne(ctx, "Personaggio", id, `DELETE FROM characters WHERE id = $1::uuid`, id)
}

func (r *contentRepository) InsertItinerary(ctx context.Context, rec domain.ItineraryRecord) (string, error) {
	query := `
		INSERT INTO itineraries (title, description, estimated_duration, tags, author_id)
		VALUES ($1, $2, $3, $4::text[], $5)
		RETURNING id::text
	`

	var id string
	err := r.db.QueryRowxContext(ctx, query,
		rec.Title, rec.Description, rec.EstimatedDuration, pq.Array(nonNil(rec.Tags)), nullIfEmpty(rec.AuthorID),
	).Scan(&id)
	if err != nil {
		return "", r.dbError("Failed to insert itinerary", err, zap.String("title", rec.Title))
	}
	return id, nil
}

func (r *contentRepository) UpdateItinerary(ctx context.Context, id string, rec domain.ItineraryRecord) error {
	query := `
		UPDATE itineraries SET
			title = $1,
			description = $2,
			estimated_duration = $3,
			tags = $4::text[]
		WHERE id = $5::uuid
	`
	return r.execOne(ctx, "Itinerario", id, query,
		rec.Title, rec.Description, rec.EstimatedDuration, pq.Array(nonNil(rec.Tags)), id)
}

func (r *contentRepository) DeleteItinerary(ctx context.Context, id string) error {
	return r.execOne(ctx, "Itinerario", id, `DELETE FROM itineraries WHERE id = $1::uuid`, id)
}

func (r *contentRepository) ReplaceItineraryStops(ctx context.Context, itineraryID string, poiIDs []string) error {
	return r.replaceJoin(ctx, itineraryID,
		`DELETE FROM itinerary_pois WHERE itinerary_id = $1::uuid`,
		`INSERT INTO itinerary_pois (itinerary_id, position, poi_id)
		 SELECT $1::uuid, t.ord - 1, t.poi_id::uuid
		 FROM unnest($2::text[]) WITH ORDINALITY AS t(poi_id, ord)`,
		poiIDs,
	)
}

// replaceJoin удаляет все строки связи владельца и вставляет новые в одной транзакции
func (r *contentRepository) replaceJoin(ctx context.Context, ownerID, deleteQuery, insertQuery string, ids []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return r.dbError("Failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteQuery, ownerID); err != nil {
		return r.dbError("Failed to delete join rows", err, zap.String("owner_id", ownerID))
	}
	if len(ids) > 0 {
		if _, err := tx.ExecContext(ctx, insertQuery, ownerID, pq.Array(ids)); err != nil {
			return r.dbError("Failed to insert join rows", err, zap.String("owner_id", ownerID))
		}
	}

	if err := tx.Commit(); err != nil {
		return r.dbError("Failed to commit join rows", err, zap.String("owner_id", ownerID))
	}
	return nil
}

// execOne выполняет запрос, который должен затронуть ровно одну строку
func (r *contentRepository) execOne(ctx context.Context, what, id, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.dbError("Failed to write "+what, err, zap.String("id", id))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return r.dbError("Failed to read affected rows", err, zap.String("id", id))
	}
	if affected == 0 {
		return errors.NotFound(what, id)
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
