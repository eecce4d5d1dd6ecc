package postgres

import "fmt"

// photosJSON - подзапрос с фотографиями владельца в порядке добавления.
// created_at одинаков у фотографий одной транзакции, порядок задаёт seq.
func photosJSON(table, fk, owner string) string {
	return fmt.Sprintf(`COALESCE((
			SELECT json_agg(json_build_object(
				'id', ph.id,
				'url', ph.url,
				'caption', ph.caption,
				'latitude', ph.latitude,
				'longitude', ph.longitude,
				'location_author_id', ph.location_author_id,
				'location_set_at', ph.location_set_at
			) ORDER BY ph.seq)
			FROM %s ph WHERE ph.%s = %s
		), '[]'::json)`, table, fk, owner)
}

var (
	queryListPOIs = `
		SELECT json_build_object(
			'id', p.id,
			'created_at', p.created_at,
			'type', p.type,
			'coordinates', p.coordinates,
			'path_coordinates', p.path_coordinates,
			'bounds', p.bounds,
			'period_id', p.period_id,
			'title', p.title,
			'location', p.location,
			'event_date', p.event_date,
			'description', p.description,
			'tags', p.tags,
			'author_id', p.author_id,
			'author', (SELECT json_build_object('name', pr.name) FROM profiles pr WHERE pr.id = p.author_id),
			'poi_categories', COALESCE((
				SELECT json_agg(json_build_object(
					'categories', (SELECT json_build_object('id', c.id) FROM categories c WHERE c.id = pc.category_id)
				))
				FROM poi_categories pc WHERE pc.poi_id = p.id
			), '[]'::json),
			'poi_characters', COALESCE((
				SELECT json_agg(json_build_object(
					'characters', (SELECT json_build_object('id', ch.id) FROM characters ch WHERE ch.id = pch.character_id)
				))
				FROM poi_characters pch WHERE pch.poi_id = p.id
			), '[]'::json),
			'poi_photos', ` + photosJSON("poi_photos", "poi_id", "p.id") + `,
			'poi_favorites', json_build_array(json_build_object(
				'count', (SELECT count(*) FROM poi_favorites f WHERE f.poi_id = p.id)
			))
		)
		FROM pois p
		ORDER BY p.created_at DESC, p.id
	`

	queryListItineraries = `
		SELECT json_build_object(
			'id', i.id,
			'title', i.title,
			'description', i.description,
			'estimated_duration', i.estimated_duration,
			'tags', i.tags,
			'author_id', i.author_id,
			'author', (SELECT json_build_object('name', pr.name) FROM profiles pr WHERE pr.id = i.author_id),
			'itinerary_pois', COALESCE((
				SELECT json_agg(json_build_object(
					'position', ip.position,
					'pois', (SELECT json_build_object('id', p.id) FROM pois p WHERE p.id = ip.poi_id)
				) ORDER BY ip.position)
				FROM itinerary_pois ip WHERE ip.itinerary_id = i.id
			), '[]'::json),
			'cover_photo', (
				SELECT json_build_object(
					'id', ph.id,
					'url', ph.url,
					'caption', ph.caption,
					'latitude', ph.latitude,
					'longitude', ph.longitude,
					'location_author_id', ph.location_author_id,
					'location_set_at', ph.location_set_at
				)
				FROM itinerary_photos ph WHERE ph.itinerary_id = i.id
				ORDER BY ph.seq DESC
				LIMIT 1
			),
			'itinerary_favorites', json_build_array(json_build_object(
				'count', (SELECT count(*) FROM itinerary_favorites f WHERE f.itinerary_id = i.id)
			))
		)
		FROM itineraries i
		ORDER BY i.created_at DESC, i.id
	`

	queryListCharacters = `
		SELECT json_build_object(
			'id', ch.id,
			'name', ch.name,
			'description', ch.description,
			'wikipedia_url', ch.wikipedia_url,
			'author_id', ch.author_id,
			'character_photos', ` + photosJSON("character_photos", "character_id", "ch.id") + `
		)
		FROM characters ch
		ORDER BY ch.name, ch.id
	`
)

// photoTable - таблица фотографий и колонка владельца
type photoTable struct {
	table string
	fk    string
}

var photoTables = map[string]photoTable{
	"pois":        {table: "poi_photos", fk: "poi_id"},
	"characters":  {table: "character_photos", fk: "character_id"},
	"itineraries": {table: "itinerary_photos", fk: "itinerary_id"},
}

// favoriteTable - таблица избранного и колонка цели
type favoriteTable struct {
	table string
	fk    string
}

var favoriteTables = map[string]favoriteTable{
	"poi":       {table: "poi_favorites", fk: "poi_id"},
	"itinerary": {table: "itinerary_favorites", fk: "itinerary_id"},
}
