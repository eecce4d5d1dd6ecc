package domain

import "time"

// Сырые строки бэкенда: вложенная JSON-проекция с джойнами, как её отдаёт
// реляционное хранилище. Вложенная цель джойна может быть null, если строка
// ссылается на удалённую или недоступную сущность.

// IDRef - вложенная ссылка {id}
type IDRef struct {
	ID string `json:"id"`
}

// AuthorRef - вложенный профиль автора {name}
type AuthorRef struct {
	Name string `json:"name"`
}

// CountAggregate - агрегат избранного [{count}]
type CountAggregate struct {
	Count int `json:"count"`
}

type CategoryJoinRow struct {
	Category *IDRef `json:"categories"`
}

type CharacterJoinRow struct {
	Character *IDRef `json:"characters"`
}

type StopJoinRow struct {
	Position int    `json:"position"`
	POI      *IDRef `json:"pois"`
}

type PhotoRow struct {
	ID               string     `json:"id"`
	URL              string     `json:"url"`
	Caption          *string    `json:"caption"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	LocationAuthorID *string    `json:"location_author_id"`
	LocationSetAt    *time.Time `json:"location_set_at"`
}

type POIRow struct {
	ID              string             `json:"id"`
	CreatedAt       time.Time          `json:"created_at"`
	Type            GeometryKind       `json:"type"`
	Coordinates     *Coordinates       `json:"coordinates"`
	PathCoordinates []Coordinates      `json:"path_coordinates"`
	Bounds          []Coordinates      `json:"bounds"`
	PeriodID        string             `json:"period_id"`
	Title           string             `json:"title"`
	Location        string             `json:"location"`
	EventDate       string             `json:"event_date"`
	Description     string             `json:"description"`
	Tags            []string           `json:"tags"`
	AuthorID        *string            `json:"author_id"`
	Author          *AuthorRef         `json:"author"`
	POICategories   []CategoryJoinRow  `json:"poi_categories"`
	POICharacters   []CharacterJoinRow `json:"poi_characters"`
	Photos          []PhotoRow         `json:"poi_photos"`
	Favorites       []CountAggregate   `json:"poi_favorites"`
}

type ItineraryRow struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	EstimatedDuration string           `json:"estimated_duration"`
	Tags              []string         `json:"tags"`
	AuthorID          *string          `json:"author_id"`
	Author            *AuthorRef       `json:"author"`
	Stops             []StopJoinRow    `json:"itinerary_pois"`
	CoverPhoto        *PhotoRow        `json:"cover_photo"`
	Favorites         []CountAggregate `json:"itinerary_favorites"`
}

type CharacterRow struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	WikipediaURL *string    `json:"wikipedia_url"`
	AuthorID     *string    `json:"author_id"`
	Photos       []PhotoRow `json:"character_photos"`
}

type ProfileRow struct {
	ID        string  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
}

// RawCatalog - результаты всех запросов одной загрузки до нормализации
type RawCatalog struct {
	Categories           []Category
	Periods              []Period
	Characters           []CharacterRow
	Profiles             []ProfileRow
	POIs                 []POIRow
	Itineraries          []ItineraryRow
	FavoritePOIIDs       []string
	FavoriteItineraryIDs []string
}
