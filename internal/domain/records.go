package domain

import "time"

// Записи для вставки и обновления строк. Обновления всегда полные.

type POIRecord struct {
	Type            GeometryKind
	Coordinates     *Coordinates
	PathCoordinates []Coordinates
	Bounds          []Coordinates
	PeriodID        string
	Title           string
	Location        string
	EventDate       string
	Description     string
	Tags            []string
	AuthorID        string
}

// NewPOIRecord maps the geometry variant onto its storage column.
func NewPOIRecord(g Geometry) POIRecord {
	f := FieldsOf(g)
	return POIRecord{
		Type:            f.Type,
		Coordinates:     f.Coordinates,
		PathCoordinates: f.PathCoordinates,
		Bounds:          f.Bounds,
	}
}

type CharacterRecord struct {
	Name         string
	Description  string
	WikipediaURL string
	AuthorID     string
}

type ItineraryRecord struct {
	Title             string
	Description       string
	EstimatedDuration string
	Tags              []string
	AuthorID          string
}

type PhotoRecord struct {
	ID               string
	URL              string
	Caption          string
	Latitude         *float64
	Longitude        *float64
	LocationAuthorID *string
	LocationSetAt    *time.Time
}

// PhotoRecordFrom maps a photo into its row form.
func PhotoRecordFrom(p Photo) PhotoRecord {
	rec := PhotoRecord{
		ID:               p.ID,
		URL:              p.URL,
		Caption:          p.Caption,
		LocationAuthorID: p.LocationAuthorID,
		LocationSetAt:    p.LocationSetAt,
	}
	if p.Coordinates != nil {
		lat, lon := p.Coordinates.Latitude, p.Coordinates.Longitude
		rec.Latitude = &lat
		rec.Longitude = &lon
	}
	return rec
}
