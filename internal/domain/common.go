package domain

import "time"

// Coordinates - географическая точка. Heading заполняется только для живых
// показаний геолокации устройства, у статичных сущностей он пустой.
type Coordinates struct {
	Latitude  float64  `json:"latitude" validate:"latitude"`
	Longitude float64  `json:"longitude" validate:"longitude"`
	Heading   *float64 `json:"heading,omitempty"`
}

// Equal compares positions only; heading is not part of an entity location.
func (c Coordinates) Equal(other Coordinates) bool {
	return c.Latitude == other.Latitude && c.Longitude == other.Longitude
}

// SameCoordinates reports whether two optional positions are equal,
// treating two nils as equal.
func SameCoordinates(a, b *Coordinates) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// Photo - фотография, принадлежащая POI, персонажу или маршруту.
// LocationAuthorID и LocationSetAt заполняются вместе с Coordinates.
type Photo struct {
	ID               string       `json:"id"`
	URL              string       `json:"url"`
	Caption          string       `json:"caption"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	LocationAuthorID *string      `json:"location_author_id,omitempty"`
	LocationSetAt    *time.Time   `json:"location_set_at,omitempty"`
}

// PhotoOwner - вид сущности-владельца фотографии
type PhotoOwner string

const (
	PhotoOwnerPOI       PhotoOwner = "pois"
	PhotoOwnerCharacter PhotoOwner = "characters"
	PhotoOwnerItinerary PhotoOwner = "itineraries"
)

// AnonymousAuthor - подпись автора, если связь с профилем отсутствует
const AnonymousAuthor = "Anonimo"

// PlaceholderImageURL is used as itinerary cover when none is stored.
const PlaceholderImageURL = "https://placehold.co/600x400?text=Nessuna+immagine"
