package domain

// Itinerary - маршрут из упорядоченных остановок-POI. Владеет обложкой,
// но не владеет POI: остановка ссылается на POI по ID.
type Itinerary struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	EstimatedDuration string   `json:"estimatedDuration"`
	POIIDs            []string `json:"poiIds"`
	Author            string   `json:"author"`
	Tags              []string `json:"tags"`
	CoverPhoto        Photo    `json:"coverPhoto"`
	FavoriteCount     int      `json:"favoriteCount"`
	IsFavorited       bool     `json:"isFavorited"`
}

// WithFavorite returns a copy of the itinerary with the given favorite state.
func (it Itinerary) WithFavorite(isFavorited bool, count int) Itinerary {
	it.IsFavorited = isFavorited
	it.FavoriteCount = count
	return it
}

// PlaceholderCoverPhoto - обложка для маршрутов без фотографии
func PlaceholderCoverPhoto() Photo {
	return Photo{ID: "", URL: PlaceholderImageURL, Caption: "No image"}
}

// FavoriteTarget - вид сущности, которую можно добавить в избранное
type FavoriteTarget string

const (
	FavoritePOI       FavoriteTarget = "poi"
	FavoriteItinerary FavoriteTarget = "itinerary"
)
