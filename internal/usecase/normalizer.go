package usecase

import (
	"fmt"
	"sort"

	"github.com/milan-history-map/internal/domain"
)

// Нормализатор: чистые функции без сети и побочных эффектов.
// Сломанные джойны (null вместо вложенной цели) молча отбрасываются.

// IDSet - множество id для проверки принадлежности
type IDSet map[string]struct{}

func NewIDSet(ids []string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// NormalizePhoto проецирует строку фотографии. Автор и время геометки
// сохраняются только вместе с координатами.
func NormalizePhoto(row domain.PhotoRow) domain.Photo {
	p := domain.Photo{ID: row.ID, URL: row.URL}
	if row.Caption != nil {
		p.Caption = *row.Caption
	}
	if row.Latitude != nil && row.Longitude != nil {
		p.Coordinates = &domain.Coordinates{Latitude: *row.Latitude, Longitude: *row.Longitude}
		p.LocationAuthorID = row.LocationAuthorID
		p.LocationSetAt = row.LocationSetAt
	}
	return p
}

func normalizePhotos(rows []domain.PhotoRow) []domain.Photo {
	photos := make([]domain.Photo, 0, len(rows))
	for _, row := range rows {
		photos = append(photos, NormalizePhoto(row))
	}
	return photos
}

func authorName(ref *domain.AuthorRef) string {
	if ref == nil || ref.Name == "" {
		return domain.AnonymousAuthor
	}
	return ref.Name
}

func favoriteCount(aggs []domain.CountAggregate) int {
	if len(aggs) == 0 || aggs[0].Count < 0 {
		return 0
	}
	return aggs[0].Count
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// NormalizePOI собирает POI из строки с джойнами. Ошибка возвращается только
// для геометрии, не соответствующей своему типу.
func NormalizePOI(row domain.POIRow, favorited IDSet) (domain.POI, error) {
	fields := domain.GeometryFields{
		Type:            row.Type,
		Coordinates:     row.Coordinates,
		PathCoordinates: row.PathCoordinates,
		Bounds:          row.Bounds,
	}
	geometry, err := fields.Geometry()
	if err != nil {
		return domain.POI{}, fmt.Errorf("poi %s: %w", row.ID, err)
	}

	categoryIDs := make([]string, 0, len(row.POICategories))
	for _, j := range row.POICategories {
		if j.Category != nil {
			categoryIDs = append(categoryIDs, j.Category.ID)
		}
	}

	characterIDs := make([]string, 0, len(row.POICharacters))
	for _, j := range row.POICharacters {
		if j.Character != nil {
			characterIDs = append(characterIDs, j.Character.ID)
		}
	}

	return domain.POI{
		ID:                 row.ID,
		CreationDate:       row.CreatedAt,
		Author:             authorName(row.Author),
		PeriodID:           row.PeriodID,
		CategoryIDs:        categoryIDs,
		Title:              row.Title,
		Location:           row.Location,
		EventDate:          row.EventDate,
		Description:        row.Description,
		Photos:             normalizePhotos(row.Photos),
		LinkedCharacterIDs: characterIDs,
		Tags:               nonNilStrings(row.Tags),
		FavoriteCount:      favoriteCount(row.Favorites),
		IsFavorited:        favorited.Has(row.ID),
		Geometry:           geometry,
	}, nil
}

// NormalizeItinerary упорядочивает остановки по позиции и подставляет
// обложку-заглушку, если связь с фотографией отсутствует
func NormalizeItinerary(row domain.ItineraryRow, favorited IDSet) domain.Itinerary {
	stops := make([]domain.StopJoinRow, 0, len(row.Stops))
	for _, s := range row.Stops {
		if s.POI != nil {
			stops = append(stops, s)
		}
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Position < stops[j].Position })

	poiIDs := make([]string, len(stops))
	for i, s := range stops {
		poiIDs[i] = s.POI.ID
	}

	cover := domain.PlaceholderCoverPhoto()
	if row.CoverPhoto != nil {
		cover = NormalizePhoto(*row.CoverPhoto)
	}

	return domain.Itinerary{
		ID:                row.ID,
		Title:             row.Title,
		Description:       row.Description,
		EstimatedDuration: row.EstimatedDuration,
		POIIDs:            poiIDs,
		Author:            authorName(row.Author),
		Tags:              nonNilStrings(row.Tags),
		CoverPhoto:        cover,
		FavoriteCount:     favoriteCount(row.Favorites),
		IsFavorited:       favorited.Has(row.ID),
	}
}

func NormalizeCharacter(row domain.CharacterRow) domain.Character {
	c := domain.Character{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Photos:      normalizePhotos(row.Photos),
	}
	if row.WikipediaURL != nil {
		c.WikipediaURL = *row.WikipediaURL
	}
	return c
}

// CountContributions - один проход по POI, персонажам и маршрутам
// с подсчётом по id автора
func CountContributions(raw domain.RawCatalog) map[string]int {
	counts := make(map[string]int)
	add := func(author *string) {
		if author != nil && *author != "" {
			counts[*author]++
		}
	}
	for i := range raw.POIs {
		add(raw.POIs[i].AuthorID)
	}
	for i := range raw.Characters {
		add(raw.Characters[i].AuthorID)
	}
	for i := range raw.Itineraries {
		add(raw.Itineraries[i].AuthorID)
	}
	return counts
}

func NormalizeProfiles(rows []domain.ProfileRow, contributions map[string]int) []domain.Profile {
	profiles := make([]domain.Profile, 0, len(rows))
	for _, row := range rows {
		p := domain.Profile{
			ID:            row.ID,
			Name:          row.Name,
			Contributions: contributions[row.ID],
		}
		if row.AvatarURL != nil {
			p.AvatarURL = *row.AvatarURL
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// NormalizeCatalog превращает результаты одной загрузки в снимок каталога.
// POI с некорректной геометрией пропускаются и возвращаются как ошибки;
// остановки маршрутов на незагруженные POI отфильтровываются.
func NormalizeCatalog(raw domain.RawCatalog) (domain.Catalog, []error) {
	var skipped []error

	favPOIs := NewIDSet(raw.FavoritePOIIDs)
	pois := make([]domain.POI, 0, len(raw.POIs))
	loaded := make(IDSet, len(raw.POIs))
	for _, row := range raw.POIs {
		poi, err := NormalizePOI(row, favPOIs)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		pois = append(pois, poi)
		loaded[poi.ID] = struct{}{}
	}

	favItineraries := NewIDSet(raw.FavoriteItineraryIDs)
	itineraries := make([]domain.Itinerary, 0, len(raw.Itineraries))
	for _, row := range raw.Itineraries {
		it := NormalizeItinerary(row, favItineraries)
		kept := make([]string, 0, len(it.POIIDs))
		for _, id := range it.POIIDs {
			if loaded.Has(id) {
				kept = append(kept, id)
			}
		}
		it.POIIDs = kept
		itineraries = append(itineraries, it)
	}

	characters := make([]domain.Character, 0, len(raw.Characters))
	for _, row := range raw.Characters {
		characters = append(characters, NormalizeCharacter(row))
	}

	categories := raw.Categories
	if categories == nil {
		categories = []domain.Category{}
	}
	periods := raw.Periods
	if periods == nil {
		periods = []domain.Period{}
	}

	return domain.Catalog{
		Categories:  categories,
		Periods:     periods,
		Characters:  characters,
		Profiles:    NormalizeProfiles(raw.Profiles, CountContributions(raw)),
		POIs:        pois,
		Itineraries: itineraries,
	}, skipped
}
