package dto

import "github.com/milan-history-map/internal/domain"

// PreciseDateLayout - формат точной даты события в черновике POI
const PreciseDateLayout = "2006-01-02"

// PhotoUpload - новая фотография: файл (base64 в JSON) или готовый внешний URL
type PhotoUpload struct {
	Data        []byte              `json:"data,omitempty"`
	FileName    string              `json:"file_name,omitempty" validate:"max=255"`
	URL         string              `json:"url,omitempty" validate:"omitempty,url"`
	Caption     string              `json:"caption" validate:"max=500"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
}

// IsEmpty reports whether neither a file nor a URL was supplied.
func (p PhotoUpload) IsEmpty() bool {
	return len(p.Data) == 0 && p.URL == ""
}

// PhotoEdit - изменение подписи и координат уже сохранённой фотографии
type PhotoEdit struct {
	ID          string              `json:"id" validate:"required"`
	Caption     string              `json:"caption" validate:"max=500"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
}

// PhotoChanges - изменения фотографий при обновлении сущности
type PhotoChanges struct {
	NewPhotos       []PhotoUpload `json:"newPhotos" validate:"omitempty,dive"`
	ExistingPhotos  []PhotoEdit   `json:"existingPhotos" validate:"omitempty,dive"`
	RemovedPhotoIDs []string      `json:"removedPhotoIds"`
}

// POIDraft - данные формы POI. Геометрия передаётся так же, как в ответе:
// тег type и поле своего варианта.
type POIDraft struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description"`

	Type            domain.GeometryKind  `json:"type"`
	Coordinates     *domain.Coordinates  `json:"coordinates,omitempty"`
	PathCoordinates []domain.Coordinates `json:"pathCoordinates,omitempty" validate:"omitempty,dive"`
	Bounds          []domain.Coordinates `json:"bounds,omitempty" validate:"omitempty,dive"`

	PeriodID    string  `json:"periodId,omitempty"`
	PreciseDate *string `json:"preciseDate,omitempty"`

	CategoryIDs        []string `json:"categoryIds"`
	LinkedCharacterIDs []string `json:"linkedCharacterIds"`
	Tags               []string `json:"tags" validate:"max=20"`

	PhotoChanges
}

// GeometryFields returns the draft geometry in its tagged wire form.
func (d POIDraft) GeometryFields() domain.GeometryFields {
	return domain.GeometryFields{
		Type:            d.Type,
		Coordinates:     d.Coordinates,
		PathCoordinates: d.PathCoordinates,
		Bounds:          d.Bounds,
	}
}

// CharacterDraft - данные формы персонажа
type CharacterDraft struct {
	Name         string `json:"name" validate:"max=200"`
	Description  string `json:"description"`
	WikipediaURL string `json:"wikipediaUrl,omitempty" validate:"omitempty,url"`

	PhotoChanges
}

// ItineraryDraft - данные формы маршрута. POIIDs - остановки по порядку.
// При обновлении CoverPhoto может быть пустым: остаётся прежняя обложка.
type ItineraryDraft struct {
	Title       string      `json:"title" validate:"max=200"`
	Description string      `json:"description"`
	POIIDs      []string    `json:"poiIds"`
	Tags        []string    `json:"tags" validate:"max=20"`
	CoverPhoto  PhotoUpload `json:"coverPhoto"`
}

// CategoryDraft - новая категория; id получается из имени
type CategoryDraft struct {
	Name string `json:"name" validate:"required,max=100"`
}

// PeriodDraft - новый исторический период
type PeriodDraft struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
}

// SignInRequest - анонимный вход с необязательным отображаемым именем
type SignInRequest struct {
	Name string `json:"name" validate:"max=100"`
}
