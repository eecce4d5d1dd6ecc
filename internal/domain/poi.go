package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// GeometryKind - дискриминатор геометрии POI
type GeometryKind string

const (
	GeometryPoint GeometryKind = "point"
	GeometryPath  GeometryKind = "path"
	GeometryArea  GeometryKind = "area"
)

var (
	ErrUnknownGeometry = errors.New("unknown geometry kind")
	ErrGeometryArity   = errors.New("coordinate count does not match geometry kind")
)

// Geometry - закрытый набор вариантов геометрии POI: PointGeometry,
// PathGeometry, AreaGeometry. Внешние пакеты не могут добавить свой вариант.
type Geometry interface {
	Kind() GeometryKind
	// Points returns the coordinates in stored order.
	Points() []Coordinates
	sealed()
}

type PointGeometry struct {
	Coordinates Coordinates
}

type PathGeometry struct {
	PathCoordinates []Coordinates
}

type AreaGeometry struct {
	Bounds []Coordinates
}

func (PointGeometry) Kind() GeometryKind { return GeometryPoint }
func (PathGeometry) Kind() GeometryKind  { return GeometryPath }
func (AreaGeometry) Kind() GeometryKind  { return GeometryArea }

func (g PointGeometry) Points() []Coordinates { return []Coordinates{g.Coordinates} }
func (g PathGeometry) Points() []Coordinates  { return g.PathCoordinates }
func (g AreaGeometry) Points() []Coordinates  { return g.Bounds }

func (PointGeometry) sealed() {}
func (PathGeometry) sealed()  {}
func (AreaGeometry) sealed()  {}

// RequiredPoints returns the arity rule of a kind: a Point needs exactly one
// coordinate, a Path at least two, an Area at least three.
func RequiredPoints(kind GeometryKind) (min int, exact bool, err error) {
	switch kind {
	case GeometryPoint:
		return 1, true, nil
	case GeometryPath:
		return 2, false, nil
	case GeometryArea:
		return 3, false, nil
	default:
		return 0, false, fmt.Errorf("%w: %q", ErrUnknownGeometry, kind)
	}
}

// NewGeometry строит вариант геометрии и проверяет количество точек
func NewGeometry(kind GeometryKind, points []Coordinates) (Geometry, error) {
	min, exact, err := RequiredPoints(kind)
	if err != nil {
		return nil, err
	}
	if len(points) < min || (exact && len(points) != min) {
		return nil, fmt.Errorf("%w: %s has %d points", ErrGeometryArity, kind, len(points))
	}

	switch kind {
	case GeometryPoint:
		return PointGeometry{Coordinates: points[0]}, nil
	case GeometryPath:
		return PathGeometry{PathCoordinates: append([]Coordinates(nil), points...)}, nil
	case GeometryArea:
		return AreaGeometry{Bounds: append([]Coordinates(nil), points...)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGeometry, kind)
}

// Anchor returns the coordinate a POI is labelled and routed by: the first
// stored coordinate of any variant.
func Anchor(g Geometry) (Coordinates, bool) {
	switch v := g.(type) {
	case PointGeometry:
		return v.Coordinates, true
	case PathGeometry:
		if len(v.PathCoordinates) > 0 {
			return v.PathCoordinates[0], true
		}
	case AreaGeometry:
		if len(v.Bounds) > 0 {
			return v.Bounds[0], true
		}
	}
	return Coordinates{}, false
}

// GeometryFields - проводное представление геометрии: тег type и одно из полей
type GeometryFields struct {
	Type            GeometryKind  `json:"type"`
	Coordinates     *Coordinates  `json:"coordinates,omitempty"`
	PathCoordinates []Coordinates `json:"pathCoordinates,omitempty"`
	Bounds          []Coordinates `json:"bounds,omitempty"`
}

// FieldsOf flattens a geometry into its tagged wire form.
func FieldsOf(g Geometry) GeometryFields {
	switch v := g.(type) {
	case PointGeometry:
		c := v.Coordinates
		return GeometryFields{Type: GeometryPoint, Coordinates: &c}
	case PathGeometry:
		return GeometryFields{Type: GeometryPath, PathCoordinates: v.PathCoordinates}
	case AreaGeometry:
		return GeometryFields{Type: GeometryArea, Bounds: v.Bounds}
	}
	return GeometryFields{}
}

// Points returns the coordinates carried by the field matching Type.
func (f GeometryFields) Points() []Coordinates {
	switch f.Type {
	case GeometryPoint:
		if f.Coordinates == nil {
			return nil
		}
		return []Coordinates{*f.Coordinates}
	case GeometryPath:
		return f.PathCoordinates
	case GeometryArea:
		return f.Bounds
	}
	return nil
}

// Geometry converts the wire form back into a checked variant.
func (f GeometryFields) Geometry() (Geometry, error) {
	return NewGeometry(f.Type, f.Points())
}

// POI - точка интереса: общие поля плюс геометрия-вариант
type POI struct {
	ID                 string    `json:"id"`
	CreationDate       time.Time `json:"creationDate"`
	Author             string    `json:"author"`
	PeriodID           string    `json:"periodId"`
	CategoryIDs        []string  `json:"categoryIds"`
	Title              string    `json:"title"`
	Location           string    `json:"location"`
	EventDate          string    `json:"eventDate"`
	Description        string    `json:"description"`
	Photos             []Photo   `json:"photos"`
	LinkedCharacterIDs []string  `json:"linkedCharacterIds"`
	Tags               []string  `json:"tags"`
	FavoriteCount      int       `json:"favoriteCount"`
	IsFavorited        bool      `json:"isFavorited"`
	Geometry           Geometry  `json:"-"`
}

type poiAlias POI

type poiJSON struct {
	poiAlias
	GeometryFields
}

func (p POI) MarshalJSON() ([]byte, error) {
	return json.Marshal(poiJSON{poiAlias: poiAlias(p), GeometryFields: FieldsOf(p.Geometry)})
}

func (p *POI) UnmarshalJSON(data []byte) error {
	var raw poiJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g, err := raw.GeometryFields.Geometry()
	if err != nil {
		return fmt.Errorf("poi %s: %w", raw.ID, err)
	}
	*p = POI(raw.poiAlias)
	p.Geometry = g
	return nil
}

// WithFavorite returns a copy of the POI with the given favorite state.
func (p POI) WithFavorite(isFavorited bool, count int) POI {
	p.IsFavorited = isFavorited
	p.FavoriteCount = count
	return p
}
