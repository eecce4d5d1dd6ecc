package domain

// Route - пешеходная линия маршрута для карты
type Route struct {
	Line            []Coordinates `json:"line"`
	DistanceMeters  float64       `json:"distance_meters"`
	DurationSeconds float64       `json:"duration_seconds"`
}

// MaxRouteWaypoints - лимит точек одного запроса Directions API
const MaxRouteWaypoints = 25
