package utils

import "fmt"

// FormatLatLon - текстовая подпись координат, когда геокодер недоступен
func FormatLatLon(lat, lon float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lon)
}
