package usecase

import (
	"fmt"
	"time"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/pkg/utils"
)

// minutesPerStop - оценка времени на одну остановку маршрута
const minutesPerStop = 30

var italianMonths = [...]string{
	"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
	"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
}

// ItalianLongDate formats t as "2 gennaio 1848".
func ItalianLongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), italianMonths[t.Month()-1], t.Year())
}

// PeriodLabel formats a period as "Risorgimento (1815–1871)".
func PeriodLabel(p domain.Period) string {
	return fmt.Sprintf("%s (%d–%d)", p.Name, p.StartYear, p.EndYear)
}

// EstimatedDuration - "30 min", "1 h", "1 h 30 min"
func EstimatedDuration(stops int) string {
	total := stops * minutesPerStop
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%d h", h)
	default:
		return fmt.Sprintf("%d h %d min", h, m)
	}
}

// coordinateLabel - подпись места, когда геокодер ничего не вернул
func coordinateLabel(c domain.Coordinates) string {
	return utils.FormatLatLon(c.Latitude, c.Longitude)
}
