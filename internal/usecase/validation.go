package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/pkg/validator"
	"github.com/milan-history-map/internal/usecase/dto"
)

// Сообщения валидации форм
const (
	MsgTitleRequired      = "Il titolo è obbligatorio"
	MsgNameRequired       = "Il nome è obbligatorio"
	MsgCategoryRequired   = "Seleziona almeno una categoria"
	MsgTimeRequired       = "Indica una data precisa oppure un periodo storico"
	MsgInvalidDate        = "La data non è valida: usa il formato AAAA-MM-GG"
	MsgGeometryKind       = "Seleziona il tipo di geometria: punto, percorso o area"
	MsgPointArity         = "Un punto richiede esattamente una coordinata"
	MsgPathArity          = "Un percorso richiede almeno 2 coordinate"
	MsgAreaArity          = "Un'area richiede almeno 3 coordinate"
	MsgCoverPhotoRequired = "La foto di copertina è obbligatoria"
	MsgStopsRequired      = "Aggiungi almeno una tappa al percorso"
	MsgPhotoSource        = "Ogni nuova foto richiede un file oppure un URL"
	MsgPeriodRange        = "L'anno di inizio non può essere successivo all'anno di fine"
	MsgSlugEmpty          = "Il nome deve contenere almeno una lettera o una cifra"
)

// violations собирает все нарушенные правила, чтобы вернуть их одним сообщением
type violations []string

func (v *violations) add(msg string) {
	*v = append(*v, msg)
}

func (v *violations) addf(format string, args ...interface{}) {
	*v = append(*v, fmt.Sprintf(format, args...))
}

// structural добавляет нарушения тегов validate
func (v *violations) structural(s interface{}) {
	*v = append(*v, validator.Violations(validator.Validate(s))...)
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return errors.Validation(v)
}

// poiPlan - проверенный черновик POI с разрешённой геометрией и датировкой
type poiPlan struct {
	geometry     domain.Geometry
	period       domain.Period
	eventDate    string
	categoryIDs  []string
	characterIDs []string
}

// uniqueIDs убирает повторы, сохраняя порядок первого появления
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validatePOIDraft(d dto.POIDraft, catalog *domain.Catalog) (poiPlan, error) {
	var v violations
	var plan poiPlan

	v.structural(&d)

	if strings.TrimSpace(d.Title) == "" {
		v.add(MsgTitleRequired)
	}

	// связи пишутся в таблицы с составным ключом, повторы недопустимы
	plan.categoryIDs = uniqueIDs(d.CategoryIDs)
	plan.characterIDs = uniqueIDs(d.LinkedCharacterIDs)

	if len(plan.categoryIDs) == 0 {
		v.add(MsgCategoryRequired)
	}
	for _, id := range plan.categoryIDs {
		if !catalog.HasCategory(id) {
			v.addf("Categoria sconosciuta: %s", id)
		}
	}
	for _, id := range plan.characterIDs {
		if !catalog.HasCharacter(id) {
			v.addf("Personaggio sconosciuto: %s", id)
		}
	}

	if period, eventDate, msg := resolveTimeReference(d, catalog); msg != "" {
		v.add(msg)
	} else {
		plan.period, plan.eventDate = period, eventDate
	}

	if g, msg := checkGeometry(d.GeometryFields()); msg != "" {
		v.add(msg)
	} else {
		plan.geometry = g
	}

	checkNewPhotos(&v, d.NewPhotos)

	if err := v.err(); err != nil {
		return poiPlan{}, err
	}
	return plan, nil
}

// resolveTimeReference возвращает период и подпись даты. Точная дата должна
// попадать в диапазон существующего периода; явно выбранный период должен
// существовать и, если задана дата, содержать её год.
func resolveTimeReference(d dto.POIDraft, catalog *domain.Catalog) (domain.Period, string, string) {
	if d.PreciseDate != nil && strings.TrimSpace(*d.PreciseDate) != "" {
		date, err := time.Parse(dto.PreciseDateLayout, strings.TrimSpace(*d.PreciseDate))
		if err != nil {
			return domain.Period{}, "", MsgInvalidDate
		}

		if d.PeriodID != "" {
			p, ok := catalog.FindPeriod(d.PeriodID)
			if !ok {
				return domain.Period{}, "", fmt.Sprintf("Periodo sconosciuto: %s", d.PeriodID)
			}
			if !p.Contains(date.Year()) {
				return domain.Period{}, "", fmt.Sprintf("L'anno %d non rientra nel periodo %s", date.Year(), PeriodLabel(p))
			}
			return p, ItalianLongDate(date), ""
		}

		p, ok := catalog.PeriodForYear(date.Year())
		if !ok {
			return domain.Period{}, "", fmt.Sprintf("Nessun periodo storico comprende l'anno %d", date.Year())
		}
		return p, ItalianLongDate(date), ""
	}

	if d.PeriodID != "" {
		p, ok := catalog.FindPeriod(d.PeriodID)
		if !ok {
			return domain.Period{}, "", fmt.Sprintf("Periodo sconosciuto: %s", d.PeriodID)
		}
		return p, PeriodLabel(p), ""
	}

	return domain.Period{}, "", MsgTimeRequired
}

// checkGeometry проверяет количество точек для выбранного варианта.
// Диапазоны координат проверяются тегами validate.
func checkGeometry(f domain.GeometryFields) (domain.Geometry, string) {
	points := f.Points()
	switch f.Type {
	case domain.GeometryPoint:
		if len(points) != 1 {
			return nil, MsgPointArity
		}
	case domain.GeometryPath:
		if len(points) < 2 {
			return nil, MsgPathArity
		}
	case domain.GeometryArea:
		if len(points) < 3 {
			return nil, MsgAreaArity
		}
	default:
		return nil, MsgGeometryKind
	}

	g, err := f.Geometry()
	if err != nil {
		return nil, MsgGeometryKind
	}
	return g, ""
}

func checkNewPhotos(v *violations, uploads []dto.PhotoUpload) {
	for _, up := range uploads {
		if up.IsEmpty() {
			v.add(MsgPhotoSource)
			return
		}
	}
}

func validateCharacterDraft(d dto.CharacterDraft) error {
	var v violations
	v.structural(&d)
	if strings.TrimSpace(d.Name) == "" {
		v.add(MsgNameRequired)
	}
	checkNewPhotos(&v, d.NewPhotos)
	return v.err()
}

// validateItineraryDraft - обложка обязательна только при создании
func validateItineraryDraft(d dto.ItineraryDraft, catalog *domain.Catalog, requireCover bool) error {
	var v violations
	v.structural(&d)

	if strings.TrimSpace(d.Title) == "" {
		v.add(MsgTitleRequired)
	}
	if requireCover && d.CoverPhoto.IsEmpty() {
		v.add(MsgCoverPhotoRequired)
	}
	if len(d.POIIDs) == 0 {
		v.add(MsgStopsRequired)
	}
	for _, id := range d.POIIDs {
		if catalog.POIIndex(id) < 0 {
			v.addf("Tappa sconosciuta: %s", id)
		}
	}
	return v.err()
}

func validateCategoryDraft(d dto.CategoryDraft) (string, error) {
	var v violations
	v.structural(&d)
	slug := utils.Slugify(d.Name)
	if strings.TrimSpace(d.Name) != "" && slug == "" {
		v.add(MsgSlugEmpty)
	}
	return slug, v.err()
}

func validatePeriodDraft(d dto.PeriodDraft) (string, error) {
	var v violations
	v.structural(&d)
	slug := utils.Slugify(d.Name)
	if strings.TrimSpace(d.Name) != "" && slug == "" {
		v.add(MsgSlugEmpty)
	}
	if d.StartYear > d.EndYear {
		v.add(MsgPeriodRange)
	}
	return slug, v.err()
}
