package domain

// Catalog - нормализованный снимок всех загруженных коллекций.
// Заменяется целиком одной транзакцией состояния.
type Catalog struct {
	Categories  []Category  `json:"categories"`
	Periods     []Period    `json:"periods"`
	Characters  []Character `json:"characters"`
	Profiles    []Profile   `json:"profiles"`
	POIs        []POI       `json:"pois"`
	Itineraries []Itinerary `json:"itineraries"`
}

func (c *Catalog) POIIndex(id string) int {
	for i := range c.POIs {
		if c.POIs[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) ItineraryIndex(id string) int {
	for i := range c.Itineraries {
		if c.Itineraries[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) FindPOI(id string) (POI, bool) {
	if i := c.POIIndex(id); i >= 0 {
		return c.POIs[i], true
	}
	return POI{}, false
}

func (c *Catalog) FindItinerary(id string) (Itinerary, bool) {
	if i := c.ItineraryIndex(id); i >= 0 {
		return c.Itineraries[i], true
	}
	return Itinerary{}, false
}

func (c *Catalog) FindCharacter(id string) (Character, bool) {
	for _, ch := range c.Characters {
		if ch.ID == id {
			return ch, true
		}
	}
	return Character{}, false
}

func (c *Catalog) FindPeriod(id string) (Period, bool) {
	for _, p := range c.Periods {
		if p.ID == id {
			return p, true
		}
	}
	return Period{}, false
}

// PeriodForYear returns the first period whose range contains year.
func (c *Catalog) PeriodForYear(year int) (Period, bool) {
	for _, p := range c.Periods {
		if p.Contains(year) {
			return p, true
		}
	}
	return Period{}, false
}

func (c *Catalog) HasCategory(id string) bool {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}

func (c *Catalog) HasCharacter(id string) bool {
	_, ok := c.FindCharacter(id)
	return ok
}
