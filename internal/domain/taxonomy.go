package domain

// Category - категория POI; ID - slug от имени, не меняется после создания
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Period - исторический период; StartYear <= EndYear
type Period struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	StartYear int    `json:"start_year" db:"start_year"`
	EndYear   int    `json:"end_year" db:"end_year"`
}

// Contains reports whether year falls inside the period, bounds included.
func (p Period) Contains(year int) bool {
	return year >= p.StartYear && year <= p.EndYear
}

// Character - историческая личность со своими фотографиями
type Character struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	WikipediaURL string  `json:"wikipediaUrl"`
	Photos       []Photo `json:"photos"`
}

// Profile - профиль пользователя. Contributions не хранится, а считается при загрузке.
type Profile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatarUrl"`
	Contributions int    `json:"contributions"`
}
