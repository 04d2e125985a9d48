package models

// Plan описывает тарифный план из статического каталога.
// Каталог засеивается миграцией и пользователями не изменяется.
// MaxProducts и MaxPlatforms равные -1 означают отсутствие лимита.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int      `json:"price"`
	MaxProducts  int      `json:"max_products"`
	MaxPlatforms int      `json:"max_platforms"`
	Features     []string `json:"features"`
}
