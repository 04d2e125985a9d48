package models

import "time"

// Product представляет товар в каталоге продавца.
// Все операции над товарами ограничены владельцем (UserID).
type Product struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	SKU         *string   `json:"sku,omitempty"`
	Category    *string   `json:"category,omitempty"`
	CostPrice   int       `json:"cost_price"`
	SellPrice   int       `json:"sell_price"`
	Stock       int       `json:"stock"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductUpdate содержит частичное обновление товара.
// nil-поля не изменяются (семантика COALESCE в запросе).
type ProductUpdate struct {
	Name        *string `json:"name"`
	SKU         *string `json:"sku"`
	Category    *string `json:"category"`
	CostPrice   *int    `json:"cost_price"`
	SellPrice   *int    `json:"sell_price"`
	Stock       *int    `json:"stock"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// TopProduct строка выборки самых ценных товаров для дашборда.
type TopProduct struct {
	Name      string  `json:"name"`
	SellPrice int     `json:"sell_price"`
	Stock     int     `json:"stock"`
	Margin    float64 `json:"margin"`
}

// DashboardSummary агрегаты по каталогу продавца. Для пустого каталога
// все значения нулевые, а не null.
type DashboardSummary struct {
	TotalProducts    int          `json:"totalProducts"`
	StockValue       int          `json:"stockValue"`
	PotentialRevenue int          `json:"potentialRevenue"`
	AvgMargin        int          `json:"avgMargin"`
	PriceAlerts      int          `json:"priceAlerts"`
	TopProducts      []TopProduct `json:"topProducts"`
}
