// Package models содержит доменные структуры движка объявлений:
// объявления, пользователей, жалобы и настройки,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// ItemStatus статус объявления в жизненном цикле.
type ItemStatus string

const (
	// StatusActive — объявление видно в общем списке.
	StatusActive ItemStatus = "active"
	// StatusTaken — вещь забрали.
	StatusTaken ItemStatus = "taken"
	// StatusExpired — время жизни объявления истекло.
	StatusExpired ItemStatus = "expired"
	// StatusHidden — объявление скрыто автомодерацией. Терминальный статус для движка.
	StatusHidden ItemStatus = "hidden"
)

// Item представляет собой объявление о бесплатной вещи.
// Статус меняется только операциями жизненного цикла,
// ExpiresAt всегда вычисляется движком и никогда не приходит от пользователя.
type Item struct {
	ID           string     `json:"id"`
	AuthorID     string     `json:"author_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Condition    string     `json:"condition"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Address      string     `json:"address"`
	PhotoURL     string     `json:"photo_url"`
	Status       ItemStatus `json:"status"`
	Views        int        `json:"views"`
	ReportsCount int        `json:"reports_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	TakenBy      string     `json:"taken_by,omitempty"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
}

// DummyItem используется для приёма данных нового объявления из JSON-запроса,
// прежде чем конвертировать их в Item. Поля геолокации и фото опциональны.
type DummyItem struct {
	Title       string   `json:"title" validate:"required"` // Название объявления
	Description string   `json:"description" validate:"omitempty"`
	Category    string   `json:"category" validate:"omitempty"`
	Condition   string   `json:"condition" validate:"omitempty"`
	Latitude    *float64 `json:"latitude" validate:"omitempty"`
	Longitude   *float64 `json:"longitude" validate:"omitempty"`
	Address     string   `json:"address" validate:"omitempty"`
	PhotoURL    string   `json:"photo_url" validate:"omitempty"`
}

// ItemFilter параметры выборки объявлений.
// Пустой статус означает "все статусы".
type ItemFilter struct {
	Status   ItemStatus
	Category string
	AuthorID string
	Search   string
	Limit    int
}
