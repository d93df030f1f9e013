package models

import "time"

// Stats счётчики активности пользователя. Только растут,
// инкрементируются слоем начисления кармы.
type Stats struct {
	Published   int `json:"published"`
	Taken       int `json:"taken"`
	SavedKg     int `json:"saved_kg"`
	FastPickups int `json:"fast_pickups"`
	Thanks      int `json:"thanks"`
	Reliability int `json:"reliability"`
}

// User представляет участника сообщества. Создаётся при первом обращении
// по Telegram ID. Karma и Stats меняются только слоем начисления кармы,
// Achievements монотонно растёт и никогда не сокращается.
type User struct {
	ID           string    `json:"id"` // Telegram ID, приходит из заголовка запроса
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Karma        int       `json:"karma"`
	Stats        Stats     `json:"stats"`
	Achievements []string  `json:"achievements"`
	Rank         int       `json:"rank,omitempty"` // Позиция в топе по карме, заполняется при чтении профиля
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// KarmaReason причина начисления кармы, пишется в журнал аудита.
type KarmaReason string

const (
	ReasonPublish KarmaReason = "publish"
	ReasonTaken   KarmaReason = "taken"
	ReasonExtend  KarmaReason = "extend"
	ReasonThanks  KarmaReason = "thanks"
)

// Award входные данные одного начисления кармы.
// Pickup — время от публикации до забора вещи, имеет смысл только для ReasonTaken.
type Award struct {
	UserID string
	Amount int
	Reason KarmaReason
	Pickup time.Duration
}

// KarmaEvent запись журнала начислений кармы.
type KarmaEvent struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Amount    int         `json:"amount"`
	Reason    KarmaReason `json:"reason"`
	CreatedAt time.Time   `json:"created_at"`
}
