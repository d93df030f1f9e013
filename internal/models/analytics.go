package models

// Analytics сводная статистика по объявлениям, жалобам и пользователям.
type Analytics struct {
	TotalItems     int `json:"total_items"`
	ActiveItems    int `json:"active_items"`
	TakenItems     int `json:"taken_items"`
	ExpiredItems   int `json:"expired_items"`
	HiddenItems    int `json:"hidden_items"`
	TotalReports   int `json:"total_reports"`
	PendingReports int `json:"pending_reports"`
	TotalUsers     int `json:"total_users"`
}
