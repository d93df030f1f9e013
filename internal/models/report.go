package models

import "time"

// ReportReason причина жалобы на объявление.
type ReportReason string

const (
	ReasonFake          ReportReason = "fake"
	ReasonDangerous     ReportReason = "dangerous"
	ReasonSpam          ReportReason = "spam"
	ReasonInappropriate ReportReason = "inappropriate"
	ReasonWrongLocation ReportReason = "wrong_location"
)

// ValidReportReason проверяет, что причина входит в допустимый список.
func ValidReportReason(r ReportReason) bool {
	switch r {
	case ReasonFake, ReasonDangerous, ReasonSpam, ReasonInappropriate, ReasonWrongLocation:
		return true
	}
	return false
}

// ReportStatus статус рассмотрения жалобы.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
	ReportRejected ReportStatus = "rejected"
)

// ValidReportStatus проверяет, что статус входит в допустимый список.
func ValidReportStatus(s ReportStatus) bool {
	switch s {
	case ReportPending, ReportResolved, ReportRejected:
		return true
	}
	return false
}

// Report жалоба пользователя на объявление.
// От одного пользователя принимается не больше одной жалобы на объявление.
type Report struct {
	ID         string       `json:"id"`
	ItemID     string       `json:"item_id"`
	ReporterID string       `json:"reporter_id"`
	Reason     ReportReason `json:"reason"`
	Status     ReportStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

// DummyReport используется для приёма жалобы из JSON-запроса.
type DummyReport struct {
	ItemID string `json:"item_id" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

// DummyReportStatus используется для приёма нового статуса жалобы
// из JSON-запроса модераторской панели.
type DummyReportStatus struct {
	Status string `json:"status" validate:"required"`
}
