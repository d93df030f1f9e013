package models

import "strconv"

// Ключи настроек движка в таблице settings.
const (
	SettingItemLifetimeHours = "item_lifetime_hours"
	SettingKarmaPublish      = "karma_publish"
	SettingKarmaTaken        = "karma_taken"
	SettingKarmaExtend       = "karma_extend"
	SettingKarmaThanks       = "karma_thanks"
	SettingAutoHideReports   = "auto_hide_reports"
	SettingRequirePhoto      = "require_photo"
	SettingPreModeration     = "pre_moderation"
)

// Settings настройки движка объявлений. Читаются движком, меняются только админами.
type Settings struct {
	ItemLifetimeHours       int  `json:"item_lifetime_hours"`
	KarmaPublish            int  `json:"karma_publish"`
	KarmaTaken              int  `json:"karma_taken"`
	KarmaExtend             int  `json:"karma_extend"`
	KarmaThanks             int  `json:"karma_thanks"`
	AutoHideReportThreshold int  `json:"auto_hide_reports"`
	RequirePhoto            bool `json:"require_photo"`
	PreModeration           bool `json:"pre_moderation"`
}

// DefaultSettings значения настроек по умолчанию.
func DefaultSettings() Settings {
	return Settings{
		ItemLifetimeHours:       6,
		KarmaPublish:            10,
		KarmaTaken:              25,
		KarmaExtend:             2,
		KarmaThanks:             5,
		AutoHideReportThreshold: 3,
		RequirePhoto:            false,
		PreModeration:           false,
	}
}

// SettingsFromMap накладывает значения из таблицы settings на значения по умолчанию.
// Нечисловые и неположительные значения игнорируются.
func SettingsFromMap(raw map[string]string, defaults Settings) Settings {
	s := defaults
	setInt := func(key string, dst *int) {
		if v, ok := raw[key]; ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := raw[key]; ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	setInt(SettingItemLifetimeHours, &s.ItemLifetimeHours)
	setInt(SettingKarmaPublish, &s.KarmaPublish)
	setInt(SettingKarmaTaken, &s.KarmaTaken)
	setInt(SettingKarmaExtend, &s.KarmaExtend)
	setInt(SettingKarmaThanks, &s.KarmaThanks)
	setInt(SettingAutoHideReports, &s.AutoHideReportThreshold)
	setBool(SettingRequirePhoto, &s.RequirePhoto)
	setBool(SettingPreModeration, &s.PreModeration)
	return s
}

// Map возвращает настройки в виде пар ключ-значение для сохранения в таблицу settings.
func (s Settings) Map() map[string]string {
	return map[string]string{
		SettingItemLifetimeHours: strconv.Itoa(s.ItemLifetimeHours),
		SettingKarmaPublish:      strconv.Itoa(s.KarmaPublish),
		SettingKarmaTaken:        strconv.Itoa(s.KarmaTaken),
		SettingKarmaExtend:       strconv.Itoa(s.KarmaExtend),
		SettingKarmaThanks:       strconv.Itoa(s.KarmaThanks),
		SettingAutoHideReports:   strconv.Itoa(s.AutoHideReportThreshold),
		SettingRequirePhoto:      strconv.FormatBool(s.RequirePhoto),
		SettingPreModeration:     strconv.FormatBool(s.PreModeration),
	}
}
