// Package achievement реализует вычисление достижений пользователя.
//
// Достижения описаны декларативной таблицей правил (id, предикат):
// новое достижение — это новая строка в таблице, а не новая ветка кода.
// Evaluate — чистая функция без побочных эффектов, набор достижений
// только растёт: однажды открытое достижение не отзывается,
// даже если счётчик позже уменьшится.
package achievement

import "github.com/pomoechka/giveaway-service/internal/models"

// Rule правило открытия достижения.
type Rule struct {
	ID    string
	Check func(u *models.User) bool
}

// Rules фиксированная таблица достижений.
var Rules = []Rule{
	{ID: "newbie", Check: func(u *models.User) bool { return u.Stats.Published >= 1 }},
	{ID: "activist", Check: func(u *models.User) bool { return u.Stats.Published >= 10 }},
	{ID: "lightning", Check: func(u *models.User) bool { return u.Stats.FastPickups >= 1 }},
	{ID: "hero", Check: func(u *models.User) bool { return u.Rank >= 1 && u.Rank <= 10 }},
	{ID: "ecowarrior", Check: func(u *models.User) bool { return u.Stats.SavedKg >= 100 }},
	{ID: "helper", Check: func(u *models.User) bool { return u.Stats.Thanks >= 5 }},
	{ID: "reliable", Check: func(u *models.User) bool { return u.Stats.Reliability >= 90 }},
}

// Evaluate возвращает объединение уже открытых достижений пользователя
// и всех правил, предикат которых сейчас выполняется.
// Результат всегда надмножество u.Achievements.
func Evaluate(u *models.User) []string {
	unlocked := make(map[string]bool, len(u.Achievements))
	result := make([]string, 0, len(u.Achievements))
	for _, id := range u.Achievements {
		if !unlocked[id] {
			unlocked[id] = true
			result = append(result, id)
		}
	}
	for _, rule := range Rules {
		if !unlocked[rule.ID] && rule.Check(u) {
			unlocked[rule.ID] = true
			result = append(result, rule.ID)
		}
	}
	return result
}
