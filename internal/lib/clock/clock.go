// Package clock предоставляет интерфейс времени для движка объявлений.
// Сервисы получают Clock через конструктор, что позволяет в тестах
// подставлять фиксированное время вместо time.Now.
package clock

import "time"

// Clock источник текущего времени.
type Clock interface {
	Now() time.Time
}

// Real возвращает системное время.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed всегда возвращает заданный момент. Используется в тестах.
type Fixed struct {
	Time time.Time
}

func (f Fixed) Now() time.Time { return f.Time }
