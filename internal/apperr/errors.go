// Package apperr определяет доменные ошибки движка объявлений.
// Сервисы оборачивают их через fmt.Errorf("%s: %w", op, err),
// а HTTP-обработчики сопоставляют со статус-кодами через errors.Is.
package apperr

import "errors"

var (
	// ErrValidation — некорректные входные данные (пустой заголовок, неизвестная причина жалобы).
	ErrValidation = errors.New("validation failed")
	// ErrNotFound — объявление, пользователь или жалоба не найдены.
	ErrNotFound = errors.New("not found")
	// ErrForbidden — действие запрещено для данного пользователя (например, продление чужого объявления).
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState — действие недопустимо из текущего статуса объявления.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict — повторная жалоба от того же пользователя на то же объявление.
	ErrConflict = errors.New("conflict")
)
