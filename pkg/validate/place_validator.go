package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidPlace — базовая (sentinel error) ошибка валидации запроса места.
var ErrInvalidPlace = errors.New("place validation failed")

// MaxPlaceLength — максимальная длина запроса в символах.
const MaxPlaceLength = 200

// PlaceQuery — проверяет пользовательский запрос места до обращения к сети.
// Возвращает ErrInvalidPlace (с обёрнутой причиной) при любой проблеме.
func PlaceQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return fmt.Errorf("%w: please enter a place name", ErrInvalidPlace)
	}
	if utf8.RuneCountInString(trimmed) > MaxPlaceLength {
		return fmt.Errorf("%w: place name is longer than %d characters", ErrInvalidPlace, MaxPlaceLength)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: place name contains control characters", ErrInvalidPlace)
		}
	}
	return nil
}

// Reason — текст причины без префикса sentinel-ошибки (для показа пользователю).
func Reason(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), ErrInvalidPlace.Error()+": ")
}
