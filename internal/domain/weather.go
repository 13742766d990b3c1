package domain

import (
	"fmt"
	"strings"
)

// PlaceKey — нормализованный ключ места (нижний регистр, без пробелов по краям).
// Единственный ключ кэша: "London" и "  london " дают один и тот же ключ.
type PlaceKey string

// NormalizePlace — строит PlaceKey из пользовательского запроса.
func NormalizePlace(query string) PlaceKey {
	return PlaceKey(strings.ToLower(strings.TrimSpace(query)))
}

// Unit — система единиц, в которой выражены температуры.
type Unit string

const (
	UnitCelsius    Unit = "celsius"
	UnitFahrenheit Unit = "fahrenheit"
)

// ParseUnit — разбирает строковое значение (из конфига/запроса).
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case UnitCelsius, "metric", "c":
		return UnitCelsius, nil
	case UnitFahrenheit, "imperial", "f":
		return UnitFahrenheit, nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

// Toggle — переключает систему единиц.
func (u Unit) Toggle() Unit {
	if u == UnitFahrenheit {
		return UnitCelsius
	}
	return UnitFahrenheit
}

// System — токен системы единиц для запроса к провайдеру.
func (u Unit) System() string {
	if u == UnitFahrenheit {
		return "imperial"
	}
	return "metric"
}

// Symbol — обозначение для отображения.
func (u Unit) Symbol() string {
	if u == UnitFahrenheit {
		return "°F"
	}
	return "°C"
}

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Condition — основное погодное состояние (код, категория, описание).
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

type Temperatures struct {
	Current   float64 `json:"current"`
	FeelsLike float64 `json:"feels_like"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// Wind — скорость (м/с для metric, mph для imperial) и направление в градусах.
type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

// Snapshot — неизменяемый снимок погоды для одного места на момент запроса.
// Не содержит ссылочных полей: копия по значению безопасна.
type Snapshot struct {
	Coord      Coord        `json:"coord"`
	Condition  Condition    `json:"condition"`
	Temp       Temperatures `json:"temp"`
	Pressure   float64      `json:"pressure"`
	Humidity   int          `json:"humidity"`
	Visibility int          `json:"visibility"` // метры
	Wind       Wind         `json:"wind"`
	Country    string       `json:"country"`
	Name       string       `json:"name"`
	Unit       Unit         `json:"unit"` // система единиц числовых полей
}

const mpsToMph = 2.236936

// In — возвращает копию снимка в системе единиц u.
// Снимок без метки единиц считается метрическим.
func (s Snapshot) In(u Unit) Snapshot {
	from := s.Unit
	if from == "" {
		from = UnitCelsius
	}
	if from == u {
		s.Unit = u
		return s
	}

	out := s
	out.Unit = u
	switch u {
	case UnitFahrenheit:
		out.Temp = Temperatures{
			Current:   cToF(s.Temp.Current),
			FeelsLike: cToF(s.Temp.FeelsLike),
			Min:       cToF(s.Temp.Min),
			Max:       cToF(s.Temp.Max),
		}
		out.Wind.Speed = s.Wind.Speed * mpsToMph
	default:
		out.Temp = Temperatures{
			Current:   fToC(s.Temp.Current),
			FeelsLike: fToC(s.Temp.FeelsLike),
			Min:       fToC(s.Temp.Min),
			Max:       fToC(s.Temp.Max),
		}
		out.Wind.Speed = s.Wind.Speed / mpsToMph
	}
	return out
}

func cToF(c float64) float64 { return c*9/5 + 32 }
func fToC(f float64) float64 { return (f - 32) * 5 / 9 }
