package usecase

import (
	"github.com/Gunvolt24/weather_dash/internal/cache/memory"
	"github.com/Gunvolt24/weather_dash/internal/domain"
)

// OutcomeKind — что произошло при получении погоды.
type OutcomeKind string

const (
	OutcomeHit     OutcomeKind = "hit"     // валидная запись кэша, сети не было
	OutcomeFetched OutcomeKind = "fetched" // свежий ответ провайдера
	OutcomeFailed  OutcomeKind = "failed"  // ошибка любого вида
)

// Outcome — результат FetchWeather. Решение (что произошло) отделено от эффекта
// (как меняется состояние): Outcome интерпретирует сессия.
type Outcome struct {
	Kind     OutcomeKind
	Key      domain.PlaceKey
	Snapshot domain.Snapshot   // для hit/fetched
	Err      *domain.ErrorInfo // для failed
}

func Hit(key domain.PlaceKey, s domain.Snapshot) Outcome {
	return Outcome{Kind: OutcomeHit, Key: key, Snapshot: s}
}

func Fetched(key domain.PlaceKey, s domain.Snapshot) Outcome {
	return Outcome{Kind: OutcomeFetched, Key: key, Snapshot: s}
}

func Failed(key domain.PlaceKey, info domain.ErrorInfo) Outcome {
	return Outcome{Kind: OutcomeFailed, Key: key, Err: &info}
}

// SessionView — часть состояния сессии, нужная для решения hit/miss.
type SessionView struct {
	Unit  domain.Unit
	Cache memory.Cache
}
