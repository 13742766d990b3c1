package session

import (
	"github.com/Gunvolt24/weather_dash/internal/cache/memory"
	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/usecase"
)

// Status — состояние автомата сессии.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
)

// State — значение состояния сессии. Каждый переход порождает новое значение;
// опубликованные значения никто не меняет.
type State struct {
	Current     *domain.Snapshot
	Status      Status
	LastError   *domain.ErrorInfo
	Unit        domain.Unit
	Cache       memory.Cache
	LatestToken uint64 // последний выданный токен запроса
	LastQuery   string // запрос последнего requestWeather (для повтора)
}

// Initial — состояние при старте: пустой кэш, idle, единицы по умолчанию.
func Initial(capacity int, unit domain.Unit) State {
	if unit == "" {
		unit = domain.UnitCelsius
	}
	return State{
		Status: StatusIdle,
		Unit:   unit,
		Cache:  memory.New(capacity),
	}
}

// Msg — сообщение, переводящее состояние.
type Msg interface{ isMsg() }

// RequestStarted — начат requestWeather с токеном Token.
type RequestStarted struct {
	Token uint64
	Query string
}

// OutcomeReceived — результат запроса с токеном Token.
type OutcomeReceived struct {
	Token   uint64
	Outcome usecase.Outcome
}

type (
	ToggleUnit   struct{}
	ClearError   struct{}
	ClearCache   struct{}
	ClearWeather struct{} // убрать текущий снимок и ошибку (возврат к поиску)
	EvictOne     struct{ Key domain.PlaceKey }
)

func (RequestStarted) isMsg()  {}
func (OutcomeReceived) isMsg() {}
func (ToggleUnit) isMsg()      {}
func (ClearError) isMsg()      {}
func (ClearCache) isMsg()      {}
func (ClearWeather) isMsg()    {}
func (EvictOne) isMsg()        {}
