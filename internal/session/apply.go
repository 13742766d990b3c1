package session

import (
	"time"

	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/usecase"
)

// effects — побочная информация перехода для владельца состояния (метрики, запуск запроса).
type effects struct {
	dispatch  bool              // нужно запустить FetchWeather для RequestStarted
	discarded bool              // сообщение устарело и проигнорировано
	evicted   []domain.PlaceKey // ключи, вытесненные при upsert
	cacheOp   string            // upsert|removed|cleared, если кэш изменился
}

// Apply — полная чистая функция перехода: (state, msg) → state.
// Неизвестные сообщения оставляют состояние без изменений.
func Apply(s State, msg Msg, now time.Time) State {
	next, _ := apply(s, msg, now)
	return next
}

func apply(s State, msg Msg, now time.Time) (State, effects) {
	var fx effects

	switch m := msg.(type) {
	case RequestStarted:
		// Токены монотонны: более старый запрос, пришедший позже нового, не стартует.
		if m.Token <= s.LatestToken {
			fx.discarded = true
			return s, fx
		}
		s.LatestToken = m.Token
		s.LastQuery = m.Query
		s.Status = StatusLoading
		s.LastError = nil
		fx.dispatch = true

	case OutcomeReceived:
		// Применяется только результат последнего запроса, и только один раз.
		if m.Token != s.LatestToken || s.Status != StatusLoading {
			fx.discarded = true
			return s, fx
		}
		switch m.Outcome.Kind {
		case usecase.OutcomeHit, usecase.OutcomeFetched:
			snap := m.Outcome.Snapshot
			s.Current = &snap
			s.Status = StatusIdle
			s.LastError = nil
			if m.Outcome.Kind == usecase.OutcomeFetched {
				s.Cache, fx.evicted = s.Cache.Upsert(m.Outcome.Key, snap, now)
				fx.cacheOp = "upsert"
			}
		default:
			info := domain.ErrorInfo{Kind: domain.KindNetwork, Message: "unknown error"}
			if m.Outcome.Err != nil {
				info = *m.Outcome.Err
			}
			s.Current = nil
			s.Status = StatusError
			s.LastError = &info
		}

	case ToggleUnit:
		// Снимки не пересчитываются: они хранятся в каноничных единицах.
		s.Unit = s.Unit.Toggle()

	case ClearError:
		s.LastError = nil

	case EvictOne:
		key := domain.NormalizePlace(string(m.Key))
		if _, ok := s.Cache.Lookup(key); ok {
			s.Cache = s.Cache.Remove(key)
			fx.cacheOp = "removed"
		}

	case ClearCache:
		if s.Cache.Len() > 0 {
			fx.cacheOp = "cleared"
		}
		s.Cache = s.Cache.Clear()

	case ClearWeather:
		s.Current = nil
		s.LastError = nil
		if s.Status == StatusError {
			s.Status = StatusIdle
		}
	}

	return s, fx
}
