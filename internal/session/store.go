package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/ports"
	"github.com/Gunvolt24/weather_dash/internal/usecase"
	"github.com/Gunvolt24/weather_dash/pkg/ctxmeta"
	"github.com/Gunvolt24/weather_dash/pkg/metrics"
)

// Проверка, что Store удовлетворяет порту фонового компонента.
var _ ports.Runner = (*Store)(nil)

var (
	// ErrStopped — цикл сессии остановлен, команды не принимаются.
	ErrStopped = errors.New("session stopped")
	// ErrNothingToRetry — повторять нечего: ещё не было ни одного запроса.
	ErrNothingToRetry = errors.New("nothing to retry")
)

const defaultFetchTimeout = 10 * time.Second

// Fetcher — зависимость на оркестратор получения погоды.
type Fetcher interface {
	FetchWeather(ctx context.Context, query string, view usecase.SessionView) usecase.Outcome
}

// envelope — сообщение в цикл; ack получает состояние после применения (nil для результатов запросов).
type envelope struct {
	msg Msg
	ack chan State
}

// Store — владелец состояния сессии.
//
// Все переходы выполняются в одной горутине (Run); запросы к провайдеру идут в отдельных
// горутинах и возвращают OutcomeReceived обратно в цикл. Читатели получают последнее
// опубликованное неизменяемое значение через State().
type Store struct {
	fetcher      Fetcher
	log          ports.Logger
	now          func() time.Time
	fetchTimeout time.Duration

	inbox   chan envelope
	tokens  atomic.Uint64
	current atomic.Pointer[State]

	mu      sync.Mutex
	changed chan struct{} // закрывается при каждой публикации

	inflight  sync.WaitGroup
	stopped   chan struct{}
	closeOnce sync.Once
}

// StoreOption — настройка Store.
type StoreOption func(*Store)

func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithFetchTimeout — предел одного запроса погоды (<= 0 — значение по умолчанию).
func WithFetchTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// NewStore — конструктор; initial — стартовое состояние (см. Initial).
func NewStore(fetcher Fetcher, log ports.Logger, initial State, opts ...StoreOption) *Store {
	s := &Store{
		fetcher:      fetcher,
		log:          log,
		now:          time.Now,
		fetchTimeout: defaultFetchTimeout,
		inbox:        make(chan envelope, 64),
		changed:      make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens.Store(initial.LatestToken)
	s.current.Store(&initial)
	metrics.CacheSize.Set(float64(initial.Cache.Len()))
	return s
}

// State — последнее опубликованное состояние.
func (s *Store) State() State { return *s.current.Load() }

// Run — цикл владельца состояния; завершается по отмене ctx или Close.
func (s *Store) Run(ctx context.Context) error {
	s.log.Infof(ctx, "session loop started")
	defer s.inflight.Wait()

	// Запросы в полёте отменяются при выходе из цикла.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			_ = s.Close()
			return ctx.Err()
		case <-s.stopped:
			return nil
		case env := <-s.inbox:
			next := s.handle(ctx, env.msg)
			if env.ack != nil {
				env.ack <- next
			}
		}
	}
}

// Close — останавливает приём команд. Повторный вызов безопасен.
func (s *Store) Close() error {
	s.closeOnce.Do(func() { close(s.stopped) })
	return nil
}

// handle — один переход; выполняется только в горутине Run.
func (s *Store) handle(ctx context.Context, msg Msg) State {
	prev := s.State()
	next, fx := apply(prev, msg, s.now())
	s.publish(next)

	if fx.discarded {
		if m, ok := msg.(OutcomeReceived); ok {
			metrics.StaleOutcomes.Inc()
			s.log.Infof(ctx, "stale outcome discarded token=%d latest=%d place=%s", m.Token, next.LatestToken, m.Outcome.Key)
		}
	}
	for range fx.evicted {
		metrics.CacheOps.WithLabelValues("evicted").Inc()
	}
	switch fx.cacheOp {
	case "removed", "cleared":
		metrics.CacheOps.WithLabelValues(fx.cacheOp).Inc()
	}
	if fx.cacheOp != "" {
		metrics.CacheSize.Set(float64(next.Cache.Len()))
	}
	if len(fx.evicted) > 0 {
		s.log.Infof(ctx, "cache evicted places=%v", fx.evicted)
	}

	if m, ok := msg.(RequestStarted); ok && fx.dispatch {
		s.dispatch(ctx, m, next)
	}
	return next
}

// dispatch — запрос погоды в отдельной горутине; результат возвращается в цикл.
// Путь попадания в кэш идёт через тот же асинхронный контракт.
func (s *Store) dispatch(ctx context.Context, m RequestStarted, st State) {
	view := usecase.SessionView{Unit: st.Unit, Cache: st.Cache}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		fctx, cancel := context.WithTimeout(ctxmeta.WithFetchToken(ctx, m.Token), s.fetchTimeout)
		out := s.fetcher.FetchWeather(fctx, m.Query, view)
		cancel()

		select {
		case s.inbox <- envelope{msg: OutcomeReceived{Token: m.Token, Outcome: out}}:
		case <-s.stopped:
		case <-ctx.Done():
		}
	}()
}

func (s *Store) publish(next State) {
	s.current.Store(&next)
	s.mu.Lock()
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

func (s *Store) changes() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// send — отправить команду и дождаться применения.
func (s *Store) send(ctx context.Context, msg Msg) (State, error) {
	ack := make(chan State, 1)
	select {
	case s.inbox <- envelope{msg: msg, ack: ack}:
	case <-s.stopped:
		return s.State(), ErrStopped
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
	select {
	case st := <-ack:
		return st, nil
	case <-s.stopped:
		return s.State(), ErrStopped
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

// RequestWeather — начать запрос погоды. Повторный вызов во время загрузки не дедуплицируется:
// стартует новый запрос с новым токеном, результаты предыдущих отбрасываются.
func (s *Store) RequestWeather(ctx context.Context, query string) (uint64, error) {
	token := s.tokens.Add(1)
	if _, err := s.send(ctx, RequestStarted{Token: token, Query: query}); err != nil {
		return 0, err
	}
	return token, nil
}

// Retry — повторить последний запрос.
func (s *Store) Retry(ctx context.Context) (uint64, error) {
	q := s.State().LastQuery
	if q == "" {
		return 0, ErrNothingToRetry
	}
	return s.RequestWeather(ctx, q)
}

// Wait — ждать, пока запрос с токеном token завершится или будет вытеснен более новым.
func (s *Store) Wait(ctx context.Context, token uint64) (State, error) {
	for {
		ch := s.changes()
		st := s.State()
		if st.LatestToken > token || (st.LatestToken == token && st.Status != StatusLoading) {
			return st, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return st, ctx.Err()
		case <-s.stopped:
			return st, ErrStopped
		}
	}
}

func (s *Store) ToggleUnit(ctx context.Context) (State, error) { return s.send(ctx, ToggleUnit{}) }
func (s *Store) ClearError(ctx context.Context) (State, error) { return s.send(ctx, ClearError{}) }
func (s *Store) ClearCache(ctx context.Context) (State, error) { return s.send(ctx, ClearCache{}) }

func (s *Store) ClearWeather(ctx context.Context) (State, error) {
	return s.send(ctx, ClearWeather{})
}

func (s *Store) EvictOne(ctx context.Context, key domain.PlaceKey) (State, error) {
	return s.send(ctx, EvictOne{Key: key})
}
