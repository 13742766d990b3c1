package rest

import (
	"time"

	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/session"
)

// stateResponse — представление состояния сессии; снимки уже в единицах сессии.
type stateResponse struct {
	Status    session.Status    `json:"status"`
	Unit      domain.Unit       `json:"unit"`
	Symbol    string            `json:"symbol"`
	Current   *domain.Snapshot  `json:"current,omitempty"`
	Error     *domain.ErrorInfo `json:"error,omitempty"`
	Cache     []cacheEntryView  `json:"cache"`
	Token     uint64            `json:"token"`
	LastQuery string            `json:"last_query,omitempty"`
}

// cacheEntryView — запись кэша в порядке от самой свежей.
type cacheEntryView struct {
	Key       domain.PlaceKey `json:"key"`
	Name      string          `json:"name"`
	Country   string          `json:"country"`
	Temp      float64         `json:"temp"`
	Condition string          `json:"condition"`
	Icon      string          `json:"icon"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// recentResponse — последние места для быстрого повторного поиска.
type recentResponse struct {
	Unit   domain.Unit      `json:"unit"`
	Places []cacheEntryView `json:"places"`
	More   int              `json:"more"`
}

type tokenResponse struct {
	Token uint64        `json:"token"`
	State stateResponse `json:"state"`
}

func toStateResponse(st session.State) stateResponse {
	resp := stateResponse{
		Status:    st.Status,
		Unit:      st.Unit,
		Symbol:    st.Unit.Symbol(),
		Error:     st.LastError,
		Cache:     cacheView(st, 0),
		Token:     st.LatestToken,
		LastQuery: st.LastQuery,
	}
	if st.Current != nil {
		cur := st.Current.In(st.Unit)
		resp.Current = &cur
	}
	return resp
}

// cacheView — записи в MRU-порядке; limit <= 0 — без ограничения.
func cacheView(st session.State, limit int) []cacheEntryView {
	order := st.Cache.Order()
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	out := make([]cacheEntryView, 0, len(order))
	for _, key := range order {
		e, ok := st.Cache.Lookup(key)
		if !ok {
			continue
		}
		snap := e.Snapshot.In(st.Unit)
		out = append(out, cacheEntryView{
			Key:       key,
			Name:      snap.Name,
			Country:   snap.Country,
			Temp:      snap.Temp.Current,
			Condition: snap.Condition.Main,
			Icon:      snap.Condition.Icon,
			FetchedAt: e.FetchedAt,
		})
	}
	return out
}
