package memory

import (
	"time"

	"github.com/Gunvolt24/weather_dash/internal/domain"
)

// MaxSize — ёмкость кэша по умолчанию.
const MaxSize = 10

// Entry — снимок погоды с моментом получения.
type Entry struct {
	Snapshot  domain.Snapshot `json:"snapshot"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Cache — ограниченный кэш мест с явным MRU-порядком.
//
// Значение неизменяемо: все операции возвращают новый Cache и не трогают получателя,
// поэтому опубликованное состояние сессии можно читать без блокировок.
// Инварианты после любой операции:
//   - order содержит каждый ключ entries ровно один раз, самый свежий — первым;
//   - len(order) == len(entries) <= capacity.
type Cache struct {
	capacity int
	entries  map[domain.PlaceKey]Entry
	order    []domain.PlaceKey
}

// New — пустой кэш; capacity <= 0 → MaxSize.
func New(capacity int) Cache {
	if capacity <= 0 {
		capacity = MaxSize
	}
	return Cache{capacity: capacity}
}

// Capacity — верхняя граница числа записей.
func (c Cache) Capacity() int {
	if c.capacity <= 0 {
		return MaxSize
	}
	return c.capacity
}

// Len — число записей.
func (c Cache) Len() int { return len(c.order) }

// Lookup — прямой поиск по ключу. Свежесть не проверяется (см. IsValid).
func (c Cache) Lookup(key domain.PlaceKey) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Upsert — записывает снимок, переносит ключ в начало порядка и отбрасывает хвост сверх ёмкости.
// Возвращает новый кэш и вытесненные ключи (от более свежего к самому старому).
func (c Cache) Upsert(key domain.PlaceKey, snapshot domain.Snapshot, now time.Time) (Cache, []domain.PlaceKey) {
	capacity := c.Capacity()

	entries := make(map[domain.PlaceKey]Entry, len(c.entries)+1)
	for k, v := range c.entries {
		entries[k] = v
	}
	entries[key] = Entry{Snapshot: snapshot, FetchedAt: now}

	order := make([]domain.PlaceKey, 0, len(c.order)+1)
	order = append(order, key)
	for _, k := range c.order {
		if k != key {
			order = append(order, k)
		}
	}

	var evicted []domain.PlaceKey
	if len(order) > capacity {
		evicted = append(evicted, order[capacity:]...)
		for _, k := range evicted {
			delete(entries, k)
		}
		order = order[:capacity:capacity]
	}

	return Cache{capacity: capacity, entries: entries, order: order}, evicted
}

// Remove — удаляет ключ; для отсутствующего ключа возвращает исходный кэш.
func (c Cache) Remove(key domain.PlaceKey) Cache {
	if _, ok := c.entries[key]; !ok {
		return c
	}

	entries := make(map[domain.PlaceKey]Entry, len(c.entries))
	for k, v := range c.entries {
		if k != key {
			entries[k] = v
		}
	}
	order := make([]domain.PlaceKey, 0, len(c.order))
	for _, k := range c.order {
		if k != key {
			order = append(order, k)
		}
	}
	return Cache{capacity: c.capacity, entries: entries, order: order}
}

// Clear — пустой кэш той же ёмкости.
func (c Cache) Clear() Cache {
	return Cache{capacity: c.capacity}
}

// Order — копия MRU-порядка.
func (c Cache) Order() []domain.PlaceKey {
	return append([]domain.PlaceKey(nil), c.order...)
}

// Entries — копия записей.
func (c Cache) Entries() map[domain.PlaceKey]Entry {
	out := make(map[domain.PlaceKey]Entry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
