package ports

import (
	"context"

	"github.com/Gunvolt24/weather_dash/internal/domain"
)

// WeatherProvider — внешний источник текущей погоды.
// Ошибки возвращаются как *domain.FetchError (вид, статус, сообщение);
// любая другая ошибка трактуется вызывающей стороной как сетевая.
type WeatherProvider interface {
	// Current — один запрос текущей погоды для place в системе единиц unit.
	Current(ctx context.Context, place string, unit domain.Unit) (domain.Snapshot, error)

	// Name — имя провайдера для логов и метрик.
	Name() string
}
