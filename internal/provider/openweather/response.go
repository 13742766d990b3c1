package openweather

import (
	"errors"

	"github.com/Gunvolt24/weather_dash/internal/domain"
)

var (
	errNoConditions = errors.New("weather array is empty")
	errNoMainBlock  = errors.New("main block is missing")
)

// currentResponse — тело ответа /weather (только используемые поля).
type currentResponse struct {
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Name string `json:"name"`
}

func (r *currentResponse) check() error {
	if len(r.Weather) == 0 {
		return errNoConditions
	}
	if r.Main == nil {
		return errNoMainBlock
	}
	return nil
}

// snapshot — перевод ответа в доменный снимок; вызывать после check.
func (r *currentResponse) snapshot(unit domain.Unit) domain.Snapshot {
	w := r.Weather[0]
	return domain.Snapshot{
		Coord: domain.Coord{Lat: r.Coord.Lat, Lon: r.Coord.Lon},
		Condition: domain.Condition{
			ID:          w.ID,
			Main:        w.Main,
			Description: w.Description,
			Icon:        w.Icon,
		},
		Temp: domain.Temperatures{
			Current:   r.Main.Temp,
			FeelsLike: r.Main.FeelsLike,
			Min:       r.Main.TempMin,
			Max:       r.Main.TempMax,
		},
		Pressure:   r.Main.Pressure,
		Humidity:   r.Main.Humidity,
		Visibility: r.Visibility,
		Wind:       domain.Wind{Speed: r.Wind.Speed, Deg: r.Wind.Deg},
		Country:    r.Sys.Country,
		Name:       r.Name,
		Unit:       unit,
	}
}
