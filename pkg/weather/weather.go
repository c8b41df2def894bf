package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Current is the trimmed current-conditions payload served to clients.
type Current struct {
	TemperatureC float64 `json:"temperature_c"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	WeatherCode  int     `json:"weather_code"`
	Time         string  `json:"time"`
}

type Resolver interface {
	Current(ctx context.Context, lat, lon float64) (Current, error)
}

// OpenMeteoResolver implements Resolver using the open-meteo.com API.
type OpenMeteoResolver struct {
	Client *http.Client
}

func (r OpenMeteoResolver) Current(ctx context.Context, lat, lon float64) (Current, error) {
	if r.Client == nil {
		r.Client = &http.Client{Timeout: 3 * time.Second}
	}

	url := fmt.Sprintf("https://api.open-meteo.com/v1/forecast?latitude=%.4f&longitude=%.4f&current_weather=true", lat, lon)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	resp, err := r.Client.Do(req)
	if err != nil {
		return Current{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Current{}, fmt.Errorf("weather lookup failed: status %d", resp.StatusCode)
	}

	var body struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			WeatherCode int     `json:"weathercode"`
			Time        string  `json:"time"`
		} `json:"current_weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Current{}, err
	}
	return Current{
		TemperatureC: body.CurrentWeather.Temperature,
		WindSpeedKmh: body.CurrentWeather.WindSpeed,
		WeatherCode:  body.CurrentWeather.WeatherCode,
		Time:         body.CurrentWeather.Time,
	}, nil
}
