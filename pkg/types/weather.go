// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Kecamatan is a selectable subdistrict with its BMKG adm4 code and coordinates.
type Kecamatan struct {
	Kecamatan     string  `json:"kecamatan" yaml:"kecamatan"`
	KelurahanDesa string  `json:"kelurahan_desa" yaml:"kelurahan_desa"`
	ADM4          string  `json:"adm4" yaml:"adm4"`
	Lat           float64 `json:"lat" yaml:"lat"`
	Lon           float64 `json:"lon" yaml:"lon"`
}

// WeatherLocation is the location block of a BMKG forecast.
type WeatherLocation struct {
	ADM1      string  `json:"adm1"`
	ADM2      string  `json:"adm2"`
	ADM3      string  `json:"adm3"`
	ADM4      string  `json:"adm4"`
	Provinsi  string  `json:"provinsi"`
	Kotkab    string  `json:"kotkab"`
	Kecamatan string  `json:"kecamatan"`
	Desa      string  `json:"desa"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	Timezone  string  `json:"timezone"`
}

// WeatherData is one forecast slot.
type WeatherData struct {
	Datetime      string  `json:"datetime"`
	T             float64 `json:"t"`
	TCC           float64 `json:"tcc"`
	TP            float64 `json:"tp"`
	Weather       int     `json:"weather"`
	WeatherDesc   string  `json:"weather_desc"`
	WeatherDescEn string  `json:"weather_desc_en"`
	WDDeg         float64 `json:"wd_deg"`
	WD            string  `json:"wd"`
	WS            float64 `json:"ws"`
	HU            float64 `json:"hu"`
	VS            float64 `json:"vs"`
	VSText        string  `json:"vs_text"`
	Image         string  `json:"image"`
	LocalDatetime string  `json:"local_datetime"`
}

// ForecastResponse is the BMKG prakiraan-cuaca response.
type ForecastResponse struct {
	Lokasi WeatherLocation `json:"lokasi"`
	Data   []struct {
		Lokasi WeatherLocation  `json:"lokasi"`
		Cuaca  [][]WeatherData `json:"cuaca"`
	} `json:"data"`
}

// Current returns the first forecast slot, or false when the response is empty.
func (r ForecastResponse) Current() (WeatherData, bool) {
	for _, d := range r.Data {
		for _, day := range d.Cuaca {
			if len(day) > 0 {
				return day[0], true
			}
		}
	}
	return WeatherData{}, false
}

// AirQualityCurrent is the `current` block of an Open-Meteo air quality response.
type AirQualityCurrent struct {
	Time     string  `json:"time"`
	Interval int     `json:"interval"`
	USAQI    float64 `json:"us_aqi"`
	PM25     float64 `json:"pm2_5"`
	PM10     float64 `json:"pm10"`
}

// AirQualityResponse is the Open-Meteo air quality response.
type AirQualityResponse struct {
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Timezone  string            `json:"timezone"`
	Current   AirQualityCurrent `json:"current"`
}

// AQILevel is the qualitative band of a US AQI value.
type AQILevel struct {
	Label   string `json:"label"`
	LabelEn string `json:"label_en"`
	Band    string `json:"band"`
}
