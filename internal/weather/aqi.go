// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weather

import "github.com/kominfo-muaraenim/portal/pkg/types"

// AQI band names, mirroring the widget colours.
const (
	BandGood          = "green"
	BandModerate      = "yellow"
	BandSensitive     = "orange"
	BandUnhealthy     = "red"
	BandVeryUnhealthy = "purple"
	BandHazardous     = "maroon"
)

var aqiLevels = []struct {
	max   float64
	level types.AQILevel
}{
	{50, types.AQILevel{Label: "Baik", LabelEn: "Good", Band: BandGood}},
	{100, types.AQILevel{Label: "Sedang", LabelEn: "Moderate", Band: BandModerate}},
	{150, types.AQILevel{Label: "Tidak Sehat (Sensitif)", LabelEn: "Unhealthy for Sensitive", Band: BandSensitive}},
	{200, types.AQILevel{Label: "Tidak Sehat", LabelEn: "Unhealthy", Band: BandUnhealthy}},
	{300, types.AQILevel{Label: "Sangat Tidak Sehat", LabelEn: "Very Unhealthy", Band: BandVeryUnhealthy}},
}

// ClassifyAQI returns the band for a US AQI value. Upper bounds are inclusive.
func ClassifyAQI(aqi float64) types.AQILevel {
	for _, l := range aqiLevels {
		if aqi <= l.max {
			return l.level
		}
	}
	return types.AQILevel{Label: "Berbahaya", LabelEn: "Hazardous", Band: BandHazardous}
}
