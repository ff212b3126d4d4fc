// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weather

import (
	"context"
	"time"
)

// Mode is what the compact widget shows.
type Mode string

const (
	ModeNone        Mode = ""
	ModeTemperature Mode = "temperature"
	ModeAQI         Mode = "aqi"
)

const defaultRotateInterval = 6 * time.Second

// Rotator alternates the compact display between temperature and AQI.
type Rotator struct {
	interval time.Duration
	epoch    time.Time
}

// NewRotator returns a rotator whose first temperature slot starts at epoch.
func NewRotator(interval time.Duration, epoch time.Time) *Rotator {
	if interval <= 0 {
		interval = defaultRotateInterval
	}
	return &Rotator{interval: interval, epoch: epoch}
}

// Mode returns the display at now. With both readings it alternates every
// interval starting with temperature; with one it always shows that one.
func (r *Rotator) Mode(now time.Time, hasWeather, hasAQI bool) Mode {
	switch {
	case hasWeather && hasAQI:
		slot := now.Sub(r.epoch) / r.interval
		if slot < 0 {
			slot = -slot
		}
		if slot%2 == 0 {
			return ModeTemperature
		}
		return ModeAQI
	case hasWeather:
		return ModeTemperature
	case hasAQI:
		return ModeAQI
	default:
		return ModeNone
	}
}

// Run emits the current mode immediately and then once per interval until
// ctx is done. state reports which readings are available at each tick.
func (r *Rotator) Run(ctx context.Context, state func() (hasWeather, hasAQI bool), emit func(Mode)) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	w, a := state()
	emit(r.Mode(time.Now(), w, a))
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w, a := state()
			emit(r.Mode(now, w, a))
		}
	}
}
