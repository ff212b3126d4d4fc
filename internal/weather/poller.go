// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weather

import (
	"context"
	"sync"
	"time"

	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// Poller keeps the forecast and the air-quality reading for one selected
// kecamatan fresh. The two halves refresh on independent goroutines.
type Poller struct {
	svc      *Service
	interval time.Duration

	// OnUpdate, when set before Run, receives a snapshot after every refresh.
	OnUpdate func(Report)

	mu       sync.Mutex
	selected types.Kecamatan
	forecast *types.ForecastResponse
	fErr     error
	air      *types.AirQualityResponse
	aErr     error

	forecastNudge chan struct{}
	airNudge      chan struct{}
}

// NewPoller returns a poller for k. A zero interval uses the service's.
func NewPoller(svc *Service, k types.Kecamatan, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = svc.Interval()
	}
	return &Poller{
		svc:           svc,
		interval:      interval,
		selected:      k,
		forecastNudge: make(chan struct{}, 1),
		airNudge:      make(chan struct{}, 1),
	}
}

// Select switches the poller to k and refreshes both halves right away.
func (p *Poller) Select(k types.Kecamatan) {
	p.mu.Lock()
	p.selected = k
	p.forecast, p.fErr = nil, nil
	p.air, p.aErr = nil, nil
	p.mu.Unlock()
	nudge(p.forecastNudge)
	nudge(p.airNudge)
}

func nudge(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Selected returns the kecamatan being polled.
func (p *Poller) Selected() types.Kecamatan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Run refreshes immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.loop(ctx, p.forecastNudge, p.refreshForecast)
	}()
	go func() {
		defer wg.Done()
		p.loop(ctx, p.airNudge, p.refreshAir)
	}()
	wg.Wait()
}

func (p *Poller) loop(ctx context.Context, nudged <-chan struct{}, refresh func(context.Context)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh(ctx)
		case <-nudged:
			refresh(ctx)
		}
	}
}

func (p *Poller) refreshForecast(ctx context.Context) {
	k := p.Selected()
	fc, err := p.svc.RefreshForecast(ctx, k.ADM4)
	if ctx.Err() != nil {
		return
	}
	recordFailure("bmkg", k, err)
	p.mu.Lock()
	if p.selected.ADM4 == k.ADM4 {
		p.forecast, p.fErr = fc, err
	}
	p.mu.Unlock()
	p.notify()
}

func (p *Poller) refreshAir(ctx context.Context) {
	k := p.Selected()
	aq, err := p.svc.RefreshAirQuality(ctx, k.Lat, k.Lon)
	if ctx.Err() != nil {
		return
	}
	recordFailure("open-meteo", k, err)
	p.mu.Lock()
	if p.selected.Lat == k.Lat && p.selected.Lon == k.Lon {
		p.air, p.aErr = aq, err
	}
	p.mu.Unlock()
	p.notify()
}

func (p *Poller) notify() {
	if p.OnUpdate != nil {
		p.OnUpdate(p.Snapshot())
	}
}

// Snapshot returns the latest report. Halves that have not been fetched yet
// are absent without an error.
func (p *Poller) Snapshot() Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.svc.buildReport(p.selected, p.forecast, p.fErr, p.air, p.aErr)
}
