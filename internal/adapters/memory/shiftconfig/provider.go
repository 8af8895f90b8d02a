package shiftconfig

import (
	"context"
	"sync"
	"time"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/shiftconfig"
)

// Window is a shift start expressed as wall-clock time of day.
type Window struct {
	Hour   int
	Minute int
	// Location is the center's time zone; nil means UTC.
	Location *time.Location
}

func (w Window) loc() *time.Location {
	if w.Location != nil {
		return w.Location
	}
	return time.UTC
}

// Provider is an in-memory implementation of shiftconfig.Provider: a
// per-center window table, optionally backed by a shared default per shift.
// It is safe for concurrent use.
type Provider struct {
	mu       sync.RWMutex
	byCenter map[domain.CenterID]map[domain.Shift]Window
	defaults map[domain.Shift]Window
}

// NewProvider returns an empty provider. Every window must be set explicitly;
// unknown center/shift pairs report ErrNotConfigured.
func NewProvider() *Provider {
	return &Provider{byCenter: make(map[domain.CenterID]map[domain.Shift]Window)}
}

// NewProviderWithDefaults returns a provider that falls back to stock windows
// (morning 06:00, afternoon 12:00, evening 17:00, night 22:00 UTC) for any
// center without an explicit override. Used by the demo wiring.
func NewProviderWithDefaults() *Provider {
	p := NewProvider()
	p.defaults = map[domain.Shift]Window{
		domain.ShiftMorning:   {Hour: 6},
		domain.ShiftAfternoon: {Hour: 12},
		domain.ShiftEvening:   {Hour: 17},
		domain.ShiftNight:     {Hour: 22},
	}
	return p
}

// SetWindow overrides the start window for one center and shift.
func (p *Provider) SetWindow(center domain.CenterID, shift domain.Shift, w Window) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.byCenter[center] == nil {
		p.byCenter[center] = make(map[domain.Shift]Window)
	}
	p.byCenter[center][shift] = w
}

func (p *Provider) ShiftStart(ctx context.Context, center domain.CenterID, shift domain.Shift, date time.Time) (time.Time, error) {
	_ = ctx
	p.mu.RLock()
	defer p.mu.RUnlock()
	w, ok := p.byCenter[center][shift]
	if !ok {
		if w, ok = p.defaults[shift]; !ok {
			return time.Time{}, shiftconfig.ErrNotConfigured
		}
	}
	d := domain.DateOnly(date)
	return time.Date(d.Year(), d.Month(), d.Day(), w.Hour, w.Minute, 0, 0, w.loc()), nil
}
