package config

import "sync/atomic"

// Provider hands out the current configuration. Handlers read through the
// provider on every request, so a future reload only has to swap the
// pointer; nothing holds a stale *Config across requests.
type Provider struct {
	current atomic.Pointer[Config]
}

func NewProvider(cfg *Config) *Provider {
	p := &Provider{}
	p.current.Store(cfg)
	return p
}

// Get returns the currently active configuration.
func (p *Provider) Get() *Config {
	return p.current.Load()
}

// Update atomically replaces the active configuration.
func (p *Provider) Update(cfg *Config) {
	p.current.Store(cfg)
}
