package rates

import (
	"sync"

	"go.uber.org/zap"

	"landed-cost/internal/logging"
	"landed-cost/internal/metrics"
)

// Provider caches a rates table. The cached table only changes when Reload
// is called.
type Provider struct {
	path    string
	metrics *metrics.Metrics

	mu      sync.RWMutex
	cfg     *RatesConfig
	source  Source
	lastErr error
}

// NewProvider loads path (or the built-in table when path is empty).
func NewProvider(path string, m *metrics.Metrics) *Provider {
	p := &Provider{path: path, metrics: m}
	p.Reload()
	return p
}

// NewStaticProvider serves cfg without ever touching disk.
func NewStaticProvider(cfg *RatesConfig) *Provider {
	return &Provider{cfg: cfg, source: SourceDefault}
}

// Get returns the cached table. Callers must not modify it.
func (p *Provider) Get() *RatesConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// Source reports where the cached table came from.
func (p *Provider) Source() Source {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.source
}

// Snapshot returns the cached table together with its source, read under
// one lock so a concurrent Reload cannot pair one table with the other's
// source.
func (p *Provider) Snapshot() (*RatesConfig, Source) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg, p.source
}

// LastError returns the error from the most recent load, if it fell back.
func (p *Provider) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Path returns the configured rates file path.
func (p *Provider) Path() string {
	return p.path
}

// Reload re-reads the rates file and swaps the cached table. A static
// provider keeps its table.
func (p *Provider) Reload() (Source, error) {
	if p.path == "" && p.cfg != nil {
		return p.Source(), nil
	}

	cfg, source, err := LoadOrDefault(p.path)
	if err != nil {
		p.metrics.RatesFallback()
	}
	p.metrics.RatesReloaded(string(source))

	p.mu.Lock()
	p.cfg = cfg
	p.source = source
	p.lastErr = err
	p.mu.Unlock()

	logging.Info("rates table ready",
		zap.String("source", string(source)),
		zap.String("fingerprint", cfg.Fingerprint()),
	)
	return source, err
}
