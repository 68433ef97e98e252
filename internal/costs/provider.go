// Package costs provides the cached view of the published box cost table.
package costs

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/logger"
	"github.com/guttosm/pack-advice/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a loaded cost table is served before it is reloaded.
const DefaultTTL = 15 * time.Minute

// refreshTimeout bounds a reload independently of the request that triggered it.
const refreshTimeout = 30 * time.Second

// Store loads every published cost row.
type Store interface {
	LoadCosts(ctx context.Context) ([]model.CostEntry, error)
}

// ContainerLister lists the containers eligible for advice.
type ContainerLister interface {
	ListAdviceContainers(ctx context.Context) ([]model.Container, error)
}

// Provider caches the cost table per country and box SKU.
type Provider struct {
	store      Store
	containers ContainerLister
	ttl        time.Duration
	now        func() time.Time

	group    singleflight.Group
	mu       sync.RWMutex
	table    map[string]model.CountryCosts
	loadedAt time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithTTL sets the cache lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithSKUValidation enables the container SKU check after every refresh.
func WithSKUValidation(containers ContainerLister) Option {
	return func(p *Provider) {
		p.containers = containers
	}
}

// NewProvider creates a cost provider backed by store.
func NewProvider(store Store, opts ...Option) *Provider {
	p := &Provider{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CostsForCountry returns the cost entries per SKU for the country.
// ok is false when cost data is unavailable; a country without routes yields an empty map.
func (p *Provider) CostsForCountry(ctx context.Context, countryCode string) (model.CountryCosts, bool) {
	if p == nil || p.store == nil {
		return nil, false
	}
	table, ok := p.ensure(ctx)
	if !ok {
		return nil, false
	}
	costs := table[strings.ToUpper(countryCode)]
	if costs == nil {
		costs = model.CountryCosts{}
	}
	return costs, true
}

// Invalidate drops the cached table so the next lookup reloads it.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.table = nil
	p.loadedAt = time.Time{}
	p.mu.Unlock()
	p.log().Info().Msg("Cost cache invalidated")
}

func (p *Provider) fresh() (map[string]model.CountryCosts, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.table != nil && p.now().Sub(p.loadedAt) < p.ttl {
		return p.table, true
	}
	return nil, false
}

func (p *Provider) ensure(ctx context.Context) (map[string]model.CountryCosts, bool) {
	if table, ok := p.fresh(); ok {
		metrics.RecordCacheOperation("cost_table", "hit")
		return table, true
	}
	metrics.RecordCacheOperation("cost_table", "miss")

	// The shared reload outlives a cancelled caller; each caller still stops
	// waiting when its own context ends.
	ch := p.group.DoChan("refresh", func() (interface{}, error) {
		if table, ok := p.fresh(); ok {
			return table, nil
		}
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return p.refresh(rctx)
	})

	select {
	case <-ctx.Done():
		p.log().Warn().Err(ctx.Err()).Msg("Gave up waiting for cost data")
		return nil, false
	case res := <-ch:
		if res.Err != nil {
			metrics.RecordCostCacheRefresh("error")
			p.log().Error().Err(res.Err).Msg("Failed to load cost data")
			return nil, false
		}
		return res.Val.(map[string]model.CountryCosts), true
	}
}

func (p *Provider) refresh(ctx context.Context) (map[string]model.CountryCosts, error) {
	rows, err := p.store.LoadCosts(ctx)
	if err != nil {
		return nil, err
	}

	table := make(map[string]model.CountryCosts)
	loaded := 0
	for _, row := range rows {
		if row.WeightBracket != nil {
			if _, ok := BracketUpperGrams(*row.WeightBracket); !ok {
				p.log().Warn().
					Str("box_sku", row.BoxSKU).
					Str("country", row.CountryCode).
					Str("weight_bracket", *row.WeightBracket).
					Msg("Rejected cost row with unreadable weight bracket")
				continue
			}
		}
		loaded++
		country := strings.ToUpper(row.CountryCode)
		if table[country] == nil {
			table[country] = model.CountryCosts{}
		}
		table[country][row.BoxSKU] = append(table[country][row.BoxSKU], row)
	}

	p.mu.Lock()
	p.table = table
	p.loadedAt = p.now()
	p.mu.Unlock()

	metrics.RecordCostCacheRefresh("success")
	p.log().Info().
		Int("rows", loaded).
		Int("rejected", len(rows)-loaded).
		Int("countries", len(table)).
		Msg("Cost cache refreshed")

	p.validateSKUs(ctx, table)
	return table, nil
}

// validateSKUs logs advice containers whose cost SKU is not in the table.
func (p *Provider) validateSKUs(ctx context.Context, table map[string]model.CountryCosts) {
	if p.containers == nil {
		return
	}
	containers, err := p.containers.ListAdviceContainers(ctx)
	if err != nil {
		p.log().Warn().Err(err).Msg("Skipping cost SKU validation")
		return
	}

	known := make(map[string]struct{})
	for _, bySKU := range table {
		for sku := range bySKU {
			known[sku] = struct{}{}
		}
	}

	for _, c := range containers {
		if c.CostSKU == "" {
			continue
		}
		if _, ok := known[c.CostSKU]; !ok {
			p.log().Warn().
				Str("container", c.Name).
				Str("cost_sku", c.CostSKU).
				Msg("Container cost SKU not found in cost table")
		}
	}
}

func (p *Provider) log() *zerolog.Logger {
	l := logger.Component("cost_provider")
	return &l
}
