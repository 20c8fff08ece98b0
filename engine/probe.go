package engine

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"railstatus/fetch"
)

// Prober answers reachability questions about the providers. Outcomes are
// cached with a TTL so keep-alive pollers on the health endpoints do not
// turn into extra provider traffic.
type Prober struct {
	adapters []SourceAdapter
	timeout  time.Duration
	cache    *expirable.LRU[string, string]
}

// NewProber builds a prober over the same adapters the orchestrator uses.
func NewProber(adapters []SourceAdapter, timeout, ttl time.Duration) *Prober {
	return &Prober{
		adapters: adapters,
		timeout:  timeout,
		cache:    expirable.NewLRU[string, string](len(adapters)+1, nil, ttl),
	}
}

func (p *Prober) status(ctx context.Context, a SourceAdapter) string {
	if v, ok := p.cache.Get(a.Key()); ok {
		return v
	}
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	v := a.Probe(probeCtx)
	p.cache.Add(a.Key(), v)
	return v
}

// Primary reports the first provider's probe outcome for the health
// endpoint: ok, timeout or unreachable.
func (p *Prober) Primary(ctx context.Context) string {
	if len(p.adapters) == 0 {
		return fetch.ProbeUnreachable
	}
	return p.status(ctx, p.adapters[0])
}

// All probes every provider concurrently and reports which are reachable.
func (p *Prober) All(ctx context.Context) map[string]bool {
	out := make(map[string]bool, len(p.adapters))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, a := range p.adapters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := p.status(ctx, a)
			mu.Lock()
			out[a.Key()] = status == fetch.ProbeOK
			mu.Unlock()
		}()
	}
	wg.Wait()
	return out
}
