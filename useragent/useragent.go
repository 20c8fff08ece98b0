// Package useragent hands out the browser identification strings sent with
// outbound provider requests.
package useragent

import (
	"math/rand"

	browser "github.com/EDDYCJY/fake-useragent"
)

// Pool picks a user agent per request. It is assembled once at startup and
// is safe for concurrent reads; no shared header state is mutated between
// requests.
type Pool struct {
	agents    []string
	generator func() string
}

// defaultAgents is the fixed signature set used when no generator is
// configured or the generator produces nothing.
var defaultAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// New builds a pool from the default signatures plus any extras from
// configuration. With dynamic enabled, a fake-useragent generator is
// consulted first and the fixed pool stays as the fallback.
func New(extra []string, dynamic bool) *Pool {
	agents := append([]string(nil), defaultAgents...)
	for _, ua := range extra {
		if ua != "" {
			agents = append(agents, ua)
		}
	}
	p := &Pool{agents: agents}
	if dynamic {
		p.generator = browser.Random
	}
	return p
}

// Pick returns the agent for one request: the generator's answer when it
// produces one, otherwise a random pool entry.
func (p *Pool) Pick() string {
	if p.generator != nil {
		if ua := p.generator(); ua != "" {
			return ua
		}
	}
	return p.agents[rand.Intn(len(p.agents))]
}
