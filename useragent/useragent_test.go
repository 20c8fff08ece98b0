package useragent

import (
	"slices"
	"testing"
)

func TestPickFromPool(t *testing.T) {
	p := New(nil, false)
	for i := 0; i < 20; i++ {
		ua := p.Pick()
		if !slices.Contains(p.agents, ua) {
			t.Fatalf("Pick() = %q, not a pool member", ua)
		}
	}
}

func TestPickPrefersGenerator(t *testing.T) {
	p := &Pool{
		agents:    []string{"pool-agent"},
		generator: func() string { return "generated-agent" },
	}
	if got := p.Pick(); got != "generated-agent" {
		t.Errorf("Pick() = %q, want generator output", got)
	}
}

func TestPickFallsBackWhenGeneratorEmpty(t *testing.T) {
	p := &Pool{
		agents:    []string{"pool-agent"},
		generator: func() string { return "" },
	}
	if got := p.Pick(); got != "pool-agent" {
		t.Errorf("Pick() = %q, want pool fallback", got)
	}
}

func TestNewKeepsExtras(t *testing.T) {
	p := New([]string{"custom-agent", ""}, false)
	if !slices.Contains(p.agents, "custom-agent") {
		t.Error("New() dropped the configured extra agent")
	}
	if slices.Contains(p.agents, "") {
		t.Error("New() kept an empty agent string")
	}
}
