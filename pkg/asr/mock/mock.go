// Package mock provides a scripted asr.Provider for tests.
package mock

import (
	"context"
	"sync"

	"github.com/podium-ed/podium/pkg/asr"
)

// Compile-time assertion that Provider satisfies asr.Provider.
var _ asr.Provider = (*Provider)(nil)

// Provider returns a fixed Result (or error) from every Transcribe call and
// records the calls it receives. Safe for concurrent use.
type Provider struct {
	// Result is returned from Transcribe when Err is nil.
	Result asr.Result

	// Err, when non-nil, is returned from every Transcribe call.
	Err error

	mu    sync.Mutex
	calls int
}

// Transcribe returns the scripted result.
func (p *Provider) Transcribe(_ context.Context, _ []float32, _ int) (asr.Result, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.Err != nil {
		return asr.Result{}, p.Err
	}
	return p.Result, nil
}

// Calls reports how many times Transcribe was invoked.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
