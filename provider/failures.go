package provider

import (
	"sync"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

// FailureInjector forces capabilities to fail. A nil injector forces nothing.
type FailureInjector struct {
	mu     sync.RWMutex
	forced map[model.Capability]model.ErrorKind
}

func NewFailureInjector() *FailureInjector {
	return &FailureInjector{forced: map[model.Capability]model.ErrorKind{}}
}

// Fail makes every later call of c fail with kind once its latency elapsed.
func (f *FailureInjector) Fail(c model.Capability, kind model.ErrorKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced[c] = kind
}

// Clear lifts the failure of c.
func (f *FailureInjector) Clear(c model.Capability) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.forced, c)
}

// Reset lifts all failures.
func (f *FailureInjector) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced = map[model.Capability]model.ErrorKind{}
}

func (f *FailureInjector) failure(c model.Capability) (model.ErrorKind, bool) {
	if f == nil {
		return "", false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	kind, ok := f.forced[c]
	return kind, ok
}
