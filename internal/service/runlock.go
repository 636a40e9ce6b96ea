package service

import (
	"context"
	"sync"

	"github.com/radmosaic/rostergen-api/internal/dto"
)

type generationCall struct {
	done   chan struct{}
	result *dto.GenerationResult
	err    error
}

// periodLock serialises generation per organization-month. A request for
// a period with a run already in flight does not start a second run; it
// waits for the live one and shares its outcome.
type periodLock struct {
	mu    sync.Mutex
	calls map[string]*generationCall
}

func newPeriodLock() *periodLock {
	return &periodLock{calls: make(map[string]*generationCall)}
}

// Do executes fn for the key, or joins the in-flight call when one
// exists. The second return value reports whether the caller joined an
// existing run instead of starting its own.
func (l *periodLock) Do(ctx context.Context, key string, fn func() (*dto.GenerationResult, error)) (*dto.GenerationResult, bool, error) {
	l.mu.Lock()
	if call, ok := l.calls[key]; ok {
		l.mu.Unlock()
		select {
		case <-call.done:
			return call.result, true, call.err
		case <-ctx.Done():
			return nil, true, ctx.Err()
		}
	}

	call := &generationCall{done: make(chan struct{})}
	l.calls[key] = call
	l.mu.Unlock()

	call.result, call.err = fn()

	l.mu.Lock()
	delete(l.calls, key)
	l.mu.Unlock()
	close(call.done)

	return call.result, false, call.err
}

// InFlight reports whether a run is currently live for the key.
func (l *periodLock) InFlight(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.calls[key]
	return ok
}
