package run

import (
	"sync"
	"sync/atomic"
)

// Token is a per-run cancellation flag. Set is idempotent; once set the
// token never clears. The orchestrator polls it between chunk completions,
// never inside an in-flight engine call.
type Token struct {
	cancelled atomic.Bool
}

// Cancel sets the flag. Repeated calls are no-ops.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether cancellation was requested.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}

// Registry holds one cancellation token per run id. Tokens must be evicted
// with Release when a run terminates so the map does not grow without bound.
type Registry struct {
	mu     sync.Mutex
	tokens map[string]*Token
}

// NewRegistry creates an empty token registry.
func NewRegistry() *Registry {
	return &Registry{tokens: make(map[string]*Token)}
}

// Token returns the run's token, creating it on first use.
func (r *Registry) Token(runID string) *Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[runID]
	if !ok {
		token = &Token{}
		r.tokens[runID] = token
	}
	return token
}

// Cancel sets the run's token, creating it if the run has not started yet.
func (r *Registry) Cancel(runID string) {
	r.Token(runID).Cancel()
}

// Release evicts the run's token after the run reaches a terminal state.
func (r *Registry) Release(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, runID)
}

// Len reports how many runs currently hold a token.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
