package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
)

// Registry hands out one Orchestrator per session and keeps at most
// maxSessions idle ones, evicting the least recently used. An orchestrator
// whose edit is still running is held outside the cache until the edit
// finishes, so a session never has two calls in flight.
type Registry struct {
	mu       sync.Mutex
	cache    *lru.Cache
	inFlight map[string]*Orchestrator
	runner   Runner
}

// NewRegistry creates a registry whose orchestrators share runner
func NewRegistry(runner Runner, maxSessions int) (*Registry, error) {
	r := &Registry{
		inFlight: make(map[string]*Orchestrator),
		runner:   runner,
	}

	cache, err := lru.NewWithEvict(maxSessions, r.onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create session registry: %w", err)
	}
	r.cache = cache

	return r, nil
}

// onEvict runs with r.mu held; every cache mutation happens under it
func (r *Registry) onEvict(key, value interface{}) {
	sessionID := key.(string)
	o := value.(*Orchestrator)

	if !o.retire() {
		r.inFlight[sessionID] = o
		log.Printf("⏳ Session %s evicted mid-edit; holding it until the edit finishes", sessionID)
		return
	}
	log.Printf("🧹 Session %s evicted from orchestrator registry", sessionID)
}

// Get returns the session's orchestrator, creating an idle one if needed
func (r *Registry) Get(sessionID string) *Orchestrator {
	r.mu.Lock()
	defer r.mu.Unlock()

	if val, found := r.cache.Get(sessionID); found {
		return val.(*Orchestrator)
	}

	o, held := r.inFlight[sessionID]
	if held {
		delete(r.inFlight, sessionID)
	} else {
		o = New(r.runner)
	}
	r.settle()
	r.cache.Add(sessionID, o)
	return o
}

// Submit runs req on the session's current orchestrator
func (r *Registry) Submit(ctx context.Context, sessionID string, req models.EditRequest) (Outcome, error) {
	for {
		outcome, err := r.Get(sessionID).Submit(ctx, req)
		if !errors.Is(err, errRetired) {
			return outcome, err
		}
	}
}

// settle drops held orchestrators whose edit has finished
func (r *Registry) settle() {
	for sessionID, o := range r.inFlight {
		if o.retire() {
			delete(r.inFlight, sessionID)
		}
	}
}

// Peek returns the session's orchestrator without creating or promoting it
func (r *Registry) Peek(sessionID string) (*Orchestrator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if val, found := r.cache.Peek(sessionID); found {
		return val.(*Orchestrator), true
	}
	o, held := r.inFlight[sessionID]
	return o, held
}

// Len returns the number of tracked sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len() + len(r.inFlight)
}
