// Package credentials keeps one backend cookie jar per visitor session, so cookies the backend
// sets on login are sent back on that visitor's later requests and never on anyone else's.
package credentials

import (
	"context"
	"sync"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"mentorform/internal/api"
)

type Registry struct {
	mu   sync.Mutex
	idle time.Duration
	jars map[string]*entry
	now  func() time.Time
}

type entry struct {
	jar      *api.Jar
	lastUsed time.Time
}

// NewRegistry returns a registry that forgets jars unused for longer than idle.
func NewRegistry(idle time.Duration) *Registry {
	return &Registry{
		idle: idle,
		jars: make(map[string]*entry),
		now:  time.Now,
	}
}

// Jar returns the jar for key, creating it on first use.
func (r *Registry) Jar(key string) *api.Jar {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.jars[key]
	if !ok {
		e = &entry{jar: api.NewJar()}
		r.jars[key] = e
	}
	e.lastUsed = r.now()
	return e.jar
}

// Drop forgets the jar for key. A request still holding the jar keeps using it until it ends.
func (r *Registry) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jars, key)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jars)
}

// Purge drops every jar idle for longer than the registry's idle time and returns the count.
func (r *Registry) Purge() int {
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for k, e := range r.jars {
		if e.lastUsed.Before(cutoff) {
			delete(r.jars, k)
			n++
		}
	}
	return n
}

// Run purges every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Purge(); n > 0 {
				fiberlog.Debugf("credentials: purged %d idle jars", n)
			}
		}
	}
}
