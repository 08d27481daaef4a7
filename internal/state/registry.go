package state

import (
	"context"
	"sync"
	"time"

	"automate-service/internal/pkg/metrics"

	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultIdleTimeout = 30 * time.Minute

// Registry owns one container per browser session.
type Registry struct {
	deps Deps
	idle time.Duration

	mu         sync.Mutex
	containers map[string]*Container
	cron       *cron.Cron
}

// NewRegistry builds an empty registry. Containers idle for longer than
// idle are evicted by Start's schedule.
func NewRegistry(deps Deps, idle time.Duration) *Registry {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	return &Registry{
		deps:       deps,
		idle:       idle,
		containers: make(map[string]*Container),
	}
}

// Demo reports whether containers run without a remote gateway.
func (r *Registry) Demo() bool { return r.deps.Gateway == nil }

// Open starts a new session and returns its bootstrapped container.
func (r *Registry) Open(ctx context.Context) *Container {
	return r.Get(ctx, ulid.Make().String())
}

// Get returns the container for sid, creating and bootstrapping it on first
// use. A new container restores whatever the session store holds for sid.
// Every call counts as activity for idle eviction.
func (r *Registry) Get(ctx context.Context, sid string) *Container {
	r.mu.Lock()
	c, ok := r.containers[sid]
	if !ok {
		c = New(sid, r.deps)
		r.containers[sid] = c
		metrics.SetLiveSessions(len(r.containers))
		r.deps.Logger.Debug("session container created", zap.String("session_id", sid))
	}
	c.touch()
	r.mu.Unlock()

	c.Bootstrap(ctx)
	return c
}

// Lookup returns the container for sid without creating one.
func (r *Registry) Lookup(sid string) (*Container, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.containers[sid]
	return c, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.containers)
}

// EvictIdle closes and drops containers unused since now minus the idle
// timeout. Persisted session data is kept, so an evicted session restores
// on its next request.
func (r *Registry) EvictIdle(now time.Time) int {
	cutoff := now.Add(-r.idle)

	r.mu.Lock()
	var stale []*Container
	for sid, c := range r.containers {
		if c.LastUsed().Before(cutoff) {
			stale = append(stale, c)
			delete(r.containers, sid)
		}
	}
	metrics.SetLiveSessions(len(r.containers))
	r.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	if len(stale) > 0 {
		r.deps.Logger.Info("evicted idle sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Start runs EvictIdle on schedule, a standard cron spec or descriptor
// such as "@every 1m".
func (r *Registry) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { r.EvictIdle(time.Now()) }); err != nil {
		return err
	}

	r.mu.Lock()
	r.cron = c
	r.mu.Unlock()
	c.Start()
	return nil
}

// Close stops eviction and waits for every container's in-flight syncs.
func (r *Registry) Close() {
	r.mu.Lock()
	cr := r.cron
	all := make([]*Container, 0, len(r.containers))
	for _, c := range r.containers {
		all = append(all, c)
	}
	r.containers = make(map[string]*Container)
	metrics.SetLiveSessions(0)
	r.mu.Unlock()

	if cr != nil {
		<-cr.Stop().Done()
	}
	for _, c := range all {
		c.Close()
	}
	r.deps.Logger.Info("session registry closed", zap.Int("sessions", len(all)))
}
