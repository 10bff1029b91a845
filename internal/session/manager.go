// Package session keeps the live interview sessions of one process.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/interview"
	"go.uber.org/zap"
)

type Options struct {
	Store    Store
	TTL      time.Duration
	Oracle   interview.Oracle
	Logger   *zap.Logger
	Recorder interview.Recorder
	// NewRand returns the fallback-feedback source for a new session.
	// nil lets each session seed its own.
	NewRand func() interview.Rand
	NewID   func() string
}

// Manager owns live orchestrators. Sessions idle longer than the TTL are
// evicted and their pending oracle request cancelled.
type Manager struct {
	live  *gocache.Cache
	store Store
	ttl   time.Duration
	opts  Options
	log   *zap.Logger
}

func NewManager(opts Options) *Manager {
	if opts.Store == nil {
		opts.Store = NopStore{}
	}
	if opts.TTL <= 0 {
		opts.TTL = 2 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}

	cleanup := time.Minute
	if opts.TTL < cleanup {
		cleanup = opts.TTL
	}
	live := gocache.New(opts.TTL, cleanup)
	live.OnEvicted(func(id string, v interface{}) {
		if o, ok := v.(*interview.Orchestrator); ok && o.Cancel() {
			opts.Logger.Info("session: evicted with pending request", zap.String("session_id", id))
		}
	})

	return &Manager{
		live:  live,
		store: opts.Store,
		ttl:   opts.TTL,
		opts:  opts,
		log:   opts.Logger,
	}
}

func (m *Manager) orchestratorOptions() interview.Options {
	o := interview.Options{
		Oracle:   m.opts.Oracle,
		Logger:   m.log,
		Recorder: m.opts.Recorder,
	}
	if m.opts.NewRand != nil {
		o.Rand = m.opts.NewRand()
	}
	return o
}

// Create starts a new session and stores its first snapshot.
func (m *Manager) Create(ctx context.Context) (*interview.Orchestrator, error) {
	o := interview.New(m.opts.NewID(), m.orchestratorOptions())
	if err := m.live.Add(o.ID(), o, gocache.DefaultExpiration); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}
	if err := m.Save(ctx, o); err != nil {
		m.live.Delete(o.ID())
		return nil, err
	}

	m.log.Info("session: created", zap.String("session_id", o.ID()))
	return o, nil
}

// Get returns the live session, rebuilding it from the snapshot store when this
// process does not hold it.
func (m *Manager) Get(ctx context.Context, id string) (*interview.Orchestrator, error) {
	if v, ok := m.live.Get(id); ok {
		o := v.(*interview.Orchestrator)
		m.live.SetDefault(id, o)
		return o, nil
	}

	st, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	o, err := interview.Restore(*st, m.orchestratorOptions())
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	if err := m.live.Add(id, o, gocache.DefaultExpiration); err != nil {
		// another request restored it first
		if v, ok := m.live.Get(id); ok {
			return v.(*interview.Orchestrator), nil
		}
		return nil, fmt.Errorf("register session: %w", err)
	}

	m.log.Info("session: restored from snapshot", zap.String("session_id", id))
	return o, nil
}

// Save writes the current snapshot of o. A session that was deleted or evicted
// in the meantime is not written back and ErrNotFound is returned.
func (m *Manager) Save(ctx context.Context, o *interview.Orchestrator) error {
	if v, ok := m.live.Get(o.ID()); !ok || v != o {
		return ErrNotFound
	}
	if err := m.store.Save(ctx, o.Snapshot(), m.ttl); err != nil {
		return fmt.Errorf("snapshot session %s: %w", o.ID(), err)
	}
	return nil
}

// Delete ends a session, cancelling any pending oracle request.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	m.live.Delete(id)

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}

	m.log.Info("session: deleted", zap.String("session_id", id))
	return nil
}

// Count returns the number of live sessions in this process.
func (m *Manager) Count() int {
	return m.live.ItemCount()
}
