// Package shadow caches the last-known remote state per blockade.
//
// Ownership boundary:
// - name -> last-fetched State (replaced wholesale on refresh)
//
// - name -> last-applied Config (recorded at creation, never derived)
//
// The shadow is not safe for concurrent use; one logical owner issues calls
// sequentially.
package shadow

import (
	"context"
	"sort"

	"github.com/jmurph/blockadectl/internal/protocol"
)

// Fetcher is the remote read surface the shadow refreshes from.
type Fetcher interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (protocol.State, error)
}

// Shadow holds the cached view for every blockade this process has touched.
type Shadow struct {
	fetcher Fetcher
	states  map[string]protocol.State
	configs map[string]protocol.Config
}

// New returns an empty shadow backed by fetcher.
func New(fetcher Fetcher) *Shadow {
	return &Shadow{
		fetcher: fetcher,
		states:  map[string]protocol.State{},
		configs: map[string]protocol.Config{},
	}
}

// Refresh replaces the cached state entry for name wholesale. A failed fetch
// leaves the existing entry untouched.
func (s *Shadow) Refresh(ctx context.Context, name string) error {
	state, err := s.fetcher.Get(ctx, name)
	if err != nil {
		return err
	}
	s.states[name] = state
	return nil
}

// RefreshAll lists the remote blockade names and refreshes each. The first
// failure aborts the sweep: already-refreshed entries stay current, the rest
// stay stale, and callers must treat the whole shadow as partially stale.
func (s *Shadow) RefreshAll(ctx context.Context) error {
	names, err := s.fetcher.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.Refresh(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// RecordConfig notes the config a blockade is created with.
func (s *Shadow) RecordConfig(name string, cfg protocol.Config) {
	s.configs[name] = cfg
}

// State returns the cached state for name.
func (s *Shadow) State(name string) (protocol.State, bool) {
	state, ok := s.states[name]
	return state, ok
}

// Config returns the last-recorded config for name.
func (s *Shadow) Config(name string) (protocol.Config, bool) {
	cfg, ok := s.configs[name]
	return cfg, ok
}

// Forget drops the cached state and config for name. Called only after a
// confirmed destroy.
func (s *Shadow) Forget(name string) {
	delete(s.states, name)
	delete(s.configs, name)
}

// Names returns the cached blockade names in ascending lexicographic order.
func (s *Shadow) Names() []string {
	names := make([]string, 0, len(s.states))
	for name := range s.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContainerNames returns the cached container names for one blockade in
// ascending lexicographic order, regardless of server-reported order.
func (s *Shadow) ContainerNames(name string) []string {
	state, ok := s.states[name]
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(state.Containers))
	for container := range state.Containers {
		names = append(names, container)
	}
	sort.Strings(names)
	return names
}
