// Package tools manages the configured GNAT installations.
package tools

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/gnatci/gprstep/pkg/api"
)

// ErrNotFound is returned when no configured installation has the
// requested name.
var ErrNotFound = errors.New("installation not found")

// Registry holds the configured installations in registration order. Reads
// may happen concurrently with a SetAll; readers observe either the old or
// the new set, never a mix.
type Registry struct {
	lk            sync.RWMutex
	store         Store
	installations []api.Installation
}

// NewRegistry returns a registry backed by store, loading the persisted
// installations.
func NewRegistry(store Store) (*Registry, error) {
	r := &Registry{store: store}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load replaces the in-memory set with the persisted one.
func (r *Registry) Load() error {
	insts, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load installations: %w", err)
	}

	r.lk.Lock()
	defer r.lk.Unlock()
	r.installations = filterNamed(insts)
	return nil
}

// Save persists the in-memory set.
func (r *Registry) Save() error {
	r.lk.Lock()
	defer r.lk.Unlock()
	return r.store.Save(r.installations)
}

// All returns a copy of the configured installations, in order.
func (r *Registry) All() []api.Installation {
	r.lk.RLock()
	defer r.lk.RUnlock()

	out := make([]api.Installation, len(r.installations))
	copy(out, r.installations)
	return out
}

// Lookup returns the first installation whose name is exactly name.
func (r *Registry) Lookup(name string) (api.Installation, bool) {
	r.lk.RLock()
	defer r.lk.RUnlock()

	for _, inst := range r.installations {
		if inst.Name == name {
			return inst, true
		}
	}
	return api.Installation{}, false
}

// Resolve returns the absolute bin directory of the named installation.
func (r *Registry) Resolve(name string) (string, error) {
	return r.ResolveFor(name, nil, nil)
}

// ResolveFor is like Resolve, but materializes the installation for node and
// then for env before computing the bin directory. A nil node or env skips
// the respective step.
func (r *Registry) ResolveFor(name string, node *api.Node, env api.EnvVars) (string, error) {
	inst, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if node != nil {
		inst = inst.ForNode(node)
	}
	if env != nil {
		inst = inst.ForEnvironment(env)
	}
	return inst.BinDir()
}

// SetAll replaces the configured installations with candidates, dropping
// those without a name, and persists the result.
func (r *Registry) SetAll(candidates []api.Installation) error {
	next := filterNamed(candidates)

	r.lk.Lock()
	defer r.lk.Unlock()

	if err := r.store.Save(next); err != nil {
		return fmt.Errorf("failed to save installations: %w", err)
	}
	r.installations = next
	return nil
}

// Option is an entry of the installation selection list.
type Option struct {
	Name     string `json:"name" mapstructure:"name"`
	Value    string `json:"value" mapstructure:"value"`
	Selected bool   `json:"selected" mapstructure:"selected"`
}

// Options lists the configured installations for selection, marking the
// one called selected.
func (r *Registry) Options(selected string) []Option {
	insts := r.All()
	out := make([]Option, 0, len(insts))
	for _, inst := range insts {
		out = append(out, Option{Name: inst.Name, Value: inst.Name, Selected: inst.Name == selected})
	}
	return out
}

// Check validates the home directory of every configured installation and
// reports all failures.
func (r *Registry) Check() error {
	var merr *multierror.Error
	for _, inst := range r.All() {
		if err := ValidateHome(inst.Home); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("installation %s: %w", inst.Name, err))
		}
	}
	return merr.ErrorOrNil()
}

func filterNamed(candidates []api.Installation) []api.Installation {
	out := make([]api.Installation, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		out = append(out, api.NewInstallation(c.Name, c.Home, c.Properties))
	}
	return out
}
