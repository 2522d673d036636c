package model

import (
	"sort"
	"strings"
)

// Registry maps module names to modules. It is the cache payload.
type Registry struct {
	Modules map[string]*Module

	removed int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Modules: make(map[string]*Module)}
}

// Get returns the named module, creating it when absent.
func (r *Registry) Get(name, appName, prefix string) *Module {
	if mod, ok := r.Modules[name]; ok {
		return mod
	}

	mod := NewModule(name, appName, prefix)
	r.Modules[name] = mod

	return mod
}

// Remove drops a module. Removing a module that was present counts as a
// change that requires the artifact to be regenerated.
func (r *Registry) Remove(name string) {
	if _, ok := r.Modules[name]; !ok {
		return
	}

	delete(r.Modules, name)
	r.removed++
}

// Discard drops a module that was created during this run and never
// reached the persisted registry. It does not count as a change.
func (r *Registry) Discard(name string) {
	delete(r.Modules, name)
}

// Prune removes every module whose name is not in keep.
func (r *Registry) Prune(keep map[string]struct{}) []string {
	var pruned []string

	for name := range r.Modules {
		if _, ok := keep[name]; !ok {
			pruned = append(pruned, name)
		}
	}

	sort.Strings(pruned)

	for _, name := range pruned {
		r.Remove(name)
	}

	return pruned
}

// Disable marks every module whose display name starts with one of the
// prefixes as disabled. Disabled modules are always flagged as modified;
// modules that were disabled before and no longer match are re-enabled and
// flagged as modified too.
func (r *Registry) Disable(prefixes []string) []string {
	var disabled []string

	for _, mod := range r.Sorted() {
		matched := false

		for _, prefix := range prefixes {
			if strings.HasPrefix(mod.CleanName(), prefix) {
				matched = true
				break
			}
		}

		switch {
		case matched:
			mod.Enabled = false
			mod.SetModified(true)

			disabled = append(disabled, mod.Name)
		case !mod.Enabled:
			mod.Enabled = true
			mod.SetModified(true)
		}
	}

	return disabled
}

// Changed reports whether any module was modified or removed this run.
func (r *Registry) Changed() bool {
	if r.removed > 0 {
		return true
	}

	for _, mod := range r.Modules {
		if mod.Modified() {
			return true
		}
	}

	return false
}

// Sorted returns the modules ordered by name.
func (r *Registry) Sorted() []*Module {
	mods := make([]*Module, 0, len(r.Modules))
	for _, mod := range r.Modules {
		mods = append(mods, mod)
	}

	sort.Slice(mods, func(i, j int) bool {
		return mods[i].Name < mods[j].Name
	})

	return mods
}

// SuiteCount is the number of suite rows: every module contributes one row
// per initializer variant, or a single default row.
func (r *Registry) SuiteCount() int {
	total := 0
	for _, mod := range r.Modules {
		total += mod.SuiteCount()
	}

	return total
}

// CallbackCount is the total number of ordinary tests.
func (r *Registry) CallbackCount() int {
	total := 0
	for _, mod := range r.Modules {
		total += len(mod.Callbacks)
	}

	return total
}

// Suite is one (module, initializer variant) pair. Initializer is nil for the
// default row of a module without initializers.
type Suite struct {
	Module      *Module
	Initializer *TestFunction
}

// DisplayName is the suite name shown by the runtime, e.g. "core::clone (bare)".
func (s Suite) DisplayName() string {
	name := s.Module.CleanName()

	if s.Initializer != nil {
		if variant := s.Initializer.Variant(); variant != "" {
			name += " (" + variant + ")"
		}
	}

	return name
}

// Suites lists every suite row in module order, then variant order.
func (r *Registry) Suites() []Suite {
	suites := make([]Suite, 0, r.SuiteCount())

	for _, mod := range r.Sorted() {
		if len(mod.Initializers) == 0 {
			suites = append(suites, Suite{Module: mod})
			continue
		}

		for i := range mod.Initializers {
			suites = append(suites, Suite{Module: mod, Initializer: &mod.Initializers[i]})
		}
	}

	return suites
}
