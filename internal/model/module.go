// Package model defines the data structures shared by the suite generator.
package model

import (
	"strings"
	"time"
)

// Role classifies a test function by its short name.
type Role int

const (
	// RoleCallback is an ordinary test.
	RoleCallback Role = iota
	// RoleInitializer is a suite setup function, optionally with a variant label.
	RoleInitializer
	// RoleReset runs between tests of a suite.
	RoleReset
	// RoleCleanup tears a suite down.
	RoleCleanup
)

const (
	initializerMarker = "initialize"
	resetName         = "reset"
	cleanupName       = "cleanup"
)

func (r Role) String() string {
	switch r {
	case RoleInitializer:
		return initializerMarker
	case RoleReset:
		return resetName
	case RoleCleanup:
		return cleanupName
	default:
		return "callback"
	}
}

// RoleOf classifies a short name.
func RoleOf(shortName string) Role {
	switch {
	case strings.HasPrefix(shortName, initializerMarker):
		return RoleInitializer
	case shortName == resetName:
		return RoleReset
	case shortName == cleanupName:
		return RoleCleanup
	default:
		return RoleCallback
	}
}

// TestFunction is one discovered callback.
type TestFunction struct {
	ShortName   string
	Symbol      string
	Declaration string
	Description *string
	Runs        int
}

// Variant returns the human readable label of an initializer
// ("initialize_bare_repo" -> "bare repo"). Plain "initialize" has no label.
func (f *TestFunction) Variant() string {
	rest, ok := strings.CutPrefix(f.ShortName, initializerMarker+"_")
	if !ok {
		return ""
	}

	return strings.ReplaceAll(rest, "_", " ")
}

// Module holds the test functions of one source file.
type Module struct {
	Name    string
	AppName string
	Prefix  string

	Callbacks    []TestFunction
	Initializers []TestFunction
	Reset        *TestFunction
	Cleanup      *TestFunction

	Enabled bool
	MTime   time.Time

	// modified is unexported so the cache encoder skips it.
	modified bool
}

// NewModule creates an enabled module with no functions.
func NewModule(name, appName, prefix string) *Module {
	return &Module{
		Name:    name,
		AppName: appName,
		Prefix:  prefix,
		Enabled: true,
	}
}

// CleanName is the display name of the module.
func (mod *Module) CleanName() string {
	return CleanName(mod.Name)
}

// SetFunctions replaces all parsed functions of the module. Reset and
// cleanup are singletons: when a file declares several, the last one wins.
func (mod *Module) SetFunctions(functions []TestFunction) {
	mod.Callbacks = nil
	mod.Initializers = nil
	mod.Reset = nil
	mod.Cleanup = nil

	for i := range functions {
		fn := functions[i]

		switch RoleOf(fn.ShortName) {
		case RoleInitializer:
			mod.Initializers = append(mod.Initializers, fn)
		case RoleReset:
			mod.Reset = &fn
		case RoleCleanup:
			mod.Cleanup = &fn
		case RoleCallback:
			mod.Callbacks = append(mod.Callbacks, fn)
		}
	}
}

// Modified reports whether the module changed since the last persisted state.
func (mod *Module) Modified() bool {
	return mod.modified
}

// SetModified flags or clears the module as changed for this run.
func (mod *Module) SetModified(modified bool) {
	mod.modified = modified
}

// HasCallbacks reports whether the module has at least one ordinary test.
func (mod *Module) HasCallbacks() bool {
	return len(mod.Callbacks) > 0
}

// SuiteCount is the number of suite rows the module contributes.
func (mod *Module) SuiteCount() int {
	return max(1, len(mod.Initializers))
}
