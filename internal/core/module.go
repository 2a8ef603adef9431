// Package core provides the module system foundation for steward.
package core

// ModuleID uniquely identifies a module, namespaced with dots
// (e.g. "channel.line", "store.sqlite", "provider.openai").
type ModuleID string

// Namespace returns the portion of the ID before the first dot, or the
// whole ID when it has no namespace.
func (id ModuleID) Namespace() string {
	for i := 0; i < len(id); i++ {
		if id[i] == '.' {
			return string(id[:i])
		}
	}
	return string(id)
}

// ModuleInfo describes a registered module.
type ModuleInfo struct {
	// ID is the module's unique, namespaced identifier.
	ID ModuleID

	// New returns a fresh, unconfigured instance of the module.
	New func() Module
}

// Module is the interface all modules implement. Lifecycle behavior is
// added through the optional interfaces in lifecycle.go.
type Module interface {
	ModuleInfo() ModuleInfo
}
