// File: pkg/plugin/host.go
package plugin

import (
	"fmt"
	goplugin "plugin"
	"strings"
	"sync"
)

// PluginSymbol is the exported symbol a shared-object plugin must
// provide. It must be a *Descriptor or a func() *Descriptor.
const PluginSymbol = "Plugin"

var (
	registryMu sync.Mutex
	registry   = make(map[string]*Descriptor)
)

// Register adds an in-process plugin under its descriptor name so it can
// be referenced on the command line without a shared object. Compile-time
// chains are equivalent to dynamically loaded ones.
func Register(desc *Descriptor) error {
	if desc == nil || desc.Name == "" {
		return fmt.Errorf("plugin descriptor must carry a name")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[desc.Name]; exists {
		return fmt.Errorf("plugin %q already registered", desc.Name)
	}
	registry[desc.Name] = desc
	return nil
}

func lookupRegistered(name string) (*Descriptor, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	desc, ok := registry[name]
	return desc, ok
}

// Load resolves each chain entry in user order. Entries naming a
// registered plugin resolve in process; entries that look like a path to
// a shared object are loaded dynamically. Any resolution or Init failure
// fails the run.
func (c *Chain) Load(specs []string) error {
	for _, spec := range specs {
		desc, err := resolve(spec)
		if err != nil {
			return err
		}
		if err := c.add(desc); err != nil {
			return err
		}
	}
	return nil
}

func resolve(spec string) (*Descriptor, error) {
	if desc, ok := lookupRegistered(spec); ok {
		return desc, nil
	}
	if strings.ContainsAny(spec, "/.") {
		return loadShared(spec)
	}
	return nil, fmt.Errorf("unknown plugin %q: not registered and not a shared-object path", spec)
}

// loadShared opens a Go shared object and resolves its descriptor
// symbol.
func loadShared(path string) (*Descriptor, error) {
	lib, err := goplugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading plugin %s: %w", path, err)
	}
	sym, err := lib.Lookup(PluginSymbol)
	if err != nil {
		return nil, fmt.Errorf("plugin %s does not export %s: %w", path, PluginSymbol, err)
	}
	switch v := sym.(type) {
	case *Descriptor:
		return v, nil
	case func() *Descriptor:
		return v(), nil
	default:
		return nil, fmt.Errorf("plugin %s: symbol %s has unsupported type %T", path, PluginSymbol, sym)
	}
}
