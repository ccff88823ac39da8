package native

import (
	"sort"
	"sync"

	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/symbols"
)

// Builtin classes and functions, in registration order.
var (
	builtinClasses   = []func() *symbols.Prototype{AccountPrototype, CollectionPrototype, LambdaPrototype}
	builtinFunctions = []func() *symbols.Function{Print, Str}
)

// hostRegistry holds classes and functions contributed by an embedding host.
// Each entry is a factory so every run gets fresh prototypes.
//
// Thread-safe: registration usually happens in init(); reads happen once per run.
var hostRegistry = struct {
	mu        sync.RWMutex
	classes   map[string]func() *symbols.Prototype
	functions map[string]func() *symbols.Function
}{
	classes:   make(map[string]func() *symbols.Prototype),
	functions: make(map[string]func() *symbols.Function),
}

// RegisterClass adds a host class. A later registration under the same name wins.
func RegisterClass(name string, factory func() *symbols.Prototype) {
	hostRegistry.mu.Lock()
	defer hostRegistry.mu.Unlock()
	hostRegistry.classes[name] = factory
}

// RegisterFunction adds a host function, keyed by its signature.
func RegisterFunction(factory func() *symbols.Function) {
	key := factory().Signature.Key()
	hostRegistry.mu.Lock()
	defer hostRegistry.mu.Unlock()
	hostRegistry.functions[key] = factory
}

// HostClasses returns the names of registered host classes.
func HostClasses() []string {
	hostRegistry.mu.RLock()
	defer hostRegistry.mu.RUnlock()
	names := make([]string, 0, len(hostRegistry.classes))
	for name := range hostRegistry.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearHost removes all host registrations.
// Used for testing.
func ClearHost() {
	hostRegistry.mu.Lock()
	defer hostRegistry.mu.Unlock()
	hostRegistry.classes = make(map[string]func() *symbols.Prototype)
	hostRegistry.functions = make(map[string]func() *symbols.Function)
}

// NewRegistry creates the registry for one run: builtins, then host
// registrations. User functions are declared on top by the passes.
func NewRegistry(rates *config.ConversionTable) *symbols.Registry {
	reg := symbols.NewRegistry(rates)
	for _, build := range builtinClasses {
		reg.AddClass(build())
	}
	for _, build := range builtinFunctions {
		reg.AddNative(build())
	}

	hostRegistry.mu.RLock()
	defer hostRegistry.mu.RUnlock()
	for _, name := range sortedKeys(hostRegistry.classes) {
		p := hostRegistry.classes[name]()
		p.Name = name
		reg.AddClass(p)
	}
	for _, key := range sortedKeys(hostRegistry.functions) {
		reg.AddNative(hostRegistry.functions[key]())
	}
	return reg
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
