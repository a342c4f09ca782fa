package tool

import (
	"fmt"
	"sort"

	"github.com/hupe1980/confcierge/model"
)

// Registry is a validated mapping from tool name to implementation, built
// once at startup. Lookup of an unknown name is a recoverable per-call
// condition for the executor, not a crash.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry constructs a registry from the given tools. Registration
// failures (empty or duplicate names) are returned immediately.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool, rejecting empty and duplicate names.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("registry: nil tool")
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("registry: tool with empty name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("registry: duplicate tool name %q", name)
	}
	r.tools[name] = t
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns model-facing declarations for all registered tools, in
// name order for deterministic prompts.
func (r *Registry) Definitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(r.tools))
	for _, name := range r.Names() {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}
