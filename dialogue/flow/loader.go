package flow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds the loaded flow models of all domains.
type Registry struct {
	models   map[string]*Model
	fallback string
}

// NewRegistry creates an empty registry with the given fallback domain.
// The fallback domain is used when domain classification fails or names
// an unknown domain.
func NewRegistry(fallbackDomain string) *Registry {
	return &Registry{
		models:   make(map[string]*Model),
		fallback: fallbackDomain,
	}
}

// Add registers a loaded model under its flow id.
func (r *Registry) Add(m *Model) {
	r.models[m.FlowID] = m
}

// Get returns the model for a domain, or nil when unknown.
func (r *Registry) Get(domain string) *Model {
	return r.models[domain]
}

// Has reports whether a domain is configured.
func (r *Registry) Has(domain string) bool {
	_, ok := r.models[domain]
	return ok
}

// Fallback returns the configured fallback domain.
func (r *Registry) Fallback() string {
	return r.fallback
}

// Domains lists the configured domain identifiers, sorted for stable
// prompt construction.
func (r *Registry) Domains() []string {
	domains := make([]string, 0, len(r.models))
	for domain := range r.models {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	return domains
}

// LoadFile parses a single flow document and validates its structure.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading flow file %s: %w", path, err)
	}

	var model Model
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parsing flow file %s: %w", path, err)
	}

	if err := validate(&model); err != nil {
		return nil, fmt.Errorf("flow file %s: %w", path, err)
	}

	return &model, nil
}

// LoadDir loads every .yaml/.yml document in dir into a registry.
func LoadDir(dir, fallbackDomain string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading flow directory %s: %w", dir, err)
	}

	registry := NewRegistry(fallbackDomain)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		model, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		registry.Add(model)
	}

	if len(registry.models) == 0 {
		return nil, fmt.Errorf("no flow documents found in %s", dir)
	}
	if !registry.Has(fallbackDomain) {
		return nil, fmt.Errorf("fallback domain %s has no flow document", fallbackDomain)
	}

	return registry, nil
}

// validate enforces the required top-level structure before any session
// can be created against the model.
func validate(m *Model) error {
	var missing []string
	if m.FlowID == "" {
		missing = append(missing, "flow_id")
	}
	if m.InitialState == "" {
		missing = append(missing, "initial_state")
	}
	if len(m.IntentMap) == 0 {
		missing = append(missing, "intent_map")
	}
	if len(m.States) == 0 {
		missing = append(missing, "states")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if _, ok := m.States[m.InitialState]; !ok {
		return fmt.Errorf("initial_state %s is not declared in states", m.InitialState)
	}

	for state, def := range m.States {
		if def.ActionFulfilled == nil {
			continue
		}
		for _, rule := range def.ActionFulfilled.Transitions {
			switch rule.Condition {
			case OnSuccess, OnFailure, OnAny:
			default:
				return fmt.Errorf("state %s: unknown transition condition %q", state, rule.Condition)
			}
			if _, ok := m.States[rule.Goto]; !ok {
				return fmt.Errorf("state %s: transition targets unknown state %s", state, rule.Goto)
			}
		}
	}

	return nil
}
