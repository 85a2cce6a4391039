// Package tactic implements the tactic-to-primitive translator. A tactic is a
// named high-level action whose numeric constants are baked into its
// definition; definitions are content, loaded from YAML.
package tactic

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Step op names allowed in a tactic definition. Attacks never appear as
// steps: the attack component of a tactic lives in DeferredAttack so the
// translator can split it off.
const (
	StepBlock        = "block"
	StepCharge       = "charge"
	StepHeal         = "heal"
	StepStatusAdd    = "status_add"
	StepStatusRemove = "status_remove"
)

// Step is one non-attack component of a tactic.
type Step struct {
	Op       string `yaml:"op"`
	Value    int    `yaml:"value"`
	Status   string `yaml:"status"`
	Duration int    `yaml:"duration"`
}

// DeferredAttack is the attack component of a tactic. In split mode its
// execution is postponed to a later trigger; in flat mode it runs with the
// steps.
type DeferredAttack struct {
	Value int `yaml:"value"`
}

// Def is the static definition of a tactic, loaded from YAML or registered
// programmatically. Numeric constants are fixed per tactic, not configurable
// at translation time.
type Def struct {
	ID             string          `yaml:"id"`
	Name           string          `yaml:"name"`
	Description    string          `yaml:"description"`
	Steps          []Step          `yaml:"steps"`
	DeferredAttack *DeferredAttack `yaml:"deferred_attack"`
}

// Validate checks all required fields and step constraints.
//
// Postcondition: nil return guarantees a non-empty ID, known step ops,
// positive step values where required, and at least one component.
func (d *Def) Validate() error {
	if d.ID == "" {
		return errors.New("tactic.Def: ID must not be empty")
	}
	if len(d.Steps) == 0 && d.DeferredAttack == nil {
		return fmt.Errorf("tactic.Def %q: must have at least one step or a deferred attack", d.ID)
	}
	for i, st := range d.Steps {
		switch st.Op {
		case StepBlock, StepCharge, StepHeal:
			if st.Value < 1 {
				return fmt.Errorf("tactic.Def %q step %d: %s value must be >= 1, got %d", d.ID, i, st.Op, st.Value)
			}
		case StepStatusAdd:
			if st.Status == "" {
				return fmt.Errorf("tactic.Def %q step %d: status_add requires a status", d.ID, i)
			}
			if st.Duration < 1 {
				return fmt.Errorf("tactic.Def %q step %d: status_add duration must be >= 1, got %d", d.ID, i, st.Duration)
			}
		case StepStatusRemove:
			if st.Status == "" {
				return fmt.Errorf("tactic.Def %q step %d: status_remove requires a status", d.ID, i)
			}
		default:
			return fmt.Errorf("tactic.Def %q step %d: unknown op %q", d.ID, i, st.Op)
		}
	}
	if d.DeferredAttack != nil && d.DeferredAttack.Value < 1 {
		return fmt.Errorf("tactic.Def %q: deferred_attack value must be >= 1, got %d", d.ID, d.DeferredAttack.Value)
	}
	return nil
}

// Registry holds all known tactic Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register validates def and adds it to the registry, overwriting any
// existing entry with the same ID.
//
// Precondition: def must not be nil.
func (r *Registry) Register(def *Def) error {
	if def == nil {
		return errors.New("tactic.Registry: def must not be nil")
	}
	if err := def.Validate(); err != nil {
		return err
	}
	r.defs[def.ID] = def
	return nil
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered Defs.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def,
// and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to
// parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading tactic dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := reg.Register(&def); err != nil {
			return nil, fmt.Errorf("registering %q: %w", path, err)
		}
	}
	return reg, nil
}
