// Package scenario describes view port sessions as YAML documents and
// replays them against a host view.
//
// A scenario declares templates, the ports of a host view and a list of
// steps:
//
//	name: reorder
//	templates:
//	  row: {tag: li, bind: label}
//	ports:
//	  - name: list
//	    template: row
//	steps:
//	  - op: hydrate
//	    port: list
//	  - op: create
//	    port: list
//	    as: first
//	  - op: detect
//	    context: {label: hello}
//	  - op: expect
//	    expect:
//	      html: "<li>hello</li><!--list-->"
package scenario

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/viewport/internal/errors"
)

// Step operations.
const (
	OpHydrate   = "hydrate"
	OpDehydrate = "dehydrate"
	OpCreate    = "create"
	OpInsert    = "insert"
	OpRemove    = "remove"
	OpDetach    = "detach"
	OpMove      = "move"
	OpGet       = "get"
	OpDetect    = "detect"
	OpExpect    = "expect"
)

var knownOps = []string{
	OpHydrate, OpDehydrate, OpCreate, OpInsert, OpRemove,
	OpDetach, OpMove, OpGet, OpDetect, OpExpect,
}

// Scenario is a parsed scenario document.
type Scenario struct {
	Name      string              `yaml:"name" json:"name"`
	Templates map[string]Template `yaml:"templates" json:"templates"`
	Ports     []PortSpec          `yaml:"ports" json:"ports"`
	Steps     []Step              `yaml:"steps" json:"steps"`
}

// PortSpec declares a port of the host view. Ports are anchored in
// declaration order.
type PortSpec struct {
	Name string `yaml:"name" json:"name"`

	// Template is the template Create instantiates. Optional.
	Template string `yaml:"template" json:"template,omitempty"`
}

// Step is one operation.
type Step struct {
	Op   string `yaml:"op" json:"op"`
	Port string `yaml:"port" json:"port,omitempty"`

	// Index selects a position. Omitted means the operation's default.
	Index *int `yaml:"index" json:"index,omitempty"`

	// From and To are the positions of a move.
	From int `yaml:"from" json:"from,omitempty"`
	To   int `yaml:"to" json:"to,omitempty"`

	// Template names the template an insert instantiates.
	Template string `yaml:"template" json:"template,omitempty"`

	// View names a view recorded by an earlier step's As.
	View string `yaml:"view" json:"view,omitempty"`

	// As records the view a step produced under a name.
	As string `yaml:"as" json:"as,omitempty"`

	// Context is the binding context installed by hydrate and detect.
	Context map[string]string `yaml:"context" json:"context,omitempty"`

	// Expect is checked after the step runs.
	Expect *Expect `yaml:"expect" json:"expect,omitempty"`

	// Error is the error code the step must fail with.
	Error string `yaml:"error" json:"error,omitempty"`
}

// Expect is a set of checks on host state.
type Expect struct {
	// HTML is the expected inner HTML of the host element.
	HTML *string `yaml:"html" json:"html,omitempty"`

	// Len maps port names to their expected view counts.
	Len map[string]int `yaml:"len" json:"len,omitempty"`

	// Hydrated maps port names to their expected hydration state.
	Hydrated map[string]bool `yaml:"hydrated" json:"hydrated,omitempty"`

	// Detectors is the expected number of detectors under the host view.
	Detectors *int `yaml:"detectors" json:"detectors,omitempty"`
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.New("E210").
			WithDetail("Failed to parse scenario: " + err.Error()).
			Wrap(err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No scenario file at " + path)
		}
		return nil, errors.New("E140").Wrap(err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Validate checks that every name a step uses is declared.
func (sc *Scenario) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New("E210").WithDetailf(format, args...)
	}

	ports := make(map[string]bool, len(sc.Ports))
	for i, p := range sc.Ports {
		if p.Name == "" {
			return invalid("port %d has no name", i)
		}
		if ports[p.Name] {
			return invalid("port %q declared twice", p.Name)
		}
		ports[p.Name] = true
		if p.Template != "" {
			if _, ok := sc.Templates[p.Template]; !ok {
				return invalid("port %q uses unknown template %q", p.Name, p.Template)
			}
		}
	}
	for name, t := range sc.Templates {
		if err := t.validate(); err != nil {
			return invalid("template %q: %v", name, err)
		}
	}

	for i, s := range sc.Steps {
		if err := s.Validate(sc); err != nil {
			return errors.FromError(err, "E210").WithOp(fmt.Sprintf("step %d", i))
		}
	}
	return nil
}

func (sc *Scenario) hasPort(name string) bool {
	return slices.ContainsFunc(sc.Ports, func(p PortSpec) bool { return p.Name == name })
}

// Validate checks a single step against the ports and templates sc
// declares. It fails with E211 for an unknown op and E210 otherwise.
func (s Step) Validate(sc *Scenario) error {
	invalid := func(format string, args ...any) error {
		return errors.New("E210").WithDetailf(format, args...)
	}

	if !slices.Contains(knownOps, s.Op) {
		return errors.New("E211").
			WithDetailf("%q", s.Op).
			WithSuggestion(fmt.Sprintf("Use one of %v", knownOps))
	}
	if s.needsPort() && !sc.hasPort(s.Port) {
		return invalid("%s: unknown port %q", s.Op, s.Port)
	}
	if s.Op == OpInsert && (s.Template == "") == (s.View == "") {
		return invalid("insert: set exactly one of template and view")
	}
	if s.Template != "" {
		if _, ok := sc.Templates[s.Template]; !ok {
			return invalid("%s: unknown template %q", s.Op, s.Template)
		}
	}
	if s.Op == OpExpect && s.Expect == nil {
		return invalid("expect: no expectation")
	}
	if s.Op == OpGet && s.Index == nil {
		return invalid("get: index is required")
	}
	return nil
}

func (s Step) needsPort() bool {
	switch s.Op {
	case OpDetect, OpExpect:
		return false
	}
	return true
}

// String describes the step for logs and reports.
func (s Step) String() string {
	out := s.Op
	if s.Port != "" {
		out += " " + s.Port
	}
	switch {
	case s.Op == OpMove:
		out += fmt.Sprintf(" %d->%d", s.From, s.To)
	case s.Index != nil:
		out += fmt.Sprintf(" @%d", *s.Index)
	}
	if s.Template != "" {
		out += " template=" + s.Template
	}
	if s.View != "" {
		out += " view=" + s.View
	}
	return out
}
