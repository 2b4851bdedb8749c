package manifest

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Parameter is a single named, typed method or event parameter.
type Parameter struct {
	Name string    `json:"name"`
	Type ParamType `json:"type"`
}

// Parameters is a list of Parameter.
type Parameters []Parameter

// NewParameter returns a new parameter of the given name and type.
func NewParameter(name string, typ ParamType) Parameter {
	return Parameter{Name: name, Type: typ}
}

// IsValid checks Parameter consistency and correctness.
func (p *Parameter) IsValid() error {
	if p.Name == "" {
		return errors.New("empty or absent name")
	}
	if p.Type == VoidType {
		return errors.New("void parameter")
	}
	if _, ok := paramTypeNames[p.Type]; !ok {
		return fmt.Errorf("unknown parameter type %d", p.Type)
	}
	return nil
}

// AreValid checks every parameter for validity and rejects duplicate names.
func (p Parameters) AreValid() error {
	for i := range p {
		if err := p[i].IsValid(); err != nil {
			return fmt.Errorf("parameter #%d/%q: %w", i, p[i].Name, err)
		}
	}
	names := make([]string, len(p))
	for i := range p {
		names[i] = p[i].Name
	}
	if stringsHaveDups(names) {
		return errors.New("duplicate parameter name")
	}
	return nil
}

func stringsHaveDups(names []string) bool {
	if len(names) < 2 {
		return false
	}
	sorted := slices.Clone(names)
	slices.SortFunc(sorted, func(a, b string) int { return cmp.Compare(a, b) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return true
		}
	}
	return false
}
