package manifest

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ABI is a contract's application binary interface: the set of methods
// callers can invoke and the events the contract may notify.
type ABI struct {
	Methods []Method `json:"methods"`
	Events  []Event  `json:"events"`
}

// GetMethod returns the method named name with the given parameter count,
// or nil if none matches. paramCount of -1 matches any arity.
func (a *ABI) GetMethod(name string, paramCount int) *Method {
	for i := range a.Methods {
		if a.Methods[i].Name == name && (paramCount == -1 || len(a.Methods[i].Parameters) == paramCount) {
			return &a.Methods[i]
		}
	}
	return nil
}

// GetEvent returns the event named name, or nil if none matches.
func (a *ABI) GetEvent(name string) *Event {
	for i := range a.Events {
		if a.Events[i].Name == name {
			return &a.Events[i]
		}
	}
	return nil
}

// IsValid checks ABI consistency and correctness.
func (a *ABI) IsValid() error {
	if len(a.Methods) == 0 {
		return errors.New("no methods")
	}
	for i := range a.Methods {
		if err := a.Methods[i].IsValid(); err != nil {
			return fmt.Errorf("method %q/%d: %w", a.Methods[i].Name, len(a.Methods[i].Parameters), err)
		}
	}
	if len(a.Methods) > 1 {
		methods := slices.Clone(a.Methods)
		slices.SortFunc(methods, func(a, b Method) int {
			if c := cmp.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return cmp.Compare(len(a.Parameters), len(b.Parameters))
		})
		for i := 1; i < len(methods); i++ {
			if methods[i].Name == methods[i-1].Name &&
				len(methods[i].Parameters) == len(methods[i-1].Parameters) {
				return errors.New("duplicate method specifications")
			}
		}
	}
	for i := range a.Events {
		if err := a.Events[i].IsValid(); err != nil {
			return fmt.Errorf("event %q: %w", a.Events[i].Name, err)
		}
	}
	names := make([]string, len(a.Events))
	for i := range a.Events {
		names[i] = a.Events[i].Name
	}
	if stringsHaveDups(names) {
		return errors.New("duplicate event names")
	}
	return nil
}
