package manifest

import "fmt"

// Event describes a single notification a contract may emit, by name and
// the types of its positional arguments.
type Event struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
}

// IsValid checks Event consistency.
func (e *Event) IsValid() error {
	if e.Name == "" {
		return fmt.Errorf("nameless event")
	}
	return Parameters(e.Parameters).AreValid()
}
