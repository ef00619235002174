package domain

import "fmt"

// Workflow is a status transition table: from -> allowed targets.
type Workflow struct {
	entity string
	next   map[string][]string
}

// Allows reports whether from -> to is in the table.
func (w Workflow) Allows(from, to string) bool {
	for _, s := range w.next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Check returns ErrInvalidTransition wrapped with the offending pair.
func (w Workflow) Check(from, to string) error {
	if w.Allows(from, to) {
		return nil
	}
	if w.Terminal(from) {
		return fmt.Errorf("%w: %s is already %s", ErrInvalidTransition, w.entity, from)
	}
	return fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, w.entity, from, to)
}

// Terminal reports whether no transition leaves status.
func (w Workflow) Terminal(status string) bool {
	return len(w.next[status]) == 0
}

// Entity names the workflow in errors, events and metrics.
func (w Workflow) Entity() string { return w.entity }
