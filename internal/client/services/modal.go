package services

import "fmt"

// Modal is the state of the single create/edit form: Closed, Creating or
// Editing. Only these three types implement it.
type Modal interface {
	isModal()
	fmt.Stringer
}

type Closed struct{}

type Creating struct{}

// Editing targets an existing task.
type Editing struct {
	ID int64
}

func (Closed) isModal()   {}
func (Creating) isModal() {}
func (Editing) isModal()  {}

func (Closed) String() string   { return "closed" }
func (Creating) String() string { return "creating" }
func (m Editing) String() string {
	return fmt.Sprintf("editing #%d", m.ID)
}

// IsOpen reports whether m is Creating or Editing.
func IsOpen(m Modal) bool {
	_, closed := m.(Closed)
	return !closed
}
