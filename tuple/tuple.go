// Package tuple provides flat n-tuples of float64 variables and their
// persistence as ROOT trees.
package tuple

import (
	"errors"
	"fmt"
)

// Default is the value a variable holds until it is filled.
const Default = -99.

var (
	ErrUnknownVar = errors.New("tuple: unknown variable")
	ErrAttached   = errors.New("tuple: already attached")
	ErrFilled     = errors.New("tuple: rows committed before attaching")
)

type rowWriter interface {
	Write() (int, error)
	Close() error
}

// Tuple is a row-wise table of named float64 variables. Variables are
// declared up front, filled one by one and written with Commit.
type Tuple struct {
	name  string
	title string

	vars   []string
	index  map[string]int
	values []float64

	w    rowWriter
	mem  [][]float64
	rows int
}

func New(name, title string, vars ...string) *Tuple {
	t := &Tuple{
		name:  name,
		title: title,
		index: make(map[string]int, len(vars)),
	}
	for _, v := range vars {
		t.Var(v)
	}
	return t
}

// Var declares a variable. Declaring an existing name is a no-op.
// Variables cannot be added once the tuple is attached to a file.
func (t *Tuple) Var(name string) {
	if _, ok := t.index[name]; ok || t.w != nil {
		return
	}
	t.index[name] = len(t.vars)
	t.vars = append(t.vars, name)
	t.values = append(t.values, Default)
}

func (t *Tuple) Name() string   { return t.name }
func (t *Tuple) Title() string  { return t.title }
func (t *Tuple) Vars() []string { return t.vars }
func (t *Tuple) Rows() int      { return t.rows }

func (t *Tuple) Fill(name string, v float64) error {
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("%w %q in %s", ErrUnknownVar, name, t.name)
	}
	t.values[i] = v
	return nil
}

// Get returns the current, not yet committed, value of a variable.
func (t *Tuple) Get(name string) (float64, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.values[i], true
}

// Commit writes the current row and resets every variable to Default.
// Rows of tuples not attached to a file are kept in memory.
func (t *Tuple) Commit() error {
	if t.w != nil {
		if _, err := t.w.Write(); err != nil {
			return fmt.Errorf("tuple: writing %s: %w", t.name, err)
		}
	} else {
		t.mem = append(t.mem, t.Values())
	}
	t.rows++
	for i := range t.values {
		t.values[i] = Default
	}
	return nil
}

// Values returns a copy of the current row.
func (t *Tuple) Values() []float64 {
	return append([]float64(nil), t.values...)
}

// Row returns the i-th row kept in memory as a map keyed by variable.
func (t *Tuple) Row(i int) map[string]float64 {
	if i < 0 || i >= len(t.mem) {
		return nil
	}
	row := make(map[string]float64, len(t.vars))
	for j, name := range t.vars {
		row[name] = t.mem[i][j]
	}
	return row
}

func (t *Tuple) canAttach() error {
	switch {
	case t.w != nil:
		return fmt.Errorf("%w: %s", ErrAttached, t.name)
	case t.rows > 0:
		return fmt.Errorf("%w: %s", ErrFilled, t.name)
	}
	return nil
}

func (t *Tuple) close() error {
	if t.w == nil {
		return nil
	}
	w := t.w
	t.w = nil
	return w.Close()
}
