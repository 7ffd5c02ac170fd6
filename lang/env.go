package lang

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
)

// Env is the runtime state of one program run: the function table, the
// active variable table, and the current call depth.
//
// An Env is not safe for concurrent use. Use a fresh Env per run, or keep one
// across runs to share declarations, as an interactive session does.
type Env struct {
	id        uuid.UUID
	functions map[string]*function
	vars      *table
	depth     int
}

// NewEnv returns an empty Env with a new run identifier.
func NewEnv() *Env {
	return &Env{
		id:        uuid.New(),
		functions: make(map[string]*function),
		vars:      newTable(),
	}
}

// ID returns the identifier of e used to correlate log records.
func (e *Env) ID() uuid.UUID { return e.id }

// Lookup returns the value of a variable in the active table.
func (e *Env) Lookup(name string) (Value, bool) { return e.vars.get(name) }

// Variables yields the active variables in declaration order.
func (e *Env) Variables() iter.Seq2[string, Value] { return e.vars.all() }

// Functions yields the names of declared functions in sorted order.
func (e *Env) Functions() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(e.functions)))
}

// Parameters returns the parameter names of a declared function.
func (e *Env) Parameters(name string) ([]string, bool) {
	fn, ok := e.functions[name]
	if !ok {
		return nil, false
	}

	names := make([]string, len(fn.params))
	for i, p := range fn.params {
		names[i] = p.Name
	}

	return names, true
}

// Reset clears both tables. The run identifier is kept.
func (e *Env) Reset() {
	clear(e.functions)
	e.vars = newTable()
	e.depth = 0
}

// callable resolves name to a function: a function value bound to a
// variable takes precedence over the function table.
func (e *Env) callable(name string) (*function, bool) {
	if v, ok := e.vars.get(name); ok && v.kind == ValueFunction {
		return v.fn, true
	}

	fn, ok := e.functions[name]

	return fn, ok
}

// suggest returns the known name closest to name among candidates.
func suggest(name string, candidates iter.Seq[string]) (string, bool) {
	names := slices.Collect(candidates)

	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return "", false
	}

	return matches[0].Str, true
}

func (e *Env) variableNames() iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range e.vars.all() {
			if !yield(name) {
				return
			}
		}
	}
}

// function is a declared or anonymous function.
type function struct {
	name   string
	params []Param
	body   []Node
}

func (fn *function) String() string {
	var sb strings.Builder

	if fn.name == "" {
		sb.WriteString("<anonymous function(")
	} else {
		sb.WriteString("<function ")
		sb.WriteString(fn.name)
		sb.WriteString("(")
	}

	for i, p := range fn.params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(p.Name)
	}

	sb.WriteString(")>")

	return sb.String()
}

// table is a variable table that remembers declaration order, which fixes
// the order of variable substitution in arithmetic.
type table struct {
	names  []string
	values map[string]Value
}

func newTable() *table {
	return &table{values: make(map[string]Value)}
}

func (t *table) get(name string) (Value, bool) {
	v, ok := t.values[name]

	return v, ok
}

func (t *table) set(name string, v Value) {
	if _, ok := t.values[name]; !ok {
		t.names = append(t.names, name)
	}

	t.values[name] = v
}

func (t *table) all() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range t.names {
			if !yield(name, t.values[name]) {
				return
			}
		}
	}
}
