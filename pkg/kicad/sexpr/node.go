package sexpr

import (
	"fmt"
	"strconv"
)

// Navigation and typed-access helpers over parsed Values.

// Name returns the first atom of a list node (the node's keyword).
// For an atom it returns the atom itself.
func (v Value) Name() string {
	if !v.IsList {
		return v.Atom
	}
	if len(v.List) == 0 || v.List[0].IsList {
		return ""
	}
	return v.List[0].Atom
}

// Find returns the first child list (or atom) whose name matches key.
// Example: Find("at") locates (at 100 50) inside a parent node.
func (v Value) Find(key string) (Value, bool) {
	if !v.IsList {
		return Value{}, false
	}
	for _, child := range v.List {
		if child.Name() == key {
			return child, true
		}
	}
	return Value{}, false
}

// FindAll returns every child list whose name matches key.
func (v Value) FindAll(key string) []Value {
	var results []Value
	if !v.IsList {
		return results
	}
	for _, child := range v.List {
		if child.IsList && child.Name() == key {
			results = append(results, child)
		}
	}
	return results
}

// Has reports whether the list contains a bare atom equal to symbol.
func (v Value) Has(symbol string) bool {
	if !v.IsList {
		return false
	}
	for _, child := range v.List {
		if !child.IsList && child.Atom == symbol {
			return true
		}
	}
	return false
}

// Str extracts the atom at index. Index 0 is the keyword, 1 the first value.
func (v Value) Str(index int) (string, error) {
	if !v.IsList {
		return "", fmt.Errorf("expected list, got atom %q", v.Atom)
	}
	if index < 0 || index >= len(v.List) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(v.List))
	}
	if v.List[index].IsList {
		return "", fmt.Errorf("expected atom at index %d, got list", index)
	}
	return v.List[index].Atom, nil
}

// Int extracts an integer atom at the given index.
func (v Value) Int(index int) (int, error) {
	str, err := v.Str(index)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}
	return n, nil
}

// Float extracts a float64 atom at the given index.
func (v Value) Float(index int) (float64, error) {
	str, err := v.Str(index)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}
	return f, nil
}

// Items returns the children of a list excluding the leading keyword.
func (v Value) Items() []Value {
	if !v.IsList || len(v.List) <= 1 {
		return nil
	}
	return v.List[1:]
}
