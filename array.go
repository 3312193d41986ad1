package nodepatch

import (
	"strconv"

	"github.com/pkg/errors"
)

// Array is an ordered container of child nodes addressed by index.
type Array struct {
	elements []Node
}

func NewArray(elements ...Node) *Array {
	return &Array{elements: append([]Node(nil), elements...)}
}

func (a *Array) isContainer() {}

func (a *Array) Len() int {
	return len(a.elements)
}

// At returns the element at index i.
func (a *Array) At(i int) (Node, bool) {
	if i < 0 || i >= len(a.elements) {
		return nil, false
	}
	return a.elements[i], true
}

func (a *Array) Value() interface{} {
	out := make([]interface{}, len(a.elements))
	for i, e := range a.elements {
		out[i] = e.Value()
	}
	return out
}

func (a *Array) Lookup(token string) (interface{}, bool) {
	i, err := strconv.Atoi(token)
	if err != nil {
		return nil, false
	}
	node, ok := a.At(i)
	if !ok {
		return nil, false
	}
	return node, true
}

func (a *Array) Keys() []string {
	out := make([]string, len(a.elements))
	for i := range a.elements {
		out[i] = strconv.Itoa(i)
	}
	return out
}

// Append adds node after the last element.
func (a *Array) Append(node Node) {
	a.elements = append(a.elements, node)
}

// Insert places node at index i, shifting later elements. i may equal Len.
func (a *Array) Insert(i int, node Node) error {
	if i < 0 || i > len(a.elements) {
		return errors.Errorf("insert index %d out of range [0, %d]", i, len(a.elements))
	}
	a.elements = append(a.elements, nil)
	copy(a.elements[i+1:], a.elements[i:])
	a.elements[i] = node
	return nil
}

// RemoveAt detaches and returns the element at index i.
func (a *Array) RemoveAt(i int) (Node, error) {
	if i < 0 || i >= len(a.elements) {
		return nil, errors.Errorf("remove index %d out of range [0, %d)", i, len(a.elements))
	}
	node := a.elements[i]
	a.elements = append(a.elements[:i], a.elements[i+1:]...)
	return node, nil
}

// ReplaceAt swaps the element at index i for node and returns the old one.
func (a *Array) ReplaceAt(i int, node Node) (Node, error) {
	if i < 0 || i >= len(a.elements) {
		return nil, errors.Errorf("replace index %d out of range [0, %d)", i, len(a.elements))
	}
	old := a.elements[i]
	a.elements[i] = node
	return old, nil
}
