package nodepatch

import "sort"

// Node is any element of a document tree.
type Node interface {
	// Value returns the node's serialized JSON value. The result never
	// shares mutable state with the tree.
	Value() interface{}
}

// Container is a node whose children can be addressed by a path token.
// Only *Object and *Array implement it.
type Container interface {
	Node
	// Lookup returns the child addressed by token: a Node for titled
	// children and array elements, the current value for declared fields.
	Lookup(token string) (interface{}, bool)
	// Keys lists the tokens that currently resolve.
	Keys() []string

	isContainer()
}

var (
	_ Container = (*Object)(nil)
	_ Container = (*Array)(nil)
)

// Leaf is a node holding a single value.
type Leaf struct {
	value interface{}
}

func NewLeaf(value interface{}) *Leaf {
	return &Leaf{value: value}
}

func (l *Leaf) Value() interface{} {
	return deepCopy(l.value)
}

// FromValue builds a node from a plain value: maps become child-node
// Objects, slices become Arrays and everything else a Leaf. A Node is
// returned unchanged.
func FromValue(value interface{}) Node {
	switch typed := value.(type) {
	case Node:
		return typed
	case map[string]interface{}:
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		children := make([]Child, 0, len(keys))
		for _, k := range keys {
			children = append(children, Child{Title: k, Node: FromValue(typed[k])})
		}
		return NewObject(children...)
	case []interface{}:
		elements := make([]Node, len(typed))
		for i, v := range typed {
			elements[i] = FromValue(v)
		}
		return NewArray(elements...)
	default:
		return NewLeaf(value)
	}
}
