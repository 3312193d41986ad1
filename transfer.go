package nodepatch

import (
	"strconv"

	"github.com/mitchellh/copystructure"
	"github.com/pkg/errors"

	"github.com/sanity-io/nodepatch/internal/canonical"
)

// GetValueAtPath returns the serialized value at path. The result is a deep
// copy: changing it never changes the tree. "/" returns the whole document.
func GetValueAtPath(root Container, path string) (interface{}, error) {
	p := &patcher{options: &DefaultOptions, root: root}
	if root == nil {
		return nil, newError(InternalFault, nil, nil).msgf("no document root to read %s from", path)
	}
	tokens, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return p.valueAt(tokens)
}

// RemoveValueAtPath removes the value at path from its parent container,
// following the same rules as a "remove" operation.
func RemoveValueAtPath(root Container, path string) error {
	p := &patcher{options: &DefaultOptions, root: root, action: OpRemove}
	if root == nil {
		return newError(InternalFault, nil, nil).msgf("no document root to remove %s from", path)
	}
	tokens, err := ParsePath(path)
	if err != nil {
		return err
	}
	t, err := p.resolve(tokens, false)
	if err != nil {
		return err
	}
	return p.remove(t)
}

func (p *patcher) valueAt(tokens []string) (interface{}, error) {
	var v interface{}
	if len(tokens) == 0 {
		v = p.root.Value()
	} else {
		t, err := p.resolve(tokens, false)
		if err != nil {
			return nil, err
		}
		if v, err = p.read(t); err != nil {
			return nil, err
		}
	}
	c, err := copyValue(v)
	if err != nil {
		return nil, newError(InternalFault, p.op, tokens).
			node(p.root).cause(err).
			msgf("cannot copy the value at %s: %v", pointerString(tokens), err)
	}
	return c, nil
}

// transfer applies move and copy. The source may be anywhere in the tree.
// A move adds at path first and removes the source only once the add has
// succeeded, so a rejected destination leaves the source in place.
func (p *patcher) transfer(tokens []string) error {
	op := p.op
	if op.From == "" {
		return newError(MalformedPath, op, tokens).
			msgf("%s requires a \"from\" pointer", op.Op)
	}
	from, err := ParsePath(op.From)
	if err != nil {
		return err
	}

	same := len(from) == len(tokens) && hasPrefix(tokens, from)
	if op.Op == OpMove && !same && hasPrefix(tokens, from) {
		return newError(MalformedPath, op, tokens).
			token(op.From).
			msgf("cannot move %s into its own descendant %s", op.From, op.Path)
	}

	value, err := p.valueAt(from)
	if err != nil {
		return err
	}
	if op.Op == OpMove && same {
		return nil
	}

	dest, err := p.resolve(tokens, true)
	if err != nil {
		return err
	}
	if op.Op == OpCopy {
		return p.add(dest, value)
	}

	source := from
	parent := len(tokens) - 1
	length, isArray := p.destArray(dest)
	switch {
	case isArray && len(from) > parent && hasPrefix(from, tokens[:parent]):
		if dest, source, err = p.shiftForInsert(dest, from, length); err != nil {
			return err
		}
	case hasPrefix(from, tokens):
		// The add replaces an ancestor of the source, which goes with it.
		return p.add(dest, value)
	}

	if err := p.add(dest, value); err != nil {
		return err
	}
	src, err := p.resolve(source, false)
	if err != nil {
		return err
	}
	return p.remove(src)
}

// destArray reports whether t inserts into an array, and its length.
func (p *patcher) destArray(t target) (int, bool) {
	if t.embedded != nil {
		parent, err := p.embeddedParent(t)
		if err != nil {
			return 0, false
		}
		c, ok := parent.([]interface{})
		return len(c), ok
	}
	if arr, ok := t.container.(*Array); ok {
		return arr.Len(), true
	}
	return 0, false
}

// shiftForInsert adjusts a move whose destination inserts into an array on
// the path of the source. The source index moves up by one when the insert
// lands at or before it. Within a single array the destination index counts
// positions after the source is taken out, as if the source were removed
// first.
func (p *patcher) shiftForInsert(dest target, from []string, length int) (target, []string, error) {
	n := len(dest.tokens) - 1
	idx, err := validateIndex(dest.key, p.kind())
	if err != nil || idx.Append {
		return dest, from, nil
	}
	src, err := validateIndex(from[n], OpRemove)
	if err != nil {
		return dest, from, nil
	}

	source := append([]string(nil), from...)
	if len(from) == len(dest.tokens) {
		if idx.N >= length {
			node := Node(dest.container)
			if dest.embedded != nil {
				node = dest.embedded.owner
			}
			return dest, from, newError(IndexOutOfRange, p.op, dest.tokens).
				token(dest.key).node(node).
				msgf("index %s is out of bounds for move within an array of length %d (valid: 0..%d or \"-\")",
					dest.key, length, length-1)
		}
		if idx.N > src.N {
			dest.key = strconv.Itoa(idx.N + 1)
			return dest, source, nil
		}
	}
	if idx.N <= src.N {
		source[n] = strconv.Itoa(src.N + 1)
	}
	return dest, source, nil
}

// copyValue returns a copy of v that shares no maps or slices with it.
func copyValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	c, err := copystructure.Copy(v)
	if err == nil {
		return c, nil
	}
	// copystructure fails on values it cannot walk; a canonical JSON round
	// trip still yields an independent plain value.
	n, nerr := canonical.Normalize(v)
	if nerr != nil {
		return nil, errors.Wrapf(err, "cannot copy %T", v)
	}
	return n, nil
}

// deepCopy is copyValue for values already held by the tree. Operations
// recover the panic as an InternalFault.
func deepCopy(v interface{}) interface{} {
	c, err := copyValue(v)
	if err != nil {
		panic(err)
	}
	return c
}
