package nodepatch

import (
	"github.com/agentflare-ai/jsonpointer"
)

// Operations on plain JSON values held by AnyType fields or leaves. The
// value is edited through JSON Pointers and the result is written back to
// its holder.

func embeddedPointer(tokens []string) string {
	return jsonpointer.Pointer(tokens).String()
}

func (e *embedded) pointer(key string) string {
	return embeddedPointer(append(append([]string(nil), e.prefix...), key))
}

func (p *patcher) embeddedParent(t target) (interface{}, error) {
	e := t.embedded
	if len(e.prefix) == 0 {
		return e.value, nil
	}
	parent, err := jsonpointer.Get(e.value, embeddedPointer(e.prefix))
	if err != nil {
		return nil, newError(UnresolvableSegment, p.op, t.tokens).
			token(e.prefix[len(e.prefix)-1]).node(e.owner).cause(err).
			msgf("no value at %s: %v", pointerString(t.tokens[:len(t.tokens)-1]), err)
	}
	return parent, nil
}

// embeddedCommit writes parent, a new version of the value at prefix, back
// into the holder.
func (p *patcher) embeddedCommit(t target, parent interface{}) error {
	e := t.embedded
	if e.set == nil {
		return p.embeddedReadOnly(t)
	}
	if len(e.prefix) == 0 {
		e.set(parent)
		return nil
	}
	root, err := jsonpointer.Set(e.value, embeddedPointer(e.prefix), parent)
	if err != nil {
		return p.embeddedFailure(t, err)
	}
	e.set(root)
	return nil
}

func (p *patcher) embeddedSet(t target, value interface{}) error {
	e := t.embedded
	if e.set == nil {
		return p.embeddedReadOnly(t)
	}
	root, err := jsonpointer.Set(e.value, e.pointer(t.key), value)
	if err != nil {
		return p.embeddedFailure(t, err)
	}
	e.set(root)
	return nil
}

func (p *patcher) embeddedAdd(t target, value interface{}) error {
	parent, err := p.embeddedParent(t)
	if err != nil {
		return err
	}
	value = plainValue(value)

	switch c := parent.(type) {
	case []interface{}:
		idx, err := validateIndex(t.key, p.kind())
		if err != nil {
			return p.malformedIndex(t.embedded.owner, t.tokens, t.key, err)
		}
		if idx.Append {
			idx.N = len(c)
		}
		if idx.N > len(c) {
			return newError(IndexOutOfRange, p.op, t.tokens).
				token(t.key).node(t.embedded.owner).
				msgf("index %s is out of bounds for %s on array of length %d (valid: 0..%d or \"-\")",
					t.key, opName(p.kind()), len(c), len(c))
		}
		out := make([]interface{}, 0, len(c)+1)
		out = append(out, c[:idx.N]...)
		out = append(out, value)
		out = append(out, c[idx.N:]...)
		return p.embeddedCommit(t, out)
	case map[string]interface{}:
		return p.embeddedSet(t, value)
	default:
		return p.embeddedNotContainer(t, parent)
	}
}

func (p *patcher) embeddedRemove(t target) error {
	parent, err := p.embeddedParent(t)
	if err != nil {
		return err
	}

	switch c := parent.(type) {
	case []interface{}:
		i, err := p.embeddedIndex(t, len(c))
		if err != nil {
			return err
		}
		out := make([]interface{}, 0, len(c)-1)
		out = append(out, c[:i]...)
		out = append(out, c[i+1:]...)
		return p.embeddedCommit(t, out)
	case map[string]interface{}:
		if _, ok := c[t.key]; !ok {
			return p.embeddedMissing(t, c)
		}
		if t.embedded.set == nil {
			return p.embeddedReadOnly(t)
		}
		root, err := jsonpointer.Remove(t.embedded.value, t.embedded.pointer(t.key))
		if err != nil {
			return p.embeddedFailure(t, err)
		}
		t.embedded.set(root)
		return nil
	default:
		return p.embeddedNotContainer(t, parent)
	}
}

func (p *patcher) embeddedReplace(t target, value interface{}) error {
	parent, err := p.embeddedParent(t)
	if err != nil {
		return err
	}
	value = plainValue(value)

	switch c := parent.(type) {
	case []interface{}:
		i, err := p.embeddedIndex(t, len(c))
		if err != nil {
			return err
		}
		out := append([]interface{}(nil), c...)
		out[i] = value
		return p.embeddedCommit(t, out)
	case map[string]interface{}:
		if _, ok := c[t.key]; !ok {
			return p.embeddedMissing(t, c)
		}
		return p.embeddedSet(t, value)
	default:
		return p.embeddedNotContainer(t, parent)
	}
}

func (p *patcher) embeddedGet(t target) (interface{}, error) {
	parent, err := p.embeddedParent(t)
	if err != nil {
		return nil, err
	}
	switch c := parent.(type) {
	case []interface{}:
		if p.kind() == OpTest {
			i, err := p.embeddedIndex(t, len(c))
			if err != nil {
				return nil, err
			}
			return c[i], nil
		}
	case map[string]interface{}:
		if _, ok := c[t.key]; !ok {
			return nil, p.embeddedMissing(t, c)
		}
	default:
		return nil, p.embeddedNotContainer(t, parent)
	}

	v, err := jsonpointer.Get(t.embedded.value, t.embedded.pointer(t.key))
	if err != nil {
		return nil, newError(UnresolvableSegment, p.op, t.tokens).
			token(t.key).node(t.embedded.owner).cause(err).
			msgf("no value at %s: %v", pointerString(t.tokens), err)
	}
	return v, nil
}

func (p *patcher) embeddedIndex(t target, length int) (int, error) {
	idx, err := validateIndex(t.key, p.kind())
	if err == nil && idx.Append {
		err = errAppendMarker
	}
	if err != nil {
		return 0, p.malformedIndex(t.embedded.owner, t.tokens, t.key, err)
	}
	if idx.N >= length {
		return 0, newError(IndexOutOfRange, p.op, t.tokens).
			token(t.key).node(t.embedded.owner).
			msgf("index %s is out of bounds for %s on array of length %d (valid: %s)",
				t.key, opName(p.kind()), length, validRange(length))
	}
	return idx.N, nil
}

func (p *patcher) embeddedMissing(t target, parent map[string]interface{}) error {
	keys := sortedKeys(parent)
	return newError(UnresolvableSegment, p.op, t.tokens).
		token(t.key).node(t.embedded.owner).available(keys).
		msgf("no member for segment %q at %s (available: %s)", t.key, pointerString(t.tokens), joinKeys(keys))
}

func (p *patcher) embeddedNotContainer(t target, parent interface{}) error {
	return newError(NonNavigableSegment, p.op, t.tokens).
		token(t.key).node(t.embedded.owner).
		msgf("cannot navigate further: %s holds a %s, which has no member %q",
			pointerString(t.tokens[:len(t.tokens)-1]), typeName(parent), t.key)
}

func (p *patcher) embeddedReadOnly(t target) error {
	return newError(NonNavigableSegment, p.op, t.tokens).
		token(t.key).node(t.embedded.owner).
		msgf("value at %s is read-only", pointerString(t.tokens[:len(t.tokens)-1]))
}

func (p *patcher) embeddedFailure(t target, err error) error {
	return newError(UnresolvableSegment, p.op, t.tokens).
		token(t.key).node(t.embedded.owner).cause(err).
		msgf("cannot update %s: %v", pointerString(t.tokens), err)
}

// plainValue turns nodes into their serialized form so that plain values
// never hold tree nodes.
func plainValue(value interface{}) interface{} {
	if node, ok := value.(Node); ok {
		return node.Value()
	}
	return deepCopy(value)
}
