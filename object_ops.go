package nodepatch

import (
	"sort"

	"github.com/sanity-io/nodepatch/internal/canonical"
)

func (p *patcher) objectAdd(obj *Object, key string, value interface{}, tokens []string) error {
	switch s := obj.storage.(type) {
	case *childStorage:
		s.attach(key, FromValue(value))
		return nil
	case *fieldStorage:
		f, ok := s.find(key)
		if !ok {
			return p.missingField(obj, s, key, tokens)
		}
		return p.setFieldValue(obj, f, value, tokens)
	default:
		panic("unknown object storage")
	}
}

func (p *patcher) objectRemove(obj *Object, key string, tokens []string) error {
	switch s := obj.storage.(type) {
	case *childStorage:
		if _, ok := s.detach(key); !ok {
			return p.missingChild(obj, s, key, tokens)
		}
		return nil
	case *fieldStorage:
		f, ok := s.find(key)
		if !ok {
			return p.missingField(obj, s, key, tokens)
		}
		f.reset()
		return nil
	default:
		panic("unknown object storage")
	}
}

func (p *patcher) objectReplace(obj *Object, key string, value interface{}, tokens []string) error {
	switch s := obj.storage.(type) {
	case *childStorage:
		i := s.indexOf(key)
		if i < 0 {
			return p.missingChild(obj, s, key, tokens)
		}
		s.entries[i].node = FromValue(value)
		return nil
	case *fieldStorage:
		f, ok := s.find(key)
		if !ok {
			return p.missingField(obj, s, key, tokens)
		}
		if f.IsNull() {
			return newError(PreconditionFailed, p.op, tokens).
				token(key).node(obj).
				msgf("field %q at %s is null and cannot be replaced; use add to set it", key, pointerString(tokens))
		}
		return p.setFieldValue(obj, f, value, tokens)
	default:
		panic("unknown object storage")
	}
}

func (p *patcher) objectRead(obj *Object, key string, tokens []string) (interface{}, error) {
	switch s := obj.storage.(type) {
	case *childStorage:
		node, ok := s.find(key)
		if !ok {
			return nil, p.missingChild(obj, s, key, tokens)
		}
		return node.Value(), nil
	case *fieldStorage:
		f, ok := s.find(key)
		if !ok {
			return nil, p.missingField(obj, s, key, tokens)
		}
		return f.serialized(), nil
	default:
		panic("unknown object storage")
	}
}

// setFieldValue stores value in f, a field of obj, after type checking.
// Nested objects that already exist are updated key by key rather than
// replaced.
func (p *patcher) setFieldValue(obj *Object, f *Field, value interface{}, tokens []string) error {
	if f.Type == ObjectType {
		return p.setObjectField(obj, f, value, tokens)
	}

	if node, ok := value.(Node); ok {
		value = node.Value()
	}
	if value == nil {
		if f.Nullable {
			f.value = nil
		} else {
			f.value = deepCopy(f.Default)
		}
		return nil
	}

	coerced, ok := coerce(f.Type, value)
	if !ok {
		return newError(TypeMismatch, p.op, tokens).
			token(f.Name).node(obj).
			msgf("field %q at %s is declared %s but the value is %s", f.Name, pointerString(tokens), f.Type, typeName(value))
	}
	f.value = coerced
	return nil
}

func (p *patcher) setObjectField(obj *Object, f *Field, value interface{}, tokens []string) error {
	switch v := value.(type) {
	case nil:
		f.reset()
		return nil
	case *Object:
		f.value = v
		return nil
	case map[string]interface{}:
		if child, ok := f.value.(*Object); ok {
			restore := snapshot(child)
			if err := p.populate(child, v, tokens); err != nil {
				restore()
				return err
			}
			return nil
		}
		child := f.instantiate()
		if err := p.populate(child, v, tokens); err != nil {
			return err
		}
		f.value = child
		return nil
	default:
		return newError(TypeMismatch, p.op, tokens).
			token(f.Name).node(obj).
			msgf("field %q at %s is declared object but the value is %s", f.Name, pointerString(tokens), typeName(value))
	}
}

// populate adds every member of value to obj, in key order.
func (p *patcher) populate(obj *Object, value map[string]interface{}, tokens []string) error {
	keys := make([]string, 0, len(value))
	for k := range value {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		childTokens := append(append([]string(nil), tokens...), k)
		if err := p.objectAdd(obj, k, value[k], childTokens); err != nil {
			return err
		}
	}
	return nil
}

// snapshot records the members of obj and of the field mode objects nested
// in it. The returned func puts them back.
func snapshot(obj *Object) func() {
	switch s := obj.storage.(type) {
	case *childStorage:
		entries := append([]childEntry(nil), s.entries...)
		return func() { s.entries = entries }
	case *fieldStorage:
		values := make([]interface{}, len(s.fields))
		var nested []func()
		for i, f := range s.fields {
			values[i] = f.value
			if child, ok := f.value.(*Object); ok {
				nested = append(nested, snapshot(child))
			}
		}
		return func() {
			for i, f := range s.fields {
				f.value = values[i]
			}
			for _, restore := range nested {
				restore()
			}
		}
	default:
		panic("unknown object storage")
	}
}

func (p *patcher) compare(actual, expected interface{}, tokens []string, key string, node Node) error {
	if _, err := canonical.Marshal(expected); err != nil {
		return newError(TypeMismatch, p.op, tokens).
			token(key).node(node).cause(err).
			msgf("test value for %s cannot be represented as JSON: %v", pointerString(tokens), err)
	}
	equal, err := canonical.Equal(actual, expected)
	if err != nil {
		return newError(InternalFault, p.op, tokens).
			token(key).node(node).cause(err).
			msgf("value at %s cannot be represented as JSON: %v", pointerString(tokens), err)
	}
	if !equal {
		want, _ := canonical.Marshal(expected)
		got, _ := canonical.Marshal(actual)
		return newError(PreconditionFailed, p.op, tokens).
			token(key).node(node).
			msgf("test failed at %s: expected %s, found %s", pointerString(tokens), want, got)
	}
	return nil
}

func (p *patcher) missingChild(obj *Object, s *childStorage, key string, tokens []string) error {
	return newError(UnresolvableSegment, p.op, tokens).
		token(key).node(obj).available(s.titles()).
		msgf("no child for segment %q at %s (available children: %s)", key, pointerString(tokens), joinKeys(s.titles()))
}

func (p *patcher) missingField(obj *Object, s *fieldStorage, key string, tokens []string) error {
	return newError(UnresolvableSegment, p.op, tokens).
		token(key).node(obj).available(s.names()).
		msgf("no field for segment %q at %s (available fields: %s)", key, pointerString(tokens), joinKeys(s.names()))
}
