package nodepatch

import (
	"sort"
	"strings"
)

// ParsePath splits a JSON Pointer into its tokens. "/" and "" address the
// root and give no tokens. Tokens are used verbatim: "~0" and "~1" are not
// decoded, so keys containing "/" or "~" cannot be addressed.
func ParsePath(pointer string) ([]string, error) {
	if pointer == "" || pointer == "/" {
		return []string{}, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, newError(MalformedPath, nil, nil).
			token(pointer).
			msgf("pointer %q must start with \"/\"", pointer)
	}
	return strings.Split(pointer[1:], "/"), nil
}

// target is the location an operation acts on: a key in a container, or a
// key inside a plain JSON value held by a field or leaf.
type target struct {
	container Container
	embedded  *embedded
	key       string
	tokens    []string
}

// embedded is a plain JSON structure (map[string]interface{} or
// []interface{}) reached through a field or leaf.
type embedded struct {
	owner  Node
	value  interface{}
	set    func(interface{})
	prefix []string
}

// step is the result of descending one token.
type step struct {
	value interface{}
	node  Node
	set   func(interface{})
}

// resolve walks every token but the last and returns the parent of the
// final key. With create set, empty object fields on the way are
// instantiated from their prototype and recorded in p.created.
func (p *patcher) resolve(tokens []string, create bool) (target, error) {
	if len(tokens) == 0 {
		return target{}, newError(MalformedPath, p.op, tokens).
			node(p.root).
			msgf("the document root cannot be %s; address a child such as /<key>", pastTense(p.kind()))
	}

	var current Container = p.root
	last := len(tokens) - 1
	for i := 0; i < last; i++ {
		st, err := p.descend(current, tokens, i, create)
		if err != nil {
			return target{}, err
		}

		switch v := st.value.(type) {
		case Container:
			current = v
		case map[string]interface{}, []interface{}:
			return target{
				embedded: &embedded{
					owner:  st.node,
					value:  v,
					set:    st.set,
					prefix: append([]string(nil), tokens[i+1:last]...),
				},
				key:    tokens[last],
				tokens: tokens,
			}, nil
		default:
			return target{}, newError(NonNavigableSegment, p.op, tokens).
				token(tokens[i+1]).
				node(st.node).
				msgf("cannot navigate further: %s holds a %s, which has no child %q",
					pointerString(tokens[:i+1]), typeName(v), tokens[i+1])
		}
	}

	return target{container: current, key: tokens[last], tokens: tokens}, nil
}

// descend looks up tokens[i] in c.
func (p *patcher) descend(c Container, tokens []string, i int, create bool) (step, error) {
	token := tokens[i]
	switch c := c.(type) {
	case *Object:
		switch s := c.storage.(type) {
		case *childStorage:
			node, ok := s.find(token)
			if !ok {
				return step{}, p.missingKey(c, s.titles(), tokens, i, "child")
			}
			return nodeStep(node), nil
		case *fieldStorage:
			f, ok := s.find(token)
			if !ok {
				return step{}, p.missingKey(c, s.names(), tokens, i, "field")
			}
			if f.Type == ObjectType && f.value == nil && create {
				f.value = f.instantiate()
				p.created = append(p.created, f)
			}
			if obj, ok := f.value.(*Object); ok {
				return step{value: obj}, nil
			}
			return step{
				value: f.value,
				node:  c,
				set:   func(v interface{}) { f.value = v },
			}, nil
		default:
			panic("unknown object storage")
		}
	case *Array:
		if token == "-" {
			return step{}, newError(UnresolvableSegment, p.op, tokens).
				token(token).node(c).
				msgf("the append marker \"-\" at %s does not address an existing element", pointerString(tokens[:i+1]))
		}
		idx, err := validateIndex(token, p.kind())
		if err != nil {
			return step{}, p.malformedIndex(c, tokens, token, err)
		}
		node, ok := c.At(idx.N)
		if !ok {
			return step{}, newError(UnresolvableSegment, p.op, tokens).
				token(token).node(c).
				msgf("no element at %s: array has length %d", pointerString(tokens[:i+1]), c.Len())
		}
		return nodeStep(node), nil
	default:
		return step{}, newError(InternalFault, p.op, tokens).
			token(token).
			msgf("unsupported container %T", c)
	}
}

func nodeStep(node Node) step {
	switch n := node.(type) {
	case Container:
		return step{value: n}
	case *Leaf:
		return step{value: n.value, node: n, set: func(v interface{}) { n.value = v }}
	default:
		return step{value: n.Value(), node: n}
	}
}

func (p *patcher) missingKey(c Container, keys []string, tokens []string, i int, what string) error {
	return newError(UnresolvableSegment, p.op, tokens).
		token(tokens[i]).
		node(c).
		available(keys).
		msgf("no %s for segment %q at %s (available: %s)", what, tokens[i], pointerString(tokens[:i+1]), joinKeys(keys))
}

func joinKeys(keys []string) string {
	if len(keys) == 0 {
		return "none"
	}
	return strings.Join(keys, ", ")
}

func hasPrefix(tokens, prefix []string) bool {
	if len(prefix) > len(tokens) {
		return false
	}
	for i := range prefix {
		if tokens[i] != prefix[i] {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
