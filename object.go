package nodepatch

import (
	"github.com/pkg/errors"
)

// Mode is the storage mode of an Object, fixed at construction.
type Mode int

const (
	// ChildMode objects hold full child nodes addressed by title.
	ChildMode Mode = iota
	// FieldMode objects hold a fixed set of declared fields.
	FieldMode
)

func (m Mode) String() string {
	if m == FieldMode {
		return "field"
	}
	return "child"
}

// Object is a keyed container in either child-node mode or field mode.
type Object struct {
	storage objectStorage
}

//go-sumtype:decl objectStorage

type objectStorage interface {
	isObjectStorage()
}

type childEntry struct {
	title string
	node  Node
}

type childStorage struct {
	entries []childEntry
}

type fieldStorage struct {
	fields []*Field
}

func (*childStorage) isObjectStorage() {}
func (*fieldStorage) isObjectStorage() {}

// Child pairs a title with a node for NewObject.
type Child struct {
	Title string
	Node  Node
}

// NewObject creates an Object in child-node mode.
func NewObject(children ...Child) *Object {
	s := &childStorage{}
	for _, c := range children {
		s.attach(c.Title, c.Node)
	}
	return &Object{storage: s}
}

// NewFieldObject creates an Object in field mode. Each field starts at its
// default, or null when it is nullable. Object fields start null and are
// instantiated on first write.
func NewFieldObject(fields ...*Field) *Object {
	s := &fieldStorage{fields: make([]*Field, 0, len(fields))}
	for _, f := range fields {
		f.init()
		s.fields = append(s.fields, f)
	}
	return &Object{storage: s}
}

func (o *Object) isContainer() {}

func (o *Object) Mode() Mode {
	switch o.storage.(type) {
	case *childStorage:
		return ChildMode
	case *fieldStorage:
		return FieldMode
	default:
		panic("unknown object storage")
	}
}

func (o *Object) Value() interface{} {
	out := map[string]interface{}{}
	switch s := o.storage.(type) {
	case *childStorage:
		for _, e := range s.entries {
			out[e.title] = e.node.Value()
		}
	case *fieldStorage:
		for _, f := range s.fields {
			out[f.Name] = f.serialized()
		}
	default:
		panic("unknown object storage")
	}
	return out
}

func (o *Object) Lookup(token string) (interface{}, bool) {
	switch s := o.storage.(type) {
	case *childStorage:
		node, ok := s.find(token)
		if !ok {
			return nil, false
		}
		return node, true
	case *fieldStorage:
		f, ok := s.find(token)
		if !ok {
			return nil, false
		}
		return f.value, true
	default:
		panic("unknown object storage")
	}
}

func (o *Object) Keys() []string {
	switch s := o.storage.(type) {
	case *childStorage:
		return s.titles()
	case *fieldStorage:
		return s.names()
	default:
		panic("unknown object storage")
	}
}

// Child returns the titled child of a child-node mode object.
func (o *Object) Child(title string) (Node, bool) {
	if s, ok := o.storage.(*childStorage); ok {
		return s.find(title)
	}
	return nil, false
}

// Field returns the declared field of a field mode object.
func (o *Object) Field(name string) (*Field, bool) {
	if s, ok := o.storage.(*fieldStorage); ok {
		return s.find(name)
	}
	return nil, false
}

// Fields returns the declared fields in declaration order.
func (o *Object) Fields() []*Field {
	if s, ok := o.storage.(*fieldStorage); ok {
		return append([]*Field(nil), s.fields...)
	}
	return nil
}

var errWrongMode = errors.New("operation not supported by this object mode")

// Attach adds a titled child, replacing any child with the same title.
func (o *Object) Attach(title string, node Node) error {
	s, ok := o.storage.(*childStorage)
	if !ok {
		return errors.Wrapf(errWrongMode, "attach %q to %s mode object", title, o.Mode())
	}
	s.attach(title, node)
	return nil
}

// Detach removes and returns the child with the given title.
func (o *Object) Detach(title string) (Node, error) {
	s, ok := o.storage.(*childStorage)
	if !ok {
		return nil, errors.Wrapf(errWrongMode, "detach %q from %s mode object", title, o.Mode())
	}
	node, ok := s.detach(title)
	if !ok {
		return nil, errors.Errorf("no child titled %q", title)
	}
	return node, nil
}

// SetField sets a declared field, applying the same type checks, coercions
// and nested-object handling as a patch operation.
func (o *Object) SetField(name string, value interface{}) error {
	s, ok := o.storage.(*fieldStorage)
	if !ok {
		return errors.Wrapf(errWrongMode, "set field %q on %s mode object", name, o.Mode())
	}
	f, ok := s.find(name)
	if !ok {
		return newError(UnresolvableSegment, nil, []string{name}).
			token(name).node(o).available(s.names()).
			msgf("no field %q (available fields: %s)", name, joinKeys(s.names()))
	}
	p := &patcher{options: &DefaultOptions, action: OpReplace}
	return p.setFieldValue(o, f, DefaultOptions.convert(value), []string{name})
}

// ResetField sets a declared field back to null when it is nullable,
// otherwise to its default.
func (o *Object) ResetField(name string) error {
	f, ok := o.Field(name)
	if !ok {
		return errors.Errorf("no field %q", name)
	}
	f.reset()
	return nil
}

func (s *childStorage) find(title string) (Node, bool) {
	if i := s.indexOf(title); i >= 0 {
		return s.entries[i].node, true
	}
	return nil, false
}

func (s *childStorage) indexOf(title string) int {
	for i, e := range s.entries {
		if e.title == title {
			return i
		}
	}
	return -1
}

func (s *childStorage) attach(title string, node Node) {
	if i := s.indexOf(title); i >= 0 {
		s.entries[i].node = node
		return
	}
	s.entries = append(s.entries, childEntry{title: title, node: node})
}

func (s *childStorage) detach(title string) (Node, bool) {
	i := s.indexOf(title)
	if i < 0 {
		return nil, false
	}
	node := s.entries[i].node
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return node, true
}

func (s *childStorage) titles() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.title
	}
	return out
}

func (s *fieldStorage) find(name string) (*Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (s *fieldStorage) names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}
