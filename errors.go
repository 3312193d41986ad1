package nodepatch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorKind classifies an *Error. Kinds are errors themselves so callers
// can write errors.Is(err, nodepatch.IndexOutOfRange).
type ErrorKind string

const (
	// MalformedPath: the pointer cannot be used for the requested operation.
	MalformedPath ErrorKind = "MalformedPath"
	// UnresolvableSegment: no child or field matches a token.
	UnresolvableSegment ErrorKind = "UnresolvableSegment"
	// NonNavigableSegment: the path continues past a value without children.
	NonNavigableSegment ErrorKind = "NonNavigableSegment"
	// IndexOutOfRange: an array index outside the valid range.
	IndexOutOfRange ErrorKind = "IndexOutOfRange"
	// TypeMismatch: a value does not fit the declared field type.
	TypeMismatch ErrorKind = "TypeMismatch"
	// PreconditionFailed: replace of a null field, or a failed test.
	PreconditionFailed ErrorKind = "PreconditionFailed"
	// UnsupportedOperation: op is not one of the six known kinds.
	UnsupportedOperation ErrorKind = "UnsupportedOperation"
	// InternalFault: a runtime fault recovered while applying an operation.
	InternalFault ErrorKind = "InternalFault"
)

func (k ErrorKind) Error() string {
	return string(k)
}

// Error is the failure value of every patch operation. It is immutable once
// built.
type Error struct {
	kind      ErrorKind
	message   string
	operation *Operation
	path      []string
	token     string
	node      Node
	available []string
	cause     error
}

func (e *Error) Kind() ErrorKind {
	return e.kind
}

func (e *Error) Message() string {
	return e.message
}

// Operation returns the operation that failed, if known.
func (e *Error) Operation() (Operation, bool) {
	if e.operation == nil {
		return Operation{}, false
	}
	return *e.operation, true
}

// Path returns the tokens of the pointer being resolved when the error
// occurred.
func (e *Error) Path() []string {
	return append([]string(nil), e.path...)
}

// Token returns the offending key or index token.
func (e *Error) Token() string {
	return e.token
}

// Node returns the node at which resolution or mutation failed.
func (e *Error) Node() Node {
	return e.node
}

// Available lists the keys that would have resolved at the failing node.
func (e *Error) Available() []string {
	return append([]string(nil), e.available...)
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.kind))
	if e.operation != nil {
		fmt.Fprintf(&b, " (%s %s)", e.operation.Op, e.operation.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.message)
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.kind
}

// Detail renders the error as a machine-readable payload.
func (e *Error) Detail() map[string]interface{} {
	detail := map[string]interface{}{
		"kind":    string(e.kind),
		"message": e.message,
		"path":    pointerString(e.path),
		"tokens":  e.Path(),
	}
	if e.operation != nil {
		op := map[string]interface{}{
			"op":   string(e.operation.Op),
			"path": e.operation.Path,
		}
		if e.operation.From != "" {
			op["from"] = e.operation.From
		}
		if e.operation.Value != nil {
			op["value"] = e.operation.Value
		}
		detail["operation"] = op
	}
	if e.token != "" {
		detail["token"] = e.token
	}
	if e.node != nil {
		detail["node"] = describeNode(e.node)
	}
	if len(e.available) > 0 {
		detail["available"] = e.Available()
	}
	if e.cause != nil {
		detail["cause"] = e.cause.Error()
	}
	return detail
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Detail())
}

// withOperation returns a copy of e carrying op.
func (e *Error) withOperation(op Operation) *Error {
	cp := *e
	cp.operation = &op
	return &cp
}

// attachOperation returns err with op attached when err is an *Error built
// without one.
func attachOperation(err error, op Operation) error {
	if e, ok := err.(*Error); ok && e.operation == nil {
		return e.withOperation(op)
	}
	return err
}

type errorBuilder struct {
	err Error
}

func newError(kind ErrorKind, op *Operation, path []string) *errorBuilder {
	return &errorBuilder{err: Error{
		kind:      kind,
		operation: op,
		path:      append([]string(nil), path...),
	}}
}

func (b *errorBuilder) token(token string) *errorBuilder {
	b.err.token = token
	return b
}

func (b *errorBuilder) node(node Node) *errorBuilder {
	b.err.node = node
	return b
}

func (b *errorBuilder) available(keys []string) *errorBuilder {
	b.err.available = append([]string(nil), keys...)
	return b
}

func (b *errorBuilder) cause(err error) *errorBuilder {
	b.err.cause = err
	return b
}

func (b *errorBuilder) msgf(format string, args ...interface{}) *Error {
	e := b.err
	e.message = fmt.Sprintf(format, args...)
	return &e
}

func pointerString(tokens []string) string {
	if len(tokens) == 0 {
		return "/"
	}
	return "/" + strings.Join(tokens, "/")
}

func describeNode(node Node) string {
	switch n := node.(type) {
	case *Object:
		switch s := n.storage.(type) {
		case *childStorage:
			return fmt.Sprintf("object(children: %s)", strings.Join(s.titles(), ", "))
		case *fieldStorage:
			return fmt.Sprintf("object(fields: %s)", strings.Join(s.names(), ", "))
		default:
			panic("unknown object storage")
		}
	case *Array:
		return fmt.Sprintf("array(length: %d)", n.Len())
	case *Leaf:
		return fmt.Sprintf("leaf(%s)", typeName(n.value))
	default:
		return fmt.Sprintf("%T", node)
	}
}
