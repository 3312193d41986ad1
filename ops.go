// Package nodepatch applies JSON Patch (RFC 6902) operations directly to a
// typed in-memory document tree.
//
// A tree is built from containers and leaves. An Object container stores
// either titled child nodes or a fixed set of declared fields; an Array
// container stores an ordered list of child nodes. Patches address the tree
// with JSON Pointers and every failure is reported as an *Error carrying
// enough context for a caller to correct the operation and retry.
package nodepatch

import (
	"strings"

	"github.com/hashicorp/go-multierror"
)

// OpKind is the name of a patch operation.
type OpKind string

const (
	OpAdd     OpKind = "add"
	OpRemove  OpKind = "remove"
	OpReplace OpKind = "replace"
	OpMove    OpKind = "move"
	OpCopy    OpKind = "copy"
	OpTest    OpKind = "test"
)

// Known reports whether k is one of the six supported operations.
func (k OpKind) Known() bool {
	switch k {
	case OpAdd, OpRemove, OpReplace, OpMove, OpCopy, OpTest:
		return true
	}
	return false
}

// Operation is a single requested change.
type Operation struct {
	Op    OpKind      `json:"op" yaml:"op" msgpack:"op"`
	Path  string      `json:"path" yaml:"path" msgpack:"path"`
	From  string      `json:"from,omitempty" yaml:"from,omitempty" msgpack:"from,omitempty"`
	Value interface{} `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
}

func (op Operation) needsFrom() bool {
	return op.Op == OpMove || op.Op == OpCopy
}

// Patch is an ordered batch of operations.
type Patch []Operation

// Add appends an "add" operation.
func (patch *Patch) Add(path string, value interface{}) {
	*patch = append(*patch, Operation{Op: OpAdd, Path: path, Value: value})
}

// Remove appends a "remove" operation.
func (patch *Patch) Remove(path string) {
	*patch = append(*patch, Operation{Op: OpRemove, Path: path})
}

// Replace appends a "replace" operation.
func (patch *Patch) Replace(path string, value interface{}) {
	*patch = append(*patch, Operation{Op: OpReplace, Path: path, Value: value})
}

// Move appends a "move" operation.
func (patch *Patch) Move(from, path string) {
	*patch = append(*patch, Operation{Op: OpMove, From: from, Path: path})
}

// Copy appends a "copy" operation.
func (patch *Patch) Copy(from, path string) {
	*patch = append(*patch, Operation{Op: OpCopy, From: from, Path: path})
}

// Test appends a "test" operation.
func (patch *Patch) Test(path string, value interface{}) {
	*patch = append(*patch, Operation{Op: OpTest, Path: path, Value: value})
}

// Validate checks the shape of every operation without touching a tree:
// the op must be known, paths must parse and move/copy must name a source.
// All problems are reported at once; each one is an *Error.
func (patch Patch) Validate() error {
	var result *multierror.Error
	for i := range patch {
		op := patch[i]
		if !op.Op.Known() {
			result = multierror.Append(result, newError(UnsupportedOperation, &op, nil).
				token(string(op.Op)).
				msgf("unsupported operation %q at index %d (supported: %s)", op.Op, i, supportedOps()))
			continue
		}
		tokens, err := ParsePath(op.Path)
		if err != nil {
			result = multierror.Append(result, attachOperation(err, op))
			continue
		}
		if len(tokens) == 0 {
			result = multierror.Append(result, newError(MalformedPath, &op, nil).
				msgf("operation at index %d targets the document root, which cannot be %s", i, pastTense(op.Op)))
		}
		if !op.needsFrom() {
			continue
		}
		if op.From == "" {
			result = multierror.Append(result, newError(MalformedPath, &op, nil).
				msgf("%s at index %d requires a \"from\" pointer", op.Op, i))
			continue
		}
		if _, err := ParsePath(op.From); err != nil {
			result = multierror.Append(result, attachOperation(err, op))
		}
	}
	return result.ErrorOrNil()
}

func supportedOps() string {
	return strings.Join([]string{
		string(OpAdd), string(OpRemove), string(OpReplace),
		string(OpMove), string(OpCopy), string(OpTest),
	}, ", ")
}

func pastTense(k OpKind) string {
	switch k {
	case OpAdd:
		return "added to"
	case OpRemove:
		return "removed"
	case OpReplace:
		return "replaced"
	case OpMove:
		return "moved into"
	case OpCopy:
		return "copied into"
	default:
		return "tested"
	}
}
