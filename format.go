package nodepatch

import (
	"io"

	"github.com/pkg/errors"
)

// Writer is an interface for writing values. This can be used for supporting a custom serialization format.
type Writer interface {
	WriteUint8(v uint8) error
	WriteString(v string) error
	WriteValue(v interface{}) error
}

// Reader is an interface for reading values. This can be used for supporting a custom serialization format.
//
// ReadUint8 must return io.EOF when there are no more operations.
type Reader interface {
	ReadUint8() (uint8, error)
	ReadString() (string, error)
	ReadValue() (interface{}, error)
}

// Every operation is written as its code followed by its path. Move and
// copy are followed by their source, add, replace and test by their value.
const (
	codeAdd uint8 = iota
	codeRemove
	codeReplace
	codeMove
	codeCopy
	codeTest
)

var opCodes = map[OpKind]uint8{
	OpAdd:     codeAdd,
	OpRemove:  codeRemove,
	OpReplace: codeReplace,
	OpMove:    codeMove,
	OpCopy:    codeCopy,
	OpTest:    codeTest,
}

var codeOps = []OpKind{OpAdd, OpRemove, OpReplace, OpMove, OpCopy, OpTest}

// ReadFrom reads a single operation.
func ReadFrom(r Reader) (Operation, error) {
	code, err := r.ReadUint8()
	if err != nil {
		return Operation{}, err
	}
	if int(code) >= len(codeOps) {
		return Operation{}, errors.Errorf("unknown operation code: %d", code)
	}

	op := Operation{Op: codeOps[code]}
	if op.Path, err = r.ReadString(); err != nil {
		return Operation{}, errors.Wrapf(err, "reading path of %s", op.Op)
	}

	switch op.Op {
	case OpMove, OpCopy:
		if op.From, err = r.ReadString(); err != nil {
			return Operation{}, errors.Wrapf(err, "reading source of %s", op.Op)
		}
	case OpAdd, OpReplace, OpTest:
		if op.Value, err = r.ReadValue(); err != nil {
			return Operation{}, errors.Wrapf(err, "reading value of %s", op.Op)
		}
	}
	return op, nil
}

// WriteTo writes a single operation to a writer.
func WriteTo(w Writer, op Operation) error {
	code, ok := opCodes[op.Op]
	if !ok {
		return newError(UnsupportedOperation, &op, nil).
			token(string(op.Op)).
			msgf("cannot encode unsupported operation %q (supported: %s)", op.Op, supportedOps())
	}
	if err := w.WriteUint8(code); err != nil {
		return err
	}
	if err := w.WriteString(op.Path); err != nil {
		return err
	}

	switch op.Op {
	case OpMove, OpCopy:
		return w.WriteString(op.From)
	case OpAdd, OpReplace, OpTest:
		return w.WriteValue(op.Value)
	}
	return nil
}

// WriteTo writes a patch to a writer.
func (patch Patch) WriteTo(w Writer) error {
	for i, op := range patch {
		if err := WriteTo(w, op); err != nil {
			return errors.Wrapf(err, "writing operation %d", i)
		}
	}
	return nil
}

// ReadFrom reads operations until the reader is exhausted and appends them
// to the patch.
func (patch *Patch) ReadFrom(r Reader) error {
	for {
		op, err := ReadFrom(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "reading operation %d", len(*patch))
		}
		*patch = append(*patch, op)
	}
}
