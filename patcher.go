package nodepatch

import (
	"go.uber.org/zap"
)

type patcher struct {
	options *Options
	root    Container
	// op is nil when the patcher serves a direct call such as
	// RemoveValueAtPath; action then names what is being done.
	op     *Operation
	action OpKind
	// created lists the object fields instantiated while resolving the
	// destination; they are cleared again when the operation fails.
	created []*Field
}

func (p *patcher) discardCreated() {
	for i := len(p.created) - 1; i >= 0; i-- {
		p.created[i].value = nil
	}
	p.created = nil
}

func (p *patcher) kind() OpKind {
	return p.action
}

// Apply applies a patch to a document tree in place, using the default
// options.
//
// Operations are applied in order and each one commits on its own: when an
// operation fails, Apply returns its *Error and the operations before it
// stay applied.
func Apply(root Container, patch Patch) error {
	return DefaultOptions.Apply(root, patch)
}

// Apply applies a patch to a document tree in place. See Apply.
func (options *Options) Apply(root Container, patch Patch) error {
	log := options.log()
	for i, op := range patch {
		log.Debug("applying operation",
			zap.Int("index", i),
			zap.String("op", string(op.Op)),
			zap.String("path", op.Path),
			zap.String("from", op.From))

		if err := options.ApplyOperation(root, op); err != nil {
			log.Debug("operation failed", zap.Int("index", i), zap.Error(err))
			return err
		}
	}
	log.Debug("patch applied", zap.Int("operations", len(patch)))
	return nil
}

// ApplyOperation applies a single operation. Every failure, including a
// recovered runtime fault, is returned as an *Error naming op.
func (options *Options) ApplyOperation(root Container, op Operation) (err error) {
	p := &patcher{options: options, root: root, op: &op, action: op.Op}

	defer func() {
		if r := recover(); r != nil {
			p.discardCreated()
			err = newError(InternalFault, &op, nil).
				msgf("runtime fault while applying %s %s: %v", op.Op, op.Path, r)
		}
	}()

	if root == nil {
		return newError(InternalFault, &op, nil).msgf("no document root to apply %s to", op.Op)
	}

	if err := p.apply(); err != nil {
		p.discardCreated()
		if e, ok := err.(*Error); ok {
			return attachOperation(e, op)
		}
		return newError(InternalFault, &op, nil).cause(err).msgf("%v", err)
	}
	return nil
}

func (p *patcher) apply() error {
	op := p.op
	if !op.Op.Known() {
		return newError(UnsupportedOperation, op, nil).
			token(string(op.Op)).
			msgf("unsupported operation %q (supported: %s)", op.Op, supportedOps())
	}

	tokens, err := ParsePath(op.Path)
	if err != nil {
		return err
	}

	switch op.Op {
	case OpMove, OpCopy:
		return p.transfer(tokens)
	}

	t, err := p.resolve(tokens, op.Op == OpAdd)
	if err != nil {
		return err
	}

	value := p.options.convert(op.Value)
	switch op.Op {
	case OpAdd:
		return p.add(t, value)
	case OpRemove:
		return p.remove(t)
	case OpReplace:
		return p.replace(t, value)
	default:
		return p.test(t, value)
	}
}

func (p *patcher) add(t target, value interface{}) error {
	if t.embedded != nil {
		return p.embeddedAdd(t, value)
	}
	switch c := t.container.(type) {
	case *Object:
		return p.objectAdd(c, t.key, value, t.tokens)
	case *Array:
		return p.arrayAdd(c, t.key, value, t.tokens)
	default:
		return p.unknownContainer(t)
	}
}

func (p *patcher) remove(t target) error {
	if t.embedded != nil {
		return p.embeddedRemove(t)
	}
	switch c := t.container.(type) {
	case *Object:
		return p.objectRemove(c, t.key, t.tokens)
	case *Array:
		return p.arrayRemove(c, t.key, t.tokens)
	default:
		return p.unknownContainer(t)
	}
}

func (p *patcher) replace(t target, value interface{}) error {
	if t.embedded != nil {
		return p.embeddedReplace(t, value)
	}
	switch c := t.container.(type) {
	case *Object:
		return p.objectReplace(c, t.key, value, t.tokens)
	case *Array:
		return p.arrayReplace(c, t.key, value, t.tokens)
	default:
		return p.unknownContainer(t)
	}
}

func (p *patcher) test(t target, expected interface{}) error {
	actual, err := p.read(t)
	if err != nil {
		return err
	}
	node := Node(t.container)
	if t.embedded != nil {
		node = t.embedded.owner
	}
	return p.compare(actual, expected, t.tokens, t.key, node)
}

// read returns the serialized value at t.
func (p *patcher) read(t target) (interface{}, error) {
	if t.embedded != nil {
		return p.embeddedGet(t)
	}
	switch c := t.container.(type) {
	case *Object:
		return p.objectRead(c, t.key, t.tokens)
	case *Array:
		return p.arrayRead(c, t.key, t.tokens)
	default:
		return nil, p.unknownContainer(t)
	}
}

func (p *patcher) unknownContainer(t target) error {
	return newError(InternalFault, p.op, t.tokens).
		token(t.key).
		msgf("unsupported container %T", t.container)
}
