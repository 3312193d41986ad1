package nodepatch

import "fmt"

func (p *patcher) arrayAdd(arr *Array, key string, value interface{}, tokens []string) error {
	idx, err := validateIndex(key, p.kind())
	if err != nil {
		return p.malformedIndex(arr, tokens, key, err)
	}
	node := FromValue(value)
	if idx.Append {
		arr.Append(node)
		return nil
	}
	if idx.N > arr.Len() {
		return newError(IndexOutOfRange, p.op, tokens).
			token(key).node(arr).
			msgf("index %s is out of bounds for %s on array of length %d (valid: 0..%d or \"-\")",
				key, opName(p.kind()), arr.Len(), arr.Len())
	}
	if err := arr.Insert(idx.N, node); err != nil {
		return newError(InternalFault, p.op, tokens).token(key).node(arr).cause(err).msgf("%v", err)
	}
	return nil
}

func (p *patcher) arrayRemove(arr *Array, key string, tokens []string) error {
	i, err := p.arrayIndex(arr, key, tokens)
	if err != nil {
		return err
	}
	if _, err := arr.RemoveAt(i); err != nil {
		return newError(InternalFault, p.op, tokens).token(key).node(arr).cause(err).msgf("%v", err)
	}
	return nil
}

func (p *patcher) arrayReplace(arr *Array, key string, value interface{}, tokens []string) error {
	i, err := p.arrayIndex(arr, key, tokens)
	if err != nil {
		return err
	}
	if _, err := arr.ReplaceAt(i, FromValue(value)); err != nil {
		return newError(InternalFault, p.op, tokens).token(key).node(arr).cause(err).msgf("%v", err)
	}
	return nil
}

func (p *patcher) arrayRead(arr *Array, key string, tokens []string) (interface{}, error) {
	// Reads report a missing element as unresolvable, like any other
	// missing segment; only operations on the element itself report
	// IndexOutOfRange.
	if p.kind() != OpTest {
		if key == "-" {
			return nil, newError(UnresolvableSegment, p.op, tokens).
				token(key).node(arr).
				msgf("the append marker \"-\" at %s does not address an existing element", pointerString(tokens))
		}
		idx, err := validateIndex(key, p.kind())
		if err != nil {
			return nil, p.malformedIndex(arr, tokens, key, err)
		}
		node, ok := arr.At(idx.N)
		if !ok {
			return nil, newError(UnresolvableSegment, p.op, tokens).
				token(key).node(arr).
				msgf("no element at %s: array has length %d", pointerString(tokens), arr.Len())
		}
		return node.Value(), nil
	}

	i, err := p.arrayIndex(arr, key, tokens)
	if err != nil {
		return nil, err
	}
	return arr.elements[i].Value(), nil
}

// arrayIndex validates key as the index of an existing element.
func (p *patcher) arrayIndex(arr *Array, key string, tokens []string) (int, error) {
	idx, err := validateIndex(key, p.kind())
	if err != nil {
		return 0, p.malformedIndex(arr, tokens, key, err)
	}
	if idx.Append {
		// validateIndex accepts "-" for move and copy, whose source must
		// still name an existing element.
		return 0, p.malformedIndex(arr, tokens, key, errAppendMarker)
	}
	if idx.N >= arr.Len() {
		return 0, newError(IndexOutOfRange, p.op, tokens).
			token(key).node(arr).
			msgf("index %s is out of bounds for %s on array of length %d (valid: %s)",
				key, opName(p.kind()), arr.Len(), validRange(arr.Len()))
	}
	return idx.N, nil
}

func validRange(length int) string {
	if length == 0 {
		return "none, the array is empty"
	}
	return fmt.Sprintf("0..%d", length-1)
}
