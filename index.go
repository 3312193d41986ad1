package nodepatch

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var errAppendMarker = errors.New("the append marker \"-\" does not address an existing element")

// Index is a validated array position: either an element index or the
// append marker.
type Index struct {
	N      int
	Append bool
}

// validateIndex interprets an array token for op. "-" is only accepted by
// operations that add at the destination.
func validateIndex(token string, op OpKind) (Index, error) {
	if token == "-" {
		switch op {
		case OpAdd, OpMove, OpCopy:
			return Index{Append: true}, nil
		}
		return Index{}, errors.Errorf("the append marker \"-\" is only valid for add, move and copy, not %s", opName(op))
	}
	if strings.HasPrefix(token, "-") && isDigits(token[1:]) {
		return Index{}, errors.Errorf("array index %s is negative", token)
	}
	if !isDigits(token) {
		return Index{}, errors.Errorf("array index %q is not a number", token)
	}
	if len(token) > 1 && token[0] == '0' {
		return Index{}, errors.Errorf("array index %q has a leading zero", token)
	}
	n, err := strconv.Atoi(token)
	if errors.Is(err, strconv.ErrRange) {
		// Larger than any array; the bounds check reports it.
		return Index{N: math.MaxInt}, nil
	}
	if err != nil {
		return Index{}, errors.Errorf("array index %q is not a number", token)
	}
	return Index{N: n}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func opName(op OpKind) string {
	if op == "" {
		return "this operation"
	}
	return string(op)
}

func (p *patcher) malformedIndex(arr Node, tokens []string, token string, err error) error {
	return newError(MalformedPath, p.op, tokens).
		token(token).
		node(arr).
		cause(err).
		msgf("%v", err)
}
