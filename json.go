package nodepatch

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// MarshalJSON encodes the operation as an RFC 6902 operation object. The
// "value" member is always written for add, replace and test, even when it
// is null.
func (op Operation) MarshalJSON() ([]byte, error) {
	members := map[string]interface{}{
		"op":   op.Op,
		"path": op.Path,
	}
	if op.needsFrom() {
		members["from"] = op.From
	}
	switch op.Op {
	case OpAdd, OpReplace, OpTest:
		members["value"] = op.Value
	}
	return json.Marshal(members)
}

// UnmarshalJSON decodes an RFC 6902 patch document.
func (patch *Patch) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "patch must be a JSON array of operations")
	}
	*patch = (*patch)[:0]
	return patch.DecodeJSON(raw)
}

// DecodeJSON decodes a patch from an []interface{} as parsed by encoding/json
// or gopkg.in/yaml.v3, and appends the operations to the patch.
//
// Only the shape of each operation is checked here; unknown ops are kept so
// that applying them reports UnsupportedOperation.
func (patch *Patch) DecodeJSON(data []interface{}) error {
	for i, entry := range data {
		members, err := jsonObject(entry)
		if err != nil {
			return errors.Wrapf(err, "operation %d", i)
		}
		op, err := decodeOperation(members)
		if err != nil {
			return errors.Wrapf(err, "operation %d", i)
		}
		*patch = append(*patch, op)
	}
	return nil
}

func decodeOperation(members map[string]interface{}) (Operation, error) {
	var op Operation

	name, err := jsonString(members, "op", true)
	if err != nil {
		return op, err
	}
	op.Op = OpKind(name)

	if op.Path, err = jsonString(members, "path", true); err != nil {
		return op, err
	}
	if op.From, err = jsonString(members, "from", false); err != nil {
		return op, err
	}

	value, ok := members["value"]
	switch op.Op {
	case OpAdd, OpReplace, OpTest:
		if !ok {
			return op, errors.Errorf("%s requires a \"value\" member", op.Op)
		}
		op.Value = value
	}
	return op, nil
}

func jsonObject(v interface{}) (map[string]interface{}, error) {
	switch v := v.(type) {
	case map[string]interface{}:
		return v, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			key, ok := k.(string)
			if !ok {
				return nil, errors.Errorf("member name %v is not a string", k)
			}
			out[key] = val
		}
		return out, nil
	default:
		return nil, errors.Errorf("expected an object, got %s", typeName(v))
	}
}

func jsonString(members map[string]interface{}, name string, required bool) (string, error) {
	v, ok := members[name]
	if !ok {
		if required {
			return "", errors.Errorf("missing %q member", name)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("member %q must be a string, got %s", name, typeName(v))
	}
	return s, nil
}
