package nodepatch_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sanity-io/nodepatch"
	"github.com/stretchr/testify/require"
)

func TestErrorDetail(t *testing.T) {
	root := document(t, `{"items": [1, 2]}`)
	err := apply(t, root, `[{"op": "remove", "path": "/items/5"}]`)
	perr := patchError(t, err, nodepatch.IndexOutOfRange)

	op, ok := perr.Operation()
	require.True(t, ok)
	require.Equal(t, nodepatch.Operation{Op: nodepatch.OpRemove, Path: "/items/5"}, op)
	require.Equal(t, []string{"items", "5"}, perr.Path())
	require.Equal(t, "5", perr.Token())

	detail := perr.Detail()
	require.Equal(t, "IndexOutOfRange", detail["kind"])
	require.Equal(t, "/items/5", detail["path"])
	require.Equal(t, "5", detail["token"])
	require.Equal(t, "array(length: 2)", detail["node"])
	require.Equal(t, map[string]interface{}{"op": "remove", "path": "/items/5"}, detail["operation"])
	require.NotContains(t, detail, "available")

	b, err := json.Marshal(perr)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "IndexOutOfRange", decoded["kind"])
	require.Equal(t, []interface{}{"items", "5"}, decoded["tokens"])
}

func TestErrorString(t *testing.T) {
	root := document(t, `{"items": [1, 2]}`)
	err := apply(t, root, `[{"op": "remove", "path": "/items/5"}]`)
	require.Equal(t,
		"IndexOutOfRange (remove /items/5): index 5 is out of bounds for remove on array of length 2 (valid: 0..1)",
		err.Error())
}

func TestErrorIs(t *testing.T) {
	root := document(t, `{"a": {"b": "leaf"}}`)

	err := apply(t, root, `[{"op": "add", "path": "/a/b/c", "value": 1}]`)
	require.True(t, errors.Is(err, nodepatch.NonNavigableSegment))
	require.False(t, errors.Is(err, nodepatch.UnresolvableSegment))

	perr := patchError(t, err, nodepatch.NonNavigableSegment)
	require.Equal(t, "c", perr.Token())
	require.Equal(t, "leaf(string)", perr.Detail()["node"])
	require.Contains(t, perr.Message(), "/a/b holds a string")
}

func TestErrorAvailable(t *testing.T) {
	root := document(t, `{"a": {"x": 1, "y": 2}}`)
	err := apply(t, root, `[{"op": "replace", "path": "/a/z", "value": 1}]`)
	perr := patchError(t, err, nodepatch.UnresolvableSegment)
	require.Equal(t, []string{"x", "y"}, perr.Available())
	require.Equal(t, []interface{}{"x", "y"}, toJSON(t, perr)["available"])
	require.Equal(t, "object(children: x, y)", perr.Detail()["node"])
}

func TestErrorCause(t *testing.T) {
	root := document(t, `{"a": [1]}`)
	err := apply(t, root, `[{"op": "remove", "path": "/a/first"}]`)
	perr := patchError(t, err, nodepatch.MalformedPath)
	require.NotNil(t, errors.Unwrap(perr))
	require.Contains(t, perr.Detail()["cause"], "not a number")
}

func toJSON(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}
