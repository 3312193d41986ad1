package nodepatch_test

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/sanity-io/nodepatch"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPatchBuilder(t *testing.T) {
	var patch nodepatch.Patch
	patch.Add("/a", 1)
	patch.Remove("/b")
	patch.Replace("/c", "x")
	patch.Move("/d", "/e")
	patch.Copy("/f", "/g")
	patch.Test("/h", nil)

	require.Equal(t, nodepatch.Patch{
		{Op: nodepatch.OpAdd, Path: "/a", Value: 1},
		{Op: nodepatch.OpRemove, Path: "/b"},
		{Op: nodepatch.OpReplace, Path: "/c", Value: "x"},
		{Op: nodepatch.OpMove, From: "/d", Path: "/e"},
		{Op: nodepatch.OpCopy, From: "/f", Path: "/g"},
		{Op: nodepatch.OpTest, Path: "/h"},
	}, patch)
	require.NoError(t, patch.Validate())
}

func TestValidate(t *testing.T) {
	patch := nodepatch.Patch{
		{Op: "frobnicate", Path: "/a"},
		{Op: nodepatch.OpAdd, Path: "a"},
		{Op: nodepatch.OpRemove, Path: "/"},
		{Op: nodepatch.OpMove, Path: "/b"},
		{Op: nodepatch.OpCopy, From: "nope", Path: "/b"},
		{Op: nodepatch.OpTest, Path: "/ok", Value: 1},
	}

	err := patch.Validate()
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)

	var kinds []nodepatch.ErrorKind
	for _, e := range merr.Errors {
		perr, ok := e.(*nodepatch.Error)
		require.True(t, ok)
		_, hasOp := perr.Operation()
		require.True(t, hasOp)
		kinds = append(kinds, perr.Kind())
	}
	require.Equal(t, []nodepatch.ErrorKind{
		nodepatch.UnsupportedOperation,
		nodepatch.MalformedPath,
		nodepatch.MalformedPath,
		nodepatch.MalformedPath,
		nodepatch.MalformedPath,
	}, kinds)
}

func TestJSONRoundtrip(t *testing.T) {
	patch := parsePatch(t, `[
		{"op": "test", "path": "/a", "value": null},
		{"op": "move", "from": "/b", "path": "/c"},
		{"op": "add", "path": "/d", "value": {"e": [1]}}
	]`)
	require.Equal(t, nodepatch.Patch{
		{Op: nodepatch.OpTest, Path: "/a"},
		{Op: nodepatch.OpMove, From: "/b", Path: "/c"},
		{Op: nodepatch.OpAdd, Path: "/d", Value: map[string]interface{}{"e": []interface{}{1.0}}},
	}, patch)

	b, err := json.Marshal(patch)
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"op": "test", "path": "/a", "value": null},
		{"op": "move", "from": "/b", "path": "/c"},
		{"op": "add", "path": "/d", "value": {"e": [1]}}
	]`, string(b))

	var decoded nodepatch.Patch
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, patch, decoded)
}

func TestDecodeJSONErrors(t *testing.T) {
	for _, doc := range []string{
		`{"op": "add"}`,
		`[1]`,
		`[{"path": "/a"}]`,
		`[{"op": 1, "path": "/a"}]`,
		`[{"op": "add", "path": "/a"}]`,
		`[{"op": "remove", "path": 7}]`,
		`[{"op": "copy", "from": false, "path": "/a"}]`,
	} {
		var patch nodepatch.Patch
		require.Error(t, json.Unmarshal([]byte(doc), &patch), doc)
	}
}

func TestDecodeYAML(t *testing.T) {
	var raw []interface{}
	require.NoError(t, yaml.Unmarshal([]byte(`
- op: add
  path: /tags/-
  value: {name: x}
- op: copy
  from: /a
  path: /b
`), &raw))

	var patch nodepatch.Patch
	require.NoError(t, patch.DecodeJSON(raw))
	require.Equal(t, nodepatch.Patch{
		{Op: nodepatch.OpAdd, Path: "/tags/-", Value: map[string]interface{}{"name": "x"}},
		{Op: nodepatch.OpCopy, From: "/a", Path: "/b"},
	}, patch)
}

// valueStream is a Writer and Reader over a list of values.
type valueStream struct {
	values []interface{}
	pos    int
}

func (s *valueStream) WriteUint8(v uint8) error {
	s.values = append(s.values, v)
	return nil
}

func (s *valueStream) WriteString(v string) error {
	s.values = append(s.values, v)
	return nil
}

func (s *valueStream) WriteValue(v interface{}) error {
	s.values = append(s.values, v)
	return nil
}

func (s *valueStream) next() (interface{}, error) {
	if s.pos >= len(s.values) {
		return nil, io.EOF
	}
	s.pos++
	return s.values[s.pos-1], nil
}

func (s *valueStream) ReadUint8() (uint8, error) {
	v, err := s.next()
	if err != nil {
		return 0, err
	}
	return v.(uint8), nil
}

func (s *valueStream) ReadString() (string, error) {
	v, err := s.next()
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *valueStream) ReadValue() (interface{}, error) {
	return s.next()
}

func TestCodec(t *testing.T) {
	var patch nodepatch.Patch
	patch.Add("/a", "x")
	patch.Remove("/b")
	patch.Move("/c", "/d")
	patch.Test("/e", nil)

	var s valueStream
	require.NoError(t, patch.WriteTo(&s))
	require.Equal(t, []interface{}{
		uint8(0), "/a", "x",
		uint8(1), "/b",
		uint8(3), "/d", "/c",
		uint8(5), "/e", nil,
	}, s.values)

	var decoded nodepatch.Patch
	require.NoError(t, decoded.ReadFrom(&s))
	require.Equal(t, patch, decoded)
}

func TestCodecErrors(t *testing.T) {
	var s valueStream
	err := nodepatch.WriteTo(&s, nodepatch.Operation{Op: "frobnicate", Path: "/a"})
	patchError(t, err, nodepatch.UnsupportedOperation)

	s = valueStream{values: []interface{}{uint8(9), "/a"}}
	_, err = nodepatch.ReadFrom(&s)
	require.Error(t, err)

	s = valueStream{values: []interface{}{uint8(0), "/a"}}
	var patch nodepatch.Patch
	require.Error(t, patch.ReadFrom(&s))
}
