package nodepatch_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sanity-io/nodepatch"
	"github.com/stretchr/testify/require"
)

func parsePatch(t *testing.T, ops string) nodepatch.Patch {
	t.Helper()
	var patch nodepatch.Patch
	require.NoError(t, json.Unmarshal([]byte(ops), &patch))
	return patch
}

func apply(t *testing.T, root nodepatch.Container, ops string) error {
	t.Helper()
	return nodepatch.Apply(root, parsePatch(t, ops))
}

func document(t *testing.T, doc string) nodepatch.Container {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	root, ok := nodepatch.FromValue(v).(nodepatch.Container)
	require.True(t, ok, "document root must be a container")
	return root
}

func get(t *testing.T, root nodepatch.Container, path string) interface{} {
	t.Helper()
	v, err := nodepatch.GetValueAtPath(root, path)
	require.NoError(t, err)
	return v
}

func patchError(t *testing.T, err error, kind nodepatch.ErrorKind) *nodepatch.Error {
	t.Helper()
	require.Error(t, err)
	var perr *nodepatch.Error
	require.True(t, errors.As(err, &perr), "expected *nodepatch.Error, got %T", err)
	require.Equal(t, kind, perr.Kind(), perr.Error())
	return perr
}

func address() *nodepatch.Object {
	return nodepatch.NewFieldObject(
		&nodepatch.Field{Name: "city", Type: nodepatch.StringType, Nullable: true},
		&nodepatch.Field{Name: "zip", Type: nodepatch.StringType, Default: "00000"},
	)
}

func person() *nodepatch.Object {
	return nodepatch.NewFieldObject(
		&nodepatch.Field{Name: "name", Type: nodepatch.StringType, Default: ""},
		&nodepatch.Field{Name: "address", Type: nodepatch.ObjectType, Prototype: address},
		&nodepatch.Field{Name: "age", Type: nodepatch.IntegerType, Nullable: true},
		&nodepatch.Field{Name: "score", Type: nodepatch.NumberType, Nullable: true},
		&nodepatch.Field{Name: "active", Type: nodepatch.BooleanType, Default: false},
		&nodepatch.Field{Name: "meta", Type: nodepatch.AnyType, Nullable: true},
	)
}
