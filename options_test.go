package nodepatch_test

import (
	"testing"

	"github.com/sanity-io/nodepatch"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type Custom struct {
	attrs map[string]interface{}
}

func TestConvert(t *testing.T) {
	opts := nodepatch.DefaultOptions.WithConvertFunc(func(value interface{}) interface{} {
		if value, ok := value.(Custom); ok {
			return value.attrs
		}
		return value
	})

	root := nodepatch.NewObject()
	var patch nodepatch.Patch
	patch.Add("/doc", Custom{
		attrs: map[string]interface{}{
			"a": "abcdefgh",
			"b": []interface{}{Custom{attrs: map[string]interface{}{"c": 123.0}}},
		},
	})
	patch.Test("/doc/b/0", Custom{attrs: map[string]interface{}{"c": 123.0}})

	require.NoError(t, opts.Apply(root, patch))
	require.EqualValues(t, map[string]interface{}{
		"doc": map[string]interface{}{
			"a": "abcdefgh",
			"b": []interface{}{map[string]interface{}{"c": 123.0}},
		},
	}, root.Value())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts := nodepatch.DefaultOptions.WithLogger(zap.New(core))

	root := nodepatch.NewObject(nodepatch.Child{Title: "a", Node: nodepatch.NewLeaf(1.0)})
	var patch nodepatch.Patch
	patch.Replace("/a", 2.0)
	patch.Remove("/missing")

	err := opts.Apply(root, patch)
	require.ErrorIs(t, err, nodepatch.UnresolvableSegment)

	applying := logs.FilterMessage("applying operation").All()
	require.Len(t, applying, 2)
	require.Equal(t, "replace", applying[0].ContextMap()["op"])
	require.Equal(t, "/missing", applying[1].ContextMap()["path"])

	failed := logs.FilterMessage("operation failed").All()
	require.Len(t, failed, 1)
	require.EqualValues(t, 1, failed[0].ContextMap()["index"])
	require.Zero(t, logs.FilterMessage("patch applied").Len())
}

func TestDefaultOptionsDoNotLog(t *testing.T) {
	root := nodepatch.NewObject()
	var patch nodepatch.Patch
	patch.Add("/a", "b")
	require.NoError(t, nodepatch.Apply(root, patch))
	require.Equal(t, map[string]interface{}{"a": "b"}, root.Value())
}
